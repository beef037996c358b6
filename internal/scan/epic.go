package scan

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ryanm101/gamecat/internal/catalog"
	"github.com/ryanm101/gamecat/internal/logging"
)

const epicManifestExt = ".item"

// epicManifest is the part of an Epic launcher .item file we use.
type epicManifest struct {
	DisplayName     string `json:"DisplayName" validate:"required"`
	AppName         string `json:"AppName"`
	InstallLocation string `json:"InstallLocation"`
}

// EpicScanner reads Epic Games Launcher manifests.
// The scan root is the launcher's Manifests directory.
type EpicScanner struct{}

// NewEpicScanner creates an Epic Games scanner.
func NewEpicScanner() *EpicScanner {
	return &EpicScanner{}
}

// Platform returns catalog.PlatformEpic.
func (s *EpicScanner) Platform() catalog.Platform {
	return catalog.PlatformEpic
}

// Scan returns one candidate per valid .item manifest in root.
func (s *EpicScanner) Scan(ctx context.Context, root string) ([]catalog.Candidate, error) {
	files, err := os.ReadDir(root)
	if err != nil {
		return nil, &ScanError{Platform: catalog.PlatformEpic, Path: root, Err: err}
	}

	log := logging.With("platform", catalog.PlatformEpic.String())
	var candidates []catalog.Candidate
	for _, f := range files {
		if f.IsDir() || !strings.EqualFold(filepath.Ext(f.Name()), epicManifestExt) {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		path := filepath.Join(root, f.Name())
		m, err := readEpicManifest(path)
		if err != nil {
			log.Warn("skipping manifest", "path", path, "error", err)
			continue
		}

		candidates = append(candidates, catalog.Candidate{
			Name:        m.DisplayName,
			ExternalID:  m.AppName,
			InstallPath: m.InstallLocation,
			Platform:    catalog.PlatformEpic,
		})
	}
	return candidates, nil
}

func readEpicManifest(path string) (*epicManifest, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- path built from the scan root
	if err != nil {
		return nil, err
	}

	var m epicManifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidManifest, err)
	}
	if err := validateManifest(&m); err != nil {
		return nil, err
	}
	return &m, nil
}
