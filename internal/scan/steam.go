package scan

import (
	"cmp"
	"context"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/andygrunwald/vdf"
	"github.com/go-viper/mapstructure/v2"
	"github.com/ryanm101/gamecat/internal/catalog"
	"github.com/ryanm101/gamecat/internal/logging"
)

const (
	steamAppsDir         = "steamapps"
	libraryFoldersFile   = "libraryfolders.vdf"
	appManifestPrefix    = "appmanifest_"
	appManifestSuffix    = ".acf"
	steamCommonDir       = "common"
	libraryFoldersKey    = "libraryfolders"
	appStateKey          = "AppState"
	libraryFolderPathKey = "path"
)

// appState is the part of an appmanifest_*.acf file we use.
type appState struct {
	AppID      string `mapstructure:"appid" validate:"required,numeric"`
	Name       string `mapstructure:"name" validate:"required"`
	InstallDir string `mapstructure:"installdir" validate:"required"`
}

// SteamScanner reads Steam library folders and app manifests.
// The scan root is the Steam install directory.
type SteamScanner struct{}

// NewSteamScanner creates a Steam scanner.
func NewSteamScanner() *SteamScanner {
	return &SteamScanner{}
}

// Platform returns catalog.PlatformSteam.
func (s *SteamScanner) Platform() catalog.Platform {
	return catalog.PlatformSteam
}

// Scan lists every library in libraryfolders.vdf and returns one candidate
// per valid app manifest. An unreadable library or manifest is skipped.
func (s *SteamScanner) Scan(ctx context.Context, root string) ([]catalog.Candidate, error) {
	vdfPath := filepath.Join(root, steamAppsDir, libraryFoldersFile)
	libraries, err := readLibraryFolders(vdfPath)
	if err != nil {
		return nil, &ScanError{Platform: catalog.PlatformSteam, Path: vdfPath, Err: err}
	}
	libraries = withRoot(root, libraries)

	log := logging.With("platform", catalog.PlatformSteam.String())
	var candidates []catalog.Candidate
	for _, lib := range libraries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		found, err := scanSteamLibrary(ctx, lib)
		if err != nil {
			log.Warn("skipping library", "path", lib, "error", err)
			continue
		}
		candidates = append(candidates, found...)
	}
	return candidates, nil
}

// scanSteamLibrary returns the candidates of one library folder.
func scanSteamLibrary(ctx context.Context, lib string) ([]catalog.Candidate, error) {
	appsDir := filepath.Join(lib, steamAppsDir)
	files, err := os.ReadDir(appsDir)
	if err != nil {
		return nil, err
	}

	log := logging.With("platform", catalog.PlatformSteam.String())
	var candidates []catalog.Candidate
	for _, f := range files {
		name := f.Name()
		if f.IsDir() || !strings.HasPrefix(name, appManifestPrefix) || !strings.HasSuffix(name, appManifestSuffix) {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		manifestPath := filepath.Join(appsDir, name)
		app, err := readAppManifest(manifestPath)
		if err != nil {
			log.Warn("skipping app manifest", "path", manifestPath, "error", err)
			continue
		}

		candidates = append(candidates, catalog.Candidate{
			Name:        app.Name,
			ExternalID:  app.AppID,
			InstallPath: filepath.Join(lib, steamAppsDir, steamCommonDir, app.InstallDir),
			Platform:    catalog.PlatformSteam,
		})
	}
	return candidates, nil
}

// readLibraryFolders returns the library paths listed in libraryfolders.vdf.
// Both the current format (numbered objects with a "path" key) and the
// legacy format (numbered bare strings) are understood.
func readLibraryFolders(path string) ([]string, error) {
	doc, err := parseVDF(path)
	if err != nil {
		return nil, err
	}

	folders, ok := lookupMap(doc, libraryFoldersKey)
	if !ok {
		return nil, fmt.Errorf("missing %q section", libraryFoldersKey)
	}

	keys := slices.SortedFunc(maps.Keys(folders), compareNumericKeys)
	var libraries []string
	for _, k := range keys {
		if _, err := strconv.Atoi(k); err != nil {
			continue // contentstatsid, TimeNextStatsReport
		}
		switch v := folders[k].(type) {
		case string:
			libraries = append(libraries, v)
		case map[string]interface{}:
			if p, ok := lookupString(v, libraryFolderPathKey); ok {
				libraries = append(libraries, p)
			}
		}
	}
	return libraries, nil
}

// readAppManifest decodes and validates the AppState of an .acf file.
func readAppManifest(path string) (*appState, error) {
	doc, err := parseVDF(path)
	if err != nil {
		return nil, err
	}

	raw, ok := lookupMap(doc, appStateKey)
	if !ok {
		return nil, fmt.Errorf("%w: missing %q section", ErrInvalidManifest, appStateKey)
	}

	var app appState
	if err := mapstructure.Decode(raw, &app); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidManifest, err)
	}
	if err := validateManifest(&app); err != nil {
		return nil, err
	}
	return &app, nil
}

func parseVDF(path string) (map[string]interface{}, error) {
	f, err := os.Open(path) // #nosec G304 -- path built from the scan root
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	doc, err := vdf.NewParser(f).Parse()
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}
	return doc, nil
}

// withRoot puts the Steam install directory first and drops duplicates.
// Older Steam clients do not list it in libraryfolders.vdf.
func withRoot(root string, libraries []string) []string {
	out := []string{root}
	seen := map[string]bool{catalog.NormalizePath(root): true}
	for _, lib := range libraries {
		key := catalog.NormalizePath(lib)
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, lib)
	}
	return out
}

// compareNumericKeys orders "2" before "10"; non-numeric keys sort last.
func compareNumericKeys(a, b string) int {
	ai, aerr := strconv.Atoi(a)
	bi, berr := strconv.Atoi(b)
	switch {
	case aerr == nil && berr == nil:
		return cmp.Compare(ai, bi)
	case aerr == nil:
		return -1
	case berr == nil:
		return 1
	default:
		return strings.Compare(a, b)
	}
}

func lookupMap(m map[string]interface{}, key string) (map[string]interface{}, bool) {
	for k, v := range m {
		if strings.EqualFold(k, key) {
			sub, ok := v.(map[string]interface{})
			return sub, ok
		}
	}
	return nil, false
}

func lookupString(m map[string]interface{}, key string) (string, bool) {
	for k, v := range m {
		if strings.EqualFold(k, key) {
			s, ok := v.(string)
			return s, ok
		}
	}
	return "", false
}
