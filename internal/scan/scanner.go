// Package scan discovers installed games from the supported launchers.
package scan

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/ryanm101/gamecat/internal/catalog"
)

// Errors for the scan package.
var (
	// ErrNoRoot is returned when no scan root could be determined.
	ErrNoRoot = errors.New("no scan root")
	// ErrScannerPanic wraps a recovered panic from a scanner.
	ErrScannerPanic = errors.New("scanner panicked")
	// ErrInvalidManifest is returned for a manifest that fails validation.
	ErrInvalidManifest = errors.New("invalid manifest")
)

// Scanner finds the games one platform has installed under root.
// A returned error means the whole platform failed; unusable records
// are skipped.
type Scanner interface {
	Platform() catalog.Platform
	Scan(ctx context.Context, root string) ([]catalog.Candidate, error)
}

// ScanError provides context for a failed platform scan.
type ScanError struct {
	Platform catalog.Platform
	Path     string
	Err      error
}

func (e *ScanError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("scan %s at '%s': %v", e.Platform, e.Path, e.Err)
	}
	return fmt.Sprintf("scan %s: %v", e.Platform, e.Err)
}

func (e *ScanError) Unwrap() error {
	return e.Err
}

// DefaultScanners returns the scanners for every discoverable platform.
func DefaultScanners() []Scanner {
	return []Scanner{NewSteamScanner(), NewEpicScanner(), NewGOGScanner()}
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// validateManifest checks a decoded manifest against its struct tags.
func validateManifest(v any) error {
	if err := validate.Struct(v); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				fields = append(fields, fe.Field()+":"+fe.Tag())
			}
			return fmt.Errorf("%w: %s", ErrInvalidManifest, strings.Join(fields, ", "))
		}
		return fmt.Errorf("%w: %v", ErrInvalidManifest, err)
	}
	return nil
}
