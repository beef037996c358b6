package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/ryanm101/gamecat/internal/logging"
	"github.com/ryanm101/gamecat/internal/tracing"
	"go.opentelemetry.io/otel/attribute"
)

// Store reads and writes the catalog document on local disk.
// It assumes a single writer.
type Store struct {
	path string
}

// NewStore creates a store for the document at path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the document location.
func (s *Store) Path() string {
	return s.path
}

// Load reads the catalog. A missing, unreadable or corrupt document yields an
// empty catalog so a first run can bootstrap; only the corrupt and unreadable
// cases are logged.
func (s *Store) Load(ctx context.Context) (*Catalog, error) {
	cat, err := s.LoadStrict(ctx)
	if err == nil {
		return cat, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		logging.Debug("catalog not found, starting empty", "path", s.path)
	} else {
		logging.Warn("failed to load catalog, starting empty", "path", s.path, "error", err)
	}
	return &Catalog{}, nil
}

// LoadStrict reads the catalog and reports every failure, including a
// missing document.
func (s *Store) LoadStrict(ctx context.Context) (*Catalog, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, &StoreError{Op: "read", Path: s.path, Err: err}
	}

	cat := &Catalog{}
	if err := json.Unmarshal(data, cat); err != nil {
		return nil, &StoreError{Op: "decode", Path: s.path, Err: fmt.Errorf("%w: %v", ErrCorrupt, err)}
	}
	return cat, nil
}

// Save writes the catalog as indented JSON. The document is written to a
// temporary file in the same directory and renamed over the old one, so a
// failed write never leaves a truncated catalog behind.
func (s *Store) Save(ctx context.Context, cat *Catalog) (err error) {
	_, span := tracing.StartSpan(ctx, "store.save",
		tracing.WithAttributes(
			attribute.String("path", s.path),
			attribute.Int("entries", len(cat.Entries)),
		))
	defer func() {
		tracing.RecordError(span, err)
		span.End()
	}()

	data, err := json.MarshalIndent(cat, "", "  ")
	if err != nil {
		return &StoreError{Op: "encode", Path: s.path, Err: err}
	}
	data = append(data, '\n')

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil { //nolint:gosec // per-user config dir
		return &StoreError{Op: "create dir", Path: s.path, Err: err}
	}

	tmp, err := os.CreateTemp(dir, ".catalog-*.json")
	if err != nil {
		return &StoreError{Op: "create temp", Path: s.path, Err: err}
	}
	tmpPath := tmp.Name()
	defer func() {
		if err != nil {
			_ = os.Remove(tmpPath)
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		_ = tmp.Close()
		return &StoreError{Op: "write", Path: s.path, Err: err}
	}
	if err = tmp.Sync(); err != nil {
		_ = tmp.Close()
		return &StoreError{Op: "sync", Path: s.path, Err: err}
	}
	if err = tmp.Close(); err != nil {
		return &StoreError{Op: "close", Path: s.path, Err: err}
	}
	if err = os.Chmod(tmpPath, 0o644); err != nil { //nolint:gosec // catalog is not secret
		return &StoreError{Op: "chmod", Path: s.path, Err: err}
	}
	if err = os.Rename(tmpPath, s.path); err != nil {
		return &StoreError{Op: "rename", Path: s.path, Err: err}
	}

	logging.Debug("catalog saved", "path", s.path, "entries", len(cat.Entries))
	return nil
}
