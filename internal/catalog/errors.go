package catalog

import (
	"errors"
	"fmt"
)

// Sentinel errors for common conditions.
var (
	ErrNotFound   = errors.New("not found")
	ErrDuplicate  = errors.New("duplicate entry")
	ErrInvalidArg = errors.New("invalid argument")
	ErrCorrupt    = errors.New("corrupt catalog")
)

// StoreError provides context for catalog document errors.
type StoreError struct {
	Op   string // Operation that failed (e.g., "read", "rename")
	Path string // Catalog document path
	Err  error  // Underlying error
}

func (e *StoreError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s catalog '%s': %v", e.Op, e.Path, e.Err)
	}
	return fmt.Sprintf("%s catalog: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// EntryError provides context for errors about a single entry.
type EntryError struct {
	Op       string
	Platform Platform
	Name     string
	Err      error
}

func (e *EntryError) Error() string {
	if e.Platform != "" {
		return fmt.Sprintf("%s '%s/%s': %v", e.Op, e.Platform, e.Name, e.Err)
	}
	return fmt.Sprintf("%s '%s': %v", e.Op, e.Name, e.Err)
}

func (e *EntryError) Unwrap() error {
	return e.Err
}

// NotFoundError returns an error for an entry that is not in the catalog.
func NotFoundError(platform Platform, name string) error {
	return &EntryError{Op: "find game", Platform: platform, Name: name, Err: ErrNotFound}
}
