package catalog

import (
	"path"
	"strings"
)

// NormalizePath returns the comparison form of an install path: separators
// unified to '/', cleaned, without a trailing separator, lower-cased.
// A leading "//" (UNC share) is kept. The empty path normalizes to the
// empty string.
func NormalizePath(p string) string {
	p = strings.TrimSpace(p)
	if p == "" {
		return ""
	}
	p = strings.ReplaceAll(p, `\`, "/")
	unc := strings.HasPrefix(p, "//") && !strings.HasPrefix(p, "///")
	p = path.Clean(p)
	if unc && p != "/" {
		p = "/" + p
	}
	return strings.ToLower(p)
}

// SamePath reports whether a and b normalize to the same non-empty path.
func SamePath(a, b string) bool {
	na := NormalizePath(a)
	return na != "" && na == NormalizePath(b)
}
