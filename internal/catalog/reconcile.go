package catalog

import (
	"cmp"
	"slices"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// ReconcileResult contains the merged entries and statistics from one pass.
type ReconcileResult struct {
	Entries []Entry
	Added   int // Candidates appended as new entries
	Matched int // Candidates that resolved to an existing entry
	Updated int // Matched entries whose install path was corrected
	Skipped int // Candidates rejected by Validate
}

// Changed reports whether the pass added or modified any entry.
func (r *ReconcileResult) Changed() bool {
	return r.Added > 0 || r.Updated > 0
}

// Reconcile merges discovered candidates into the existing entries.
//
// Every existing entry is kept. A candidate resolves to an entry by
// normalized install path when that path is non-empty, otherwise by
// case-insensitive name on the same platform. A resolved entry only has its
// install path replaced, and only when the candidate carries a different
// non-empty path. Unresolved candidates are appended. The result is in
// canonical order (see SortEntries). Neither input is modified.
func Reconcile(existing []Entry, discovered []Candidate) *ReconcileResult {
	merged := cloneEntries(existing)
	paths := make([]string, len(merged), len(merged)+len(discovered))
	for i := range merged {
		paths[i] = NormalizePath(merged[i].InstallPath)
	}

	res := &ReconcileResult{}
	for _, c := range discovered {
		if err := c.Validate(); err != nil {
			res.Skipped++
			continue
		}

		candPath := NormalizePath(c.InstallPath)
		idx := matchEntry(merged, paths, c, candPath)
		if idx < 0 {
			merged = append(merged, EntryFromCandidate(c))
			paths = append(paths, candPath)
			res.Added++
			continue
		}

		res.Matched++
		if candPath != "" && paths[idx] != candPath {
			merged[idx].InstallPath = c.InstallPath
			paths[idx] = candPath
			res.Updated++
		}
	}

	SortEntries(merged)
	res.Entries = merged
	return res
}

// matchEntry returns the index of the entry c resolves to, or -1.
// Empty paths never match each other.
func matchEntry(entries []Entry, paths []string, c Candidate, candPath string) int {
	if candPath != "" {
		if i := slices.Index(paths, candPath); i >= 0 {
			return i
		}
	}
	for i := range entries {
		if entries[i].Platform == c.Platform && strings.EqualFold(entries[i].Name, c.Name) {
			return i
		}
	}
	return -1
}

// SortEntries orders entries by platform priority, then by name using
// locale-aware collation. Byte order breaks collation ties so the order is
// total; equal entries keep their relative order.
func SortEntries(entries []Entry) {
	col := collate.New(language.Und)
	slices.SortStableFunc(entries, func(a, b Entry) int {
		if c := cmp.Compare(a.Platform.Priority(), b.Platform.Priority()); c != 0 {
			return c
		}
		if c := col.CompareString(a.Name, b.Name); c != 0 {
			return c
		}
		return strings.Compare(a.Name, b.Name)
	})
}
