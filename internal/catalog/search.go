package catalog

import (
	"cmp"
	"slices"
	"strings"
	"unicode"
)

// Matcher finds catalog entries by approximate name.
type Matcher struct {
	Threshold int // Maximum Levenshtein distance to consider a match (default: 5)
}

// NewMatcher creates a matcher with the default threshold.
func NewMatcher() *Matcher {
	return &Matcher{Threshold: 5}
}

// Match is a search hit.
type Match struct {
	Entry      Entry
	Distance   int
	Confidence float64 // 0.0 to 1.0, higher is better
	Substring  bool    // query is contained in the normalized name
}

// LevenshteinDistance computes the edit distance between two strings after
// normalizing both.
func LevenshteinDistance(a, b string) int {
	ra := []rune(normalizeName(a))
	rb := []rune(normalizeName(b))

	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}

	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 0
			if ra[i-1] != rb[j-1] {
				cost = 1
			}
			curr[j] = min(
				prev[j]+1,      // deletion
				curr[j-1]+1,    // insertion
				prev[j-1]+cost, // substitution
			)
		}
		prev, curr = curr, prev
	}

	return prev[len(rb)]
}

// normalizeName keeps only lower-cased letters and digits, so "Half-Life 2™"
// and "half life 2" compare equal.
func normalizeName(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Search returns entries whose name contains the query or lies within the
// threshold distance of it. Substring hits rank first, then by distance;
// ties keep the input order.
func (m *Matcher) Search(entries []Entry, query string) []Match {
	q := normalizeName(query)
	if q == "" {
		return nil
	}

	var matches []Match
	for _, e := range entries {
		name := normalizeName(e.Name)
		if name == "" {
			continue
		}

		distance := LevenshteinDistance(name, q)
		substring := strings.Contains(name, q)
		if !substring && distance > m.Threshold {
			continue
		}

		maxLen := max(len([]rune(name)), len([]rune(q)))
		matches = append(matches, Match{
			Entry:      e,
			Distance:   distance,
			Confidence: 1.0 - float64(distance)/float64(maxLen),
			Substring:  substring,
		})
	}

	slices.SortStableFunc(matches, func(a, b Match) int {
		if a.Substring != b.Substring {
			if a.Substring {
				return -1
			}
			return 1
		}
		return cmp.Compare(a.Distance, b.Distance)
	})
	return matches
}

// FindBest returns the closest match, or nil when nothing is within range.
func (m *Matcher) FindBest(entries []Entry, query string) *Match {
	matches := m.Search(entries, query)
	if len(matches) == 0 {
		return nil
	}
	return &matches[0]
}
