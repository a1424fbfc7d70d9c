// Package search implements the case-insensitive substring
// scan over searchable entries produced by the index service.
package search

import (
	"strings"

	"sessiondex/internal/index"
)

// snippetContext is the number of characters kept on each side
// of the first content match.
const snippetContext = 40

// Match pairs a matched entry with a snippet of the content
// around the first occurrence of the query. Snippet is empty
// when only the title matched.
type Match struct {
	Entry   index.SearchableEntry
	Snippet string
}

// Filter returns the entries whose title or content text
// contains query, compared case-insensitively. A blank query
// matches nothing. Input order is preserved.
func Filter(entries []index.SearchableEntry, query string) []Match {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil
	}

	var matches []Match
	for _, e := range entries {
		titleHit := strings.Contains(strings.ToLower(e.Title), q)
		idx := strings.Index(strings.ToLower(e.ContentText), q)
		if !titleHit && idx < 0 {
			continue
		}
		m := Match{Entry: e}
		if idx >= 0 {
			m.Snippet = snippet(e.ContentText, idx, len(q))
		}
		matches = append(matches, m)
	}
	return matches
}

// snippet cuts the content around a match and collapses it to
// a single line.
func snippet(content string, start, matchLen int) string {
	lo := start - snippetContext
	if lo < 0 {
		lo = 0
	}
	hi := start + matchLen + snippetContext
	if hi > len(content) {
		hi = len(content)
	}
	return strings.Join(strings.Fields(content[lo:hi]), " ")
}
