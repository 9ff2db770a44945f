package discovery

import (
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/lepinkainen/folio/internal/openlibrary"
)

// SortKey selects a result ordering.
type SortKey string

const (
	SortRelevance    SortKey = "relevance"
	SortNewest       SortKey = "newest"
	SortOldest       SortKey = "oldest"
	SortAlphabetical SortKey = "alphabetical"
)

// SortKeys lists the orderings in display order.
var SortKeys = []SortKey{SortRelevance, SortNewest, SortOldest, SortAlphabetical}

const (
	// undated documents sink to the bottom in both year orderings
	newestMissingYear = 0
	oldestMissingYear = 9999
)

// ParseSortKey maps input to a SortKey; unknown keys mean relevance.
func ParseSortKey(s string) SortKey {
	switch SortKey(strings.ToLower(strings.TrimSpace(s))) {
	case SortNewest:
		return SortNewest
	case SortOldest:
		return SortOldest
	case SortAlphabetical:
		return SortAlphabetical
	default:
		return SortRelevance
	}
}

// Label is the human readable name of the ordering.
func (k SortKey) Label() string {
	switch ParseSortKey(string(k)) {
	case SortNewest:
		return "Newest first"
	case SortOldest:
		return "Oldest first"
	case SortAlphabetical:
		return "Alphabetical"
	default:
		return "Relevance"
	}
}

// Next cycles to the following ordering.
func (k SortKey) Next() SortKey {
	current := ParseSortKey(string(k))
	for i, key := range SortKeys {
		if key == current {
			return SortKeys[(i+1)%len(SortKeys)]
		}
	}
	return SortRelevance
}

// Sort returns a sorted copy of docs. The input is never modified and equal
// elements keep their relative order.
func Sort(docs []openlibrary.Document, key SortKey) []openlibrary.Document {
	out := append([]openlibrary.Document(nil), docs...)

	switch ParseSortKey(string(key)) {
	case SortNewest:
		sort.SliceStable(out, func(i, j int) bool {
			return yearOr(out[i], newestMissingYear) > yearOr(out[j], newestMissingYear)
		})
	case SortOldest:
		sort.SliceStable(out, func(i, j int) bool {
			return yearOr(out[i], oldestMissingYear) < yearOr(out[j], oldestMissingYear)
		})
	case SortAlphabetical:
		col := collate.New(language.Und, collate.IgnoreCase)
		sort.SliceStable(out, func(i, j int) bool {
			return col.CompareString(out[i].Title, out[j].Title) < 0
		})
	}
	return out
}

func yearOr(doc openlibrary.Document, fallback int) int {
	if year, ok := doc.Year(); ok {
		return year
	}
	return fallback
}
