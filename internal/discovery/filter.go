package discovery

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/lepinkainen/folio/internal/openlibrary"
)

// maxFacetSubjectLen drops the long catalogue-style subject strings from facets.
const maxFacetSubjectLen = 50

// Params narrows a result list. Empty fields impose no constraint; year
// bounds that don't parse as integers are ignored.
type Params struct {
	Author  string `json:"author,omitempty" yaml:"author,omitempty"`
	Subject string `json:"subject,omitempty" yaml:"subject,omitempty"`
	YearMin string `json:"year_min,omitempty" yaml:"year_min,omitempty"`
	YearMax string `json:"year_max,omitempty" yaml:"year_max,omitempty"`
}

// Matches reports whether doc passes every clause. A document without a
// year never fails a year clause.
func (p Params) Matches(doc openlibrary.Document) bool {
	if p.Author != "" && !doc.HasAuthor(p.Author) {
		return false
	}
	if p.Subject != "" && !doc.HasSubject(p.Subject) {
		return false
	}

	year, ok := doc.Year()
	if !ok {
		return true
	}
	if lo, set := parseYear(p.YearMin); set && year < lo {
		return false
	}
	if hi, set := parseYear(p.YearMax); set && year > hi {
		return false
	}
	return true
}

// ActiveCount is the number of active filters, counting a non-relevance
// sort as one.
func (p Params) ActiveCount(sortKey SortKey) int {
	count := 0
	for _, v := range []string{p.Author, p.Subject, p.YearMin, p.YearMax} {
		if v != "" {
			count++
		}
	}
	if ParseSortKey(string(sortKey)) != SortRelevance {
		count++
	}
	return count
}

// IsZero reports whether no filter is set.
func (p Params) IsZero() bool {
	return p == Params{}
}

// Filter returns the documents matching p in their original order.
func Filter(docs []openlibrary.Document, p Params) []openlibrary.Document {
	out := make([]openlibrary.Document, 0, len(docs))
	for _, doc := range docs {
		if p.Matches(doc) {
			out = append(out, doc)
		}
	}
	return out
}

func parseYear(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	year, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return year, true
}

// Facets are the filter choices available for a result list.
type Facets struct {
	Authors  []string
	Subjects []string
	MinYear  int
	MaxYear  int
}

// BuildFacets collects the unique authors and subjects (sorted) and the
// publication year range of docs. Without any dated document the range is
// 0 to the current year.
func BuildFacets(docs []openlibrary.Document, now time.Time) Facets {
	authors := make(map[string]struct{})
	subjects := make(map[string]struct{})
	facets := Facets{}
	haveYear := false

	for _, doc := range docs {
		for _, a := range doc.AuthorName {
			authors[a] = struct{}{}
		}
		for _, s := range doc.Subject {
			if s != "" && len(s) < maxFacetSubjectLen {
				subjects[s] = struct{}{}
			}
		}
		if year, ok := doc.Year(); ok && year > 0 {
			if !haveYear || year < facets.MinYear {
				facets.MinYear = year
			}
			if !haveYear || year > facets.MaxYear {
				facets.MaxYear = year
			}
			haveYear = true
		}
	}

	if !haveYear {
		facets.MinYear = 0
		facets.MaxYear = now.Year()
	}
	facets.Authors = sortedKeys(authors)
	facets.Subjects = sortedKeys(subjects)
	return facets
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
