package openlibrary

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// QueryType selects which search field a query is matched against.
type QueryType string

const (
	QueryTitle   QueryType = "title"
	QueryAuthor  QueryType = "author"
	QuerySubject QueryType = "subject"
	QueryAll     QueryType = "all"
)

// QueryTypes lists the supported query types in display order.
var QueryTypes = []QueryType{QueryTitle, QueryAuthor, QuerySubject, QueryAll}

// ParseQueryType maps user input to a QueryType. Anything unrecognised
// searches all fields.
func ParseQueryType(s string) QueryType {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "title":
		return QueryTitle
	case "author":
		return QueryAuthor
	case "subject":
		return QuerySubject
	default:
		return QueryAll
	}
}

// Param returns the search.json query parameter for this type.
func (t QueryType) Param() string {
	switch t {
	case QueryTitle, QueryAuthor, QuerySubject:
		return string(t)
	default:
		return "q"
	}
}

// Next returns the following query type, wrapping around.
func (t QueryType) Next() QueryType {
	for i, qt := range QueryTypes {
		if qt == t {
			return QueryTypes[(i+1)%len(QueryTypes)]
		}
	}
	return QueryTitle
}

// Document is a single search.json result. Every field is optional; the API
// omits anything it doesn't know.
type Document struct {
	Key                 string   `json:"key,omitempty" yaml:"key,omitempty"`
	Title               string   `json:"title,omitempty" yaml:"title,omitempty"`
	AuthorName          []string `json:"author_name,omitempty" yaml:"authors,omitempty"`
	FirstPublishYear    *int     `json:"first_publish_year,omitempty" yaml:"first_publish_year,omitempty"`
	Subject             []string `json:"subject,omitempty" yaml:"subjects,omitempty"`
	CoverID             *int     `json:"cover_i,omitempty" yaml:"cover_id,omitempty"`
	NumberOfPagesMedian *int     `json:"number_of_pages_median,omitempty" yaml:"pages,omitempty"`
	Publishers          []string `json:"publisher,omitempty" yaml:"publishers,omitempty"`
	RatingsAverage      *float64 `json:"ratings_average,omitempty" yaml:"ratings_average,omitempty"`
	RatingsCount        *int     `json:"ratings_count,omitempty" yaml:"ratings_count,omitempty"`
	EditionCount        *int     `json:"edition_count,omitempty" yaml:"edition_count,omitempty"`
	ISBN                []string `json:"isbn,omitempty" yaml:"isbn,omitempty"`
	Language            []string `json:"language,omitempty" yaml:"languages,omitempty"`
}

// Identity returns the key used to deduplicate documents. Documents without
// a key are identified by a hash of their JSON form.
func (d Document) Identity() string {
	if d.Key != "" {
		return d.Key
	}
	data, err := json.Marshal(d)
	if err != nil {
		return ""
	}
	return fmt.Sprintf("doc:%016x", xxhash.Sum64(data))
}

// Year returns the first publication year, if known.
func (d Document) Year() (int, bool) {
	if d.FirstPublishYear == nil {
		return 0, false
	}
	return *d.FirstPublishYear, true
}

// DisplayTitle returns the title or "Untitled".
func (d Document) DisplayTitle() string {
	if strings.TrimSpace(d.Title) == "" {
		return "Untitled"
	}
	return d.Title
}

// FirstAuthor returns the first listed author or "".
func (d Document) FirstAuthor() string {
	if len(d.AuthorName) == 0 {
		return ""
	}
	return d.AuthorName[0]
}

// Authors returns a comma-joined author list or "Unknown author".
func (d Document) Authors() string {
	if len(d.AuthorName) == 0 {
		return "Unknown author"
	}
	return strings.Join(d.AuthorName, ", ")
}

// Publisher returns the first publisher or "".
func (d Document) Publisher() string {
	if len(d.Publishers) == 0 {
		return ""
	}
	return d.Publishers[0]
}

// Pages returns the median page count, or 0 when unknown.
func (d Document) Pages() int {
	if d.NumberOfPagesMedian == nil {
		return 0
	}
	return *d.NumberOfPagesMedian
}

// HasAuthor reports whether name exactly matches one of the authors.
func (d Document) HasAuthor(name string) bool {
	for _, a := range d.AuthorName {
		if a == name {
			return true
		}
	}
	return false
}

// HasSubject reports whether subject exactly matches one of the subject tags.
func (d Document) HasSubject(subject string) bool {
	for _, s := range d.Subject {
		if s == subject {
			return true
		}
	}
	return false
}

// SearchRequest describes one search.json call.
type SearchRequest struct {
	Query  string
	Type   QueryType
	Limit  int
	Offset int
	// Sort is passed through verbatim (e.g. "rating desc"); empty means relevance.
	Sort string
}

// SearchPage is one page of search results.
type SearchPage struct {
	Docs     []Document `json:"docs"`
	NumFound int        `json:"numFound"`
}

// Details is the extra information shown for a single document.
type Details struct {
	WorkKey     string   `json:"work_key"`
	Description string   `json:"description,omitempty"`
	Subjects    []string `json:"subjects,omitempty"`
}

// work matches the subset of /works/{id}.json we use.
type work struct {
	Key         string   `json:"key"`
	Title       string   `json:"title"`
	Description any      `json:"description,omitempty"` // string or {"type":..., "value":...}
	Subjects    []string `json:"subjects,omitempty"`
}

// edition matches the subset of /books/{id}.json we use.
type edition struct {
	Key   string `json:"key"`
	Works []struct {
		Key string `json:"key"`
	} `json:"works,omitempty"`
}
