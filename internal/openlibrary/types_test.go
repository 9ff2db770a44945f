package openlibrary

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseQueryType(t *testing.T) {
	assert.Equal(t, QueryTitle, ParseQueryType("Title"))
	assert.Equal(t, QueryAuthor, ParseQueryType(" author "))
	assert.Equal(t, QuerySubject, ParseQueryType("subject"))
	assert.Equal(t, QueryAll, ParseQueryType("everything"))
	assert.Equal(t, QueryAll, ParseQueryType(""))
}

func TestQueryTypeNextWraps(t *testing.T) {
	assert.Equal(t, QueryAuthor, QueryTitle.Next())
	assert.Equal(t, QueryTitle, QueryAll.Next())
	assert.Equal(t, QueryTitle, QueryType("bogus").Next())
}

func TestDocumentIdentity(t *testing.T) {
	keyed := Document{Key: "/works/OL1W", Title: "Dune"}
	assert.Equal(t, "/works/OL1W", keyed.Identity())

	a := Document{Title: "Anonymous pamphlet", AuthorName: []string{"Anon"}}
	b := Document{Title: "Anonymous pamphlet", AuthorName: []string{"Anon"}}
	c := Document{Title: "Another pamphlet", AuthorName: []string{"Anon"}}

	assert.True(t, strings.HasPrefix(a.Identity(), "doc:"))
	assert.Equal(t, a.Identity(), b.Identity())
	assert.NotEqual(t, a.Identity(), c.Identity())
}

func TestDocumentDisplayDefaults(t *testing.T) {
	var doc Document
	assert.Equal(t, "Untitled", doc.DisplayTitle())
	assert.Equal(t, "Unknown author", doc.Authors())
	assert.Equal(t, "", doc.FirstAuthor())
	assert.Equal(t, "", doc.Publisher())
	assert.Equal(t, 0, doc.Pages())

	doc = Document{
		Title:               "Good Omens",
		AuthorName:          []string{"Terry Pratchett", "Neil Gaiman"},
		Publishers:          []string{"Gollancz", "Workman"},
		NumberOfPagesMedian: intPtr(412),
	}
	assert.Equal(t, "Good Omens", doc.DisplayTitle())
	assert.Equal(t, "Terry Pratchett, Neil Gaiman", doc.Authors())
	assert.Equal(t, "Terry Pratchett", doc.FirstAuthor())
	assert.Equal(t, "Gollancz", doc.Publisher())
	assert.Equal(t, 412, doc.Pages())
	assert.True(t, doc.HasAuthor("Neil Gaiman"))
	assert.False(t, doc.HasAuthor("neil gaiman"))
}
