package discovery

import (
	"context"
	"fmt"
	"strings"

	"github.com/lepinkainen/folio/internal/openlibrary"
)

const (
	// MinSuggestionChars is the shortest input that produces suggestions.
	MinSuggestionChars = 2
	// SuggestionLimit caps the number of suggestions per lookup.
	SuggestionLimit = 5
	// PopularShown is how many popular terms are offered per query type.
	PopularShown = 8
	// TrendingLimit is the size of the trending list.
	TrendingLimit = 8
)

// Suggestion is a single typeahead entry.
type Suggestion struct {
	Text     string                `json:"text"`
	Subtitle string                `json:"subtitle,omitempty"`
	Type     openlibrary.QueryType `json:"type"`
}

// Suggest looks up typeahead suggestions for partial input. Input shorter
// than MinSuggestionChars returns nothing without a request.
func Suggest(ctx context.Context, gateway Gateway, input string, queryType openlibrary.QueryType) ([]Suggestion, error) {
	input = strings.TrimSpace(input)
	if len([]rune(input)) < MinSuggestionChars {
		return nil, nil
	}

	page, err := gateway.Search(ctx, openlibrary.SearchRequest{
		Query: input,
		Type:  queryType,
		Limit: SuggestionLimit,
	})
	if err != nil {
		return nil, asFetchError("suggestions", err)
	}

	docs := page.Docs
	if len(docs) > SuggestionLimit {
		docs = docs[:SuggestionLimit]
	}

	suggestions := make([]Suggestion, 0, len(docs))
	for _, doc := range docs {
		suggestions = append(suggestions, FormatSuggestion(doc, queryType))
	}
	return suggestions, nil
}

// FormatSuggestion renders a document for the given query type. Author
// lookups lead with the author and show the matching title and year.
func FormatSuggestion(doc openlibrary.Document, queryType openlibrary.QueryType) Suggestion {
	if queryType == openlibrary.QueryAuthor {
		year := ""
		if y, ok := doc.Year(); ok {
			year = fmt.Sprint(y)
		}
		return Suggestion{
			Text:     doc.FirstAuthor(),
			Subtitle: fmt.Sprintf("%s (%s)", doc.Title, year),
			Type:     queryType,
		}
	}
	return Suggestion{
		Text:     doc.Title,
		Subtitle: doc.FirstAuthor(),
		Type:     queryType,
	}
}

var popularSearches = map[openlibrary.QueryType][]string{
	openlibrary.QueryTitle: {
		"Harry Potter", "The Great Gatsby", "1984", "To Kill a Mockingbird",
		"Pride and Prejudice", "The Catcher in the Rye", "Lord of the Rings",
		"Jane Eyre", "Animal Farm", "The Hobbit",
	},
	openlibrary.QueryAuthor: {
		"Stephen King", "J.K. Rowling", "Agatha Christie", "Ernest Hemingway",
		"Jane Austen", "Charles Dickens", "Mark Twain", "George Orwell",
		"F. Scott Fitzgerald", "Virginia Woolf",
	},
	openlibrary.QuerySubject: {
		"Fiction", "Mystery", "Science Fiction", "Romance", "Fantasy",
		"Thriller", "Biography", "History", "Philosophy", "Poetry",
	},
}

// PopularSearches returns the first PopularShown canned terms for a query
// type. General searches use the title list.
func PopularSearches(queryType openlibrary.QueryType) []string {
	terms, ok := popularSearches[queryType]
	if !ok {
		terms = popularSearches[openlibrary.QueryTitle]
	}
	if len(terms) > PopularShown {
		terms = terms[:PopularShown]
	}
	return append([]string(nil), terms...)
}

// TrendingRequest is the search used for the trending list: top rated best
// sellers.
func TrendingRequest() openlibrary.SearchRequest {
	return openlibrary.SearchRequest{
		Query: "best_sellers",
		Type:  openlibrary.QuerySubject,
		Limit: TrendingLimit,
		Sort:  "rating desc",
	}
}

// Trending fetches the trending list.
func Trending(ctx context.Context, gateway Gateway) ([]openlibrary.Document, error) {
	page, err := gateway.Search(ctx, TrendingRequest())
	if err != nil {
		return nil, asFetchError("trending", err)
	}
	if len(page.Docs) > TrendingLimit {
		return page.Docs[:TrendingLimit], nil
	}
	return page.Docs, nil
}
