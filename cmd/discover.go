package cmd

import (
	"context"
	"fmt"

	"github.com/lepinkainen/folio/internal/discovery"
	"github.com/lepinkainen/folio/internal/openlibrary"
)

// SuggestCmd represents the suggest command
type SuggestCmd struct {
	Input string `arg:"" help:"Partial search input"`
	Type  string `short:"t" help:"Field to search: title, author, subject, all" default:"title" enum:"title,author,subject,all"`
	JSON  bool   `help:"Print suggestions as JSON"`
}

func (s *SuggestCmd) Run() error {
	suggestions, err := discovery.Suggest(context.Background(), newClient(), s.Input, openlibrary.ParseQueryType(s.Type))
	if err != nil {
		return err
	}

	if s.JSON {
		if suggestions == nil {
			suggestions = []discovery.Suggestion{}
		}
		return writeJSON(stdout, suggestions)
	}

	if len(suggestions) == 0 {
		_, _ = fmt.Fprintf(stdout, "No suggestions (type at least %d characters).\n", discovery.MinSuggestionChars)
		return nil
	}
	for _, sg := range suggestions {
		if sg.Subtitle != "" {
			_, _ = fmt.Fprintf(stdout, "%s - %s\n", sg.Text, sg.Subtitle)
			continue
		}
		_, _ = fmt.Fprintln(stdout, sg.Text)
	}
	return nil
}

// TrendingCmd represents the trending command
type TrendingCmd struct {
	JSON bool `help:"Print trending books as JSON"`
}

func (t *TrendingCmd) Run() error {
	docs, err := discovery.Trending(context.Background(), newClient())
	if err != nil {
		return err
	}

	if t.JSON {
		return writeJSON(stdout, docs)
	}
	for i, doc := range docs {
		_, _ = fmt.Fprintf(stdout, "%d. %s\n", i+1, formatDoc(doc))
	}
	return nil
}

// PopularCmd represents the popular command
type PopularCmd struct {
	Type string `short:"t" help:"Query type: title, author, subject, all" default:"title" enum:"title,author,subject,all"`
}

func (p *PopularCmd) Run() error {
	for _, term := range discovery.PopularSearches(openlibrary.ParseQueryType(p.Type)) {
		_, _ = fmt.Fprintln(stdout, term)
	}
	return nil
}
