package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/lepinkainen/folio/internal/config"
	"github.com/lepinkainen/folio/internal/discovery"
	"github.com/lepinkainen/folio/internal/fileutil"
	"github.com/lepinkainen/folio/internal/openlibrary"
)

// maxAllPages bounds --all so a huge result set can't page forever.
const maxAllPages = 40

// SearchCmd represents the search command
type SearchCmd struct {
	Query   string `arg:"" help:"Search terms"`
	Type    string `short:"t" help:"Field to search: title, author, subject, all" default:"title" enum:"title,author,subject,all"`
	Sort    string `short:"s" help:"Sort order: relevance, newest, oldest, alphabetical" default:"relevance" enum:"relevance,newest,oldest,alphabetical"`
	Author  string `help:"Only show books by this author"`
	Subject string `help:"Only show books with this subject"`
	YearMin string `help:"Earliest first publication year"`
	YearMax string `help:"Latest first publication year"`
	Pages   int    `short:"p" help:"Number of result pages to fetch" default:"1"`
	All     bool   `help:"Fetch every page of results"`
	Facets  bool   `help:"Print available filter values"`
	JSON    bool   `help:"Print results as JSON"`
	Export  string `short:"o" help:"Write results to a .json or .yaml file"`
}

// SearchResult is the exported form of a search.
type SearchResult struct {
	Query   string                 `json:"query" yaml:"query"`
	Type    openlibrary.QueryType  `json:"type" yaml:"type"`
	Sort    discovery.SortKey      `json:"sort" yaml:"sort"`
	Filters discovery.Params       `json:"filters,omitempty" yaml:"filters,omitempty"`
	Total   int                    `json:"total" yaml:"total"`
	Fetched int                    `json:"fetched" yaml:"fetched"`
	Docs    []openlibrary.Document `json:"docs" yaml:"docs"`
}

func (s *SearchCmd) Run() error {
	ctx := context.Background()
	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	queryType := openlibrary.ParseQueryType(s.Type)
	acc := discovery.NewAccumulator(a.client, discovery.WithPageSize(config.PageSize))

	if err := acc.StartSearch(ctx, s.Query, queryType); err != nil {
		return err
	}
	if err := a.recent.Record(ctx, s.Query, queryType); err != nil {
		slog.Warn("Failed to record search", "error", err)
	}

	pages := s.Pages
	if s.All {
		pages = maxAllPages
	}
	for fetched := 1; fetched < pages; fetched++ {
		loaded, err := acc.LoadMore(ctx)
		if err != nil {
			return err
		}
		if !loaded {
			break
		}
	}

	state := acc.Snapshot()
	params := discovery.Params{Author: s.Author, Subject: s.Subject, YearMin: s.YearMin, YearMax: s.YearMax}
	sortKey := discovery.ParseSortKey(s.Sort)
	docs := discovery.Sort(discovery.Filter(state.Docs, params), sortKey)

	result := SearchResult{
		Query:   state.Query,
		Type:    state.Type,
		Sort:    sortKey,
		Filters: params,
		Total:   state.Total,
		Fetched: len(state.Docs),
		Docs:    docs,
	}

	if s.Export != "" {
		written, err := fileutil.WriteExport(result, s.Export, config.OverwriteFiles)
		if err != nil {
			return err
		}
		if written {
			slog.Info("Exported search results", "path", s.Export, "count", len(docs))
		}
	}

	if s.JSON {
		return writeJSON(stdout, result)
	}

	printResults(stdout, a, result, params)
	if s.Facets {
		printFacets(stdout, discovery.BuildFacets(state.Docs, time.Now()))
	}
	if state.HasMore && !s.All {
		_, _ = fmt.Fprintf(stdout, "More results available; use --pages or --all to fetch them.\n")
	}
	return nil
}

func printResults(w io.Writer, a *app, result SearchResult, params discovery.Params) {
	header := fmt.Sprintf("Showing %d of %d results for %q", len(result.Docs), result.Total, result.Query)
	if n := params.ActiveCount(result.Sort); n > 0 {
		header += fmt.Sprintf(" (%d active, sort: %s)", n, result.Sort.Label())
	}
	_, _ = fmt.Fprintln(w, header)

	if len(result.Docs) == 0 {
		if result.Fetched > 0 {
			_, _ = fmt.Fprintln(w, "No books match the filters.")
		} else {
			_, _ = fmt.Fprintln(w, "No books found.")
		}
		return
	}

	for i, doc := range result.Docs {
		_, _ = fmt.Fprintf(w, "%3d. %s%s\n", i+1, formatDoc(doc), bookmarkMarkers(a, doc))
	}
}

// formatDoc renders "Title (year) by Authors [key]".
func formatDoc(doc openlibrary.Document) string {
	var b strings.Builder
	b.WriteString(doc.DisplayTitle())
	if year, ok := doc.Year(); ok {
		fmt.Fprintf(&b, " (%d)", year)
	}
	b.WriteString(" by ")
	b.WriteString(doc.Authors())
	if doc.Key != "" {
		fmt.Fprintf(&b, " [%s]", doc.Key)
	}
	return b.String()
}

func bookmarkMarkers(a *app, doc openlibrary.Document) string {
	var out string
	if a.favorites.Contains(doc) {
		out += " *"
	}
	if a.readLater.Contains(doc) {
		out += " +"
	}
	return out
}

func printFacets(w io.Writer, facets discovery.Facets) {
	_, _ = fmt.Fprintf(w, "\nYears: %d-%d\n", facets.MinYear, facets.MaxYear)
	if len(facets.Authors) > 0 {
		_, _ = fmt.Fprintf(w, "Authors: %s\n", strings.Join(facets.Authors, "; "))
	}
	if len(facets.Subjects) > 0 {
		_, _ = fmt.Fprintf(w, "Subjects: %s\n", strings.Join(facets.Subjects, "; "))
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
