package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/alecthomas/kong"
	"github.com/lepinkainen/folio/internal/config"
	"github.com/lepinkainen/folio/internal/fileutil"
	"github.com/lepinkainen/folio/internal/library"
	"github.com/lepinkainen/folio/internal/openlibrary"
)

// BookmarkCmd manages one bookmark list; the parent command name selects
// favorites or read-later.
type BookmarkCmd struct {
	List   BookmarkListCmd   `cmd:"" default:"1" help:"List bookmarked books"`
	Toggle BookmarkToggleCmd `cmd:"" help:"Add or remove a book by key"`
	Export BookmarkExportCmd `cmd:"" help:"Export the list to a .json or .yaml file"`
	Clear  BookmarkClearCmd  `cmd:"" help:"Remove every book from the list"`
}

// BookmarkListCmd represents the bookmark list subcommand
type BookmarkListCmd struct {
	JSON bool `help:"Print the list as JSON"`
}

// BookmarkToggleCmd represents the bookmark toggle subcommand
type BookmarkToggleCmd struct {
	Key string `arg:"" help:"Work or edition key, e.g. /works/OL45804W"`
}

// BookmarkExportCmd represents the bookmark export subcommand
type BookmarkExportCmd struct {
	Path string `arg:"" help:"Output file; the extension selects JSON or YAML"`
}

// BookmarkClearCmd represents the bookmark clear subcommand
type BookmarkClearCmd struct{}

// kindFromCommand maps "read-later list" etc. to the bookmark kind.
func kindFromCommand(command string) library.Kind {
	if strings.HasPrefix(command, "read-later") {
		return library.ReadLater
	}
	return library.Favorites
}

func (l *BookmarkListCmd) Run(kctx *kong.Context) error {
	a, err := openApp(context.Background())
	if err != nil {
		return err
	}
	defer a.Close()

	store := a.store(kindFromCommand(kctx.Command()))
	docs := store.List()

	if l.JSON {
		return writeJSON(stdout, docs)
	}
	if len(docs) == 0 {
		_, _ = fmt.Fprintf(stdout, "%s is empty.\n", store.Kind().Label())
		return nil
	}
	_, _ = fmt.Fprintf(stdout, "%s (%d):\n", store.Kind().Label(), len(docs))
	for i, doc := range docs {
		_, _ = fmt.Fprintf(stdout, "%3d. %s\n", i+1, formatDoc(doc))
	}
	return nil
}

func (t *BookmarkToggleCmd) Run(kctx *kong.Context) error {
	ctx := context.Background()
	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	store := a.store(kindFromCommand(kctx.Command()))
	doc, err := findBookmark(ctx, a, store, t.Key)
	if err != nil {
		return err
	}

	added, err := store.Toggle(ctx, doc)
	if err != nil {
		return err
	}
	verb := "Removed from"
	if added {
		verb = "Added to"
	}
	_, _ = fmt.Fprintf(stdout, "%s %s: %s\n", verb, store.Kind().Label(), doc.DisplayTitle())
	return nil
}

// findBookmark returns the stored document for key, or looks the key up on
// Open Library when it isn't bookmarked yet.
func findBookmark(ctx context.Context, a *app, store *library.Store, key string) (openlibrary.Document, error) {
	normalized := openlibrary.NormalizeKey(key)
	for _, doc := range store.List() {
		if openlibrary.NormalizeKey(doc.Key) == normalized {
			return doc, nil
		}
	}

	page, err := a.client.Search(ctx, openlibrary.SearchRequest{
		Query: "key:" + normalized,
		Type:  openlibrary.QueryAll,
		Limit: 1,
	})
	if err != nil {
		return openlibrary.Document{}, err
	}
	if len(page.Docs) == 0 {
		return openlibrary.Document{}, fmt.Errorf("no book found with key %s", normalized)
	}
	return page.Docs[0], nil
}

func (e *BookmarkExportCmd) Run(kctx *kong.Context) error {
	a, err := openApp(context.Background())
	if err != nil {
		return err
	}
	defer a.Close()

	store := a.store(kindFromCommand(kctx.Command()))
	written, err := fileutil.WriteExport(store.List(), e.Path, config.OverwriteFiles)
	if err != nil {
		return err
	}
	if !written {
		_, _ = fmt.Fprintf(stdout, "%s exists; use --overwrite to replace it\n", e.Path)
		return nil
	}
	slog.Info("Exported bookmarks", "list", store.Kind(), "path", e.Path, "count", store.Len())
	return nil
}

func (c *BookmarkClearCmd) Run(kctx *kong.Context) error {
	a, err := openApp(context.Background())
	if err != nil {
		return err
	}
	defer a.Close()

	store := a.store(kindFromCommand(kctx.Command()))
	count := store.Len()
	if err := store.Clear(context.Background()); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(stdout, "Removed %d books from %s\n", count, store.Kind().Label())
	return nil
}

// HistoryCmd groups the recent-search subcommands
type HistoryCmd struct {
	List  HistoryListCmd  `cmd:"" default:"1" help:"List recent searches"`
	Clear HistoryClearCmd `cmd:"" help:"Forget all recent searches"`
}

// HistoryListCmd represents the history list subcommand
type HistoryListCmd struct {
	JSON bool `help:"Print history as JSON"`
}

// HistoryClearCmd represents the history clear subcommand
type HistoryClearCmd struct{}

func (h *HistoryListCmd) Run() error {
	a, err := openApp(context.Background())
	if err != nil {
		return err
	}
	defer a.Close()

	entries := a.recent.Entries()
	if h.JSON {
		return writeJSON(stdout, entries)
	}
	if len(entries) == 0 {
		_, _ = fmt.Fprintln(stdout, "No recent searches.")
		return nil
	}
	now := time.Now()
	for _, entry := range entries {
		_, _ = fmt.Fprintf(stdout, "%-30s %-8s %s\n", entry.Query, entry.Type, library.Age(entry, now))
	}
	return nil
}

func (h *HistoryClearCmd) Run() error {
	ctx := context.Background()
	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.recent.Clear(ctx); err != nil {
		return err
	}
	_, _ = fmt.Fprintln(stdout, "Search history cleared")
	return nil
}

// ThemeCmd represents the theme command
type ThemeCmd struct {
	Theme string `arg:"" optional:"" help:"light, dark or toggle; omit to show the current theme"`
}

func (t *ThemeCmd) Run() error {
	ctx := context.Background()
	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	switch strings.ToLower(strings.TrimSpace(t.Theme)) {
	case "":
	case "toggle":
		if _, err := a.theme.Toggle(ctx); err != nil {
			return err
		}
	default:
		theme, err := library.ParseTheme(t.Theme)
		if err != nil {
			return err
		}
		if err := a.theme.Set(ctx, theme); err != nil {
			return err
		}
	}

	_, _ = fmt.Fprintf(stdout, "Theme: %s\n", a.theme.Current())
	return nil
}
