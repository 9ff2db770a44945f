package cmd

import (
	"context"

	"github.com/lepinkainen/folio/internal/config"
	"github.com/lepinkainen/folio/internal/openlibrary"
	"github.com/lepinkainen/folio/internal/tui"
)

var runBrowser = tui.Browse

// BrowseCmd represents the browse command
type BrowseCmd struct{}

func (b *BrowseCmd) Run() error {
	a, err := openApp(context.Background())
	if err != nil {
		return err
	}
	defer a.Close()

	return runBrowser(tui.Deps{
		Gateway:   a.client,
		Details:   a.client,
		Favorites: a.favorites,
		ReadLater: a.readLater,
		Recent:    a.recent,
		Theme:     a.theme,
		PageSize:  config.PageSize,
		CoverURL: func(doc openlibrary.Document) string {
			return a.client.DocumentCoverURL(doc, openlibrary.CoverLarge)
		},
	})
}
