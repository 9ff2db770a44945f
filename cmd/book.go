package cmd

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/lepinkainen/folio/internal/openlibrary"
)

// DetailsCmd represents the details command
type DetailsCmd struct {
	Key  string `arg:"" help:"Work or edition key, e.g. /works/OL45804W or OL7353617M"`
	JSON bool   `help:"Print details as JSON"`
}

func (d *DetailsCmd) Run() error {
	details, err := newClient().Details(context.Background(), d.Key)
	if err != nil {
		return err
	}

	if d.JSON {
		return writeJSON(stdout, details)
	}

	if details.WorkKey != "" {
		_, _ = fmt.Fprintf(stdout, "Work: %s\n\n", details.WorkKey)
	}
	description := details.Description
	if description == "" {
		description = "No description available."
	}
	_, _ = fmt.Fprintln(stdout, description)
	if len(details.Subjects) > 0 {
		_, _ = fmt.Fprintf(stdout, "\nSubjects: %s\n", strings.Join(details.Subjects, ", "))
	}
	return nil
}

// CoverCmd represents the cover command
type CoverCmd struct {
	ID       int    `arg:"" help:"Numeric cover ID (cover_i in search results)"`
	Size     string `help:"Cover size: S, M or L" default:"L"`
	Output   string `short:"o" help:"Output file path (defaults to covers/<id>.jpg)"`
	MaxWidth int    `help:"Resize covers wider than this many pixels" default:"600"`
}

func (c *CoverCmd) Run() error {
	output := c.Output
	if output == "" {
		output = filepath.Join("covers", fmt.Sprintf("%d.jpg", c.ID))
	}

	id := c.ID
	doc := openlibrary.Document{CoverID: &id}
	result, err := newClient().DownloadCover(context.Background(), doc, openlibrary.ParseCoverSize(c.Size), output, c.MaxWidth)
	if err != nil {
		return err
	}

	if result.Placeholder {
		_, _ = fmt.Fprintf(stdout, "No cover available; wrote placeholder to %s\n", result.Path)
		return nil
	}
	_, _ = fmt.Fprintf(stdout, "Saved %s to %s\n", result.SourceURL, result.Path)
	return nil
}
