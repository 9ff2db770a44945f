package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/lepinkainen/folio/internal/openlibrary"
)

type bookItem struct {
	doc       openlibrary.Document
	favorite  bool
	readLater bool
}

func (i bookItem) Title() string {
	if year, ok := i.doc.Year(); ok {
		return fmt.Sprintf("%s (%d)", i.doc.DisplayTitle(), year)
	}
	return i.doc.DisplayTitle()
}

func (i bookItem) Description() string {
	return i.doc.Authors()
}

func (i bookItem) FilterValue() string {
	return i.doc.DisplayTitle()
}

type bookDelegate struct {
	styles styles
}

func newDelegate(s styles) bookDelegate {
	return bookDelegate{styles: s}
}

func (d bookDelegate) Height() int                         { return 5 }
func (d bookDelegate) Spacing() int                        { return 0 }
func (d bookDelegate) Update(tea.Msg, *list.Model) tea.Cmd { return nil }

func (d bookDelegate) Render(w io.Writer, m list.Model, idx int, item list.Item) {
	book, ok := item.(bookItem)
	if !ok {
		return
	}

	width := m.Width() - 4
	titleLine := d.styles.title.Render(truncate(book.Title(), width-4)) + markers(d.styles, book)
	authorLine := d.styles.authors.Render(truncate(book.doc.Authors(), width))
	metaLine := d.styles.metadata.Render(formatMetadata(book.doc, width))

	content := lipgloss.JoinVertical(lipgloss.Left, titleLine, authorLine, metaLine)

	container := d.styles.item
	if idx == m.Index() {
		container = d.styles.itemSelected
	}
	_, _ = fmt.Fprint(w, container.Render(content))
}

func markers(s styles, book bookItem) string {
	var out string
	if book.favorite {
		out += " *"
	}
	if book.readLater {
		out += " +"
	}
	if out == "" {
		return ""
	}
	return s.marker.Render(out)
}

// formatMetadata builds the pages | publisher | rating | editions line.
func formatMetadata(doc openlibrary.Document, availableWidth int) string {
	var parts []string

	if pages := doc.Pages(); pages > 0 {
		parts = append(parts, fmt.Sprintf("%d pages", pages))
	}
	if publisher := doc.Publisher(); publisher != "" {
		parts = append(parts, publisher)
	}
	if doc.RatingsAverage != nil {
		rating := fmt.Sprintf("%.1f/5", *doc.RatingsAverage)
		if doc.RatingsCount != nil {
			rating += fmt.Sprintf(" (%s)", formatCount(*doc.RatingsCount, "rating"))
		}
		parts = append(parts, rating)
	}
	if doc.EditionCount != nil && *doc.EditionCount > 1 {
		parts = append(parts, formatCount(*doc.EditionCount, "edition"))
	}

	if len(parts) == 0 {
		return "No metadata available"
	}
	return truncate(strings.Join(parts, " | "), availableWidth)
}

func formatCount(n int, noun string) string {
	switch {
	case n >= 1000:
		return fmt.Sprintf("%.1fK %ss", float64(n)/1000, noun)
	case n == 1:
		return "1 " + noun
	default:
		return fmt.Sprintf("%d %ss", n, noun)
	}
}

func truncate(value string, width int) string {
	value = strings.Join(strings.Fields(value), " ")
	runes := []rune(value)
	if width <= 0 || len(runes) <= width {
		return value
	}
	if width <= 3 {
		return string(runes[:width])
	}
	return string(runes[:width-3]) + "..."
}

func clamp(defaultValue, available, minimum int) int {
	width := defaultValue
	if available > 0 && available < defaultValue {
		width = available
	}
	if width < minimum {
		width = minimum
	}
	return width
}
