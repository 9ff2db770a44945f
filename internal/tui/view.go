package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/lepinkainen/folio/internal/discovery"
	"github.com/lepinkainen/folio/internal/library"
)

func (m *model) View() string {
	var b strings.Builder

	b.WriteString(m.styles.header.Render("folio - Open Library browser"))
	b.WriteString("\n")

	switch m.mode {
	case modeDetails:
		b.WriteString(m.detailsView())
	case modeSearch:
		b.WriteString(m.searchView())
	default:
		b.WriteString(m.listView())
	}

	if m.err != nil {
		b.WriteString("\n")
		b.WriteString(m.styles.errMsg.Render("Error: " + m.err.Error()))
	}
	if m.status != "" {
		b.WriteString("\n")
		b.WriteString(m.styles.status.Render(m.status))
	}

	b.WriteString("\n")
	b.WriteString(m.styles.help.Render(m.helpText()))
	return b.String()
}

func (m *model) searchView() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Search by %s (tab to change)\n", m.queryType)
	b.WriteString(m.input.View())
	b.WriteString("\n")

	if len(m.suggestions) > 0 {
		b.WriteString(m.styles.section.Render("Suggestions"))
		b.WriteString("\n")
		for _, s := range m.suggestions {
			line := s.Text
			if s.Subtitle != "" {
				line += m.styles.metadata.Render("  " + s.Subtitle)
			}
			b.WriteString("  " + line + "\n")
		}
		return b.String()
	}

	b.WriteString(m.welcomeView(time.Now()))
	return b.String()
}

// welcomeView lists recent searches, popular terms and trending books.
func (m *model) welcomeView(now time.Time) string {
	var b strings.Builder

	if m.deps.Recent != nil && m.deps.Recent.Len() > 0 {
		b.WriteString(m.styles.section.Render("Recent searches"))
		b.WriteString("\n")
		for _, entry := range m.deps.Recent.Entries() {
			fmt.Fprintf(&b, "  %s %s\n", entry.Query,
				m.styles.metadata.Render(fmt.Sprintf("(%s, %s)", entry.Type, library.Age(entry, now))))
		}
	}

	b.WriteString(m.styles.section.Render("Popular searches"))
	b.WriteString("\n")
	b.WriteString("  " + strings.Join(discovery.PopularSearches(m.queryType), ", "))
	b.WriteString("\n")

	if len(m.trending) > 0 {
		b.WriteString(m.styles.section.Render("Trending"))
		b.WriteString("\n")
		for _, doc := range m.trending {
			fmt.Fprintf(&b, "  %s %s\n", doc.DisplayTitle(), m.styles.metadata.Render("by "+doc.Authors()))
		}
	}
	return b.String()
}

func (m *model) listView() string {
	state := m.acc.Snapshot()
	if m.searching && len(state.Docs) == 0 {
		return fmt.Sprintf("%s Searching for %q...\n", m.spinner.View(), state.Query)
	}
	if !state.Active() {
		return "No search yet. Press / to search.\n"
	}

	var b strings.Builder
	b.WriteString(m.statusLine(state))
	b.WriteString("\n")
	if len(m.view) == 0 {
		if len(state.Docs) == 0 {
			fmt.Fprintf(&b, "No books found for %q.\n", state.Query)
		} else {
			b.WriteString("No books match the active filters. Press c to clear.\n")
		}
		return b.String()
	}

	b.WriteString(m.list.View())
	if state.Loading {
		b.WriteString("\n" + m.spinner.View() + " Loading more...")
	}
	return b.String()
}

// statusLine reports counts, active filters and the sort order.
func (m *model) statusLine(state discovery.State) string {
	parts := []string{fmt.Sprintf("Showing %d of %d results for %q", len(m.view), state.Total, state.Query)}
	if n := m.filters.ActiveCount(m.sortKey); n > 0 {
		parts = append(parts, fmt.Sprintf("%d active", n))
	}
	if m.filters.Author != "" {
		parts = append(parts, "author: "+m.filters.Author)
	}
	parts = append(parts, "sort: "+m.sortKey.Label())
	return m.styles.status.Render(strings.Join(parts, " | "))
}

func (m *model) detailsView() string {
	if m.selected == nil {
		return ""
	}
	doc := *m.selected

	var b strings.Builder
	b.WriteString(m.styles.title.Render(doc.DisplayTitle()))
	b.WriteString(markers(m.styles, m.itemFor(doc)))
	b.WriteString("\n")
	b.WriteString(m.styles.authors.Render(doc.Authors()))
	b.WriteString("\n")

	rows := [][2]string{}
	if year, ok := doc.Year(); ok {
		rows = append(rows, [2]string{"First published", fmt.Sprint(year)})
	}
	if pages := doc.Pages(); pages > 0 {
		rows = append(rows, [2]string{"Pages", fmt.Sprint(pages)})
	}
	if publisher := doc.Publisher(); publisher != "" {
		rows = append(rows, [2]string{"Publisher", publisher})
	}
	if doc.RatingsAverage != nil {
		rows = append(rows, [2]string{"Rating", fmt.Sprintf("%.1f/5", *doc.RatingsAverage)})
	}
	if len(doc.ISBN) > 0 {
		rows = append(rows, [2]string{"ISBN", doc.ISBN[0]})
	}
	if m.deps.CoverURL != nil {
		if url := m.deps.CoverURL(doc); url != "" {
			rows = append(rows, [2]string{"Cover", url})
		}
	}
	for _, row := range rows {
		fmt.Fprintf(&b, "%s %s\n", m.styles.metadata.Render(row[0]+":"), row[1])
	}

	b.WriteString(m.detailsBody())
	return b.String()
}

func (m *model) detailsBody() string {
	if m.details == nil {
		if m.err != nil {
			return ""
		}
		return m.spinner.View() + " Loading details...\n"
	}

	var b strings.Builder
	b.WriteString(m.styles.section.Render("Description"))
	b.WriteString("\n")
	description := m.details.Description
	if description == "" {
		description = "No description available."
	}
	b.WriteString(lipgloss.NewStyle().Width(m.width).Render(m.styles.detail.Render(description)))
	b.WriteString("\n")

	if len(m.details.Subjects) > 0 {
		b.WriteString(m.styles.section.Render("Subjects"))
		b.WriteString("\n")
		b.WriteString(strings.Join(m.details.Subjects, ", "))
		b.WriteString("\n")
	}
	return b.String()
}

func (m *model) helpText() string {
	switch m.mode {
	case modeSearch:
		return "enter: search | tab: query type | esc: results | ctrl+c: quit"
	case modeDetails:
		return "esc: back | f: favorite | r: read later | t: theme"
	default:
		return "/: search | enter: details | f: favorite | r: read later | s: sort | a: author filter | c: clear | t: theme | q: quit"
	}
}

