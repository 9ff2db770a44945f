// Package tui provides the interactive terminal book browser.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	folioerrors "github.com/lepinkainen/folio/internal/errors"
	"github.com/lepinkainen/folio/internal/discovery"
	"github.com/lepinkainen/folio/internal/library"
	"github.com/lepinkainen/folio/internal/openlibrary"
)

const (
	defaultListWidth  = 80
	defaultListHeight = 20
	requestTimeout    = 30 * time.Second
)

var runProgram = func(m *model) (tea.Model, error) {
	p := tea.NewProgram(m, tea.WithAltScreen())
	m.send = p.Send
	return p.Run()
}

// DetailsFetcher loads the extended information for a document.
type DetailsFetcher interface {
	Details(ctx context.Context, key string) (*openlibrary.Details, error)
}

// Deps are the collaborators the browser works with.
type Deps struct {
	Gateway   discovery.Gateway
	Details   DetailsFetcher
	Favorites *library.Store
	ReadLater *library.Store
	Recent    *library.RecentLog
	Theme     *library.ThemeStore
	PageSize  int
	// CoverURL renders a cover link in the detail view; optional.
	CoverURL func(openlibrary.Document) string
}

type mode int

const (
	modeSearch mode = iota
	modeList
	modeDetails
)

type (
	searchDoneMsg struct {
		query string
		err   error
	}
	loadMoreDoneMsg struct {
		loaded bool
		err    error
	}
	scrollSettledMsg  struct{}
	suggestSettledMsg struct{}
	suggestionsMsg    struct {
		input       string
		suggestions []discovery.Suggestion
		err         error
	}
	trendingMsg struct {
		docs []openlibrary.Document
		err  error
	}
	detailsMsg struct {
		key     string
		details *openlibrary.Details
		err     error
	}
)

type model struct {
	deps Deps
	acc  *discovery.Accumulator
	send func(tea.Msg)

	mode      mode
	input     textinput.Model
	list      list.Model
	spinner   spinner.Model
	styles    styles
	queryType openlibrary.QueryType
	sortKey   discovery.SortKey
	filters   discovery.Params

	scroll  *discovery.Debouncer
	suggest *discovery.Debouncer

	suggestions []discovery.Suggestion
	trending    []openlibrary.Document
	view        []openlibrary.Document
	selected    *openlibrary.Document
	details     *openlibrary.Details
	searching   bool
	status      string
	err         error
	width       int
}

func newModel(deps Deps) *model {
	theme := library.ThemeLight
	if deps.Theme != nil {
		theme = deps.Theme.Current()
	}
	s := newStyles(theme)

	input := textinput.New()
	input.Placeholder = "Search books..."
	input.Prompt = "> "
	input.CharLimit = 200
	input.Width = defaultListWidth - 20
	input.Focus()

	l := list.New(nil, newDelegate(s), defaultListWidth, defaultListHeight)
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)
	l.SetShowTitle(false)
	l.SetShowPagination(false)
	l.DisableQuitKeybindings()
	l.Styles.NoItems = lipgloss.NewStyle()

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	m := &model{
		deps:      deps,
		acc:       discovery.NewAccumulator(deps.Gateway, discovery.WithPageSize(deps.PageSize)),
		mode:      modeSearch,
		input:     input,
		list:      l,
		spinner:   sp,
		styles:    s,
		queryType: openlibrary.QueryTitle,
		sortKey:   discovery.SortRelevance,
		width:     defaultListWidth,
	}
	m.scroll = discovery.NewDebouncerFunc(discovery.ScrollDebounce, func() { m.post(scrollSettledMsg{}) })
	m.suggest = discovery.NewDebouncerFunc(discovery.SuggestionDebounce, func() { m.post(suggestSettledMsg{}) })
	return m
}

func (m *model) post(msg tea.Msg) {
	if m.send != nil {
		m.send(msg)
	}
}

func (m *model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick, m.trendingCmd())
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = clamp(defaultListWidth, msg.Width-2, 40)
		m.list.SetSize(m.width, clamp(defaultListHeight, msg.Height-8, 5))
		m.input.Width = m.width - 20
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, m.quit()
		}
		switch m.mode {
		case modeSearch:
			return m.updateSearch(msg)
		case modeDetails:
			return m.updateDetails(msg)
		default:
			return m.updateList(msg)
		}

	case searchDoneMsg:
		return m.handleSearchDone(msg)

	case loadMoreDoneMsg:
		switch {
		case errors.Is(msg.err, discovery.ErrSuperseded):
		case msg.err != nil:
			m.err = msg.err
		default:
			m.err = nil
		}
		m.refresh()
		return m, nil

	case scrollSettledMsg:
		if m.mode == modeList && m.nearBottom() {
			return m, m.loadMoreCmd()
		}
		return m, nil

	case suggestSettledMsg:
		if m.mode != modeSearch {
			return m, nil
		}
		return m, m.suggestionsCmd(m.input.Value())

	case suggestionsMsg:
		// only show suggestions for what is still in the input
		if msg.err == nil && msg.input == m.input.Value() {
			m.suggestions = msg.suggestions
		}
		return m, nil

	case trendingMsg:
		if msg.err == nil {
			m.trending = msg.docs
		}
		return m, nil

	case detailsMsg:
		if m.selected == nil || m.selected.Key != msg.key {
			return m, nil
		}
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.details = msg.details
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	if m.mode == modeSearch {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		return m, m.submit(m.input.Value())
	case "tab":
		m.queryType = m.queryType.Next()
		m.suggestions = nil
		m.suggest.Trigger()
		return m, nil
	case "esc":
		if m.acc.Snapshot().Active() {
			m.setMode(modeList)
		}
		return m, nil
	}

	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if m.input.Value() != before {
		if len([]rune(strings.TrimSpace(m.input.Value()))) < discovery.MinSuggestionChars {
			m.suggest.Stop()
			m.suggestions = nil
		} else {
			m.suggest.Trigger()
		}
	}
	return m, cmd
}

func (m *model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, m.quit()
	case "/":
		m.setMode(modeSearch)
		return m, textinput.Blink
	case "tab":
		m.queryType = m.queryType.Next()
		return m, nil
	case "enter":
		return m, m.openDetails()
	case "f":
		m.toggleBookmark(m.deps.Favorites)
		return m, nil
	case "r":
		m.toggleBookmark(m.deps.ReadLater)
		return m, nil
	case "s":
		m.sortKey = m.sortKey.Next()
		m.refresh()
		return m, nil
	case "a":
		m.toggleAuthorFilter()
		return m, nil
	case "c":
		m.filters = discovery.Params{}
		m.sortKey = discovery.SortRelevance
		m.refresh()
		return m, nil
	case "t":
		m.toggleTheme()
		return m, nil
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	if m.nearBottom() {
		m.scroll.Trigger()
	}
	return m, cmd
}

func (m *model) updateDetails(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "backspace", "enter", "q":
		m.setMode(modeList)
	case "f":
		m.toggleBookmark(m.deps.Favorites)
	case "r":
		m.toggleBookmark(m.deps.ReadLater)
	case "t":
		m.toggleTheme()
	}
	return m, nil
}

// submit starts a new search for query. Blank input only shows an error.
func (m *model) submit(query string) tea.Cmd {
	query = strings.TrimSpace(query)
	if query == "" {
		m.err = folioerrors.NewValidationError("query", "please enter a search term")
		return nil
	}

	if m.deps.Recent != nil {
		if err := m.deps.Recent.Record(context.Background(), query, m.queryType); err != nil {
			m.status = "Could not save search history"
		}
	}

	m.err = nil
	m.suggest.Stop()
	m.suggestions = nil
	m.searching = true
	m.filters = discovery.Params{}
	m.list.ResetSelected()
	m.setMode(modeList)
	return m.searchCmd(query, m.queryType)
}

func (m *model) handleSearchDone(msg searchDoneMsg) (tea.Model, tea.Cmd) {
	if errors.Is(msg.err, discovery.ErrSuperseded) {
		return m, nil
	}
	m.searching = false
	m.err = msg.err
	m.refresh()
	return m, nil
}

// refresh rebuilds the visible list from the accumulated results.
func (m *model) refresh() {
	state := m.acc.Snapshot()
	m.view = discovery.Sort(discovery.Filter(state.Docs, m.filters), m.sortKey)

	items := make([]list.Item, len(m.view))
	for i, doc := range m.view {
		items[i] = m.itemFor(doc)
	}
	m.list.SetItems(items)
}

func (m *model) itemFor(doc openlibrary.Document) bookItem {
	item := bookItem{doc: doc}
	if m.deps.Favorites != nil {
		item.favorite = m.deps.Favorites.Contains(doc)
	}
	if m.deps.ReadLater != nil {
		item.readLater = m.deps.ReadLater.Contains(doc)
	}
	return item
}

func (m *model) nearBottom() bool {
	return m.acc.Snapshot().HasMore &&
		discovery.NearBottom(m.list.Index(), len(m.list.Items()), discovery.NearBottomThreshold)
}

func (m *model) current() (openlibrary.Document, bool) {
	if m.mode == modeDetails && m.selected != nil {
		return *m.selected, true
	}
	item, ok := m.list.SelectedItem().(bookItem)
	if !ok {
		return openlibrary.Document{}, false
	}
	return item.doc, true
}

func (m *model) toggleBookmark(store *library.Store) {
	doc, ok := m.current()
	if !ok || store == nil {
		return
	}
	added, err := store.Toggle(context.Background(), doc)
	if err != nil {
		m.err = err
		return
	}
	verb := "Removed from"
	if added {
		verb = "Added to"
	}
	m.status = fmt.Sprintf("%s %s: %s", verb, store.Kind().Label(), doc.DisplayTitle())

	index := m.list.Index()
	if index >= 0 && index < len(m.list.Items()) {
		m.list.SetItem(index, m.itemFor(m.list.Items()[index].(bookItem).doc))
	}
}

func (m *model) toggleAuthorFilter() {
	if m.filters.Author != "" {
		m.filters.Author = ""
		m.refresh()
		return
	}
	doc, ok := m.current()
	if !ok || doc.FirstAuthor() == "" {
		return
	}
	m.filters.Author = doc.FirstAuthor()
	m.list.ResetSelected()
	m.refresh()
}

func (m *model) toggleTheme() {
	if m.deps.Theme == nil {
		return
	}
	theme, err := m.deps.Theme.Toggle(context.Background())
	if err != nil {
		m.err = err
		return
	}
	m.styles = newStyles(theme)
	m.list.SetDelegate(newDelegate(m.styles))
}

func (m *model) openDetails() tea.Cmd {
	doc, ok := m.current()
	if !ok {
		return nil
	}
	m.selected = &doc
	m.details = nil
	m.err = nil
	m.setMode(modeDetails)
	if m.deps.Details == nil || doc.Key == "" {
		m.details = &openlibrary.Details{}
		return nil
	}
	return m.detailsCmd(doc.Key)
}

func (m *model) setMode(next mode) {
	m.mode = next
	if next == modeSearch {
		m.input.Focus()
	} else {
		m.input.Blur()
	}
}

func (m *model) quit() tea.Cmd {
	m.scroll.Stop()
	m.suggest.Stop()
	return tea.Quit
}

func (m *model) searchCmd(query string, queryType openlibrary.QueryType) tea.Cmd {
	acc := m.acc
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		return searchDoneMsg{query: query, err: acc.StartSearch(ctx, query, queryType)}
	}
}

func (m *model) loadMoreCmd() tea.Cmd {
	acc := m.acc
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		loaded, err := acc.LoadMore(ctx)
		return loadMoreDoneMsg{loaded: loaded, err: err}
	}
}

func (m *model) suggestionsCmd(input string) tea.Cmd {
	gateway, queryType := m.deps.Gateway, m.queryType
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		suggestions, err := discovery.Suggest(ctx, gateway, input, queryType)
		return suggestionsMsg{input: input, suggestions: suggestions, err: err}
	}
}

func (m *model) trendingCmd() tea.Cmd {
	gateway := m.deps.Gateway
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		docs, err := discovery.Trending(ctx, gateway)
		return trendingMsg{docs: docs, err: err}
	}
}

func (m *model) detailsCmd(key string) tea.Cmd {
	fetcher := m.deps.Details
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		details, err := fetcher.Details(ctx, key)
		return detailsMsg{key: key, details: details, err: err}
	}
}

// Browse runs the interactive browser until the user quits.
func Browse(deps Deps) error {
	m := newModel(deps)
	_, err := runProgram(m)
	return err
}
