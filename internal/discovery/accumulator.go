// Package discovery turns paged Open Library search results into the views a
// user browses: an accumulating result list plus derived filter and sort
// views, suggestions and trending lists.
package discovery

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"

	folioerrors "github.com/lepinkainen/folio/internal/errors"
	"github.com/lepinkainen/folio/internal/openlibrary"
)

// DefaultPageSize is the number of documents fetched per page.
const DefaultPageSize = openlibrary.DefaultPageSize

// ErrSuperseded is returned to a caller whose fetch completed after a newer
// search replaced the query it belonged to. The response was discarded.
var ErrSuperseded = errors.New("search superseded by a newer query")

// Gateway fetches one page of search results.
type Gateway interface {
	Search(ctx context.Context, req openlibrary.SearchRequest) (*openlibrary.SearchPage, error)
}

// State is a snapshot of the active query.
type State struct {
	Query string
	Type  openlibrary.QueryType
	// Offset is where the next page starts.
	Offset  int
	Total   int
	Docs    []openlibrary.Document
	HasMore bool
	Loading bool
	// Generation tags every fetch so late responses for an older query can
	// be recognised and dropped.
	Generation string
}

// Active reports whether a query has been started.
func (s State) Active() bool {
	return s.Query != ""
}

// Accumulator owns the growing result list for one active query. At most
// one fetch is in flight at a time; the network call runs without holding
// the lock and its result is applied only if the query is still current.
type Accumulator struct {
	gateway  Gateway
	pageSize int
	newID    func() string

	mu    sync.Mutex
	state State
}

// AccumulatorOption configures an Accumulator.
type AccumulatorOption func(*Accumulator)

// WithPageSize overrides the page size. Non-positive values are ignored.
func WithPageSize(n int) AccumulatorOption {
	return func(a *Accumulator) {
		if n > 0 {
			a.pageSize = n
		}
	}
}

// NewAccumulator creates an idle accumulator.
func NewAccumulator(gateway Gateway, opts ...AccumulatorOption) *Accumulator {
	a := &Accumulator{
		gateway:  gateway,
		pageSize: DefaultPageSize,
		newID:    uuid.NewString,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// PageSize returns the configured page size.
func (a *Accumulator) PageSize() int {
	return a.pageSize
}

// StartSearch replaces the current query and fetches its first page.
// A blank query returns a ValidationError without fetching. On fetch failure
// the result list is cleared and a FetchError is returned.
func (a *Accumulator) StartSearch(ctx context.Context, query string, queryType openlibrary.QueryType) error {
	query = strings.TrimSpace(query)
	if query == "" {
		return folioerrors.NewValidationError("query", "must not be blank")
	}

	a.mu.Lock()
	generation := a.newID()
	a.state = State{
		Query:      query,
		Type:       queryType,
		Loading:    true,
		Generation: generation,
	}
	a.mu.Unlock()

	slog.Debug("Starting search", "query", query, "type", queryType, "generation", generation)
	page, err := a.gateway.Search(ctx, openlibrary.SearchRequest{
		Query: query,
		Type:  queryType,
		Limit: a.pageSize,
	})

	a.mu.Lock()
	defer a.mu.Unlock()

	if a.state.Generation != generation {
		slog.Debug("Discarding stale search response", "query", query, "generation", generation)
		return ErrSuperseded
	}
	a.state.Loading = false

	if err != nil {
		a.state.Docs = nil
		a.state.HasMore = false
		return asFetchError("search", err)
	}
	if page == nil {
		page = &openlibrary.SearchPage{}
	}

	a.state.Docs = append([]openlibrary.Document(nil), page.Docs...)
	a.state.Total = page.NumFound
	a.state.Offset = a.pageSize
	a.state.HasMore = hasMore(len(a.state.Docs), page)
	return nil
}

// LoadMore fetches and appends the next page. It does nothing and returns
// false when a fetch is already in flight, no more pages exist, or no query
// is active. It returns true when a page was appended. On failure the
// existing results are kept and a FetchError is returned.
func (a *Accumulator) LoadMore(ctx context.Context) (bool, error) {
	a.mu.Lock()
	if a.state.Loading || !a.state.HasMore || !a.state.Active() {
		a.mu.Unlock()
		return false, nil
	}
	a.state.Loading = true
	generation := a.state.Generation
	req := openlibrary.SearchRequest{
		Query:  a.state.Query,
		Type:   a.state.Type,
		Limit:  a.pageSize,
		Offset: a.state.Offset,
	}
	a.mu.Unlock()

	slog.Debug("Loading more results", "query", req.Query, "offset", req.Offset)
	page, err := a.gateway.Search(ctx, req)

	a.mu.Lock()
	defer a.mu.Unlock()

	if a.state.Generation != generation {
		slog.Debug("Discarding stale page", "query", req.Query, "offset", req.Offset)
		return false, ErrSuperseded
	}
	a.state.Loading = false

	if err != nil {
		return false, asFetchError("search", err)
	}
	if page == nil {
		page = &openlibrary.SearchPage{}
	}

	a.state.Docs = append(a.state.Docs, page.Docs...)
	a.state.Total = page.NumFound
	a.state.Offset += a.pageSize
	a.state.HasMore = hasMore(len(a.state.Docs), page)
	return true, nil
}

// Snapshot returns a copy of the current state.
func (a *Accumulator) Snapshot() State {
	a.mu.Lock()
	defer a.mu.Unlock()

	s := a.state
	s.Docs = append([]openlibrary.Document(nil), a.state.Docs...)
	return s
}

// Reset forgets the active query. An in-flight fetch is discarded when it
// completes.
func (a *Accumulator) Reset() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.state = State{Generation: a.newID()}
}

// hasMore is true while fewer documents are held than the gateway reports.
// An empty page ends pagination even if the reported total says otherwise.
func hasMore(accumulated int, page *openlibrary.SearchPage) bool {
	return len(page.Docs) > 0 && accumulated < page.NumFound
}

func asFetchError(op string, err error) error {
	if folioerrors.IsFetchError(err) {
		return err
	}
	return folioerrors.NewFetchError(op, err)
}
