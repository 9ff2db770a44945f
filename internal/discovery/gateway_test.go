package discovery

import (
	"context"
	"sync"

	"github.com/lepinkainen/folio/internal/openlibrary"
)

// fakeGateway serves canned pages keyed by offset. When block is set, each
// call waits for a value on release before answering.
type fakeGateway struct {
	mu       sync.Mutex
	pages    map[int]*openlibrary.SearchPage
	err      error
	requests []openlibrary.SearchRequest

	block   bool
	started chan openlibrary.SearchRequest
	release chan struct{}
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{
		pages:   make(map[int]*openlibrary.SearchPage),
		started: make(chan openlibrary.SearchRequest, 16),
		release: make(chan struct{}),
	}
}

func (g *fakeGateway) Search(ctx context.Context, req openlibrary.SearchRequest) (*openlibrary.SearchPage, error) {
	g.mu.Lock()
	g.requests = append(g.requests, req)
	block := g.block
	g.mu.Unlock()

	if block {
		g.started <- req
		select {
		case <-g.release:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	if g.err != nil {
		return nil, g.err
	}
	if page, ok := g.pages[req.Offset]; ok {
		return page, nil
	}
	return &openlibrary.SearchPage{Docs: []openlibrary.Document{}}, nil
}

func (g *fakeGateway) setErr(err error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.err = err
}

func (g *fakeGateway) setBlocking(block bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.block = block
}

func (g *fakeGateway) calls() []openlibrary.SearchRequest {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]openlibrary.SearchRequest(nil), g.requests...)
}

func docs(keys ...string) []openlibrary.Document {
	out := make([]openlibrary.Document, 0, len(keys))
	for _, k := range keys {
		out = append(out, openlibrary.Document{Key: k, Title: k})
	}
	return out
}

func year(y int) *int { return &y }
