package testutil

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
)

// FakeOpenLibrary is an httptest server answering the Open Library search,
// works, editions and covers endpoints from canned responses.
type FakeOpenLibrary struct {
	server *httptest.Server

	mu       sync.Mutex
	searches map[string]string
	works    map[string]string
	editions map[string]string
	covers   map[int][]byte
	requests []string
}

// NewFakeOpenLibrary starts a fake server that is shut down with the test.
func NewFakeOpenLibrary(t *testing.T) *FakeOpenLibrary {
	t.Helper()

	f := &FakeOpenLibrary{
		searches: make(map[string]string),
		works:    make(map[string]string),
		editions: make(map[string]string),
		covers:   make(map[int][]byte),
	}
	f.server = httptest.NewServer(http.HandlerFunc(f.handle))
	t.Cleanup(f.server.Close)
	return f
}

// URL is the base URL for both the API and the covers CDN.
func (f *FakeOpenLibrary) URL() string {
	return f.server.URL
}

// AddSearch registers the body returned for a search. param is the query
// parameter ("title", "author", "subject" or "q"); offset 0 is the first page.
func (f *FakeOpenLibrary) AddSearch(param, value string, offset int, body string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.searches[searchKey(param, value, offset)] = body
}

// AddWork registers the body returned for a work key like "/works/OL1W".
func (f *FakeOpenLibrary) AddWork(key, body string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.works[key] = body
}

// AddEdition registers the body returned for an edition key like "/books/OL1M".
func (f *FakeOpenLibrary) AddEdition(key, body string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.editions[key] = body
}

// AddCover registers image bytes for a cover ID.
func (f *FakeOpenLibrary) AddCover(id int, data []byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.covers[id] = data
}

// Requests returns the request URIs received so far.
func (f *FakeOpenLibrary) Requests() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.requests...)
}

func searchKey(param, value string, offset int) string {
	return fmt.Sprintf("%s=%s@%d", param, strings.ToLower(value), offset)
}

func (f *FakeOpenLibrary) handle(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, r.URL.RequestURI())

	path := r.URL.Path
	switch {
	case path == "/search.json":
		f.serveSearch(w, r)
	case strings.HasPrefix(path, "/works/") && strings.HasSuffix(path, ".json"):
		serveBody(w, f.works[strings.TrimSuffix(path, ".json")])
	case strings.HasPrefix(path, "/books/") && strings.HasSuffix(path, ".json"):
		serveBody(w, f.editions[strings.TrimSuffix(path, ".json")])
	case strings.HasPrefix(path, "/b/id/"):
		var id int
		var size string
		if _, err := fmt.Sscanf(strings.TrimPrefix(path, "/b/id/"), "%d-%1s", &id, &size); err != nil {
			http.NotFound(w, r)
			return
		}
		data, ok := f.covers[id]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write(data)
	default:
		http.NotFound(w, r)
	}
}

func (f *FakeOpenLibrary) serveSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	offset := 0
	if raw := q.Get("offset"); raw != "" {
		_, _ = fmt.Sscanf(raw, "%d", &offset)
	}

	for _, param := range []string{"title", "author", "subject", "q"} {
		if !q.Has(param) {
			continue
		}
		if body, ok := f.searches[searchKey(param, q.Get(param), offset)]; ok {
			serveBody(w, body)
			return
		}
	}
	serveBody(w, `{"numFound":0,"docs":[]}`)
}

func serveBody(w http.ResponseWriter, body string) {
	if body == "" {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"notfound"}`))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(body))
}
