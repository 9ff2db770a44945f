// Package library holds the user's locally persisted state: bookmark lists,
// the recent-search log and the theme preference.
package library

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	folioerrors "github.com/lepinkainen/folio/internal/errors"
	"github.com/lepinkainen/folio/internal/openlibrary"
	"github.com/lepinkainen/folio/internal/storage"
)

// Kind names a bookmark list.
type Kind string

const (
	Favorites Kind = "favorites"
	ReadLater Kind = "read-later"
)

// Kinds lists every bookmark list.
var Kinds = []Kind{Favorites, ReadLater}

// Slot returns the storage slot the list is persisted under.
func (k Kind) Slot() string {
	switch k {
	case ReadLater:
		return storage.SlotReadLater
	default:
		return storage.SlotFavorites
	}
}

// Label is the human readable list name.
func (k Kind) Label() string {
	switch k {
	case ReadLater:
		return "Read later"
	default:
		return "Favorites"
	}
}

// Store is a bookmark list. Documents are kept in insertion order and never
// duplicated by identity. Every mutation is written to the backend before
// returning.
type Store struct {
	kind    Kind
	backend storage.Backend

	mu   sync.Mutex
	docs []openlibrary.Document
}

// NewStore creates an empty store. Call LoadAll to read persisted state.
func NewStore(kind Kind, backend storage.Backend) *Store {
	return &Store{kind: kind, backend: backend}
}

// Kind returns the list this store holds.
func (s *Store) Kind() Kind {
	return s.kind
}

// LoadAll replaces the in-memory list with the persisted one. Malformed
// stored data is logged and treated as an empty list.
func (s *Store) LoadAll(ctx context.Context) error {
	var docs []openlibrary.Document
	if err := loadSlot(ctx, s.backend, s.kind.Slot(), &docs); err != nil {
		return err
	}

	s.mu.Lock()
	s.docs = dedupe(docs)
	s.mu.Unlock()
	return nil
}

// Toggle removes doc if a document with the same identity is present and
// appends it otherwise. It reports whether doc is now in the list.
func (s *Store) Toggle(ctx context.Context, doc openlibrary.Document) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := doc.Identity()
	next := make([]openlibrary.Document, 0, len(s.docs)+1)
	removed := false
	for _, d := range s.docs {
		if d.Identity() == id {
			removed = true
			continue
		}
		next = append(next, d)
	}
	if !removed {
		next = append(next, doc)
	}

	if err := saveSlot(ctx, s.backend, s.kind.Slot(), next); err != nil {
		// nothing changed, so membership is what it was before the call
		return removed, err
	}
	s.docs = next

	slog.Debug("Bookmark toggled", "list", s.kind, "key", id, "added", !removed)
	return !removed, nil
}

// Contains reports whether a document with doc's identity is in the list.
func (s *Store) Contains(doc openlibrary.Document) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := doc.Identity()
	for _, d := range s.docs {
		if d.Identity() == id {
			return true
		}
	}
	return false
}

// List returns a copy of the bookmarked documents in insertion order.
func (s *Store) List() []openlibrary.Document {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]openlibrary.Document(nil), s.docs...)
}

// Len returns the number of bookmarked documents.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.docs)
}

// Clear empties the list and removes the persisted slot.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.backend.Delete(ctx, s.kind.Slot()); err != nil {
		return folioerrors.NewPersistenceError(s.kind.Slot(), err)
	}
	s.docs = nil
	return nil
}

func dedupe(docs []openlibrary.Document) []openlibrary.Document {
	seen := make(map[string]bool, len(docs))
	out := make([]openlibrary.Document, 0, len(docs))
	for _, d := range docs {
		id := d.Identity()
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, d)
	}
	return out
}

// loadSlot decodes a JSON slot into target. A missing slot leaves target
// untouched; a malformed one is logged and also leaves target untouched.
// Only backend read failures are returned.
func loadSlot(ctx context.Context, backend storage.Backend, slot string, target any) error {
	data, found, err := backend.Get(ctx, slot)
	if err != nil {
		return folioerrors.NewPersistenceError(slot, err)
	}
	if !found || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, target); err != nil {
		slog.Warn("Ignoring malformed stored data", "error", folioerrors.NewPersistenceError(slot, err))
		return nil
	}
	return nil
}

func saveSlot(ctx context.Context, backend storage.Backend, slot string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return folioerrors.NewPersistenceError(slot, fmt.Errorf("encoding: %w", err))
	}
	if err := backend.Set(ctx, slot, data); err != nil {
		return folioerrors.NewPersistenceError(slot, err)
	}
	return nil
}
