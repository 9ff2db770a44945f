// Package storage persists small named values ("slots") such as bookmark
// lists and the recent-search log. It plays the part browser local storage
// plays for a web client: every write replaces the whole slot value.
package storage

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
)

// Slot names used by folio.
const (
	SlotFavorites      = "favorites"
	SlotReadLater      = "read-later"
	SlotRecentSearches = "recent-searches"
	SlotTheme          = "theme"
)

// Backend is a key/value store for slot values.
type Backend interface {
	// Get returns the stored value and whether the slot exists.
	Get(ctx context.Context, slot string) ([]byte, bool, error)
	// Set replaces the value of a slot.
	Set(ctx context.Context, slot string, value []byte) error
	// Delete removes a slot. Deleting a missing slot is not an error.
	Delete(ctx context.Context, slot string) error
	// Close releases any resources held by the backend.
	Close() error
}

// Options selects and configures a backend.
type Options struct {
	// Kind is "sqlite", "redis" or "memory".
	Kind      string
	DBFile    string
	RedisAddr string
}

// Open creates the backend described by opts. An unreachable Redis server
// falls back to in-memory storage so the application keeps working.
func Open(ctx context.Context, opts Options) (Backend, error) {
	switch strings.ToLower(strings.TrimSpace(opts.Kind)) {
	case "", "sqlite":
		return NewSQLiteBackend(opts.DBFile)
	case "redis":
		backend, err := NewRedisBackend(ctx, RedisOptions{Addr: opts.RedisAddr})
		if err != nil {
			slog.Warn("Redis unavailable, using in-memory storage", "addr", opts.RedisAddr, "error", err)
			return NewMemoryBackend(), nil
		}
		return backend, nil
	case "memory":
		return NewMemoryBackend(), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q; valid backends are: sqlite, redis, memory", opts.Kind)
	}
}
