package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/lepinkainen/folio/internal/config"
	"github.com/lepinkainen/folio/internal/library"
	"github.com/lepinkainen/folio/internal/openlibrary"
	"github.com/lepinkainen/folio/internal/ratelimit"
	"github.com/lepinkainen/folio/internal/storage"
)

// app holds the collaborators shared by every command.
type app struct {
	client    *openlibrary.Client
	backend   storage.Backend
	favorites *library.Store
	readLater *library.Store
	recent    *library.RecentLog
	theme     *library.ThemeStore
}

// openApp builds the Open Library client and loads the persisted library
// state from the configured storage backend.
var openApp = func(ctx context.Context) (*app, error) {
	backend, err := storage.Open(ctx, storage.Options{
		Kind:      config.StorageBackend,
		DBFile:    config.StorageDBFile,
		RedisAddr: config.RedisAddr,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open storage: %w", err)
	}

	a := &app{
		client:    newClient(),
		backend:   backend,
		favorites: library.NewStore(library.Favorites, backend),
		readLater: library.NewStore(library.ReadLater, backend),
		recent:    library.NewRecentLog(backend),
		theme:     library.NewThemeStore(backend),
	}

	loaders := []func(context.Context) error{
		a.favorites.LoadAll,
		a.readLater.LoadAll,
		a.recent.LoadAll,
		a.theme.Load,
	}
	for _, load := range loaders {
		if err := load(ctx); err != nil {
			_ = backend.Close()
			return nil, err
		}
	}
	return a, nil
}

func newClient() *openlibrary.Client {
	return openlibrary.NewClient(
		openlibrary.WithBaseURL(config.BaseURL),
		openlibrary.WithCoversURL(config.CoversURL),
		openlibrary.WithRateLimiter(newLimiter(config.RatePerSecond)),
		openlibrary.WithCache(config.CacheEnabled),
	)
}

// newLimiter converts a possibly fractional request rate into a limiter.
// A non-positive rate disables limiting.
func newLimiter(rps float64) *ratelimit.Limiter {
	if rps <= 0 {
		return nil
	}
	burst := int(rps)
	if burst < 1 {
		burst = 1
	}
	return ratelimit.Every("OpenLibrary", time.Duration(float64(time.Second)/rps), burst)
}

func (a *app) store(kind library.Kind) *library.Store {
	if kind == library.ReadLater {
		return a.readLater
	}
	return a.favorites
}

func (a *app) Close() {
	if err := a.backend.Close(); err != nil {
		slog.Warn("Failed to close storage", "error", err)
	}
}
