package library

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/lepinkainen/folio/internal/storage"
)

// Theme is the colour scheme preference.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// ParseTheme validates a theme name.
func ParseTheme(s string) (Theme, error) {
	switch Theme(strings.ToLower(strings.TrimSpace(s))) {
	case ThemeLight:
		return ThemeLight, nil
	case ThemeDark:
		return ThemeDark, nil
	}
	return "", fmt.Errorf("unknown theme %q; valid themes are: light, dark", s)
}

// Toggled returns the other theme.
func (t Theme) Toggled() Theme {
	if t == ThemeDark {
		return ThemeLight
	}
	return ThemeDark
}

// ThemeStore persists the theme preference. It defaults to light.
type ThemeStore struct {
	backend storage.Backend

	mu    sync.Mutex
	theme Theme
}

// NewThemeStore creates a store holding the default theme.
func NewThemeStore(backend storage.Backend) *ThemeStore {
	return &ThemeStore{backend: backend, theme: ThemeLight}
}

// Load reads the persisted preference. Missing or unknown values keep the default.
func (s *ThemeStore) Load(ctx context.Context) error {
	var raw string
	if err := loadSlot(ctx, s.backend, storage.SlotTheme, &raw); err != nil {
		return err
	}

	theme, err := ParseTheme(raw)
	if err != nil {
		theme = ThemeLight
	}

	s.mu.Lock()
	s.theme = theme
	s.mu.Unlock()
	return nil
}

// Current returns the active theme.
func (s *ThemeStore) Current() Theme {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.theme
}

// Set changes and persists the theme.
func (s *ThemeStore) Set(ctx context.Context, theme Theme) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := saveSlot(ctx, s.backend, storage.SlotTheme, theme); err != nil {
		return err
	}
	s.theme = theme
	return nil
}

// Toggle switches between light and dark and returns the new theme.
func (s *ThemeStore) Toggle(ctx context.Context) (Theme, error) {
	next := s.Current().Toggled()
	if err := s.Set(ctx, next); err != nil {
		return s.Current(), err
	}
	return next, nil
}
