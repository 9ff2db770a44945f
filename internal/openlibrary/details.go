package openlibrary

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/lepinkainen/folio/internal/cache"
)

// MaxDetailSubjects caps the number of work subjects shown in detail views.
const MaxDetailSubjects = 10

// NormalizeKey turns bare Open Library IDs into resource keys:
// "OL45804W" becomes "/works/OL45804W" and "OL7353617M" becomes "/books/OL7353617M".
func NormalizeKey(key string) string {
	key = strings.TrimSpace(key)
	if strings.HasPrefix(key, "/") {
		return key
	}
	switch {
	case strings.HasSuffix(key, "W"):
		return "/works/" + key
	case strings.HasSuffix(key, "M"):
		return "/books/" + key
	}
	return key
}

// Details fetches the work behind a document key. Edition keys are resolved to
// their parent work first; if that lookup fails the edition is left
// unresolved and empty details are returned.
func (c *Client) Details(ctx context.Context, key string) (*Details, error) {
	workKey := NormalizeKey(key)

	if strings.HasPrefix(workKey, "/books/") {
		resolved, err := c.resolveEdition(ctx, workKey)
		if err != nil {
			slog.Debug("Edition lookup failed, skipping work details", "key", workKey, "error", err)
		} else if resolved != "" {
			workKey = resolved
		}
	}

	if !strings.HasPrefix(workKey, "/works/") {
		return &Details{}, nil
	}

	w, err := c.fetchWork(ctx, workKey)
	if err != nil {
		return nil, err
	}

	details := &Details{
		WorkKey:     workKey,
		Description: extractDescription(w.Description),
		Subjects:    w.Subjects,
	}
	if len(details.Subjects) > MaxDetailSubjects {
		details.Subjects = details.Subjects[:MaxDetailSubjects]
	}
	return details, nil
}

func (c *Client) resolveEdition(ctx context.Context, editionKey string) (string, error) {
	fetch := func() (*edition, error) {
		var e edition
		if err := c.getJSON(ctx, "edition lookup", fmt.Sprintf("%s%s.json", c.baseURL, editionKey), &e); err != nil {
			return nil, err
		}
		return &e, nil
	}

	var (
		e   *edition
		err error
	)
	if c.useCache {
		e, _, err = cache.GetOrFetch(cache.EditionTable, editionKey, fetch)
	} else {
		e, err = fetch()
	}
	if err != nil {
		return "", err
	}
	if len(e.Works) == 0 {
		return "", nil
	}
	return e.Works[0].Key, nil
}

func (c *Client) fetchWork(ctx context.Context, workKey string) (*work, error) {
	fetch := func() (*work, error) {
		var w work
		if err := c.getJSON(ctx, "work lookup", fmt.Sprintf("%s%s.json", c.baseURL, workKey), &w); err != nil {
			return nil, err
		}
		return &w, nil
	}

	if c.useCache {
		w, _, err := cache.GetOrFetch(cache.WorkTable, workKey, fetch)
		return w, err
	}
	return fetch()
}

// extractDescription handles the two forms description can take.
func extractDescription(desc any) string {
	switch v := desc.(type) {
	case string:
		return v
	case map[string]any:
		if val, ok := v["value"].(string); ok {
			return val
		}
	}
	return ""
}
