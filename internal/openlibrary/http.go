package openlibrary

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	folioerrors "github.com/lepinkainen/folio/internal/errors"
)

// getJSON issues a single GET and decodes the body into target. Non-2xx
// responses and transport failures become FetchErrors; nothing is retried.
func (c *Client) getJSON(ctx context.Context, op, endpoint string, target any) error {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return folioerrors.NewFetchError(op, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("creating %s request: %w", op, err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return folioerrors.NewFetchError(op, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return folioerrors.NewStatusError(op, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return folioerrors.NewFetchError(op, fmt.Errorf("decoding response: %w", err))
	}
	return nil
}
