package openlibrary

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/lepinkainen/folio/internal/cache"
)

// DefaultPageSize is the number of documents requested per search page.
const DefaultPageSize = 50

// SearchURL builds the search.json URL for a request.
func (c *Client) SearchURL(req SearchRequest) string {
	params := url.Values{}
	params.Set(req.Type.Param(), strings.TrimSpace(req.Query))
	if req.Limit > 0 {
		params.Set("limit", strconv.Itoa(req.Limit))
	}
	if req.Offset > 0 {
		params.Set("offset", strconv.Itoa(req.Offset))
	}
	if req.Sort != "" {
		params.Set("sort", req.Sort)
	}
	return fmt.Sprintf("%s/search.json?%s", c.baseURL, params.Encode())
}

// Search fetches one page of results. A response without docs is an empty page.
func (c *Client) Search(ctx context.Context, req SearchRequest) (*SearchPage, error) {
	if !c.useCache {
		return c.search(ctx, req)
	}

	cacheKey := fmt.Sprintf("%s_%s_%d_%d_%s", req.Type, normalizeQuery(req.Query), req.Limit, req.Offset, req.Sort)
	page, _, err := cache.GetOrFetchWithPolicy(cache.SearchTable, cacheKey, func() (*SearchPage, error) {
		return c.search(ctx, req)
	}, func(p *SearchPage) bool {
		return p != nil && len(p.Docs) > 0
	})
	if err != nil {
		return nil, err
	}
	return page, nil
}

func (c *Client) search(ctx context.Context, req SearchRequest) (*SearchPage, error) {
	var page SearchPage
	if err := c.getJSON(ctx, "search", c.SearchURL(req), &page); err != nil {
		return nil, err
	}
	if page.Docs == nil {
		page.Docs = []Document{}
	}
	return &page, nil
}

func normalizeQuery(q string) string {
	return strings.Join(strings.Fields(strings.ToLower(q)), "_")
}
