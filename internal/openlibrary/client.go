// Package openlibrary provides a client for the Open Library search, works and
// covers APIs.
package openlibrary

import (
	"net/http"
	"strings"
	"time"

	"github.com/lepinkainen/folio/internal/ratelimit"
)

const (
	defaultBaseURL       = "https://openlibrary.org"
	defaultCoversURL     = "https://covers.openlibrary.org"
	defaultUserAgent     = "folio/1.0 (+https://github.com/lepinkainen/folio)"
	defaultRatePerSecond = 3
	defaultTimeout       = 15 * time.Second
)

// HTTPDoer is an interface for making HTTP requests.
type HTTPDoer interface {
	Do(*http.Request) (*http.Response, error)
}

// Client is an Open Library API client.
type Client struct {
	baseURL     string
	coversURL   string
	userAgent   string
	httpClient  HTTPDoer
	rateLimiter *ratelimit.Limiter
	useCache    bool
}

// NewClient creates a new Open Library client.
func NewClient(opts ...Option) *Client {
	client := &Client{
		baseURL:     defaultBaseURL,
		coversURL:   defaultCoversURL,
		userAgent:   defaultUserAgent,
		httpClient:  &http.Client{Timeout: defaultTimeout},
		rateLimiter: ratelimit.New("OpenLibrary", defaultRatePerSecond),
	}

	for _, opt := range opts {
		opt(client)
	}

	return client
}

// Option is a functional option for configuring the Client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(c HTTPDoer) Option {
	return func(client *Client) {
		if c != nil {
			client.httpClient = c
		}
	}
}

// WithBaseURL sets a custom base URL for the search and works APIs.
func WithBaseURL(base string) Option {
	return func(client *Client) {
		if base != "" {
			client.baseURL = strings.TrimSuffix(base, "/")
		}
	}
}

// WithCoversURL sets a custom base URL for the covers CDN.
func WithCoversURL(base string) Option {
	return func(client *Client) {
		if base != "" {
			client.coversURL = strings.TrimSuffix(base, "/")
		}
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(client *Client) {
		if ua != "" {
			client.userAgent = ua
		}
	}
}

// WithRateLimiter sets the rate limiter. Passing nil disables limiting.
func WithRateLimiter(limiter *ratelimit.Limiter) Option {
	return func(client *Client) {
		client.rateLimiter = limiter
	}
}

// WithCache routes lookups through the SQLite response cache.
func WithCache(enabled bool) Option {
	return func(client *Client) {
		client.useCache = enabled
	}
}
