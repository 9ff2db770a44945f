package openlibrary

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
)

// CoverSize is one of the sizes served by the covers CDN.
type CoverSize string

const (
	CoverSmall  CoverSize = "S"
	CoverMedium CoverSize = "M"
	CoverLarge  CoverSize = "L"

	defaultCoverMaxWidth = 600
	placeholderWidth     = 180
	placeholderHeight    = 270
)

// ParseCoverSize maps "s"/"m"/"l" (any case) to a CoverSize, defaulting to medium.
func ParseCoverSize(s string) CoverSize {
	switch s {
	case "S", "s", "small":
		return CoverSmall
	case "L", "l", "large":
		return CoverLarge
	default:
		return CoverMedium
	}
}

// CoverURL returns the CDN URL for a numeric cover ID.
func (c *Client) CoverURL(coverID int, size CoverSize) string {
	return fmt.Sprintf("%s/b/id/%d-%s.jpg", c.coversURL, coverID, size)
}

// DocumentCoverURL returns the cover URL for a document, or "" when it has none.
func (c *Client) DocumentCoverURL(doc Document, size CoverSize) string {
	if doc.CoverID == nil || *doc.CoverID <= 0 {
		return ""
	}
	return c.CoverURL(*doc.CoverID, size)
}

// CoverResult describes a saved cover image.
type CoverResult struct {
	Path        string
	SourceURL   string
	Placeholder bool
}

// DownloadCover saves the document's cover as a JPEG at savePath, resized to
// at most maxWidth pixels wide. A document without a cover, or any download
// or decode failure, produces a generated placeholder image instead.
func (c *Client) DownloadCover(ctx context.Context, doc Document, size CoverSize, savePath string, maxWidth int) (*CoverResult, error) {
	if maxWidth <= 0 {
		maxWidth = defaultCoverMaxWidth
	}
	if err := os.MkdirAll(filepath.Dir(savePath), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create cover directory: %w", err)
	}

	coverURL := c.DocumentCoverURL(doc, size)
	if coverURL == "" {
		slog.Debug("Document has no cover, writing placeholder", "key", doc.Key)
		return writePlaceholder(savePath)
	}

	img, err := c.fetchImage(ctx, coverURL+"?default=false")
	if err != nil {
		slog.Warn("Cover download failed, writing placeholder", "url", coverURL, "error", err)
		return writePlaceholder(savePath)
	}

	if img.Bounds().Dx() > maxWidth {
		img = imaging.Resize(img, maxWidth, 0, imaging.Lanczos)
	}
	if err := imaging.Save(img, savePath, imaging.JPEGQuality(85)); err != nil {
		return nil, fmt.Errorf("failed to save cover: %w", err)
	}

	slog.Info("Downloaded cover", "path", savePath)
	return &CoverResult{Path: savePath, SourceURL: coverURL}, nil
}

func (c *Client) fetchImage(ctx context.Context, imageURL string) (image.Image, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("unexpected status %d downloading cover", resp.StatusCode)
	}

	return imaging.Decode(resp.Body, imaging.AutoOrientation(true))
}

// writePlaceholder draws a plain book-shaped card so callers never end up
// with a missing or broken image.
func writePlaceholder(savePath string) (*CoverResult, error) {
	img := imaging.New(placeholderWidth, placeholderHeight, color.NRGBA{R: 71, G: 85, B: 105, A: 255})
	inner := imaging.New(placeholderWidth-24, placeholderHeight-24, color.NRGBA{R: 226, G: 232, B: 240, A: 255})
	spine := imaging.New(10, placeholderHeight-24, color.NRGBA{R: 148, G: 163, B: 184, A: 255})
	img = imaging.Paste(img, inner, image.Pt(12, 12))
	img = imaging.Paste(img, spine, image.Pt(12, 12))

	if err := imaging.Save(img, savePath, imaging.JPEGQuality(85)); err != nil {
		return nil, fmt.Errorf("failed to save placeholder cover: %w", err)
	}
	return &CoverResult{Path: savePath, Placeholder: true}, nil
}
