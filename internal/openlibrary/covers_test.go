package openlibrary

import (
	"bytes"
	"context"
	"image/color"
	"net/http"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func TestCoverURL(t *testing.T) {
	client := NewClient()
	assert.Equal(t, "https://covers.openlibrary.org/b/id/8739161-L.jpg", client.CoverURL(8739161, CoverLarge))

	assert.Empty(t, client.DocumentCoverURL(Document{Title: "No cover"}, CoverMedium))
	assert.Equal(t, "https://covers.openlibrary.org/b/id/12-S.jpg",
		client.DocumentCoverURL(Document{CoverID: intPtr(12)}, CoverSmall))
}

func TestParseCoverSize(t *testing.T) {
	assert.Equal(t, CoverSmall, ParseCoverSize("s"))
	assert.Equal(t, CoverLarge, ParseCoverSize("large"))
	assert.Equal(t, CoverMedium, ParseCoverSize(""))
	assert.Equal(t, CoverMedium, ParseCoverSize("huge"))
}

func TestDownloadCoverResizes(t *testing.T) {
	var buf bytes.Buffer
	src := imaging.New(1200, 1800, color.NRGBA{R: 200, A: 255})
	require.NoError(t, imaging.Encode(&buf, src, imaging.PNG))

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/b/id/42-L.jpg", r.URL.Path)
		assert.Equal(t, "false", r.URL.Query().Get("default"))
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write(buf.Bytes())
	})

	savePath := filepath.Join(t.TempDir(), "covers", "dune.jpg")
	result, err := client.DownloadCover(context.Background(), Document{Key: "/works/OL1W", CoverID: intPtr(42)}, CoverLarge, savePath, 300)
	require.NoError(t, err)
	assert.False(t, result.Placeholder)
	assert.Equal(t, savePath, result.Path)

	saved, err := imaging.Open(savePath)
	require.NoError(t, err)
	assert.Equal(t, 300, saved.Bounds().Dx())
	assert.Equal(t, 450, saved.Bounds().Dy())
}

func TestDownloadCoverPlaceholderWithoutCoverID(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("unexpected request to %s", r.URL.Path)
	})

	savePath := filepath.Join(t.TempDir(), "placeholder.jpg")
	result, err := client.DownloadCover(context.Background(), Document{Title: "Coverless"}, CoverMedium, savePath, 0)
	require.NoError(t, err)
	assert.True(t, result.Placeholder)

	saved, err := imaging.Open(savePath)
	require.NoError(t, err)
	assert.Equal(t, placeholderWidth, saved.Bounds().Dx())
	assert.Equal(t, placeholderHeight, saved.Bounds().Dy())
}

func TestDownloadCoverPlaceholderOnFailure(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	savePath := filepath.Join(t.TempDir(), "missing.jpg")
	result, err := client.DownloadCover(context.Background(), Document{CoverID: intPtr(7)}, CoverMedium, savePath, 0)
	require.NoError(t, err)
	assert.True(t, result.Placeholder)
	assert.FileExists(t, savePath)
}
