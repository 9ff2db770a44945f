package cmd

import (
	"bytes"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"github.com/alecthomas/assert/v2"
	"github.com/lepinkainen/folio/internal/library"
	"github.com/lepinkainen/folio/internal/testutil"
	"github.com/lepinkainen/folio/internal/tui"
	"gopkg.in/yaml.v3"
)

const (
	dunePage0 = `{"numFound":3,"docs":[
		{"key":"/works/OL1W","title":"Dune","author_name":["Frank Herbert"],"first_publish_year":1965,"subject":["Science fiction"]},
		{"key":"/works/OL2W","title":"Dune Messiah","author_name":["Frank Herbert"],"first_publish_year":1969}
	]}`
	dunePage1 = `{"numFound":3,"docs":[
		{"key":"/works/OL3W","title":"Dune: House Atreides","author_name":["Brian Herbert","Kevin J. Anderson"],"first_publish_year":1999}
	]}`
)

func newDuneServer(t *testing.T) *testutil.FakeOpenLibrary {
	t.Helper()
	fake := testutil.NewFakeOpenLibrary(t)
	fake.AddSearch("title", "dune", 0, dunePage0)
	fake.AddSearch("title", "dune", 2, dunePage1)
	fake.AddSearch("q", "key:/works/OL1W", 0, `{"numFound":1,"docs":[{"key":"/works/OL1W","title":"Dune","author_name":["Frank Herbert"]}]}`)
	return fake
}

func TestSearchCommand(t *testing.T) {
	fake := newDuneServer(t)
	_, out := setupCmdTest(t, fake.URL())

	err := runCLI(t, "search", "Dune")
	assert.NoError(t, err)

	output := out.String()
	assert.Contains(t, output, `Showing 2 of 3 results for "Dune"`)
	assert.Contains(t, output, "Dune (1965) by Frank Herbert [/works/OL1W]")
	assert.Contains(t, output, "More results available")
}

func TestSearchCommand_AllPagesSortedAndFiltered(t *testing.T) {
	fake := newDuneServer(t)
	_, out := setupCmdTest(t, fake.URL())
	viperSetPageSize(t, 2)

	err := runCLI(t, "search", "dune", "--all", "--sort", "newest", "--year-min", "1966", "--facets")
	assert.NoError(t, err)

	output := out.String()
	assert.Contains(t, output, `Showing 2 of 3 results for "dune" (2 active, sort: Newest first)`)
	assert.True(t, strings.Index(output, "House Atreides") < strings.Index(output, "Dune Messiah"))
	assert.NotContains(t, output, "(1965)")
	assert.Contains(t, output, "Years: 1965-1999")
	assert.Contains(t, output, "Authors: Brian Herbert; Frank Herbert; Kevin J. Anderson")
	assert.NotContains(t, output, "More results available")
}

func TestSearchCommand_JSONAndExport(t *testing.T) {
	fake := newDuneServer(t)
	env, out := setupCmdTest(t, fake.URL())

	err := runCLI(t, "search", "dune", "--json", "-o", env.Path("results.yaml"))
	assert.NoError(t, err)

	var result SearchResult
	assert.NoError(t, json.Unmarshal(out.Bytes(), &result))
	assert.Equal(t, 3, result.Total)
	assert.Equal(t, 2, len(result.Docs))

	var exported SearchResult
	assert.NoError(t, yaml.Unmarshal(env.ReadFile("results.yaml"), &exported))
	assert.Equal(t, "dune", exported.Query)
	assert.Equal(t, "Dune Messiah", exported.Docs[1].Title)
}

func TestSearchCommand_RecordsHistory(t *testing.T) {
	fake := newDuneServer(t)
	_, out := setupCmdTest(t, fake.URL())

	assert.NoError(t, runCLI(t, "search", "dune"))
	out.Reset()

	assert.NoError(t, runCLI(t, "history", "list", "--json"))
	var entries []library.RecentEntry
	assert.NoError(t, json.Unmarshal(out.Bytes(), &entries))
	assert.Equal(t, 1, len(entries))
	assert.Equal(t, "dune", entries[0].Query)

	out.Reset()
	assert.NoError(t, runCLI(t, "history", "clear"))
	out.Reset()
	assert.NoError(t, runCLI(t, "history"))
	assert.Contains(t, out.String(), "No recent searches.")
}

func TestSearchCommand_BlankQuery(t *testing.T) {
	fake := newDuneServer(t)
	setupCmdTest(t, fake.URL())

	err := runCLI(t, "search", "  ")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "query")
	assert.Equal(t, 0, len(fake.Requests()))
}

func TestSuggestCommand(t *testing.T) {
	fake := newDuneServer(t)
	fake.AddSearch("author", "herb", 0, `{"numFound":1,"docs":[{"title":"Dune","author_name":["Frank Herbert"],"first_publish_year":1965}]}`)
	_, out := setupCmdTest(t, fake.URL())

	assert.NoError(t, runCLI(t, "suggest", "herb", "--type", "author"))
	assert.Contains(t, out.String(), "Frank Herbert")

	out.Reset()
	assert.NoError(t, runCLI(t, "suggest", "h"))
	assert.Contains(t, out.String(), "No suggestions")
	assert.Equal(t, 1, len(fake.Requests()))
}

func TestTrendingCommand(t *testing.T) {
	fake := newDuneServer(t)
	fake.AddSearch("subject", "best_sellers", 0, `{"numFound":1,"docs":[{"key":"/works/OL9W","title":"Popular Book","author_name":["Someone"]}]}`)
	_, out := setupCmdTest(t, fake.URL())

	assert.NoError(t, runCLI(t, "trending"))
	assert.Contains(t, out.String(), "1. Popular Book by Someone [/works/OL9W]")
	assert.Contains(t, fake.Requests()[0], "sort=rating+desc")
}

func TestPopularCommand(t *testing.T) {
	_, out := setupCmdTest(t, "http://127.0.0.1:1")

	assert.NoError(t, runCLI(t, "popular", "--type", "author"))
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	assert.Equal(t, 8, len(lines))
}

func TestDetailsCommand(t *testing.T) {
	fake := newDuneServer(t)
	fake.AddWork("/works/OL1W", `{"key":"/works/OL1W","description":{"type":"/type/text","value":"Spice and sand."},"subjects":["Arrakis","Ecology"]}`)
	_, out := setupCmdTest(t, fake.URL())

	assert.NoError(t, runCLI(t, "details", "OL1W"))
	output := out.String()
	assert.Contains(t, output, "Work: /works/OL1W")
	assert.Contains(t, output, "Spice and sand.")
	assert.Contains(t, output, "Subjects: Arrakis, Ecology")
}

func TestDetailsCommand_NotFound(t *testing.T) {
	fake := newDuneServer(t)
	setupCmdTest(t, fake.URL())

	err := runCLI(t, "details", "/works/OL404W")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}

func TestCoverCommand(t *testing.T) {
	fake := newDuneServer(t)
	img := image.NewNRGBA(image.Rect(0, 0, 40, 60))
	for x := 0; x < 40; x++ {
		for y := 0; y < 60; y++ {
			img.Set(x, y, color.NRGBA{R: 200, A: 255})
		}
	}
	var buf bytes.Buffer
	assert.NoError(t, png.Encode(&buf, img))
	fake.AddCover(42, buf.Bytes())
	env, out := setupCmdTest(t, fake.URL())

	assert.NoError(t, runCLI(t, "cover", "42", "-o", env.Path("covers", "dune.jpg")))
	assert.Contains(t, out.String(), "Saved")
	env.RequireFileExists("covers/dune.jpg")

	out.Reset()
	assert.NoError(t, runCLI(t, "cover", "7", "-o", env.Path("covers", "missing.jpg")))
	assert.Contains(t, out.String(), "placeholder")
	env.RequireFileExists("covers/missing.jpg")
}

func TestBookmarkCommands(t *testing.T) {
	fake := newDuneServer(t)
	env, out := setupCmdTest(t, fake.URL())

	assert.NoError(t, runCLI(t, "favorites", "toggle", "OL1W"))
	assert.Contains(t, out.String(), "Added to Favorites: Dune")

	out.Reset()
	assert.NoError(t, runCLI(t, "favorites"))
	assert.Contains(t, out.String(), "Dune by Frank Herbert [/works/OL1W]")

	out.Reset()
	assert.NoError(t, runCLI(t, "read-later", "list"))
	assert.Contains(t, out.String(), "is empty")

	assert.NoError(t, runCLI(t, "favorites", "export", env.Path("favorites.json")))
	env.AssertFileContains("favorites.json", `"key": "/works/OL1W"`)

	out.Reset()
	assert.NoError(t, runCLI(t, "favorites", "export", env.Path("favorites.json")))
	assert.Contains(t, out.String(), "use --overwrite")

	out.Reset()
	assert.NoError(t, runCLI(t, "favorites", "toggle", "/works/OL1W"))
	assert.Contains(t, out.String(), "Removed from Favorites")

	out.Reset()
	assert.NoError(t, runCLI(t, "favorites", "toggle", "OL1W"))
	assert.NoError(t, runCLI(t, "favorites", "clear"))
	assert.Contains(t, out.String(), "Removed 1 books")
}

func TestBookmarkToggle_UnknownKey(t *testing.T) {
	fake := newDuneServer(t)
	setupCmdTest(t, fake.URL())

	err := runCLI(t, "read-later", "toggle", "OL999W")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "no book found")
}

func TestThemeCommand(t *testing.T) {
	_, out := setupCmdTest(t, "http://127.0.0.1:1")

	assert.NoError(t, runCLI(t, "theme"))
	assert.Contains(t, out.String(), "Theme: light")

	out.Reset()
	assert.NoError(t, runCLI(t, "theme", "toggle"))
	assert.Contains(t, out.String(), "Theme: dark")

	out.Reset()
	assert.NoError(t, runCLI(t, "theme", "light"))
	assert.Contains(t, out.String(), "Theme: light")

	err := runCLI(t, "theme", "sepia")
	assert.Error(t, err)
}

func TestBrowseCommand(t *testing.T) {
	fake := newDuneServer(t)
	setupCmdTest(t, fake.URL())
	viperSetPageSize(t, 25)

	orig := runBrowser
	t.Cleanup(func() { runBrowser = orig })

	var got tui.Deps
	runBrowser = func(deps tui.Deps) error {
		got = deps
		return nil
	}

	assert.NoError(t, runCLI(t))
	assert.Equal(t, 25, got.PageSize)
	assert.NotZero(t, got.Favorites)
	assert.NotZero(t, got.Theme)
}

func TestCacheInvalidateCommand(t *testing.T) {
	setupCmdTest(t, "http://127.0.0.1:1")

	err := runCLI(t, "cache", "invalidate", "bogus")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "valid sources are: all, editions, search, works")
}
