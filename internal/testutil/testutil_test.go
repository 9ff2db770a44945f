package testutil

import (
	"io"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/lepinkainen/folio/internal/config"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTestEnv_Path(t *testing.T) {
	env := NewTestEnv(t)

	path := env.Path("subdir", "file.txt")
	assert.True(t, filepath.IsAbs(path))
	assert.Equal(t, filepath.Join(env.RootDir(), "subdir", "file.txt"), path)
}

func TestTestEnv_WriteReadFile(t *testing.T) {
	env := NewTestEnv(t)

	env.WriteFileString("nested/test.txt", "test content")
	assert.Equal(t, "test content", env.ReadFileString("nested/test.txt"))
	assert.True(t, env.FileExists("nested/test.txt"))
	assert.False(t, env.FileExists("missing.txt"))
	env.AssertFileContains("nested/test.txt", "content")
	env.AssertFileEquals("nested/test.txt", "test content")
}

func TestTestEnv_MkdirAll(t *testing.T) {
	env := NewTestEnv(t)

	env.MkdirAll("nested/dir/structure")
	info, err := os.Stat(env.Path("nested/dir/structure"))
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestTestEnv_SetEnv(t *testing.T) {
	env := NewTestEnv(t)
	env.SetEnv("FOLIO_TEST_VAR", "value")
	assert.Equal(t, "value", os.Getenv("FOLIO_TEST_VAR"))
}

func TestTestEnv_isWithinSandbox(t *testing.T) {
	env := NewTestEnv(t)
	assert.True(t, env.isWithinSandbox(env.RootDir()))
	assert.True(t, env.isWithinSandbox(filepath.Join(env.RootDir(), "a")))
	assert.False(t, env.isWithinSandbox(filepath.Dir(env.RootDir())))
	assert.False(t, env.isWithinSandbox(env.RootDir()+"-sibling"))
}

func TestResetConfig(t *testing.T) {
	origOverwrite := config.OverwriteFiles
	origBackend := config.StorageBackend

	t.Run("inner", func(t *testing.T) {
		ResetConfig(t)
		config.OverwriteFiles = !origOverwrite
		config.StorageBackend = "redis"
	})

	assert.Equal(t, origOverwrite, config.OverwriteFiles)
	assert.Equal(t, origBackend, config.StorageBackend)
}

func TestSetTestConfig(t *testing.T) {
	origBackend := config.StorageBackend
	origBaseURL := config.BaseURL

	t.Run("defaults", func(t *testing.T) {
		SetTestConfig(t)
		assert.Equal(t, "memory", config.StorageBackend)
		assert.False(t, config.CacheEnabled)
		assert.True(t, config.OverwriteFiles)
		assert.Zero(t, config.RatePerSecond)
	})

	t.Run("options", func(t *testing.T) {
		SetTestConfig(t,
			WithBaseURL("http://127.0.0.1:1"),
			WithStorageDBFile("/tmp/folio.db"),
			WithOverwriteFiles(false),
		)
		assert.Equal(t, "http://127.0.0.1:1", config.BaseURL)
		assert.Equal(t, "sqlite", config.StorageBackend)
		assert.False(t, config.OverwriteFiles)
	})

	assert.Equal(t, origBackend, config.StorageBackend)
	assert.Equal(t, origBaseURL, config.BaseURL)
}

func TestSetupTestCache(t *testing.T) {
	viper.Reset()
	defer viper.Reset()

	env := NewTestEnv(t)
	dbPath := SetupTestCache(t, env)

	assert.DirExists(t, filepath.Dir(dbPath))
	assert.Equal(t, dbPath, viper.GetString("cache.dbfile"))
	assert.Equal(t, "24h", viper.GetString("cache.ttl"))
}

func TestFakeOpenLibrary(t *testing.T) {
	fake := NewFakeOpenLibrary(t)
	fake.AddSearch("title", "Dune", 0, `{"numFound":1,"docs":[{"key":"/works/OL1W"}]}`)
	fake.AddWork("/works/OL1W", `{"key":"/works/OL1W"}`)

	get := func(path string) (int, string) {
		resp, err := http.Get(fake.URL() + path)
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		return resp.StatusCode, string(body)
	}

	status, body := get("/search.json?title=dune&limit=50")
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, "OL1W")

	status, body = get("/search.json?title=dune&offset=50")
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, `"numFound":0`)

	status, _ = get("/works/OL1W.json")
	assert.Equal(t, http.StatusOK, status)

	status, _ = get("/works/OL2W.json")
	assert.Equal(t, http.StatusNotFound, status)

	status, _ = get("/b/id/5-M.jpg")
	assert.Equal(t, http.StatusNotFound, status)

	assert.Len(t, fake.Requests(), 5)
}
