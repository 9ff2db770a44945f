package cmd

import (
	"bytes"
	"os"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/lepinkainen/folio/internal/config"
	"github.com/lepinkainen/folio/internal/testutil"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupCmdTest isolates config and storage for a command test. The returned
// buffer collects command output.
func setupCmdTest(t *testing.T, baseURL string) (*testutil.TestEnv, *bytes.Buffer) {
	t.Helper()

	env := testutil.NewTestEnv(t)
	testutil.ResetConfig(t)
	origOverwrite := config.OverwriteFiles
	t.Cleanup(func() {
		config.OverwriteFiles = origOverwrite
		config.InitConfig()
	})

	viper.Set("openlibrary.base_url", baseURL)
	viper.Set("openlibrary.covers_url", baseURL)
	viper.Set("openlibrary.rate_per_second", 0)
	viper.Set("storage.backend", "sqlite")
	viper.Set("storage.dbfile", env.Path("folio.db"))
	viper.Set("cache.enabled", false)
	config.InitConfig()
	config.SetOverwriteFiles(false)

	var out bytes.Buffer
	origStdout := stdout
	stdout = &out
	t.Cleanup(func() { stdout = origStdout })

	return env, &out
}

func parseCLI(t *testing.T, args ...string) (*CLI, *kong.Context) {
	t.Helper()

	originalArgs := os.Args
	os.Args = append([]string{"folio"}, args...)
	t.Cleanup(func() { os.Args = originalArgs })

	cli := &CLI{}
	opts := append(kongOptions(), kong.Exit(func(code int) {
		t.Fatalf("unexpected Kong exit %d", code)
	}))
	ctx := kong.Parse(cli, opts...)

	return cli, ctx
}

// runCLI parses and runs args the way Execute does.
func runCLI(t *testing.T, args ...string) error {
	t.Helper()

	cli, ctx := parseCLI(t, args...)
	updateGlobalConfig(cli, ctx)
	return ctx.Run()
}

func TestUpdateGlobalConfig_ExplicitFlagsOnly(t *testing.T) {
	testutil.ResetConfig(t)
	viper.Set("storage.dbfile", "/from/config.db")
	viper.Set("cache.ttl", "48h")

	cli, ctx := parseCLI(t, "--storage", "memory", "--cache-db-file", "/tmp/cache.db", "--no-cache", "popular")
	updateGlobalConfig(cli, ctx)

	assert.Equal(t, "memory", config.StorageBackend)
	assert.Equal(t, "/from/config.db", config.StorageDBFile)
	assert.Equal(t, "/tmp/cache.db", viper.GetString("cache.dbfile"))
	assert.Equal(t, "48h", viper.GetString("cache.ttl"))
	assert.False(t, config.CacheEnabled)
}

func TestUpdateGlobalConfig_Overwrite(t *testing.T) {
	testutil.ResetConfig(t)

	cli, ctx := parseCLI(t, "--overwrite", "popular")
	updateGlobalConfig(cli, ctx)

	assert.True(t, config.OverwriteFiles)
}

func TestRedisAddrFromEnvironment(t *testing.T) {
	testutil.ResetConfig(t)
	t.Setenv("FOLIO_REDIS_ADDR", "redis://cache:6379/2")

	cli, ctx := parseCLI(t, "--storage", "redis", "popular")
	updateGlobalConfig(cli, ctx)

	assert.Equal(t, "redis://cache:6379/2", cli.RedisAddr)
	assert.Equal(t, "redis", config.StorageBackend)
	assert.Equal(t, "redis://cache:6379/2", config.RedisAddr)
}

func TestCLIDefaultFlags(t *testing.T) {
	testutil.ResetConfig(t)

	cli, _ := parseCLI(t, "popular")

	assert.False(t, cli.Overwrite, "Overwrite should default to false")
	assert.Equal(t, "sqlite", cli.Storage)
	assert.Equal(t, "./folio.db", cli.StorageDB)
	assert.False(t, cli.NoCache)
	assert.Equal(t, "./folio-cache.db", cli.CacheDBFile)
	assert.Equal(t, "24h", cli.CacheTTL)
	assert.Equal(t, "title", cli.Popular.Type)
}

func TestSearchCommandParsing(t *testing.T) {
	testutil.ResetConfig(t)

	cli, ctx := parseCLI(t, "search", "the hobbit",
		"--type", "author", "--sort", "newest",
		"--year-min", "1900", "--year-max", "1950",
		"--pages", "3", "--json", "-o", "out.yaml")

	assert.Equal(t, "search <query>", ctx.Command())
	assert.Equal(t, "the hobbit", cli.Search.Query)
	assert.Equal(t, "author", cli.Search.Type)
	assert.Equal(t, "newest", cli.Search.Sort)
	assert.Equal(t, "1900", cli.Search.YearMin)
	assert.Equal(t, "1950", cli.Search.YearMax)
	assert.Equal(t, 3, cli.Search.Pages)
	assert.True(t, cli.Search.JSON)
	assert.Equal(t, "out.yaml", cli.Search.Export)
}

func TestBookmarkCommandParsing(t *testing.T) {
	testutil.ResetConfig(t)

	_, ctx := parseCLI(t, "read-later", "toggle", "OL1W")
	assert.Equal(t, "read-later toggle <key>", ctx.Command())

	_, ctx = parseCLI(t, "favorites")
	assert.Equal(t, "favorites list", ctx.Command())
}

func TestInitConfigSetsDefaults(t *testing.T) {
	testutil.ResetConfig(t)

	// defaults only; initConfig itself reads the working directory
	config.SetDefaults()

	assert.Equal(t, config.DefaultBaseURL, viper.GetString("openlibrary.base_url"))
	assert.Equal(t, "sqlite", viper.GetString("storage.backend"))
	assert.Equal(t, "./folio.db", viper.GetString("storage.dbfile"))
	assert.Equal(t, "./folio-cache.db", viper.GetString("cache.dbfile"))
	assert.Equal(t, "24h", viper.GetString("cache.ttl"))
	assert.True(t, viper.GetBool("cache.enabled"))
}

func TestInitConfigWritesDefaultFile(t *testing.T) {
	testutil.ResetConfig(t)
	env := testutil.NewTestEnv(t)
	env.Chdir("")

	initConfig()

	env.RequireFileExists("config.yaml")
	env.AssertFileContains("config.yaml", "openlibrary")
	assert.Equal(t, config.DefaultPageSize, config.PageSize)
}

func TestInitConfigReadsFile(t *testing.T) {
	testutil.ResetConfig(t)
	env := testutil.NewTestEnv(t)
	env.WriteFileString("config.yaml", "search:\n  page_size: 20\nstorage:\n  backend: memory\n")
	env.Chdir("")

	initConfig()

	assert.Equal(t, 20, config.PageSize)
	assert.Equal(t, "memory", config.StorageBackend)
}

func TestInitLogging(t *testing.T) {
	tests := []struct {
		name     string
		envValue string
	}{
		{"default", ""},
		{"debug", "debug"},
		{"DEBUG", "DEBUG"},
		{"warn", "warn"},
		{"error", "error"},
		{"invalid", "invalid"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("FOLIO_LOG_LEVEL", tt.envValue)
			require.NotPanics(t, func() {
				initLogging()
			})
		})
	}
}

func TestNewLimiter(t *testing.T) {
	assert.Nil(t, newLimiter(0))
	assert.Nil(t, newLimiter(-1))

	limiter := newLimiter(0.5)
	require.NotNil(t, limiter)
	assert.Equal(t, "OpenLibrary", limiter.Name())
	assert.True(t, limiter.Allow())
	assert.False(t, limiter.Allow())
}

func viperSetPageSize(t *testing.T, n int) {
	t.Helper()
	viper.Set("search.page_size", n)
	config.InitConfig()
}
