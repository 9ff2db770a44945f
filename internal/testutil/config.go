package testutil

import (
	"testing"

	"github.com/lepinkainen/folio/internal/config"
	"github.com/spf13/viper"
)

// ConfigState holds the state of the config package variables.
type ConfigState struct {
	BaseURL        string
	CoversURL      string
	RatePerSecond  float64
	PageSize       int
	StorageBackend string
	StorageDBFile  string
	RedisAddr      string
	CacheEnabled   bool
	OverwriteFiles bool
}

// SaveConfigState captures the current state of config package variables.
func SaveConfigState() ConfigState {
	return ConfigState{
		BaseURL:        config.BaseURL,
		CoversURL:      config.CoversURL,
		RatePerSecond:  config.RatePerSecond,
		PageSize:       config.PageSize,
		StorageBackend: config.StorageBackend,
		StorageDBFile:  config.StorageDBFile,
		RedisAddr:      config.RedisAddr,
		CacheEnabled:   config.CacheEnabled,
		OverwriteFiles: config.OverwriteFiles,
	}
}

// RestoreConfigState restores the config package variables to a saved state.
func RestoreConfigState(state ConfigState) {
	config.BaseURL = state.BaseURL
	config.CoversURL = state.CoversURL
	config.RatePerSecond = state.RatePerSecond
	config.PageSize = state.PageSize
	config.StorageBackend = state.StorageBackend
	config.StorageDBFile = state.StorageDBFile
	config.RedisAddr = state.RedisAddr
	config.CacheEnabled = state.CacheEnabled
	config.OverwriteFiles = state.OverwriteFiles
}

// ResetConfig saves the current config state and schedules restoration
// when the test completes. It also resets viper.
func ResetConfig(t *testing.T) {
	t.Helper()

	state := SaveConfigState()
	viper.Reset()

	t.Cleanup(func() {
		RestoreConfigState(state)
		viper.Reset()
	})
}

// SetTestConfigOption is a functional option for configuring test config.
type SetTestConfigOption func(*testConfigOptions)

type testConfigOptions struct {
	baseURL        string
	storageDBFile  string
	cacheEnabled   bool
	overwriteFiles bool
}

// WithBaseURL points the Open Library client at a test server.
func WithBaseURL(url string) SetTestConfigOption {
	return func(o *testConfigOptions) {
		o.baseURL = url
	}
}

// WithStorageDBFile sets the slot database path.
func WithStorageDBFile(path string) SetTestConfigOption {
	return func(o *testConfigOptions) {
		o.storageDBFile = path
	}
}

// WithCacheEnabled toggles the response cache.
func WithCacheEnabled(v bool) SetTestConfigOption {
	return func(o *testConfigOptions) {
		o.cacheEnabled = v
	}
}

// WithOverwriteFiles sets the OverwriteFiles option.
func WithOverwriteFiles(v bool) SetTestConfigOption {
	return func(o *testConfigOptions) {
		o.overwriteFiles = v
	}
}

// SetTestConfig sets up an isolated configuration: memory storage unless a
// database file is given, cache disabled and no rate limiting. It saves the
// current state and restores it when the test completes.
func SetTestConfig(t *testing.T, opts ...SetTestConfigOption) {
	t.Helper()

	state := SaveConfigState()
	viper.Reset()

	options := testConfigOptions{
		baseURL:        config.DefaultBaseURL,
		overwriteFiles: true,
	}
	for _, opt := range opts {
		opt(&options)
	}

	config.BaseURL = options.baseURL
	config.CoversURL = options.baseURL
	config.RatePerSecond = 0
	config.PageSize = config.DefaultPageSize
	config.StorageBackend = "memory"
	config.StorageDBFile = options.storageDBFile
	if options.storageDBFile != "" {
		config.StorageBackend = "sqlite"
	}
	config.RedisAddr = ""
	config.CacheEnabled = options.cacheEnabled
	config.OverwriteFiles = options.overwriteFiles

	t.Cleanup(func() {
		RestoreConfigState(state)
		viper.Reset()
	})
}

// SetupTestCache points the response cache at a database inside env and
// returns its path. Callers that already opened the global cache must reset
// it themselves.
func SetupTestCache(t *testing.T, env *TestEnv) string {
	t.Helper()

	env.MkdirAll("cache")
	dbPath := env.Path("cache", "test-cache.db")

	viper.Set("cache.enabled", true)
	viper.Set("cache.dbfile", dbPath)
	viper.Set("cache.ttl", "24h")
	config.CacheEnabled = true

	return dbPath
}
