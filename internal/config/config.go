// Package config mirrors the viper configuration into typed package
// variables so library code doesn't reach into viper directly.
package config

import (
	"github.com/spf13/viper"
)

// Defaults for every configuration key.
const (
	DefaultBaseURL       = "https://openlibrary.org"
	DefaultCoversURL     = "https://covers.openlibrary.org"
	DefaultRatePerSecond = 3.0
	DefaultPageSize      = 50
	DefaultStorage       = "sqlite"
	DefaultStorageDBFile = "./folio.db"
	DefaultRedisAddr     = "localhost:6379"
	DefaultCacheDBFile   = "./folio-cache.db"
	DefaultCacheTTL      = "24h"
)

// Global configuration variables
var (
	// BaseURL is the Open Library API root
	BaseURL string
	// CoversURL is the covers CDN root
	CoversURL string
	// RatePerSecond limits requests to Open Library
	RatePerSecond float64
	// PageSize is the number of results fetched per page
	PageSize int
	// StorageBackend is sqlite, redis or memory
	StorageBackend string
	// StorageDBFile is the SQLite file for bookmarks and history
	StorageDBFile string
	// RedisAddr is used when StorageBackend is redis
	RedisAddr string
	// CacheEnabled routes API lookups through the response cache
	CacheEnabled bool
	// OverwriteFiles controls whether exports replace existing files
	OverwriteFiles bool
)

// SetDefaults registers the default value of every key.
func SetDefaults() {
	viper.SetDefault("openlibrary.base_url", DefaultBaseURL)
	viper.SetDefault("openlibrary.covers_url", DefaultCoversURL)
	viper.SetDefault("openlibrary.rate_per_second", DefaultRatePerSecond)
	viper.SetDefault("search.page_size", DefaultPageSize)
	viper.SetDefault("storage.backend", DefaultStorage)
	viper.SetDefault("storage.dbfile", DefaultStorageDBFile)
	viper.SetDefault("storage.redis_addr", DefaultRedisAddr)
	viper.SetDefault("cache.enabled", true)
	viper.SetDefault("cache.dbfile", DefaultCacheDBFile)
	viper.SetDefault("cache.ttl", DefaultCacheTTL)
	viper.SetDefault("overwrite_files", false)
}

// InitConfig initializes the global configuration
func InitConfig() {
	SetDefaults()

	BaseURL = viper.GetString("openlibrary.base_url")
	CoversURL = viper.GetString("openlibrary.covers_url")
	RatePerSecond = viper.GetFloat64("openlibrary.rate_per_second")
	PageSize = viper.GetInt("search.page_size")
	if PageSize <= 0 {
		PageSize = DefaultPageSize
	}
	StorageBackend = viper.GetString("storage.backend")
	StorageDBFile = viper.GetString("storage.dbfile")
	RedisAddr = viper.GetString("storage.redis_addr")
	CacheEnabled = viper.GetBool("cache.enabled")
	OverwriteFiles = viper.GetBool("overwrite_files")
}

// SetOverwriteFiles sets the OverwriteFiles flag
func SetOverwriteFiles(overwrite bool) {
	OverwriteFiles = overwrite
}
