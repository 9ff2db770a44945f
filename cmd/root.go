package cmd

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/lepinkainen/folio/internal/cache"
	"github.com/lepinkainen/folio/internal/config"
	"github.com/lepinkainen/humanlog"
	"github.com/spf13/viper"
)

// stdout receives command output; logs go to stderr.
var stdout io.Writer = os.Stdout

// CLI represents the complete command structure for the folio application
type CLI struct {
	// Global flags
	Overwrite bool `help:"Overwrite existing files when exporting"`

	// Storage flags
	Storage   string `help:"Storage backend for bookmarks and history: sqlite, redis, memory" default:"sqlite" enum:"sqlite,redis,memory"`
	StorageDB string `help:"Path to SQLite storage file" default:"./folio.db"`
	RedisAddr string `help:"Redis address or redis:// URL" default:"localhost:6379" env:"FOLIO_REDIS_ADDR"`

	// Cache flags
	NoCache     bool   `help:"Bypass the API response cache"`
	CacheDBFile string `help:"Path to cache SQLite database file" default:"./folio-cache.db"`
	CacheTTL    string `help:"Cache time-to-live duration (e.g., 24h)" default:"24h"`

	Search    SearchCmd   `cmd:"" help:"Search Open Library"`
	Suggest   SuggestCmd  `cmd:"" help:"Show typeahead suggestions for partial input"`
	Trending  TrendingCmd `cmd:"" help:"Show trending books"`
	Popular   PopularCmd  `cmd:"" help:"Show popular search terms"`
	Details   DetailsCmd  `cmd:"" help:"Show description and subjects for a work or edition"`
	Cover     CoverCmd    `cmd:"" help:"Download a cover image"`
	Favorites BookmarkCmd `cmd:"" help:"Manage favorites"`
	ReadLater BookmarkCmd `cmd:"" name:"read-later" help:"Manage the read-later list"`
	History   HistoryCmd  `cmd:"" help:"Show or clear recent searches"`
	Theme     ThemeCmd    `cmd:"" help:"Show or change the browser theme"`
	Browse    BrowseCmd   `cmd:"" default:"1" help:"Open the interactive browser"`
	Cache     CacheCmd    `cmd:"" help:"Manage the API response cache"`
}

// CacheCmd groups cache maintenance subcommands
type CacheCmd struct {
	Invalidate cache.InvalidateCacheCmd `cmd:"" help:"Invalidate cached API responses"`
}

func kongOptions() []kong.Option {
	return []kong.Option{
		kong.Name("folio"),
		kong.Description("Search and browse the Open Library catalogue."),
		kong.UsageOnError(),
	}
}

// Execute runs the Kong-based CLI
func Execute() {
	initLogging()
	initConfig()

	var cli CLI
	ctx := kong.Parse(&cli, kongOptions()...)

	updateGlobalConfig(&cli, ctx)

	if err := ctx.Run(); err != nil {
		slog.Error("Command failed", "error", err)
		os.Exit(1)
	}
}

func initConfig() {
	config.SetDefaults()

	viper.AutomaticEnv()
	if err := viper.BindEnv("storage.redis_addr", "FOLIO_REDIS_ADDR"); err != nil {
		slog.Error("Failed to bind environment variable", "error", err)
	}

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			slog.Info("Config file not found, writing default config file")
			if err := viper.SafeWriteConfig(); err != nil {
				slog.Warn("Error writing config file", "error", err)
			}
		} else {
			slog.Error("Fatal error config file", "error", err)
			os.Exit(1)
		}
	}

	config.InitConfig()
}

// updateGlobalConfig applies flags the user actually passed on top of the
// config file values.
func updateGlobalConfig(cli *CLI, ctx *kong.Context) {
	config.SetOverwriteFiles(cli.Overwrite || config.OverwriteFiles)

	set := explicitFlags(ctx)
	if set["storage"] {
		viper.Set("storage.backend", cli.Storage)
	}
	if set["storage-db"] {
		viper.Set("storage.dbfile", cli.StorageDB)
	}
	if set["redis-addr"] {
		viper.Set("storage.redis_addr", cli.RedisAddr)
	}
	if cli.NoCache {
		viper.Set("cache.enabled", false)
	}
	if set["cache-db-file"] {
		viper.Set("cache.dbfile", cli.CacheDBFile)
	}
	if set["cache-ttl"] {
		viper.Set("cache.ttl", cli.CacheTTL)
	}

	overwrite := config.OverwriteFiles
	config.InitConfig()
	config.SetOverwriteFiles(overwrite)
}

// explicitFlags returns the names of flags set on the command line or via
// their environment variable, as opposed to those left at their default.
func explicitFlags(ctx *kong.Context) map[string]bool {
	set := make(map[string]bool)
	if ctx == nil {
		return set
	}
	for _, flag := range ctx.Flags() {
		if flag.Set {
			set[flag.Name] = true
		}
		for _, env := range flag.Envs {
			if _, ok := os.LookupEnv(env); ok {
				set[flag.Name] = true
			}
		}
	}
	for _, path := range ctx.Path {
		if path.Flag != nil {
			set[path.Flag.Name] = true
		}
	}
	return set
}

func initLogging() {
	level := slog.LevelInfo
	if raw := strings.TrimSpace(os.Getenv("FOLIO_LOG_LEVEL")); raw != "" {
		if err := level.UnmarshalText([]byte(raw)); err != nil {
			level = slog.LevelInfo
		}
	}

	handler := humanlog.NewHandler(os.Stderr, &humanlog.Options{
		Level: level,
	})

	slog.SetDefault(slog.New(handler))
}
