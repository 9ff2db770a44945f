package cache

// Cache table names. All cache tables share one layout keyed by cache_key.
const (
	SearchTable  = "openlibrary_search_cache"
	WorkTable    = "openlibrary_work_cache"
	EditionTable = "openlibrary_edition_cache"
)

const tableSchemaTemplate = `
CREATE TABLE IF NOT EXISTS %[1]s (
	cache_key TEXT PRIMARY KEY NOT NULL,
	data TEXT NOT NULL,
	cached_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_%[1]s_cached_at ON %[1]s(cached_at);
`

// ValidCacheTableNames is the whitelist of allowed cache table names.
// Table names are interpolated into SQL, so every query checks this first.
var ValidCacheTableNames = map[string]bool{
	SearchTable:  true,
	WorkTable:    true,
	EditionTable: true,
}

// Sources maps user-facing source names to the tables they cover.
var Sources = map[string][]string{
	"search":   {SearchTable},
	"works":    {WorkTable},
	"editions": {EditionTable},
	"all":      {SearchTable, WorkTable, EditionTable},
}
