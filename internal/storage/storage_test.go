package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/lepinkainen/folio/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func exerciseBackend(t *testing.T, backend Backend) {
	t.Helper()
	ctx := context.Background()

	_, found, err := backend.Get(ctx, SlotFavorites)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, backend.Set(ctx, SlotFavorites, []byte(`[{"key":"/works/OL1W"}]`)))
	value, found, err := backend.Get(ctx, SlotFavorites)
	require.NoError(t, err)
	assert.True(t, found)
	assert.JSONEq(t, `[{"key":"/works/OL1W"}]`, string(value))

	require.NoError(t, backend.Set(ctx, SlotFavorites, []byte(`[]`)))
	value, _, err = backend.Get(ctx, SlotFavorites)
	require.NoError(t, err)
	assert.Equal(t, `[]`, string(value))

	_, found, err = backend.Get(ctx, SlotReadLater)
	require.NoError(t, err)
	assert.False(t, found, "slots are independent")

	require.NoError(t, backend.Delete(ctx, SlotFavorites))
	_, found, err = backend.Get(ctx, SlotFavorites)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, backend.Delete(ctx, "never-set"))
}

func TestMemoryBackend(t *testing.T) {
	exerciseBackend(t, NewMemoryBackend())
}

func TestMemoryBackendCopiesValues(t *testing.T) {
	backend := NewMemoryBackend()
	ctx := context.Background()

	value := []byte("light")
	require.NoError(t, backend.Set(ctx, SlotTheme, value))
	value[0] = 'n'

	got, _, err := backend.Get(ctx, SlotTheme)
	require.NoError(t, err)
	assert.Equal(t, "light", string(got))
}

func TestSQLiteBackend(t *testing.T) {
	env := testutil.NewTestEnv(t)
	backend, err := NewSQLiteBackend(env.Path("data", "folio.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = backend.Close() })

	exerciseBackend(t, backend)
	env.RequireFileExists("data/folio.db")
}

func TestSQLiteBackendPersistsAcrossReopen(t *testing.T) {
	env := testutil.NewTestEnv(t)
	dbPath := env.Path("folio.db")
	ctx := context.Background()

	backend, err := NewSQLiteBackend(dbPath)
	require.NoError(t, err)
	require.NoError(t, backend.Set(ctx, SlotTheme, []byte(`"dark"`)))
	require.NoError(t, backend.Close())

	reopened, err := NewSQLiteBackend(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = reopened.Close() })

	value, found, err := reopened.Get(ctx, SlotTheme)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, `"dark"`, string(value))
}

func TestRedisBackend(t *testing.T) {
	addr := os.Getenv("FOLIO_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("FOLIO_TEST_REDIS_ADDR not set")
	}

	backend, err := NewRedisBackend(context.Background(), RedisOptions{Addr: addr, KeyPrefix: "folio-test:"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = backend.Close() })

	exerciseBackend(t, backend)
}

func TestRedisOptions(t *testing.T) {
	opts, err := redisOptions("")
	require.NoError(t, err)
	assert.Equal(t, defaultRedisAddr, opts.Addr)

	opts, err = redisOptions("cache.internal:6380")
	require.NoError(t, err)
	assert.Equal(t, "cache.internal:6380", opts.Addr)
	assert.Equal(t, redisPoolSize, opts.PoolSize)

	opts, err = redisOptions("redis://:secret@cache.internal:6379/2")
	require.NoError(t, err)
	assert.Equal(t, "cache.internal:6379", opts.Addr)
	assert.Equal(t, "secret", opts.Password)
	assert.Equal(t, 2, opts.DB)

	_, err = redisOptions("redis://cache.internal:6379/notadb")
	require.Error(t, err)
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	backend, err := Open(ctx, Options{Kind: "memory"})
	require.NoError(t, err)
	assert.IsType(t, &MemoryBackend{}, backend)

	backend, err = Open(ctx, Options{Kind: "SQLite", DBFile: filepath.Join(t.TempDir(), "x.db")})
	require.NoError(t, err)
	assert.IsType(t, &SQLiteBackend{}, backend)
	require.NoError(t, backend.Close())

	_, err = Open(ctx, Options{Kind: "etcd"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown storage backend")
}

func TestOpenRedisFallsBackToMemory(t *testing.T) {
	backend, err := Open(context.Background(), Options{Kind: "redis", RedisAddr: "127.0.0.1:1"})
	require.NoError(t, err)
	assert.IsType(t, &MemoryBackend{}, backend)
}
