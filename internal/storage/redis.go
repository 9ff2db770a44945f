package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	defaultRedisAddr  = "localhost:6379"
	defaultKeyPrefix  = "folio:"
	redisDialTimeout  = 3 * time.Second
	redisReadTimeout  = 2 * time.Second
	redisWriteTimeout = 2 * time.Second
	redisPingTimeout  = 2 * time.Second
	redisPoolSize     = 4
	redisMinIdleConns = 1
	redisMaxIdleConns = 2
)

// RedisOptions configures the Redis backend.
type RedisOptions struct {
	// Addr is host:port or a redis:// URL.
	Addr      string
	KeyPrefix string
}

// RedisBackend stores each slot as a plain Redis string under a key prefix.
type RedisBackend struct {
	client *redis.Client
	prefix string
}

// NewRedisBackend connects to Redis and verifies the connection with a ping.
func NewRedisBackend(ctx context.Context, opts RedisOptions) (*RedisBackend, error) {
	options, err := redisOptions(opts.Addr)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(options)

	pingCtx, cancel := context.WithTimeout(ctx, redisPingTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis: ping %s failed: %w", options.Addr, err)
	}

	slog.Debug("Connected to redis", "addr", options.Addr)

	prefix := opts.KeyPrefix
	if prefix == "" {
		prefix = defaultKeyPrefix
	}
	return &RedisBackend{client: client, prefix: prefix}, nil
}

func redisOptions(addr string) (*redis.Options, error) {
	var options *redis.Options
	switch {
	case addr == "":
		options = &redis.Options{Addr: defaultRedisAddr}
	case strings.HasPrefix(addr, "redis://"), strings.HasPrefix(addr, "rediss://"):
		parsed, err := redis.ParseURL(addr)
		if err != nil {
			return nil, fmt.Errorf("redis: invalid URL: %w", err)
		}
		options = parsed
	default:
		options = &redis.Options{Addr: addr}
	}

	options.PoolSize = redisPoolSize
	options.MinIdleConns = redisMinIdleConns
	options.MaxIdleConns = redisMaxIdleConns
	options.DialTimeout = redisDialTimeout
	options.ReadTimeout = redisReadTimeout
	options.WriteTimeout = redisWriteTimeout
	return options, nil
}

func (r *RedisBackend) key(slot string) string {
	return r.prefix + slot
}

func (r *RedisBackend) Get(ctx context.Context, slot string) ([]byte, bool, error) {
	value, err := r.client.Get(ctx, r.key(slot)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis: get %s: %w", slot, err)
	}
	return value, true, nil
}

func (r *RedisBackend) Set(ctx context.Context, slot string, value []byte) error {
	if err := r.client.Set(ctx, r.key(slot), value, 0).Err(); err != nil {
		return fmt.Errorf("redis: set %s: %w", slot, err)
	}
	return nil
}

func (r *RedisBackend) Delete(ctx context.Context, slot string) error {
	if err := r.client.Del(ctx, r.key(slot)).Err(); err != nil {
		return fmt.Errorf("redis: delete %s: %w", slot, err)
	}
	return nil
}

func (r *RedisBackend) Close() error {
	return r.client.Close()
}
