// Package cache holds the read-through event cache used by the event service.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"devevent/internal/domain"
)

const keyPrefix = "event:slug:"

// store is the subset of *redis.Client the cache uses.
type store interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// RedisEventCache caches events by slug as JSON. Errors are logged, never returned.
type RedisEventCache struct {
	client store
	ttl    time.Duration
	logger *slog.Logger
}

// NewRedisEventCache returns a cache over client with entries expiring after ttl.
func NewRedisEventCache(client *redis.Client, ttl time.Duration, logger *slog.Logger) *RedisEventCache {
	return newRedisEventCache(client, ttl, logger)
}

func newRedisEventCache(client store, ttl time.Duration, logger *slog.Logger) *RedisEventCache {
	return &RedisEventCache{client: client, ttl: ttl, logger: logger}
}

func (c *RedisEventCache) Get(ctx context.Context, slug string) (*domain.Event, bool) {
	data, err := c.client.Get(ctx, keyPrefix+slug).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.WarnContext(ctx, "event cache get failed", "slug", slug, "err", err)
		}
		return nil, false
	}
	var e domain.Event
	if err := json.Unmarshal(data, &e); err != nil {
		c.logger.WarnContext(ctx, "event cache entry corrupt", "slug", slug, "err", err)
		return nil, false
	}
	return &e, true
}

func (c *RedisEventCache) Set(ctx context.Context, e *domain.Event) {
	data, err := json.Marshal(e)
	if err != nil {
		c.logger.WarnContext(ctx, "event cache encode failed", "slug", e.Slug, "err", err)
		return
	}
	if err := c.client.Set(ctx, keyPrefix+e.Slug, data, c.ttl).Err(); err != nil {
		c.logger.WarnContext(ctx, "event cache set failed", "slug", e.Slug, "err", err)
	}
}

func (c *RedisEventCache) Invalidate(ctx context.Context, slugs ...string) {
	keys := make([]string, 0, len(slugs))
	for _, s := range slugs {
		if s != "" {
			keys = append(keys, keyPrefix+s)
		}
	}
	if len(keys) == 0 {
		return
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		c.logger.WarnContext(ctx, "event cache invalidate failed", "keys", keys, "err", err)
	}
}

// NoopEventCache never holds anything. Used when no Redis address is configured.
type NoopEventCache struct{}

func (NoopEventCache) Get(context.Context, string) (*domain.Event, bool) { return nil, false }
func (NoopEventCache) Set(context.Context, *domain.Event)                {}
func (NoopEventCache) Invalidate(context.Context, ...string)             {}

// NewEventCache returns a Redis-backed cache when addr is set, otherwise a no-op one.
// The returned close func releases the Redis client.
func NewEventCache(addr string, ttl time.Duration, logger *slog.Logger) (domain.EventCache, func() error) {
	if addr == "" {
		logger.Info("event cache disabled")
		return NoopEventCache{}, func() error { return nil }
	}
	client := redis.NewClient(&redis.Options{Addr: addr})
	logger.Info("event cache enabled", "addr", addr, "ttl", ttl)
	return NewRedisEventCache(client, ttl, logger), client.Close
}
