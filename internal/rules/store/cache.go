package store

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"dossier/internal/rules/models"
	"dossier/pkg/platform/sentinel"
)

const (
	cacheKeyPrefix = "dossier:rules:"
	// Cached marker for keys the backing store does not have.
	missingValue = "-"
)

// Backing is the store a Cache reads through to.
type Backing interface {
	Find(ctx context.Context, key models.Key) (int64, error)
	Upsert(ctx context.Context, rules []models.Rule) error
}

// Cache is a Redis read-through cache in front of a Backing store. Redis
// failures fall back to the backing store.
type Cache struct {
	client  *redis.Client
	backing Backing
	ttl     time.Duration
	logger  *slog.Logger
}

type CacheOption func(*Cache)

func WithCacheLogger(logger *slog.Logger) CacheOption {
	return func(c *Cache) {
		c.logger = logger
	}
}

func NewCache(client *redis.Client, backing Backing, ttl time.Duration, opts ...CacheOption) *Cache {
	c := &Cache{client: client, backing: backing, ttl: ttl, logger: slog.Default()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Cache) Find(ctx context.Context, key models.Key) (int64, error) {
	cacheKey := cacheKeyPrefix + key.String()

	raw, err := c.client.Get(ctx, cacheKey).Result()
	switch {
	case err == nil:
		if raw == missingValue {
			return 0, sentinel.ErrNotFound
		}
		if v, perr := strconv.ParseInt(raw, 10, 64); perr == nil {
			return v, nil
		}
		c.logger.WarnContext(ctx, "discarding malformed cached rule", "key", cacheKey)
	case errors.Is(err, redis.Nil):
	default:
		c.logger.WarnContext(ctx, "rules cache unavailable", "key", cacheKey, "error", err)
		return c.backing.Find(ctx, key)
	}

	value, err := c.backing.Find(ctx, key)
	switch {
	case errors.Is(err, sentinel.ErrNotFound):
		c.set(ctx, cacheKey, missingValue)
		return 0, err
	case err != nil:
		return 0, err
	}
	c.set(ctx, cacheKey, strconv.FormatInt(value, 10))
	return value, nil
}

// Upsert writes through and drops the cached entries of the written keys.
func (c *Cache) Upsert(ctx context.Context, rules []models.Rule) error {
	if err := c.backing.Upsert(ctx, rules); err != nil {
		return err
	}
	if len(rules) == 0 {
		return nil
	}
	keys := make([]string, 0, len(rules))
	for _, r := range rules {
		keys = append(keys, cacheKeyPrefix+r.Key.String())
	}
	// The backing store has committed; stale entries expire with the ttl.
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		c.logger.WarnContext(ctx, "rules cache invalidation failed", "keys", keys, "error", err)
	}
	return nil
}

func (c *Cache) set(ctx context.Context, key, value string) {
	if err := c.client.Set(ctx, key, value, c.ttl).Err(); err != nil {
		c.logger.WarnContext(ctx, "failed to cache rule", "key", key, "error", err)
	}
}
