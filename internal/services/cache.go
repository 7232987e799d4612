package services

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	cacheKeyPrefix  = "cache:"
	DefaultCacheTTL = 5 * time.Minute
)

// Cache is a small JSON cache over Redis, used for hot read paths like the
// experience listing. A nil *Cache is a valid no-op cache, so callers never
// branch on whether Redis is configured.
type Cache struct {
	client *redis.Client
}

func NewCache(client *redis.Client) *Cache {
	if client == nil {
		return nil
	}
	return &Cache{client: client}
}

// Get unmarshals the cached value into dest. A miss or any Redis error is
// reported as a plain miss; the caller falls through to the store.
func (c *Cache) Get(ctx context.Context, key string, dest interface{}) bool {
	if c == nil {
		return false
	}
	val, err := c.client.Get(ctx, cacheKeyPrefix+key).Result()
	if err != nil {
		return false
	}
	return json.Unmarshal([]byte(val), dest) == nil
}

// Set stores value under key with the given TTL; best effort.
func (c *Cache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) {
	if c == nil {
		return
	}
	data, err := json.Marshal(value)
	if err != nil {
		return
	}
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	c.client.Set(ctx, cacheKeyPrefix+key, data, ttl)
}

// Invalidate drops a cached key, e.g. after a provider edits an experience.
func (c *Cache) Invalidate(ctx context.Context, keys ...string) {
	if c == nil || len(keys) == 0 {
		return
	}
	prefixed := make([]string, len(keys))
	for i, k := range keys {
		prefixed[i] = cacheKeyPrefix + k
	}
	c.client.Del(ctx, prefixed...)
}
