package search

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"outreach-backend/internal/shared/telemetry"
)

// Cache stores serialized search results by key.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// RedisCache implements Cache on a redis client.
type RedisCache struct {
	rdb *goredis.Client
}

// NewRedisCache connects to addr and verifies the connection with a ping.
func NewRedisCache(ctx context.Context, addr string) (*RedisCache, error) {
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return nil, fmt.Errorf("missing REDIS_ADDR")
	}
	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return &RedisCache{rdb: rdb}, nil
}

// Get returns the cached value, false when the key is missing.
func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	val, err := c.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return val, true, nil
}

// Set stores value under key with the given ttl.
func (c *RedisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return c.rdb.Set(ctx, key, value, ttl).Err()
}

// Close releases the redis connection pool.
func (c *RedisCache) Close() error {
	return c.rdb.Close()
}

// CachedClient decorates a Client with a read-through cache.
// Cache failures are logged and fall through to the wrapped client.
type CachedClient struct {
	Next  Client
	Cache Cache
	TTL   time.Duration
}

// Search serves from cache when possible and stores fresh results.
func (c *CachedClient) Search(ctx context.Context, query string, numResults int) ([]Result, error) {
	key := cacheKey(query, numResults)
	if raw, ok, err := c.Cache.Get(ctx, key); err != nil {
		telemetry.Warn("search.cache_get_failed", map[string]any{"err": err.Error()})
	} else if ok {
		var cached []Result
		if err := json.Unmarshal(raw, &cached); err == nil {
			return cached, nil
		}
	}

	results, err := c.Next.Search(ctx, query, numResults)
	if err != nil {
		return nil, err
	}
	if raw, err := json.Marshal(results); err == nil {
		if err := c.Cache.Set(ctx, key, raw, c.TTL); err != nil {
			telemetry.Warn("search.cache_set_failed", map[string]any{"err": err.Error()})
		}
	}
	return results, nil
}

func cacheKey(query string, numResults int) string {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%d|%s", numResults, strings.ToLower(strings.TrimSpace(query)))))
	return "search:" + hex.EncodeToString(sum[:])
}
