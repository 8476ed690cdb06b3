// Package cache implements a Redis-backed result cache for query responses.
// Payloads are JSON encoded and snappy compressed before hitting the wire.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang/snappy"
	"github.com/redis/go-redis/v9"

	"github.com/wattline/wattline/internal/config"
	"github.com/wattline/wattline/internal/logging"
)

const keyPrefix = "wattline"

// Cache is a best-effort result cache. A disabled cache is a valid value:
// Get always misses and Set is a no-op, so callers never branch on
// availability.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
	logger *logging.Logger
}

// New creates a cache from configuration. When the cache is disabled the
// returned value is usable but inert.
func New(cfg config.CacheConfig, logger *logging.Logger) (*Cache, error) {
	if !cfg.Enabled {
		return &Cache{logger: logger}, nil
	}

	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse cache URL: %w", err)
	}
	if cfg.Password != "" {
		opts.Password = cfg.Password
	}
	if cfg.DB != 0 {
		opts.DB = cfg.DB
	}

	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}

	return &Cache{
		client: redis.NewClient(opts),
		ttl:    ttl,
		logger: logger,
	}, nil
}

// Enabled reports whether the cache is backed by a live Redis client.
func (c *Cache) Enabled() bool {
	return c != nil && c.client != nil
}

// Key builds a deterministic cache key from namespace parts. Parts beyond
// the first two are hashed so arbitrary query parameters cannot produce
// oversized or unsafe keys.
func Key(kind string, parts ...string) string {
	if len(parts) == 0 {
		return keyPrefix + ":" + kind
	}
	sum := sha256.Sum256([]byte(strings.Join(parts, "\x00")))
	return keyPrefix + ":" + kind + ":" + hex.EncodeToString(sum[:16])
}

// Get looks up key and decodes the payload into dest. Returns false on
// miss. Redis errors are logged and reported as a miss so a degraded cache
// never fails a query.
func (c *Cache) Get(ctx context.Context, key string, dest interface{}) bool {
	if !c.Enabled() {
		return false
	}

	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("Cache get failed", "key", key, "error", err)
		}
		return false
	}

	if err := decodePayload(data, dest); err != nil {
		c.logger.Warn("Cache payload decode failed, dropping entry", "key", key, "error", err)
		_ = c.client.Del(ctx, key).Err()
		return false
	}
	return true
}

// Set stores value under key with the configured TTL. Failures are logged,
// never returned.
func (c *Cache) Set(ctx context.Context, key string, value interface{}) {
	if !c.Enabled() {
		return
	}

	data, err := encodePayload(value)
	if err != nil {
		c.logger.Warn("Cache payload encode failed", "key", key, "error", err)
		return
	}

	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		c.logger.Warn("Cache set failed", "key", key, "error", err)
	}
}

// Invalidate removes keys matching the given kind prefix for one
// building/metric scope. Used after writes so stale series do not linger
// for a full TTL.
func (c *Cache) Invalidate(ctx context.Context, kind string) {
	if !c.Enabled() {
		return
	}

	pattern := keyPrefix + ":" + kind + ":*"
	iter := c.client.Scan(ctx, 0, pattern, 100).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			c.logger.Warn("Cache invalidation failed", "key", iter.Val(), "error", err)
		}
	}
	if err := iter.Err(); err != nil {
		c.logger.Warn("Cache scan failed", "pattern", pattern, "error", err)
	}
}

// Close releases the Redis client.
func (c *Cache) Close() error {
	if !c.Enabled() {
		return nil
	}
	return c.client.Close()
}

func encodePayload(value interface{}) ([]byte, error) {
	raw, err := json.Marshal(value)
	if err != nil {
		return nil, err
	}
	return snappy.Encode(nil, raw), nil
}

func decodePayload(data []byte, dest interface{}) error {
	raw, err := snappy.Decode(nil, data)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, dest)
}
