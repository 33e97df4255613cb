// Package cache stores JSON-encoded values in Redis.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Cache is a JSON value cache with per-entry TTL.
type Cache struct {
	client redis.UniversalClient
	prefix string
	logger *zap.Logger
}

// New creates a cache whose keys are namespaced under prefix.
func New(client redis.UniversalClient, prefix string, logger *zap.Logger) *Cache {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Cache{client: client, prefix: prefix, logger: logger}
}

func (c *Cache) key(k string) string {
	return c.prefix + ":" + k
}

// Get decodes the value at k into dest. It reports false on a miss.
// Redis failures and undecodable entries are logged and treated as misses.
func (c *Cache) Get(ctx context.Context, k string, dest interface{}) bool {
	raw, err := c.client.Get(ctx, c.key(k)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("cache get failed", zap.String("key", c.key(k)), zap.Error(err))
		}
		return false
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		c.logger.Warn("cache entry undecodable", zap.String("key", c.key(k)), zap.Error(err))
		return false
	}
	return true
}

// Set stores v at k for ttl.
func (c *Cache) Set(ctx context.Context, k string, v interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal cache value: %w", err)
	}
	if err := c.client.Set(ctx, c.key(k), raw, ttl).Err(); err != nil {
		return fmt.Errorf("cache set: %w", err)
	}
	return nil
}

// Delete removes the given keys.
func (c *Cache) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = c.key(k)
	}
	if err := c.client.Del(ctx, full...).Err(); err != nil {
		return fmt.Errorf("cache delete: %w", err)
	}
	return nil
}
