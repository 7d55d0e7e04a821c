// Package cache talks to the Redis instance the Recipe Manager web app
// caches its listings in. The seeder only ever invalidates.
package cache

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// Keys the web app caches category and recipe listings under.
const (
	KeyCategories = "categories:all"
	KeyRecipes    = "recipes:all"
)

// Cache wraps a Redis client. A nil *Cache is valid and does nothing.
type Cache struct {
	rdb *redis.Client
}

// Connect creates a client for addr and verifies it with a ping.
func Connect(ctx context.Context, addr, password string) (*Cache, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("cache: redis ping: %w", err)
	}
	return &Cache{rdb: rdb}, nil
}

// New wraps an existing client.
func New(rdb *redis.Client) *Cache {
	return &Cache{rdb: rdb}
}

// Forget deletes keys.
func (c *Cache) Forget(ctx context.Context, keys ...string) error {
	if c == nil || c.rdb == nil || len(keys) == 0 {
		return nil
	}
	if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("cache: del %v: %w", keys, err)
	}
	return nil
}

// Close releases the client.
func (c *Cache) Close() error {
	if c == nil || c.rdb == nil {
		return nil
	}
	return c.rdb.Close()
}
