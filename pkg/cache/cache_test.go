package cache

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNilCacheIsNoop(t *testing.T) {
	var c *Cache
	assert.NoError(t, c.Forget(context.Background(), KeyCategories, KeyRecipes))
	assert.NoError(t, c.Close())
}

func TestConnectFailsWhenUnreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	_, err := Connect(ctx, "127.0.0.1:1", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cache: redis ping")
}

func TestForgetReportsErrors(t *testing.T) {
	c := New(redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 200 * time.Millisecond,
		MaxRetries:  -1,
	}))
	defer c.Close()

	err := c.Forget(context.Background(), KeyRecipes)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "recipes:all")
}
