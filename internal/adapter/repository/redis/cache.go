package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache implements usecase.Cache using Redis. Used for short-lived price
// quotes so repeated syncs inside the TTL don't hammer the quote source.
type Cache struct {
	client *redis.Client
	prefix string
}

// NewCache creates a cache namespaced under "cache:".
func NewCache(client *redis.Client) *Cache {
	return &Cache{client: client, prefix: "cache:"}
}

// Get returns redis.Nil via the error when the key is absent or expired.
func (c *Cache) Get(ctx context.Context, key string) ([]byte, error) {
	return c.client.Get(ctx, c.prefix+key).Bytes()
}

func (c *Cache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return c.client.Set(ctx, c.prefix+key, value, ttl).Err()
}

func (c *Cache) Delete(ctx context.Context, key string) error {
	return c.client.Del(ctx, c.prefix+key).Err()
}
