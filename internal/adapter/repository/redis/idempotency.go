package redis

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// IdempotencyStore backs the Idempotency-Key middleware with Redis. A key
// holds either the serialized response of a finished write or a processing
// placeholder while the write is still in flight.
type IdempotencyStore struct {
	client *redis.Client
	prefix string
}

// NewIdempotencyStore creates a store namespaced under "idempotency:".
func NewIdempotencyStore(client *redis.Client) *IdempotencyStore {
	return &IdempotencyStore{client: client, prefix: "idempotency:"}
}

// CheckAndSet reports whether key has been seen. On a miss with a nil
// response it claims the key with a placeholder so concurrent retries of
// the same write observe each other.
func (s *IdempotencyStore) CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error) {
	k := s.prefix + key

	cached, err := s.client.Get(ctx, k).Bytes()
	if err == nil {
		return true, cached, nil
	}
	if !errors.Is(err, redis.Nil) {
		return false, nil, err
	}

	if response != nil {
		if err := s.client.Set(ctx, k, response, ttl).Err(); err != nil {
			return false, nil, err
		}
		return false, nil, nil
	}

	claimed, err := s.client.SetNX(ctx, k, "processing", ttl).Result()
	if err != nil {
		return false, nil, err
	}
	if !claimed {
		// Lost the race; surface whatever the winner wrote.
		cached, err := s.client.Get(ctx, k).Bytes()
		if err != nil && !errors.Is(err, redis.Nil) {
			return false, nil, err
		}
		return true, cached, nil
	}

	return false, nil, nil
}

// Update replaces the placeholder with the final response, resetting the TTL.
func (s *IdempotencyStore) Update(ctx context.Context, key string, response []byte, ttl time.Duration) error {
	return s.client.Set(ctx, s.prefix+key, response, ttl).Err()
}
