package redis

import (
	"context"
	"testing"
	"time"

	redislib "github.com/redis/go-redis/v9"
)

func TestCacheSetAndGet(t *testing.T) {
	client, mr := newTestRedisClient(t)
	defer mr.Close()
	defer client.Close()

	cache := NewCache(client)
	ctx := context.Background()

	if err := cache.Set(ctx, "quote:AAPL", []byte("150.25"), time.Minute); err != nil {
		t.Fatalf("set failed: %v", err)
	}

	val, err := cache.Get(ctx, "quote:AAPL")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}

	if string(val) != "150.25" {
		t.Fatalf("expected 150.25, got %s", val)
	}
}

func TestCacheGetMissing(t *testing.T) {
	client, mr := newTestRedisClient(t)
	defer mr.Close()
	defer client.Close()

	cache := NewCache(client)

	if _, err := cache.Get(context.Background(), "nope"); err != redislib.Nil {
		t.Fatalf("expected redis.Nil, got %v", err)
	}
}

func TestCacheExpiry(t *testing.T) {
	client, mr := newTestRedisClient(t)
	defer mr.Close()
	defer client.Close()

	cache := NewCache(client)
	ctx := context.Background()

	if err := cache.Set(ctx, "quote:VOO", []byte("400"), time.Second); err != nil {
		t.Fatalf("set failed: %v", err)
	}

	mr.FastForward(2 * time.Second)

	if _, err := cache.Get(ctx, "quote:VOO"); err != redislib.Nil {
		t.Fatalf("expected expired key, got %v", err)
	}
}

func TestCacheDelete(t *testing.T) {
	client, mr := newTestRedisClient(t)
	defer mr.Close()
	defer client.Close()

	cache := NewCache(client)
	ctx := context.Background()

	if err := cache.Set(ctx, "quote:AAPL", []byte("150"), time.Minute); err != nil {
		t.Fatalf("set failed: %v", err)
	}

	if err := cache.Delete(ctx, "quote:AAPL"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}

	if _, err := cache.Get(ctx, "quote:AAPL"); err != redislib.Nil {
		t.Fatalf("expected missing key after delete, got %v", err)
	}
}
