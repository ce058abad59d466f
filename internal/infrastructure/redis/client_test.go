package redis

import (
	"context"
	"strings"
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"
)

func TestNewClientSuccess(t *testing.T) {
	srv := miniredis.RunT(t)

	ctx := context.Background()
	client, err := NewClient(ctx, "redis://"+srv.Addr())
	if err != nil {
		t.Fatalf("expected client, got error: %v", err)
	}
	defer client.Close()

	if err := client.Ping(ctx).Err(); err != nil {
		t.Fatalf("ping failed: %v", err)
	}
}

func TestNewClientInvalidURL(t *testing.T) {
	_, err := NewClient(context.Background(), "://bad-url")
	if err == nil {
		t.Fatalf("expected error for invalid URL")
	}
	if !strings.Contains(err.Error(), "failed to parse redis URL") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestNewClientPingFailure(t *testing.T) {
	srv := miniredis.RunT(t)
	url := "redis://" + srv.Addr()
	srv.Close()

	_, err := NewClient(context.Background(), url)
	if err == nil {
		t.Fatalf("expected ping error when server is down")
	}
	if !strings.Contains(err.Error(), "failed to ping redis") {
		t.Fatalf("unexpected error: %v", err)
	}
}
