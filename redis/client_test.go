package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"

	"github.com/kbukum/simbank/logger"
)

// newTestClient creates a Client backed by miniredis for testing.
func newTestClient(t *testing.T) (*Client, *miniredis.Miniredis) {
	t.Helper()
	mini, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}
	t.Cleanup(func() { mini.Close() })

	log := logger.NewDefault("redis-test")
	cfg := Config{Addr: mini.Addr()}

	client, err := New(cfg, log)
	if err != nil {
		t.Fatalf("failed to create redis client: %v", err)
	}
	t.Cleanup(func() { client.Close() })
	return client, mini
}

func TestSetAndGet(t *testing.T) {
	client, _ := newTestClient(t)
	ctx := context.Background()

	if err := client.Set(ctx, "k1", "v1", 0); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	got, err := client.Get(ctx, "k1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got != "v1" {
		t.Errorf("expected v1, got %s", got)
	}
}

func TestGetMissingReturnsNil(t *testing.T) {
	client, _ := newTestClient(t)

	_, err := client.Get(context.Background(), "absent")
	if !IsNil(err) {
		t.Fatalf("expected Nil error for missing key, got %v", err)
	}
}

func TestGetDelConsumesKey(t *testing.T) {
	client, _ := newTestClient(t)
	ctx := context.Background()

	if err := client.Set(ctx, "k1", "v1", time.Minute); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	got, err := client.GetDel(ctx, "k1")
	if err != nil {
		t.Fatalf("GetDel failed: %v", err)
	}
	if got != "v1" {
		t.Errorf("expected v1, got %s", got)
	}

	if _, err := client.GetDel(ctx, "k1"); !IsNil(err) {
		t.Fatalf("expected Nil error on second GetDel, got %v", err)
	}
}

func TestSetWithTTLExpires(t *testing.T) {
	client, mini := newTestClient(t)
	ctx := context.Background()

	if err := client.Set(ctx, "k1", "v1", 5*time.Second); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	mini.FastForward(6 * time.Second)

	if _, err := client.Get(ctx, "k1"); !IsNil(err) {
		t.Fatalf("expected key to expire, got err=%v", err)
	}
}

func TestCloseIsIdempotent(t *testing.T) {
	client, _ := newTestClient(t)

	if err := client.Close(); err != nil {
		t.Fatalf("first Close failed: %v", err)
	}
	if err := client.Close(); err != nil {
		t.Fatalf("second Close failed: %v", err)
	}
}
