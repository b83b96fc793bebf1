package cache

import (
	"context"
	"os"
	"testing"
	"time"
)

// Set STACKBOM_TEST_REDIS_URL to run against a live server.
func newTestRedis(t *testing.T) *RedisCache {
	t.Helper()
	url := os.Getenv("STACKBOM_TEST_REDIS_URL")
	if url == "" {
		t.Skip("STACKBOM_TEST_REDIS_URL not set")
	}
	c, err := NewRedisCache(context.Background(), url)
	if err != nil {
		t.Fatalf("NewRedisCache: %v", err)
	}
	t.Cleanup(func() { c.Close() })
	return c
}

func TestRedisCache(t *testing.T) {
	ctx := context.Background()
	c := newTestRedis(t)
	prefix := "stackbom-test:" + Hash([]byte(t.Name()))[:8] + ":"
	t.Cleanup(func() { _, _ = c.Clear(ctx, prefix) })

	if _, hit, err := c.Get(ctx, prefix+"missing"); hit || err != nil {
		t.Errorf("Get(missing) = hit %v, err %v", hit, err)
	}
	if err := c.Set(ctx, prefix+"key", []byte("value"), time.Minute); err != nil {
		t.Fatalf("Set: %v", err)
	}
	data, hit, err := c.Get(ctx, prefix+"key")
	if err != nil || !hit || string(data) != "value" {
		t.Errorf("Get(key) = %q, %v, %v", data, hit, err)
	}

	n, err := c.Clear(ctx, prefix)
	if err != nil || n != 1 {
		t.Errorf("Clear = %d, %v, want 1", n, err)
	}
}

func TestNewRedisCache_BadURL(t *testing.T) {
	if _, err := NewRedisCache(context.Background(), "not a url"); err == nil {
		t.Error("expected error for invalid url")
	}
}
