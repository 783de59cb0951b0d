package cache

import (
	"context"
	"testing"
	"time"
)

func TestMemoryCacheTTL(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	c := NewMemoryCache(16)
	c.now = func() time.Time { return now }

	if err := c.Set(ctx, "k", []byte("v1"), time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}

	val, ok, _ := c.Get(ctx, "k")
	if !ok || string(val) != "v1" {
		t.Fatalf("expected hit before expiry, got ok=%v val=%q", ok, val)
	}

	// Overwrite before expiry replaces the value.
	if err := c.Set(ctx, "k", []byte("v2"), time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}
	val, ok, _ = c.Get(ctx, "k")
	if !ok || string(val) != "v2" {
		t.Fatalf("expected overwritten value, got ok=%v val=%q", ok, val)
	}

	now = now.Add(time.Minute + time.Second)
	if _, ok, _ := c.Get(ctx, "k"); ok {
		t.Error("expected miss after TTL elapsed")
	}
	if c.Len() != 0 {
		t.Errorf("expired entry should be purged on lookup, len=%d", c.Len())
	}
}

func TestMemoryCacheLRUEviction(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache(2)

	c.Set(ctx, "a", []byte("1"), time.Minute)
	c.Set(ctx, "b", []byte("2"), time.Minute)

	// Touch "a" so "b" becomes the eviction candidate.
	c.Get(ctx, "a")
	c.Set(ctx, "c", []byte("3"), time.Minute)

	if _, ok, _ := c.Get(ctx, "b"); ok {
		t.Error("least recently used entry should have been evicted")
	}
	if _, ok, _ := c.Get(ctx, "a"); !ok {
		t.Error("recently used entry should survive")
	}
	if _, ok, _ := c.Get(ctx, "c"); !ok {
		t.Error("new entry should be present")
	}
	if c.Len() != 2 {
		t.Errorf("len = %d, want 2", c.Len())
	}
}

func TestMemoryCacheDeletePrefix(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache(16)

	c.Set(ctx, "events:list:a", []byte("1"), time.Minute)
	c.Set(ctx, "events:list:b", []byte("2"), time.Minute)
	c.Set(ctx, "other:x", []byte("3"), time.Minute)

	if err := c.DeletePrefix(ctx, "events:list:"); err != nil {
		t.Fatalf("delete prefix: %v", err)
	}

	if _, ok, _ := c.Get(ctx, "events:list:a"); ok {
		t.Error("prefixed entry should be gone")
	}
	if _, ok, _ := c.Get(ctx, "events:list:b"); ok {
		t.Error("prefixed entry should be gone")
	}
	if _, ok, _ := c.Get(ctx, "other:x"); !ok {
		t.Error("unrelated entry should survive")
	}
}

func TestMemoryCacheDelete(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache(16)

	c.Set(ctx, "k", []byte("v"), time.Minute)
	if err := c.Delete(ctx, "k"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, ok, _ := c.Get(ctx, "k"); ok {
		t.Error("deleted entry should miss")
	}
	// Deleting a missing key is a no-op.
	if err := c.Delete(ctx, "absent"); err != nil {
		t.Fatalf("delete absent: %v", err)
	}
}
