package cache

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestMemoryStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	key := store.PageKey("/api/v1/products", "page=1&limit=10")
	if key != "/api/v1/products?page=1&limit=10" {
		t.Fatalf("unexpected key %q", key)
	}

	if _, err := store.Get(ctx, key); !errors.Is(err, ErrMiss) {
		t.Fatalf("expected miss on empty store, got %v", err)
	}

	if err := store.Set(ctx, key, `{"status":"success"}`, time.Minute); err != nil {
		t.Fatalf("set failed: %v", err)
	}

	value, err := store.Get(ctx, key)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if value != `{"status":"success"}` {
		t.Fatalf("unexpected cached value %q", value)
	}
}

func TestMemoryStoreExpiry(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	current := time.Now()
	store.SetClock(func() time.Time { return current })

	if err := store.Set(ctx, "k", "v", 5*time.Minute); err != nil {
		t.Fatalf("set failed: %v", err)
	}

	if _, err := store.Get(ctx, "k"); err != nil {
		t.Fatalf("expected hit before expiry, got %v", err)
	}

	current = current.Add(5*time.Minute + time.Second)
	if _, err := store.Get(ctx, "k"); !errors.Is(err, ErrMiss) {
		t.Fatalf("expected miss after expiry, got %v", err)
	}
}

func TestMemoryStoreZeroTTLNeverExpires(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	current := time.Now()
	store.SetClock(func() time.Time { return current })

	if err := store.Set(ctx, "k", "v", 0); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	current = current.Add(48 * time.Hour)
	if _, err := store.Get(ctx, "k"); err != nil {
		t.Fatalf("expected zero-TTL entry to persist, got %v", err)
	}
}
