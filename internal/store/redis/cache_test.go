package redis

import (
	"context"
	"os"
	"testing"

	"github.com/redis/go-redis/v9"
)

// liveStore connects to CONVERSO_TEST_REDIS_ADDR, skipping when unset.
func liveStore(t *testing.T) *Store {
	t.Helper()
	addr := os.Getenv("CONVERSO_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("CONVERSO_TEST_REDIS_ADDR not set")
	}
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(context.Background()).Err(); err != nil {
		t.Skipf("redis at %s unreachable: %v", addr, err)
	}
	s := NewStore(client, 0)
	t.Cleanup(func() {
		_ = s.FlushViews(context.Background())
		_ = client.Close()
	})
	return s
}

func TestCacheViewRoundTrip(t *testing.T) {
	s := liveStore(t)
	ctx := context.Background()
	key := ViewKey("/api/users/u1/bookmarks", "u1", "")

	if _, ok, err := s.GetCachedView(ctx, key); err != nil || ok {
		t.Fatalf("GetCachedView() before caching = %v, %v; want miss", ok, err)
	}
	if err := s.CacheView(ctx, key, []byte(`[]`)); err != nil {
		t.Fatalf("CacheView() error = %v", err)
	}
	body, ok, err := s.GetCachedView(ctx, key)
	if err != nil || !ok || string(body) != "[]" {
		t.Errorf("GetCachedView() = %q, %v, %v", body, ok, err)
	}
}

func TestInvalidate(t *testing.T) {
	s := liveStore(t)
	ctx := context.Background()

	stale := ViewKey("/api/users/u1/bookmarks", "u1", "")
	kept := ViewKey("/api/users/u2/bookmarks", "u2", "")
	for _, k := range []string{stale, kept} {
		if err := s.CacheView(ctx, k, []byte(`[]`)); err != nil {
			t.Fatalf("CacheView() error = %v", err)
		}
	}

	if err := s.Invalidate(ctx, "/api/users/u1/bookmarks"); err != nil {
		t.Fatalf("Invalidate() error = %v", err)
	}

	if _, ok, _ := s.GetCachedView(ctx, stale); ok {
		t.Error("invalidated view is still cached")
	}
	if _, ok, _ := s.GetCachedView(ctx, kept); !ok {
		t.Error("unrelated view was dropped")
	}
}

func TestNewStoreDefaultTTL(t *testing.T) {
	if s := NewStore(nil, 0); s.ttl != DefaultViewTTL {
		t.Errorf("ttl = %v, want %v", s.ttl, DefaultViewTTL)
	}
}
