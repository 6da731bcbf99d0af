package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestHelper(t *testing.T) (*CacheHelper, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return NewCacheHelper(client, "course:"), mr
}

func TestCacheHelper_SetGet(t *testing.T) {
	helper, _ := newTestHelper(t)
	ctx := context.Background()

	type payload struct {
		ID    uint   `json:"id"`
		Title string `json:"title"`
	}

	if err := helper.Set(ctx, "id:1", payload{ID: 1, Title: "Algebra"}, time.Minute); err != nil {
		t.Fatalf("Set: %v", err)
	}

	var got payload
	if err := helper.Get(ctx, "id:1", &got); err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Title != "Algebra" {
		t.Errorf("Title = %q, want %q", got.Title, "Algebra")
	}
}

func TestCacheHelper_GetMiss(t *testing.T) {
	helper, _ := newTestHelper(t)

	var dest map[string]string
	err := helper.Get(context.Background(), "id:404", &dest)
	if err != ErrCacheNotFound {
		t.Errorf("Get miss error = %v, want ErrCacheNotFound", err)
	}
}

func TestCacheHelper_InvalidatePattern(t *testing.T) {
	helper, mr := newTestHelper(t)
	ctx := context.Background()

	for _, key := range []string{"list:all", "list:category:math", "id:1"} {
		if err := helper.Set(ctx, key, "x", time.Minute); err != nil {
			t.Fatalf("Set %s: %v", key, err)
		}
	}

	if err := helper.InvalidatePattern(ctx, "list:*"); err != nil {
		t.Fatalf("InvalidatePattern: %v", err)
	}

	if mr.Exists("course:list:all") || mr.Exists("course:list:category:math") {
		t.Error("list keys should have been invalidated")
	}
	if !mr.Exists("course:id:1") {
		t.Error("id key should have survived pattern invalidation")
	}
}

func TestCacheHelper_NilClientDegradesGracefully(t *testing.T) {
	helper := NewCacheHelper(nil, "")
	ctx := context.Background()

	if err := helper.Set(ctx, "k", "v", time.Minute); err != nil {
		t.Errorf("Set with nil client should be a no-op, got %v", err)
	}
	if err := helper.Get(ctx, "k", new(string)); err != ErrCacheNotAvailable {
		t.Errorf("Get with nil client = %v, want ErrCacheNotAvailable", err)
	}

	// CacheOrExecute must still serve from the fetch function.
	var dest string
	err := helper.CacheOrExecute(ctx, "k", &dest, time.Minute, func() (interface{}, error) {
		return "fetched", nil
	})
	if err != nil {
		t.Fatalf("CacheOrExecute: %v", err)
	}
	if dest != "fetched" {
		t.Errorf("dest = %q, want %q", dest, "fetched")
	}
}

func TestCacheOrExecute_ServesFromCache(t *testing.T) {
	helper, _ := newTestHelper(t)
	ctx := context.Background()

	if err := helper.Set(ctx, "id:7", "cached", time.Minute); err != nil {
		t.Fatalf("Set: %v", err)
	}

	calls := 0
	var dest string
	err := helper.CacheOrExecute(ctx, "id:7", &dest, time.Minute, func() (interface{}, error) {
		calls++
		return "fetched", nil
	})
	if err != nil {
		t.Fatalf("CacheOrExecute: %v", err)
	}
	if dest != "cached" {
		t.Errorf("dest = %q, want cache hit", dest)
	}
	if calls != 0 {
		t.Errorf("fetch called %d times on cache hit, want 0", calls)
	}
}
