package redisad_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	redisad "stayfinder/internal/adapters/redis"
	"stayfinder/internal/domain"
)

func TestCache_SetGetExpireDel(t *testing.T) {
	mr := miniredis.RunT(t)
	c := redisad.NewWithClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}), "t:")
	ctx := context.Background()

	var miss domain.SearchResult
	if ok, err := c.Get(ctx, "k", &miss); ok || err != nil {
		t.Fatalf("expected clean miss, got ok=%v err=%v", ok, err)
	}

	in := domain.SearchResult{ID: "abc", NoResults: false, Hotels: []domain.Hotel{{Provider: "liteapi", Name: "A", Currency: "USD", Amenities: []string{}}}}
	if err := c.Set(ctx, "k", in, time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}
	if !mr.Exists("t:k") {
		t.Fatalf("key should be stored under the prefix")
	}

	var out domain.SearchResult
	ok, err := c.Get(ctx, "k", &out)
	if !ok || err != nil || out.ID != "abc" || len(out.Hotels) != 1 || out.Hotels[0].Name != "A" {
		t.Fatalf("get: ok=%v err=%v out=%+v", ok, err, out)
	}

	mr.FastForward(2 * time.Minute)
	if ok, _ := c.Get(ctx, "k", &out); ok {
		t.Fatalf("entry should have expired")
	}

	_ = c.Set(ctx, "k2", in, time.Minute)
	if err := c.Del(ctx, "k2"); err != nil {
		t.Fatalf("del: %v", err)
	}
	if mr.Exists("t:k2") {
		t.Fatalf("key should be deleted")
	}
}
