package redisad_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"

	redisad "royal_palate/internal/adapters/redis"
	"royal_palate/internal/domain"
)

func TestCache_SetGetDel(t *testing.T) {
	mr := miniredis.RunT(t)
	c := redisad.New(mr.Addr(), "", 0)
	ctx := context.Background()

	var miss domain.Summary
	ok, err := c.Get(ctx, "k", &miss)
	if err != nil || ok {
		t.Fatalf("expected miss, got ok=%v err=%v", ok, err)
	}

	in := domain.Summary{Count: 2, Average: 4, Histogram: map[int]int{1: 0, 2: 0, 3: 1, 4: 0, 5: 1}}
	if err := c.Set(ctx, "k", in, 60); err != nil {
		t.Fatalf("Set: %v", err)
	}

	var out domain.Summary
	ok, err = c.Get(ctx, "k", &out)
	if err != nil || !ok {
		t.Fatalf("expected hit, got ok=%v err=%v", ok, err)
	}
	if out.Count != 2 || out.Histogram[3] != 1 || out.Histogram[5] != 1 {
		t.Fatalf("round trip mismatch: %+v", out)
	}

	mr.FastForward(61 * time.Second)
	ok, _ = c.Get(ctx, "k", &out)
	if ok {
		t.Fatalf("expected key to expire")
	}

	_ = c.Set(ctx, "k2", in, 60)
	if err := c.Del(ctx, "k2"); err != nil {
		t.Fatalf("Del: %v", err)
	}
	if mr.Exists("k2") {
		t.Fatalf("expected k2 deleted")
	}
}

func TestCache_GetError(t *testing.T) {
	mr := miniredis.RunT(t)
	c := redisad.New(mr.Addr(), "", 0)
	mr.Close()

	var out domain.Summary
	if _, err := c.Get(context.Background(), "k", &out); err == nil {
		t.Fatalf("expected error from closed server")
	}
}
