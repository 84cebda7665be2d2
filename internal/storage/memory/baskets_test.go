package memory_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"royal_palate/internal/domain"
	"royal_palate/internal/storage/memory"
)

func TestBaskets_AddAndGet(t *testing.T) {
	ctx := context.Background()
	b := memory.NewBaskets()
	knife := domain.Product{ID: 6, Price: 199.99}

	_, _ = b.Add(ctx, domain.KindCart, "s1", knife)
	cart, _ := b.Add(ctx, domain.KindCart, "s1", knife)
	if cart.Count != 2 || len(cart.Items) != 1 || cart.Subtotal != 399.98 {
		t.Fatalf("unexpected cart: %+v", cart)
	}

	// kinds and sessions are independent
	wl, _ := b.Get(ctx, domain.KindWishlist, "s1")
	other, _ := b.Get(ctx, domain.KindCart, "s2")
	if wl.Count != 0 || other.Count != 0 {
		t.Fatalf("baskets leaked across keys: wishlist=%+v other=%+v", wl, other)
	}
}

func TestBaskets_AddOnceConcurrent(t *testing.T) {
	ctx := context.Background()
	b := memory.NewBaskets()
	tea := domain.Product{ID: 5, Price: 249.99}

	var wg sync.WaitGroup
	var added atomic.Int32
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, ok, _ := b.AddOnce(ctx, domain.KindWishlist, "s1", tea); ok {
				added.Add(1)
			}
		}()
	}
	wg.Wait()

	wl, _ := b.Get(ctx, domain.KindWishlist, "s1")
	if added.Load() != 1 || wl.Count != 1 || len(wl.Items) != 1 {
		t.Fatalf("want exactly one add, got added=%d wishlist=%+v", added.Load(), wl)
	}
}
