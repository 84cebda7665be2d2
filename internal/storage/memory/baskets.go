package memory

import (
	"context"
	"sync"

	"royal_palate/internal/domain"
)

type basketKey struct {
	kind    domain.BasketKind
	session string
}

// Baskets holds carts and wishlists per session.
type Baskets struct {
	mu    sync.Mutex
	items map[basketKey][]domain.BasketItem
}

func NewBaskets() *Baskets {
	return &Baskets{items: make(map[basketKey][]domain.BasketItem)}
}

// Add bumps the quantity when the product is already present, else appends it.
func (b *Baskets) Add(ctx context.Context, kind domain.BasketKind, sessionID string, p domain.Product) (domain.Basket, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	k := basketKey{kind, sessionID}
	items := b.items[k]
	found := false
	for i := range items {
		if items[i].Product.ID == p.ID {
			items[i].Quantity++
			found = true
			break
		}
	}
	if !found {
		items = append(items, domain.BasketItem{Product: p, Quantity: 1})
	}
	b.items[k] = items
	return domain.NewBasket(kind, sessionID, cloneItems(items)), nil
}

// AddOnce appends p with quantity one unless the basket already holds it.
// The check and the insert happen under one lock.
func (b *Baskets) AddOnce(ctx context.Context, kind domain.BasketKind, sessionID string, p domain.Product) (domain.Basket, bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	k := basketKey{kind, sessionID}
	items := b.items[k]
	for _, it := range items {
		if it.Product.ID == p.ID {
			return domain.NewBasket(kind, sessionID, cloneItems(items)), false, nil
		}
	}
	items = append(items, domain.BasketItem{Product: p, Quantity: 1})
	b.items[k] = items
	return domain.NewBasket(kind, sessionID, cloneItems(items)), true, nil
}

func (b *Baskets) Get(ctx context.Context, kind domain.BasketKind, sessionID string) (domain.Basket, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return domain.NewBasket(kind, sessionID, cloneItems(b.items[basketKey{kind, sessionID}])), nil
}

func cloneItems(in []domain.BasketItem) []domain.BasketItem {
	out := make([]domain.BasketItem, len(in))
	copy(out, in)
	return out
}
