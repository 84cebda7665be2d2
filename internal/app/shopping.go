package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"royal_palate/internal/adapters/observability"
	"royal_palate/internal/domain"
)

// ShoppingService keeps per-session carts and wishlists. Additions are
// reported as events rather than logged.
type ShoppingService struct {
	catalog *CatalogService
	baskets domain.BasketStore
	events  domain.EventPublisher
	now     func() time.Time
}

func NewShoppingService(c *CatalogService, b domain.BasketStore, ev domain.EventPublisher) *ShoppingService {
	return &ShoppingService{catalog: c, baskets: b, events: ev, now: time.Now}
}

// AddToCart rejects unknown and out-of-stock products. Adding a product
// again raises its quantity.
func (s *ShoppingService) AddToCart(ctx context.Context, sessionID string, productID int64) (domain.Basket, error) {
	b, err := s.addToCart(ctx, sessionID, productID)
	observability.ObserveShop(string(domain.KindCart), err)
	return b, err
}

func (s *ShoppingService) addToCart(ctx context.Context, sessionID string, productID int64) (domain.Basket, error) {
	p, err := s.product(sessionID, productID)
	if err != nil {
		return domain.Basket{}, err
	}
	if !p.InStock {
		return domain.Basket{}, fmt.Errorf("product %d: %w", productID, domain.ErrOutOfStock)
	}
	b, err := s.baskets.Add(ctx, domain.KindCart, sessionID, p)
	if err != nil {
		return domain.Basket{}, err
	}
	s.publish(ctx, domain.EventCartAdded, sessionID, p.ID)
	return b, nil
}

// AddToWishlist is idempotent per product; out-of-stock products are allowed.
func (s *ShoppingService) AddToWishlist(ctx context.Context, sessionID string, productID int64) (domain.Basket, error) {
	b, err := s.addToWishlist(ctx, sessionID, productID)
	observability.ObserveShop(string(domain.KindWishlist), err)
	return b, err
}

func (s *ShoppingService) addToWishlist(ctx context.Context, sessionID string, productID int64) (domain.Basket, error) {
	p, err := s.product(sessionID, productID)
	if err != nil {
		return domain.Basket{}, err
	}
	b, added, err := s.baskets.AddOnce(ctx, domain.KindWishlist, sessionID, p)
	if err != nil {
		return domain.Basket{}, err
	}
	if !added {
		return b, nil
	}
	s.publish(ctx, domain.EventWishlistAdded, sessionID, p.ID)
	return b, nil
}

func (s *ShoppingService) Cart(ctx context.Context, sessionID string) (domain.Basket, error) {
	return s.basket(ctx, domain.KindCart, sessionID)
}

func (s *ShoppingService) Wishlist(ctx context.Context, sessionID string) (domain.Basket, error) {
	return s.basket(ctx, domain.KindWishlist, sessionID)
}

func (s *ShoppingService) basket(ctx context.Context, kind domain.BasketKind, sessionID string) (domain.Basket, error) {
	if strings.TrimSpace(sessionID) == "" {
		return domain.Basket{}, &domain.ValidationError{Fields: []string{"sessionId"}}
	}
	return s.baskets.Get(ctx, kind, sessionID)
}

func (s *ShoppingService) product(sessionID string, productID int64) (domain.Product, error) {
	if strings.TrimSpace(sessionID) == "" {
		return domain.Product{}, &domain.ValidationError{Fields: []string{"sessionId"}}
	}
	return s.catalog.GetProduct(productID)
}

func (s *ShoppingService) publish(ctx context.Context, t domain.EventType, sessionID string, productID int64) {
	if s.events == nil {
		return
	}
	e := domain.NewEvent(t, productID, s.now().UTC())
	e.SessionID = sessionID
	if err := s.events.Publish(ctx, e); err != nil {
		log.Warn().Err(err).Str("type", string(t)).Str("session", sessionID).Msg("event publish failed")
	}
}
