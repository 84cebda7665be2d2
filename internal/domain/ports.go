package domain

import "context"

type ReviewStore interface {
	// Write paths
	Append(ctx context.Context, r Review) error
	Seed(ctx context.Context, rs []Review) error
	// IncrementHelpful adds one to the review's counter. found is false
	// (and err nil) when no review has that id.
	IncrementHelpful(ctx context.Context, id int64) (r Review, found bool, err error)

	// Read paths
	ListByRestaurant(ctx context.Context, restaurantID int64) ([]Review, error)
	Get(ctx context.Context, id int64) (Review, error)
	// Version is a per-restaurant write counter. Cached views carry the
	// version they were computed at and are discarded once it moves.
	Version(ctx context.Context, restaurantID int64) (uint64, error)
}

type BasketStore interface {
	Add(ctx context.Context, kind BasketKind, sessionID string, p Product) (Basket, error)
	// AddOnce adds p only if the basket lacks it; added reports which happened.
	AddOnce(ctx context.Context, kind BasketKind, sessionID string, p Product) (b Basket, added bool, err error)
	Get(ctx context.Context, kind BasketKind, sessionID string) (Basket, error)
}

// FixtureSource supplies the static datasets the site renders.
type FixtureSource interface {
	Posts(ctx context.Context) ([]Post, error)
	Products(ctx context.Context) ([]Product, error)
	Categories(ctx context.Context) ([]Category, error)
	Reviews(ctx context.Context) ([]Review, error)
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}

type EventPublisher interface {
	Publish(ctx context.Context, e Event) error
}
