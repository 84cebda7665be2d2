package app

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"royal_palate/internal/domain"
)

type QueryService struct {
	store    domain.ReviewStore
	cache    domain.Cache
	cacheTTL time.Duration
}

// NewQueryService builds the read side. c may be nil to disable caching.
func NewQueryService(s domain.ReviewStore, c domain.Cache, ttl time.Duration) *QueryService {
	return &QueryService{store: s, cache: c, cacheTTL: ttl}
}

// ReviewsView is what a review page renders: the filtered, sorted list and
// the summary of the full set.
type ReviewsView struct {
	Items   []domain.Review `json:"items"`
	Summary domain.Summary  `json:"summary"`
}

// versioned is the cache envelope. A hit only counts when Version still
// matches the store, so a view computed before a concurrent write is never
// served after it.
type versioned[T any] struct {
	Version uint64 `json:"version"`
	Data    T      `json:"data"`
}

func (s *QueryService) ListReviews(ctx context.Context, restaurantID int64, q domain.ReviewQuery) ([]domain.Review, error) {
	q = q.Normalize()
	ver, err := s.store.Version(ctx, restaurantID)
	if err != nil {
		return nil, err
	}
	key := reviewsKey(restaurantID, q)
	var hit versioned[[]domain.Review]
	if s.cacheGet(ctx, key, &hit) && hit.Version == ver {
		return hit.Data, nil
	}

	all, err := s.store.ListByRestaurant(ctx, restaurantID)
	if err != nil {
		return nil, err
	}
	out := domain.QueryReviews(all, q)
	s.cacheSet(ctx, key, versioned[[]domain.Review]{Version: ver, Data: out})
	return out, nil
}

// Summary is always computed over the unfiltered set.
func (s *QueryService) Summary(ctx context.Context, restaurantID int64) (domain.Summary, error) {
	ver, err := s.store.Version(ctx, restaurantID)
	if err != nil {
		return domain.Summary{}, err
	}
	key := summaryKey(restaurantID)
	var hit versioned[domain.Summary]
	if s.cacheGet(ctx, key, &hit) && hit.Version == ver {
		return hit.Data, nil
	}

	all, err := s.store.ListByRestaurant(ctx, restaurantID)
	if err != nil {
		return domain.Summary{}, err
	}
	out := domain.Summarize(all)
	s.cacheSet(ctx, key, versioned[domain.Summary]{Version: ver, Data: out})
	return out, nil
}

func (s *QueryService) View(ctx context.Context, restaurantID int64, q domain.ReviewQuery) (ReviewsView, error) {
	items, err := s.ListReviews(ctx, restaurantID, q)
	if err != nil {
		return ReviewsView{}, err
	}
	sum, err := s.Summary(ctx, restaurantID)
	if err != nil {
		return ReviewsView{}, err
	}
	return ReviewsView{Items: items, Summary: sum}, nil
}

// cache errors degrade to a store read
func (s *QueryService) cacheGet(ctx context.Context, key string, dst any) bool {
	if s.cache == nil {
		return false
	}
	ok, err := s.cache.Get(ctx, key, dst)
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("cache get failed")
		return false
	}
	return ok
}

func (s *QueryService) cacheSet(ctx context.Context, key string, v any) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, key, v, int(s.cacheTTL.Seconds())); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("cache set failed")
	}
}
