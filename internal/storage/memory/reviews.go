package memory

import (
	"context"
	"fmt"
	"sync"

	"royal_palate/internal/domain"
)

// Reviews is the in-memory review store. Insertion order is preserved and is
// the tie-break order the query engine relies on.
type Reviews struct {
	mu    sync.RWMutex
	items []domain.Review
	byID  map[int64]int // id -> index into items
	// versions counts writes per restaurant
	versions map[int64]uint64
}

func NewReviews() *Reviews {
	return &Reviews{byID: make(map[int64]int), versions: make(map[int64]uint64)}
}

func (s *Reviews) Append(ctx context.Context, r domain.Review) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.appendLocked(r)
}

// Seed appends rs in order. It stops at the first duplicate id.
func (s *Reviews) Seed(ctx context.Context, rs []domain.Review) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range rs {
		if err := s.appendLocked(r); err != nil {
			return err
		}
	}
	return nil
}

func (s *Reviews) appendLocked(r domain.Review) error {
	if _, ok := s.byID[r.ID]; ok {
		return fmt.Errorf("review %d: %w", r.ID, domain.ErrDuplicateID)
	}
	s.byID[r.ID] = len(s.items)
	s.items = append(s.items, r)
	s.versions[r.RestaurantID]++
	return nil
}

func (s *Reviews) IncrementHelpful(ctx context.Context, id int64) (domain.Review, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i, ok := s.byID[id]
	if !ok {
		return domain.Review{}, false, nil
	}
	s.items[i].Helpful++
	s.versions[s.items[i].RestaurantID]++
	return s.items[i], true, nil
}

// Version changes whenever a review of the restaurant is added or updated.
func (s *Reviews) Version(ctx context.Context, restaurantID int64) (uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.versions[restaurantID], nil
}

func (s *Reviews) ListByRestaurant(ctx context.Context, restaurantID int64) ([]domain.Review, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Review, 0)
	for _, r := range s.items {
		if r.RestaurantID == restaurantID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *Reviews) Get(ctx context.Context, id int64) (domain.Review, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i, ok := s.byID[id]
	if !ok {
		return domain.Review{}, domain.ErrNotFound
	}
	return s.items[i], nil
}

// Len is the total number of reviews across restaurants.
func (s *Reviews) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}
