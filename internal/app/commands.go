package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"royal_palate/internal/adapters/observability"
	"royal_palate/internal/domain"
)

type CommandService struct {
	store   domain.ReviewStore
	cache   domain.Cache
	events  domain.EventPublisher
	now     func() time.Time
	latency time.Duration
	ids     idSequence
}

type CommandOption func(*CommandService)

// WithClock replaces time.Now for submission timestamps and ids.
func WithClock(now func() time.Time) CommandOption {
	return func(s *CommandService) { s.now = now }
}

// WithLatency delays each submission before it is committed, standing in for
// a remote round trip.
func WithLatency(d time.Duration) CommandOption {
	return func(s *CommandService) { s.latency = d }
}

// NewCommandService builds the write side. cache and events may be nil.
func NewCommandService(s domain.ReviewStore, c domain.Cache, ev domain.EventPublisher, opts ...CommandOption) *CommandService {
	svc := &CommandService{store: s, cache: c, events: ev, now: time.Now}
	for _, o := range opts {
		o(svc)
	}
	return svc
}

// SubmitReview validates in, assigns id and date and appends the review.
// A ValidationError leaves the store untouched; so does a TransportError
// caused by ctx ending during the simulated round trip.
func (s *CommandService) SubmitReview(ctx context.Context, in domain.ReviewInput) (domain.Review, error) {
	if err := in.Validate(); err != nil {
		observability.ObserveReview("rejected")
		return domain.Review{}, err
	}

	if s.latency > 0 && !sleepCtx(ctx, s.latency) {
		return domain.Review{}, &domain.TransportError{Op: "submit review", Err: ctx.Err()}
	}

	now := s.now().UTC()
	rv := domain.NewReview(in, s.ids.next(now), now)
	if err := s.store.Append(ctx, rv); err != nil {
		return domain.Review{}, fmt.Errorf("append review for restaurant %d: %w", rv.RestaurantID, err)
	}

	s.invalidateReviews(ctx, rv.RestaurantID)
	e := domain.NewEvent(domain.EventReviewSubmitted, rv.ID, now)
	e.RestaurantID = rv.RestaurantID
	s.publish(ctx, e)

	observability.ObserveReview("submitted")
	log.Info().Int64("review_id", rv.ID).Int64("restaurant_id", rv.RestaurantID).Int("rating", rv.Rating).Msg("review submitted")
	return rv, nil
}

// MarkHelpful adds one to the review's helpful counter. Repeated calls each
// add one. An unknown id is a no-op, not an error.
func (s *CommandService) MarkHelpful(ctx context.Context, reviewID int64) error {
	rv, found, err := s.store.IncrementHelpful(ctx, reviewID)
	if err != nil {
		return fmt.Errorf("increment helpful %d: %w", reviewID, err)
	}
	if !found {
		log.Debug().Int64("review_id", reviewID).Msg("helpful on unknown review ignored")
		return nil
	}

	s.invalidateReviews(ctx, rv.RestaurantID)
	e := domain.NewEvent(domain.EventReviewHelpful, rv.ID, s.now().UTC())
	e.RestaurantID = rv.RestaurantID
	s.publish(ctx, e)
	observability.ObserveReview("helpful")
	return nil
}

// ReportReview emits a moderation report. An unknown id is a no-op.
func (s *CommandService) ReportReview(ctx context.Context, reviewID int64, reason string) error {
	rv, err := s.store.Get(ctx, reviewID)
	if errors.Is(err, domain.ErrNotFound) {
		log.Debug().Int64("review_id", reviewID).Msg("report on unknown review ignored")
		return nil
	}
	if err != nil {
		return fmt.Errorf("get review %d: %w", reviewID, err)
	}
	if s.events == nil {
		return nil
	}

	e := domain.NewEvent(domain.EventReviewReported, rv.ID, s.now().UTC())
	e.RestaurantID = rv.RestaurantID
	e.Reason = strings.TrimSpace(reason)
	if err := s.events.Publish(ctx, e); err != nil {
		return fmt.Errorf("publish report for review %d: %w", reviewID, err)
	}
	observability.ObserveReview("reported")
	return nil
}

// publish is best-effort: the write it describes has already been committed.
func (s *CommandService) publish(ctx context.Context, e domain.Event) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(ctx, e); err != nil {
		log.Warn().Err(err).Str("type", string(e.Type)).Int64("subject_id", e.SubjectID).Msg("event publish failed")
	}
}

func (s *CommandService) invalidateReviews(ctx context.Context, restaurantID int64) {
	if s.cache == nil {
		return
	}
	for _, key := range reviewKeys(restaurantID) {
		if err := s.cache.Del(ctx, key); err != nil {
			log.Warn().Err(err).Str("key", key).Msg("cache invalidation failed")
		}
	}
}

// idSequence hands out time-derived ids (unix millis) that stay strictly
// increasing when several submissions land in the same millisecond.
type idSequence struct {
	mu   sync.Mutex
	last int64
}

func (q *idSequence) next(now time.Time) int64 {
	q.mu.Lock()
	defer q.mu.Unlock()
	id := now.UnixMilli()
	if id <= q.last {
		id = q.last + 1
	}
	q.last = id
	return id
}

// sleepCtx waits for d or returns false early if ctx is done.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
