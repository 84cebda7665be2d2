package app_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"royal_palate/internal/adapters/events"
	"royal_palate/internal/app"
	"royal_palate/internal/domain"
	"royal_palate/internal/storage/memory"
)

func input() domain.ReviewInput {
	return domain.ReviewInput{
		RestaurantID: 1,
		Rating:       4,
		Title:        "Noble quality",
		Comment:      "The roast was worthy of a coronation.",
		Name:         "Sir Cedric",
		Email:        "cedric@example.com",
	}
}

func fixedClock() func() time.Time {
	now := time.Date(2024, 12, 20, 10, 0, 0, 0, time.UTC)
	return func() time.Time { return now }
}

func newCommands(t *testing.T, opts ...app.CommandOption) (*app.CommandService, *memory.Reviews, *fakeCache, *events.Recorder) {
	t.Helper()
	store := seeded(t)
	cache := &fakeCache{}
	bus := events.NewBus()
	rec := &events.Recorder{}
	bus.Subscribe(rec.Handle)
	return app.NewCommandService(store, cache, bus, opts...), store, cache, rec
}

func TestSubmitReview_Success(t *testing.T) {
	svc, store, cache, rec := newCommands(t, app.WithClock(fixedClock()))
	ctx := context.Background()
	before := store.Len()

	rv, err := svc.SubmitReview(ctx, input())
	require.NoError(t, err)
	assert.Equal(t, before+1, store.Len())
	assert.False(t, rv.Verified)
	assert.Zero(t, rv.Helpful)
	assert.True(t, rv.Recommended)
	assert.Equal(t, fixedClock()(), rv.Date)
	assert.NotZero(t, rv.ID)

	got, err := store.Get(ctx, rv.ID)
	require.NoError(t, err)
	assert.Equal(t, rv, got)

	assert.Contains(t, cache.dels, "reviews:1:summary")
	assert.Contains(t, cache.dels, "reviews:1:helpful:5")

	evs := rec.Events()
	require.Len(t, evs, 1)
	assert.Equal(t, domain.EventReviewSubmitted, evs[0].Type)
	assert.Equal(t, rv.ID, evs[0].SubjectID)
	assert.Equal(t, int64(1), evs[0].RestaurantID)
}

func TestSubmitReview_UniqueIDsWithinSameInstant(t *testing.T) {
	svc, _, _, _ := newCommands(t, app.WithClock(fixedClock()))
	seen := map[int64]bool{}
	for i := 0; i < 5; i++ {
		rv, err := svc.SubmitReview(context.Background(), input())
		require.NoError(t, err)
		assert.False(t, seen[rv.ID], "id %d reused", rv.ID)
		seen[rv.ID] = true
	}
}

func TestSubmitReview_ValidationLeavesStoreUnchanged(t *testing.T) {
	svc, store, _, rec := newCommands(t)
	before := store.Len()

	for _, mutate := range []func(*domain.ReviewInput){
		func(in *domain.ReviewInput) { in.Rating = 0 },
		func(in *domain.ReviewInput) { in.Title = "" },
		func(in *domain.ReviewInput) { in.Comment = "" },
		func(in *domain.ReviewInput) { in.Name = "" },
		func(in *domain.ReviewInput) { in.Email = "" },
	} {
		in := input()
		mutate(&in)
		_, err := svc.SubmitReview(context.Background(), in)
		assert.ErrorIs(t, err, domain.ErrValidation)
	}
	assert.Equal(t, before, store.Len())
	assert.Empty(t, rec.Events())
}

func TestSubmitReview_CancelledDuringLatency(t *testing.T) {
	svc, store, _, _ := newCommands(t, app.WithLatency(time.Second))
	before := store.Len()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := svc.SubmitReview(ctx, input())
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrTransport)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, before, store.Len())
}

func TestSubmitReview_StoreFailureSurfaced(t *testing.T) {
	store := memory.NewReviews()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	// occupy the id the clock will produce
	require.NoError(t, store.Append(context.Background(), domain.Review{ID: now.UnixMilli(), RestaurantID: 1}))

	svc := app.NewCommandService(store, nil, nil, app.WithClock(func() time.Time { return now }))
	_, err := svc.SubmitReview(context.Background(), input())
	assert.ErrorIs(t, err, domain.ErrDuplicateID)
}

func TestMarkHelpful(t *testing.T) {
	svc, store, cache, rec := newCommands(t)
	ctx := context.Background()

	require.NoError(t, svc.MarkHelpful(ctx, 1))
	require.NoError(t, svc.MarkHelpful(ctx, 1))
	rv, _ := store.Get(ctx, 1)
	assert.Equal(t, 4, rv.Helpful, "each call adds one, no dedup")
	assert.Len(t, rec.Events(), 2)
	assert.Contains(t, cache.dels, "reviews:1:newest:all")
}

func TestMarkHelpful_UnknownIsNoop(t *testing.T) {
	svc, store, _, rec := newCommands(t)
	ctx := context.Background()
	before, _ := store.ListByRestaurant(ctx, 1)

	require.NoError(t, svc.MarkHelpful(ctx, 424242))

	after, _ := store.ListByRestaurant(ctx, 1)
	assert.Equal(t, before, after)
	assert.Empty(t, rec.Events())
}

func TestReportReview(t *testing.T) {
	svc, _, _, rec := newCommands(t)
	ctx := context.Background()

	require.NoError(t, svc.ReportReview(ctx, 2, "  spam "))
	evs := rec.Events()
	require.Len(t, evs, 1)
	assert.Equal(t, domain.EventReviewReported, evs[0].Type)
	assert.Equal(t, "spam", evs[0].Reason)

	require.NoError(t, svc.ReportReview(ctx, 999, "stale"))
	assert.Len(t, rec.Events(), 1)
}

type failingPublisher struct{}

func (failingPublisher) Publish(ctx context.Context, e domain.Event) error {
	return errors.New("broker down")
}

func TestReportReview_PublishFailureSurfaced(t *testing.T) {
	svc := app.NewCommandService(seeded(t), nil, failingPublisher{})
	err := svc.ReportReview(context.Background(), 1, "rude")
	assert.Error(t, err)
}

func TestSubmitReview_PublishFailureDoesNotUndoCommit(t *testing.T) {
	store := seeded(t)
	svc := app.NewCommandService(store, nil, failingPublisher{})
	rv, err := svc.SubmitReview(context.Background(), input())
	require.NoError(t, err)
	_, err = store.Get(context.Background(), rv.ID)
	assert.NoError(t, err)
}
