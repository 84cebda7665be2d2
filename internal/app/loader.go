package app

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"royal_palate/internal/adapters/observability"
	"royal_palate/internal/domain"
)

// LoadFixtures reads every dataset from src concurrently, seeds the review
// store with the valid reviews and returns the catalog. sourceName only
// labels logs and metrics.
func LoadFixtures(ctx context.Context, sourceName string, src domain.FixtureSource, store domain.ReviewStore) (*CatalogService, error) {
	var (
		posts      []domain.Post
		products   []domain.Product
		categories []domain.Category
		reviews    []domain.Review
	)

	g, gctx := errgroup.WithContext(ctx)
	load := func(dataset string, fn func(context.Context) error) {
		g.Go(func() error {
			start := time.Now()
			err := fn(gctx)
			observability.ObserveFixtureLoad(sourceName, dataset, err, time.Since(start))
			if err != nil {
				return fmt.Errorf("load %s from %s: %w", dataset, sourceName, err)
			}
			return nil
		})
	}
	load("posts", func(ctx context.Context) (err error) { posts, err = src.Posts(ctx); return })
	load("products", func(ctx context.Context) (err error) { products, err = src.Products(ctx); return })
	load("categories", func(ctx context.Context) (err error) { categories, err = src.Categories(ctx); return })
	load("reviews", func(ctx context.Context) (err error) { reviews, err = src.Reviews(ctx); return })
	if err := g.Wait(); err != nil {
		return nil, err
	}

	valid := make([]domain.Review, 0, len(reviews))
	for _, r := range reviews {
		if err := r.ToInput().Validate(); err != nil {
			log.Warn().Err(err).Int64("review_id", r.ID).Msg("skipping invalid fixture review")
			continue
		}
		valid = append(valid, r)
	}
	if err := store.Seed(ctx, valid); err != nil {
		return nil, fmt.Errorf("seed reviews: %w", err)
	}

	log.Info().
		Str("source", sourceName).
		Int("posts", len(posts)).
		Int("products", len(products)).
		Int("categories", len(categories)).
		Int("reviews", len(valid)).
		Msg("fixtures loaded")
	return NewCatalogService(posts, products, categories), nil
}
