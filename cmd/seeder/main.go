// Command seeder loads the embedded fixture set into the MySQL fixture
// database that the API reads when MYSQL_DSN is set.
package main

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"royal_palate/internal/adapters/observability"
	"royal_palate/internal/domain"
	"royal_palate/internal/fixtures"
	"royal_palate/internal/shared"
	mysqlrepo "royal_palate/internal/storage/mysql"
)

func main() {
	cfg := shared.Load()

	// initialize global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv)

	if err := run(context.Background(), cfg); err != nil {
		log.Fatal().Err(err).Msg("seeder failed")
	}
}

func run(ctx context.Context, cfg shared.Config) error {
	if cfg.MySQLDSN == "" {
		return errors.New("MYSQL_DSN is required")
	}
	log.Info().Int("workers", cfg.SeedWorkers).Msg("seeder starting")

	db, err := mysqlrepo.Open(cfg.MySQLDSN)
	if err != nil {
		return err
	}
	defer db.Close()
	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("db ping: %w", err)
	}
	log.Info().Msg("db ping ok")

	repo := mysqlrepo.New(db)
	src := fixtures.New()

	cats, err := src.Categories(ctx)
	if err != nil {
		return fmt.Errorf("read categories: %w", err)
	}
	posts, err := src.Posts(ctx)
	if err != nil {
		return fmt.Errorf("read posts: %w", err)
	}
	products, err := src.Products(ctx)
	if err != nil {
		return fmt.Errorf("read products: %w", err)
	}
	reviews, err := src.Reviews(ctx)
	if err != nil {
		return fmt.Errorf("read reviews: %w", err)
	}

	var jobs []job
	for i, c := range cats {
		jobs = append(jobs, job{"category", c.ID, func(ctx context.Context) error { return repo.UpsertCategory(ctx, c, i) }})
	}
	for _, p := range posts {
		jobs = append(jobs, job{"post", p.Title, func(ctx context.Context) error { return repo.UpsertPost(ctx, p) }})
	}
	for _, p := range products {
		jobs = append(jobs, job{"product", p.Name, func(ctx context.Context) error { return repo.UpsertProduct(ctx, p) }})
	}
	// reviews go in as one batch per restaurant
	for rid, batch := range byRestaurant(reviews) {
		jobs = append(jobs, job{"reviews", "restaurant " + strconv.FormatInt(rid, 10), func(ctx context.Context) error { return repo.UpsertReviews(ctx, batch) }})
	}

	if failed := runJobs(ctx, jobs, int64(cfg.SeedWorkers)); failed > 0 {
		return fmt.Errorf("%d of %d seed jobs failed", failed, len(jobs))
	}
	log.Info().Int("jobs", len(jobs)).Msg("seeding completed")
	return nil
}

type job struct {
	kind, name string
	do         func(ctx context.Context) error
}

// runJobs executes jobs with at most workers in flight and returns how many failed.
func runJobs(ctx context.Context, jobs []job, workers int64) int64 {
	sem := semaphore.NewWeighted(workers)
	var wg sync.WaitGroup
	var failed atomic.Int64

	for _, j := range jobs {
		// acquire before launching the goroutine; release inside it
		if err := sem.Acquire(ctx, 1); err != nil {
			log.Error().Err(err).Msg("semaphore acquire failed")
			failed.Add(1)
			break
		}

		wg.Add(1)
		go func(j job) {
			defer wg.Done()
			defer sem.Release(1)

			if err := j.do(ctx); err != nil {
				failed.Add(1)
				log.Warn().Str("kind", j.kind).Str("name", j.name).Err(err).Msg("seed failed")
				return
			}
			log.Info().Str("kind", j.kind).Str("name", j.name).Msg("seed ok")
		}(j)
	}

	wg.Wait()
	return failed.Load()
}

func byRestaurant(rs []domain.Review) map[int64][]domain.Review {
	out := make(map[int64][]domain.Review)
	for _, r := range rs {
		out[r.RestaurantID] = append(out[r.RestaurantID], r)
	}
	return out
}
