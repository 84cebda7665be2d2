package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"royal_palate/internal/adapters/events"
	server "royal_palate/internal/adapters/http_server"
	"royal_palate/internal/adapters/observability"
	redisad "royal_palate/internal/adapters/redis"
	"royal_palate/internal/app"
	"royal_palate/internal/domain"
	"royal_palate/internal/fixtures"
	"royal_palate/internal/shared"
	"royal_palate/internal/storage/memory"
	mysqlrepo "royal_palate/internal/storage/mysql"
)

func main() {
	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		log.Error().Err(err).Msg("API failed")
		stop()
		os.Exit(1)
	}
	log.Info().Msg("API stopped")
}

func run(ctx context.Context, cfg shared.Config) error {
	reg := observability.InitRegistry()
	observability.Serve(cfg.MetricsAddr, observability.MetricsHandler(reg))

	// fixtures: MySQL when configured, embedded JSON otherwise
	var (
		src     domain.FixtureSource = fixtures.New()
		srcName                      = "embedded"
	)
	if cfg.MySQLDSN != "" {
		db, err := mysqlrepo.Open(cfg.MySQLDSN)
		if err != nil {
			return err
		}
		defer db.Close()
		if err := db.PingContext(ctx); err != nil {
			return fmt.Errorf("db ping: %w", err)
		}
		log.Info().Msg("database connection ok")
		src, srcName = mysqlrepo.New(db), "mysql"
	}

	reviews := memory.NewReviews()
	catalog, err := app.LoadFixtures(ctx, srcName, src, reviews)
	if err != nil {
		return err
	}

	bus := events.NewBus()

	// redis is optional: without it views are computed on every request
	// and events stay in-process
	var cache domain.Cache
	if cfg.RedisAddr != "" {
		rc := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
		defer rc.Client().Close()
		if err := rc.Ping(ctx); err != nil {
			log.Warn().Err(err).Str("addr", cfg.RedisAddr).Msg("redis unreachable; continuing without cache")
		} else {
			cache = rc
			pub := redisad.NewPublisher(rc.Client(), cfg.EventsChannel)
			bus.Subscribe(pub.Publish)
			log.Info().Str("addr", cfg.RedisAddr).Str("channel", pub.Channel()).Msg("redis cache and event forwarding enabled")
		}
	}

	q := app.NewQueryService(reviews, cache, cfg.CacheTTL)
	c := app.NewCommandService(reviews, cache, bus, app.WithLatency(cfg.SubmitLatency))
	shop := app.NewShoppingService(catalog, memory.NewBaskets(), bus)

	var writes *rate.Limiter
	if cfg.SubmitRPS > 0 {
		writes = rate.NewLimiter(rate.Limit(cfg.SubmitRPS), cfg.SubmitBurst)
	}

	// http
	srv := server.New()
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(&server.Handlers{Q: q, C: c, Catalog: catalog, Shop: shop, Writes: writes})

	httpSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: srv.Mux(), ReadHeaderTimeout: 5 * time.Second}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("http shutdown failed")
		}
	}()

	log.Info().Str("addr", cfg.HTTPAddr).Str("fixtures", srcName).Msg("API listening")
	if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}
