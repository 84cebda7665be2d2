package shared

import (
	"os"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
)

type Config struct {
	AppEnv      string
	HTTPAddr    string
	MetricsAddr string
	// MySQLDSN and RedisAddr are optional; empty disables the adapter.
	MySQLDSN      string
	RedisAddr     string
	RedisDB       int
	RedisPass     string
	EventsChannel string
	CacheTTL      time.Duration
	SubmitLatency time.Duration
	SubmitRPS     float64
	SubmitBurst   int
	SeedWorkers   int
}

func Load() Config {
	atoi := func(k string, def int) int {
		if v := os.Getenv(k); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
			log.Warn().Str("key", k).Str("value", v).Msg("ignoring non-numeric setting")
		}
		return def
	}
	atof := func(k string, def float64) float64 {
		if v := os.Getenv(k); v != "" {
			if f, err := strconv.ParseFloat(v, 64); err == nil {
				return f
			}
			log.Warn().Str("key", k).Str("value", v).Msg("ignoring non-numeric setting")
		}
		return def
	}
	c := Config{
		AppEnv:        env("APP_ENV", "prod"),
		HTTPAddr:      env("HTTP_ADDR", ":8080"),
		MetricsAddr:   env("METRICS_ADDR", ":9100"),
		MySQLDSN:      env("MYSQL_DSN", ""),
		RedisAddr:     env("REDIS_ADDR", ""),
		RedisPass:     env("REDIS_PASSWORD", ""),
		RedisDB:       atoi("REDIS_DB", 0),
		EventsChannel: env("EVENTS_CHANNEL", "palate:events"),
		CacheTTL:      time.Duration(atoi("CACHE_TTL_SECONDS", 300)) * time.Second,
		SubmitLatency: time.Duration(atoi("SUBMIT_LATENCY_MS", 0)) * time.Millisecond,
		SubmitRPS:     atof("SUBMIT_RPS", 5),
		SubmitBurst:   atoi("SUBMIT_BURST", 10),
		SeedWorkers:   atoi("SEED_WORKERS", 4),
	}
	if c.SeedWorkers < 1 {
		c.SeedWorkers = 1
	}
	return c
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
