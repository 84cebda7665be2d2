package observability

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

var (
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "palate", Name: "http_requests_total", Help: "HTTP requests."},
		[]string{"route", "method", "status"},
	)
	HTTPLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "palate", Name: "http_request_duration_seconds",
			Help:    "HTTP request duration seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "method"},
	)
	CacheEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "palate", Name: "cache_events_total", Help: "Cache hits/misses/sets/dels."},
		[]string{"cache", "event"}, // event: hit|miss|set|del
	)
	ReviewEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "palate", Name: "review_events_total", Help: "Review submissions, rejections, helpful marks and reports."},
		[]string{"event"}, // event: submitted|rejected|helpful|reported
	)
	ShopEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "palate", Name: "shop_events_total", Help: "Cart and wishlist additions."},
		[]string{"kind", "result"},
	)
	FixtureLoads = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "palate", Name: "fixture_loads_total", Help: "Fixture dataset loads."},
		[]string{"source", "dataset", "error"},
	)
	FixtureLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "palate", Name: "fixture_load_duration_seconds",
			Help:    "Fixture dataset load duration seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"source", "dataset"},
	)
)

// Serve exposes h on a side port. Empty addr disables it.
func Serve(addr string, h http.Handler) {
	if addr == "" {
		return // disabled
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", h)

	go func() {
		srv := &http.Server{
			Addr:              addr,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		}
		log.Info().Str("addr", addr).Msg("metrics server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("metrics server failed")
		}
	}()
}

func InitRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(HTTPRequests, HTTPLatency, CacheEvents, ReviewEvents, ShopEvents, FixtureLoads, FixtureLatency)
	return reg
}

func MetricsHandler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}

func ObserveHTTP(route, method string, status int, dur time.Duration) {
	HTTPRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	HTTPLatency.WithLabelValues(route, method).Observe(dur.Seconds())
}

func ObserveCache(cache, event string) { // event: hit|miss|set|del
	CacheEvents.WithLabelValues(cache, event).Inc()
}

func ObserveReview(event string) {
	ReviewEvents.WithLabelValues(event).Inc()
}

func ObserveShop(kind string, err error) {
	ShopEvents.WithLabelValues(kind, LabelErr(err)).Inc()
}

func ObserveFixtureLoad(source, dataset string, err error, dur time.Duration) {
	FixtureLoads.WithLabelValues(source, dataset, LabelErr(err)).Inc()
	FixtureLatency.WithLabelValues(source, dataset).Observe(dur.Seconds())
}

func LabelErr(err error) string {
	if err == nil {
		return "none"
	}
	return fmt.Sprintf("%T", err)
}
