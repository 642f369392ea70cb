// Package metrics defines Prometheus metrics for trip-market.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "tripmarket"

// API client metrics.
var (
	APIRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "api_request_duration_seconds",
		Help:      "Duration of backend API requests made by the client in seconds.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "endpoint", "status"})

	APIRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "api_requests_total",
		Help:      "Total number of backend API requests made by the client.",
	}, []string{"method", "endpoint", "status"})

	APIRateLimitWaitsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "api_rate_limit_waits_total",
		Help:      "Total number of client requests delayed by the rate limiter.",
	})
)

// Listing metrics.
var (
	ListingFetchesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "listing_fetches_total",
		Help:      "Total number of listing fetches by outcome (ok, error, stale, canceled).",
	}, []string{"resource", "outcome"})

	ListingFetchDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "listing_fetch_duration_seconds",
		Help:      "Duration of listing fetches in seconds.",
		Buckets:   prometheus.DefBuckets,
	})
)

// Saved/wishlist metrics.
var (
	SaveTogglesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "save_toggles_total",
		Help:      "Total number of save toggles by outcome (saved, unsaved, failed, rejected_pending).",
	}, []string{"resource", "outcome"})
)

// Currency metrics.
var (
	ConversionFallbacksTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "conversion_fallbacks_total",
		Help:      "Total number of prices shown unconverted because a rate was missing.",
	})

	RateRefreshesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "rate_refreshes_total",
		Help:      "Total number of exchange-rate table refreshes by outcome.",
	}, []string{"outcome"})

	RateTableSize = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "rate_table_currencies",
		Help:      "Number of currencies in the cached exchange-rate table.",
	})
)

// Mock backend HTTP metrics.
var (
	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "Duration of mock backend HTTP requests in seconds.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "Total number of mock backend HTTP requests.",
	}, []string{"method", "path", "status"})

	HealthzUp = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "healthz_up",
		Help:      "Whether the last /healthz probe succeeded (1) or failed (0).",
	})

	ReadyzUp = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "readyz_up",
		Help:      "Whether the last /readyz probe succeeded (1) or failed (0).",
	})
)
