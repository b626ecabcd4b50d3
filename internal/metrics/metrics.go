package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Universe loading
	UniverseLoadDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "universe_load_duration_seconds",
			Help:    "Duration of universe load stages in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"stage"}, // "fetch", "decompress", "decode", "build"
	)

	UniverseLoads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "universe_loads_total",
			Help: "Total number of universe loads by outcome",
		},
		[]string{"outcome"}, // "success", "error"
	)

	UniverseBodies = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "universe_bodies",
			Help: "Number of bodies in the currently loaded universe",
		},
		[]string{"kind"}, // "planet", "star", "system"
	)

	UniverseBuildWarnings = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "universe_build_warnings_total",
			Help: "Total number of decoded entries skipped while building the universe",
		},
		[]string{"kind"},
	)

	// Search
	SearchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "search_duration_seconds",
			Help:    "Duration of universe searches in seconds",
			Buckets: []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25},
		},
	)

	SearchMatches = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "search_matched_planets",
			Help:    "Number of planets matched per search",
			Buckets: []float64{0, 1, 10, 100, 1000, 10000, 100000},
		},
	)

	SearchNoOps = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "search_noop_total",
			Help: "Total number of searches with every filter at its default",
		},
	)

	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_hits_total",
			Help: "Total number of cache hits",
		},
		[]string{"cache_type"},
	)

	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_misses_total",
			Help: "Total number of cache misses",
		},
		[]string{"cache_type"},
	)

	// HTTP
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"method"},
	)

	APIRateLimitHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "api_rate_limit_hits_total",
			Help: "Total number of rate limit rejections",
		},
	)
)
