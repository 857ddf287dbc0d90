// Package metrics defines the service's Prometheus collectors.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recipebox_http_requests_total",
			Help: "HTTP requests by method, route pattern and status code",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "recipebox_http_request_duration_seconds",
			Help:    "HTTP request latency by method and route pattern",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "recipebox_http_requests_in_flight",
			Help: "HTTP requests currently being served",
		},
	)

	RecipesCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recipebox_recipes_created_total",
			Help: "Recipe create attempts by outcome",
		},
		[]string{"outcome"},
	)

	SearchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recipebox_searches_total",
			Help: "Ingredient searches by mode",
		},
		[]string{"mode"},
	)

	SearchResults = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "recipebox_search_results",
			Help:    "Number of recipes returned per ingredient search",
			Buckets: []float64{0, 1, 2, 5, 10, 25, 50, 100},
		},
		[]string{"mode"},
	)
)

// RecordHTTPRequest records one finished request.
func RecordHTTPRequest(method, route string, status int, duration time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	HTTPRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// RecordRecipeCreate counts a create attempt; outcome is "created",
// "invalid", "conflict" or "error".
func RecordRecipeCreate(outcome string) {
	RecipesCreated.WithLabelValues(outcome).Inc()
}

// RecordSearch counts a search and the size of its result.
func RecordSearch(mode string, results int) {
	SearchesTotal.WithLabelValues(mode).Inc()
	SearchResults.WithLabelValues(mode).Observe(float64(results))
}
