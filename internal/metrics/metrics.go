// Package metrics provides the Prometheus registry for the board, the HTTP
// surface and scheduled jobs.
package metrics

import (
	"net/http"
	"strconv"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "notiabet"

// Global registry instance
var (
	registry *prometheus.Registry
	once     sync.Once
)

// Counter metrics
var (
	BoardLoadsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "board_loads_total",
		Help:      "Total number of board loads by source",
	}, []string{"source"})
	BoardStaleDiscardsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "board_stale_discards_total",
		Help:      "Total number of fetched boards discarded because a newer load started",
	})
	BoardCacheHitsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "board_cache_hits_total",
		Help:      "Total number of board cache hits",
	})
	BoardCacheMissesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "board_cache_misses_total",
		Help:      "Total number of board cache misses",
	})
	HTTPRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests by route and status code",
	}, []string{"route", "code"})
	JobRunsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "job_runs_total",
		Help:      "Total number of scheduled job runs",
	}, []string{"job"})
)

// Gauge metrics
var (
	BoardGames = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "board_games",
		Help:      "Number of games on the current board",
	})
	BoardValuePicks = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "board_value_picks",
		Help:      "Number of value picks on the current board",
	})
)

// Histogram metrics
var (
	HTTPRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "Duration of HTTP requests in seconds",
		Buckets:   prometheus.DefBuckets,
	}, []string{"route"})
	JobDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "job_duration_seconds",
		Help:      "Duration of scheduled job runs in seconds",
		Buckets:   []float64{0.1, 0.5, 1, 5, 10, 30, 60, 120},
	}, []string{"job"})
)

// InitRegistry initializes the global Prometheus registry.
func InitRegistry() *prometheus.Registry {
	once.Do(func() {
		registry = prometheus.NewRegistry()

		registry.MustRegister(BoardLoadsTotal)
		registry.MustRegister(BoardStaleDiscardsTotal)
		registry.MustRegister(BoardCacheHitsTotal)
		registry.MustRegister(BoardCacheMissesTotal)
		registry.MustRegister(HTTPRequestsTotal)
		registry.MustRegister(JobRunsTotal)

		registry.MustRegister(BoardGames)
		registry.MustRegister(BoardValuePicks)

		registry.MustRegister(HTTPRequestDuration)
		registry.MustRegister(JobDuration)
	})
	return registry
}

// GetRegistry returns the global Prometheus registry.
func GetRegistry() *prometheus.Registry {
	return InitRegistry()
}

// Handler returns the Prometheus HTTP handler. It also gathers the default
// registry, where the prediction client and the Go runtime register.
func Handler() http.Handler {
	gatherers := prometheus.Gatherers{GetRegistry(), prometheus.DefaultGatherer}
	return promhttp.HandlerFor(gatherers, promhttp.HandlerOpts{})
}

// RecordBoardLoad records a resolved board load.
func RecordBoardLoad(source string, games, valuePicks int, current bool) {
	BoardLoadsTotal.WithLabelValues(source).Inc()
	if !current {
		BoardStaleDiscardsTotal.Inc()
		return
	}
	BoardGames.Set(float64(games))
	BoardValuePicks.Set(float64(valuePicks))
}

// RecordCacheLookup records a board cache hit or miss.
func RecordCacheLookup(hit bool) {
	if hit {
		BoardCacheHitsTotal.Inc()
		return
	}
	BoardCacheMissesTotal.Inc()
}

// RecordHTTPRequest records a served request.
func RecordHTTPRequest(route string, code int, durationSeconds float64) {
	HTTPRequestsTotal.WithLabelValues(route, strconv.Itoa(code)).Inc()
	HTTPRequestDuration.WithLabelValues(route).Observe(durationSeconds)
}

// RecordJobRun records a scheduled job run.
func RecordJobRun(job string, durationSeconds float64) {
	JobRunsTotal.WithLabelValues(job).Inc()
	JobDuration.WithLabelValues(job).Observe(durationSeconds)
}
