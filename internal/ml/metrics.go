package ml

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// PredictionRequestsTotal tracks resolved prediction requests
	PredictionRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "prediction_requests_total",
			Help: "Total number of prediction requests by outcome and source",
		},
		[]string{"outcome", "source"},
	)

	// PredictionRequestLatency tracks prediction request latency
	PredictionRequestLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "prediction_request_latency_seconds",
			Help:    "Prediction request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"outcome"},
	)

	// PredictionsServedTotal tracks predictions handed to consumers
	PredictionsServedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "predictions_served_total",
			Help: "Total number of predictions returned to consumers",
		},
		[]string{"source"},
	)

	// ServiceCallsTotal tracks calls to the secondary endpoints
	ServiceCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "prediction_service_calls_total",
			Help: "Total number of health, strategy, history and stats calls",
		},
		[]string{"endpoint", "status"}, // ok, error
	)

	// ServiceUp reflects the last health probe
	ServiceUp = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "prediction_service_up",
			Help: "1 when the last health probe succeeded, 0 otherwise",
		},
	)

	// MockModeEnabled reflects the mock mode switch of the most recently toggled client
	MockModeEnabled = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "prediction_mock_mode",
			Help: "1 when mock mode is enabled",
		},
	)
)

func callStatus(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
