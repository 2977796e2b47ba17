package metrics

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	PredictionAttempts = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dashboard_prediction_attempts_total",
			Help: "Prediction requests sent to the model service, by fallback tier and status",
		},
		[]string{"tier", "status"},
	)

	PredictionOutcomes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dashboard_prediction_outcomes_total",
			Help: "Predictions returned to callers, by requested model and outcome",
		},
		[]string{"model_type", "outcome"},
	)

	DegradedResponses = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dashboard_degraded_responses_total",
			Help: "Operations that absorbed an upstream failure and returned a default value",
		},
		[]string{"operation"},
	)

	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "dashboard_http_request_duration_seconds",
			Help:    "Dashboard API request duration in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5, 10},
		},
		[]string{"method", "route", "status"},
	)
)

// Init registers the dashboard collectors with the default registry.
func Init() {
	prometheus.MustRegister(PredictionAttempts)
	prometheus.MustRegister(PredictionOutcomes)
	prometheus.MustRegister(DegradedResponses)
	prometheus.MustRegister(HTTPRequestDuration)
}

func MetricsHandler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}
