// Package metrics provides Prometheus instrumentation for the dashboard.
//
// It tracks the latency and failure rate of every call to the remote
// prediction backend, plus gauges describing what the dashboard currently
// shows. All metrics are exposed via the /metrics HTTP endpoint.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the dashboard service.
type Metrics struct {
	BackendRequestSeconds *prometheus.HistogramVec
	BackendErrorsTotal    *prometheus.CounterVec
	SimulationsTotal      prometheus.Counter
	FeedbackTotal         *prometheus.CounterVec
	LastStressScore       prometheus.Gauge
	HistoryLength         prometheus.Gauge
}

// New creates and registers all metrics. Pass nil to register on the
// default registry; tests pass their own prometheus.NewRegistry().
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		BackendRequestSeconds: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "stresswatch_backend_request_seconds",
			Help:    "Time spent calling the prediction backend",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),

		BackendErrorsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "stresswatch_backend_errors_total",
			Help: "Total number of failed backend calls by endpoint and reason",
		}, []string{"endpoint", "reason"}),

		SimulationsTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "stresswatch_simulations_total",
			Help: "Total number of successfully scored synthetic readings",
		}),

		FeedbackTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "stresswatch_feedback_total",
			Help: "Total number of accepted feedback submissions by label",
		}, []string{"label"}),

		LastStressScore: factory.NewGauge(prometheus.GaugeOpts{
			Name: "stresswatch_last_stress_score",
			Help: "Stress score of the most recently simulated reading",
		}),

		HistoryLength: factory.NewGauge(prometheus.GaugeOpts{
			Name: "stresswatch_history_length",
			Help: "Number of readings in the currently loaded history",
		}),
	}
}

// RecordRequest records the duration of a backend call.
func (m *Metrics) RecordRequest(endpoint string, seconds float64) {
	if m == nil {
		return
	}
	m.BackendRequestSeconds.WithLabelValues(endpoint).Observe(seconds)
}

// RecordError increments the backend error counter.
func (m *Metrics) RecordError(endpoint, reason string) {
	if m == nil {
		return
	}
	m.BackendErrorsTotal.WithLabelValues(endpoint, reason).Inc()
}

// RecordSimulation counts a scored reading and tracks its score.
func (m *Metrics) RecordSimulation(score float64) {
	if m == nil {
		return
	}
	m.SimulationsTotal.Inc()
	m.LastStressScore.Set(score)
}

// RecordFeedback counts an accepted feedback submission.
func (m *Metrics) RecordFeedback(label string) {
	if m == nil {
		return
	}
	m.FeedbackTotal.WithLabelValues(label).Inc()
}

// SetHistoryLength tracks the size of the loaded display series.
func (m *Metrics) SetHistoryLength(n int) {
	if m == nil {
		return
	}
	m.HistoryLength.Set(float64(n))
}
