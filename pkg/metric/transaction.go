package metric

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	_txRetry   = "retry"
	_txFailure = "failure"
)

var _ Transaction = (*transactionMetrics)(nil)

// transactionMetrics covers the postgres backend. Operation labels are the
// repository operation names (UpsertProduct, SeedProfile, ...).
type transactionMetrics struct {
	duration *prometheus.HistogramVec
	attempts *prometheus.CounterVec
}

func newTransactionMetrics(registry *promRegistry) *transactionMetrics {
	m := &transactionMetrics{
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "storage_transaction_duration_seconds",
				Help:    "Duration of storage transactions including retries",
				Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
			},
			[]string{"operation"},
		),
		attempts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "storage_transaction_attempts_total",
				Help: "Storage transaction attempts that did not commit, by result (retry or failure)",
			},
			[]string{"operation", "result"},
		),
	}

	registry.MustRegister(m.duration, m.attempts)

	return m
}

func (m *transactionMetrics) ObserveDuration(operation string, duration time.Duration) {
	m.duration.WithLabelValues(operation).Observe(duration.Seconds())
}

func (m *transactionMetrics) IncrementRetries(operation string) {
	m.attempts.WithLabelValues(operation, _txRetry).Inc()
}

func (m *transactionMetrics) IncrementFailures(operation string) {
	m.attempts.WithLabelValues(operation, _txFailure).Inc()
}
