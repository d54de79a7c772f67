package metric

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var _ SheetLog = (*sheetLogMetrics)(nil)

type sheetLogMetrics struct {
	published *prometheus.CounterVec
	dropped   *prometheus.CounterVec
	appends   *prometheus.CounterVec
	duration  *prometheus.HistogramVec
}

func newSheetLogMetrics(registry *promRegistry) *sheetLogMetrics {
	published := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sheetlog_entries_published_total",
			Help: "Total number of product log entries handed to the side channel",
		},
		[]string{"transport"},
	)

	dropped := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sheetlog_entries_dropped_total",
			Help: "Total number of product log entries that never reached the side channel",
		},
		[]string{"transport", "reason"},
	)

	appends := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sheetlog_appends_total",
			Help: "Total number of spreadsheet append attempts by outcome",
		},
		[]string{"outcome"},
	)

	duration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "sheetlog_append_duration_seconds",
			Help:    "Duration of spreadsheet append calls in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0},
		},
		[]string{"outcome"},
	)

	registry.MustRegister(published, dropped, appends, duration)

	return &sheetLogMetrics{
		published: published,
		dropped:   dropped,
		appends:   appends,
		duration:  duration,
	}
}

func (m *sheetLogMetrics) Published(transport string) {
	m.published.WithLabelValues(transport).Inc()
}

func (m *sheetLogMetrics) Dropped(transport string, reason string) {
	m.dropped.WithLabelValues(transport, reason).Inc()
}

func (m *sheetLogMetrics) Appended(outcome string, duration time.Duration) {
	m.appends.WithLabelValues(outcome).Inc()
	m.duration.WithLabelValues(outcome).Observe(duration.Seconds())
}
