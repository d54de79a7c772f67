package metric

import (
	"github.com/prometheus/client_golang/prometheus"
)

var _ DLQ = (*dlqMetrics)(nil)

type dlqMetrics struct {
	messagesSent *prometheus.CounterVec
	errors       *prometheus.CounterVec
}

func newDLQMetrics(registry *promRegistry) *dlqMetrics {
	sent := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dlq_messages_sent_total",
			Help: "Total number of failed product log entries written to the dead letter topic",
		},
		[]string{"dlq_topic", "original_topic"},
	)

	errs := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dlq_errors_total",
			Help: "Total number of errors writing to the dead letter topic",
		},
		[]string{"dlq_topic", "reason"},
	)

	registry.MustRegister(sent, errs)

	return &dlqMetrics{
		messagesSent: sent,
		errors:       errs,
	}
}

func (m *dlqMetrics) DLSent(dlqTopic string, originalTopic string) {
	m.messagesSent.WithLabelValues(dlqTopic, originalTopic).Inc()
}

func (m *dlqMetrics) DLError(dlqTopic string, reason string) {
	m.errors.WithLabelValues(dlqTopic, reason).Inc()
}
