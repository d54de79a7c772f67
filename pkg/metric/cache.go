package metric

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	_cacheHit  = "hit"
	_cacheMiss = "miss"
)

var _ Cache = (*cacheMetrics)(nil)

type cacheMetrics struct {
	lookups   *prometheus.CounterVec
	evictions *prometheus.CounterVec
	entries   *prometheus.GaugeVec
}

func newCacheMetrics(registry *promRegistry) *cacheMetrics {
	m := &cacheMetrics{
		lookups: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cache_lookups_total",
				Help: "Cache lookups by cache name and result (hit or miss)",
			},
			[]string{"cache", "result"},
		),
		evictions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cache_evictions_total",
				Help: "Entries removed from a cache by reason (lru, ttl, delete, purge)",
			},
			[]string{"cache", "reason"},
		),
		entries: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "cache_entries",
				Help: "Entries currently held by a cache",
			},
			[]string{"cache"},
		),
	}

	registry.MustRegister(m.lookups, m.evictions, m.entries)

	return m
}

func (m *cacheMetrics) Hit(cache string) {
	m.lookups.WithLabelValues(cache, _cacheHit).Inc()
}

func (m *cacheMetrics) Miss(cache string) {
	m.lookups.WithLabelValues(cache, _cacheMiss).Inc()
}

func (m *cacheMetrics) Eviction(cache, reason string) {
	m.evictions.WithLabelValues(cache, reason).Inc()
}

func (m *cacheMetrics) Size(cache string, size int) {
	m.entries.WithLabelValues(cache).Set(float64(size))
}
