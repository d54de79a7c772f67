package metric

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const _namespace = "storefront"

var _ Factory = (*prometheusFactory)(nil)

type prometheusFactory struct {
	registry    *promRegistry
	http        *httpMetrics
	transaction *transactionMetrics
	cache       *cacheMetrics
	sheetLog    *sheetLogMetrics
	kafka       *kafkaMetrics
	dlq         *dlqMetrics
}

// NewFactory builds every collector on a private registry, so independent
// factories (one per test, for example) never collide.
func NewFactory() Factory {
	registry := newPromRegistry()

	return &prometheusFactory{
		registry:    registry,
		http:        newHTTPMetrics(registry),
		transaction: newTransactionMetrics(registry),
		cache:       newCacheMetrics(registry),
		sheetLog:    newSheetLogMetrics(registry),
		kafka:       newKafkaMetrics(registry),
		dlq:         newDLQMetrics(registry),
	}
}

func (f *prometheusFactory) HTTP() HTTP               { return f.http }
func (f *prometheusFactory) Transaction() Transaction { return f.transaction }
func (f *prometheusFactory) Cache() Cache             { return f.cache }
func (f *prometheusFactory) SheetLog() SheetLog       { return f.sheetLog }
func (f *prometheusFactory) Kafka() Kafka             { return f.kafka }
func (f *prometheusFactory) DLQ() DLQ                 { return f.dlq }

func (f *prometheusFactory) Handler() http.Handler {
	return promhttp.HandlerFor(f.registry.gatherer, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
		Registry:          f.registry.gatherer,
	})
}

// promRegistry prefixes every service collector with the namespace. Runtime
// collectors are registered unprefixed.
type promRegistry struct {
	gatherer   *prometheus.Registry
	registerer prometheus.Registerer
}

func newPromRegistry() *promRegistry {
	reg := prometheus.NewRegistry()

	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return &promRegistry{
		gatherer:   reg,
		registerer: prometheus.WrapRegistererWithPrefix(_namespace+"_", reg),
	}
}

func (r *promRegistry) MustRegister(cs ...prometheus.Collector) {
	r.registerer.MustRegister(cs...)
}
