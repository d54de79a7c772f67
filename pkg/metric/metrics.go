package metric

import (
	"net/http"
	"time"
)

type (
	// Factory hands out the metric groups of one service instance and the
	// handler that exposes them.
	Factory interface {
		HTTP() HTTP
		Transaction() Transaction
		Cache() Cache
		SheetLog() SheetLog
		Kafka() Kafka
		DLQ() DLQ
		Handler() http.Handler
	}

	HTTP interface {
		Request(method, path string, status int, duration time.Duration)
		SlowRequest(method, path string, status int, duration time.Duration)
	}

	// Transaction is recorded by the postgres transaction manager.
	Transaction interface {
		ObserveDuration(operation string, duration time.Duration)
		IncrementRetries(operation string)
		IncrementFailures(operation string)
	}

	// Cache is keyed by the cache name given to the LRU.
	Cache interface {
		Hit(cacheType string)
		Miss(cacheType string)
		Eviction(cacheType string, reason string)
		Size(cacheType string, size int)
	}

	// SheetLog tracks created products on their way to the spreadsheet.
	SheetLog interface {
		Published(transport string)
		Dropped(transport string, reason string)
		Appended(outcome string, duration time.Duration)
	}

	Kafka interface {
		MessageProcessed(topic string, partition int)
		MessageFailed(topic string, partition int, reason string)
	}

	DLQ interface {
		DLSent(topic string, originalTopic string)
		DLError(topic string, reason string)
	}
)
