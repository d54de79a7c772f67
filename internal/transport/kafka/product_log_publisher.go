package kafkat

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Sn1ff3hr/chabella/internal/config"
	"github.com/Sn1ff3hr/chabella/internal/entity"
	pkgkafka "github.com/Sn1ff3hr/chabella/pkg/kafka"
	"github.com/Sn1ff3hr/chabella/pkg/logger"
	"github.com/Sn1ff3hr/chabella/pkg/metric"

	"github.com/segmentio/kafka-go"
)

const _transportKafka = "kafka"

type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type PublisherOption func(*ProductLogPublisher)

func WithMessageWriter(w MessageWriter) PublisherOption {
	return func(p *ProductLogPublisher) {
		p.writer = w
	}
}

// ProductLogPublisher puts product log entries on a topic keyed by asset id.
// The writer is asynchronous, so Publish returns before delivery.
type ProductLogPublisher struct {
	writer   MessageWriter
	log      logger.Logger
	failures logger.Logger
	metrics  metric.SheetLog
}

func NewProductLogPublisher(
	cfg config.Kafka,
	log logger.Logger,
	metrics metric.SheetLog,
	opts ...PublisherOption,
) *ProductLogPublisher {
	p := &ProductLogPublisher{
		log:      log.With("component", "sheetlog-publisher"),
		failures: log.With("component", "sheetlog-failures"),
		metrics:  metrics,
	}

	for _, opt := range opts {
		opt(p)
	}

	if p.writer == nil {
		p.writer = pkgkafka.NewKafkaWriter(cfg, log, p.completion)
	}

	return p
}

func (p *ProductLogPublisher) Publish(ctx context.Context, entry *entity.ProductLogEntry) error {
	const op = "transport.kafka.ProductLogPublisher.Publish"

	value, err := json.Marshal(entry)
	if err != nil {
		p.metrics.Dropped(_transportKafka, "marshal_failed")
		return fmt.Errorf("%s: marshal entry: %w", op, err)
	}

	if err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(entry.AssetID),
		Value: value,
	}); err != nil {
		p.metrics.Dropped(_transportKafka, "write_failed")
		return fmt.Errorf("%s: write message: %w", op, err)
	}

	p.metrics.Published(_transportKafka)
	return nil
}

func (p *ProductLogPublisher) Close() error {
	if err := p.writer.Close(); err != nil {
		return fmt.Errorf("transport.kafka.ProductLogPublisher.Close: %w", err)
	}
	return nil
}

func (p *ProductLogPublisher) completion(messages []kafka.Message, err error) {
	if err == nil {
		p.log.Debugw("product log entries delivered", "count", len(messages))
		return
	}

	for _, msg := range messages {
		p.metrics.Dropped(_transportKafka, "delivery_failed")
		p.failures.Errorw("product log entry not delivered",
			"asset_id", string(msg.Key),
			"error", err,
		)
	}
}
