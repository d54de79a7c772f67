package dlq

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Sn1ff3hr/chabella/internal/config"
	"github.com/Sn1ff3hr/chabella/pkg/logger"
	"github.com/Sn1ff3hr/chabella/pkg/metric"

	"github.com/segmentio/kafka-go"
)

const _defaultSource = "sheetlog"

type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// DLQ records messages that could not be handled. It is the failure log of
// the kafka transport: nothing reads it back automatically.
type DLQ struct {
	writer  MessageWriter
	topic   string
	source  string
	log     logger.Logger
	metrics metric.DLQ
}

type Envelope struct {
	Metadata Metadata        `json:"metadata"`
	Payload  json.RawMessage `json:"payload"`
}

type Metadata struct {
	Source        string `json:"source"`
	OriginalTopic string `json:"original_topic"`
	Partition     int    `json:"partition"`
	Offset        int64  `json:"offset"`
	Error         string `json:"error"`
	Timestamp     string `json:"timestamp"`
}

func NewDLQ(cfg config.DLQ, log logger.Logger, metrics metric.DLQ, opts ...Option) (*DLQ, error) {
	d := &DLQ{
		topic:   cfg.Topic,
		source:  _defaultSource,
		log:     log.With("component", "dlq", "dlq_topic", cfg.Topic),
		metrics: metrics,
	}

	for _, opt := range opts {
		opt(d)
	}

	if d.writer == nil && len(cfg.Brokers) > 0 {
		d.writer = &kafka.Writer{
			Addr:                   kafka.TCP(cfg.Brokers...),
			Topic:                  cfg.Topic,
			BatchSize:              cfg.BatchSize,
			BatchTimeout:           cfg.BatchTimeout,
			WriteTimeout:           cfg.WriteTimeout,
			ReadTimeout:            cfg.ReadTimeout,
			RequiredAcks:           kafka.RequireAll,
			AllowAutoTopicCreation: true,
		}
	}

	if err := d.validate(); err != nil {
		return nil, fmt.Errorf("kafka.dlq.NewDLQ: validation: %w", err)
	}

	return d, nil
}

func (d *DLQ) Close() error {
	if err := d.writer.Close(); err != nil {
		return fmt.Errorf("kafka.dlq.Close: %w", err)
	}
	return nil
}

// Send writes msg with its failure reason to the dead letter topic. A payload
// that is not JSON is stored as a JSON string.
func (d *DLQ) Send(ctx context.Context, msg kafka.Message, reason error) error {
	const op = "kafka.dlq.Send"

	payload := json.RawMessage(msg.Value)
	if !json.Valid(msg.Value) {
		quoted, err := json.Marshal(string(msg.Value))
		if err != nil {
			return fmt.Errorf("%s: quote payload: %w", op, err)
		}
		payload = quoted
	}

	errText := "unknown"
	if reason != nil {
		errText = reason.Error()
	}

	value, err := json.Marshal(Envelope{
		Metadata: Metadata{
			Source:        d.source,
			OriginalTopic: msg.Topic,
			Partition:     msg.Partition,
			Offset:        msg.Offset,
			Error:         errText,
			Timestamp:     time.Now().UTC().Format(time.RFC3339),
		},
		Payload: payload,
	})
	if err != nil {
		d.metrics.DLError(d.topic, "marshal_failed")
		return fmt.Errorf("%s: marshal envelope: %w", op, err)
	}

	if err = d.writer.WriteMessages(ctx, kafka.Message{Key: msg.Key, Value: value}); err != nil {
		d.log.Errorw("failed to send message to dlq",
			"op", op,
			"error", err,
			"offset", msg.Offset,
		)
		d.metrics.DLError(d.topic, "write_failed")
		return fmt.Errorf("%s: write message: %w", op, err)
	}

	d.metrics.DLSent(d.topic, msg.Topic)
	d.log.Infow("message sent to dlq",
		"op", op,
		"key", string(msg.Key),
		"offset", msg.Offset,
	)

	return nil
}
