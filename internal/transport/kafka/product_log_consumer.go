package kafkat

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Sn1ff3hr/chabella/internal/entity"
	"github.com/Sn1ff3hr/chabella/internal/sheetlog"
	"github.com/Sn1ff3hr/chabella/pkg/logger"
	"github.com/Sn1ff3hr/chabella/pkg/metric"
	"github.com/Sn1ff3hr/chabella/pkg/sheets"

	"github.com/segmentio/kafka-go"
	"golang.org/x/sync/errgroup"
)

type MessageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type DeadLetter interface {
	Send(ctx context.Context, msg kafka.Message, reason error) error
}

var errAppendSkipped = errors.New("sheet append skipped")

// ProductLogConsumer reads product log entries and appends them to the sheet.
// Each entry gets one attempt; failures are written to the dead letter topic.
// An offset is committed once its entry is appended, skipped or dead-lettered.
type ProductLogConsumer struct {
	reader  MessageReader
	dlq     DeadLetter
	handler sheetlog.Handler
	metrics metric.Kafka
	log     logger.Logger
}

func NewProductLogConsumer(
	reader MessageReader,
	dlq DeadLetter,
	handler sheetlog.Handler,
	metrics metric.Kafka,
	log logger.Logger,
) *ProductLogConsumer {
	return &ProductLogConsumer{
		reader:  reader,
		dlq:     dlq,
		handler: handler,
		metrics: metrics,
		log:     log.With("component", "sheetlog-consumer"),
	}
}

func (c *ProductLogConsumer) Start(ctx context.Context) error {
	eg, ctx := errgroup.WithContext(ctx)

	eg.Go(func() error {
		return c.run(ctx)
	})

	eg.Go(func() error {
		<-ctx.Done()
		c.log.Infow("shutting down consumer")
		return c.reader.Close()
	})

	if err := eg.Wait(); err != nil {
		return fmt.Errorf("transport.kafka.ProductLogConsumer.Start: %w", err)
	}
	return nil
}

func (c *ProductLogConsumer) run(ctx context.Context) error {
	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			c.log.Errorw("kafka fetch failed", "error", err)
			continue
		}

		c.metrics.MessageProcessed(msg.Topic, msg.Partition)
		c.processMessage(ctx, msg)

		if err = c.reader.CommitMessages(context.WithoutCancel(ctx), msg); err != nil {
			c.log.Errorw("kafka commit failed",
				"key", string(msg.Key),
				"offset", msg.Offset,
				"error", err,
			)
		}
	}
}

func (c *ProductLogConsumer) processMessage(ctx context.Context, msg kafka.Message) {
	reason, err := c.handleMessage(ctx, msg)
	if err == nil {
		return
	}

	c.metrics.MessageFailed(msg.Topic, msg.Partition, reason)

	if errors.Is(err, errAppendSkipped) {
		c.log.Warnw("product log entry not appended",
			"key", string(msg.Key),
			"offset", msg.Offset,
		)
		return
	}

	if dlqErr := c.dlq.Send(ctx, msg, err); dlqErr != nil {
		c.log.Errorw("failed to record product log failure",
			"key", string(msg.Key),
			"offset", msg.Offset,
			"original_error", err,
			"dlq_error", dlqErr,
		)
	}
}

func (c *ProductLogConsumer) handleMessage(ctx context.Context, msg kafka.Message) (string, error) {
	const op = "transport.kafka.ProductLogConsumer.handleMessage"

	var entry entity.ProductLogEntry
	if err := json.Unmarshal(msg.Value, &entry); err != nil {
		return "decode_failed", fmt.Errorf("%s: unmarshal entry: %w", op, err)
	}

	res := c.handler.Handle(context.WithoutCancel(ctx), &entry)
	switch res.Outcome {
	case sheets.OutcomeAppended:
		return "", nil
	case sheets.OutcomeSkipped:
		return "skipped", errAppendSkipped
	default:
		if res.Err == nil {
			return "append_failed", fmt.Errorf("%s: append failed", op)
		}
		return "append_failed", fmt.Errorf("%s: %w", op, res.Err)
	}
}
