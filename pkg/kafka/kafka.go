package kafka

import (
	"context"
	"fmt"

	"github.com/Sn1ff3hr/chabella/internal/config"
	"github.com/Sn1ff3hr/chabella/pkg/logger"

	"github.com/segmentio/kafka-go"
)

// NewKafkaReader returns a consumer-group reader after checking that every
// broker accepts connections.
func NewKafkaReader(ctx context.Context, cfg config.Kafka, log logger.Logger) (*kafka.Reader, error) {
	const op = "kafka.NewKafkaReader"

	if err := CheckConnection(ctx, cfg.Brokers, log); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	readerLog := log.With("topic", cfg.Topic, "group_id", cfg.GroupID)

	return kafka.NewReader(kafka.ReaderConfig{
		Brokers:     cfg.Brokers,
		Topic:       cfg.Topic,
		GroupID:     cfg.GroupID,
		Logger:      logFunc(readerLog, logger.DebugLevel, "kafka reader info"),
		ErrorLogger: logFunc(readerLog, logger.ErrorLevel, "kafka reader error"),
	}), nil
}

// NewKafkaWriter returns an asynchronous writer: WriteMessages only enqueues
// and delivery results arrive through completion.
func NewKafkaWriter(
	cfg config.Kafka,
	log logger.Logger,
	completion func(messages []kafka.Message, err error),
) *kafka.Writer {
	writerLog := log.With("topic", cfg.Topic)

	return &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Topic:                  cfg.Topic,
		Balancer:               &kafka.Hash{},
		Async:                  true,
		BatchTimeout:           cfg.BatchTimeout,
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
		Completion:             completion,
		Logger:                 logFunc(writerLog, logger.DebugLevel, "kafka writer info"),
		ErrorLogger:            logFunc(writerLog, logger.ErrorLevel, "kafka writer error"),
	}
}

func CheckConnection(ctx context.Context, brokers []string, log logger.Logger) error {
	const op = "kafka.CheckConnection"

	dialer := &kafka.Dialer{}
	for _, broker := range brokers {
		conn, err := dialer.DialContext(ctx, "tcp", broker)
		if err != nil {
			return fmt.Errorf("%s: connect to %s: %w", op, broker, err)
		}

		if err = conn.Close(); err != nil {
			log.Warnw("failed to close connection",
				"operation", op,
				"broker", broker,
				"error", err)
		}
	}
	return nil
}

func logFunc(log logger.Logger, level logger.Level, msg string) kafka.LoggerFunc {
	return func(format string, args ...any) {
		log.LogAttrs(context.Background(), level, msg,
			logger.String("detail", fmt.Sprintf(format, args...)),
		)
	}
}
