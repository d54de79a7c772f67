package kafkat_test

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/Sn1ff3hr/chabella/internal/config"
	"github.com/Sn1ff3hr/chabella/internal/entity"
	mock_sheetlog "github.com/Sn1ff3hr/chabella/internal/sheetlog/mock"
	kafkat "github.com/Sn1ff3hr/chabella/internal/transport/kafka"
	"github.com/Sn1ff3hr/chabella/pkg/logger"
	"github.com/Sn1ff3hr/chabella/pkg/metric"
	"github.com/Sn1ff3hr/chabella/pkg/sheets"

	"github.com/golang/mock/gomock"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryWriter struct {
	mu       sync.Mutex
	messages []kafka.Message
	err      error
}

func (w *memoryWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.err != nil {
		return w.err
	}
	w.messages = append(w.messages, msgs...)
	return nil
}

func (w *memoryWriter) Close() error { return nil }

type memoryReader struct {
	messages chan kafka.Message

	mu        sync.Mutex
	committed []string
}

func (r *memoryReader) FetchMessage(ctx context.Context) (kafka.Message, error) {
	select {
	case <-ctx.Done():
		return kafka.Message{}, ctx.Err()
	case msg := <-r.messages:
		return msg, nil
	}
}

func (r *memoryReader) CommitMessages(_ context.Context, msgs ...kafka.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, msg := range msgs {
		r.committed = append(r.committed, string(msg.Key))
	}
	return nil
}

func (r *memoryReader) commits() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.committed...)
}

func (r *memoryReader) Close() error { return nil }

type deadLetters struct {
	mu   sync.Mutex
	keys []string
}

func (d *deadLetters) Send(_ context.Context, msg kafka.Message, _ error) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.keys = append(d.keys, string(msg.Key))
	return nil
}

func (d *deadLetters) sent() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.keys...)
}

func TestProductLogPublisher_Publish(t *testing.T) {
	t.Parallel()

	w := &memoryWriter{}
	pub := kafkat.NewProductLogPublisher(config.Kafka{}, logger.NewNop(), metric.NewFactory().SheetLog(),
		kafkat.WithMessageWriter(w))

	entry := &entity.ProductLogEntry{AssetID: "MARXIA-0003", ProductName: "Widget", Price: 5, QuantityAvailable: 2}
	require.NoError(t, pub.Publish(context.Background(), entry))

	require.Len(t, w.messages, 1)
	assert.Equal(t, "MARXIA-0003", string(w.messages[0].Key))

	var got entity.ProductLogEntry
	require.NoError(t, json.Unmarshal(w.messages[0].Value, &got))
	assert.Equal(t, "Widget", got.ProductName)
}

func TestProductLogPublisher_PublishWriteError(t *testing.T) {
	t.Parallel()

	w := &memoryWriter{err: errors.New("broker unavailable")}
	pub := kafkat.NewProductLogPublisher(config.Kafka{}, logger.NewNop(), metric.NewFactory().SheetLog(),
		kafkat.WithMessageWriter(w))

	err := pub.Publish(context.Background(), &entity.ProductLogEntry{AssetID: "MARXIA-0003"})
	assert.Error(t, err)
}

func TestProductLogConsumer_FailuresGoToDeadLetters(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	handler := mock_sheetlog.NewMockHandler(ctrl)

	handler.EXPECT().
		Handle(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, e *entity.ProductLogEntry) sheets.Result {
			if e.AssetID == "MARXIA-0004" {
				return sheets.Result{Outcome: sheets.OutcomeFailed, Err: errors.New("quota exceeded")}
			}
			return sheets.Result{Outcome: sheets.OutcomeAppended}
		}).
		Times(2)

	reader := &memoryReader{messages: make(chan kafka.Message, 3)}
	for _, id := range []string{"MARXIA-0003", "MARXIA-0004"} {
		value, err := json.Marshal(entity.ProductLogEntry{AssetID: id, CreatedAt: time.Now()})
		require.NoError(t, err)
		reader.messages <- kafka.Message{Topic: "product-log", Key: []byte(id), Value: value}
	}
	reader.messages <- kafka.Message{Topic: "product-log", Key: []byte("broken"), Value: []byte("{not json")}

	dead := &deadLetters{}
	consumer := kafkat.NewProductLogConsumer(reader, dead, handler, metric.NewFactory().Kafka(), logger.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- consumer.Start(ctx) }()

	require.Eventually(t, func() bool {
		return len(reader.commits()) == 3
	}, time.Second, 10*time.Millisecond)

	cancel()
	require.NoError(t, <-done)
	assert.Equal(t, []string{"MARXIA-0004", "broken"}, dead.sent())
	assert.Equal(t, []string{"MARXIA-0003", "MARXIA-0004", "broken"}, reader.commits())
}
