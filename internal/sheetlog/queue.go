package sheetlog

import (
	"context"
	"errors"
	"fmt"

	"github.com/Sn1ff3hr/chabella/internal/config"
	"github.com/Sn1ff3hr/chabella/internal/entity"
	"github.com/Sn1ff3hr/chabella/pkg/logger"
	"github.com/Sn1ff3hr/chabella/pkg/metric"
	"github.com/Sn1ff3hr/chabella/pkg/sheets"

	"golang.org/x/sync/errgroup"
)

const _transportLocal = "local"

var ErrQueueFull = errors.New("sheet log queue is full")

// LocalQueue hands entries to a fixed pool of workers. Publish never blocks
// the caller; entries that do not fit are dropped and reported.
type LocalQueue struct {
	entries  chan *entity.ProductLogEntry
	workers  int
	handler  Handler
	log      logger.Logger
	failures logger.Logger
	metrics  metric.SheetLog
}

func NewLocalQueue(
	cfg config.SheetLog,
	handler Handler,
	log logger.Logger,
	metrics metric.SheetLog,
) (*LocalQueue, error) {
	const op = "sheetlog.NewLocalQueue"

	if cfg.QueueSize <= 0 || cfg.Workers <= 0 {
		return nil, fmt.Errorf("%s: queue size and workers must be positive", op)
	}
	if handler == nil {
		return nil, fmt.Errorf("%s: handler is required", op)
	}

	return &LocalQueue{
		entries:  make(chan *entity.ProductLogEntry, cfg.QueueSize),
		workers:  cfg.Workers,
		handler:  handler,
		log:      log.With("component", "sheetlog-queue"),
		failures: log.With("component", "sheetlog-failures"),
		metrics:  metrics,
	}, nil
}

func (q *LocalQueue) Publish(_ context.Context, entry *entity.ProductLogEntry) error {
	select {
	case q.entries <- entry:
		q.metrics.Published(_transportLocal)
		return nil
	default:
		q.metrics.Dropped(_transportLocal, "queue_full")
		q.failures.Errorw("product log entry dropped",
			"asset_id", entry.AssetID,
			"reason", ErrQueueFull.Error(),
		)
		return ErrQueueFull
	}
}

// Start runs the workers until ctx is cancelled. In-flight appends finish
// on their own timeout; entries still queued at shutdown are reported lost.
func (q *LocalQueue) Start(ctx context.Context) error {
	q.log.Infow("sheet log workers starting", "workers", q.workers)

	g, gctx := errgroup.WithContext(ctx)
	for range q.workers {
		g.Go(func() error {
			q.work(gctx)
			return nil
		})
	}

	err := g.Wait()

	if pending := len(q.entries); pending > 0 {
		q.metrics.Dropped(_transportLocal, "shutdown")
		q.failures.Warnw("sheet log stopped with pending entries", "pending", pending)
	}
	q.log.Infow("sheet log workers stopped")

	return err
}

func (q *LocalQueue) work(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case entry := <-q.entries:
			q.handle(context.WithoutCancel(ctx), entry)
		}
	}
}

func (q *LocalQueue) handle(ctx context.Context, entry *entity.ProductLogEntry) {
	res := q.handler.Handle(ctx, entry)

	switch res.Outcome {
	case sheets.OutcomeFailed:
		q.failures.Errorw("product log append failed",
			"asset_id", entry.AssetID,
			"product_name", entry.ProductName,
			"error", res.Err,
		)
	case sheets.OutcomeSkipped:
		q.log.Debugw("product log append skipped", "asset_id", entry.AssetID)
	}
}
