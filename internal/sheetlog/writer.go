package sheetlog

import (
	"context"

	"github.com/Sn1ff3hr/chabella/internal/config"
	"github.com/Sn1ff3hr/chabella/internal/entity"
	"github.com/Sn1ff3hr/chabella/pkg/logger"
	"github.com/Sn1ff3hr/chabella/pkg/sheets"
)

//go:generate mockgen -source=writer.go -destination=mock/writer.go -package=mock_sheetlog

type Appender interface {
	AppendRows(ctx context.Context, sheetID, rng string, rows [][]any) sheets.Result
}

type Handler interface {
	Handle(ctx context.Context, entry *entity.ProductLogEntry) sheets.Result
}

var _ Handler = (*Writer)(nil)

// Writer appends one row per product log entry to the configured sheet.
type Writer struct {
	appender Appender
	sheetID  string
	rng      string
	log      logger.Logger
}

func NewWriter(cfg config.Sheets, appender Appender, log logger.Logger) *Writer {
	return &Writer{
		appender: appender,
		sheetID:  cfg.SheetID,
		rng:      cfg.Range,
		log:      log.With("component", "sheetlog"),
	}
}

func (w *Writer) Handle(ctx context.Context, entry *entity.ProductLogEntry) sheets.Result {
	res := w.appender.AppendRows(ctx, w.sheetID, w.rng, [][]any{entry.Row()})

	if res.Outcome == sheets.OutcomeAppended {
		w.log.Debugw("product logged to sheet",
			"asset_id", entry.AssetID,
			"updated_range", res.UpdatedRange,
		)
	}
	return res
}
