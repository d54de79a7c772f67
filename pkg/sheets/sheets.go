package sheets

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Sn1ff3hr/chabella/internal/config"
	"github.com/Sn1ff3hr/chabella/pkg/logger"
	"github.com/Sn1ff3hr/chabella/pkg/metric"

	"google.golang.org/api/option"
	gsheets "google.golang.org/api/sheets/v4"
)

const (
	_defaultValueInputOption = "USER_ENTERED"
	_insertDataOption        = "INSERT_ROWS"
)

type Outcome string

const (
	OutcomeSkipped  Outcome = "skipped"
	OutcomeAppended Outcome = "appended"
	OutcomeFailed   Outcome = "failed"
)

// Result describes one append attempt. Failures are reported here rather
// than as an error so callers can never abort on them.
type Result struct {
	Outcome      Outcome
	UpdatedRange string
	UpdatedRows  int64
	Err          error
}

type Client struct {
	credentialsFile  string
	timeout          time.Duration
	valueInputOption string
	clientOptions    []option.ClientOption

	log     logger.Logger
	metrics metric.SheetLog

	mu      sync.Mutex
	service *gsheets.Service
}

func NewClient(cfg config.Sheets, log logger.Logger, metrics metric.SheetLog, opts ...Option) *Client {
	c := &Client{
		credentialsFile:  cfg.CredentialsFile,
		timeout:          cfg.Timeout,
		valueInputOption: _defaultValueInputOption,
		log:              log.With("component", "sheets"),
		metrics:          metrics,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// AppendRows appends rows after the last row of the table found at rng.
// Missing credentials or sheet id skip the call; API and auth errors are
// logged and reported as OutcomeFailed.
func (c *Client) AppendRows(ctx context.Context, sheetID, rng string, rows [][]any) Result {
	start := time.Now()

	if c.credentialsFile == "" || sheetID == "" {
		c.log.Warnw("google sheets credentials or sheet id not configured, skipping append",
			"sheet_id_set", sheetID != "",
			"credentials_set", c.credentialsFile != "",
		)
		c.metrics.Appended(string(OutcomeSkipped), time.Since(start))
		return Result{Outcome: OutcomeSkipped}
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	res, err := c.append(ctx, sheetID, rng, rows)
	if err != nil {
		c.log.Errorw("failed to append rows to google sheet",
			"sheet_id", sheetID,
			"range", rng,
			"rows", len(rows),
			"error", err,
		)
		c.metrics.Appended(string(OutcomeFailed), time.Since(start))
		return Result{Outcome: OutcomeFailed, Err: err}
	}

	c.log.Infow("rows appended to google sheet",
		"sheet_id", sheetID,
		"updated_range", res.UpdatedRange,
		"updated_rows", res.UpdatedRows,
	)
	c.metrics.Appended(string(OutcomeAppended), time.Since(start))

	return res
}

func (c *Client) append(ctx context.Context, sheetID, rng string, rows [][]any) (Result, error) {
	const op = "sheets.Client.append"

	srv, err := c.sheetsService(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("%s: %w", op, err)
	}

	resp, err := srv.Spreadsheets.Values.
		Append(sheetID, rng, &gsheets.ValueRange{Values: rows}).
		ValueInputOption(c.valueInputOption).
		InsertDataOption(_insertDataOption).
		Context(ctx).
		Do()
	if err != nil {
		return Result{}, fmt.Errorf("%s: append values: %w", op, err)
	}

	res := Result{Outcome: OutcomeAppended}
	if resp.Updates != nil {
		res.UpdatedRange = resp.Updates.UpdatedRange
		res.UpdatedRows = resp.Updates.UpdatedRows
	}
	return res, nil
}

// sheetsService builds the service on first use and keeps it once it succeeds.
// The service outlives the call, so it must not inherit the call deadline.
func (c *Client) sheetsService(ctx context.Context) (*gsheets.Service, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.service != nil {
		return c.service, nil
	}

	opts := c.clientOptions
	if len(opts) == 0 {
		opts = []option.ClientOption{
			option.WithCredentialsFile(c.credentialsFile),
			option.WithScopes(gsheets.SpreadsheetsScope),
		}
	}

	srv, err := gsheets.NewService(context.WithoutCancel(ctx), opts...)
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}

	c.service = srv
	return srv, nil
}
