package crawl

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"download-ticks/internal/model"
	"download-ticks/internal/provider"
)

const (
	// DefaultLimit is the exchange's maximum page size.
	DefaultLimit = 1000

	defaultHeartbeat = 30 * time.Second
)

// CheckpointFunc receives the accumulated data after every page but the last.
// Errors are logged and the run continues.
type CheckpointFunc func(klines []model.Kline) error

// Options tunes one Run. Zero values use defaults.
type Options struct {
	Limit      int
	Verbose    bool             // log per-page progress at info instead of debug
	Heartbeat  time.Duration    // heartbeat period, default 30s
	Now        func() time.Time // clock for open-ended ranges
	Logger     *slog.Logger     // default slog.Default()
	Checkpoint CheckpointFunc
}

// Run fetches the pages planned for job sequentially and merges them into existing.
// On failure it returns the data accumulated so far together with the error.
func Run(ctx context.Context, dp provider.DataProvider, job Job, existing []model.Kline, opts Options) ([]model.Kline, Result, error) {
	started := time.Now()
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	limit := opts.Limit
	if limit <= 0 || limit > DefaultLimit {
		limit = DefaultLimit
	}
	now := time.Now
	if opts.Now != nil {
		now = opts.Now
	}
	heartbeat := opts.Heartbeat
	if heartbeat <= 0 {
		heartbeat = defaultHeartbeat
	}

	queries := Plan(job, now().UTC(), limit)
	res := Result{Queries: len(queries)}
	data := make([]model.Kline, len(existing), len(existing)+estimatedKlines(queries, job.Interval, limit))
	copy(data, existing)

	if len(queries) == 0 {
		logger.Info("nothing to fetch", "symbol", job.Symbol, "interval", job.Interval)
		res.Elapsed = time.Since(started)
		return data, res, nil
	}
	logger.Info("crawl start", "provider", dp.Name(), "symbol", job.Symbol, "interval", job.Interval,
		"pages", len(queries), "existing", len(existing))

	state := &progress{total: len(queries)}
	hbCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go runHeartbeat(hbCtx, heartbeat, state, started, logger)

	for i, q := range queries {
		w := Window{Start: q.Start, End: q.End}
		if err := ctx.Err(); err != nil {
			return data, failed(res, w, err, started), err
		}

		page, err := dp.Klines(ctx, q)
		if err != nil {
			err = fmt.Errorf("page %d/%d %s: %w", i+1, len(queries), w, err)
			return data, failed(res, w, err, started), err
		}

		before := len(data)
		data = model.Merge(data, page)
		added := len(data) - before
		res.Pages = state.page(len(page), added)
		res.Received += len(page)
		res.Added += added
		logProgress(logger, opts.Verbose, i+1, len(queries), w, len(page))

		if opts.Checkpoint != nil && i < len(queries)-1 {
			if err := opts.Checkpoint(data); err != nil {
				logger.Warn("checkpoint failed", "page", i+1, "error", err)
			}
		}
	}

	res.Elapsed = time.Since(started)
	return data, res, nil
}

func failed(res Result, w Window, err error, started time.Time) Result {
	res.Failed = &w
	res.Reason = err.Error()
	res.Elapsed = time.Since(started)
	return res
}
