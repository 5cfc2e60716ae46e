package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"download-ticks/internal/crawl"
	"download-ticks/internal/model"
	"download-ticks/internal/provider"
	"download-ticks/internal/saver"
)

// FetchOptions are the parameters of one fetch run.
type FetchOptions struct {
	Market     string         `validate:"required,oneof=binance"`
	Symbol     string         `validate:"required,alphanum"`
	Interval   model.Interval `validate:"required"`
	From       time.Time      // zero = unset
	To         time.Time      // zero = unset
	OutputFile string
	Format     string `validate:"omitempty,oneof=json csv parquet"`
	Retry      int    `validate:"min=1,max=20"`
	Verbose    bool
	Fresh      bool // ignore existing output file
	PageLimit  int  `validate:"omitempty,min=1,max=1000"`

	// Stdout receives the klines as JSON when OutputFile is empty. Default os.Stdout.
	Stdout io.Writer `validate:"-"`
	// Now is the clock for open-ended ranges. Default time.Now.
	Now func() time.Time `validate:"-"`
}

var validate = validator.New()

// Validate normalizes and checks the options.
func (o *FetchOptions) Validate() error {
	o.Market = strings.ToLower(strings.TrimSpace(o.Market))
	o.Symbol = strings.ToUpper(strings.TrimSpace(o.Symbol))
	o.Format = strings.ToLower(strings.TrimSpace(o.Format))
	if err := validate.Struct(o); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidOptions, err)
	}
	if !o.Interval.Valid() {
		return fmt.Errorf("%w: %w %q", ErrInvalidOptions, model.ErrUnknownInterval, o.Interval)
	}
	if !o.From.IsZero() && !o.To.IsZero() && o.To.Before(o.From) {
		return fmt.Errorf("%w: from %s, to %s", ErrInvalidDateRange,
			o.From.UTC().Format(time.RFC3339), o.To.UTC().Format(time.RFC3339))
	}
	return nil
}

// RunFetch loads previous data, resumes from it, crawls and saves the result.
// Partial data is saved even when the crawl fails; the crawl error is returned.
func RunFetch(ctx context.Context, dp provider.DataProvider, opts FetchOptions) error {
	if err := opts.Validate(); err != nil {
		return err
	}
	logger := slog.Default().With("symbol", opts.Symbol, "interval", opts.Interval)

	var sv saver.Saver
	if opts.OutputFile != "" {
		var err error
		if sv, err = saver.ForPath(opts.OutputFile, opts.Format); err != nil {
			return err
		}
	}

	existing := loadExisting(logger, sv, opts)

	job := crawl.Job{Symbol: opts.Symbol, Interval: opts.Interval, From: opts.From, To: opts.To}
	if len(existing) > 0 {
		last := existing[len(existing)-1]
		if !opts.Interval.Matches(last) {
			return fmt.Errorf("%w: last candle %s..%s in %s is not %s", ErrIntervalMismatch,
				last.OpenTime.Format(time.RFC3339), last.CloseTime.Format(time.RFC3339), opts.OutputFile, opts.Interval)
		}
		if !job.From.IsZero() {
			if resume(logger, &job, last, opts.OutputFile) {
				return nil
			}
		}
	}

	var checkpoint crawl.CheckpointFunc
	if sv != nil {
		checkpoint = func(klines []model.Kline) error {
			return sv.Save(klines, opts.OutputFile)
		}
	}

	data, res, crawlErr := crawl.Run(ctx, dp, job, existing, crawl.Options{
		Limit:      opts.PageLimit,
		Verbose:    opts.Verbose,
		Now:        opts.Now,
		Logger:     logger,
		Checkpoint: checkpoint,
	})
	res.LogSummary(logger)

	if sv == nil {
		if crawlErr != nil {
			return crawlErr
		}
		return saver.WriteJSON(opts.stdout(), data)
	}

	if res.Queries == 0 {
		logger.Info("range holds no candles, nothing to fetch", "file", opts.OutputFile)
		return nil
	}
	if res.Pages == 0 && (crawlErr != nil || len(existing) > 0) {
		return crawlErr
	}
	if err := sv.Save(data, opts.OutputFile); err != nil {
		if crawlErr != nil {
			return errors.Join(crawlErr, fmt.Errorf("save %s: %w", opts.OutputFile, err))
		}
		return fmt.Errorf("save %s: %w", opts.OutputFile, err)
	}
	logger.Info("saved", "file", opts.OutputFile, "format", sv.Extension(), "klines", len(data))
	return crawlErr
}

// resume moves job.From to the last saved candle. It reports true when the
// file already reaches job.To.
func resume(logger *slog.Logger, job *crawl.Job, last model.Kline, file string) bool {
	requested := job.From
	if last.OpenTime.Before(requested) {
		logger.Warn("saved data ends before the requested start, the gap will be fetched",
			"file", file, "last_open", last.OpenTime.Format(time.RFC3339), "requested_from", requested.Format(time.RFC3339))
	}
	if !last.OpenTime.Equal(requested) {
		logger.Info("resuming from last saved candle", "requested_from", requested.Format(time.RFC3339),
			"from", last.OpenTime.Format(time.RFC3339))
		job.From = last.OpenTime
	}
	if !job.To.IsZero() && job.From.After(job.To) {
		logger.Warn("saved data ends after the requested end, nothing to fetch",
			"file", file, "last_open", last.OpenTime.Format(time.RFC3339),
			"requested_from", requested.Format(time.RFC3339), "requested_to", job.To.Format(time.RFC3339))
		return true
	}
	return false
}

// loadExisting reads the previous output. Missing or unreadable files start empty.
func loadExisting(logger *slog.Logger, sv saver.Saver, opts FetchOptions) []model.Kline {
	if sv == nil || opts.Fresh {
		return nil
	}
	existing, err := sv.Load(opts.OutputFile)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		logger.Info("no previous data", "file", opts.OutputFile)
		return nil
	case err != nil:
		logger.Warn("could not read previous data, starting empty", "file", opts.OutputFile, "error", err)
		return nil
	}
	logger.Info("previous data", "file", opts.OutputFile, "klines", len(existing))
	return existing
}

func (o FetchOptions) stdout() io.Writer {
	if o.Stdout != nil {
		return o.Stdout
	}
	return os.Stdout
}
