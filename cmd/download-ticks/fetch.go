package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/google/subcommands"

	"download-ticks/internal/app"
	"download-ticks/internal/model"
	"download-ticks/internal/provider/binance"
	"download-ticks/internal/saver"
	"download-ticks/internal/slogx"
)

// initializeApp is the injector used by commands; tests replace it.
var initializeApp = InitializeApp

type fetchCmd struct {
	market     string
	symbol     string
	interval   model.Interval
	from, to   time.Time
	outputFile string
	format     string
	retry      int
	verbose    bool
	fresh      bool
	envFile    string

	stdout io.Writer
}

func (*fetchCmd) Name() string     { return "fetch" }
func (*fetchCmd) Synopsis() string { return "download klines for a symbol and interval" }
func (*fetchCmd) Usage() string {
	return `fetch -s SYMBOL -i INTERVAL [-f FROM] [-t TO] [-o FILE] [flags]:
  Download klines from the exchange. Dates are RFC 3339 in UTC.
  Without --from-date the latest 1000 candles are fetched.
  An existing output file is resumed from its last candle.

  $ download-ticks fetch -s BTCUSDT -i m1 -f 2019-01-01T00:00:00Z -t 2019-03-01T00:00:00Z -o output.json

`
}

func (c *fetchCmd) SetFlags(fs *flag.FlagSet) {
	stringVar(fs, &c.market, "market", "m", "", "market to download from (default $MARKET or binance)")
	stringVar(fs, &c.symbol, "symbol", "s", "", "trading pair symbol, e.g. BTCUSDT (required)")
	valueVar(fs, intervalFlag{&c.interval}, "interval", "i", "candle interval: "+intervalList()+" (required)")
	valueVar(fs, timeFlag{&c.from}, "from-date", "f", "start date, RFC 3339 UTC")
	valueVar(fs, timeFlag{&c.to}, "to-date", "t", "end date, RFC 3339 UTC")
	stringVar(fs, &c.outputFile, "output-file", "o", "", "output file; stdout when empty")
	stringVar(fs, &c.format, "format", "", "", "output format: "+strings.Join(saver.Formats, ", ")+" (default by file extension, else json)")
	intVar(fs, &c.retry, "retry-counter", "r", 0, "attempts per request (default $RETRY_COUNT or 3)")
	boolVar(fs, &c.verbose, "verbose", "v", "log progress of every page")
	boolVar(fs, &c.fresh, "fresh", "", "ignore an existing output file instead of resuming")
	stringVar(fs, &c.envFile, "env-file", "", app.DefaultEnvFile, "optional dotenv file")
}

func (c *fetchCmd) Execute(ctx context.Context, fs *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if fs.NArg() > 0 {
		fmt.Fprintf(os.Stderr, "fetch: unexpected arguments: %s\n", strings.Join(fs.Args(), " "))
		return subcommands.ExitUsageError
	}

	a, err := initializeApp(app.Overrides{EnvFile: c.envFile, Market: c.market, RetryCount: c.retry})
	if err != nil {
		slog.Error("failed to initialize app", "error", err)
		if errors.Is(err, app.ErrInvalidConfig) {
			return subcommands.ExitUsageError
		}
		return subcommands.ExitFailure
	}
	defer a.DP.Close()

	cfg := a.Config
	slog.SetDefault(slogx.NewDefault(cfg.LogLevel, cfg.LogFormat))

	opts := app.FetchOptions{
		Market:     cfg.Market,
		Symbol:     c.symbol,
		Interval:   c.interval,
		From:       c.from,
		To:         c.to,
		OutputFile: c.outputFile,
		Format:     c.format,
		Retry:      cfg.RetryCount,
		Verbose:    c.verbose,
		Fresh:      c.fresh,
		PageLimit:  cfg.PageLimit,
		Stdout:     c.stdout,
	}
	if err := opts.Validate(); err != nil {
		slog.Error("invalid arguments", "error", err)
		return subcommands.ExitUsageError
	}

	slog.Info("using data provider", "provider", a.DP.Name(), "symbol", opts.Symbol, "interval", opts.Interval)
	if err := app.RunFetch(ctx, a.DP, opts); err != nil {
		var apiErr *binance.APIError
		switch {
		case errors.Is(err, context.Canceled):
			slog.Warn("fetch interrupted", "error", err)
		case errors.As(err, &apiErr) && apiErr.Banned():
			slog.Error("fetch failed, IP is banned by the exchange; wait before retrying", "error", err)
		case errors.As(err, &apiErr) && apiErr.RateLimited():
			slog.Error("fetch failed, request rate limit exceeded; raise REQUEST_INTERVAL", "error", err)
		default:
			slog.Error("fetch failed", "error", err)
		}
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

func intervalList() string {
	codes := make([]string, len(model.Intervals))
	for i, iv := range model.Intervals {
		codes[i] = iv.String()
	}
	return strings.Join(codes, ", ")
}
