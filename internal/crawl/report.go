package crawl

import (
	"log/slog"
	"time"
)

// Result summarizes one Run.
type Result struct {
	Queries  int // planned page requests
	Pages    int // pages fetched successfully
	Received int // klines returned by the exchange
	Added    int // net growth of the data set after merging
	Elapsed  time.Duration
	Failed   *Window // window of the failed request, nil on success
	Reason   string  // failure reason
}

// OK reports whether every planned query succeeded.
func (r Result) OK() bool { return r.Failed == nil && r.Pages == r.Queries }

// LogSummary writes the run summary to logger.
func (r Result) LogSummary(logger *slog.Logger) {
	args := []any{
		"queries", r.Queries,
		"pages", r.Pages,
		"received", r.Received,
		"added", r.Added,
		"elapsed", r.Elapsed.Round(time.Millisecond),
	}
	if r.OK() {
		logger.Info("crawl done", args...)
		return
	}
	if r.Failed != nil {
		args = append(args, "failed_window", r.Failed.String(), "reason", r.Reason)
	}
	logger.Warn("crawl stopped", args...)
}
