package crawl

import (
	"time"

	"download-ticks/internal/model"
	"download-ticks/internal/provider"
)

// maxPrealloc caps the up-front capacity of the result slice (~100k candles, ~13MB).
// Longer runs grow it by append.
const maxPrealloc = 100_000

// Job represents one crawl unit (symbol + interval + optional date range).
// A zero From or To leaves that bound unset.
type Job struct {
	Symbol   string
	Interval model.Interval
	From     time.Time
	To       time.Time
}

// Window is an inclusive range of candle open times fetched by one request.
type Window struct {
	Start time.Time
	End   time.Time
}

func (w Window) String() string {
	return fmtBound(w.Start) + ".." + fmtBound(w.End)
}

func fmtBound(t time.Time) string {
	if t.IsZero() {
		return "*"
	}
	return t.UTC().Format(time.RFC3339)
}

// SplitRange splits [start, end] into windows of at most limit candles.
// start is aligned up to the first open time; windows are contiguous and never overlap.
func SplitRange(start, end time.Time, iv model.Interval, limit int) []Window {
	if limit < 1 {
		limit = 1
	}
	s := iv.Ceil(start.UTC())
	end = end.UTC()
	if s.After(end) {
		return nil
	}

	var windows []Window
	for !s.After(end) {
		e := iv.Add(s, limit-1)
		if e.After(end) {
			e = end
		}
		windows = append(windows, Window{Start: s, End: e})
		s = iv.Add(s, limit)
	}
	return windows
}

// Plan turns job into the ordered list of page queries.
//   - From and To: one query per window.
//   - From only: To is now.
//   - To only: one query for the latest limit candles up to To.
//   - Neither: one query for the latest limit candles.
func Plan(job Job, now time.Time, limit int) []provider.Query {
	base := provider.Query{Symbol: job.Symbol, Interval: job.Interval, Limit: limit}

	if job.From.IsZero() {
		q := base
		q.End = job.To
		return []provider.Query{q}
	}

	to := job.To
	if to.IsZero() {
		to = now
	}
	windows := SplitRange(job.From, to, job.Interval, limit)
	queries := make([]provider.Query, len(windows))
	for i, w := range windows {
		q := base
		q.Start, q.End = w.Start, w.End
		queries[i] = q
	}
	return queries
}

// estimatedKlines returns pre-alloc capacity for the planned queries.
func estimatedKlines(queries []provider.Query, iv model.Interval, limit int) int {
	n := 0
	for _, q := range queries {
		if q.Start.IsZero() || q.End.IsZero() {
			n += limit
			continue
		}
		if w := iv.Width(); w > 0 {
			n += int(q.End.Sub(q.Start)/w) + 1
		} else {
			n += limit
		}
	}
	if n > maxPrealloc {
		n = maxPrealloc
	}
	return n
}
