// Package summary computes statistics over a saved kline sequence.
package summary

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/shopspring/decimal"

	"download-ticks/internal/model"
)

// Gap is a run of missing candles between two consecutive saved ones.
type Gap struct {
	After   time.Time // open time of the candle before the gap
	Before  time.Time // open time of the candle after the gap
	Missing int       // candles missing, -1 when the interval is unknown
}

// Summary describes a kline sequence.
type Summary struct {
	Count       int
	FirstOpen   time.Time
	LastClose   time.Time
	Interval    model.Interval // empty when the first candle matches no interval
	Gaps        []Gap
	Open        decimal.Decimal // open of the first candle
	Close       decimal.Decimal // close of the last candle
	High        decimal.Decimal
	Low         decimal.Decimal
	ChangePct   decimal.Decimal
	Volume      decimal.Decimal
	QuoteVolume decimal.Decimal
	Trades      int64
}

// Summarize computes s over klines, which must be ordered by open time.
func Summarize(klines []model.Kline) Summary {
	var s Summary
	s.Count = len(klines)
	if s.Count == 0 {
		return s
	}
	first, last := klines[0], klines[len(klines)-1]
	s.FirstOpen, s.LastClose = first.OpenTime, last.CloseTime
	s.Interval = inferInterval(first)
	s.Open = decimal.NewFromFloat(first.Open)
	s.Close = decimal.NewFromFloat(last.Close)
	s.High = decimal.NewFromFloat(first.High)
	s.Low = decimal.NewFromFloat(first.Low)

	for i, k := range klines {
		high, low := decimal.NewFromFloat(k.High), decimal.NewFromFloat(k.Low)
		if high.GreaterThan(s.High) {
			s.High = high
		}
		if low.LessThan(s.Low) {
			s.Low = low
		}
		s.Volume = s.Volume.Add(decimal.NewFromFloat(k.Volume))
		s.QuoteVolume = s.QuoteVolume.Add(decimal.NewFromFloat(k.QuoteAssetVolume))
		s.Trades += k.NumberOfTrades

		if i > 0 {
			if g, ok := gapBetween(klines[i-1], k, s.Interval); ok {
				s.Gaps = append(s.Gaps, g)
			}
		}
	}

	if !s.Open.IsZero() {
		s.ChangePct = s.Close.Sub(s.Open).Div(s.Open).Mul(decimal.NewFromInt(100)).Round(4)
	}
	return s
}

func inferInterval(k model.Kline) model.Interval {
	for _, iv := range model.Intervals {
		if iv.Matches(k) {
			return iv
		}
	}
	return ""
}

func gapBetween(prev, next model.Kline, iv model.Interval) (Gap, bool) {
	if iv == "" {
		if next.OpenTime.After(prev.CloseTime.Add(time.Millisecond)) {
			return Gap{After: prev.OpenTime, Before: next.OpenTime, Missing: -1}, true
		}
		return Gap{}, false
	}
	expected := iv.Next(prev.OpenTime)
	if !next.OpenTime.After(expected) {
		return Gap{}, false
	}
	var missing int
	if w := iv.Width(); w > 0 {
		missing = int((next.OpenTime.Sub(expected) + w - 1) / w)
	} else {
		for ts := expected; ts.Before(next.OpenTime); ts = iv.Next(ts) {
			missing++
		}
	}
	return Gap{After: prev.OpenTime, Before: next.OpenTime, Missing: missing}, true
}

// maxListedGaps bounds the gaps printed by Write.
const maxListedGaps = 20

// Write prints s as aligned key/value lines.
func (s Summary) Write(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	row := func(k string, v any) { fmt.Fprintf(tw, "%s\t%v\n", k, v) }

	row("klines", s.Count)
	if s.Count > 0 {
		iv := "unknown"
		if s.Interval != "" {
			iv = fmt.Sprintf("%s (%s)", s.Interval, s.Interval.Description())
		}
		row("interval", iv)
		row("first open", s.FirstOpen.UTC().Format(time.RFC3339))
		row("last close", s.LastClose.UTC().Format(time.RFC3339Nano))
		row("open", s.Open)
		row("close", s.Close)
		row("high", s.High)
		row("low", s.Low)
		row("change", s.ChangePct.StringFixed(2)+"%")
		row("volume", s.Volume)
		row("quote volume", s.QuoteVolume)
		row("trades", s.Trades)
		row("gaps", len(s.Gaps))
		for i, g := range s.Gaps {
			if i == maxListedGaps {
				row("", fmt.Sprintf("... %d more", len(s.Gaps)-maxListedGaps))
				break
			}
			missing := "?"
			if g.Missing >= 0 {
				missing = fmt.Sprint(g.Missing)
			}
			row("", fmt.Sprintf("%s .. %s (%s missing)",
				g.After.UTC().Format(time.RFC3339), g.Before.UTC().Format(time.RFC3339), missing))
		}
	}
	return tw.Flush()
}
