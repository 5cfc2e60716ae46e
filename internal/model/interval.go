package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrUnknownInterval is returned by ParseInterval for values outside the supported set.
var ErrUnknownInterval = errors.New("unknown interval")

// Interval is a candle width in exchange notation (1m, 1h, 1M, ...).
type Interval string

const (
	Interval1s  Interval = "1s"
	Interval1m  Interval = "1m"
	Interval3m  Interval = "3m"
	Interval5m  Interval = "5m"
	Interval15m Interval = "15m"
	Interval30m Interval = "30m"
	Interval1h  Interval = "1h"
	Interval2h  Interval = "2h"
	Interval4h  Interval = "4h"
	Interval6h  Interval = "6h"
	Interval8h  Interval = "8h"
	Interval12h Interval = "12h"
	Interval1d  Interval = "1d"
	Interval3d  Interval = "3d"
	Interval1w  Interval = "1w"
	Interval1M  Interval = "1M"
)

const day = 24 * time.Hour

// intervalInfo describes one interval. months > 0 means calendar months, otherwise width is fixed.
type intervalInfo struct {
	alias  string
	width  time.Duration
	months int
	desc   string
}

var intervalTable = map[Interval]intervalInfo{
	Interval1s:  {alias: "s1", width: time.Second, desc: "1 second"},
	Interval1m:  {alias: "m1", width: time.Minute, desc: "1 minute"},
	Interval3m:  {alias: "m3", width: 3 * time.Minute, desc: "3 minutes"},
	Interval5m:  {alias: "m5", width: 5 * time.Minute, desc: "5 minutes"},
	Interval15m: {alias: "m15", width: 15 * time.Minute, desc: "15 minutes"},
	Interval30m: {alias: "m30", width: 30 * time.Minute, desc: "30 minutes"},
	Interval1h:  {alias: "h1", width: time.Hour, desc: "1 hour"},
	Interval2h:  {alias: "h2", width: 2 * time.Hour, desc: "2 hours"},
	Interval4h:  {alias: "h4", width: 4 * time.Hour, desc: "4 hours"},
	Interval6h:  {alias: "h6", width: 6 * time.Hour, desc: "6 hours"},
	Interval8h:  {alias: "h8", width: 8 * time.Hour, desc: "8 hours"},
	Interval12h: {alias: "h12", width: 12 * time.Hour, desc: "12 hours"},
	Interval1d:  {alias: "d1", width: day, desc: "1 day"},
	Interval3d:  {alias: "d3", width: 3 * day, desc: "3 days"},
	Interval1w:  {alias: "w1", width: 7 * day, desc: "1 week"},
	Interval1M:  {alias: "mm1", months: 1, desc: "1 month"},
}

// Intervals lists every supported interval from shortest to longest.
var Intervals = []Interval{
	Interval1s,
	Interval1m, Interval3m, Interval5m, Interval15m, Interval30m,
	Interval1h, Interval2h, Interval4h, Interval6h, Interval8h, Interval12h,
	Interval1d, Interval3d,
	Interval1w,
	Interval1M,
}

// ParseInterval accepts the exchange code ("1m", "1M"; case-sensitive) or the alias ("m1", "mm1"; any case).
func ParseInterval(s string) (Interval, error) {
	s = strings.TrimSpace(s)
	if _, ok := intervalTable[Interval(s)]; ok {
		return Interval(s), nil
	}
	lower := strings.ToLower(s)
	for iv, info := range intervalTable {
		if info.alias == lower {
			return iv, nil
		}
	}
	return "", fmt.Errorf("%w %q", ErrUnknownInterval, s)
}

// String returns the exchange code.
func (iv Interval) String() string { return string(iv) }

// Alias returns the short alias (m1, h1, mm1).
func (iv Interval) Alias() string { return intervalTable[iv].alias }

// Description returns a human readable width, e.g. "15 minutes".
func (iv Interval) Description() string { return intervalTable[iv].desc }

// Valid reports whether iv is a supported interval.
func (iv Interval) Valid() bool {
	_, ok := intervalTable[iv]
	return ok
}

// Width is the fixed candle duration. Zero for calendar-month intervals.
func (iv Interval) Width() time.Duration { return intervalTable[iv].width }

// Next returns the open time of the candle following the one opening at t.
func (iv Interval) Next(t time.Time) time.Time {
	return iv.Add(t, 1)
}

// Add advances t by n candles.
func (iv Interval) Add(t time.Time, n int) time.Time {
	info := intervalTable[iv]
	if info.months > 0 {
		return t.AddDate(0, info.months*n, 0)
	}
	return t.Add(time.Duration(n) * info.width)
}

// Truncate returns the open time of the candle containing t.
// Weeks start on Monday, months on the 1st; other widths are aligned to the Unix epoch.
func (iv Interval) Truncate(t time.Time) time.Time {
	t = t.UTC()
	info := intervalTable[iv]
	switch {
	case info.months > 0:
		return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	case iv == Interval1w:
		d := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
		offset := (int(d.Weekday()) + 6) % 7 // days since Monday
		return d.AddDate(0, 0, -offset)
	case info.width > 0:
		w := info.width.Milliseconds()
		ms := t.UnixMilli()
		r := ms % w
		if r < 0 {
			r += w
		}
		return time.UnixMilli(ms - r).UTC()
	default:
		return t
	}
}

// Ceil returns the first open time at or after t.
func (iv Interval) Ceil(t time.Time) time.Time {
	tr := iv.Truncate(t)
	if tr.Before(t) {
		return iv.Next(tr)
	}
	return tr
}

// Matches reports whether k spans exactly one candle of this interval.
func (iv Interval) Matches(k Kline) bool {
	if !iv.Valid() {
		return false
	}
	return k.CloseTime.Add(time.Millisecond).Equal(iv.Next(k.OpenTime))
}
