package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseInterval(t *testing.T) {
	tests := []struct {
		in      string
		want    Interval
		wantErr bool
	}{
		{in: "1m", want: Interval1m},
		{in: "1M", want: Interval1M},
		{in: "m1", want: Interval1m},
		{in: "M1", want: Interval1m},
		{in: "mm1", want: Interval1M},
		{in: "MM1", want: Interval1M},
		{in: "h12", want: Interval12h},
		{in: " 1d ", want: Interval1d},
		{in: "w1", want: Interval1w},
		{in: "s1", want: Interval1s},
		{in: "7m", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseInterval(tt.in)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrUnknownInterval)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestIntervalsCoverTable(t *testing.T) {
	assert.Len(t, Intervals, len(intervalTable))
	for _, iv := range Intervals {
		assert.True(t, iv.Valid(), iv)
		assert.NotEmpty(t, iv.Alias(), iv)
		assert.NotEmpty(t, iv.Description(), iv)
	}
}

func TestInterval_Add(t *testing.T) {
	base := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, base.Add(1000*time.Minute), Interval1m.Add(base, 1000))
	assert.Equal(t, base.Add(3*24*time.Hour), Interval3d.Next(base))
	assert.Equal(t, time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC), Interval1M.Next(base), "AddDate normalizes Feb 31")

	feb := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), Interval1M.Next(feb))
	assert.Equal(t, time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC), Interval1M.Add(feb, 12))
}

func TestInterval_Truncate(t *testing.T) {
	ts := time.Date(2024, 5, 15, 13, 47, 12, 0, time.UTC) // Wednesday

	tests := []struct {
		iv   Interval
		want time.Time
	}{
		{Interval1m, time.Date(2024, 5, 15, 13, 47, 0, 0, time.UTC)},
		{Interval15m, time.Date(2024, 5, 15, 13, 45, 0, 0, time.UTC)},
		{Interval4h, time.Date(2024, 5, 15, 12, 0, 0, 0, time.UTC)},
		{Interval1d, time.Date(2024, 5, 15, 0, 0, 0, 0, time.UTC)},
		{Interval1w, time.Date(2024, 5, 13, 0, 0, 0, 0, time.UTC)},
		{Interval1M, time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		t.Run(tt.iv.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.iv.Truncate(ts))
		})
	}

	sunday := time.Date(2024, 5, 19, 23, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2024, 5, 13, 0, 0, 0, 0, time.UTC), Interval1w.Truncate(sunday))
}

func TestInterval_Ceil(t *testing.T) {
	aligned := time.Date(2024, 5, 15, 13, 0, 0, 0, time.UTC)
	assert.Equal(t, aligned, Interval1h.Ceil(aligned))
	assert.Equal(t, aligned.Add(time.Hour), Interval1h.Ceil(aligned.Add(30*time.Minute)))
	assert.Equal(t, time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), Interval1M.Ceil(aligned))
}

func TestInterval_Matches(t *testing.T) {
	open := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	k := Kline{OpenTime: open, CloseTime: open.Add(time.Hour - time.Millisecond)}

	assert.True(t, Interval1h.Matches(k))
	assert.False(t, Interval1m.Matches(k))
	assert.False(t, Interval("bogus").Matches(k))

	month := Kline{OpenTime: open, CloseTime: time.Date(2024, 1, 31, 23, 59, 59, 999e6, time.UTC)}
	assert.True(t, Interval1M.Matches(month))
}
