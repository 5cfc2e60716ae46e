package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const binanceRow = `[1499040000000,"0.01634790","0.80000000","0.01575800","0.01577100","148976.11427815",1499644799999,"2434.19055334",308,"1756.87402397","28.46694368","0"]`

func TestKline_UnmarshalBinanceRow(t *testing.T) {
	var k Kline
	require.NoError(t, json.Unmarshal([]byte(binanceRow), &k))

	assert.Equal(t, time.UnixMilli(1499040000000).UTC(), k.OpenTime)
	assert.Equal(t, time.UnixMilli(1499644799999).UTC(), k.CloseTime)
	assert.Equal(t, 0.0163479, k.Open)
	assert.Equal(t, 0.8, k.High)
	assert.Equal(t, 0.015758, k.Low)
	assert.Equal(t, 0.015771, k.Close)
	assert.Equal(t, 148976.11427815, k.Volume)
	assert.Equal(t, 2434.19055334, k.QuoteAssetVolume)
	assert.Equal(t, int64(308), k.NumberOfTrades)
	assert.Equal(t, 1756.87402397, k.TakerBuyBaseVolume)
	assert.Equal(t, 28.46694368, k.TakerBuyQuoteVolume)
	assert.Equal(t, int64(0), k.Ignore)
}

func TestKline_MarshalWritesNumbers(t *testing.T) {
	var k Kline
	require.NoError(t, json.Unmarshal([]byte(binanceRow), &k))

	b, err := json.Marshal(k)
	require.NoError(t, err)
	assert.JSONEq(t, `[1499040000000,0.0163479,0.8,0.015758,0.015771,148976.11427815,1499644799999,2434.19055334,308,1756.87402397,28.46694368,0]`, string(b))

	var back Kline
	require.NoError(t, json.Unmarshal(b, &back))
	assert.Equal(t, k, back)
}

func TestKline_UnmarshalTimestampUnits(t *testing.T) {
	want := time.Date(2019, 1, 1, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		name string
		ts   int64
	}{
		{"milliseconds", want.UnixMilli()},
		{"microseconds", want.UnixMicro()},
		{"nanoseconds", want.UnixNano()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			row, err := json.Marshal([]any{tt.ts, 1, 2, 0.5, 1.5, 10, tt.ts})
			require.NoError(t, err)

			var k Kline
			require.NoError(t, json.Unmarshal(row, &k))
			assert.Equal(t, want, k.OpenTime)
			assert.Equal(t, want, k.CloseTime)
		})
	}
}

func TestKline_UnmarshalShortRowDefaultsTail(t *testing.T) {
	var k Kline
	require.NoError(t, json.Unmarshal([]byte(`[1000,"1","2","0.5","1.5","10",1999]`), &k))
	assert.Equal(t, 1.5, k.Close)
	assert.Zero(t, k.NumberOfTrades)
	assert.Zero(t, k.TakerBuyQuoteVolume)
}

func TestKline_UnmarshalErrors(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"not an array", `{"open":1}`},
		{"too short", `[1,2,3]`},
		{"bad price", `[1000,"abc","2","0.5","1.5","10",1999]`},
		{"bad open time", `[true,"1","2","0.5","1.5","10",1999]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var k Kline
			assert.Error(t, json.Unmarshal([]byte(tt.in), &k))
		})
	}
}
