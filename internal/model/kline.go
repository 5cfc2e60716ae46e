package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// Kline represents one candlestick as returned by the exchange.
// Serialized as a 12-element JSON array in exchange order; timestamps in Unix milliseconds.
type Kline struct {
	OpenTime            time.Time
	Open                float64
	High                float64
	Low                 float64
	Close               float64
	Volume              float64
	CloseTime           time.Time
	QuoteAssetVolume    float64
	NumberOfTrades      int64
	TakerBuyBaseVolume  float64
	TakerBuyQuoteVolume float64
	Ignore              int64
}

const (
	klineFields    = 12
	klineMinFields = 7
)

// MarshalJSON encodes k as [open_time, open, high, low, close, volume, close_time,
// quote_asset_volume, number_of_trades, taker_buy_base_volume, taker_buy_quote_volume, ignore].
func (k Kline) MarshalJSON() ([]byte, error) {
	return json.Marshal([klineFields]any{
		k.OpenTime.UnixMilli(),
		k.Open,
		k.High,
		k.Low,
		k.Close,
		k.Volume,
		k.CloseTime.UnixMilli(),
		k.QuoteAssetVolume,
		k.NumberOfTrades,
		k.TakerBuyBaseVolume,
		k.TakerBuyQuoteVolume,
		k.Ignore,
	})
}

// UnmarshalJSON decodes a kline row. Numeric fields may be numbers or numeric strings;
// trailing fields after close_time are optional.
func (k *Kline) UnmarshalJSON(data []byte) error {
	var row []json.RawMessage
	if err := json.Unmarshal(data, &row); err != nil {
		return fmt.Errorf("kline row: %w", err)
	}
	if len(row) < klineMinFields {
		return fmt.Errorf("kline row: want at least %d fields, got %d", klineMinFields, len(row))
	}

	var out Kline
	var err error
	floats := []struct {
		idx int
		dst *float64
	}{
		{1, &out.Open}, {2, &out.High}, {3, &out.Low}, {4, &out.Close}, {5, &out.Volume},
		{7, &out.QuoteAssetVolume}, {9, &out.TakerBuyBaseVolume}, {10, &out.TakerBuyQuoteVolume},
	}
	for _, f := range floats {
		if f.idx >= len(row) {
			continue
		}
		if *f.dst, err = parseFloat(row[f.idx]); err != nil {
			return fmt.Errorf("kline field %d: %w", f.idx, err)
		}
	}

	ints := []struct {
		idx int
		dst *int64
	}{
		{8, &out.NumberOfTrades}, {11, &out.Ignore},
	}
	for _, f := range ints {
		if f.idx >= len(row) {
			continue
		}
		v, err := parseFloat(row[f.idx])
		if err != nil {
			return fmt.Errorf("kline field %d: %w", f.idx, err)
		}
		*f.dst = int64(v)
	}

	if out.OpenTime, err = parseTimestamp(row[0]); err != nil {
		return fmt.Errorf("kline open time: %w", err)
	}
	if out.CloseTime, err = parseTimestamp(row[6]); err != nil {
		return fmt.Errorf("kline close time: %w", err)
	}

	*k = out
	return nil
}

// parseFloat accepts 1.5, "1.5" and null (zero).
func parseFloat(raw json.RawMessage) (float64, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return 0, nil
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return 0, err
		}
		if s == "" {
			return 0, nil
		}
		return strconv.ParseFloat(s, 64)
	}
	return strconv.ParseFloat(string(raw), 64)
}

// Magnitude thresholds: ms timestamps stay below 1e14 until year 5138.
const (
	microThreshold = 1e14
	nanoThreshold  = 1e17
)

// parseTimestamp decodes a Unix timestamp in ms, µs or ns, picked by magnitude.
func parseTimestamp(raw json.RawMessage) (time.Time, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) > 0 && raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return time.Time{}, err
		}
		raw = json.RawMessage(s)
	}
	v, err := strconv.ParseInt(string(raw), 10, 64)
	if err != nil {
		f, ferr := strconv.ParseFloat(string(raw), 64)
		if ferr != nil {
			return time.Time{}, err
		}
		v = int64(f)
	}
	switch {
	case v >= nanoThreshold:
		return time.Unix(0, v).UTC(), nil
	case v >= microThreshold:
		return time.UnixMicro(v).UTC(), nil
	default:
		return time.UnixMilli(v).UTC(), nil
	}
}
