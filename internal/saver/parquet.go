package saver

import (
	"fmt"
	"io"
	"time"

	"github.com/parquet-go/parquet-go"

	"download-ticks/internal/model"
)

// klineRow is the flat parquet schema of a kline.
type klineRow struct {
	OpenTime            int64   `parquet:"open_time"`
	Open                float64 `parquet:"open"`
	High                float64 `parquet:"high"`
	Low                 float64 `parquet:"low"`
	Close               float64 `parquet:"close"`
	Volume              float64 `parquet:"volume"`
	CloseTime           int64   `parquet:"close_time"`
	QuoteAssetVolume    float64 `parquet:"quote_asset_volume"`
	NumberOfTrades      int64   `parquet:"number_of_trades"`
	TakerBuyBaseVolume  float64 `parquet:"taker_buy_base_volume"`
	TakerBuyQuoteVolume float64 `parquet:"taker_buy_quote_volume"`
	Ignore              int64   `parquet:"ignore"`
}

// ParquetSaver saves klines as a Parquet file.
type ParquetSaver struct{}

func (ParquetSaver) Extension() string { return "parquet" }

func (ParquetSaver) Save(klines []model.Kline, path string) error {
	rows := make([]klineRow, len(klines))
	for i, k := range klines {
		rows[i] = klineRow{
			OpenTime:            k.OpenTime.UnixMilli(),
			Open:                k.Open,
			High:                k.High,
			Low:                 k.Low,
			Close:               k.Close,
			Volume:              k.Volume,
			CloseTime:           k.CloseTime.UnixMilli(),
			QuoteAssetVolume:    k.QuoteAssetVolume,
			NumberOfTrades:      k.NumberOfTrades,
			TakerBuyBaseVolume:  k.TakerBuyBaseVolume,
			TakerBuyQuoteVolume: k.TakerBuyQuoteVolume,
			Ignore:              k.Ignore,
		}
	}
	return writeAtomic(path, func(w io.Writer) error {
		return parquet.Write(w, rows)
	})
}

func (ParquetSaver) Load(path string) ([]model.Kline, error) {
	rows, err := parquet.ReadFile[klineRow](path)
	if err != nil {
		return nil, fmt.Errorf("read parquet %s: %w", path, err)
	}
	klines := make([]model.Kline, len(rows))
	for i, r := range rows {
		klines[i] = model.Kline{
			OpenTime:            time.UnixMilli(r.OpenTime).UTC(),
			Open:                r.Open,
			High:                r.High,
			Low:                 r.Low,
			Close:               r.Close,
			Volume:              r.Volume,
			CloseTime:           time.UnixMilli(r.CloseTime).UTC(),
			QuoteAssetVolume:    r.QuoteAssetVolume,
			NumberOfTrades:      r.NumberOfTrades,
			TakerBuyBaseVolume:  r.TakerBuyBaseVolume,
			TakerBuyQuoteVolume: r.TakerBuyQuoteVolume,
			Ignore:              r.Ignore,
		}
	}
	return klines, nil
}
