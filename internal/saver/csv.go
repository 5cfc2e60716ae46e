package saver

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"download-ticks/internal/model"
)

var csvHeader = []string{
	"open_time", "open", "high", "low", "close", "volume", "close_time",
	"quote_asset_volume", "number_of_trades", "taker_buy_base_volume", "taker_buy_quote_volume", "ignore",
}

// CSVSaver saves klines as CSV with a header row; timestamps in Unix milliseconds.
type CSVSaver struct{}

func (CSVSaver) Extension() string { return "csv" }

func (CSVSaver) Save(klines []model.Kline, path string) error {
	return writeAtomic(path, func(out io.Writer) error {
		w := csv.NewWriter(out)
		if err := w.Write(csvHeader); err != nil {
			return err
		}
		for _, k := range klines {
			if err := w.Write([]string{
				strconv.FormatInt(k.OpenTime.UnixMilli(), 10),
				floatStr(k.Open),
				floatStr(k.High),
				floatStr(k.Low),
				floatStr(k.Close),
				floatStr(k.Volume),
				strconv.FormatInt(k.CloseTime.UnixMilli(), 10),
				floatStr(k.QuoteAssetVolume),
				strconv.FormatInt(k.NumberOfTrades, 10),
				floatStr(k.TakerBuyBaseVolume),
				floatStr(k.TakerBuyQuoteVolume),
				strconv.FormatInt(k.Ignore, 10),
			}); err != nil {
				return err
			}
		}
		w.Flush()
		return w.Error()
	})
}

func (CSVSaver) Load(path string) ([]model.Kline, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = len(csvHeader)
	if _, err := r.Read(); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("read CSV header %s: %w", path, err)
	}

	var klines []model.Kline
	for line := 2; ; line++ {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read CSV %s: %w", path, err)
		}
		k, err := parseCSVRecord(rec)
		if err != nil {
			return nil, fmt.Errorf("%s line %d: %w", path, line, err)
		}
		klines = append(klines, k)
	}
	return klines, nil
}

func parseCSVRecord(rec []string) (model.Kline, error) {
	var k model.Kline
	ints := make([]int64, len(rec))
	floats := make([]float64, len(rec))
	for i, s := range rec {
		switch i {
		case 0, 6, 8, 11:
			v, err := strconv.ParseInt(s, 10, 64)
			if err != nil {
				return k, fmt.Errorf("column %s: %w", csvHeader[i], err)
			}
			ints[i] = v
		default:
			v, err := strconv.ParseFloat(s, 64)
			if err != nil {
				return k, fmt.Errorf("column %s: %w", csvHeader[i], err)
			}
			floats[i] = v
		}
	}
	k = model.Kline{
		OpenTime:            time.UnixMilli(ints[0]).UTC(),
		Open:                floats[1],
		High:                floats[2],
		Low:                 floats[3],
		Close:               floats[4],
		Volume:              floats[5],
		CloseTime:           time.UnixMilli(ints[6]).UTC(),
		QuoteAssetVolume:    floats[7],
		NumberOfTrades:      ints[8],
		TakerBuyBaseVolume:  floats[9],
		TakerBuyQuoteVolume: floats[10],
		Ignore:              ints[11],
	}
	return k, nil
}

func floatStr(f float64) string { return strconv.FormatFloat(f, 'f', -1, 64) }
