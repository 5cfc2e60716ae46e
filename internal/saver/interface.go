package saver

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"download-ticks/internal/model"
)

// ErrUnsupportedFormat is returned for format names other than json, csv and parquet.
var ErrUnsupportedFormat = errors.New("unsupported format")

// Saver persists a full kline sequence to one file and reads it back.
// The fetch flow only depends on this interface; main picks the implementation.
type Saver interface {
	Save(klines []model.Kline, path string) error
	Load(path string) ([]model.Kline, error)
	Extension() string
}

// Formats lists the accepted format names.
var Formats = []string{"json", "csv", "parquet"}

// New creates implementation by format (json, csv, parquet).
func New(format string) (Saver, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json":
		return JSONSaver{}, nil
	case "csv":
		return CSVSaver{}, nil
	case "parquet":
		return ParquetSaver{}, nil
	default:
		return nil, fmt.Errorf("%w %q (use: %s)", ErrUnsupportedFormat, format, strings.Join(Formats, ", "))
	}
}

// ForPath picks the saver for path: explicit format first, then file extension, then json.
func ForPath(path, format string) (Saver, error) {
	if format != "" {
		return New(format)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return CSVSaver{}, nil
	case ".parquet", ".pq":
		return ParquetSaver{}, nil
	default:
		return JSONSaver{}, nil
	}
}
