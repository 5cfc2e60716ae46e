package saver

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"download-ticks/internal/model"
)

// JSONSaver saves klines as a JSON array of exchange-style rows, one row per line.
type JSONSaver struct{}

func (JSONSaver) Extension() string { return "json" }

func (JSONSaver) Save(klines []model.Kline, path string) error {
	return writeAtomic(path, func(w io.Writer) error {
		return WriteJSON(w, klines)
	})
}

func (JSONSaver) Load(path string) ([]model.Kline, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	var klines []model.Kline
	if err := json.NewDecoder(bufio.NewReader(f)).Decode(&klines); err != nil {
		return nil, fmt.Errorf("parse JSON %s: %w", path, err)
	}
	return klines, nil
}

// WriteJSON writes klines as a JSON array with one row per line.
func WriteJSON(w io.Writer, klines []model.Kline) error {
	if len(klines) == 0 {
		_, err := io.WriteString(w, "[]\n")
		return err
	}
	if _, err := io.WriteString(w, "[\n"); err != nil {
		return err
	}
	for i, k := range klines {
		row, err := json.Marshal(k)
		if err != nil {
			return fmt.Errorf("encode kline %d: %w", i, err)
		}
		if _, err := w.Write(row); err != nil {
			return err
		}
		sep := ",\n"
		if i == len(klines)-1 {
			sep = "\n"
		}
		if _, err := io.WriteString(w, sep); err != nil {
			return err
		}
	}
	_, err := io.WriteString(w, "]\n")
	return err
}
