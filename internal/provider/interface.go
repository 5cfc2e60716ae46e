package provider

import (
	"context"
	"time"

	"download-ticks/internal/model"
)

// Query is one page request. Zero Start or End leaves that bound unset.
type Query struct {
	Symbol   string
	Interval model.Interval
	Start    time.Time
	End      time.Time
	Limit    int
}

// DataProvider is the abstraction used by the application when accessing a data source.
// Implementations own their transport and release it in Close.
type DataProvider interface {
	Name() string
	Klines(ctx context.Context, q Query) ([]model.Kline, error)
	Close() error
}
