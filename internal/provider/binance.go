package provider

import (
	"context"
	"log/slog"

	"download-ticks/internal/model"
	"download-ticks/internal/provider/binance"
)

// BinanceProvider is a DataProvider implementation backed by the Binance spot REST API.
type BinanceProvider struct {
	client *binance.Client
}

// NewBinanceProvider creates a new Binance-backed DataProvider.
func NewBinanceProvider(cfg binance.Config, log *slog.Logger) *BinanceProvider {
	return &BinanceProvider{client: binance.NewClient(cfg, log)}
}

// Name returns provider name
func (p *BinanceProvider) Name() string {
	return "binance"
}

// Klines fetches one page of klines for q.
func (p *BinanceProvider) Klines(ctx context.Context, q Query) ([]model.Kline, error) {
	return p.client.Klines(ctx, binance.KlinesRequest{
		Symbol:    q.Symbol,
		Interval:  q.Interval,
		StartTime: q.Start,
		EndTime:   q.End,
		Limit:     q.Limit,
	})
}

// Close closes connections
func (p *BinanceProvider) Close() error {
	return p.client.Close()
}
