package app

import (
	"log/slog"

	"download-ticks/internal/provider"
)

// ProvideConfig loads config from environment and CLI overrides (for Wire).
func ProvideConfig(o Overrides) (*Config, error) {
	return LoadConfig(o)
}

// ProvideBinanceProvider creates BinanceProvider from config (for Wire).
// Caller must call dp.Close() when shutting down.
func ProvideBinanceProvider(cfg *Config) (*provider.BinanceProvider, error) {
	p, err := CreateProvider(cfg)
	if err != nil {
		return nil, err
	}
	bp, ok := p.(*provider.BinanceProvider)
	if !ok {
		p.Close()
		return nil, errUnexpectedProvider(p)
	}
	slog.Debug("wire", "provider", bp.Name(), "base_url", cfg.BinanceBaseURL, "retry", cfg.RetryCount)
	return bp, nil
}
