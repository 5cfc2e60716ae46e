package app

import (
	"fmt"
	"strings"

	"download-ticks/internal/provider"
)

// Markets lists the supported market names.
var Markets = []string{"binance"}

// CreateProvider creates DataProvider from config (currently Binance only)
func CreateProvider(cfg *Config) (provider.DataProvider, error) {
	switch strings.ToLower(cfg.Market) {
	case "binance":
		return provider.NewBinanceProvider(cfg.Binance(), nil), nil
	default:
		return nil, fmt.Errorf("unsupported market: %s. Options: %s", cfg.Market, strings.Join(Markets, ", "))
	}
}

func errUnexpectedProvider(p provider.DataProvider) error {
	return fmt.Errorf("expected *provider.BinanceProvider, got %T", p)
}
