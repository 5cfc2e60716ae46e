//go:build wireinject
// +build wireinject

package main

import (
	"download-ticks/internal/app"
	"download-ticks/internal/provider"

	"github.com/google/wire"
)

// InitializeApp builds App (Config + DataProvider) via Wire.
// Caller must call a.DP.Close() when done.
func InitializeApp(overrides app.Overrides) (*App, error) {
	wire.Build(
		app.ProvideConfig,
		app.ProvideBinanceProvider,
		wire.Bind(new(provider.DataProvider), new(*provider.BinanceProvider)),
		wire.Struct(new(App), "Config", "DP"),
	)
	return nil, nil
}
