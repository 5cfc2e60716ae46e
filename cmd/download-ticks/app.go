package main

import (
	"download-ticks/internal/app"
	"download-ticks/internal/provider"
)

// App holds application dependencies built by Wire.
type App struct {
	Config *app.Config
	DP     provider.DataProvider
}
