package app

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func missingEnvFile(t *testing.T) string {
	return filepath.Join(t.TempDir(), "none.env")
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig(Overrides{EnvFile: missingEnvFile(t)})
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, "binance", cfg.Market)
	assert.Equal(t, "https://api.binance.com", cfg.BinanceBaseURL)
	assert.Equal(t, 30*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, 3, cfg.RetryCount)
	assert.Equal(t, 3*time.Second, cfg.RetryPause)
	assert.Equal(t, time.Minute, cfg.RetryMaxPause)
	assert.Equal(t, 100*time.Millisecond, cfg.RequestInterval)
	assert.Equal(t, 1000, cfg.PageLimit)
}

func TestLoadConfig_EnvAndOverrides(t *testing.T) {
	t.Setenv("RETRY_COUNT", "5")
	t.Setenv("REQUEST_INTERVAL", "250ms")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := LoadConfig(Overrides{EnvFile: missingEnvFile(t)})
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.RetryCount)
	assert.Equal(t, 250*time.Millisecond, cfg.RequestInterval)
	assert.Equal(t, "debug", cfg.LogLevel)

	cfg, err = LoadConfig(Overrides{EnvFile: missingEnvFile(t), RetryCount: 7, Market: " BINANCE "})
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.RetryCount)
	assert.Equal(t, "binance", cfg.Market)
}

func TestLoadConfig_DotEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("PAGE_LIMIT=500\nBINANCE_BASE_URL=http://127.0.0.1:9000\n"), 0o644))
	t.Cleanup(func() {
		os.Unsetenv("PAGE_LIMIT")
		os.Unsetenv("BINANCE_BASE_URL")
	})

	cfg, err := LoadConfig(Overrides{EnvFile: path})
	require.NoError(t, err)
	assert.Equal(t, 500, cfg.PageLimit)
	assert.Equal(t, "http://127.0.0.1:9000", cfg.Binance().BaseURL)
}

func TestLoadConfig_Invalid(t *testing.T) {
	t.Setenv("PAGE_LIMIT", "5000")
	_, err := LoadConfig(Overrides{EnvFile: missingEnvFile(t)})
	assert.ErrorIs(t, err, ErrInvalidConfig)

	t.Setenv("PAGE_LIMIT", "1000")
	_, err = LoadConfig(Overrides{EnvFile: missingEnvFile(t), Market: "kraken"})
	assert.ErrorIs(t, err, ErrInvalidConfig)

	t.Setenv("HTTP_TIMEOUT", "soon")
	_, err = LoadConfig(Overrides{EnvFile: missingEnvFile(t)})
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestCreateProvider(t *testing.T) {
	cfg, err := LoadConfig(Overrides{EnvFile: missingEnvFile(t)})
	require.NoError(t, err)

	dp, err := ProvideBinanceProvider(cfg)
	require.NoError(t, err)
	defer dp.Close()
	assert.Equal(t, "binance", dp.Name())

	cfg.Market = "kraken"
	_, err = CreateProvider(cfg)
	assert.Error(t, err)
}
