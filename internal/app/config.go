package app

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"download-ticks/internal/provider/binance"
)

// DefaultEnvFile is loaded before reading the environment when present.
const DefaultEnvFile = ".env"

// Config holds application configuration from env
type Config struct {
	LogLevel        string        `envconfig:"LOG_LEVEL" default:"info"`  // debug | info | warn | error
	LogFormat       string        `envconfig:"LOG_FORMAT" default:"text"` // text | json
	Market          string        `envconfig:"MARKET" default:"binance" validate:"required,oneof=binance"`
	BinanceBaseURL  string        `envconfig:"BINANCE_BASE_URL" default:"https://api.binance.com" validate:"required,url"`
	HTTPTimeout     time.Duration `envconfig:"HTTP_TIMEOUT" default:"30s" validate:"gt=0"`
	RetryCount      int           `envconfig:"RETRY_COUNT" default:"3" validate:"min=1,max=20"`
	RetryPause      time.Duration `envconfig:"RETRY_PAUSE" default:"3s" validate:"gte=0"`
	RetryMaxPause   time.Duration `envconfig:"RETRY_MAX_PAUSE" default:"1m" validate:"gte=0"`
	RequestInterval time.Duration `envconfig:"REQUEST_INTERVAL" default:"100ms" validate:"gte=0"`
	PageLimit       int           `envconfig:"PAGE_LIMIT" default:"1000" validate:"min=1,max=1000"`
}

// Overrides are CLI flag values that take precedence over the environment.
// Zero fields leave the environment value in place.
type Overrides struct {
	EnvFile    string
	Market     string
	RetryCount int
}

// LoadConfig loads the optional .env file, reads the environment and applies overrides.
func LoadConfig(o Overrides) (*Config, error) {
	envFile := o.EnvFile
	if envFile == "" {
		envFile = DefaultEnvFile
	}
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load %s: %w", envFile, err)
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("%w: read environment: %w", ErrInvalidConfig, err)
	}
	if o.Market != "" {
		cfg.Market = strings.ToLower(strings.TrimSpace(o.Market))
	}
	if o.RetryCount != 0 {
		cfg.RetryCount = o.RetryCount
	}
	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return &cfg, nil
}

// Binance returns the exchange client settings.
func (c *Config) Binance() binance.Config {
	return binance.Config{
		BaseURL:         c.BinanceBaseURL,
		Timeout:         c.HTTPTimeout,
		RetryCount:      c.RetryCount,
		RetryWait:       c.RetryPause,
		RetryMaxWait:    c.RetryMaxPause,
		RequestInterval: c.RequestInterval,
	}
}
