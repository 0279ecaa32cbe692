package main

import (
	"time"

	"github.com/gabapcia/blockscan/internal/pkg/validator"

	"github.com/kelseyhightower/envconfig"
)

const envPrefix = "BLOCKSCAN"

type config struct {
	Network          string `default:"ethereum" validate:"required"`
	ProviderEndpoint string `split_words:"true" required:"true" validate:"required,url"`
	RateLimit        int    `split_words:"true" default:"0" validate:"gte=0"`

	HTTPTimeout      time.Duration `split_words:"true" default:"15s"`
	HTTPRetryMax     int           `split_words:"true" default:"0" validate:"gte=0"`
	HTTPRetryWaitMin time.Duration `split_words:"true" default:"200ms"`
	HTTPRetryWaitMax time.Duration `split_words:"true" default:"2s"`

	FetchTimeout  time.Duration `split_words:"true" default:"10s" validate:"gt=0"`
	RetryAttempts uint          `split_words:"true" default:"4" validate:"gte=1"`
	RetryDelay    time.Duration `split_words:"true" default:"500ms"`
	RetryMaxDelay time.Duration `split_words:"true" default:"8s"`

	ScanConcurrency int           `split_words:"true" default:"4" validate:"gte=1,lte=64"`
	ScanTimeout     time.Duration `split_words:"true" default:"0s"`
	ScanWindow      uint64        `split_words:"true" default:"10000" validate:"gte=1"`
	Decimals        int32         `default:"18" validate:"gte=0,lte=36"`
	EarliestBlock   uint64        `split_words:"true" default:"1"`

	LogLevel string `split_words:"true" default:"info" validate:"oneof=debug info warn error"`

	TelemetryEnabled bool   `split_words:"true" default:"false"`
	ServiceName      string `split_words:"true" default:"blockscan"`
	MetricsAddr      string `split_words:"true"`

	RedisAddr     string        `split_words:"true"`
	RedisUsername string        `split_words:"true"`
	RedisPassword string        `split_words:"true"`
	RedisDB       int           `split_words:"true" default:"0" validate:"gte=0"`
	RedisCacheTTL time.Duration `split_words:"true" default:"0s"`
}

// loadConfig reads BLOCKSCAN_* environment variables and validates them.
func loadConfig() (config, error) {
	var cfg config
	if err := envconfig.Process(envPrefix, &cfg); err != nil {
		return config{}, err
	}

	if err := validator.Validate(cfg); err != nil {
		return config{}, err
	}

	return cfg, nil
}
