package main

import (
	"testing"
	"time"

	"github.com/gabapcia/blockscan/internal/pkg/validator"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		t.Setenv("BLOCKSCAN_PROVIDER_ENDPOINT", "https://rpc.example.org")

		cfg, err := loadConfig()
		require.NoError(t, err)

		assert.Equal(t, "ethereum", cfg.Network)
		assert.Equal(t, 0, cfg.RateLimit)
		assert.Equal(t, 0, cfg.HTTPRetryMax, "request retries belong to the ledger retry policy")
		assert.Equal(t, 10*time.Second, cfg.FetchTimeout)
		assert.Equal(t, uint(4), cfg.RetryAttempts)
		assert.Equal(t, 4, cfg.ScanConcurrency)
		assert.Equal(t, uint64(10000), cfg.ScanWindow)
		assert.Equal(t, int32(18), cfg.Decimals)
		assert.Equal(t, uint64(1), cfg.EarliestBlock)
		assert.Equal(t, "info", cfg.LogLevel)
		assert.False(t, cfg.TelemetryEnabled)
		assert.Empty(t, cfg.RedisAddr)
	})

	t.Run("overrides", func(t *testing.T) {
		t.Setenv("BLOCKSCAN_PROVIDER_ENDPOINT", "https://rpc.example.org")
		t.Setenv("BLOCKSCAN_NETWORK", "sepolia")
		t.Setenv("BLOCKSCAN_RATE_LIMIT", "25")
		t.Setenv("BLOCKSCAN_HTTP_RETRY_MAX", "3")
		t.Setenv("BLOCKSCAN_SCAN_CONCURRENCY", "8")
		t.Setenv("BLOCKSCAN_SCAN_TIMEOUT", "2m")
		t.Setenv("BLOCKSCAN_REDIS_ADDR", "localhost:6379")
		t.Setenv("BLOCKSCAN_REDIS_DB", "3")
		t.Setenv("BLOCKSCAN_LOG_LEVEL", "debug")

		cfg, err := loadConfig()
		require.NoError(t, err)

		assert.Equal(t, "sepolia", cfg.Network)
		assert.Equal(t, 25, cfg.RateLimit)
		assert.Equal(t, 3, cfg.HTTPRetryMax)
		assert.Equal(t, 8, cfg.ScanConcurrency)
		assert.Equal(t, 2*time.Minute, cfg.ScanTimeout)
		assert.Equal(t, "localhost:6379", cfg.RedisAddr)
		assert.Equal(t, 3, cfg.RedisDB)
		assert.Equal(t, "debug", cfg.LogLevel)
	})

	t.Run("provider endpoint is required", func(t *testing.T) {
		t.Setenv("BLOCKSCAN_PROVIDER_ENDPOINT", "")

		_, err := loadConfig()
		assert.Error(t, err)
	})

	t.Run("invalid log level", func(t *testing.T) {
		t.Setenv("BLOCKSCAN_PROVIDER_ENDPOINT", "https://rpc.example.org")
		t.Setenv("BLOCKSCAN_LOG_LEVEL", "verbose")

		_, err := loadConfig()
		assert.ErrorIs(t, err, validator.ErrValidationFailed)
	})

	t.Run("concurrency out of bounds", func(t *testing.T) {
		t.Setenv("BLOCKSCAN_PROVIDER_ENDPOINT", "https://rpc.example.org")
		t.Setenv("BLOCKSCAN_SCAN_CONCURRENCY", "0")

		_, err := loadConfig()
		assert.ErrorIs(t, err, validator.ErrValidationFailed)
	})
}
