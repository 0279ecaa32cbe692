package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gabapcia/blockscan/internal/blocktime"
	"github.com/gabapcia/blockscan/internal/handlers/cli"
	"github.com/gabapcia/blockscan/internal/infra/blockchain/ethereum"
	"github.com/gabapcia/blockscan/internal/infra/blockchain/observed"
	"github.com/gabapcia/blockscan/internal/infra/storage/redis"
	"github.com/gabapcia/blockscan/internal/pkg/logger"
	"github.com/gabapcia/blockscan/internal/pkg/telemetry"
	"github.com/gabapcia/blockscan/internal/pkg/transport/jsonrpc"
	"github.com/gabapcia/blockscan/internal/txscan"
	"github.com/gabapcia/blockscan/internal/walletquery"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

const (
	exitFailure     = 1
	exitInvalidArgs = 2
)

func main() {
	os.Exit(realMain())
}

// realMain wires and runs the command and returns the process exit status.
// Deferred cleanup runs before the status reaches os.Exit.
func realMain() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := loadConfig()
	if err != nil {
		return fail("invalid configuration", err)
	}

	if cfg.TelemetryEnabled {
		shutdown, err := telemetry.Init(ctx, cfg.ServiceName, version)
		if err != nil {
			return fail("init telemetry", err)
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
			defer cancel()
			_ = shutdown(shutdownCtx)
		}()
	}

	if err := logger.Init(cfg.LogLevel, logger.WithOutput(os.Stderr)); err != nil {
		return fail("init logger", err)
	}
	defer func() {
		_ = logger.Sync()
	}()

	if err := run(ctx, cfg); err != nil {
		logger.Error(ctx, "blockscan failed", "error", err)
		return exitFailure
	}

	return 0
}

// fail reports a startup error before the logger exists.
func fail(step string, err error) int {
	fmt.Fprintf(os.Stderr, "blockscan: %s: %v\n", step, err)
	return exitInvalidArgs
}

func run(ctx context.Context, cfg config) error {
	if cfg.MetricsAddr != "" {
		startMetricsServer(ctx, cfg.MetricsAddr)
	}

	conn := jsonrpc.NewClient(cfg.ProviderEndpoint,
		jsonrpc.WithTimeout(cfg.HTTPTimeout),
		jsonrpc.WithRetryMax(cfg.HTTPRetryMax),
		jsonrpc.WithRetryWaitMin(cfg.HTTPRetryWaitMin),
		jsonrpc.WithRetryWaitMax(cfg.HTTPRetryWaitMax),
		jsonrpc.WithRateLimit(cfg.RateLimit),
	)
	l := observed.NewLedger(ethereum.NewClient(conn), cfg.Network)

	resolverOpts := []blocktime.Option{
		blocktime.WithEarliestBlock(cfg.EarliestBlock),
		blocktime.WithFetchTimeout(cfg.FetchTimeout),
		blocktime.WithRetry(cfg.RetryAttempts, cfg.RetryDelay, cfg.RetryMaxDelay),
		blocktime.WithNetwork(cfg.Network),
	}
	if cfg.RedisAddr != "" {
		rdb, err := redis.NewClient(ctx, cfg.RedisAddr,
			redis.WithCredentials(cfg.RedisUsername, cfg.RedisPassword),
			redis.WithDB(cfg.RedisDB),
		)
		if err != nil {
			return err
		}
		defer func() {
			_ = rdb.Close()
		}()

		resolverOpts = append(resolverOpts, blocktime.WithCache(rdb.NewTimestampCache(cfg.Network, cfg.RedisCacheTTL)))
	}

	scanner := txscan.New(l,
		txscan.WithFetchTimeout(cfg.FetchTimeout),
		txscan.WithScanTimeout(cfg.ScanTimeout),
		txscan.WithConcurrency(cfg.ScanConcurrency),
		txscan.WithDecimals(cfg.Decimals),
		txscan.WithRetry(cfg.RetryAttempts, cfg.RetryDelay, cfg.RetryMaxDelay),
		txscan.WithNetwork(cfg.Network),
	)
	resolver := blocktime.New(l, resolverOpts...)

	svc := walletquery.New(l, scanner, resolver,
		walletquery.WithScanWindow(cfg.ScanWindow),
		walletquery.WithDecimals(cfg.Decimals),
		walletquery.WithFetchTimeout(cfg.FetchTimeout),
		walletquery.WithRetry(cfg.RetryAttempts, cfg.RetryDelay, cfg.RetryMaxDelay),
	)

	return cli.Run(logger.Derive(ctx, "network", cfg.Network), svc)
}

func startMetricsServer(ctx context.Context, addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.Info(ctx, "starting metrics server", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error(ctx, "metrics server failed", "error", err)
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error(ctx, "failed to shutdown metrics server", "error", err)
		}
	}()
}
