package blocktime

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gabapcia/blockscan/internal/ledger"
	"github.com/gabapcia/blockscan/internal/metrics"
	"github.com/gabapcia/blockscan/internal/pkg/logger"
	"github.com/gabapcia/blockscan/internal/pkg/resilience/retry"
	"github.com/gabapcia/blockscan/internal/pkg/telemetry"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// ErrNoLookupSucceeded is returned when the provider failed every lookup of a search.
// It always comes wrapped together with ledger.ErrProviderUnavailable.
var ErrNoLookupSucceeded = errors.New("no block timestamp could be fetched")

type resolver struct {
	ledger  ledger.Ledger
	cache   TimestampCache
	cfg     config
	metrics *metrics.Resolver
}

var _ Resolver = (*resolver)(nil)

// lookup returns the timestamp of block number, from the cache when possible.
// Cache failures are logged and otherwise ignored.
func (r *resolver) lookup(ctx context.Context, rt retry.Retry, number uint64) (int64, error) {
	ts, found, err := r.cache.Get(ctx, number)
	if err != nil {
		logger.Warn(ctx, "timestamp cache lookup failed", "block", number, "error", err)
	}
	if _, disabled := r.cache.(nopCache); !disabled {
		r.metrics.ObserveCache(found)
	}
	if found {
		return ts, nil
	}

	err = rt.Execute(ctx, func() error {
		v, err := ledger.Call(ctx, r.cfg.fetchTimeout, func(callCtx context.Context) (int64, error) {
			return r.ledger.BlockTimestamp(callCtx, number)
		})
		if err != nil {
			return err
		}

		ts = v
		return nil
	})
	if err != nil {
		return 0, err
	}

	if err := r.cache.Set(ctx, number, ts); err != nil {
		logger.Warn(ctx, "timestamp cache store failed", "block", number, "error", err)
	}

	return ts, nil
}

func (r *resolver) ResolveAtOrBefore(ctx context.Context, target time.Time, currentHeight uint64) (res Resolution, err error) {
	started := time.Now()
	targetTs := target.Unix()

	ctx, span := telemetry.Tracer().Start(ctx, "blocktime.ResolveAtOrBefore", trace.WithAttributes(
		attribute.Int64("target", targetTs),
		attribute.Int64("current_height", int64(currentHeight)),
	))
	defer func() {
		confidence := string(res.Confidence)
		if err != nil {
			confidence = "failed"
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.SetAttributes(
			attribute.Int64("block", int64(res.Block)),
			attribute.String("confidence", confidence),
			attribute.Int("lookups", res.Lookups),
		)
		span.End()

		r.metrics.ObserveResolve(confidence, res.Lookups, started)
	}()

	earliest := r.cfg.earliestBlock
	if currentHeight < earliest {
		return Resolution{}, fmt.Errorf("%w: current height %d is below the earliest block %d", ledger.ErrInvalidInput, currentHeight, earliest)
	}

	ctx = logger.Derive(ctx, "target", targetTs, "current_height", currentHeight)
	rt := r.cfg.retry.Retrier(ctx, "block_timestamp")

	var (
		low, high = earliest, currentHeight
		best      = high
		bestTs    int64
		confirmed bool

		earliestTs    int64
		lookups       int
		succeeded     int
		lookupFailure error
		failedAtBlock uint64
	)

	for low <= high {
		mid := low + (high-low)/2

		ts, err := r.lookup(ctx, rt, mid)
		lookups++
		if err != nil {
			if ctx.Err() != nil {
				return Resolution{}, fmt.Errorf("resolve block at %d: %w", targetTs, err)
			}
			if !ledger.IsTransient(err) && !errors.Is(err, ledger.ErrBlockNotFound) {
				return Resolution{}, fmt.Errorf("look up block %d: %w", mid, err)
			}

			lookupFailure, failedAtBlock = err, mid
			break
		}
		succeeded++

		if mid == earliest {
			earliestTs = ts
		}

		if ts <= targetTs {
			best, bestTs, confirmed = mid, ts, true
			if mid == high {
				break
			}
			low = mid + 1
		} else {
			if mid == low {
				break
			}
			high = mid - 1
		}
	}

	switch {
	case lookupFailure != nil && succeeded == 0:
		return Resolution{}, fmt.Errorf("resolve block at %d: %w: %w: %w", targetTs, ErrNoLookupSucceeded, ledger.ErrProviderUnavailable, lookupFailure)

	case !confirmed:
		// Either nothing at or before target exists, or a lookup failed before any
		// block could be confirmed; the earliest block is the only safe floor.
		res = Resolution{Block: earliest, Timestamp: earliestTs, Confidence: ConfidenceDegraded, Lookups: lookups}
		logger.Warn(ctx, "no block confirmed at or before target", "block", earliest, "lookup_error", lookupFailure)

	case lookupFailure != nil:
		res = Resolution{Block: best, Timestamp: bestTs, Confidence: ConfidenceDegraded, Lookups: lookups}
		logger.Warn(ctx, "lookup failed, returning nearest confirmed block", "block", best, "failed_block", failedAtBlock, "error", lookupFailure)

	default:
		res = Resolution{Block: best, Timestamp: bestTs, Confidence: ConfidenceExact, Lookups: lookups}
		logger.Debug(ctx, "block resolved", "block", best, "lookups", lookups)
	}

	return res, nil
}

type config struct {
	earliestBlock uint64
	fetchTimeout  time.Duration
	retry         ledger.RetryPolicy
	cache         TimestampCache
	network       string
}

// Option configures a Resolver.
type Option func(*config)

// WithEarliestBlock sets the lowest block the search may return.
func WithEarliestBlock(n uint64) Option {
	return func(c *config) {
		c.earliestBlock = n
	}
}

// WithFetchTimeout bounds every single timestamp lookup attempt.
func WithFetchTimeout(d time.Duration) Option {
	return func(c *config) {
		c.fetchTimeout = d
	}
}

// WithRetry sets the attempt ceiling and the exponential backoff bounds applied to
// each lookup.
func WithRetry(attempts uint, delay, maxDelay time.Duration) Option {
	return func(c *config) {
		c.retry = ledger.RetryPolicy{Attempts: attempts, Delay: delay, MaxDelay: maxDelay}
	}
}

// WithCache stores fetched timestamps in cache and consults it before the ledger.
func WithCache(cache TimestampCache) Option {
	return func(c *config) {
		c.cache = cache
	}
}

// WithNetwork labels the resolver metrics.
func WithNetwork(network string) Option {
	return func(c *config) {
		c.network = network
	}
}

// New creates a Resolver probing block timestamps from l.
//
// Defaults: earliest block 1, 10s fetch timeout, 4 attempts per lookup with backoff
// from 500ms up to 8s, no cache.
func New(l ledger.Ledger, opts ...Option) *resolver {
	cfg := config{
		earliestBlock: 1,
		fetchTimeout:  10 * time.Second,
		retry:         ledger.DefaultRetryPolicy(),
		cache:         nopCache{},
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	return &resolver{
		ledger:  l,
		cache:   cfg.cache,
		cfg:     cfg,
		metrics: metrics.NewResolver(cfg.network),
	}
}
