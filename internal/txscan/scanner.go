package txscan

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gabapcia/blockscan/internal/ledger"
	"github.com/gabapcia/blockscan/internal/metrics"
	"github.com/gabapcia/blockscan/internal/pkg/logger"
	"github.com/gabapcia/blockscan/internal/pkg/resilience/retry"
	"github.com/gabapcia/blockscan/internal/pkg/telemetry"
	"github.com/gabapcia/blockscan/internal/pkg/workerpool"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// ErrAllFetchesFailed is returned when no block of a non-empty range could be
// fetched. It always comes wrapped together with ledger.ErrProviderUnavailable.
var ErrAllFetchesFailed = errors.New("every block fetch failed")

type scanner struct {
	ledger  ledger.Ledger
	cfg     config
	metrics *metrics.Scanner
}

var _ Scanner = (*scanner)(nil)

// fetchOutcome is what a single block fetch produced after retries.
type fetchOutcome struct {
	block ledger.Block
	err   error
}

func matches(address string, tx ledger.Transaction) bool {
	if strings.EqualFold(tx.From, address) {
		return true
	}
	return tx.To != "" && strings.EqualFold(tx.To, address)
}

func isCancellation(ctx context.Context, err error) bool {
	return ctx.Err() != nil && (errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded))
}

// fetch retrieves one block, retrying transient faults. Each attempt runs on a
// context detached from ctx and bounded by the fetch timeout; ctx cancellation is
// only observed while waiting between attempts.
func (s *scanner) fetch(ctx context.Context, r retry.Retry, number uint64) fetchOutcome {
	var block ledger.Block
	err := r.Execute(ctx, func() error {
		b, err := ledger.Call(ctx, s.cfg.fetchTimeout, func(callCtx context.Context) (ledger.Block, error) {
			return s.ledger.BlockWithTransactions(callCtx, number)
		})
		if err != nil {
			return err
		}

		block = b
		return nil
	})

	return fetchOutcome{block: block, err: err}
}

func (s *scanner) collect(result *Result, address string, number uint64, block ledger.Block) {
	timestamp := block.Time()
	for _, tx := range block.Transactions {
		if !matches(address, tx) {
			continue
		}

		result.Transactions = append(result.Transactions, MatchedTransaction{
			Hash:        tx.Hash,
			From:        tx.From,
			To:          tx.To,
			Value:       ledger.ToDisplayUnit(tx.Value, s.cfg.decimals),
			Wei:         tx.Value,
			BlockNumber: number,
			Timestamp:   timestamp,
		})
	}
}

// window lists the block numbers of the next batch, starting at start and never
// passing end.
func (s *scanner) window(start, end uint64) []uint64 {
	size := uint64(s.cfg.concurrency)
	last := end
	if end-start >= size {
		last = start + size - 1
	}

	numbers := make([]uint64, 0, last-start+1)
	for n := start; ; n++ {
		numbers = append(numbers, n)
		if n == last {
			break
		}
	}

	return numbers
}

func (s *scanner) Scan(ctx context.Context, address string, r ScanRange) (result Result, err error) {
	started := time.Now()

	ctx, span := telemetry.Tracer().Start(ctx, "txscan.Scan", trace.WithAttributes(
		attribute.String("address", address),
		attribute.Int64("start_block", int64(r.StartBlock)),
		attribute.Int64("end_block", int64(r.EndBlock)),
	))
	defer func() {
		scanStatus := string(result.Status)
		if err != nil {
			scanStatus = "failed"
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.SetAttributes(attribute.String("status", scanStatus), attribute.Int("matches", len(result.Transactions)))
		span.End()

		s.metrics.ObserveScan(scanStatus, result.ScannedBlocks, len(result.SkippedBlocks), len(result.Transactions), started)
	}()

	if r.IsEmpty() {
		return Result{Status: StatusComplete, NextBlock: r.StartBlock}, nil
	}

	if s.cfg.scanTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.scanTimeout)
		defer cancel()
	}

	ctx = logger.Derive(ctx, "address", address, "start_block", r.StartBlock, "end_block", r.EndBlock)
	rt := s.cfg.retry.Retrier(ctx, "block_with_transactions")

	result = Result{Status: StatusComplete}

	var (
		cancelled bool
		next      = r.StartBlock
	)

scan:
	for {
		if ctx.Err() != nil {
			cancelled = true
			break
		}

		numbers := s.window(next, r.EndBlock)

		// Workers run detached from ctx so an in-flight window always completes;
		// cancellation is honoured by fetch while waiting to retry.
		outcomes, _ := workerpool.Map(context.WithoutCancel(ctx), s.cfg.concurrency, numbers, func(_ context.Context, n uint64) fetchOutcome {
			return s.fetch(ctx, rt, n)
		})

		for i, outcome := range outcomes {
			number := numbers[i]

			switch {
			case outcome.err == nil:
				result.ScannedBlocks++
				s.collect(&result, address, number, outcome.block)

			case errors.Is(outcome.err, ledger.ErrBlockNotFound):
				result.ScannedBlocks++
				logger.Debug(ctx, "block not found, skipping", "block", number)

			case isCancellation(ctx, outcome.err):
				next = number
				cancelled = true
				break scan

			case ledger.IsTransient(outcome.err):
				result.SkippedBlocks = append(result.SkippedBlocks, SkippedBlock{Number: number, Err: outcome.err})
				logger.Warn(ctx, "block skipped after exhausting retries", "block", number, "error", outcome.err)

			default:
				return Result{}, fmt.Errorf("scan block %d: %w", number, outcome.err)
			}
		}

		last := numbers[len(numbers)-1]
		next = last + 1
		if last == r.EndBlock {
			break
		}
	}

	result.NextBlock = next

	switch {
	case cancelled:
		result.Status = StatusCancelled
		logger.Info(ctx, "scan cancelled", "next_block", next, "matches", len(result.Transactions), "reason", context.Cause(ctx))
	case len(result.SkippedBlocks) > 0 && result.ScannedBlocks == 0:
		lastErr := result.SkippedBlocks[len(result.SkippedBlocks)-1].Err
		return Result{}, fmt.Errorf("scan %d..%d: %w: %w: %w", r.StartBlock, r.EndBlock, ErrAllFetchesFailed, ledger.ErrProviderUnavailable, lastErr)
	case len(result.SkippedBlocks) > 0:
		result.Status = StatusPartialDueToFaults
		logger.Warn(ctx, "scan finished with skipped blocks", "skipped", len(result.SkippedBlocks), "matches", len(result.Transactions))
	default:
		logger.Debug(ctx, "scan complete", "scanned", result.ScannedBlocks, "matches", len(result.Transactions))
	}

	return result, nil
}

type config struct {
	fetchTimeout time.Duration
	scanTimeout  time.Duration
	concurrency  int
	decimals     int32
	retry        ledger.RetryPolicy
	network      string
}

// Option configures a Scanner.
type Option func(*config)

// WithFetchTimeout bounds every single block fetch attempt.
func WithFetchTimeout(d time.Duration) Option {
	return func(c *config) {
		c.fetchTimeout = d
	}
}

// WithScanTimeout bounds the wall-clock time of a whole scan. On expiry the scan
// stops as if cancelled. Zero disables the bound.
func WithScanTimeout(d time.Duration) Option {
	return func(c *config) {
		c.scanTimeout = d
	}
}

// WithConcurrency lets up to n consecutive blocks be fetched in parallel.
// Values below one are treated as one.
func WithConcurrency(n int) Option {
	return func(c *config) {
		c.concurrency = max(n, 1)
	}
}

// WithDecimals sets how many decimals separate the smallest unit from the display unit.
func WithDecimals(decimals int32) Option {
	return func(c *config) {
		c.decimals = decimals
	}
}

// WithRetry sets the attempt ceiling and the exponential backoff bounds applied to
// each block fetch.
func WithRetry(attempts uint, delay, maxDelay time.Duration) Option {
	return func(c *config) {
		c.retry = ledger.RetryPolicy{Attempts: attempts, Delay: delay, MaxDelay: maxDelay}
	}
}

// WithNetwork labels the scanner metrics.
func WithNetwork(network string) Option {
	return func(c *config) {
		c.network = network
	}
}

// New creates a Scanner reading blocks from l.
//
// Defaults: sequential fetches, 10s fetch timeout, no scan timeout, 18 decimals,
// 4 attempts per block with backoff from 500ms up to 8s.
func New(l ledger.Ledger, opts ...Option) *scanner {
	cfg := config{
		fetchTimeout: 10 * time.Second,
		concurrency:  1,
		decimals:     18,
		retry:        ledger.DefaultRetryPolicy(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	return &scanner{
		ledger:  l,
		cfg:     cfg,
		metrics: metrics.NewScanner(cfg.network),
	}
}
