package walletquery

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/gabapcia/blockscan/internal/blocktime"
	"github.com/gabapcia/blockscan/internal/ledger"
	"github.com/gabapcia/blockscan/internal/pkg/logger"
	"github.com/gabapcia/blockscan/internal/pkg/telemetry"
	"github.com/gabapcia/blockscan/internal/pkg/validator"
	"github.com/gabapcia/blockscan/internal/txscan"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// DefaultScanWindow is how many blocks before the end bound a scan covers when
// no start block is given.
const DefaultScanWindow = 10_000

type service struct {
	ledger   ledger.Ledger
	scanner  txscan.Scanner
	resolver blocktime.Resolver
	cfg      config
}

var _ Service = (*service)(nil)

func (s *service) currentHeight(ctx context.Context) (uint64, error) {
	var height uint64
	err := s.cfg.retry.Retrier(ctx, "current_height").Execute(ctx, func() error {
		h, err := ledger.Call(ctx, s.cfg.fetchTimeout, s.ledger.CurrentHeight)
		if err != nil {
			return err
		}

		height = h
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("fetch current height: %w", err)
	}

	return height, nil
}

func (s *service) balance(ctx context.Context, address string, block uint64) (*big.Int, error) {
	var wei *big.Int
	err := s.cfg.retry.Retrier(ctx, "balance").Execute(ctx, func() error {
		v, err := ledger.Call(ctx, s.cfg.fetchTimeout, func(callCtx context.Context) (*big.Int, error) {
			return s.ledger.Balance(callCtx, address, block)
		})
		if err != nil {
			return err
		}

		wei = v
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("fetch balance at block %d: %w", block, err)
	}

	return wei, nil
}

// scanRange resolves the bounds of req against the current height. The end bound
// is clamped to height and the start bound to the genesis block; a start beyond
// the end yields an empty range.
func (s *service) scanRange(req ScanRequest, height uint64) txscan.ScanRange {
	end := height
	if req.EndBlock != nil {
		end = min(*req.EndBlock, height)
	}

	start := s.cfg.genesisBlock
	switch {
	case req.StartBlock != nil:
		start = max(*req.StartBlock, s.cfg.genesisBlock)
	case end >= s.cfg.genesisBlock+s.cfg.scanWindow:
		start = end - s.cfg.scanWindow
	}

	return txscan.ScanRange{StartBlock: start, EndBlock: end}
}

func (s *service) ScanTransactions(ctx context.Context, req ScanRequest) (txscan.Result, error) {
	ctx, span := telemetry.Tracer().Start(ctx, "walletquery.ScanTransactions", trace.WithAttributes(
		attribute.String("address", req.Address),
	))
	defer span.End()

	if err := validator.Validate(req); err != nil {
		return txscan.Result{}, fmt.Errorf("%w: %w", ledger.ErrInvalidInput, err)
	}

	height, err := s.currentHeight(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return txscan.Result{}, err
	}

	r := s.scanRange(req, height)
	logger.Info(ctx, "scanning transactions", "address", req.Address, "start_block", r.StartBlock, "end_block", r.EndBlock, "current_height", height)

	result, err := s.scanner.Scan(ctx, req.Address, r)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return txscan.Result{}, err
	}

	span.SetAttributes(
		attribute.String("status", string(result.Status)),
		attribute.Int("matched", len(result.Transactions)),
	)

	return result, nil
}

func (s *service) BalanceAtDate(ctx context.Context, address string, date time.Time) (Balance, error) {
	day := startOfDay(date)

	ctx, span := telemetry.Tracer().Start(ctx, "walletquery.BalanceAtDate", trace.WithAttributes(
		attribute.String("address", address),
		attribute.String("date", day.Format(DateLayout)),
	))
	defer span.End()

	if err := validateAddress(address); err != nil {
		return Balance{}, err
	}

	height, err := s.currentHeight(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return Balance{}, err
	}

	resolution, err := s.resolver.ResolveAtOrBefore(ctx, day, height)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return Balance{}, err
	}

	wei, err := s.balance(ctx, address, resolution.Block)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return Balance{}, err
	}

	logger.Info(ctx, "balance resolved", "address", address, "date", day.Format(DateLayout), "block", resolution.Block, "confidence", resolution.Confidence)

	balance := Balance{
		Address:    address,
		Block:      resolution.Block,
		Wei:        wei,
		Amount:     ledger.ToDisplayUnit(wei, s.cfg.decimals),
		Confidence: resolution.Confidence,
	}
	if resolution.Timestamp != 0 {
		balance.BlockTimestamp = time.Unix(resolution.Timestamp, 0).UTC()
	}

	return balance, nil
}

type config struct {
	scanWindow   uint64
	genesisBlock uint64
	decimals     int32
	fetchTimeout time.Duration
	retry        ledger.RetryPolicy
}

// Option configures the Service.
type Option func(*config)

// WithScanWindow sets how many blocks a scan covers when no start block is given.
func WithScanWindow(blocks uint64) Option {
	return func(c *config) {
		c.scanWindow = blocks
	}
}

// WithGenesisBlock sets the lowest block number a scan may start at.
func WithGenesisBlock(n uint64) Option {
	return func(c *config) {
		c.genesisBlock = n
	}
}

// WithDecimals sets how many decimals separate the smallest unit from the display unit.
func WithDecimals(decimals int32) Option {
	return func(c *config) {
		c.decimals = decimals
	}
}

// WithFetchTimeout bounds the current-height and balance requests.
func WithFetchTimeout(d time.Duration) Option {
	return func(c *config) {
		c.fetchTimeout = d
	}
}

// WithRetry sets the retry policy of the current-height and balance requests.
func WithRetry(attempts uint, delay, maxDelay time.Duration) Option {
	return func(c *config) {
		c.retry = ledger.RetryPolicy{Attempts: attempts, Delay: delay, MaxDelay: maxDelay}
	}
}

// New composes a Service from a ledger, a range scanner and a block-time resolver.
func New(l ledger.Ledger, scanner txscan.Scanner, resolver blocktime.Resolver, opts ...Option) *service {
	cfg := config{
		scanWindow:   DefaultScanWindow,
		decimals:     18,
		fetchTimeout: 10 * time.Second,
		retry:        ledger.DefaultRetryPolicy(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	return &service{
		ledger:   l,
		scanner:  scanner,
		resolver: resolver,
		cfg:      cfg,
	}
}
