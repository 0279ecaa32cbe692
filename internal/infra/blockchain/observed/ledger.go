// Package observed decorates a ledger.Ledger with Prometheus metrics.
package observed

import (
	"context"
	"math/big"
	"time"

	"github.com/gabapcia/blockscan/internal/ledger"
	"github.com/gabapcia/blockscan/internal/metrics"
)

type observedLedger struct {
	next    ledger.Ledger
	metrics *metrics.LedgerClient
}

var _ ledger.Ledger = (*observedLedger)(nil)

// NewLedger wraps next so every call is counted and timed under network.
func NewLedger(next ledger.Ledger, network string) *observedLedger {
	return &observedLedger{
		next:    next,
		metrics: metrics.NewLedgerClient(network),
	}
}

func (l *observedLedger) CurrentHeight(ctx context.Context) (height uint64, err error) {
	started := time.Now()
	defer func() {
		l.metrics.Observe("current_height", err, started)
	}()
	return l.next.CurrentHeight(ctx)
}

func (l *observedLedger) BlockWithTransactions(ctx context.Context, number uint64) (block ledger.Block, err error) {
	started := time.Now()
	defer func() {
		l.metrics.Observe("block_with_transactions", err, started)
	}()
	return l.next.BlockWithTransactions(ctx, number)
}

func (l *observedLedger) BlockTimestamp(ctx context.Context, number uint64) (ts int64, err error) {
	started := time.Now()
	defer func() {
		l.metrics.Observe("block_timestamp", err, started)
	}()
	return l.next.BlockTimestamp(ctx, number)
}

func (l *observedLedger) Balance(ctx context.Context, address string, atBlock uint64) (balance *big.Int, err error) {
	started := time.Now()
	defer func() {
		l.metrics.Observe("balance", err, started)
	}()
	return l.next.Balance(ctx, address, atBlock)
}
