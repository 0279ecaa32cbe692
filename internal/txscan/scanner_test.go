package txscan

import (
	"context"
	"fmt"
	"math/big"
	"sync"
	"testing"
	"time"

	"github.com/gabapcia/blockscan/internal/ledger"
	ledgertest "github.com/gabapcia/blockscan/internal/ledger/mocks"
	"github.com/gabapcia/blockscan/internal/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const (
	alice = "0xAbC0000000000000000000000000000000000001"
	bob   = "0x000000000000000000000000000000000000b0b0"
	carol = "0x00000000000000000000000000000000000ca401"
)

func init() {
	_ = logger.Init("error")
}

func oneEther() *big.Int {
	v, _ := new(big.Int).SetString("1000000000000000000", 10)
	return v
}

func fastOptions(extra ...Option) []Option {
	return append([]Option{
		WithRetry(3, time.Millisecond, 2*time.Millisecond),
		WithFetchTimeout(time.Second),
	}, extra...)
}

// blockWithMatch builds a block holding a single transaction sent by alice.
func blockWithMatch(number uint64) ledger.Block {
	return ledger.Block{
		Number:    number,
		Timestamp: 1700000000 + int64(number),
		Transactions: []ledger.Transaction{
			{Hash: fmt.Sprintf("0x%x", number), From: alice, To: bob, Value: big.NewInt(int64(number))},
		},
	}
}

func hashes(txs []MatchedTransaction) []string {
	out := make([]string, len(txs))
	for i, tx := range txs {
		out[i] = tx.Hash
	}
	return out
}

func TestScanRange_IsEmpty(t *testing.T) {
	assert.True(t, ScanRange{StartBlock: 11, EndBlock: 10}.IsEmpty())
	assert.False(t, ScanRange{StartBlock: 10, EndBlock: 10}.IsEmpty())
}

func TestScanner_Scan(t *testing.T) {
	t.Run("inverted range is an empty complete scan without fetches", func(t *testing.T) {
		l := ledgertest.NewLedger(t)
		s := New(l, fastOptions()...)

		result, err := s.Scan(t.Context(), alice, ScanRange{StartBlock: 200, EndBlock: 100})

		require.NoError(t, err)
		assert.Equal(t, StatusComplete, result.Status)
		assert.Empty(t, result.Transactions)
		l.AssertNotCalled(t, "BlockWithTransactions", mock.Anything, mock.Anything)
	})

	t.Run("matches sender or recipient case-insensitively", func(t *testing.T) {
		l := ledgertest.NewLedger(t)
		block := ledger.Block{
			Number:    100,
			Timestamp: 1700000000,
			Transactions: []ledger.Transaction{
				{Hash: "0xt1", From: alice, To: bob, Value: oneEther()},
				{Hash: "0xt2", From: carol, To: "0xabc0000000000000000000000000000000000001", Value: big.NewInt(5)},
				{Hash: "0xt3", From: bob, To: carol, Value: big.NewInt(7)},
				{Hash: "0xt4", From: carol, To: "", Value: big.NewInt(0)},
			},
		}
		l.On("BlockWithTransactions", mock.Anything, uint64(100)).Return(block, nil).Once()

		s := New(l, fastOptions()...)
		result, err := s.Scan(t.Context(), "0xABC0000000000000000000000000000000000001", ScanRange{StartBlock: 100, EndBlock: 100})

		require.NoError(t, err)
		assert.Equal(t, StatusComplete, result.Status)
		require.Equal(t, []string{"0xt1", "0xt2"}, hashes(result.Transactions))

		first := result.Transactions[0]
		assert.Equal(t, "1", first.Value.String())
		assert.Equal(t, 0, oneEther().Cmp(first.Wei))
		assert.Equal(t, uint64(100), first.BlockNumber)
		assert.Equal(t, time.Unix(1700000000, 0).UTC(), first.Timestamp)
		assert.Equal(t, result.Transactions[0].Timestamp, result.Transactions[1].Timestamp)

		assert.Equal(t, 1, result.ScannedBlocks)
		assert.Equal(t, uint64(101), result.NextBlock)
	})

	t.Run("keeps block order when fetches complete out of order", func(t *testing.T) {
		l := ledgertest.NewLedger(t)
		l.On("BlockWithTransactions", mock.Anything, mock.Anything).Return(func(_ context.Context, n uint64) (ledger.Block, error) {
			switch n {
			case 100:
				time.Sleep(30 * time.Millisecond)
				return blockWithMatch(n), nil
			case 101:
				return ledger.Block{Number: n, Timestamp: 1700000101}, nil
			default:
				return blockWithMatch(n), nil
			}
		}).Times(3)

		s := New(l, fastOptions(WithConcurrency(3))...)
		result, err := s.Scan(t.Context(), alice, ScanRange{StartBlock: 100, EndBlock: 102})

		require.NoError(t, err)
		assert.Equal(t, StatusComplete, result.Status)
		assert.Equal(t, []string{"0x64", "0x66"}, hashes(result.Transactions))
		assert.Equal(t, 3, result.ScannedBlocks)
	})

	t.Run("concurrency larger than the range", func(t *testing.T) {
		l := ledgertest.NewLedger(t)
		l.On("BlockWithTransactions", mock.Anything, mock.Anything).Return(func(_ context.Context, n uint64) (ledger.Block, error) {
			return blockWithMatch(n), nil
		}).Times(5)

		s := New(l, fastOptions(WithConcurrency(2))...)
		result, err := s.Scan(t.Context(), alice, ScanRange{StartBlock: 1, EndBlock: 5})

		require.NoError(t, err)
		assert.Equal(t, []string{"0x1", "0x2", "0x3", "0x4", "0x5"}, hashes(result.Transactions))
		assert.Equal(t, uint64(6), result.NextBlock)
	})

	t.Run("block failing every retry is skipped and the scan is partial", func(t *testing.T) {
		l := ledgertest.NewLedger(t)
		l.On("BlockWithTransactions", mock.Anything, uint64(104)).Return(blockWithMatch(104), nil).Once()
		l.On("BlockWithTransactions", mock.Anything, uint64(105)).Return(ledger.Block{}, ledger.ErrRateLimited).Times(3)
		l.On("BlockWithTransactions", mock.Anything, uint64(106)).Return(blockWithMatch(106), nil).Once()

		s := New(l, fastOptions()...)
		result, err := s.Scan(t.Context(), alice, ScanRange{StartBlock: 104, EndBlock: 106})

		require.NoError(t, err)
		assert.Equal(t, StatusPartialDueToFaults, result.Status)
		assert.Equal(t, []string{"0x68", "0x6a"}, hashes(result.Transactions))
		require.Len(t, result.SkippedBlocks, 1)
		assert.Equal(t, uint64(105), result.SkippedBlocks[0].Number)
		assert.ErrorIs(t, result.SkippedBlocks[0].Err, ledger.ErrRateLimited)
		assert.Equal(t, 2, result.ScannedBlocks)
	})

	t.Run("transient fault recovered by retry", func(t *testing.T) {
		l := ledgertest.NewLedger(t)
		l.On("BlockWithTransactions", mock.Anything, uint64(7)).Return(ledger.Block{}, ledger.ErrProviderUnavailable).Once()
		l.On("BlockWithTransactions", mock.Anything, uint64(7)).Return(blockWithMatch(7), nil).Once()

		s := New(l, fastOptions()...)
		result, err := s.Scan(t.Context(), alice, ScanRange{StartBlock: 7, EndBlock: 7})

		require.NoError(t, err)
		assert.Equal(t, StatusComplete, result.Status)
		assert.Len(t, result.Transactions, 1)
	})

	t.Run("missing block is skipped silently", func(t *testing.T) {
		l := ledgertest.NewLedger(t)
		l.On("BlockWithTransactions", mock.Anything, uint64(1)).Return(blockWithMatch(1), nil).Once()
		l.On("BlockWithTransactions", mock.Anything, uint64(2)).Return(ledger.Block{}, fmt.Errorf("block 2: %w", ledger.ErrBlockNotFound)).Once()

		s := New(l, fastOptions()...)
		result, err := s.Scan(t.Context(), alice, ScanRange{StartBlock: 1, EndBlock: 2})

		require.NoError(t, err)
		assert.Equal(t, StatusComplete, result.Status)
		assert.Empty(t, result.SkippedBlocks)
		assert.Equal(t, []string{"0x1"}, hashes(result.Transactions))
	})

	t.Run("non retryable fault aborts the scan", func(t *testing.T) {
		l := ledgertest.NewLedger(t)
		l.On("BlockWithTransactions", mock.Anything, uint64(1)).Return(blockWithMatch(1), nil).Once()
		l.On("BlockWithTransactions", mock.Anything, uint64(2)).Return(ledger.Block{}, ledger.ErrInvalidInput).Once()

		s := New(l, fastOptions()...)
		result, err := s.Scan(t.Context(), alice, ScanRange{StartBlock: 1, EndBlock: 3})

		assert.ErrorIs(t, err, ledger.ErrInvalidInput)
		assert.Empty(t, result.Transactions)
		l.AssertNotCalled(t, "BlockWithTransactions", mock.Anything, uint64(3))
	})

	t.Run("every block failing is a hard provider failure", func(t *testing.T) {
		l := ledgertest.NewLedger(t)
		l.On("BlockWithTransactions", mock.Anything, mock.Anything).Return(ledger.Block{}, ledger.ErrProviderUnavailable).Times(6)

		s := New(l, fastOptions()...)
		_, err := s.Scan(t.Context(), alice, ScanRange{StartBlock: 10, EndBlock: 11})

		assert.ErrorIs(t, err, ErrAllFetchesFailed)
		assert.ErrorIs(t, err, ledger.ErrProviderUnavailable)
	})

	t.Run("cancellation after N blocks returns exactly their matches", func(t *testing.T) {
		ctx, cancel := context.WithCancel(t.Context())
		defer cancel()

		l := ledgertest.NewLedger(t)
		l.On("BlockWithTransactions", mock.Anything, mock.Anything).Return(func(_ context.Context, n uint64) (ledger.Block, error) {
			if n == 3 {
				cancel()
			}
			return blockWithMatch(n), nil
		}).Times(3)

		s := New(l, fastOptions()...)
		result, err := s.Scan(ctx, alice, ScanRange{StartBlock: 1, EndBlock: 10})

		require.NoError(t, err)
		assert.Equal(t, StatusCancelled, result.Status)
		assert.Equal(t, []string{"0x1", "0x2", "0x3"}, hashes(result.Transactions))
		assert.Equal(t, uint64(4), result.NextBlock)
		assert.Equal(t, 3, result.ScannedBlocks)
	})

	t.Run("cancellation takes precedence over skipped blocks", func(t *testing.T) {
		ctx, cancel := context.WithCancel(t.Context())
		defer cancel()

		l := ledgertest.NewLedger(t)
		l.On("BlockWithTransactions", mock.Anything, uint64(1)).Return(ledger.Block{}, ledger.ErrProviderUnavailable).Times(3)
		l.On("BlockWithTransactions", mock.Anything, uint64(2)).Return(func(context.Context, uint64) (ledger.Block, error) {
			cancel()
			return blockWithMatch(2), nil
		}).Once()

		s := New(l, fastOptions()...)
		result, err := s.Scan(ctx, alice, ScanRange{StartBlock: 1, EndBlock: 5})

		require.NoError(t, err)
		assert.Equal(t, StatusCancelled, result.Status)
		assert.Len(t, result.SkippedBlocks, 1)
		assert.Equal(t, uint64(3), result.NextBlock)
	})

	t.Run("cancellation while waiting to retry stops at that block", func(t *testing.T) {
		ctx, cancel := context.WithCancel(t.Context())
		defer cancel()

		var once sync.Once
		l := ledgertest.NewLedger(t)
		l.On("BlockWithTransactions", mock.Anything, uint64(1)).Return(blockWithMatch(1), nil).Once()
		l.On("BlockWithTransactions", mock.Anything, uint64(2)).Return(func(context.Context, uint64) (ledger.Block, error) {
			once.Do(func() {
				go func() {
					time.Sleep(20 * time.Millisecond)
					cancel()
				}()
			})
			return ledger.Block{}, ledger.ErrRateLimited
		}).Once()

		s := New(l, WithRetry(3, time.Second, time.Second))
		result, err := s.Scan(ctx, alice, ScanRange{StartBlock: 1, EndBlock: 3})

		require.NoError(t, err)
		assert.Equal(t, StatusCancelled, result.Status)
		assert.Equal(t, uint64(2), result.NextBlock)
		assert.Empty(t, result.SkippedBlocks)
		assert.Equal(t, []string{"0x1"}, hashes(result.Transactions))
	})

	t.Run("scan timeout behaves like cancellation", func(t *testing.T) {
		l := ledgertest.NewLedger(t)
		l.On("BlockWithTransactions", mock.Anything, mock.Anything).Return(func(_ context.Context, n uint64) (ledger.Block, error) {
			time.Sleep(20 * time.Millisecond)
			return blockWithMatch(n), nil
		}).Maybe()

		s := New(l, fastOptions(WithScanTimeout(50*time.Millisecond))...)
		result, err := s.Scan(t.Context(), alice, ScanRange{StartBlock: 1, EndBlock: 50})

		require.NoError(t, err)
		assert.Equal(t, StatusCancelled, result.Status)
		assert.Greater(t, result.NextBlock, uint64(1))
		assert.Less(t, result.NextBlock, uint64(51))
		assert.Len(t, result.Transactions, int(result.NextBlock-1))
	})

	t.Run("custom decimals", func(t *testing.T) {
		l := ledgertest.NewLedger(t)
		l.On("BlockWithTransactions", mock.Anything, uint64(1)).Return(ledger.Block{
			Number:       1,
			Transactions: []ledger.Transaction{{Hash: "0x1", From: alice, Value: big.NewInt(1234500)}},
		}, nil).Once()

		s := New(l, fastOptions(WithDecimals(6))...)
		result, err := s.Scan(t.Context(), alice, ScanRange{StartBlock: 1, EndBlock: 1})

		require.NoError(t, err)
		require.Len(t, result.Transactions, 1)
		assert.Equal(t, "1.2345", result.Transactions[0].Value.String())
	})
}

func TestNew_Defaults(t *testing.T) {
	s := New(ledgertest.NewLedger(t))

	assert.Equal(t, 1, s.cfg.concurrency)
	assert.Equal(t, int32(18), s.cfg.decimals)
	assert.Equal(t, ledger.DefaultRetryPolicy(), s.cfg.retry)
	assert.Equal(t, 10*time.Second, s.cfg.fetchTimeout)
	assert.Zero(t, s.cfg.scanTimeout)

	s = New(ledgertest.NewLedger(t), WithConcurrency(0))
	assert.Equal(t, 1, s.cfg.concurrency)
}

func TestScanner_Window(t *testing.T) {
	s := New(ledgertest.NewLedger(t), WithConcurrency(4))

	assert.Equal(t, []uint64{10, 11, 12, 13}, s.window(10, 100))
	assert.Equal(t, []uint64{98, 99, 100}, s.window(98, 100))
	assert.Equal(t, []uint64{5}, s.window(5, 5))
}
