package ledger

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDefaultRetryPolicy(t *testing.T) {
	p := DefaultRetryPolicy()

	assert.Equal(t, uint(4), p.Attempts)
	assert.Equal(t, 500*time.Millisecond, p.Delay)
	assert.Equal(t, 8*time.Second, p.MaxDelay)
}

func TestRetryPolicy_Retrier(t *testing.T) {
	p := RetryPolicy{Attempts: 3, Delay: time.Millisecond, MaxDelay: time.Millisecond}

	t.Run("retries transient faults up to the ceiling", func(t *testing.T) {
		calls := 0
		err := p.Retrier(t.Context(), "eth_blockNumber").Execute(t.Context(), func() error {
			calls++
			return fmt.Errorf("eth_blockNumber: %w", ErrRateLimited)
		})

		assert.ErrorIs(t, err, ErrRateLimited)
		assert.Equal(t, 3, calls)
	})

	t.Run("does not retry fatal faults", func(t *testing.T) {
		calls := 0
		err := p.Retrier(t.Context(), "eth_getBalance").Execute(t.Context(), func() error {
			calls++
			return ErrInvalidInput
		})

		assert.ErrorIs(t, err, ErrInvalidInput)
		assert.Equal(t, 1, calls)
	})

	t.Run("does not retry absent blocks", func(t *testing.T) {
		calls := 0
		err := p.Retrier(t.Context(), "eth_getBlockByNumber").Execute(t.Context(), func() error {
			calls++
			return ErrBlockNotFound
		})

		assert.ErrorIs(t, err, ErrBlockNotFound)
		assert.Equal(t, 1, calls)
	})
}
