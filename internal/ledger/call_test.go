package ledger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCall(t *testing.T) {
	t.Run("returns the value", func(t *testing.T) {
		v, err := Call(t.Context(), time.Second, func(context.Context) (uint64, error) {
			return 42, nil
		})

		require.NoError(t, err)
		assert.Equal(t, uint64(42), v)
	})

	t.Run("timeout is reported as provider unavailable", func(t *testing.T) {
		_, err := Call(t.Context(), 5*time.Millisecond, func(ctx context.Context) (int64, error) {
			<-ctx.Done()
			return 0, ctx.Err()
		})

		assert.ErrorIs(t, err, ErrProviderUnavailable)
		assert.ErrorIs(t, err, context.DeadlineExceeded)
		assert.True(t, IsTransient(err))
	})

	t.Run("caller cancellation does not reach the request", func(t *testing.T) {
		ctx, cancel := context.WithCancel(t.Context())
		cancel()

		v, err := Call(ctx, time.Second, func(ctx context.Context) (string, error) {
			return "done", ctx.Err()
		})

		require.NoError(t, err)
		assert.Equal(t, "done", v)
	})

	t.Run("other errors pass through", func(t *testing.T) {
		boom := errors.New("boom")
		_, err := Call(t.Context(), 0, func(context.Context) (Block, error) {
			return Block{}, boom
		})

		assert.Equal(t, boom, err)
	})
}
