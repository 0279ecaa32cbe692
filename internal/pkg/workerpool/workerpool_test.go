package workerpool

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMap(t *testing.T) {
	t.Run("keeps input order regardless of completion order", func(t *testing.T) {
		items := []int{5, 4, 3, 2, 1}

		results, err := Map(t.Context(), 5, items, func(_ context.Context, v int) int {
			time.Sleep(time.Duration(v) * time.Millisecond)
			return v * 10
		})

		require.NoError(t, err)
		assert.Equal(t, []int{50, 40, 30, 20, 10}, results)
	})

	t.Run("bounds parallelism", func(t *testing.T) {
		var running, peak int32

		_, err := Map(t.Context(), 2, make([]struct{}, 8), func(_ context.Context, _ struct{}) bool {
			n := atomic.AddInt32(&running, 1)
			for {
				p := atomic.LoadInt32(&peak)
				if n <= p || atomic.CompareAndSwapInt32(&peak, p, n) {
					break
				}
			}
			time.Sleep(2 * time.Millisecond)
			atomic.AddInt32(&running, -1)
			return true
		})

		require.NoError(t, err)
		assert.LessOrEqual(t, atomic.LoadInt32(&peak), int32(2))
	})

	t.Run("non positive worker count runs sequentially", func(t *testing.T) {
		results, err := Map(t.Context(), 0, []string{"a", "b"}, func(_ context.Context, s string) string {
			return s + s
		})

		require.NoError(t, err)
		assert.Equal(t, []string{"aa", "bb"}, results)
	})

	t.Run("empty input", func(t *testing.T) {
		results, err := Map(t.Context(), 4, []int(nil), func(_ context.Context, v int) int { return v })

		require.NoError(t, err)
		assert.Empty(t, results)
	})

	t.Run("cancelled context dispatches nothing", func(t *testing.T) {
		ctx, cancel := context.WithCancel(t.Context())
		cancel()

		var calls int32
		results, err := Map(ctx, 2, []int{1, 2, 3}, func(_ context.Context, v int) int {
			atomic.AddInt32(&calls, 1)
			return v
		})

		assert.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, int32(0), atomic.LoadInt32(&calls))
		assert.Equal(t, []int{0, 0, 0}, results)
	})
}

func TestSend(t *testing.T) {
	t.Run("delivers when a receiver is ready", func(t *testing.T) {
		ch := make(chan int, 1)
		assert.True(t, send(t.Context(), ch, 42))
		assert.Equal(t, 42, <-ch)
	})

	t.Run("gives up when the context is done", func(t *testing.T) {
		ctx, cancel := context.WithCancel(t.Context())
		cancel()

		assert.False(t, send(ctx, make(chan int), 1))
	})
}
