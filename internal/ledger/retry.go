package ledger

import (
	"context"
	"time"

	"github.com/gabapcia/blockscan/internal/pkg/logger"
	"github.com/gabapcia/blockscan/internal/pkg/resilience/retry"
)

// RetryPolicy bounds how a single provider request is retried.
type RetryPolicy struct {
	Attempts uint          // ceiling including the first attempt
	Delay    time.Duration // first backoff delay, doubled on every retry
	MaxDelay time.Duration // cap on the backoff delay
}

// DefaultRetryPolicy is 4 attempts with backoff from 500ms up to 8s.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		Attempts: 4,
		Delay:    500 * time.Millisecond,
		MaxDelay: 8 * time.Second,
	}
}

// Retrier builds a retry.Retry that only retries transient faults and logs each
// retry of operation at debug level.
func (p RetryPolicy) Retrier(ctx context.Context, operation string) retry.Retry {
	return retry.New(
		retry.WithAttempts(p.Attempts),
		retry.WithDelay(p.Delay),
		retry.WithMaxDelay(p.MaxDelay),
		retry.WithRetryIf(IsTransient),
		retry.WithOnRetry(func(attempt uint, err error) {
			logger.Debug(ctx, "retrying provider request", "operation", operation, "attempt", attempt+1, "error", err)
		}),
	)
}
