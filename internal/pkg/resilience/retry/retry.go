// Package retry provides a configurable retry mechanism for provider calls that may fail
// temporarily. It wraps the retry-go package from Avast behind a small interface with
// functional options.
//
// Delays grow exponentially up to a cap, the number of attempts is bounded, and an optional
// classifier decides which errors are worth another attempt. Errors the classifier rejects
// are returned immediately.
//
// Basic usage:
//
//	r := retry.New(
//	    retry.WithAttempts(4),
//	    retry.WithDelay(250*time.Millisecond),
//	    retry.WithRetryIf(ledger.IsTransient),
//	)
//	err := r.Execute(ctx, func() error {
//	    block, err = provider.BlockWithTransactions(ctx, n)
//	    return err
//	})
package retry

import (
	"context"
	"time"

	retry "github.com/avast/retry-go/v4"
)

// Retry executes an operation with bounded, backoff-delayed retries.
type Retry interface {
	// Execute runs operation until it succeeds, the attempt ceiling is reached,
	// the classifier rejects the returned error, or ctx is done.
	//
	// Cancellation is only observed while waiting between attempts; a running
	// attempt is never interrupted by Execute itself. When ctx ends during a wait
	// the context error is returned.
	//
	// The operation should be idempotent.
	Execute(ctx context.Context, operation func() error) error
}

// config holds internal settings for the retry mechanism.
type config struct {
	attempts    uint             // maximum number of attempts, including the first one
	delay       time.Duration    // base delay between attempts
	maxDelay    time.Duration    // cap on the delay between attempts
	lastErrOnly bool             // whether to return only the last error
	retryIf     func(error) bool // decides whether an error is retryable
	onRetry     func(attempt uint, err error)
}

// Option defines a functional option for configuring the retry mechanism.
type Option func(*config)

// retrier implements the Retry interface using the retry-go package.
type retrier struct {
	cfg config
}

// Compile-time assertion that retrier implements Retry interface
var _ Retry = (*retrier)(nil)

// New creates a Retry configured with the provided options.
//
// Default configuration:
//   - attempts:    3 (1 initial attempt + 2 retries)
//   - delay:       1 second
//   - maxDelay:    5 seconds
//   - lastErrOnly: true
//   - retryIf:     every error is retried
func New(opts ...Option) Retry {
	cfg := config{
		attempts:    3,
		delay:       1 * time.Second,
		maxDelay:    5 * time.Second,
		lastErrOnly: true,
		retryIf:     func(error) bool { return true },
		onRetry:     func(uint, error) {},
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	return &retrier{
		cfg: cfg,
	}
}

// Execute implements the Retry interface.
func (r *retrier) Execute(ctx context.Context, operation func() error) error {
	options := []retry.Option{
		retry.Attempts(r.cfg.attempts),
		retry.Delay(r.cfg.delay),
		retry.MaxDelay(r.cfg.maxDelay),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(r.cfg.lastErrOnly),
		retry.RetryIf(r.cfg.retryIf),
		retry.OnRetry(r.cfg.onRetry),
		retry.Context(ctx),
	}

	return retry.Do(operation, options...)
}

// WithAttempts sets the maximum number of attempts (including the initial attempt).
// Zero is treated as one: an unbounded retry loop is never configured.
func WithAttempts(n uint) Option {
	return func(c *config) {
		c.attempts = max(n, 1)
	}
}

// WithDelay sets the base delay between retry attempts.
func WithDelay(d time.Duration) Option {
	return func(c *config) {
		c.delay = d
	}
}

// WithMaxDelay caps the exponential growth of the delay between attempts.
func WithMaxDelay(d time.Duration) Option {
	return func(c *config) {
		c.maxDelay = d
	}
}

// WithLastErrorOnly sets whether to return only the last error.
// When false, all attempt errors are combined into a retry-go error list.
func WithLastErrorOnly(b bool) Option {
	return func(c *config) {
		c.lastErrOnly = b
	}
}

// WithRetryIf installs a classifier; errors for which f returns false stop the
// retry loop and are returned as-is.
func WithRetryIf(f func(error) bool) Option {
	return func(c *config) {
		c.retryIf = f
	}
}

// WithOnRetry registers a callback invoked after each failed, retryable attempt.
// attempt is zero-based.
func WithOnRetry(f func(attempt uint, err error)) Option {
	return func(c *config) {
		c.onRetry = f
	}
}
