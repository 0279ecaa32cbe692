package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Call runs one provider request bounded by timeout. The request context keeps
// ctx values but not its cancellation, so an in-flight call is never cut short by
// the caller; only the timeout ends it. A request that hits the timeout is
// reported as ErrProviderUnavailable. A non-positive timeout disables the bound.
func Call[T any](ctx context.Context, timeout time.Duration, fn func(context.Context) (T, error)) (T, error) {
	callCtx := context.WithoutCancel(ctx)
	if timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(callCtx, timeout)
		defer cancel()
	}

	v, err := fn(callCtx)
	if err != nil && errors.Is(callCtx.Err(), context.DeadlineExceeded) && !IsTransient(err) {
		return v, fmt.Errorf("%w: timed out after %s: %w", ErrProviderUnavailable, timeout, err)
	}

	return v, err
}
