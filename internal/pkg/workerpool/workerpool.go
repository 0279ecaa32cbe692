// Package workerpool runs a function over a batch of items with bounded
// parallelism while keeping results in input order.
package workerpool

import (
	"context"
	"sync"
)

type task[T any] struct {
	index int
	item  T
}

// Map applies fn to every item using at most workers goroutines and returns the
// outputs indexed like items. Dispatch stops once ctx is done; in that case the
// outputs of undispatched items are left as zero values and ctx.Err() is returned.
// Items already handed to a worker always run to completion.
func Map[T, R any](ctx context.Context, workers int, items []T, fn func(context.Context, T) R) ([]R, error) {
	results := make([]R, len(items))
	if len(items) == 0 {
		return results, nil
	}

	workers = max(1, min(workers, len(items)))

	tasks := make(chan task[T])
	wg := sync.WaitGroup{}
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for t := range tasks {
				results[t.index] = fn(ctx, t.item)
			}
		}()
	}

	var dispatchErr error
	for i, item := range items {
		if !send(ctx, tasks, task[T]{index: i, item: item}) {
			dispatchErr = ctx.Err()
			break
		}
	}
	close(tasks)
	wg.Wait()

	return results, dispatchErr
}

// send delivers data on ch unless ctx is done first.
func send[T any](ctx context.Context, ch chan<- T, data T) bool {
	if ctx.Err() != nil {
		return false
	}

	select {
	case <-ctx.Done():
		return false
	case ch <- data:
		return true
	}
}
