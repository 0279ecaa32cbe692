// Package blocktime finds the latest block produced at or before a point in time.
//
// The search is a binary search over block numbers and relies on block timestamps
// being non-decreasing in block number. Ledgers do not all guarantee this: some
// chains allow small timestamp inversions between neighbouring blocks, and the
// result near such an inversion may be off by the width of the inversion.
package blocktime

import (
	"context"
	"time"
)

// Confidence tells whether a resolution is provably correct.
type Confidence string

const (
	// ConfidenceExact means every lookup needed to pin the block succeeded.
	ConfidenceExact Confidence = "exact"

	// ConfidenceDegraded means the search could not confirm the answer: a lookup
	// failed after retries, or no block at or before the target exists.
	ConfidenceDegraded Confidence = "degraded"
)

// Resolution is the outcome of a search.
type Resolution struct {
	Block      uint64
	Timestamp  int64 // timestamp of Block, zero when it was never fetched
	Confidence Confidence
	Lookups    int // timestamps looked up, cached ones included
}

// TimestampCache stores block timestamps already fetched. Timestamps of produced
// blocks never change, so entries need no invalidation.
type TimestampCache interface {
	Get(ctx context.Context, number uint64) (timestamp int64, found bool, err error)
	Set(ctx context.Context, number uint64, timestamp int64) error
}

type nopCache struct{}

func (nopCache) Get(context.Context, uint64) (int64, bool, error) { return 0, false, nil }
func (nopCache) Set(context.Context, uint64, int64) error         { return nil }

// Resolver maps timestamps to block numbers.
type Resolver interface {
	// ResolveAtOrBefore returns the highest block in [earliest, currentHeight]
	// whose timestamp is not after target. Lookups are issued one at a time.
	//
	// A target earlier than the earliest block resolves to the earliest block with
	// ConfidenceDegraded. When a lookup keeps failing, the best block confirmed so
	// far is returned with ConfidenceDegraded. An error is returned when
	// currentHeight is below the earliest block, when no lookup succeeded at all,
	// on a non-retryable fault, or when ctx ends.
	ResolveAtOrBefore(ctx context.Context, target time.Time, currentHeight uint64) (Resolution, error)
}
