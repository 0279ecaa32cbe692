// Package txscan locates every transaction touching an address across a range of
// blocks. Blocks are fetched with their transaction bodies in one call each, and
// matches are returned in ascending block order, then in-block execution order.
//
// Provider faults on a single block are retried with bounded exponential backoff;
// a block that still fails is skipped and reported, and the scan moves on. The
// result status tells a complete scan apart from a cancelled or partial one.
package txscan

import (
	"context"
	"math/big"
	"time"

	"github.com/shopspring/decimal"
)

// Status classifies how complete a scan result is.
type Status string

const (
	// StatusComplete means every block in the range was examined.
	StatusComplete Status = "complete"

	// StatusCancelled means the scan stopped early on caller cancellation or scan
	// timeout. Result.NextBlock is the first block that was not examined.
	StatusCancelled Status = "cancelled"

	// StatusPartialDueToFaults means one or more blocks were skipped after
	// exhausting their retries. Result.SkippedBlocks lists them.
	StatusPartialDueToFaults Status = "partial_due_to_faults"
)

// ScanRange is an inclusive block interval. A range whose StartBlock is greater
// than its EndBlock is empty.
type ScanRange struct {
	StartBlock uint64
	EndBlock   uint64
}

// IsEmpty reports whether the range contains no block.
func (r ScanRange) IsEmpty() bool {
	return r.StartBlock > r.EndBlock
}

// MatchedTransaction is a transaction whose sender or recipient is the scanned address.
type MatchedTransaction struct {
	Hash        string          `json:"hash"`
	From        string          `json:"from"`
	To          string          `json:"to,omitempty"`
	Value       decimal.Decimal `json:"value"`
	Wei         *big.Int        `json:"-"`
	BlockNumber uint64          `json:"blockNumber"`
	Timestamp   time.Time       `json:"timestamp"`
}

// SkippedBlock is a block left out of the result because every fetch attempt failed.
type SkippedBlock struct {
	Number uint64
	Err    error
}

// Result is the outcome of a scan.
type Result struct {
	Transactions  []MatchedTransaction
	Status        Status
	ScannedBlocks int            // blocks the provider answered for, including absent ones
	SkippedBlocks []SkippedBlock // blocks given up on after retries, in ascending order
	NextBlock     uint64         // first block after the examined prefix of the range
}

// Scanner scans block ranges for transactions touching an address.
type Scanner interface {
	// Scan examines every block in r and returns the transactions whose sender or
	// recipient equals address, compared case-insensitively.
	//
	// An empty range yields an empty, complete result without any provider call.
	// Cancelling ctx stops the scan between block fetches; the matches gathered so
	// far are returned with StatusCancelled. An error is returned only when a
	// provider fault cannot be retried or when every block fetch failed.
	Scan(ctx context.Context, address string, r ScanRange) (Result, error)
}
