// Package ledger defines the read-only view of an append-only, block-indexed chain that
// the scanning and block-time components consume, together with the fault taxonomy
// every provider implementation maps its failures onto.
package ledger

import (
	"context"
	"errors"
	"math/big"
	"time"

	"github.com/shopspring/decimal"
)

var (
	// ErrInvalidInput marks a request that can never succeed: malformed address,
	// negative range, unparseable date or parameters the provider rejects. Never retried.
	ErrInvalidInput = errors.New("invalid input")

	// ErrProviderUnavailable marks a transient fault: network error, timeout or an
	// unhealthy provider.
	ErrProviderUnavailable = errors.New("provider unavailable")

	// ErrRateLimited marks a request the provider throttled. Transient.
	ErrRateLimited = errors.New("provider rate limited")

	// ErrBlockNotFound is returned when the provider has no block at the requested
	// number (not yet produced, pruned, or a gap). It is an outcome, not a fault.
	ErrBlockNotFound = errors.New("block not found")
)

// IsTransient reports whether err is a provider fault worth retrying.
func IsTransient(err error) bool {
	return errors.Is(err, ErrProviderUnavailable) || errors.Is(err, ErrRateLimited)
}

// Transaction is a transaction as included in a block.
type Transaction struct {
	Hash  string   // Unique transaction hash
	From  string   // Sender address, always present
	To    string   // Recipient address, empty for contract creation
	Value *big.Int // Amount in the ledger's smallest unit
}

// Block is a block together with its transaction bodies, in execution order.
type Block struct {
	Number       uint64
	Timestamp    int64 // Unix seconds
	Transactions []Transaction
}

// Time returns the block timestamp as a UTC time.
func (b Block) Time() time.Time {
	return time.Unix(b.Timestamp, 0).UTC()
}

// Ledger is the remote query interface of a chain-data provider.
//
// Implementations must map their failures onto ErrProviderUnavailable, ErrRateLimited,
// ErrInvalidInput and ErrBlockNotFound so callers can decide what to retry.
type Ledger interface {
	// CurrentHeight returns the number of the latest produced block.
	CurrentHeight(ctx context.Context) (uint64, error)

	// BlockWithTransactions returns the block at number including every transaction
	// body, in a single round trip.
	BlockWithTransactions(ctx context.Context, number uint64) (Block, error)

	// BlockTimestamp returns the Unix timestamp of the block at number without
	// downloading its transactions.
	BlockTimestamp(ctx context.Context, number uint64) (int64, error)

	// Balance returns the balance of address, in the smallest unit, as of atBlock.
	Balance(ctx context.Context, address string, atBlock uint64) (*big.Int, error)
}

// ToDisplayUnit converts an amount in the smallest unit into its decimal display unit,
// e.g. wei to ether with decimals = 18. A nil amount converts to zero.
func ToDisplayUnit(amount *big.Int, decimals int32) decimal.Decimal {
	if amount == nil {
		return decimal.Zero
	}

	return decimal.NewFromBigInt(amount, -decimals)
}
