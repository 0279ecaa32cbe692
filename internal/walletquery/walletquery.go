// Package walletquery is the entry point the CLI talks to. It validates wallet
// queries, fills in default block bounds from the current chain height and
// composes the range scanner, the block-time resolver and balance lookups.
package walletquery

import (
	"context"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/gabapcia/blockscan/internal/blocktime"
	"github.com/gabapcia/blockscan/internal/ledger"
	"github.com/gabapcia/blockscan/internal/pkg/validator"
	"github.com/gabapcia/blockscan/internal/txscan"

	"github.com/shopspring/decimal"
)

// DateLayout is the calendar date format accepted by ParseDate.
const DateLayout = "2006-01-02"

// ScanRequest asks for the transactions of Address. Unset bounds default to the
// last DefaultScanWindow blocks before the current height.
type ScanRequest struct {
	Address    string `validate:"required,eth_addr"`
	StartBlock *uint64
	EndBlock   *uint64
}

// Balance is the balance of an address at the last block of a past moment.
type Balance struct {
	Address        string
	Block          uint64
	BlockTimestamp time.Time
	Wei            *big.Int
	Amount         decimal.Decimal
	Confidence     blocktime.Confidence
}

// Service answers wallet queries against a ledger.
type Service interface {
	// ScanTransactions scans the requested range for transactions of the address.
	ScanTransactions(ctx context.Context, req ScanRequest) (txscan.Result, error)

	// BalanceAtDate returns the balance of address at the last block produced at or
	// before 00:00:00 UTC of date's calendar day.
	BalanceAtDate(ctx context.Context, address string, date time.Time) (Balance, error)
}

// ParseDate parses a YYYY-MM-DD calendar date as midnight UTC.
func ParseDate(s string) (time.Time, error) {
	d, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: date %q must be formatted as %s", ledger.ErrInvalidInput, s, DateLayout)
	}

	return d.UTC(), nil
}

// startOfDay truncates t to 00:00:00 UTC of its UTC calendar day.
func startOfDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func validateAddress(address string) error {
	if err := validator.Var(address, "required,eth_addr"); err != nil {
		return fmt.Errorf("%w: address %q: %w", ledger.ErrInvalidInput, address, err)
	}
	return nil
}
