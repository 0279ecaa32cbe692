package ethereum

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"

	"github.com/gabapcia/blockscan/internal/ledger"
	"github.com/gabapcia/blockscan/internal/pkg/types"
)

type (
	// TransactionResponse represents a raw transaction object returned by the Ethereum JSON-RPC API.
	// Only the fields needed for address matching and value reporting are decoded.
	TransactionResponse struct {
		Hash             string    `json:"hash"`
		BlockNumber      types.Hex `json:"blockNumber"`
		TransactionIndex types.Hex `json:"transactionIndex"`
		From             string    `json:"from"`
		To               string    `json:"to"` // null for contract creation
		Value            types.Hex `json:"value"`
	}

	// BlockResponse represents a block returned by eth_getBlockByNumber with full transaction objects.
	BlockResponse struct {
		Hash         string                `json:"hash"`
		ParentHash   string                `json:"parentHash"`
		Number       types.Hex             `json:"number"`
		Timestamp    types.Hex             `json:"timestamp"`
		Transactions []TransactionResponse `json:"transactions"`
	}

	// HeaderResponse is the subset of eth_getBlockByNumber(n, false) used for timestamp lookups.
	HeaderResponse struct {
		Hash      string    `json:"hash"`
		Number    types.Hex `json:"number"`
		Timestamp types.Hex `json:"timestamp"`
	}
)

// toLedgerTransaction converts a TransactionResponse to a ledger.Transaction.
func (t TransactionResponse) toLedgerTransaction() ledger.Transaction {
	return ledger.Transaction{
		Hash:  t.Hash,
		From:  t.From,
		To:    t.To,
		Value: t.Value.BigInt(),
	}
}

// ErrInvalidTimestamp is returned when a block header carries no usable timestamp.
var ErrInvalidTimestamp = errors.New("invalid block timestamp")

func parseTimestamp(number uint64, h types.Hex) (int64, error) {
	ts, err := h.ParseInt64()
	if err != nil {
		return 0, fmt.Errorf("block %d: %w: %w", number, ErrInvalidTimestamp, err)
	}
	return ts, nil
}

// toLedgerBlock converts a BlockResponse to a ledger.Block, keeping execution order.
func (b BlockResponse) toLedgerBlock() (ledger.Block, error) {
	timestamp, err := parseTimestamp(b.Number.Uint64(), b.Timestamp)
	if err != nil {
		return ledger.Block{}, err
	}

	transactions := make([]ledger.Transaction, len(b.Transactions))
	for i, t := range b.Transactions {
		transactions[i] = t.toLedgerTransaction()
	}

	return ledger.Block{
		Number:       b.Number.Uint64(),
		Timestamp:    timestamp,
		Transactions: transactions,
	}, nil
}

// isNull reports whether a JSON-RPC result is absent. Nodes answer eth_getBlockByNumber
// with null for blocks they do not have.
func isNull(data json.RawMessage) bool {
	trimmed := bytes.TrimSpace(data)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

// CurrentHeight fetches the latest block number from the Ethereum node.
func (c *client) CurrentHeight(ctx context.Context) (uint64, error) {
	data, err := c.conn.Fetch(ctx, "eth_blockNumber")
	if err != nil {
		return 0, classify("eth_blockNumber", err)
	}

	var blockNumber types.Hex
	if err := json.Unmarshal(data, &blockNumber); err != nil {
		return 0, fmt.Errorf("eth_blockNumber: %w", err)
	}

	return blockNumber.Uint64(), nil
}

// BlockWithTransactions retrieves a full block, transaction bodies included, by its number.
// A null result is reported as ledger.ErrBlockNotFound.
func (c *client) BlockWithTransactions(ctx context.Context, number uint64) (ledger.Block, error) {
	data, err := c.conn.Fetch(ctx, "eth_getBlockByNumber", types.HexFromUint64(number), true)
	if err != nil {
		return ledger.Block{}, classify("eth_getBlockByNumber", err)
	}

	if isNull(data) {
		return ledger.Block{}, fmt.Errorf("block %d: %w", number, ledger.ErrBlockNotFound)
	}

	var blockResponse BlockResponse
	if err := json.Unmarshal(data, &blockResponse); err != nil {
		return ledger.Block{}, fmt.Errorf("eth_getBlockByNumber: %w", err)
	}

	return blockResponse.toLedgerBlock()
}

// BlockTimestamp retrieves only the header of a block and returns its timestamp.
func (c *client) BlockTimestamp(ctx context.Context, number uint64) (int64, error) {
	data, err := c.conn.Fetch(ctx, "eth_getBlockByNumber", types.HexFromUint64(number), false)
	if err != nil {
		return 0, classify("eth_getBlockByNumber", err)
	}

	if isNull(data) {
		return 0, fmt.Errorf("block %d: %w", number, ledger.ErrBlockNotFound)
	}

	var header HeaderResponse
	if err := json.Unmarshal(data, &header); err != nil {
		return 0, fmt.Errorf("eth_getBlockByNumber: %w", err)
	}

	return parseTimestamp(number, header.Timestamp)
}

// Balance returns the wei balance of address as of atBlock.
func (c *client) Balance(ctx context.Context, address string, atBlock uint64) (*big.Int, error) {
	data, err := c.conn.Fetch(ctx, "eth_getBalance", address, types.HexFromUint64(atBlock))
	if err != nil {
		return nil, classify("eth_getBalance", err)
	}

	var balance types.Hex
	if err := json.Unmarshal(data, &balance); err != nil {
		return nil, fmt.Errorf("eth_getBalance: %w", err)
	}

	return balance.BigInt(), nil
}
