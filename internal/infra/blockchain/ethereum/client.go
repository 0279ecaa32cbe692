// Package ethereum provides an implementation of the ledger.Ledger interface
// for Ethereum-compatible nodes using a JSON-RPC client.
package ethereum

import (
	"errors"
	"fmt"

	"github.com/gabapcia/blockscan/internal/ledger"
	"github.com/gabapcia/blockscan/internal/pkg/transport/jsonrpc"
)

// JSON-RPC 2.0 error codes for requests the server refuses to process as sent.
const (
	codeParseError     = -32700
	codeInvalidRequest = -32600
	codeMethodNotFound = -32601
	codeInvalidParams  = -32602
)

// client implements the ledger.Ledger interface for Ethereum-based networks.
// It communicates with an Ethereum node via a JSON-RPC client.
type client struct {
	conn jsonrpc.Client // Underlying JSON-RPC client used to interact with the Ethereum node
}

// Ensure client implements the ledger.Ledger interface at compile time.
var _ ledger.Ledger = (*client)(nil)

// NewClient creates a new Ethereum ledger client using the provided JSON-RPC connection.
func NewClient(conn jsonrpc.Client) *client {
	return &client{
		conn: conn,
	}
}

// classify maps a transport error onto the ledger fault taxonomy.
//
//   - throttling                        -> ledger.ErrRateLimited
//   - network, timeout, 5xx             -> ledger.ErrProviderUnavailable
//   - malformed request / bad params    -> ledger.ErrInvalidInput
//   - other server-side JSON-RPC errors -> ledger.ErrProviderUnavailable
//   - method not found, decode errors   -> returned unclassified (fatal)
func classify(method string, err error) error {
	switch {
	case errors.Is(err, jsonrpc.ErrRateLimited):
		return fmt.Errorf("%s: %w: %w", method, ledger.ErrRateLimited, err)
	case errors.Is(err, jsonrpc.ErrUnavailable):
		return fmt.Errorf("%s: %w: %w", method, ledger.ErrProviderUnavailable, err)
	}

	var rpcErr *jsonrpc.RPCError
	if errors.As(err, &rpcErr) {
		switch rpcErr.Code {
		case codeParseError, codeInvalidRequest, codeInvalidParams:
			return fmt.Errorf("%s: %w: %w", method, ledger.ErrInvalidInput, err)
		case codeMethodNotFound:
			return fmt.Errorf("%s: %w", method, err)
		default:
			return fmt.Errorf("%s: %w: %w", method, ledger.ErrProviderUnavailable, err)
		}
	}

	return fmt.Errorf("%s: %w", method, err)
}
