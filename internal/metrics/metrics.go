// Package metrics exposes Prometheus collectors for ledger calls, range scans
// and block-time resolutions. Collectors are registered on the default
// registry and served by the process metrics endpoint.
package metrics

import (
	"errors"

	"github.com/gabapcia/blockscan/internal/ledger"
)

const namespace = "blockscan"

// status turns an operation error into a low-cardinality label value.
func status(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, ledger.ErrRateLimited):
		return "rate_limited"
	case errors.Is(err, ledger.ErrProviderUnavailable):
		return "unavailable"
	case errors.Is(err, ledger.ErrBlockNotFound):
		return "not_found"
	case errors.Is(err, ledger.ErrInvalidInput):
		return "invalid_input"
	default:
		return "error"
	}
}

func orUnknown(network string) string {
	if network == "" {
		return "unknown"
	}
	return network
}
