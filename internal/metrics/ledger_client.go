package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ledgerOperationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "ledger_client",
		Name:      "operations_total",
		Help:      "Count of ledger provider operations.",
	}, []string{"operation", "network", "status"})

	ledgerOperationDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "ledger_client",
		Name:      "operation_duration_seconds",
		Help:      "Duration of ledger provider operations.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"operation", "network", "status"})
)

// LedgerClient tracks calls made to a ledger provider.
type LedgerClient struct {
	network string
}

// NewLedgerClient constructs a collector labelled with network.
func NewLedgerClient(network string) *LedgerClient {
	return &LedgerClient{network: orUnknown(network)}
}

// Observe records a single provider call outcome and duration.
func (m LedgerClient) Observe(operation string, err error, started time.Time) {
	s := status(err)
	ledgerOperationsTotal.WithLabelValues(operation, m.network, s).Inc()
	ledgerOperationDuration.WithLabelValues(operation, m.network, s).Observe(time.Since(started).Seconds())
}
