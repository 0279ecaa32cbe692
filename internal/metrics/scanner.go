package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	scansTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "scanner",
		Name:      "scans_total",
		Help:      "Count of range scans by completion status.",
	}, []string{"network", "status"})

	scanDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "scanner",
		Name:      "scan_duration_seconds",
		Help:      "Duration of range scans.",
		Buckets:   prometheus.ExponentialBuckets(0.1, 2, 12),
	}, []string{"network", "status"})

	scannedBlocksTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "scanner",
		Name:      "blocks_total",
		Help:      "Count of blocks visited by range scans, by outcome.",
	}, []string{"network", "outcome"})

	matchedTransactionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "scanner",
		Name:      "matched_transactions_total",
		Help:      "Count of transactions matched by range scans.",
	}, []string{"network"})
)

// Scanner tracks range scans.
type Scanner struct {
	network string
}

// NewScanner constructs a scan collector labelled with network.
func NewScanner(network string) *Scanner {
	return &Scanner{network: orUnknown(network)}
}

// ObserveScan records a finished scan. scanStatus is the scan completion status,
// or "failed" when the scan returned an error.
func (m Scanner) ObserveScan(scanStatus string, scanned, skipped, matched int, started time.Time) {
	scansTotal.WithLabelValues(m.network, scanStatus).Inc()
	scanDuration.WithLabelValues(m.network, scanStatus).Observe(time.Since(started).Seconds())
	scannedBlocksTotal.WithLabelValues(m.network, "scanned").Add(float64(scanned))
	scannedBlocksTotal.WithLabelValues(m.network, "skipped").Add(float64(skipped))
	matchedTransactionsTotal.WithLabelValues(m.network).Add(float64(matched))
}
