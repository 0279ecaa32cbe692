package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	resolutionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "block_time_resolver",
		Name:      "resolutions_total",
		Help:      "Count of timestamp to block resolutions by confidence.",
	}, []string{"network", "confidence"})

	resolutionDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "block_time_resolver",
		Name:      "resolution_duration_seconds",
		Help:      "Duration of timestamp to block resolutions.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"network", "confidence"})

	resolutionLookups = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "block_time_resolver",
		Name:      "lookups",
		Help:      "Number of block timestamp lookups per resolution.",
		Buckets:   prometheus.LinearBuckets(0, 4, 12),
	}, []string{"network"})

	timestampCacheTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "block_time_resolver",
		Name:      "timestamp_cache_total",
		Help:      "Count of block timestamp cache lookups by result.",
	}, []string{"network", "result"})
)

// Resolver tracks block-time resolutions.
type Resolver struct {
	network string
}

// NewResolver constructs a resolution collector labelled with network.
func NewResolver(network string) *Resolver {
	return &Resolver{network: orUnknown(network)}
}

// ObserveResolve records a finished resolution. confidence is "exact",
// "degraded", or "failed" when the resolution returned an error.
func (m Resolver) ObserveResolve(confidence string, lookups int, started time.Time) {
	resolutionsTotal.WithLabelValues(m.network, confidence).Inc()
	resolutionDuration.WithLabelValues(m.network, confidence).Observe(time.Since(started).Seconds())
	resolutionLookups.WithLabelValues(m.network).Observe(float64(lookups))
}

// ObserveCache records a timestamp cache lookup.
func (m Resolver) ObserveCache(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	timestampCacheTotal.WithLabelValues(m.network, result).Inc()
}
