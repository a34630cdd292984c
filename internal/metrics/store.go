package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// StoreOperationDuration records event store latency per operation
	StoreOperationDuration = promauto.With(Registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "store_operation_duration_seconds",
			Help:      "Event store operation duration in seconds",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		},
		[]string{"operation"},
	)

	// StoreOperationErrors counts failed event store operations
	StoreOperationErrors = promauto.With(Registry).NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "store_operation_errors_total",
			Help:      "Total number of failed event store operations",
		},
		[]string{"operation"},
	)
)

// ObserveStoreOperation is meant to be deferred at the top of a store method with a pointer to its
// named error result.
func ObserveStoreOperation(operation string, start time.Time, err *error) {
	StoreOperationDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
	if err != nil && *err != nil {
		StoreOperationErrors.WithLabelValues(operation).Inc()
	}
}
