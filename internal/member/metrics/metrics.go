// Package metrics provides observability for the member registry.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics tracks registry operation counts, latencies and the
// read-side cache behavior.
type Metrics struct {
	Operations        *prometheus.CounterVec
	OperationDuration *prometheus.HistogramVec
	VersionConflicts  prometheus.Counter
	EventsEmitted     *prometheus.CounterVec
	CacheHits         prometheus.Counter
	CacheMisses       prometheus.Counter
}

// New creates a Metrics instance with all registry metrics registered.
func New() *Metrics {
	return &Metrics{
		Operations: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "mirathi_member_operations_total",
			Help: "Total member operations by operation and outcome",
		}, []string{"operation", "outcome"}),
		OperationDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "mirathi_member_operation_duration_seconds",
			Help:    "Duration of member operations",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"operation"}),
		VersionConflicts: promauto.NewCounter(prometheus.CounterOpts{
			Name: "mirathi_member_version_conflicts_total",
			Help: "Total optimistic-concurrency conflicts on member saves",
		}),
		EventsEmitted: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "mirathi_member_events_emitted_total",
			Help: "Total domain events written to the outbox by type",
		}, []string{"type"}),
		CacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "mirathi_member_cache_hits_total",
			Help: "Total projection cache hits",
		}),
		CacheMisses: promauto.NewCounter(prometheus.CounterOpts{
			Name: "mirathi_member_cache_misses_total",
			Help: "Total projection cache misses",
		}),
	}
}

// RecordOperation records an operation outcome and its duration.
// Call with time.Now() captured at the start of the operation.
func (m *Metrics) RecordOperation(operation, outcome string, start time.Time) {
	m.Operations.WithLabelValues(operation, outcome).Inc()
	m.OperationDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}

// RecordEvents counts drained events by type.
func (m *Metrics) RecordEvents(types []string) {
	for _, t := range types {
		m.EventsEmitted.WithLabelValues(t).Inc()
	}
}
