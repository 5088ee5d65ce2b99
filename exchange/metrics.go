package exchange

import (
	"github.com/prometheus/client_golang/prometheus"
)

// --- Metrics ---

// Metrics holds all the Prometheus metrics for the exchange system.
type Metrics struct {
	operationsTotal  *prometheus.CounterVec
	snapshotDuration *prometheus.HistogramVec
}

// NewMetrics creates and registers the metrics for the exchange system.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		operationsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "exchange_operations_total",
			Help: "Total number of exchange operations, labeled by operation and result.",
		}, []string{"operation", "result"}),
		snapshotDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "exchange_snapshot_duration_seconds",
			Help:    "Time taken to rebuild the cached exchange view after a mutation.",
			Buckets: prometheus.DefBuckets,
		}, []string{}),
	}
	reg.MustRegister(m.operationsTotal, m.snapshotDuration)
	return m
}

// observe records the outcome of one operation.
func (m *Metrics) observe(operation string, err error) {
	result := "success"
	if err != nil {
		result = "error"
	}
	m.operationsTotal.WithLabelValues(operation, result).Inc()
}
