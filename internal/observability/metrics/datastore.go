// datastore.go metrics for database operations
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// DatastoreMetrics contains Prometheus metrics for datastore operations
type DatastoreMetrics struct {
	operationsTotal   *prometheus.CounterVec
	operationDuration *prometheus.HistogramVec
	missionLogCount   prometheus.Gauge
}

// NewDatastoreMetrics creates and registers new datastore metrics
func NewDatastoreMetrics(registry *prometheus.Registry) (*DatastoreMetrics, error) {
	m := &DatastoreMetrics{
		operationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "datastore_operations_total",
				Help: "Total number of datastore operations",
			},
			[]string{"operation", "status"},
		),
		operationDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "datastore_operation_duration_seconds",
				Help:    "Duration of datastore operations",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		missionLogCount: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "datastore_mission_logs",
				Help: "Number of stored mission logs",
			},
		),
	}

	collectors := []prometheus.Collector{
		m.operationsTotal, m.operationDuration, m.missionLogCount,
	}
	for _, c := range collectors {
		if err := registry.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// RecordOperation records the outcome of one datastore operation
func (m *DatastoreMetrics) RecordOperation(operation, status string) {
	m.operationsTotal.WithLabelValues(operation, status).Inc()
}

// RecordOperationDuration records the duration of a datastore operation
func (m *DatastoreMetrics) RecordOperationDuration(operation string, seconds float64) {
	m.operationDuration.WithLabelValues(operation).Observe(seconds)
}

// SetMissionLogCount updates the stored mission log gauge
func (m *DatastoreMetrics) SetMissionLogCount(count int64) {
	m.missionLogCount.Set(float64(count))
}
