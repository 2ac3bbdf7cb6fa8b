// Package metrics provides Prometheus metric collectors for observability
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// ForecastMetrics contains Prometheus metrics for forecast operations
type ForecastMetrics struct {
	fetchesTotal      *prometheus.CounterVec
	fetchErrorsTotal  *prometheus.CounterVec
	fetchDuration     *prometheus.HistogramVec
	maxPredictedError prometheus.Gauge
	maxKpIndex        prometheus.Gauge
}

// NewForecastMetrics creates and registers new forecast metrics
func NewForecastMetrics(registry *prometheus.Registry) (*ForecastMetrics, error) {
	m := &ForecastMetrics{
		fetchesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "forecast_fetches_total",
				Help: "Total number of forecast fetch operations",
			},
			[]string{"provider", "status"},
		),
		fetchErrorsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "forecast_fetch_errors_total",
				Help: "Total number of forecast fetch errors",
			},
			[]string{"provider", "error_type"},
		),
		fetchDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "forecast_fetch_duration_seconds",
				Help:    "Duration of forecast fetch operations",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"provider"},
		),
		maxPredictedError: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "forecast_max_predicted_error_meters",
				Help: "Maximum predicted GNSS error over the current forecast horizon",
			},
		),
		maxKpIndex: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "forecast_max_kp_index",
				Help: "Maximum Kp index over the current forecast horizon",
			},
		),
	}

	collectors := []prometheus.Collector{
		m.fetchesTotal, m.fetchErrorsTotal, m.fetchDuration,
		m.maxPredictedError, m.maxKpIndex,
	}
	for _, c := range collectors {
		if err := registry.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// RecordFetch records the outcome of one forecast fetch
func (m *ForecastMetrics) RecordFetch(provider, status string) {
	m.fetchesTotal.WithLabelValues(provider, status).Inc()
}

// RecordFetchError records a categorized fetch error
func (m *ForecastMetrics) RecordFetchError(provider, errorType string) {
	m.fetchErrorsTotal.WithLabelValues(provider, errorType).Inc()
}

// RecordFetchDuration records the duration of a forecast fetch
func (m *ForecastMetrics) RecordFetchDuration(provider string, seconds float64) {
	m.fetchDuration.WithLabelValues(provider).Observe(seconds)
}

// UpdateHorizonGauges updates the gauges summarizing the current horizon
func (m *ForecastMetrics) UpdateHorizonGauges(maxError, maxKp float64) {
	m.maxPredictedError.Set(maxError)
	m.maxKpIndex.Set(maxKp)
}
