// Package metrics defines the Prometheus instruments specific to the
// scan pipeline, layered on the shared monitoring collector.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"frameworks/api_lookout/pkg/monitoring"
)

// Metrics holds the pipeline instruments.
type Metrics struct {
	ScansTotal        *prometheus.CounterVec
	ScanDuration      *prometheus.HistogramVec
	CandidatesFetched *prometheus.CounterVec
	TrendsStored      *prometheus.CounterVec
}

func New(collector *monitoring.MetricsCollector) *Metrics {
	return &Metrics{
		ScansTotal: collector.NewCounter(
			"scans_total", "Completed scan pipeline runs", []string{"status"}),
		ScanDuration: collector.NewHistogram(
			"scan_duration_seconds", "End-to-end scan duration",
			[]string{"status"}, []float64{1, 5, 15, 30, 60, 90, 120}),
		CandidatesFetched: collector.NewCounter(
			"candidates_fetched_total", "Candidates contributed per source", []string{"source"}),
		TrendsStored: collector.NewCounter(
			"trends_stored_total", "Trends persisted after dedup", nil),
	}
}

// ObserveScan records one pipeline run.
func (m *Metrics) ObserveScan(status string, duration time.Duration) {
	if m == nil {
		return
	}
	m.ScansTotal.WithLabelValues(status).Inc()
	m.ScanDuration.WithLabelValues(status).Observe(duration.Seconds())
}

// AddCandidates records a source's contribution to one scan.
func (m *Metrics) AddCandidates(source string, count int) {
	if m == nil {
		return
	}
	m.CandidatesFetched.WithLabelValues(source).Add(float64(count))
}

// AddTrendsStored records how many trends one scan persisted.
func (m *Metrics) AddTrendsStored(count int) {
	if m == nil {
		return
	}
	m.TrendsStored.WithLabelValues().Add(float64(count))
}
