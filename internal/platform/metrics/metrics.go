// Package metrics exposes Prometheus collectors for quote sync and storage.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Sync cycle outcomes used as the "result" label.
const (
	ResultSuccess = "success"
	ResultFailure = "failure"
	ResultSkipped = "skipped"
)

// Metrics holds the service collectors. A nil *Metrics is a valid no-op.
type Metrics struct {
	cycles         *prometheus.CounterVec
	cycleDuration  prometheus.Histogram
	submitFailures prometheus.Counter
	storeSize      prometheus.Gauge
}

// New creates the collectors and registers them with reg.
// Pass prometheus.DefaultRegisterer to expose them on the default handler.
func New(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		cycles: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "quote_sync_cycles_total",
			Help: "Sync cycles by result.",
		}, []string{"result"}),
		cycleDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "quote_sync_cycle_duration_seconds",
			Help:    "Duration of sync cycles that ran.",
			Buckets: prometheus.DefBuckets,
		}),
		submitFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "quote_sync_submit_failures_total",
			Help: "Quotes that could not be submitted to the remote source.",
		}),
		storeSize: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "quote_store_size",
			Help: "Number of quotes currently held.",
		}),
	}

	for _, c := range []prometheus.Collector{m.cycles, m.cycleDuration, m.submitFailures, m.storeSize} {
		err := reg.Register(c)
		if err != nil {
			return nil, fmt.Errorf("registering collector: %w", err)
		}
	}

	return m, nil
}

// ObserveCycle records one finished cycle. Skipped cycles are counted
// but not timed.
func (m *Metrics) ObserveCycle(result string, d time.Duration) {
	if m == nil {
		return
	}

	m.cycles.WithLabelValues(result).Inc()

	if result != ResultSkipped {
		m.cycleDuration.Observe(d.Seconds())
	}
}

// AddSubmitFailures adds n failed submissions.
func (m *Metrics) AddSubmitFailures(n int) {
	if m == nil || n <= 0 {
		return
	}

	m.submitFailures.Add(float64(n))
}

// SetStoreSize records the current number of stored quotes.
func (m *Metrics) SetStoreSize(n int) {
	if m == nil {
		return
	}

	m.storeSize.Set(float64(n))
}
