package telemetry

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the Prometheus collectors instrumenting a sweep.
type Metrics struct {
	PairsTotal    *prometheus.CounterVec // outcome: measured | skipped
	Repetitions   prometheus.Histogram
	SweepDuration prometheus.Histogram
}

// NewMetrics creates the harness collectors, unregistered.
func NewMetrics() *Metrics {
	return &Metrics{
		PairsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "benchtab_pairs_total",
				Help: "Procedure/configuration pairs processed, by outcome",
			},
			[]string{"procedure", "outcome"},
		),
		Repetitions: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "benchtab_repetitions",
				Help:    "Repetition counts decided by the probe",
				Buckets: prometheus.ExponentialBuckets(1, 10, 10),
			},
		),
		SweepDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "benchtab_sweep_duration_seconds",
				Help:    "Wall-clock duration of whole sweeps",
				Buckets: prometheus.ExponentialBuckets(0.01, 4, 10),
			},
		),
	}
}

// Register adds all collectors to reg.
func (m *Metrics) Register(reg prometheus.Registerer) error {
	for _, c := range []prometheus.Collector{m.PairsTotal, m.Repetitions, m.SweepDuration} {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}

// ObservePair records the outcome of one pair.
func (m *Metrics) ObservePair(procedure, outcome string) {
	m.PairsTotal.WithLabelValues(procedure, outcome).Inc()
}

// StartMetricsServer exposes the given registry over HTTP at /metrics.
// It blocks, so callers run it in a goroutine.
func StartMetricsServer(addr string, reg *prometheus.Registry) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	return http.ListenAndServe(addr, mux)
}
