// Package monitoring records run-level Prometheus metrics for synthesis runs.
//
// Every Metrics value owns a private registry, so independent runs (and
// tests) never collide on global collector registration.
//
// # Basic Usage
//
//	m := monitoring.NewMetrics()
//	start := time.Now()
//	out, err := run()
//	m.ObserveRun(err, monitoring.RunStats{InputRows: n, SyntheticRows: out.NRows(), Duration: time.Since(start)})
//
//	f, _ := os.Create("metrics.prom")
//	_ = m.WriteText(f)
package monitoring

import (
	"context"
	"io"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/common/expfmt"

	"github.com/YuminosukeSato/synthgen/pkg/errors"
)

const namespace = "synthgen"

// Run outcomes used as the "outcome" label of RunsTotal.
const (
	OutcomeSuccess  = "success"
	OutcomeError    = "error"
	OutcomeCanceled = "canceled"
)

// Metrics groups the collectors updated by a synthesis run.
type Metrics struct {
	registry *prometheus.Registry

	runsTotal       *prometheus.CounterVec
	syntheticRows   prometheus.Counter
	inputRows       prometheus.Counter
	runDuration     prometheus.Histogram
	lastMedianStd   prometheus.Gauge
	lastMinorityLen prometheus.Gauge
}

// NewMetrics creates the collectors on a fresh registry.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)
	return &Metrics{
		registry: reg,
		runsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_total",
			Help:      "Synthesis runs by outcome.",
		}, []string{"outcome"}),
		syntheticRows: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "synthetic_rows_total",
			Help:      "Rows synthesized across all successful runs.",
		}),
		inputRows: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "input_rows_total",
			Help:      "Input rows consumed across all runs.",
		}),
		runDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Wall time of synthesis runs.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 10),
		}),
		lastMedianStd: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "median_std",
			Help:      "median_std of the most recent successful run.",
		}),
		lastMinorityLen: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "minority_samples",
			Help:      "Minority class size of the most recent successful run.",
		}),
	}
}

// Registry exposes the underlying registry, e.g. for promhttp.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// RunStats summarizes a finished run.
type RunStats struct {
	InputRows     int
	SyntheticRows int
	MinorityRows  int
	MedianStd     float64
	Duration      time.Duration
}

// ObserveRun records a finished run. err selects the outcome label.
func (m *Metrics) ObserveRun(err error, stats RunStats) {
	outcome := Outcome(err)
	m.runsTotal.WithLabelValues(outcome).Inc()
	m.inputRows.Add(float64(stats.InputRows))
	m.runDuration.Observe(stats.Duration.Seconds())
	if outcome != OutcomeSuccess {
		return
	}
	m.syntheticRows.Add(float64(stats.SyntheticRows))
	m.lastMedianStd.Set(stats.MedianStd)
	m.lastMinorityLen.Set(float64(stats.MinorityRows))
}

// Outcome maps an error to a run outcome label.
func Outcome(err error) string {
	switch {
	case err == nil:
		return OutcomeSuccess
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded), errors.Is(err, errors.ErrCanceled):
		return OutcomeCanceled
	default:
		return OutcomeError
	}
}

// WriteText writes every collected metric family in the Prometheus text
// exposition format.
func (m *Metrics) WriteText(w io.Writer) error {
	families, err := m.registry.Gather()
	if err != nil {
		return errors.Wrap(err, "monitoring: gather metrics")
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return errors.Wrap(err, "monitoring: write metrics")
		}
	}
	return nil
}
