package optimizer

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	evaluationsTotal prometheus.Counter
	runsTotal        *prometheus.CounterVec
	runDuration      prometheus.Histogram
	bestFitness      prometheus.Gauge
)

// newCollectors creates new metric collectors.
func newCollectors() (prometheus.Counter, *prometheus.CounterVec, prometheus.Histogram, prometheus.Gauge) {
	evals := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "optimizer_evaluations_total",
			Help: "Number of candidate evaluations performed",
		},
	)
	runs := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "optimizer_runs_total",
			Help: "Number of optimization runs by strategy and outcome",
		},
		[]string{"strategy", "outcome"},
	)
	dur := prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "optimizer_run_duration_seconds",
			Help:    "Wall-clock duration of optimization runs",
			Buckets: prometheus.DefBuckets,
		},
	)
	best := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "optimizer_best_fitness",
			Help: "Fitness of the top schedule of the last completed run",
		},
	)
	return evals, runs, dur, best
}

func init() {
	evaluationsTotal, runsTotal, runDuration, bestFitness = newCollectors()
	MustRegisterMetrics(nil)
}

// MustRegisterMetrics registers optimizer metrics on the provided registry.
// If reg is nil, prometheus.DefaultRegisterer is used. Registering twice is
// harmless: existing collectors are reused.
func MustRegisterMetrics(reg prometheus.Registerer) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	for _, c := range []prometheus.Collector{evaluationsTotal, runsTotal, runDuration, bestFitness} {
		if err := reg.Register(c); err != nil {
			if _, ok := err.(prometheus.AlreadyRegisteredError); !ok {
				panic(err)
			}
		}
	}
}
