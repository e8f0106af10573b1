package metrics

import (
	"strconv"

	coremetrics "github.com/herdplan/herdplan/core/metrics"
	"github.com/prometheus/client_golang/prometheus"
)

// PromSink records run results in Prometheus metrics.
type PromSink struct {
	schedules *prometheus.CounterVec
	fitness   *prometheus.GaugeVec
	cycleDays *prometheus.GaugeVec
}

// NewPromSink registers run metrics on the default Prometheus registerer.
func NewPromSink() (coremetrics.Sink, error) {
	return NewPromSinkWithRegistry(prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer.
func NewPromSinkWithRegistry(reg prometheus.Registerer) (coremetrics.Sink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	schedules := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "schedules_produced_total",
		Help: "Total number of ranked schedules produced",
	}, []string{"strategy", "profile"})
	fitness := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "schedule_fitness",
		Help: "Fitness of the last produced schedule per rank",
	}, []string{"rank"})
	cycle := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "schedule_cycle_days",
		Help: "Cycle span in days of the last produced schedule per rank",
	}, []string{"rank"})

	if err := reg.Register(schedules); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			schedules = are.ExistingCollector.(*prometheus.CounterVec)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(fitness); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			fitness = are.ExistingCollector.(*prometheus.GaugeVec)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(cycle); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			cycle = are.ExistingCollector.(*prometheus.GaugeVec)
		} else {
			return nil, err
		}
	}

	return &PromSink{schedules: schedules, fitness: fitness, cycleDays: cycle}, nil
}

// RecordRun updates the counters and gauges for each ranked schedule.
func (s *PromSink) RecordRun(recs []coremetrics.RunRecord) error {
	for _, r := range recs {
		rank := strconv.Itoa(r.Rank)
		s.schedules.WithLabelValues(r.Strategy, r.Profile).Inc()
		s.fitness.WithLabelValues(rank).Set(r.Fitness)
		s.cycleDays.WithLabelValues(rank).Set(float64(r.CycleDays))
	}
	return nil
}
