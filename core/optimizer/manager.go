package optimizer

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/stat"

	"github.com/herdplan/herdplan/core/events"
	"github.com/herdplan/herdplan/core/logger"
	"github.com/herdplan/herdplan/core/metrics"
	"github.com/herdplan/herdplan/core/model"
	"github.com/herdplan/herdplan/internal/eventbus"
)

// Request asks the manager for one optimization run. ID is assigned when
// empty; Rand makes the run reproducible and defaults to a time-seeded
// source.
type Request struct {
	ID   string
	Lots []model.Lot
	Rand *rand.Rand
}

// Manager owns the run lifecycle: it validates input before any budget is
// consumed, enforces the single-run-at-a-time rule, applies the hard
// wall-clock ceiling and shapes every failure into a typed RunError. The
// search itself is a pure function of (lots, config, rng); all reactive
// wiring stays with the caller through the event bus.
type Manager struct {
	cfg  SearchConfig
	log  logger.Logger
	bus  eventbus.EventBus
	sink metrics.Sink

	mu     sync.Mutex
	cancel context.CancelFunc
}

// NewManager validates the configuration and returns a ready manager.
// bus may be nil; a nil sink falls back to the no-op sink.
func NewManager(cfg SearchConfig, log logger.Logger, bus eventbus.EventBus, sink metrics.Sink) (*Manager, error) {
	if err := cfg.Validate(); err != nil {
		return nil, wrapRunError(CodeInvalidInput, "invalid search configuration", err)
	}
	if log == nil {
		return nil, runErrorf(CodeInvalidInput, "logger is required")
	}
	if sink == nil {
		sink = metrics.NopSink{}
	}
	return &Manager{cfg: cfg, log: log, bus: bus, sink: sink}, nil
}

// Run executes one optimization and returns up to TargetSchedules ranked
// schedules. A second call while a run is in flight fails with
// CodeInProgress. Expired budgets still return the best-known result as
// long as at least one full evaluation completed.
func (m *Manager) Run(ctx context.Context, req Request) (*Report, error) {
	start := time.Now()
	if err := m.validate(req); err != nil {
		return nil, err
	}

	m.mu.Lock()
	if m.cancel != nil {
		m.mu.Unlock()
		return nil, runErrorf(CodeInProgress, "an optimization run is already in flight")
	}
	runCtx, cancel := context.WithTimeout(ctx, m.cfg.HardCeiling())
	m.cancel = cancel
	m.mu.Unlock()
	defer func() {
		m.mu.Lock()
		m.cancel = nil
		m.mu.Unlock()
		cancel()
	}()

	id := req.ID
	if id == "" {
		id = uuid.NewString()
	}
	rng := req.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	ectx, err := NewContext(req.Lots, m.cfg)
	if err != nil {
		return nil, wrapRunError(CodeInvalidInput, "invalid lot data", err)
	}

	if m.bus != nil {
		m.bus.Publish(events.RunStartedEvent{RequestID: id, Lots: len(req.Lots), Budget: m.cfg.TimeBudget()})
	}
	m.log.Infof("optimization %s started: %d lots, budget %s", id, len(req.Lots), m.cfg.TimeBudget())

	deadline := start.Add(m.cfg.TimeBudget())
	disp := NewDispatcher(ectx, m.cfg, rng, m.log, m.bus, id)
	cands, strategy, evals, searchErr := disp.Search(runCtx, deadline)

	if err := m.classify(searchErr, cands); err != nil {
		m.recordFailure(strategy, err, start)
		return nil, err
	}

	selected := SelectDiverse(cands, m.cfg.DiversityMinDistance, TargetSchedules)
	report := &Report{
		RequestID:   id,
		Schedules:   make([]RankedSchedule, 0, len(selected)),
		Strategy:    strategy,
		Evaluations: evals,
		Elapsed:     time.Since(start),
	}
	for _, c := range selected {
		report.Schedules = append(report.Schedules, RankedSchedule{
			Profile:     c.Profile.Name,
			Description: c.Profile.Description,
			Lots:        ectx.Materialize(c.Chromosome),
			Objectives:  c.Evaluation.Objectives,
			Fitness:     c.Fitness,
		})
	}

	m.observe(report, cands)
	if m.bus != nil {
		m.bus.Publish(events.RunCompletedEvent{
			RequestID:   id,
			Strategy:    string(strategy),
			Schedules:   len(report.Schedules),
			Evaluations: evals,
			Elapsed:     report.Elapsed,
		})
	}
	return report, nil
}

// Cancel aborts the in-flight run, if any, and reports whether one was
// cancelled. The aborted run fails with CodeCancelled.
func (m *Manager) Cancel() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.cancel == nil {
		return false
	}
	m.cancel()
	return true
}

// Running reports whether a run is currently in flight.
func (m *Manager) Running() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cancel != nil
}

func (m *Manager) validate(req Request) error {
	if len(req.Lots) == 0 {
		return runErrorf(CodeInvalidInput, "no lots to schedule")
	}
	for _, l := range req.Lots {
		if err := l.Validate(m.cfg.GapMin, m.cfg.GapMax); err != nil {
			return wrapRunError(CodeInvalidInput, "invalid lot data", err)
		}
	}
	return nil
}

// classify turns the raw search outcome into the caller-facing contract:
// cancellation always propagates, deadline overruns degrade to the
// best-known result when one exists, and an empty pool is a timeout.
func (m *Manager) classify(searchErr error, cands []Candidate) error {
	if searchErr != nil {
		switch {
		case errors.Is(searchErr, context.Canceled):
			return wrapRunError(CodeCancelled, "optimization cancelled", searchErr)
		case errors.Is(searchErr, context.DeadlineExceeded):
			if len(cands) > 0 {
				m.log.Warnf("hard time ceiling reached, returning best-known result")
				return nil
			}
			return wrapRunError(CodeTimeout, "no evaluation completed before the time ceiling", searchErr)
		default:
			return wrapRunError(CodeInternal, "search failed", searchErr)
		}
	}
	if len(cands) == 0 {
		return runErrorf(CodeTimeout, "no full evaluation completed within the time budget")
	}
	return nil
}

func (m *Manager) observe(report *Report, pool []Candidate) {
	runsTotal.WithLabelValues(string(report.Strategy), string(CodeOK)).Inc()
	runDuration.Observe(report.Elapsed.Seconds())
	evaluationsTotal.Add(float64(report.Evaluations))
	if len(report.Schedules) > 0 {
		bestFitness.Set(report.Schedules[0].Fitness)
	}

	fits := make([]float64, len(pool))
	for i, c := range pool {
		fits[i] = c.Fitness
	}
	mean, std := stat.MeanStdDev(fits, nil)
	m.log.Debugw("candidate pool", map[string]any{
		"size":        len(pool),
		"fitness_avg": mean,
		"fitness_std": std,
	})

	recs := make([]metrics.RunRecord, 0, len(report.Schedules))
	for rank, sch := range report.Schedules {
		recs = append(recs, metrics.RunRecord{
			RequestID:   report.RequestID,
			Strategy:    string(report.Strategy),
			Profile:     sch.Profile,
			Rank:        rank,
			Fitness:     sch.Fitness,
			Conflicts:   sch.Objectives.Conflicts(),
			CycleDays:   sch.Objectives.CycleSpanDays,
			Evaluations: report.Evaluations,
			Elapsed:     report.Elapsed,
			Time:        time.Now(),
		})
	}
	if err := m.sink.RecordRun(recs); err != nil {
		m.log.Errorf("metrics sink error: %v", err)
	}
}

func (m *Manager) recordFailure(strategy Strategy, err error, start time.Time) {
	if strategy == "" {
		strategy = StrategyGenetic
	}
	runsTotal.WithLabelValues(string(strategy), string(ErrorCode(err))).Inc()
	runDuration.Observe(time.Since(start).Seconds())
	m.log.Errorf("optimization failed: %v", err)
}
