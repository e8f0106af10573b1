package optimizer

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/herdplan/herdplan/core/events"
	"github.com/herdplan/herdplan/core/logger"
	"github.com/herdplan/herdplan/internal/eventbus"
)

// Dispatcher picks the search strategy for an instance and falls back from
// the exhaustive to the genetic path when the former fails internally.
type Dispatcher struct {
	ctx   *Context
	cfg   SearchConfig
	rng   *rand.Rand
	log   logger.Logger
	bus   eventbus.EventBus
	runID string
}

// NewDispatcher wires a dispatcher for one run. bus may be nil.
func NewDispatcher(ctx *Context, cfg SearchConfig, rng *rand.Rand, log logger.Logger, bus eventbus.EventBus, runID string) *Dispatcher {
	return &Dispatcher{ctx: ctx, cfg: cfg, rng: rng, log: log, bus: bus, runID: runID}
}

// Search runs the chosen strategy until the deadline and reports which one
// executed together with the number of candidate evaluations performed.
func (d *Dispatcher) Search(ctx context.Context, deadline time.Time) ([]Candidate, Strategy, int64, error) {
	var total int64
	if d.cfg.Exhaustive.Enabled && len(d.ctx.Lots) <= d.cfg.Exhaustive.MaxLots {
		d.publish(events.StrategyEvent{RequestID: d.runID, Strategy: string(StrategyExhaustive), Action: "attempt"})
		d.log.Debugf("trying exhaustive search for %d lots", len(d.ctx.Lots))
		cands, n, err := d.runExhaustive(ctx, deadline)
		total += n
		if err == nil {
			return cands, StrategyExhaustive, total, nil
		}
		if ctx.Err() != nil {
			return nil, StrategyExhaustive, total, err
		}
		d.log.Warnf("exhaustive search failed, falling back to genetic: %v", err)
		d.publish(events.StrategyEvent{RequestID: d.runID, Strategy: string(StrategyExhaustive), Action: "failure", Err: err})
		d.publish(events.StrategyEvent{RequestID: d.runID, Strategy: string(StrategyGenetic), Action: "fallback"})
	}

	gs := &geneticSearch{ctx: d.ctx, cfg: d.cfg, rng: d.rng, log: d.log, bus: d.bus, runID: d.runID}
	cands, n, err := gs.Run(ctx, deadline)
	total += n
	return cands, StrategyGenetic, total, err
}

// runExhaustive isolates the exhaustive path so an internal panic becomes a
// recoverable error instead of failing the whole run.
func (d *Dispatcher) runExhaustive(ctx context.Context, deadline time.Time) (cands []Candidate, n int64, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("exhaustive search panicked: %v", r)
		}
	}()
	es := &exhaustiveSearch{ctx: d.ctx, cfg: d.cfg, log: d.log, bus: d.bus, runID: d.runID}
	return es.Run(ctx, deadline)
}

func (d *Dispatcher) publish(e events.StrategyEvent) {
	if d.bus != nil {
		d.bus.Publish(e)
	}
}
