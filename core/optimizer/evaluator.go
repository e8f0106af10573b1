package optimizer

import (
	"github.com/herdplan/herdplan/core/calendar"
)

// cacheCapacity bounds the signature-keyed evaluation cache of a run.
const cacheCapacity = 512

// Evaluator turns chromosomes into objective values. It keeps the aggregate
// state of the last evaluated chromosome so that a candidate differing in a
// known subset of lots can be re-scored by removing and re-adding only those
// lots' contributions. Results are cached by canonical signature with LRU
// eviction. An Evaluator is owned by a single search goroutine.
type Evaluator struct {
	ctx         *Context
	cache       *evalCache
	state       *evalState
	evaluations int64
}

// lotContribution is the part of the aggregate state one lot accounts for.
type lotContribution struct {
	weekendEarly       int
	weekendLate        int
	intervalViolations int
	offsetMagnitude    int
	gapChanges         int
	firstEpoch         int
	lastEpoch          int
}

type evalState struct {
	genes  []Gene
	perLot []lotContribution
	// days maps an epoch day to the lots touching it and the earliest
	// round each lot touches it in.
	days map[int]map[int]int
}

// NewEvaluator creates an evaluator bound to the run's context.
func NewEvaluator(ctx *Context) *Evaluator {
	return &Evaluator{ctx: ctx, cache: newEvalCache(cacheCapacity)}
}

// Evaluations returns the number of non-cached evaluations performed.
func (e *Evaluator) Evaluations() int64 { return e.evaluations }

// Evaluate computes the objectives of ch, serving repeated signatures from
// the cache.
func (e *Evaluator) Evaluate(ch *Chromosome) Evaluation {
	sig := ch.Signature()
	if ev, ok := e.cache.get(sig); ok {
		return ev
	}
	return e.full(ch, sig)
}

// EvaluateDelta re-scores ch assuming the current internal state matches ch
// everywhere except at the changed lot indices. The result is identical to a
// full recomputation; callers own the changed-set bookkeeping. A missing or
// incompatible state falls back to a full evaluation.
func (e *Evaluator) EvaluateDelta(ch *Chromosome, changed []int) Evaluation {
	if e.state == nil || len(e.state.genes) != len(ch.Genes) {
		return e.full(ch, ch.Signature())
	}
	for _, i := range changed {
		e.removeLot(i)
		e.state.genes[i] = ch.Genes[i].clone()
		e.addLot(i, e.state.genes[i])
	}
	ev := e.assemble()
	e.cache.put(ch.Signature(), ev)
	e.evaluations++
	return ev
}

// Score evaluates ch under the profile and records fitness and objectives
// snapshot on the chromosome.
func (e *Evaluator) Score(ch *Chromosome, p WeightProfile) Evaluation {
	ev := e.Evaluate(ch)
	e.record(ch, ev, p)
	return ev
}

// ScoreDelta is Score on top of an incremental evaluation.
func (e *Evaluator) ScoreDelta(ch *Chromosome, changed []int, p WeightProfile) Evaluation {
	ev := e.EvaluateDelta(ch, changed)
	e.record(ch, ev, p)
	return ev
}

func (e *Evaluator) record(ch *Chromosome, ev Evaluation, p WeightProfile) {
	ch.Fitness = FitnessFromPenalty(p.Penalty(ev))
	o := ev.Objectives
	ch.Objectives = &o
}

func (e *Evaluator) full(ch *Chromosome, sig string) Evaluation {
	st := &evalState{
		genes:  make([]Gene, len(ch.Genes)),
		perLot: make([]lotContribution, len(ch.Genes)),
		days:   make(map[int]map[int]int),
	}
	e.state = st
	for i, g := range ch.Genes {
		st.genes[i] = g.clone()
		e.addLot(i, st.genes[i])
	}
	ev := e.assemble()
	e.cache.put(sig, ev)
	e.evaluations++
	return ev
}

// addLot walks the lot's handling dates, bucketing weekend hits by round and
// recording the earliest round per touched day.
func (e *Evaluator) addLot(i int, g Gene) {
	st := e.state
	var c lotContribution
	offs := e.ctx.Offsets[i]
	last := offs[len(offs)-1]
	anchor := e.ctx.AnchorEpochs[i] + g.Offset
	start := anchor
	for k := 0; k <= len(g.Gaps); k++ {
		if k > 0 {
			start += last + g.Gaps[k-1]
		}
		for _, off := range offs {
			ep := start + off
			if calendar.IsWeekend(ep) {
				if k <= lastRoundEarly {
					c.weekendEarly++
				} else {
					c.weekendLate++
				}
			}
			m := st.days[ep]
			if m == nil {
				m = make(map[int]int, 2)
				st.days[ep] = m
			}
			if r, ok := m[i]; !ok || k < r {
				m[i] = k
			}
		}
	}
	c.firstEpoch = anchor
	c.lastEpoch = start + last
	for j, gap := range g.Gaps {
		if gap < e.ctx.GapMin || gap > e.ctx.GapMax {
			c.intervalViolations++
		}
		if gap != e.ctx.BaselineGaps[i][j] {
			c.gapChanges++
		}
	}
	c.offsetMagnitude = abs(g.Offset)
	st.perLot[i] = c
}

// removeLot undoes addLot for the lot's currently stored gene.
func (e *Evaluator) removeLot(i int) {
	st := e.state
	g := st.genes[i]
	offs := e.ctx.Offsets[i]
	last := offs[len(offs)-1]
	start := e.ctx.AnchorEpochs[i] + g.Offset
	for k := 0; k <= len(g.Gaps); k++ {
		if k > 0 {
			start += last + g.Gaps[k-1]
		}
		for _, off := range offs {
			ep := start + off
			if m := st.days[ep]; m != nil {
				delete(m, i)
				if len(m) == 0 {
					delete(st.days, ep)
				}
			}
		}
	}
	st.perLot[i] = lotContribution{}
}

// assemble folds the per-lot contributions and the day buckets into the
// final evaluation. A day with two or more lots counts once, classified by
// the earliest round of the smallest-index lot touching it.
func (e *Evaluator) assemble() Evaluation {
	st := e.state
	var ev Evaluation
	minFirst, maxLast := 0, 0
	for i, c := range st.perLot {
		ev.Objectives.WeekendEarly += c.weekendEarly
		ev.Objectives.WeekendLate += c.weekendLate
		ev.Objectives.IntervalViolations += c.intervalViolations
		ev.OffsetMagnitude += c.offsetMagnitude
		ev.GapChanges += c.gapChanges
		if i == 0 || c.firstEpoch < minFirst {
			minFirst = c.firstEpoch
		}
		if i == 0 || c.lastEpoch > maxLast {
			maxLast = c.lastEpoch
		}
	}
	ev.Objectives.CycleSpanDays = maxLast - minFirst
	for _, m := range st.days {
		if len(m) < 2 {
			continue
		}
		minIdx := -1
		for idx := range m {
			if minIdx == -1 || idx < minIdx {
				minIdx = idx
			}
		}
		if m[minIdx] <= lastRoundEarly {
			ev.Objectives.OverlapEarly++
		} else {
			ev.Objectives.OverlapLate++
		}
	}
	return ev
}
