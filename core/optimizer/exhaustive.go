package optimizer

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/herdplan/herdplan/core/logger"
	"github.com/herdplan/herdplan/internal/eventbus"
)

// errBudgetExhausted unwinds the recursion when the deadline or the
// evaluation cap is hit. It never leaves the exhaustive search.
var errBudgetExhausted = errors.New("search budget exhausted")

// poolTrimFactor and poolKeepFactor bound the per-profile candidate pool:
// the pool is trimmed back to TargetSchedules*poolKeepFactor entries
// whenever it grows past TargetSchedules*poolTrimFactor.
const (
	poolTrimFactor = 8
	poolKeepFactor = 4
)

// assignment is one discretized domain choice for a lot, ordered by its
// distance from the baseline so cheap assignments are explored first.
type assignment struct {
	gene Gene
	dist int
}

// exhaustiveSearch enumerates the discretized per-lot assignment space for
// small herds, one lot fixed per recursion level, evaluating only full
// assignments.
type exhaustiveSearch struct {
	ctx   *Context
	cfg   SearchConfig
	log   logger.Logger
	bus   eventbus.EventBus
	runID string
}

type pooled struct {
	ch      *Chromosome
	profile WeightProfile
	fitness float64
}

// Run searches every profile, re-ranks the collected pool under the
// balanced reference profile and tops it up with synthetic fallbacks so at
// least TargetSchedules candidates come back whenever the pool allows.
func (s *exhaustiveSearch) Run(ctx context.Context, deadline time.Time) ([]Candidate, int64, error) {
	if n := len(s.ctx.Lots); n > s.cfg.Exhaustive.MaxLots {
		return nil, 0, fmt.Errorf("exhaustive search: %d lots exceed limit %d", n, s.cfg.Exhaustive.MaxLots)
	}

	domains := make([][]assignment, len(s.ctx.Lots))
	for i := range s.ctx.Lots {
		domains[i] = buildDomain(s.ctx, s.cfg, i)
	}

	var evals int64
	pool := make(map[string]pooled)
	for _, prof := range Profiles() {
		if err := ctx.Err(); err != nil {
			return nil, evals, err
		}
		eval := NewEvaluator(s.ctx)
		ch := &Chromosome{Genes: make([]Gene, len(s.ctx.Lots))}
		leaves := int64(0)
		err := s.dfs(ctx, deadline, eval, prof, domains, ch, 0, pool, &leaves)
		evals += eval.Evaluations()
		if err != nil && !errors.Is(err, errBudgetExhausted) {
			return nil, evals, err
		}
		s.trim(pool, TargetSchedules*poolTrimFactor, TargetSchedules*poolKeepFactor)
	}

	ref := NewEvaluator(s.ctx)
	if len(pool) == 0 {
		// Guaranteed fallback: the unmodified calendar is always a valid
		// result.
		base := s.ctx.BaselineChromosome()
		ref.Score(base, ProfileBalanced)
		pool[base.Signature()] = pooled{ch: base, profile: ProfileBalanced, fitness: base.Fitness}
	}

	cands := s.rerank(ref, pool)
	cands = s.backfill(ref, cands)
	evals += ref.Evaluations()
	return cands, evals, nil
}

func (s *exhaustiveSearch) dfs(ctx context.Context, deadline time.Time, eval *Evaluator, prof WeightProfile, domains [][]assignment, ch *Chromosome, level int, pool map[string]pooled, leaves *int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !time.Now().Before(deadline) {
		return errBudgetExhausted
	}
	if *leaves >= int64(s.cfg.Exhaustive.MaxEvaluations) {
		return errBudgetExhausted
	}
	if level == len(domains) {
		*leaves++
		ev := eval.Evaluate(ch)
		fit := FitnessFromPenalty(prof.Penalty(ev))
		sig := ch.Signature()
		if cur, ok := pool[sig]; !ok || fit > cur.fitness {
			cp := ch.Clone()
			cp.Fitness = fit
			o := ev.Objectives
			cp.Objectives = &o
			pool[sig] = pooled{ch: cp, profile: prof, fitness: fit}
		}
		if len(pool) > TargetSchedules*poolTrimFactor {
			s.trim(pool, TargetSchedules*poolTrimFactor, TargetSchedules*poolKeepFactor)
		}
		return nil
	}
	for _, a := range domains[level] {
		ch.Genes[level] = a.gene
		if err := s.dfs(ctx, deadline, eval, prof, domains, ch, level+1, pool, leaves); err != nil {
			return err
		}
	}
	return nil
}

// trim keeps only the best keep entries once the pool exceeds limit.
func (s *exhaustiveSearch) trim(pool map[string]pooled, limit, keep int) {
	if len(pool) <= limit {
		return
	}
	entries := make([]pooled, 0, len(pool))
	for _, p := range pool {
		entries = append(entries, p)
	}
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].fitness > entries[j].fitness })
	for _, p := range entries[keep:] {
		delete(pool, p.ch.Signature())
	}
}

// rerank re-scores every pooled candidate under the balanced reference
// profile so candidates found under different profiles compare fairly.
func (s *exhaustiveSearch) rerank(ref *Evaluator, pool map[string]pooled) []Candidate {
	cands := make([]Candidate, 0, len(pool))
	for _, p := range pool {
		ev := ref.Evaluate(p.ch)
		fit := FitnessFromPenalty(ProfileBalanced.Penalty(ev))
		p.ch.Fitness = fit
		o := ev.Objectives
		p.ch.Objectives = &o
		cands = append(cands, Candidate{Chromosome: p.ch, Profile: p.profile, Evaluation: ev, Fitness: fit})
	}
	sort.SliceStable(cands, func(i, j int) bool { return cands[i].Fitness > cands[j].Fitness })
	return cands
}

// backfill adds synthetic fallback chromosomes until TargetSchedules
// candidates exist or the synthetics are exhausted.
func (s *exhaustiveSearch) backfill(ref *Evaluator, cands []Candidate) []Candidate {
	if len(cands) >= TargetSchedules {
		return cands
	}
	seen := make(map[string]struct{}, len(cands))
	for _, c := range cands {
		seen[c.Chromosome.Signature()] = struct{}{}
	}
	for _, ch := range s.synthetics() {
		if len(cands) >= TargetSchedules {
			break
		}
		sig := ch.Signature()
		if _, ok := seen[sig]; ok {
			continue
		}
		seen[sig] = struct{}{}
		ev := ref.Score(ch, ProfileBalanced)
		cands = append(cands, Candidate{Chromosome: ch, Profile: ProfileBalanced, Evaluation: ev, Fitness: ch.Fitness})
	}
	sort.SliceStable(cands, func(i, j int) bool { return cands[i].Fitness > cands[j].Fitness })
	return cands
}

// synthetics are simple, always-valid fallback solutions: the baseline,
// uniform one-day shifts in both directions and fully compressed or
// stretched gaps. Locked lots stay at baseline in all of them.
func (s *exhaustiveSearch) synthetics() []*Chromosome {
	uniformOffset := func(off int) *Chromosome {
		ch := s.ctx.BaselineChromosome()
		for i := range ch.Genes {
			if s.ctx.Movable(i) {
				ch.Genes[i].Offset = off
			}
		}
		return ch
	}
	uniformGaps := func(gap int) *Chromosome {
		ch := s.ctx.BaselineChromosome()
		for i := range ch.Genes {
			if !s.ctx.Movable(i) {
				continue
			}
			for j := range ch.Genes[i].Gaps {
				ch.Genes[i].Gaps[j] = gap
			}
		}
		return ch
	}
	return []*Chromosome{
		s.ctx.BaselineChromosome(),
		uniformOffset(1),
		uniformOffset(-1),
		uniformGaps(s.cfg.GapMin),
		uniformGaps(s.cfg.GapMax),
	}
}

// buildDomain discretizes one lot's assignment space: offsets up to the
// configured magnitude in both signs crossed with gap tuples drawn from
// {baseline, min, midpoint, max} per slot, deduplicated and sorted by
// distance from the baseline.
func buildDomain(ctx *Context, cfg SearchConfig, i int) []assignment {
	if !ctx.Movable(i) {
		return []assignment{{gene: ctx.BaselineGene(i)}}
	}

	offsets := []int{0}
	for o := 1; o <= cfg.MaxOffsetDays; o++ {
		offsets = append(offsets, o, -o)
	}

	baseline := ctx.BaselineGaps[i]
	mid := (cfg.GapMin + cfg.GapMax) / 2
	slotValues := make([][]int, len(baseline))
	for j, b := range baseline {
		slotValues[j] = dedupInts([]int{b, cfg.GapMin, mid, cfg.GapMax})
	}

	tuples := [][]int{{}}
	for _, vals := range slotValues {
		var next [][]int
		for _, t := range tuples {
			for _, v := range vals {
				nt := make([]int, len(t)+1)
				copy(nt, t)
				nt[len(t)] = v
				next = append(next, nt)
			}
		}
		tuples = next
	}

	var out []assignment
	seen := make(map[string]struct{})
	for _, off := range offsets {
		for _, t := range tuples {
			g := Gene{Offset: off, Gaps: append([]int(nil), t...)}
			sig := (&Chromosome{Genes: []Gene{g}}).Signature()
			if _, ok := seen[sig]; ok {
				continue
			}
			seen[sig] = struct{}{}
			d := abs(off)
			for j, v := range t {
				d += abs(v - baseline[j])
			}
			out = append(out, assignment{gene: g, dist: d})
		}
	}
	sort.SliceStable(out, func(a, b int) bool { return out[a].dist < out[b].dist })
	return out
}
