package optimizer

import (
	"context"
	"math/rand"
	"runtime"
	"sort"
	"time"

	"github.com/herdplan/herdplan/core/events"
	"github.com/herdplan/herdplan/core/logger"
	"github.com/herdplan/herdplan/internal/eventbus"
)

// yieldEveryGenerations bounds how long an attempt runs before handing the
// scheduler a chance to service other goroutines.
const yieldEveryGenerations = 4

// mutationOffsetDelta bounds the random step applied to a mutated D0 offset.
const mutationOffsetDelta = 2

// geneticSearch runs one independent, time-boxed evolutionary attempt per
// weight profile and attempt slot, contributing the best individual of each
// attempt to the shared candidate pool.
type geneticSearch struct {
	ctx   *Context
	cfg   SearchConfig
	rng   *rand.Rand
	log   logger.Logger
	bus   eventbus.EventBus
	runID string
}

// Run executes all profile attempts until the deadline. A context error
// aborts the run; an expired deadline just returns the candidates collected
// so far.
func (s *geneticSearch) Run(ctx context.Context, deadline time.Time) ([]Candidate, int64, error) {
	profiles := Profiles()
	slots := len(profiles) * s.cfg.AttemptsPerProfile
	perAttempt := time.Until(deadline) / time.Duration(slots)

	var (
		cands []Candidate
		evals int64
	)
	for _, prof := range profiles {
		for a := 0; a < s.cfg.AttemptsPerProfile; a++ {
			if err := ctx.Err(); err != nil {
				return cands, evals, err
			}
			if !time.Now().Before(deadline) {
				return cands, evals, nil
			}
			attemptDeadline := time.Now().Add(perAttempt)
			if attemptDeadline.After(deadline) {
				attemptDeadline = deadline
			}
			cand, n, err := s.attempt(ctx, prof, attemptDeadline)
			evals += n
			if err != nil {
				return cands, evals, err
			}
			cands = append(cands, cand)
			if s.bus != nil {
				s.bus.Publish(events.AttemptEvent{
					RequestID:   s.runID,
					Profile:     prof.Name,
					Attempt:     a,
					BestFitness: cand.Fitness,
					Evaluations: n,
				})
			}
			s.log.Debugw("attempt finished", map[string]any{
				"profile":     prof.Name,
				"attempt":     a,
				"fitness":     cand.Fitness,
				"evaluations": n,
			})
		}
	}
	return cands, evals, nil
}

// attempt evolves one population under the profile until its deadline and
// returns the best individual seen.
func (s *geneticSearch) attempt(ctx context.Context, prof WeightProfile, deadline time.Time) (Candidate, int64, error) {
	eval := NewEvaluator(s.ctx)
	pop := s.initialPopulation(eval, prof, deadline)

	best := pop[0].Clone()
	for _, ch := range pop {
		if ch.Fitness > best.Fitness {
			best = ch.Clone()
		}
	}

	gen := 0
	for time.Now().Before(deadline) {
		if err := ctx.Err(); err != nil {
			return Candidate{}, eval.Evaluations(), err
		}
		pop = s.nextGeneration(pop, eval, prof, deadline)
		for _, ch := range pop {
			if ch.Fitness > best.Fitness {
				best = ch.Clone()
			}
		}
		gen++
		if gen%yieldEveryGenerations == 0 {
			runtime.Gosched()
		}
	}
	return Candidate{
		Chromosome: best,
		Profile:    prof,
		Evaluation: eval.Evaluate(best),
		Fitness:    best.Fitness,
	}, eval.Evaluations(), nil
}

// initialPopulation seeds the population with a greedy construction, the
// unmodified baseline and random individuals. Keeping the baseline
// guarantees the attempt never returns something worse than the current
// calendar.
func (s *geneticSearch) initialPopulation(eval *Evaluator, prof WeightProfile, deadline time.Time) []*Chromosome {
	pop := make([]*Chromosome, 0, s.cfg.PopulationSize)

	greedy := s.greedySeed(eval, prof, deadline)
	pop = append(pop, greedy)

	baseline := s.ctx.BaselineChromosome()
	eval.Score(baseline, prof)
	pop = append(pop, baseline)

	for len(pop) < s.cfg.PopulationSize {
		ch := s.ctx.RandomChromosome(s.rng, s.cfg.MaxOffsetDays)
		eval.Score(ch, prof)
		pop = append(pop, ch)
	}
	return pop
}

// greedySeed builds one individual by fixing lots in most-constrained-first
// order (largest total span first) and locally searching each lot's offset
// window and gap combinations with incremental evaluations.
func (s *geneticSearch) greedySeed(eval *Evaluator, prof WeightProfile, deadline time.Time) *Chromosome {
	ch := s.ctx.BaselineChromosome()
	cur := eval.Evaluate(ch)
	curPen := prof.Penalty(cur)

	order := make([]int, len(s.ctx.Lots))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return s.lotSpan(order[a]) > s.lotSpan(order[b])
	})

	window := 3
	if window > s.cfg.MaxOffsetDays {
		window = s.cfg.MaxOffsetDays
	}
	combos := gapCombos(s.ctx.GapCount(), s.cfg.GapMin, s.cfg.GapMax)

	for _, i := range order {
		if !s.ctx.Movable(i) {
			continue
		}
		if !time.Now().Before(deadline) {
			break
		}
		bestGene := ch.Genes[i].clone()
		bestPen := curPen
		for off := -window; off <= window; off++ {
			for _, gaps := range combos {
				ch.Genes[i] = Gene{Offset: off, Gaps: gaps}
				ev := eval.EvaluateDelta(ch, []int{i})
				if pen := prof.Penalty(ev); pen < bestPen {
					bestPen = pen
					bestGene = ch.Genes[i].clone()
				}
			}
		}
		ch.Genes[i] = bestGene
		cur = eval.EvaluateDelta(ch, []int{i})
		curPen = prof.Penalty(cur)
	}
	eval.Score(ch, prof)
	return ch
}

// lotSpan is the lot's full-cycle length in days at baseline, used to rank
// lots by how constrained they are.
func (s *geneticSearch) lotSpan(i int) int {
	offs := s.ctx.Offsets[i]
	last := offs[len(offs)-1]
	span := last
	for _, g := range s.ctx.BaselineGaps[i] {
		span += last + g
	}
	return span
}

func (s *geneticSearch) nextGeneration(pop []*Chromosome, eval *Evaluator, prof WeightProfile, deadline time.Time) []*Chromosome {
	sort.SliceStable(pop, func(i, j int) bool { return pop[i].Fitness > pop[j].Fitness })

	next := make([]*Chromosome, 0, s.cfg.PopulationSize)
	for i := 0; i < s.cfg.EliteCount && i < len(pop); i++ {
		next = append(next, pop[i].Clone())
	}

	for len(next) < s.cfg.PopulationSize {
		// Re-check the deadline so a slow evaluation cannot overrun the
		// attempt budget by a whole generation.
		if !time.Now().Before(deadline) {
			next = append(next, pop[len(next)%len(pop)].Clone())
			continue
		}
		p1 := s.tournament(pop)
		p2 := s.tournament(pop)

		var c1, c2 *Chromosome
		if len(s.ctx.Lots) >= 2 && s.rng.Float64() < s.cfg.CrossoverRate {
			c1, c2 = twoPointCrossover(p1, p2, s.rng)
		} else {
			c1, c2 = p1.Clone(), p2.Clone()
		}

		s.mutate(c1)
		eval.Score(c1, prof)
		next = append(next, c1)
		if len(next) < s.cfg.PopulationSize {
			s.mutate(c2)
			eval.Score(c2, prof)
			next = append(next, c2)
		}
	}
	return next
}

// tournament samples k individuals and keeps the fittest.
func (s *geneticSearch) tournament(pop []*Chromosome) *Chromosome {
	best := pop[s.rng.Intn(len(pop))]
	for i := 1; i < s.cfg.TournamentSize; i++ {
		c := pop[s.rng.Intn(len(pop))]
		if c.Fitness > best.Fitness {
			best = c
		}
	}
	return best
}

// twoPointCrossover swaps the gene segment between two random cut points.
func twoPointCrossover(a, b *Chromosome, rng *rand.Rand) (*Chromosome, *Chromosome) {
	n := len(a.Genes)
	i := rng.Intn(n)
	j := rng.Intn(n)
	if i > j {
		i, j = j, i
	}
	c1 := a.Clone()
	c2 := b.Clone()
	for k := i; k <= j; k++ {
		c1.Genes[k] = b.Genes[k].clone()
		c2.Genes[k] = a.Genes[k].clone()
	}
	return c1, c2
}

// mutate perturbs each numeric field of each movable gene independently:
// offsets take a small bounded step, gaps are redrawn within bounds.
func (s *geneticSearch) mutate(ch *Chromosome) {
	for i := range ch.Genes {
		if !s.ctx.Movable(i) {
			continue
		}
		g := &ch.Genes[i]
		if s.rng.Float64() < s.cfg.MutationRate {
			delta := s.rng.Intn(2*mutationOffsetDelta+1) - mutationOffsetDelta
			g.Offset = clamp(g.Offset+delta, -s.cfg.MaxOffsetDays, s.cfg.MaxOffsetDays)
		}
		for j := range g.Gaps {
			if s.rng.Float64() < s.cfg.MutationRate {
				g.Gaps[j] = s.cfg.GapMin + s.rng.Intn(s.cfg.GapMax-s.cfg.GapMin+1)
			}
		}
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// gapCombos enumerates gap tuples over the full [min,max] range per slot,
// coarsening to {min,mid,max} when the cross product would be too large to
// scan in a greedy pass.
func gapCombos(slots, min, max int) [][]int {
	values := make([]int, 0, max-min+1)
	for v := min; v <= max; v++ {
		values = append(values, v)
	}
	if pow(len(values), slots) > 512 {
		values = dedupInts([]int{min, (min + max) / 2, max})
	}
	combos := [][]int{{}}
	for s := 0; s < slots; s++ {
		var next [][]int
		for _, c := range combos {
			for _, v := range values {
				nc := make([]int, len(c)+1)
				copy(nc, c)
				nc[len(c)] = v
				next = append(next, nc)
			}
		}
		combos = next
	}
	return combos
}

func pow(base, exp int) int {
	r := 1
	for i := 0; i < exp; i++ {
		r *= base
		if r > 1<<20 {
			return r
		}
	}
	return r
}

func dedupInts(vals []int) []int {
	seen := make(map[int]struct{}, len(vals))
	out := vals[:0]
	for _, v := range vals {
		if _, ok := seen[v]; !ok {
			seen[v] = struct{}{}
			out = append(out, v)
		}
	}
	return out
}
