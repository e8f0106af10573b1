package optimizer

import (
	"context"
	"math/rand"
	"testing"
	"time"
)

type nopLogger struct{}

func (nopLogger) Debugf(string, ...any)         {}
func (nopLogger) Debugw(string, map[string]any) {}
func (nopLogger) Infof(string, ...any)          {}
func (nopLogger) Warnf(string, ...any)          {}
func (nopLogger) Errorf(string, ...any)         {}

func TestGeneticBestAtLeastBaseline(t *testing.T) {
	// Two colliding lots anchored on the same Monday leave plenty of room
	// for improvement; every attempt seeds the baseline, so the best
	// individual can never score below it under its own profile.
	ctx := testContext(t, testLots(monday, monday))
	cfg := testConfig()
	cfg.PopulationSize = 20

	s := &geneticSearch{ctx: ctx, cfg: cfg, rng: rand.New(rand.NewSource(11)), log: nopLogger{}}
	cands, evals, err := s.Run(context.Background(), time.Now().Add(cfg.TimeBudget()))
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if evals == 0 {
		t.Fatalf("no evaluations performed")
	}
	if len(cands) == 0 {
		t.Fatalf("no candidates returned")
	}

	base := ctx.BaselineChromosome()
	for _, c := range cands {
		ev := NewEvaluator(ctx).Evaluate(base)
		baseFit := FitnessFromPenalty(c.Profile.Penalty(ev))
		if c.Fitness < baseFit {
			t.Fatalf("profile %s: best %f below baseline %f", c.Profile.Name, c.Fitness, baseFit)
		}
	}
}

func TestGeneticReducesOverlaps(t *testing.T) {
	// Two identical lots over four rounds collide on every handling day; a
	// conflict-first run must come back with fewer overlap days.
	lots := testLots(monday, monday)
	for i := range lots {
		lots[i].RoundGaps = []int{22, 22, 22}
	}
	ctx := testContext(t, lots)
	cfg := testConfig()
	cfg.TimeBudgetMS = 1000

	base := NewEvaluator(ctx).Evaluate(ctx.BaselineChromosome())
	baseOverlaps := base.Objectives.OverlapEarly + base.Objectives.OverlapLate
	if baseOverlaps == 0 {
		t.Fatalf("scenario broken: baseline has no overlaps")
	}

	s := &geneticSearch{ctx: ctx, cfg: cfg, rng: rand.New(rand.NewSource(17)), log: nopLogger{}}
	cands, _, err := s.Run(context.Background(), time.Now().Add(cfg.TimeBudget()))
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	for _, c := range cands {
		if c.Profile.Name != ProfileConflictFirst.Name {
			continue
		}
		got := c.Evaluation.Objectives.OverlapEarly + c.Evaluation.Objectives.OverlapLate
		if got >= baseOverlaps {
			t.Fatalf("conflict-first run did not reduce overlaps: %d >= %d", got, baseOverlaps)
		}
	}
}

func TestGeneticRespectsLockedLots(t *testing.T) {
	lots := testLots(monday, monday)
	lots[0].Locked = true
	ctx := testContext(t, lots)
	cfg := testConfig()
	cfg.TimeBudgetMS = 200
	cfg.PopulationSize = 12

	s := &geneticSearch{ctx: ctx, cfg: cfg, rng: rand.New(rand.NewSource(3)), log: nopLogger{}}
	cands, _, err := s.Run(context.Background(), time.Now().Add(cfg.TimeBudget()))
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	baseGene := ctx.BaselineGene(0)
	for _, c := range cands {
		g := c.Chromosome.Genes[0]
		if g.Offset != baseGene.Offset {
			t.Fatalf("locked lot offset moved to %d", g.Offset)
		}
		for j, v := range g.Gaps {
			if v != baseGene.Gaps[j] {
				t.Fatalf("locked lot gap %d moved to %d", j, v)
			}
		}
	}
}

func TestGeneticContextCancellation(t *testing.T) {
	ectx := testContext(t, testLots(monday, monday))
	cfg := testConfig()
	cfg.TimeBudgetMS = 10000

	cctx, cancel := context.WithCancel(context.Background())
	cancel()
	s := &geneticSearch{ctx: ectx, cfg: cfg, rng: rand.New(rand.NewSource(1)), log: nopLogger{}}
	_, _, err := s.Run(cctx, time.Now().Add(cfg.TimeBudget()))
	if err == nil {
		t.Fatalf("expected context error")
	}
}

func TestMutateClampsOffsets(t *testing.T) {
	ctx := testContext(t, testLots(monday))
	cfg := testConfig()
	cfg.MutationRate = 1
	s := &geneticSearch{ctx: ctx, cfg: cfg, rng: rand.New(rand.NewSource(5))}
	for i := 0; i < 100; i++ {
		ch := ctx.BaselineChromosome()
		ch.Genes[0].Offset = cfg.MaxOffsetDays
		s.mutate(ch)
		g := ch.Genes[0]
		if g.Offset < -cfg.MaxOffsetDays || g.Offset > cfg.MaxOffsetDays {
			t.Fatalf("offset %d escapes bounds", g.Offset)
		}
		for _, v := range g.Gaps {
			if v < cfg.GapMin || v > cfg.GapMax {
				t.Fatalf("gap %d escapes bounds", v)
			}
		}
	}
}

func TestTwoPointCrossoverKeepsGenePool(t *testing.T) {
	ctx := testContext(t, testLots(monday, monday.AddDate(0, 0, 2), monday.AddDate(0, 0, 4)))
	rng := rand.New(rand.NewSource(9))
	a := ctx.RandomChromosome(rng, 6)
	b := ctx.RandomChromosome(rng, 6)
	c1, c2 := twoPointCrossover(a, b, rng)
	for i := range a.Genes {
		fromA := c1.Genes[i].Offset == a.Genes[i].Offset
		fromB := c1.Genes[i].Offset == b.Genes[i].Offset
		if !fromA && !fromB {
			t.Fatalf("child gene %d from neither parent", i)
		}
		if c2.Genes[i].Offset != a.Genes[i].Offset && c2.Genes[i].Offset != b.Genes[i].Offset {
			t.Fatalf("second child gene %d from neither parent", i)
		}
	}
}

func TestGapCombos(t *testing.T) {
	combos := gapCombos(1, 20, 24)
	if len(combos) != 5 {
		t.Fatalf("expected 5 combos got %d", len(combos))
	}
	// A large cross product falls back to the coarse {min,mid,max} grid.
	coarse := gapCombos(5, 0, 30)
	if len(coarse) != 3*3*3*3*3 {
		t.Fatalf("expected coarse grid of 243 got %d", len(coarse))
	}
}
