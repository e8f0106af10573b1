package optimizer

import (
	"math/rand"
	"testing"
	"time"

	"github.com/herdplan/herdplan/core/model"
)

func testConfig() SearchConfig {
	cfg := SearchConfig{}
	cfg.SetDefaults()
	cfg.TimeBudgetMS = 500
	return cfg
}

func testLots(anchors ...time.Time) []model.Lot {
	lots := make([]model.Lot, len(anchors))
	for i, a := range anchors {
		lots[i] = model.Lot{
			ID:        string(rune('a' + i)),
			Anchor:    a,
			Protocol:  model.ProtocolStandard,
			RoundGaps: []int{22, 22},
			Animals:   20,
		}
	}
	return lots
}

// monday is 2026-03-02.
var monday = time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

func testContext(t *testing.T, lots []model.Lot) *Context {
	t.Helper()
	ctx, err := NewContext(lots, testConfig())
	if err != nil {
		t.Fatalf("context: %v", err)
	}
	return ctx
}

func TestEvaluateBaselineSingleLot(t *testing.T) {
	lots := []model.Lot{{
		ID:        "a",
		Anchor:    monday,
		Protocol:  model.ProtocolStandard,
		RoundGaps: []int{22},
		Animals:   20,
	}}
	ctx := testContext(t, lots)
	eval := NewEvaluator(ctx)
	ev := eval.Evaluate(ctx.BaselineChromosome())

	// Round 0 from Monday: D0 Mon, D7 Mon, D9 Wed. Round 1 starts 9+22 days
	// later on Thursday: D0 Thu, D7 Thu, D9 Sat.
	if ev.Objectives.WeekendEarly != 1 || ev.Objectives.WeekendLate != 0 {
		t.Fatalf("unexpected weekend counts: %+v", ev.Objectives)
	}
	if ev.Objectives.OverlapEarly != 0 || ev.Objectives.OverlapLate != 0 {
		t.Fatalf("single lot cannot overlap: %+v", ev.Objectives)
	}
	if ev.Objectives.CycleSpanDays != 40 {
		t.Fatalf("expected span 40 got %d", ev.Objectives.CycleSpanDays)
	}
	if ev.Objectives.IntervalViolations != 0 || ev.OffsetMagnitude != 0 || ev.GapChanges != 0 {
		t.Fatalf("baseline should carry no change terms: %+v", ev)
	}
}

func TestEvaluateWeekendCountsExactDateOnly(t *testing.T) {
	// Saturday anchor with a single-day protocol: only the anchor itself is
	// a weekend hit; the next round lands on a Monday.
	lots := []model.Lot{{
		ID:        "a",
		Anchor:    monday.AddDate(0, 0, 5),
		Protocol:  model.ProtocolSingle,
		RoundGaps: []int{23},
		Animals:   5,
	}}
	ctx := testContext(t, lots)
	ev := NewEvaluator(ctx).Evaluate(ctx.BaselineChromosome())
	if ev.Objectives.WeekendEarly != 1 || ev.Objectives.WeekendLate != 0 {
		t.Fatalf("expected exactly one weekend hit, got %+v", ev.Objectives)
	}
}

func TestEvaluateOverlapTwoLots(t *testing.T) {
	ctx := testContext(t, testLots(monday, monday))
	eval := NewEvaluator(ctx)
	ev := eval.Evaluate(ctx.BaselineChromosome())

	// Identical lots collide on every one of the 9 handling days: 6 in
	// rounds 0-1, 3 in round 2.
	if ev.Objectives.OverlapEarly != 6 {
		t.Fatalf("expected 6 early overlaps got %d", ev.Objectives.OverlapEarly)
	}
	if ev.Objectives.OverlapLate != 3 {
		t.Fatalf("expected 3 late overlaps got %d", ev.Objectives.OverlapLate)
	}
}

func TestEvaluateIntervalViolations(t *testing.T) {
	ctx := testContext(t, testLots(monday))
	eval := NewEvaluator(ctx)
	ch := ctx.BaselineChromosome()
	ch.Genes[0].Gaps = []int{19, 25}
	ev := eval.Evaluate(ch)
	if ev.Objectives.IntervalViolations != 2 {
		t.Fatalf("expected 2 violations got %d", ev.Objectives.IntervalViolations)
	}
	if ev.GapChanges != 2 {
		t.Fatalf("expected 2 gap changes got %d", ev.GapChanges)
	}
}

func TestEvaluateOffsetMagnitude(t *testing.T) {
	ctx := testContext(t, testLots(monday, monday.AddDate(0, 0, 14)))
	eval := NewEvaluator(ctx)
	ch := ctx.BaselineChromosome()
	ch.Genes[0].Offset = -3
	ch.Genes[1].Offset = 2
	ev := eval.Evaluate(ch)
	if ev.OffsetMagnitude != 5 {
		t.Fatalf("expected magnitude 5 got %d", ev.OffsetMagnitude)
	}
}

func TestEvaluateDeltaMatchesFull(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	ctx := testContext(t, testLots(monday, monday.AddDate(0, 0, 3), monday.AddDate(0, 0, 11)))

	eval := NewEvaluator(ctx)
	cur := ctx.RandomChromosome(rng, 6)
	eval.Evaluate(cur)

	for iter := 0; iter < 200; iter++ {
		next := cur.Clone()
		i := rng.Intn(len(next.Genes))
		next.Genes[i].Offset = rng.Intn(13) - 6
		for j := range next.Genes[i].Gaps {
			next.Genes[i].Gaps[j] = 20 + rng.Intn(5)
		}

		delta := eval.EvaluateDelta(next, []int{i})
		full := NewEvaluator(ctx).Evaluate(next)
		if delta != full {
			t.Fatalf("iteration %d: delta %+v != full %+v", iter, delta, full)
		}
		cur = next
	}
}

func TestEvaluateDeltaWithoutStateFallsBack(t *testing.T) {
	ctx := testContext(t, testLots(monday, monday))
	eval := NewEvaluator(ctx)
	ch := ctx.BaselineChromosome()
	delta := eval.EvaluateDelta(ch, []int{0})
	full := NewEvaluator(ctx).Evaluate(ch)
	if delta != full {
		t.Fatalf("fresh delta %+v != full %+v", delta, full)
	}
}

func TestEvaluateCacheHits(t *testing.T) {
	ctx := testContext(t, testLots(monday, monday))
	eval := NewEvaluator(ctx)
	ch := ctx.BaselineChromosome()
	first := eval.Evaluate(ch)
	n := eval.Evaluations()
	second := eval.Evaluate(ch.Clone())
	if eval.Evaluations() != n {
		t.Fatalf("repeated signature not served from cache")
	}
	if first != second {
		t.Fatalf("cache returned different evaluation")
	}
}

func TestEvalCacheEviction(t *testing.T) {
	c := newEvalCache(2)
	c.put("a", Evaluation{OffsetMagnitude: 1})
	c.put("b", Evaluation{OffsetMagnitude: 2})
	if _, ok := c.get("a"); !ok {
		t.Fatalf("a missing before eviction")
	}
	// a was just touched, so adding c evicts b.
	c.put("c", Evaluation{OffsetMagnitude: 3})
	if _, ok := c.get("b"); ok {
		t.Fatalf("b should have been evicted")
	}
	if _, ok := c.get("a"); !ok {
		t.Fatalf("a should have survived")
	}
	if c.len() != 2 {
		t.Fatalf("expected len 2 got %d", c.len())
	}
}
