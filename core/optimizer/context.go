package optimizer

import (
	"fmt"
	"math/rand"

	"github.com/herdplan/herdplan/core/calendar"
	"github.com/herdplan/herdplan/core/model"
)

// Context holds the read-only per-lot constants shared by every candidate
// evaluation of a run: anchor dates converted to epoch days, baseline gaps
// and protocol offsets, indexed by the lot's position in the input order.
// A Context belongs to exactly one run and is discarded with it.
type Context struct {
	Lots         []model.Lot
	AnchorEpochs []int
	BaselineGaps [][]int
	Offsets      [][]int
	GapMin       int
	GapMax       int
}

// NewContext precomputes the evaluation constants for the given lots.
func NewContext(lots []model.Lot, cfg SearchConfig) (*Context, error) {
	if len(lots) == 0 {
		return nil, fmt.Errorf("optimizer: no lots to schedule")
	}
	gaps := len(lots[0].RoundGaps)
	ctx := &Context{
		Lots:         lots,
		AnchorEpochs: make([]int, len(lots)),
		BaselineGaps: make([][]int, len(lots)),
		Offsets:      make([][]int, len(lots)),
		GapMin:       cfg.GapMin,
		GapMax:       cfg.GapMax,
	}
	for i, l := range lots {
		if len(l.RoundGaps) != gaps {
			return nil, fmt.Errorf("optimizer: lot %s has %d gaps, expected %d", l.ID, len(l.RoundGaps), gaps)
		}
		ctx.AnchorEpochs[i] = calendar.EpochDay(l.Anchor)
		ctx.BaselineGaps[i] = append([]int(nil), l.RoundGaps...)
		ctx.Offsets[i] = l.Protocol.Offsets()
	}
	return ctx, nil
}

// GapCount returns the number of gap values per lot.
func (c *Context) GapCount() int { return len(c.BaselineGaps[0]) }

// Rounds returns the number of rounds every lot runs.
func (c *Context) Rounds() int { return c.GapCount() + 1 }

// Movable reports whether the search may adjust lot i.
func (c *Context) Movable(i int) bool { return !c.Lots[i].Locked }

// BaselineGene returns lot i's unmodified gene.
func (c *Context) BaselineGene(i int) Gene {
	return Gene{Offset: 0, Gaps: append([]int(nil), c.BaselineGaps[i]...)}
}

// BaselineChromosome returns the unmodified calendar as a chromosome.
func (c *Context) BaselineChromosome() *Chromosome {
	ch := &Chromosome{Genes: make([]Gene, len(c.Lots))}
	for i := range c.Lots {
		ch.Genes[i] = c.BaselineGene(i)
	}
	return ch
}

// RandomChromosome draws a chromosome uniformly within the configured
// bounds. Locked lots keep their baseline gene.
func (c *Context) RandomChromosome(rng *rand.Rand, maxOffset int) *Chromosome {
	ch := &Chromosome{Genes: make([]Gene, len(c.Lots))}
	for i := range c.Lots {
		if !c.Movable(i) {
			ch.Genes[i] = c.BaselineGene(i)
			continue
		}
		g := Gene{
			Offset: rng.Intn(2*maxOffset+1) - maxOffset,
			Gaps:   make([]int, c.GapCount()),
		}
		for j := range g.Gaps {
			g.Gaps[j] = c.GapMin + rng.Intn(c.GapMax-c.GapMin+1)
		}
		ch.Genes[i] = g
	}
	return ch
}

// Materialize applies the chromosome back onto the input lots, producing the
// adjusted lot list of a final schedule.
func (c *Context) Materialize(ch *Chromosome) []model.Lot {
	out := make([]model.Lot, len(c.Lots))
	for i, l := range c.Lots {
		g := ch.Genes[i]
		out[i] = l.WithAnchorShift(g.Offset).WithGaps(g.Gaps)
	}
	return out
}
