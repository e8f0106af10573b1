package optimizer

import (
	"strconv"
	"strings"
)

// Gene is the adjustable state of one lot inside the search: a signed D0
// offset in days and the lot's gap values.
type Gene struct {
	Offset int
	Gaps   []int
}

func (g Gene) clone() Gene {
	cp := g
	cp.Gaps = make([]int, len(g.Gaps))
	copy(cp.Gaps, g.Gaps)
	return cp
}

// Chromosome is a full candidate solution: one gene per lot in canonical
// input order, with the scalar fitness of its last evaluation and an
// optional objectives snapshot.
type Chromosome struct {
	Genes      []Gene
	Fitness    float64
	Objectives *Objectives
}

// Clone deep-copies the chromosome.
func (c *Chromosome) Clone() *Chromosome {
	cp := &Chromosome{Genes: make([]Gene, len(c.Genes)), Fitness: c.Fitness}
	for i, g := range c.Genes {
		cp.Genes[i] = g.clone()
	}
	if c.Objectives != nil {
		o := *c.Objectives
		cp.Objectives = &o
	}
	return cp
}

// Signature returns the canonical string key of the gene values, used for
// caching and deduplication.
func (c *Chromosome) Signature() string {
	var b strings.Builder
	for _, g := range c.Genes {
		b.WriteString(strconv.Itoa(g.Offset))
		b.WriteByte(':')
		for j, v := range g.Gaps {
			if j > 0 {
				b.WriteByte(',')
			}
			b.WriteString(strconv.Itoa(v))
		}
		b.WriteByte(';')
	}
	return b.String()
}

// Distance sums, over all lots, the absolute offset difference plus the
// absolute gap differences between two chromosomes.
func Distance(a, b *Chromosome) int {
	d := 0
	for i := range a.Genes {
		d += abs(a.Genes[i].Offset - b.Genes[i].Offset)
		for j := range a.Genes[i].Gaps {
			d += abs(a.Genes[i].Gaps[j] - b.Genes[i].Gaps[j])
		}
	}
	return d
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
