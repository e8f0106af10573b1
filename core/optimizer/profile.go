package optimizer

import "gonum.org/v1/gonum/floats"

// WeightProfile scalarizes the six objectives into one penalty. Each
// predefined profile encodes one trade-off philosophy; the optimizer runs an
// independent search per profile so the caller receives several distinct
// schedules to choose from.
type WeightProfile struct {
	Name        string
	Description string

	WeekendEarly      float64
	WeekendLate       float64
	OverlapEarly      float64
	OverlapLate       float64
	CycleSpan         float64
	IntervalViolation float64

	// OffsetChange penalizes every day of D0 offset, GapChange every gap
	// value differing from the baseline. Zero disables the term.
	OffsetChange float64
	GapChange    float64
}

var (
	// ProfileConflictFirst drives early-round conflicts to zero before
	// anything else.
	ProfileConflictFirst = WeightProfile{
		Name:              "conflict-first",
		Description:       "eliminate handling-day conflicts, especially in the first two rounds",
		WeekendEarly:      12,
		WeekendLate:       4,
		OverlapEarly:      15,
		OverlapLate:       5,
		CycleSpan:         0.05,
		IntervalViolation: 50,
	}

	// ProfileCompact favors the shortest overall cycle.
	ProfileCompact = WeightProfile{
		Name:              "compact",
		Description:       "shortest total cycle, tolerating some late-round conflicts",
		WeekendEarly:      4,
		WeekendLate:       1,
		OverlapEarly:      5,
		OverlapLate:       2,
		CycleSpan:         1.5,
		IntervalViolation: 50,
	}

	// ProfileBalanced is the reference profile used for cross-profile
	// re-ranking.
	ProfileBalanced = WeightProfile{
		Name:              "balanced",
		Description:       "balance conflicts against cycle length",
		WeekendEarly:      8,
		WeekendLate:       2,
		OverlapEarly:      10,
		OverlapLate:       3,
		CycleSpan:         0.5,
		IntervalViolation: 50,
	}

	// ProfileConservative prefers schedules close to the current calendar.
	ProfileConservative = WeightProfile{
		Name:              "conservative",
		Description:       "fix conflicts with as few changes to the current calendar as possible",
		WeekendEarly:      8,
		WeekendLate:       2,
		OverlapEarly:      10,
		OverlapLate:       3,
		CycleSpan:         0.3,
		IntervalViolation: 50,
		OffsetChange:      1.5,
		GapChange:         2.5,
	}
)

// Profiles returns the four predefined profiles in search order.
func Profiles() []WeightProfile {
	return []WeightProfile{ProfileConflictFirst, ProfileCompact, ProfileBalanced, ProfileConservative}
}

func (p WeightProfile) vector() []float64 {
	return []float64{p.WeekendEarly, p.WeekendLate, p.OverlapEarly, p.OverlapLate, p.CycleSpan, p.IntervalViolation}
}

// Penalty scalarizes an evaluation under this profile.
func (p WeightProfile) Penalty(ev Evaluation) float64 {
	pen := floats.Dot(p.vector(), ev.Objectives.vector())
	if p.OffsetChange > 0 {
		pen += float64(ev.OffsetMagnitude) * p.OffsetChange
	}
	if p.GapChange > 0 {
		pen += float64(ev.GapChanges) * p.GapChange
	}
	return pen
}

// FitnessFromPenalty maps a penalty to (0,1]; higher is better and the value
// is never exactly zero.
func FitnessFromPenalty(pen float64) float64 {
	return 1 / (1 + pen)
}
