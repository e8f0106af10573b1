package optimizer

// Objectives are the six raw optimization criteria of a candidate schedule.
// "Early" means rounds 0 and 1, where conflicts hurt most operationally;
// "late" covers every later round.
type Objectives struct {
	WeekendEarly       int `json:"weekend_early"`
	WeekendLate        int `json:"weekend_late"`
	OverlapEarly       int `json:"overlap_early"`
	OverlapLate        int `json:"overlap_late"`
	CycleSpanDays      int `json:"cycle_span_days"`
	IntervalViolations int `json:"interval_violations"`
}

func (o Objectives) vector() []float64 {
	return []float64{
		float64(o.WeekendEarly),
		float64(o.WeekendLate),
		float64(o.OverlapEarly),
		float64(o.OverlapLate),
		float64(o.CycleSpanDays),
		float64(o.IntervalViolations),
	}
}

// Conflicts returns the total weekend and overlap conflict count.
func (o Objectives) Conflicts() int {
	return o.WeekendEarly + o.WeekendLate + o.OverlapEarly + o.OverlapLate
}

// Evaluation is the weight-independent outcome of evaluating a chromosome:
// the six objectives plus the change terms used by profiles that penalize
// deviation from the baseline calendar.
type Evaluation struct {
	Objectives      Objectives
	OffsetMagnitude int
	GapChanges      int
}

// lastRoundEarly is the last round index counted as "early".
const lastRoundEarly = 1
