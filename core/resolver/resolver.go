// Package resolver contains fast, explainable repair strategies operating
// directly on lots: a greedy local search that shifts anchors until the
// conflict count drops, and an auto-stagger that spreads anchors evenly.
// Both are lighter alternatives to the full optimizer for incremental
// nudges.
package resolver

import (
	"fmt"
	"time"

	"github.com/herdplan/herdplan/core/calendar"
	"github.com/herdplan/herdplan/core/conflict"
	"github.com/herdplan/herdplan/core/model"
)

// Options tunes the greedy conflict resolution.
type Options struct {
	// MaxShiftDays is the largest anchor shift tried in either direction.
	MaxShiftDays int
	// MaxIterations bounds the number of lot adjustments.
	MaxIterations int
	// Budget bounds the wall-clock time spent resolving.
	Budget time.Duration
	// Holidays flags holiday collisions; may be nil.
	Holidays *conflict.HolidaySet
}

// SetDefaults applies sane defaults for unset fields.
func (o *Options) SetDefaults() {
	if o.MaxShiftDays == 0 {
		o.MaxShiftDays = 6
	}
	if o.MaxIterations == 0 {
		o.MaxIterations = 50
	}
	if o.Budget == 0 {
		o.Budget = 2 * time.Second
	}
}

// Result reports the outcome of a resolution pass. Resolved is true only if
// the conflict count reached zero; otherwise Lots holds the best partial
// improvement seen.
type Result struct {
	Lots       []model.Lot
	Resolved   bool
	Conflicts  int
	Iterations int
	Message    string
}

// Resolve repeatedly picks the unlocked lot most implicated in conflicts
// and shifts its anchor by up to ±MaxShiftDays, keeping the first shift
// that reduces the total conflict count. A lot that cannot be improved is
// retired for the rest of the run. The best configuration seen is tracked
// throughout and returned even when conflicts remain.
func Resolve(lots []model.Lot, opts Options) Result {
	opts.SetDefaults()
	deadline := time.Now().Add(opts.Budget)

	current := append([]model.Lot(nil), lots...)
	count := countConflicts(current, opts.Holidays)
	best := append([]model.Lot(nil), current...)
	bestCount := count

	retired := make(map[int]bool, len(lots))
	iterations := 0

	for count > 0 && iterations < opts.MaxIterations && time.Now().Before(deadline) {
		i := mostImplicated(current, opts.Holidays, retired)
		if i < 0 {
			break
		}
		shifted, ok := tryShifts(current, i, count, opts, deadline)
		if !ok {
			retired[i] = true
			continue
		}
		current = shifted
		count = countConflicts(current, opts.Holidays)
		if count < bestCount {
			bestCount = count
			best = append([]model.Lot(nil), current...)
		}
		iterations++
	}

	res := Result{Lots: best, Conflicts: bestCount, Iterations: iterations}
	if bestCount == 0 {
		res.Resolved = true
		res.Message = fmt.Sprintf("all conflicts resolved after %d adjustments", iterations)
	} else {
		res.Message = fmt.Sprintf("%d conflicts remain after %d adjustments; best partial improvement returned", bestCount, iterations)
	}
	return res
}

// tryShifts probes anchor shifts +1, -1, +2, -2, ... and returns the lots
// with the first shift that reduces the conflict count.
func tryShifts(lots []model.Lot, i, count int, opts Options, deadline time.Time) ([]model.Lot, bool) {
	for d := 1; d <= opts.MaxShiftDays; d++ {
		for _, shift := range []int{d, -d} {
			if !time.Now().Before(deadline) {
				return nil, false
			}
			cand := append([]model.Lot(nil), lots...)
			cand[i] = cand[i].WithAnchorShift(shift)
			if countConflicts(cand, opts.Holidays) < count {
				return cand, true
			}
		}
	}
	return nil, false
}

// mostImplicated returns the index of the unlocked, non-retired lot with
// the most conflicts attributed to it, or -1 when none is eligible.
func mostImplicated(lots []model.Lot, holidays *conflict.HolidaySet, retired map[int]bool) int {
	counts := make(map[string]int, len(lots))
	for _, c := range conflict.Detect(calendar.ExpandAll(lots), holidays) {
		seen := make(map[string]struct{}, len(c.Dates))
		for _, d := range c.Dates {
			if _, ok := seen[d.LotID]; ok {
				continue
			}
			seen[d.LotID] = struct{}{}
			counts[d.LotID]++
		}
	}
	bestIdx, bestCount := -1, 0
	for i, l := range lots {
		if l.Locked || retired[i] {
			continue
		}
		if c := counts[l.ID]; c > bestCount {
			bestIdx, bestCount = i, c
		}
	}
	return bestIdx
}

func countConflicts(lots []model.Lot, holidays *conflict.HolidaySet) int {
	return len(conflict.Detect(calendar.ExpandAll(lots), holidays))
}
