package resolver

import (
	"fmt"

	"github.com/herdplan/herdplan/core/calendar"
	"github.com/herdplan/herdplan/core/model"
)

// AutoStagger returns a copy of lots whose anchors are spaced exactly
// spacing days apart in input order. Locked lots keep their anchor and
// become the reference point for the lots that follow them.
func AutoStagger(lots []model.Lot, spacing int) ([]model.Lot, error) {
	if spacing <= 0 {
		return nil, fmt.Errorf("stagger spacing must be positive, got %d", spacing)
	}
	out := make([]model.Lot, len(lots))
	prev := 0
	havePrev := false
	for i, l := range lots {
		if l.Locked || !havePrev {
			out[i] = l
			prev = calendar.EpochDay(l.Anchor)
			havePrev = true
			continue
		}
		prev += spacing
		out[i] = l.WithAnchor(calendar.Date(prev))
	}
	return out, nil
}
