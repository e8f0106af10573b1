package model

import (
	"fmt"
	"time"
)

// Lot is a group of animals handled together. The anchor date is the first
// handling day (D0) of round 0. RoundGaps holds the days between a round's
// last protocol offset and the next round's D0, so a lot with N gaps runs
// N+1 rounds. Lot values are immutable: every mutation goes through a WithX
// method returning a fresh value.
type Lot struct {
	ID       string
	Name     string
	Anchor   time.Time
	Protocol Protocol
	// RoundGaps has exactly rounds-1 entries, each within the configured
	// [min,max] range.
	RoundGaps []int
	Animals   int
	// Locked lots are never moved by the optimizer or the resolver.
	Locked bool
}

// Validate checks the lot against the allowed gap range.
func (l Lot) Validate(gapMin, gapMax int) error {
	if l.ID == "" {
		return fmt.Errorf("lot id is required")
	}
	if l.Anchor.IsZero() {
		return fmt.Errorf("lot %s: anchor date is required", l.ID)
	}
	if l.Protocol.Len() == 0 {
		return fmt.Errorf("lot %s: protocol is required", l.ID)
	}
	if len(l.RoundGaps) == 0 {
		return fmt.Errorf("lot %s: at least one round gap is required", l.ID)
	}
	for i, g := range l.RoundGaps {
		if g < gapMin || g > gapMax {
			return fmt.Errorf("lot %s: gap %d is %d, outside [%d,%d]", l.ID, i, g, gapMin, gapMax)
		}
	}
	if l.Animals <= 0 {
		return fmt.Errorf("lot %s: animal count must be positive", l.ID)
	}
	return nil
}

// Rounds returns the number of breeding rounds the lot runs.
func (l Lot) Rounds() int { return len(l.RoundGaps) + 1 }

// WithAnchor returns a copy of the lot with the anchor moved to d.
func (l Lot) WithAnchor(d time.Time) Lot {
	c := l.clone()
	c.Anchor = d
	return c
}

// WithAnchorShift returns a copy of the lot with the anchor shifted by days.
func (l Lot) WithAnchorShift(days int) Lot {
	return l.WithAnchor(l.Anchor.AddDate(0, 0, days))
}

// WithGaps returns a copy of the lot with the given round gaps.
func (l Lot) WithGaps(gaps []int) Lot {
	c := l.clone()
	c.RoundGaps = make([]int, len(gaps))
	copy(c.RoundGaps, gaps)
	return c
}

// WithLocked returns a copy of the lot with the locked flag set.
func (l Lot) WithLocked(locked bool) Lot {
	c := l.clone()
	c.Locked = locked
	return c
}

func (l Lot) clone() Lot {
	c := l
	c.RoundGaps = make([]int, len(l.RoundGaps))
	copy(c.RoundGaps, l.RoundGaps)
	return c
}
