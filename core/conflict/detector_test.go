package conflict

import (
	"testing"
	"time"

	"github.com/herdplan/herdplan/core/calendar"
	"github.com/herdplan/herdplan/core/model"
)

// monday is 2026-03-02.
var monday = time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

func lot(id string, anchor time.Time) model.Lot {
	return model.Lot{ID: id, Anchor: anchor, Protocol: model.ProtocolStandard, RoundGaps: []int{22}, Animals: 10}
}

func TestDetectWeekend(t *testing.T) {
	// Anchored on Monday, D0 and D7 land on weekdays and D9 on Wednesday;
	// shifting the anchor to Saturday puts D0 on a weekend.
	sat := monday.AddDate(0, 0, 5)
	conflicts := Detect(calendar.Expand(lot("l1", sat)), nil)
	var weekends int
	for _, c := range conflicts {
		if c.Kind == KindOverlap {
			t.Fatalf("single lot cannot overlap")
		}
		if c.Kind == KindWeekend {
			weekends++
			if len(c.Dates) != 1 {
				t.Fatalf("weekend conflict should carry one date, got %d", len(c.Dates))
			}
		}
	}
	if weekends == 0 {
		t.Fatalf("expected weekend conflicts")
	}
	for _, c := range conflicts {
		if c.Kind == KindWeekend && !calendar.IsWeekend(c.Epoch) {
			t.Fatalf("non-weekend day %d flagged", c.Epoch)
		}
	}
}

func TestDetectOverlap(t *testing.T) {
	// Two lots with identical anchors collide on every handling day.
	a := lot("a", monday)
	b := lot("b", monday)
	conflicts := Detect(calendar.ExpandAll([]model.Lot{a, b}), nil)
	var overlaps int
	for _, c := range conflicts {
		if c.Kind != KindOverlap {
			continue
		}
		overlaps++
		if len(c.Dates) < 2 {
			t.Fatalf("overlap conflict should carry the whole day group")
		}
	}
	if overlaps != 6 {
		t.Fatalf("expected 6 overlap days got %d", overlaps)
	}
}

func TestDetectNoOverlapWithinOneLot(t *testing.T) {
	// Two handling dates of the same lot on the same day are not an overlap.
	dates := []model.HandlingDate{
		{LotID: "a", Round: 0, Epoch: 100},
		{LotID: "a", Round: 1, Epoch: 100},
	}
	for _, c := range Detect(dates, nil) {
		if c.Kind == KindOverlap {
			t.Fatalf("same-lot dates flagged as overlap")
		}
	}
}

func TestHolidaySet(t *testing.T) {
	s := NewHolidaySet(model.DefaultHolidays, []time.Time{monday}, 2026, 2026)
	if !s.Contains(calendar.EpochDay(monday)) {
		t.Fatalf("custom holiday missing")
	}
	xmas := calendar.EpochDay(time.Date(2026, 12, 25, 0, 0, 0, 0, time.UTC))
	if !s.Contains(xmas) {
		t.Fatalf("christmas missing")
	}
	if s.Contains(calendar.EpochDay(monday.AddDate(0, 0, 1))) {
		t.Fatalf("unexpected holiday")
	}
	var nilSet *HolidaySet
	if nilSet.Contains(xmas) {
		t.Fatalf("nil set should contain nothing")
	}
}

func TestDetectHoliday(t *testing.T) {
	s := NewHolidaySet(nil, []time.Time{monday}, 2026, 2026)
	conflicts := Detect(calendar.Expand(lot("l1", monday)), s)
	var holidays int
	for _, c := range conflicts {
		if c.Kind == KindHoliday {
			holidays++
		}
	}
	if holidays != 1 {
		t.Fatalf("expected 1 holiday conflict got %d", holidays)
	}
}

func TestKindString(t *testing.T) {
	if got := (KindWeekend | KindOverlap).String(); got != "weekend+overlap" {
		t.Fatalf("unexpected string %q", got)
	}
	if got := KindNone.String(); got != "none" {
		t.Fatalf("unexpected string %q", got)
	}
}

func TestClassifyCells(t *testing.T) {
	a := lot("a", monday)
	b := lot("b", monday)
	dates := calendar.ExpandAll([]model.Lot{a, b})
	cells := ClassifyCells(dates, nil)
	k := cells[CellKey{Epoch: calendar.EpochDay(monday), LotID: "a"}]
	if k&KindOverlap == 0 {
		t.Fatalf("expected overlap on shared anchor day, got %v", k)
	}
	if got := ClassifyCell(dates, nil, calendar.EpochDay(monday), "b"); got&KindOverlap == 0 {
		t.Fatalf("per-cell query disagrees: %v", got)
	}
}
