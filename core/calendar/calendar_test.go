package calendar

import (
	"testing"
	"time"

	"github.com/herdplan/herdplan/core/model"
)

func TestEpochDayRoundTrip(t *testing.T) {
	d := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	e := EpochDay(d)
	if got := Date(e); !got.Equal(d) {
		t.Fatalf("round trip %v -> %d -> %v", d, e, got)
	}
	// Mid-day instants floor to the same day.
	if EpochDay(d.Add(13*time.Hour)) != e {
		t.Fatalf("mid-day instant maps to a different day")
	}
}

func TestEpochDayBeforeEpoch(t *testing.T) {
	d := time.Date(1969, 12, 31, 12, 0, 0, 0, time.UTC)
	if got := EpochDay(d); got != -1 {
		t.Fatalf("expected -1 got %d", got)
	}
}

func TestWeekday(t *testing.T) {
	// Epoch day 0, 1970-01-01, is a Thursday.
	if got := Weekday(0); got != 4 {
		t.Fatalf("expected Thursday(4) got %d", got)
	}
	// 2026-03-02 is a Monday.
	mon := EpochDay(time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC))
	if got := Weekday(mon); got != 1 {
		t.Fatalf("expected Monday(1) got %d", got)
	}
	if IsWeekend(mon) {
		t.Fatalf("Monday flagged as weekend")
	}
	if !IsWeekend(mon+5) || !IsWeekend(mon+6) {
		t.Fatalf("Saturday/Sunday not flagged as weekend")
	}
}

func TestRoundStarts(t *testing.T) {
	// Round k starts lastOffset+gap days after the previous round's D0.
	starts := RoundStarts(100, model.ProtocolStandard, []int{22, 23})
	want := []int{100, 100 + 9 + 22, 100 + 9 + 22 + 9 + 23}
	for i, w := range want {
		if starts[i] != w {
			t.Fatalf("round %d: expected %d got %d", i, w, starts[i])
		}
	}
}

func TestExpand(t *testing.T) {
	l := model.Lot{
		ID:        "l1",
		Anchor:    time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
		Protocol:  model.ProtocolStandard,
		RoundGaps: []int{22},
		Animals:   10,
	}
	dates := Expand(l)
	if len(dates) != 6 {
		t.Fatalf("expected 6 handling dates got %d", len(dates))
	}
	anchor := EpochDay(l.Anchor)
	if dates[0].Epoch != anchor || dates[0].Round != 0 || dates[0].ProtocolDay != 0 {
		t.Fatalf("unexpected first date %+v", dates[0])
	}
	if dates[2].Epoch != anchor+9 {
		t.Fatalf("expected D9 at %d got %d", anchor+9, dates[2].Epoch)
	}
	round1 := anchor + 9 + 22
	if dates[3].Epoch != round1 || dates[3].Round != 1 {
		t.Fatalf("unexpected round-1 start %+v", dates[3])
	}
	for i := 1; i < len(dates); i++ {
		if dates[i].Epoch <= dates[i-1].Epoch {
			t.Fatalf("dates not strictly increasing at %d", i)
		}
	}
}

func TestExpandAll(t *testing.T) {
	a := model.Lot{ID: "a", Anchor: time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC), Protocol: model.ProtocolSingle, RoundGaps: []int{22}}
	b := model.Lot{ID: "b", Anchor: time.Date(2026, 3, 4, 0, 0, 0, 0, time.UTC), Protocol: model.ProtocolSingle, RoundGaps: []int{22}}
	dates := ExpandAll([]model.Lot{a, b})
	if len(dates) != 4 {
		t.Fatalf("expected 4 dates got %d", len(dates))
	}
	if dates[0].LotID != "a" || dates[2].LotID != "b" {
		t.Fatalf("unexpected lot order: %s %s", dates[0].LotID, dates[2].LotID)
	}
}
