// Package conflict flags handling dates that collide with weekends,
// holidays or other lots. The optimizer reimplements the same arithmetic
// inline for speed; this package is the reference used for live display and
// for the greedy resolver.
package conflict

import (
	"sort"
	"strings"
	"time"

	"github.com/herdplan/herdplan/core/calendar"
	"github.com/herdplan/herdplan/core/model"
)

// Kind is a bitmask of conflict kinds. A calendar cell can carry any
// combination of the three.
type Kind uint8

const (
	KindWeekend Kind = 1 << iota
	KindOverlap
	KindHoliday

	KindNone Kind = 0
)

// String renders the combination, e.g. "weekend+overlap".
func (k Kind) String() string {
	if k == KindNone {
		return "none"
	}
	var parts []string
	if k&KindWeekend != 0 {
		parts = append(parts, "weekend")
	}
	if k&KindOverlap != 0 {
		parts = append(parts, "overlap")
	}
	if k&KindHoliday != 0 {
		parts = append(parts, "holiday")
	}
	return strings.Join(parts, "+")
}

// Conflict is a flagged date: the kind, the day it occurs on and the
// handling dates contributing to it.
type Conflict struct {
	Kind  Kind
	Epoch int
	Dates []model.HandlingDate
}

// Date returns the conflict day as a UTC time.
func (c Conflict) Date() time.Time { return calendar.Date(c.Epoch) }

// HolidaySet is an expanded, queryable set of holiday epoch days.
type HolidaySet struct {
	days map[int]struct{}
}

// NewHolidaySet expands the recurring holidays over [fromYear,toYear] and
// adds the custom dates.
func NewHolidaySet(recurring []model.Holiday, custom []time.Time, fromYear, toYear int) *HolidaySet {
	s := &HolidaySet{days: make(map[int]struct{})}
	for y := fromYear; y <= toYear; y++ {
		for _, h := range recurring {
			d := time.Date(y, h.Month, h.Day, 0, 0, 0, 0, time.UTC)
			s.days[calendar.EpochDay(d)] = struct{}{}
		}
	}
	for _, d := range custom {
		s.days[calendar.EpochDay(d)] = struct{}{}
	}
	return s
}

// HolidaysFor expands the recurring holidays over the year span covered by
// the given handling dates.
func HolidaysFor(recurring []model.Holiday, custom []time.Time, dates []model.HandlingDate) *HolidaySet {
	if len(dates) == 0 {
		return NewHolidaySet(recurring, custom, 0, -1)
	}
	minE, maxE := dates[0].Epoch, dates[0].Epoch
	for _, d := range dates {
		if d.Epoch < minE {
			minE = d.Epoch
		}
		if d.Epoch > maxE {
			maxE = d.Epoch
		}
	}
	return NewHolidaySet(recurring, custom, calendar.Date(minE).Year(), calendar.Date(maxE).Year())
}

// Contains reports whether the epoch day is a holiday.
func (s *HolidaySet) Contains(epoch int) bool {
	if s == nil {
		return false
	}
	_, ok := s.days[epoch]
	return ok
}

// Detect enumerates all conflicts over the handling dates in O(n). Weekend
// and holiday conflicts are emitted per handling date; an overlap conflict
// covers the whole group of dates sharing a day once at least two distinct
// lots touch it. holidays may be nil.
func Detect(dates []model.HandlingDate, holidays *HolidaySet) []Conflict {
	var out []Conflict
	byDay := make(map[int][]model.HandlingDate)
	for _, d := range dates {
		if calendar.IsWeekend(d.Epoch) {
			out = append(out, Conflict{Kind: KindWeekend, Epoch: d.Epoch, Dates: []model.HandlingDate{d}})
		}
		if holidays.Contains(d.Epoch) {
			out = append(out, Conflict{Kind: KindHoliday, Epoch: d.Epoch, Dates: []model.HandlingDate{d}})
		}
		byDay[d.Epoch] = append(byDay[d.Epoch], d)
	}
	days := make([]int, 0, len(byDay))
	for e := range byDay {
		days = append(days, e)
	}
	sort.Ints(days)
	for _, e := range days {
		group := byDay[e]
		if len(group) < 2 {
			continue
		}
		lots := make(map[string]struct{}, 2)
		for _, d := range group {
			lots[d.LotID] = struct{}{}
		}
		if len(lots) >= 2 {
			out = append(out, Conflict{Kind: KindOverlap, Epoch: e, Dates: group})
		}
	}
	return out
}

// CellKey identifies one calendar cell: a (day, lot) pair.
type CellKey struct {
	Epoch int
	LotID string
}

// ClassifyCells combines, for every touched cell, all conflict kinds that
// apply to it. Cells without any conflict are omitted.
func ClassifyCells(dates []model.HandlingDate, holidays *HolidaySet) map[CellKey]Kind {
	lotsByDay := make(map[int]map[string]struct{})
	for _, d := range dates {
		m, ok := lotsByDay[d.Epoch]
		if !ok {
			m = make(map[string]struct{}, 2)
			lotsByDay[d.Epoch] = m
		}
		m[d.LotID] = struct{}{}
	}
	out := make(map[CellKey]Kind)
	for _, d := range dates {
		var k Kind
		if calendar.IsWeekend(d.Epoch) {
			k |= KindWeekend
		}
		if holidays.Contains(d.Epoch) {
			k |= KindHoliday
		}
		if len(lotsByDay[d.Epoch]) >= 2 {
			k |= KindOverlap
		}
		if k != KindNone {
			out[CellKey{Epoch: d.Epoch, LotID: d.LotID}] = k
		}
	}
	return out
}

// ClassifyCell answers the per-cell query for a single (day, lot) pair.
func ClassifyCell(dates []model.HandlingDate, holidays *HolidaySet, epoch int, lotID string) Kind {
	return ClassifyCells(dates, holidays)[CellKey{Epoch: epoch, LotID: lotID}]
}
