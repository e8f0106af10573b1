// Package calendar maps lots to concrete handling dates. All computations
// run on integer epoch days so no timezone handling is involved beyond the
// initial conversion of the anchor date to UTC midnight.
package calendar

import (
	"time"

	"github.com/herdplan/herdplan/core/model"
)

const secondsPerDay = 86400

// EpochDay converts t to days since 1970-01-01 UTC, flooring toward the
// past for instants before the epoch.
func EpochDay(t time.Time) int {
	sec := t.Unix()
	if sec >= 0 {
		return int(sec / secondsPerDay)
	}
	return int((sec - secondsPerDay + 1) / secondsPerDay)
}

// Date converts an epoch day back to a UTC midnight time.
func Date(epoch int) time.Time {
	return time.Unix(int64(epoch)*secondsPerDay, 0).UTC()
}

// Weekday returns the day of week for an epoch day, 0=Sunday .. 6=Saturday.
// Epoch day 0 is a Thursday.
func Weekday(epoch int) int {
	return ((epoch+4)%7 + 7) % 7
}

// IsWeekend reports whether the epoch day falls on Saturday or Sunday.
func IsWeekend(epoch int) bool {
	w := Weekday(epoch)
	return w == 0 || w == 6
}

// RoundStarts returns the D0 epoch of every round for a lot anchored at
// anchorEpoch: round k starts gaps[k-1] days after the previous round's last
// protocol offset.
func RoundStarts(anchorEpoch int, p model.Protocol, gaps []int) []int {
	starts := make([]int, len(gaps)+1)
	starts[0] = anchorEpoch
	for k := 1; k < len(starts); k++ {
		starts[k] = starts[k-1] + p.LastOffset() + gaps[k-1]
	}
	return starts
}

// Expand produces every handling date of the lot across all its rounds, in
// chronological order.
func Expand(l model.Lot) []model.HandlingDate {
	return ExpandFrom(l, EpochDay(l.Anchor), l.RoundGaps)
}

// ExpandFrom expands a lot from an explicit anchor epoch and gap list,
// keeping the lot's protocol. The optimizer uses it to expand candidate
// assignments without materializing Lot values.
func ExpandFrom(l model.Lot, anchorEpoch int, gaps []int) []model.HandlingDate {
	starts := RoundStarts(anchorEpoch, l.Protocol, gaps)
	out := make([]model.HandlingDate, 0, len(starts)*l.Protocol.Len())
	for k, start := range starts {
		for j := 0; j < l.Protocol.Len(); j++ {
			out = append(out, model.HandlingDate{
				LotID:       l.ID,
				Round:       k,
				ProtocolDay: l.Protocol.Offset(j),
				Epoch:       start + l.Protocol.Offset(j),
			})
		}
	}
	return out
}

// ExpandAll expands every lot and returns the combined handling dates.
func ExpandAll(lots []model.Lot) []model.HandlingDate {
	var out []model.HandlingDate
	for _, l := range lots {
		out = append(out, Expand(l)...)
	}
	return out
}
