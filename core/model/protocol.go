package model

import "fmt"

// Protocol is an ordered sequence of handling-day offsets applied every
// round. Offsets start at 0 and are strictly increasing. A Protocol is
// immutable once created; the predefined instances must never be mutated.
type Protocol struct {
	Name    string
	offsets []int
}

// Predefined protocols. Callers may create custom ones with NewProtocol but
// must not edit a protocol once a lot references it.
var (
	// ProtocolStandard is the common 0/7/9 three-handling protocol.
	ProtocolStandard = mustProtocol("standard", 0, 7, 9)
	// ProtocolCompact performs both follow-up handlings in the same week.
	ProtocolCompact = mustProtocol("compact", 0, 5, 7)
	// ProtocolExtended adds a late control handling.
	ProtocolExtended = mustProtocol("extended", 0, 7, 9, 16)
	// ProtocolSingle has a single handling day per round.
	ProtocolSingle = mustProtocol("single", 0)
)

// NewProtocol validates the offsets and returns an immutable Protocol.
// The offset slice is copied so later mutation by the caller has no effect.
func NewProtocol(name string, offsets ...int) (Protocol, error) {
	if len(offsets) == 0 {
		return Protocol{}, fmt.Errorf("protocol %q: at least one offset required", name)
	}
	if offsets[0] != 0 {
		return Protocol{}, fmt.Errorf("protocol %q: first offset must be 0, got %d", name, offsets[0])
	}
	for i := 1; i < len(offsets); i++ {
		if offsets[i] <= offsets[i-1] {
			return Protocol{}, fmt.Errorf("protocol %q: offsets must be strictly increasing, got %d after %d", name, offsets[i], offsets[i-1])
		}
	}
	cp := make([]int, len(offsets))
	copy(cp, offsets)
	return Protocol{Name: name, offsets: cp}, nil
}

func mustProtocol(name string, offsets ...int) Protocol {
	p, err := NewProtocol(name, offsets...)
	if err != nil {
		panic(err)
	}
	return p
}

// ProtocolByName resolves one of the predefined protocols.
func ProtocolByName(name string) (Protocol, bool) {
	for _, p := range []Protocol{ProtocolStandard, ProtocolCompact, ProtocolExtended, ProtocolSingle} {
		if p.Name == name {
			return p, true
		}
	}
	return Protocol{}, false
}

// Offsets returns a copy of the day offsets.
func (p Protocol) Offsets() []int {
	cp := make([]int, len(p.offsets))
	copy(cp, p.offsets)
	return cp
}

// Len returns the number of handling days per round.
func (p Protocol) Len() int { return len(p.offsets) }

// Offset returns the i-th day offset.
func (p Protocol) Offset(i int) int { return p.offsets[i] }

// LastOffset returns the final day offset of a round.
func (p Protocol) LastOffset() int { return p.offsets[len(p.offsets)-1] }
