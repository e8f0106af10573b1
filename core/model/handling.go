package model

// HandlingDate is a single concrete handling day derived from expanding a
// lot across its rounds. It is never stored, only computed.
type HandlingDate struct {
	LotID string
	// Round is the breeding round index, starting at 0.
	Round int
	// ProtocolDay is the protocol offset this handling corresponds to.
	ProtocolDay int
	// Epoch is the calendar date as days since 1970-01-01 UTC.
	Epoch int
}
