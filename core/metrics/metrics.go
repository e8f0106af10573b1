package metrics

import "time"

// RunRecord captures one ranked schedule of a completed optimization run
// for observability purposes.
type RunRecord struct {
	RequestID   string
	Strategy    string
	Profile     string
	Rank        int
	Fitness     float64
	Conflicts   int
	CycleDays   int
	Evaluations int64
	Elapsed     time.Duration
	Time        time.Time
}

// Sink records run results for observability purposes.
type Sink interface {
	RecordRun(recs []RunRecord) error
}

// NopSink implements Sink with no-op methods.
type NopSink struct{}

func (NopSink) RecordRun([]RunRecord) error { return nil }
