package events

import "time"

// RunStartedEvent is published when an optimization run begins.
type RunStartedEvent struct {
	RequestID string
	Lots      int
	Budget    time.Duration
}

// StrategyEvent is emitted when the dispatcher chooses a search strategy.
// Action can be "attempt", "failure", or "fallback".
type StrategyEvent struct {
	RequestID string
	Strategy  string
	Action    string
	Err       error
}

// AttemptEvent reports the outcome of one time-boxed search attempt.
type AttemptEvent struct {
	RequestID   string
	Profile     string
	Attempt     int
	BestFitness float64
	Evaluations int64
}

// RunCompletedEvent is published once the ranked schedules are ready.
type RunCompletedEvent struct {
	RequestID   string
	Strategy    string
	Schedules   int
	Evaluations int64
	Elapsed     time.Duration
}
