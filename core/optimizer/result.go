package optimizer

import (
	"time"

	"github.com/herdplan/herdplan/core/model"
)

// Strategy names the search path that produced a run's candidates.
type Strategy string

const (
	StrategyExhaustive Strategy = "exhaustive"
	StrategyGenetic    Strategy = "genetic"
)

// Candidate is one scored solution contributed to the shared pool, with the
// profile it was searched under.
type Candidate struct {
	Chromosome *Chromosome
	Profile    WeightProfile
	Evaluation Evaluation
	Fitness    float64
}

// RankedSchedule is one of the final trade-off schedules returned to the
// caller: the adjusted lots plus the raw objectives behind the score.
type RankedSchedule struct {
	Profile     string           `json:"profile"`
	Description string           `json:"description"`
	Lots        []model.Lot      `json:"lots"`
	Objectives  Objectives       `json:"objectives"`
	Fitness     float64          `json:"fitness"`
}

// Report is the full outcome of a successful optimization run.
type Report struct {
	RequestID   string           `json:"request_id"`
	Schedules   []RankedSchedule `json:"schedules"`
	Strategy    Strategy         `json:"strategy"`
	Evaluations int64            `json:"evaluations"`
	Elapsed     time.Duration    `json:"elapsed"`
}
