package optimizer

import (
	"fmt"
	"time"
)

// ExhaustiveConfig controls the backtracking search used for small herds.
type ExhaustiveConfig struct {
	Enabled bool `json:"enabled"`
	// MaxLots is the largest instance the exhaustive search accepts;
	// bigger instances go straight to the genetic search.
	MaxLots int `json:"max_lots"`
	// MaxEvaluations caps the number of full-assignment evaluations per run.
	MaxEvaluations int `json:"max_evaluations"`
}

// SearchConfig defines all optimizer parameters loaded from configuration.
type SearchConfig struct {
	PopulationSize     int     `json:"population_size"`
	EliteCount         int     `json:"elite_count"`
	MutationRate       float64 `json:"mutation_rate"`
	CrossoverRate      float64 `json:"crossover_rate"`
	TournamentSize     int     `json:"tournament_size"`
	TimeBudgetMS       int     `json:"time_budget_ms"`
	// HardCeilingFactor multiplies the soft budget to obtain the wall-clock
	// ceiling after which a run is treated as timed out.
	HardCeilingFactor  float64 `json:"hard_ceiling_factor"`
	MaxOffsetDays      int     `json:"max_offset_days"`
	AttemptsPerProfile int     `json:"attempts_per_profile"`
	// GapMin and GapMax bound valid inter-round gap values in days.
	GapMin int `json:"gap_min"`
	GapMax int `json:"gap_max"`
	// DiversityMinDistance is the minimum pairwise distance between two
	// selected schedules (sum of offset and gap differences over all lots).
	DiversityMinDistance int              `json:"diversity_min_distance"`
	Exhaustive           ExhaustiveConfig `json:"exhaustive"`
}

// TargetSchedules is the number of trade-off schedules a run returns.
const TargetSchedules = 4

// SetDefaults applies sane defaults for every unset field.
func (c *SearchConfig) SetDefaults() {
	if c.PopulationSize == 0 {
		c.PopulationSize = 60
	}
	if c.EliteCount == 0 {
		c.EliteCount = 4
	}
	if c.MutationRate == 0 {
		c.MutationRate = 0.2
	}
	if c.CrossoverRate == 0 {
		c.CrossoverRate = 0.8
	}
	if c.TournamentSize == 0 {
		c.TournamentSize = 3
	}
	if c.TimeBudgetMS == 0 {
		c.TimeBudgetMS = 3000
	}
	if c.HardCeilingFactor == 0 {
		c.HardCeilingFactor = 1.5
	}
	if c.MaxOffsetDays == 0 {
		c.MaxOffsetDays = 6
	}
	if c.AttemptsPerProfile == 0 {
		c.AttemptsPerProfile = 2
	}
	if c.GapMin == 0 {
		c.GapMin = 20
	}
	if c.GapMax == 0 {
		c.GapMax = 24
	}
	if c.DiversityMinDistance == 0 {
		c.DiversityMinDistance = 3
	}
	if c.Exhaustive.MaxLots == 0 {
		c.Exhaustive = ExhaustiveConfig{Enabled: true, MaxLots: 3, MaxEvaluations: 20000}
	}
}

// Validate checks the configuration before a run consumes any budget.
func (c SearchConfig) Validate() error {
	if c.PopulationSize < 2 {
		return fmt.Errorf("population_size must be at least 2")
	}
	if c.EliteCount < 0 || c.EliteCount >= c.PopulationSize {
		return fmt.Errorf("elite_count must be in [0,%d)", c.PopulationSize)
	}
	if c.MutationRate < 0 || c.MutationRate > 1 {
		return fmt.Errorf("mutation_rate must be in [0,1]")
	}
	if c.CrossoverRate < 0 || c.CrossoverRate > 1 {
		return fmt.Errorf("crossover_rate must be in [0,1]")
	}
	if c.TournamentSize < 1 {
		return fmt.Errorf("tournament_size must be positive")
	}
	if c.TimeBudgetMS <= 0 {
		return fmt.Errorf("time_budget_ms must be positive")
	}
	if c.HardCeilingFactor < 1 {
		return fmt.Errorf("hard_ceiling_factor must be at least 1")
	}
	if c.MaxOffsetDays < 1 {
		return fmt.Errorf("max_offset_days must be positive")
	}
	if c.AttemptsPerProfile < 1 {
		return fmt.Errorf("attempts_per_profile must be positive")
	}
	if c.GapMin > c.GapMax {
		return fmt.Errorf("gap_min %d exceeds gap_max %d", c.GapMin, c.GapMax)
	}
	if c.Exhaustive.Enabled && c.Exhaustive.MaxEvaluations <= 0 {
		return fmt.Errorf("exhaustive max_evaluations must be positive")
	}
	return nil
}

// TimeBudget returns the soft wall-clock budget.
func (c SearchConfig) TimeBudget() time.Duration {
	return time.Duration(c.TimeBudgetMS) * time.Millisecond
}

// HardCeiling returns the wall-clock ceiling guaranteeing termination.
func (c SearchConfig) HardCeiling() time.Duration {
	return time.Duration(float64(c.TimeBudget()) * c.HardCeilingFactor)
}
