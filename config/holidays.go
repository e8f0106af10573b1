package config

import (
	"fmt"
	"time"

	"github.com/herdplan/herdplan/core/conflict"
	"github.com/herdplan/herdplan/core/model"
)

// HolidayConfig selects the public holidays flagged during conflict
// detection.
type HolidayConfig struct {
	// Disabled turns holiday detection off entirely.
	Disabled bool `json:"disabled"`
	// SkipDefaults drops the built-in recurring holidays, keeping only
	// the custom dates.
	SkipDefaults bool `json:"skip_defaults"`
	// Custom lists additional one-off holidays as YYYY-MM-DD dates.
	Custom []string `json:"custom"`
	// FromYear and ToYear bound the years recurring holidays are expanded
	// over. When zero they are derived from the schedule being checked.
	FromYear int `json:"from_year"`
	ToYear   int `json:"to_year"`
}

// SetDefaults applies sane defaults.
func (c *HolidayConfig) SetDefaults() {}

// Validate checks that every custom date parses.
func (c HolidayConfig) Validate() error {
	for _, d := range c.Custom {
		if _, err := time.Parse("2006-01-02", d); err != nil {
			return fmt.Errorf("invalid custom holiday %q: %w", d, err)
		}
	}
	if c.FromYear != 0 && c.ToYear != 0 && c.FromYear > c.ToYear {
		return fmt.Errorf("from_year %d exceeds to_year %d", c.FromYear, c.ToYear)
	}
	return nil
}

// Set builds the holiday set covering the given handling dates. It returns
// nil when holiday detection is disabled.
func (c HolidayConfig) Set(dates []model.HandlingDate) (*conflict.HolidaySet, error) {
	if c.Disabled {
		return nil, nil
	}
	custom := make([]time.Time, 0, len(c.Custom))
	for _, d := range c.Custom {
		t, err := time.Parse("2006-01-02", d)
		if err != nil {
			return nil, fmt.Errorf("invalid custom holiday %q: %w", d, err)
		}
		custom = append(custom, t)
	}
	recurring := model.DefaultHolidays
	if c.SkipDefaults {
		recurring = nil
	}
	if c.FromYear != 0 && c.ToYear != 0 {
		return conflict.NewHolidaySet(recurring, custom, c.FromYear, c.ToYear), nil
	}
	return conflict.HolidaysFor(recurring, custom, dates), nil
}
