package model

import "time"

// Holiday is a fixed-date national holiday recurring every year.
type Holiday struct {
	Name  string
	Month time.Month
	Day   int
}

// DefaultHolidays lists the recurring holidays observed by default. Movable
// feasts are not expanded here; callers add them as custom dates when they
// matter for a given year.
var DefaultHolidays = []Holiday{
	{Name: "new year", Month: time.January, Day: 1},
	{Name: "labour day", Month: time.May, Day: 1},
	{Name: "assumption", Month: time.August, Day: 15},
	{Name: "all saints", Month: time.November, Day: 1},
	{Name: "christmas", Month: time.December, Day: 25},
	{Name: "boxing day", Month: time.December, Day: 26},
}
