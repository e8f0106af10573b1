// Package optimizer searches per-lot start-date shifts and inter-round gap
// choices to minimize a weighted penalty over calendar conflicts, cycle
// length and protocol-interval violations.
//
// A run flows lots -> Context -> {exhaustive | genetic} search -> candidate
// pool -> diversity selection -> ranked schedules. The Manager owns the run
// lifecycle (validation, single-run rule, time ceiling, cancellation); the
// Dispatcher picks the strategy and falls back from exhaustive to genetic on
// internal failure.
package optimizer
