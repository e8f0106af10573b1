// Package events defines the optimization progress events emitted on the
// event bus.
//
// Available event types:
//   - RunStartedEvent: a run was accepted and started
//   - StrategyEvent: search strategy selection and fallback information
//   - AttemptEvent: best result of one per-profile search attempt
//   - RunCompletedEvent: ranked schedules are available
package events
