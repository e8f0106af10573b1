// Package metrics defines the sink interface used to record optimization
// run results. Concrete sinks live under infra/metrics and are instantiated
// from configuration through the factory registry.
package metrics
