// Package metrics provides Prometheus instrumentation for cronik schedules.
//
// Metrics are off unless a Registry is passed to a schedule's Config:
//
//	reg := metrics.NewRegistry(prometheus.NewRegistry())
//	c, err := cron.NewWithConfig("0 9 * * mon-fri", cron.Config{Metrics: reg})
//
// # Available Metrics
//
//   - cronik_compiler_compilations_total: compiled expressions, by result
//   - cronik_solver_snaps_total: Snap and Step calls, by schedule, op and result
//   - cronik_solver_snap_duration_seconds: time spent per solver call
//   - cronik_sequence_occurrences_total: instants emitted by sequences
//   - cronik_cursor_checkpoints_total: cursor store loads and saves
//
// # Labels
//
//   - schedule: Config.Name of the schedule, or its expression
//   - op: "snap" or "step" for the solver, "load" or "save" for cursors
//   - result: "ok", "no_match" or "error"
//   - store: "memory" or "redis"
//
// The Registry methods are safe to call on a nil *Registry, which records nothing.
package metrics
