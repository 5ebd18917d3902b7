/*
Package cronik provides a compiler and next-occurrence solver for an extended
cron expression language.

Expressions (pkg/schedule/expr):
  - parse: tokenizer and recursive-descent parser
  - passes: rewrites that fold an expression into per-field constraints
  - Compile: the full pipeline, reporting syntax, unit and size errors

Solving (pkg/schedule):
  - numset: integer sets for field domains
  - vector: carry propagation over mixed-radix vectors
  - cron: calendar binding, Snap and Step, composite schedules, sequences
  - cursor: checkpointed sequences over memory or Redis stores

Observability (pkg/metrics):
  - Prometheus counters and histograms for compiles, solves and checkpoints

Beyond classic five and six field cron, expressions may count back from the
end of a field (~1 is the last day of the month), invert a set (!), combine
sets with & and |, group with parentheses and tag a value with its field
(day:15).

Example usage:

	import "github.com/vnykmshr/cronik/pkg/schedule/cron"

	c, err := cron.New("0 0 18 ~1 * *") // 18:00 on the last day of every month
	if err != nil {
		return err
	}
	next, err := c.Snap(time.Now())

Cron schedules implement robfig/cron's Schedule interface and can be handed to
a robfig runner for dispatch.
*/
package cronik
