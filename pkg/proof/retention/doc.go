// Package retention enforces proof retention policies.
//
// The request path never deletes anything; pruning is a separate maintenance
// concern driven by this package, either on demand via Pruner.Prune or on a
// cron schedule via the embedded Scheduler. Verification audit records are
// never pruned: the fact that a verification happened outlives the proof it
// examined.
package retention
