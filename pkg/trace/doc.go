// Package trace stores thought traces: append-only reasoning annotations
// attached to a session.
//
// A thought trace is not a proof. It records why a computation was attempted
// (reasoning, calculation, verification, conclusion) with a coarse
// confidence label, so a session's decision trail can be reconstructed
// alongside the cryptographic proof trail. Traces are ordered per session by
// reasoning step and are never updated or deleted on the request path.
package trace
