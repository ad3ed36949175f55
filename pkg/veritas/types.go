package veritas

import (
	"fmt"

	"veritas-hq/veritas/pkg/proof"
)

// State is a request's position in its processing state machine. States
// only ever advance; the terminal state is recorded on the result.
type State string

// Calculation states.
const (
	StateReceived    State = "received"
	StateValidated   State = "validated"
	StateEvaluated   State = "evaluated"
	StateProved      State = "proved"
	StatePersisted   State = "persisted"
	StateReturned    State = "returned"
	StateEarlyReject State = "early_reject"
	StateFailed      State = "failed"
)

// Verification states.
const (
	StateLoaded       State = "loaded"
	StateReverified   State = "reverified"
	StateAuditWritten State = "audit_written"
)

// CalculateRequest carries one computation request.
type CalculateRequest struct {
	// Expression is the arithmetic expression to evaluate.
	Expression string `json:"expression"`

	// Variables binds names used in the expression. Bindings shadow the
	// built-in constants.
	Variables map[string]float64 `json:"variables,omitempty"`

	// Level selects the proof's base confidence. Zero value means
	// standard.
	Level proof.VerificationLevel `json:"level,omitempty"`

	// UserID attributes the proof. Optional.
	UserID string `json:"user_id,omitempty"`

	// SessionID links the calculation to a reasoning session. When set
	// and a trace store is configured, a calculation trace is appended.
	SessionID string `json:"session_id,omitempty"`

	// SupersedesID marks this calculation as a correction of an earlier
	// proof. The superseded proof is never modified.
	SupersedesID string `json:"supersedes_id,omitempty"`
}

// CalculateResult is the outcome of a successful calculation.
type CalculateResult struct {
	// Answer is the final result formatted for display.
	Answer string `json:"answer"`

	// Proof is the persisted proof backing the answer.
	Proof *proof.VeritasProof `json:"proof"`

	// State is the terminal request state, always StateReturned on a
	// non-error result.
	State State `json:"state"`
}

// VerifyResult is the outcome of a proof verification.
type VerifyResult struct {
	// IsValid reports whether the proof verified cleanly.
	IsValid bool `json:"is_valid"`

	// Record is the persisted audit record for this attempt.
	Record *proof.VerificationAuditRecord `json:"record"`

	// State is the terminal request state, always StateAuditWritten on a
	// non-error result.
	State State `json:"state"`
}

// RequestError reports an orchestrator request that could not progress,
// carrying the state it stopped in.
type RequestError struct {
	State State
	Cause error
}

// Error implements the error interface.
func (e *RequestError) Error() string {
	return fmt.Sprintf("request stopped in state %s: %v", e.State, e.Cause)
}

// Unwrap returns the underlying cause error.
func (e *RequestError) Unwrap() error {
	return e.Cause
}
