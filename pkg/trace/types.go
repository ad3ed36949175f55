package trace

import (
	"context"
	"fmt"
	"time"
)

// TraceType classifies what a thought trace records.
type TraceType string

const (
	TypeReasoning    TraceType = "reasoning"
	TypeCalculation  TraceType = "calculation"
	TypeVerification TraceType = "verification"
	TypeConclusion   TraceType = "conclusion"
)

// Confidence is the coarse self-assessed confidence label on a trace. It is
// deliberately not a number: thought traces are narrative, and the proof's
// numeric confidence score lives on the proof.
type Confidence string

const (
	ConfidenceLow     Confidence = "low"
	ConfidenceMedium  Confidence = "medium"
	ConfidenceHigh    Confidence = "high"
	ConfidenceCertain Confidence = "certain"
)

// ThoughtTrace is one reasoning annotation in a session.
type ThoughtTrace struct {
	TraceID       string     `json:"trace_id"`       // UUID v4
	SessionID     string     `json:"session_id"`     // Owning session
	ReasoningStep int        `json:"reasoning_step"` // 1-based order within the session
	TraceType     TraceType  `json:"trace_type"`
	Confidence    Confidence `json:"confidence"`
	Content       string     `json:"content"`
	CreatedAt     time.Time  `json:"created_at"`
}

// Validate checks the trace's enumerated fields and required content.
func (t *ThoughtTrace) Validate() error {
	switch t.TraceType {
	case TypeReasoning, TypeCalculation, TypeVerification, TypeConclusion:
	default:
		return &ValidationError{Field: "trace_type", Value: string(t.TraceType)}
	}
	switch t.Confidence {
	case ConfidenceLow, ConfidenceMedium, ConfidenceHigh, ConfidenceCertain:
	default:
		return &ValidationError{Field: "confidence", Value: string(t.Confidence)}
	}
	if t.SessionID == "" {
		return &ValidationError{Field: "session_id", Value: ""}
	}
	if t.Content == "" {
		return &ValidationError{Field: "content", Value: ""}
	}
	return nil
}

// ValidationError reports a trace field that failed validation.
type ValidationError struct {
	Field string
	Value string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("thought trace field %s is required", e.Field)
	}
	return fmt.Sprintf("thought trace field %s has invalid value %q", e.Field, e.Value)
}

// StorageError represents an error from the trace storage backend.
type StorageError struct {
	Backend   string
	Operation string
	Cause     error
}

// Error implements the error interface.
func (e *StorageError) Error() string {
	return fmt.Sprintf("trace storage error [backend=%s, operation=%s]: %v", e.Backend, e.Operation, e.Cause)
}

// Unwrap returns the underlying cause error.
func (e *StorageError) Unwrap() error {
	return e.Cause
}

// Store defines the persistence interface for thought traces.
// Implementations must be safe for concurrent use.
type Store interface {
	// Append persists a trace. When ReasoningStep is zero, the store
	// assigns the next step number for the session and sets it on the
	// passed trace. Traces are never updated after this call.
	Append(ctx context.Context, t *ThoughtTrace) error

	// ListSession retrieves all traces for a session, ordered by
	// reasoning step ascending.
	ListSession(ctx context.Context, sessionID string) ([]*ThoughtTrace, error)

	// CountSession returns the number of traces recorded for a session.
	CountSession(ctx context.Context, sessionID string) (int64, error)

	// Close releases any resources held by the store.
	Close() error
}
