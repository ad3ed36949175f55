package proof

import (
	"context"
	"time"
)

// VerifierSystemID identifies the hash algorithm and canonical serialization
// this build produces. Verification of a proof carrying a different system ID
// fails with an "algorithm" mismatch rather than a false tamper report.
const VerifierSystemID = "veritas-sha256-v1"

// VeritasProof is a self-contained, verifiable record of one computation.
// Once persisted it is immutable; a correction is a new proof pointing at
// the old one via SupersedesID.
type VeritasProof struct {
	// Identity
	ProofID string `json:"proof_id"` // UUID v4

	// Computation inputs
	Expression string             `json:"expression"` // Source expression text
	Variables  map[string]float64 `json:"variables"`  // Caller-supplied bindings

	// Computation outputs
	Steps       []ComputationStep `json:"steps"`        // Ordered reduction trace
	FinalResult float64           `json:"final_result"` // Unrounded final value

	// Integrity
	ConfidenceScore  float64 `json:"confidence_score"`  // Reproducible score in [0.50, 0.99]
	VerificationHash string  `json:"verification_hash"` // SHA-256 hex of the canonical payload
	VerifierSystemID string  `json:"verifier_system_id"`

	// Lineage
	SupersedesID string `json:"supersedes_id,omitempty"` // Proof this one corrects, if any

	// Attribution
	UserID    string    `json:"user_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// ComputationStep is one reduction in a proof's trace. The rendering is the
// deterministic text produced by the evaluator; it participates in the
// verification hash, so it must never be reformatted after generation.
type ComputationStep struct {
	StepIndex int     `json:"step_index"` // 0-based position in the trace
	Operation string  `json:"operation"`  // Evaluator rule name ("add", "sqrt", "const")
	Rendering string  `json:"rendering"`  // Resolved operands, e.g. "3 * 4"
	Result    float64 `json:"result"`     // Intermediate value
	Unstable  bool    `json:"unstable"`   // Numeric edge case flag
}

// VerificationAuditRecord is the immutable record of one verification
// attempt. Exactly one is written per attempt, valid or not.
type VerificationAuditRecord struct {
	RequestID      string    `json:"request_id"` // UUID v4, unique per attempt
	ProofID        string    `json:"proof_id"`   // Proof that was verified
	IsValid        bool      `json:"is_valid"`
	MismatchDetail string    `json:"mismatch_detail,omitempty"` // "hash", "result", "hash,result" or "algorithm"
	UserID         string    `json:"user_id,omitempty"`         // Who requested verification
	VerifiedAt     time.Time `json:"verified_at"`
}

// Query defines filter parameters for listing proofs.
type Query struct {
	// Time range on CreatedAt
	StartTime *time.Time `json:"start_time,omitempty"` // Inclusive start time
	EndTime   *time.Time `json:"end_time,omitempty"`   // Inclusive end time

	// Filters
	UserID     string `json:"user_id,omitempty"`
	Expression string `json:"expression,omitempty"` // Exact expression text

	// Pagination
	Limit  int `json:"limit,omitempty"`
	Offset int `json:"offset,omitempty"`

	// Sorting
	SortOrder string `json:"sort_order,omitempty"` // "asc" or "desc" by created_at
}

// AuditQuery defines filter parameters for listing verification audit
// records.
type AuditQuery struct {
	StartTime *time.Time `json:"start_time,omitempty"`
	EndTime   *time.Time `json:"end_time,omitempty"`

	ProofID string `json:"proof_id,omitempty"`
	UserID  string `json:"user_id,omitempty"`
	IsValid *bool  `json:"is_valid,omitempty"`

	Limit  int `json:"limit,omitempty"`
	Offset int `json:"offset,omitempty"`
}

// Store defines the persistence interface for proofs and verification audit
// records. Implementations must be safe for concurrent use.
//
// The store is append-only: there are no update operations, and
// DeleteProofsBefore exists solely for retention enforcement.
type Store interface {
	// InsertProof persists a proof. Inserting an existing ProofID returns
	// a ConflictError; stored proofs are never overwritten.
	InsertProof(ctx context.Context, p *VeritasProof) error

	// GetProof retrieves a proof by ID. Returns a NotFoundError if no
	// proof with that ID exists.
	GetProof(ctx context.Context, proofID string) (*VeritasProof, error)

	// QueryProofs retrieves proofs matching the query filters. Returns an
	// empty slice if nothing matches.
	QueryProofs(ctx context.Context, q *Query) ([]*VeritasProof, error)

	// CountProofs returns the number of proofs matching the query filters.
	CountProofs(ctx context.Context, q *Query) (int64, error)

	// InsertAudit persists a verification audit record.
	InsertAudit(ctx context.Context, rec *VerificationAuditRecord) error

	// QueryAudits retrieves audit records matching the query filters.
	QueryAudits(ctx context.Context, q *AuditQuery) ([]*VerificationAuditRecord, error)

	// DeleteProofsBefore removes proofs created before the cutoff,
	// returning the number removed. Audit records are kept: the fact that
	// a verification happened outlives the proof it examined.
	DeleteProofsBefore(ctx context.Context, cutoff time.Time) (int64, error)

	// Close releases any resources held by the store.
	Close() error
}
