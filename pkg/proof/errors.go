package proof

import "fmt"

// StorageError represents an error from the proof storage backend.
type StorageError struct {
	Backend   string // Storage backend type ("sqlite", "memory", etc.)
	Operation string // Operation that failed ("insert_proof", "query", etc.)
	Cause     error  // Underlying error
}

// Error implements the error interface.
func (e *StorageError) Error() string {
	return fmt.Sprintf("proof storage error [backend=%s, operation=%s]: %v", e.Backend, e.Operation, e.Cause)
}

// Unwrap returns the underlying cause error.
func (e *StorageError) Unwrap() error {
	return e.Cause
}

// NewStorageError creates a new StorageError.
func NewStorageError(backend, operation string, cause error) *StorageError {
	return &StorageError{
		Backend:   backend,
		Operation: operation,
		Cause:     cause,
	}
}

// NotFoundError indicates a proof ID that does not exist in the store.
type NotFoundError struct {
	ProofID string
}

// Error implements the error interface.
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("proof %s not found", e.ProofID)
}

// ConflictError indicates an attempt to insert a record with an ID that
// already exists. Stored proofs are immutable, so this is always a caller
// bug or a replayed request, never something to resolve by overwriting.
type ConflictError struct {
	ProofID string
}

// Error implements the error interface.
func (e *ConflictError) Error() string {
	return fmt.Sprintf("proof %s already exists", e.ProofID)
}

// GenerationError represents a failure while generating a proof.
type GenerationError struct {
	Expression string
	Cause      error
}

// Error implements the error interface.
func (e *GenerationError) Error() string {
	return fmt.Sprintf("proof generation failed for %q: %v", e.Expression, e.Cause)
}

// Unwrap returns the underlying cause error.
func (e *GenerationError) Unwrap() error {
	return e.Cause
}

// RetentionError represents an error during retention policy enforcement.
type RetentionError struct {
	RetentionDays int   // Configured retention period
	Cause         error // Underlying error
}

// Error implements the error interface.
func (e *RetentionError) Error() string {
	return fmt.Sprintf("retention error [retention_days=%d]: %v", e.RetentionDays, e.Cause)
}

// Unwrap returns the underlying cause error.
func (e *RetentionError) Unwrap() error {
	return e.Cause
}

// NewRetentionError creates a new RetentionError.
func NewRetentionError(retentionDays int, cause error) *RetentionError {
	return &RetentionError{
		RetentionDays: retentionDays,
		Cause:         cause,
	}
}

// ExportError represents an error during proof export.
type ExportError struct {
	Format      string // Export format ("json", etc.)
	RecordCount int    // Number of records being exported
	Cause       error  // Underlying error
}

// Error implements the error interface.
func (e *ExportError) Error() string {
	return fmt.Sprintf("export error [format=%s, record_count=%d]: %v", e.Format, e.RecordCount, e.Cause)
}

// Unwrap returns the underlying cause error.
func (e *ExportError) Unwrap() error {
	return e.Cause
}

// NewExportError creates a new ExportError.
func NewExportError(format string, recordCount int, cause error) *ExportError {
	return &ExportError{
		Format:      format,
		RecordCount: recordCount,
		Cause:       cause,
	}
}

// AuditWriteError indicates the verification audit record could not be
// persisted. Verification outcomes without an audit record are never
// reported, so this error aborts the whole verification request.
type AuditWriteError struct {
	ProofID string
	Cause   error
}

// Error implements the error interface.
func (e *AuditWriteError) Error() string {
	return fmt.Sprintf("audit record write failed for proof %s: %v", e.ProofID, e.Cause)
}

// Unwrap returns the underlying cause error.
func (e *AuditWriteError) Unwrap() error {
	return e.Cause
}
