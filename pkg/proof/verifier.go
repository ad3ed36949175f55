package proof

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"veritas-hq/veritas/pkg/expr"
)

// Mismatch details recorded on failed verifications. A record may carry
// "hash,result" when both checks fail independently.
const (
	MismatchHash      = "hash"
	MismatchResult    = "result"
	MismatchAlgorithm = "algorithm"
)

// Verifier re-executes stored proofs and records the outcome. Every
// verification attempt that reaches a loaded proof writes exactly one
// VerificationAuditRecord, valid or not; an outcome that cannot be recorded
// is not reported either.
type Verifier struct {
	store     Store
	evaluator *expr.Evaluator
	logger    *slog.Logger
	now       func() time.Time
	newID     func() string
}

// NewVerifier creates a verifier over the given store and evaluator. The
// evaluator must match the one used at generation time for results to
// reproduce.
func NewVerifier(store Store, evaluator *expr.Evaluator) *Verifier {
	return &Verifier{
		store:     store,
		evaluator: evaluator,
		logger:    slog.Default().With("component", "proof-verifier"),
		now:       time.Now,
		newID:     func() string { return uuid.New().String() },
	}
}

// Verify loads a proof, re-executes its computation, recompares the
// verification hash, and persists the audit record before returning it.
//
// A proof is valid only when the stored hash matches a recomputation over
// the stored fields AND the re-executed final result equals the stored one
// exactly. Proofs carrying an unknown VerifierSystemID fail with an
// "algorithm" mismatch; no re-execution is attempted for them.
//
// Load failures return before any audit write: there is no proof to audit.
// Audit write failures return an AuditWriteError and no record.
func (v *Verifier) Verify(ctx context.Context, proofID, userID string) (*VerificationAuditRecord, error) {
	p, err := v.store.GetProof(ctx, proofID)
	if err != nil {
		return nil, err
	}

	rec := &VerificationAuditRecord{
		RequestID:      v.newID(),
		ProofID:        p.ProofID,
		UserID:         userID,
		VerifiedAt:     v.now().UTC(),
		MismatchDetail: v.check(p),
	}
	rec.IsValid = rec.MismatchDetail == ""

	if err := v.store.InsertAudit(ctx, rec); err != nil {
		return nil, &AuditWriteError{ProofID: p.ProofID, Cause: err}
	}

	if rec.IsValid {
		v.logger.Debug("proof verified", "proof_id", p.ProofID, "request_id", rec.RequestID)
	} else {
		v.logger.Warn("proof verification failed",
			"proof_id", p.ProofID,
			"request_id", rec.RequestID,
			"mismatch", rec.MismatchDetail)
	}

	return rec, nil
}

// check runs the verification checks and returns the mismatch detail, empty
// when the proof is valid.
func (v *Verifier) check(p *VeritasProof) string {
	if p.VerifierSystemID != VerifierSystemID {
		return MismatchAlgorithm
	}

	hashOK := ComputeHash(p) == p.VerificationHash

	// Re-execute from the stored inputs. An expression that no longer
	// evaluates cannot reproduce the stored result.
	resultOK := false
	if result, err := v.evaluator.Evaluate(p.Expression, p.Variables); err == nil {
		resultOK = result.Value == p.FinalResult && stepsEqual(StepsFromTrace(result.Steps), p.Steps)
	}

	switch {
	case hashOK && resultOK:
		return ""
	case !hashOK && !resultOK:
		return MismatchHash + "," + MismatchResult
	case !hashOK:
		return MismatchHash
	default:
		return MismatchResult
	}
}

func stepsEqual(a, b []ComputationStep) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
