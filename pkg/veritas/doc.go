// Package veritas orchestrates verifiable computation requests.
//
// # Overview
//
// The orchestrator is the single entry point tying the subsystem together:
// it evaluates expressions through the safe evaluator, wraps results in
// hash-sealed proofs, persists them, re-verifies stored proofs with a
// mandatory audit write, classifies typeset content, and appends reasoning
// traces.
//
// Each request moves through an explicit state machine; the terminal state
// is reported on the result so callers and logs can tell exactly how far a
// request progressed.
//
// # Usage
//
//	orch, err := veritas.New(veritas.Options{
//	    Proofs: proofStore,
//	    Traces: traceStore,
//	})
//	if err != nil {
//	    return err
//	}
//
//	result, err := orch.Calculate(ctx, veritas.CalculateRequest{
//	    Expression: "pi * r^2",
//	    Variables:  map[string]float64{"r": 5},
//	    UserID:     "user-1",
//	})
//
//	verdict, err := orch.Verify(ctx, result.Proof.ProofID)
package veritas
