package veritas

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/google/uuid"

	"veritas-hq/veritas/pkg/classifier"
	"veritas-hq/veritas/pkg/expr"
	"veritas-hq/veritas/pkg/proof"
	"veritas-hq/veritas/pkg/telemetry/logging"
	"veritas-hq/veritas/pkg/telemetry/metrics"
	"veritas-hq/veritas/pkg/trace"
)

// Options configures an Orchestrator. Proofs is required; everything else
// has a usable default or is optional.
type Options struct {
	// Proofs is the proof and audit store. Required.
	Proofs proof.Store

	// Traces is the thought trace store. Optional; RecordThought fails
	// without it.
	Traces trace.Store

	// Evaluator overrides the default evaluator limits.
	Evaluator *expr.Evaluator

	// Classifier overrides the default classifier.
	Classifier *classifier.Classifier

	// Metrics receives calculation and verification metrics. Optional.
	Metrics *metrics.VeritasMetrics
}

// Orchestrator ties the subsystem together behind the four public
// operations. It is safe for concurrent use.
type Orchestrator struct {
	evaluator  *expr.Evaluator
	generator  *proof.Generator
	verifier   *proof.Verifier
	proofs     proof.Store
	traces     trace.Store
	classifier *classifier.Classifier
	metrics    *metrics.VeritasMetrics
	logger     *slog.Logger
	now        func() time.Time
	newID      func() string
}

// New creates an orchestrator from the given options.
func New(opts Options) (*Orchestrator, error) {
	if opts.Proofs == nil {
		return nil, fmt.Errorf("orchestrator requires a proof store")
	}

	evaluator := opts.Evaluator
	if evaluator == nil {
		evaluator = expr.NewEvaluator(expr.Limits{})
	}

	cls := opts.Classifier
	if cls == nil {
		cls = classifier.New(nil, classifier.DefaultWeights())
	}

	return &Orchestrator{
		evaluator:  evaluator,
		generator:  proof.NewGenerator(evaluator),
		verifier:   proof.NewVerifier(opts.Proofs, evaluator),
		proofs:     opts.Proofs,
		traces:     opts.Traces,
		classifier: cls,
		metrics:    opts.Metrics,
		logger:     slog.Default().With("component", "orchestrator"),
		now:        time.Now,
		newID:      func() string { return uuid.New().String() },
	}, nil
}

// Calculate evaluates an expression, seals the result in a proof and
// persists it. The request advances through received → validated →
// evaluated → proved → persisted → returned.
//
// Static limit violations reject the request before any evaluation work
// (early_reject); evaluator failures surface the evaluator's error with its
// kind intact and persist nothing (failed). A persistence failure aborts
// the whole request: no answer is returned without a durable proof.
func (o *Orchestrator) Calculate(ctx context.Context, req CalculateRequest) (*CalculateResult, error) {
	start := o.now()
	state := StateReceived

	if err := o.evaluator.CheckInput(req.Expression, req.Variables); err != nil {
		state = StateEarlyReject
		o.finishCalculation(metrics.OutcomeRejected, 0, start)
		o.logger.Debug("calculation rejected", "state", string(state),
			"error_kind", string(expr.KindOf(err)))
		return nil, err
	}
	state = StateValidated
	o.logger.Debug("request validated", "state", string(state), "expression_len", len(req.Expression))

	// Generate covers the evaluated and proved states: evaluation and
	// proof construction either both happen or neither does.
	p, err := o.generator.Generate(proof.GenerateInput{
		Expression:   req.Expression,
		Variables:    req.Variables,
		Level:        req.Level,
		UserID:       req.UserID,
		SupersedesID: req.SupersedesID,
	})
	if err != nil {
		state = StateFailed
		o.finishCalculation(metrics.OutcomeFailed, 0, start)
		o.logger.Debug("calculation failed", "state", string(state),
			"error_kind", string(expr.KindOf(err)))
		return nil, err
	}
	state = StateProved

	if err := o.proofs.InsertProof(ctx, p); err != nil {
		state = StateFailed
		o.finishCalculation(metrics.OutcomeFailed, 0, start)
		o.logger.Error("proof persistence failed", "state", string(state),
			"proof_id", p.ProofID, "error", err)
		return nil, &RequestError{State: StateFailed, Cause: err}
	}
	state = StatePersisted
	o.logger.Debug("proof persisted", "state", string(state), "proof_id", p.ProofID)

	o.appendCalculationTrace(ctx, req, p)
	o.finishCalculation(metrics.OutcomeProved, len(p.Steps), start)
	state = StateReturned

	o.logger.Info("calculation complete",
		"proof_id", p.ProofID,
		"steps", len(p.Steps),
		"confidence", p.ConfidenceScore,
		"user", req.UserID)

	return &CalculateResult{
		Answer: strconv.FormatFloat(p.FinalResult, 'g', -1, 64),
		Proof:  p,
		State:  state,
	}, nil
}

// Verify re-executes a stored proof and records the outcome. The request
// advances through received → loaded → reverified → audit_written. A load
// failure is terminal and writes nothing; otherwise exactly one audit
// record is written, valid or not. The stored proof is never modified.
//
// The audit record attributes the verification to the user carried on the
// context via logging.WithUser, if any.
func (o *Orchestrator) Verify(ctx context.Context, proofID string) (*VerifyResult, error) {
	rec, err := o.verifier.Verify(ctx, proofID, logging.GetUser(ctx))
	if err != nil {
		return nil, err
	}

	if o.metrics != nil {
		o.metrics.RecordVerification(rec.IsValid)
	}

	return &VerifyResult{
		IsValid: rec.IsValid,
		Record:  rec,
		State:   StateAuditWritten,
	}, nil
}

// Classify detects the typesetting format of content and scores its
// complexity. It never fails: empty content yields the default format with
// complexity zero.
func (o *Orchestrator) Classify(content string) classifier.Classification {
	result := o.classifier.Classify(content)
	if o.metrics != nil {
		o.metrics.RecordClassification(result.Format)
	}
	return result
}

// RecordThought appends a reasoning trace to its session. Missing TraceID
// and CreatedAt fields are filled in; a zero ReasoningStep gets the next
// step number for the session.
func (o *Orchestrator) RecordThought(ctx context.Context, t *trace.ThoughtTrace) error {
	if o.traces == nil {
		return fmt.Errorf("no trace store configured")
	}

	if t.TraceID == "" {
		t.TraceID = o.newID()
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = o.now().UTC()
	}

	return o.traces.Append(ctx, t)
}

// finishCalculation reports one calculation to the metrics collector.
func (o *Orchestrator) finishCalculation(outcome string, steps int, start time.Time) {
	if o.metrics == nil {
		return
	}
	o.metrics.RecordCalculation(outcome, steps, o.now().Sub(start))
}

// appendCalculationTrace records a calculation trace for session-linked
// requests. Trace append failures are logged, never surfaced: the proof is
// already durable and the answer stands.
func (o *Orchestrator) appendCalculationTrace(ctx context.Context, req CalculateRequest, p *proof.VeritasProof) {
	if o.traces == nil || req.SessionID == "" {
		return
	}

	t := &trace.ThoughtTrace{
		TraceID:    o.newID(),
		SessionID:  req.SessionID,
		TraceType:  trace.TypeCalculation,
		Confidence: confidenceBand(p.ConfidenceScore),
		Content: fmt.Sprintf("evaluated %q = %s (proof %s)",
			p.Expression, strconv.FormatFloat(p.FinalResult, 'g', -1, 64), p.ProofID),
		CreatedAt: o.now().UTC(),
	}
	if err := o.traces.Append(ctx, t); err != nil {
		o.logger.Warn("calculation trace append failed",
			"session", req.SessionID, "proof_id", p.ProofID, "error", err)
	}
}

// confidenceBand maps a proof confidence score onto the trace confidence
// scale.
func confidenceBand(score float64) trace.Confidence {
	switch {
	case score >= 0.95:
		return trace.ConfidenceCertain
	case score >= 0.85:
		return trace.ConfidenceHigh
	case score >= 0.70:
		return trace.ConfidenceMedium
	default:
		return trace.ConfidenceLow
	}
}
