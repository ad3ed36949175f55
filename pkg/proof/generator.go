package proof

import (
	"log/slog"
	"time"

	"github.com/google/uuid"

	"veritas-hq/veritas/pkg/expr"
)

// VerificationLevel selects the base confidence a generated proof starts
// from. High-level proofs are requested for computations whose results feed
// downstream decisions; the evaluation itself is identical.
type VerificationLevel string

const (
	LevelStandard VerificationLevel = "standard"
	LevelHigh     VerificationLevel = "high"
)

// Confidence scoring parameters. The score is a documented function of the
// trace, never a judgment call: the same computation always scores the same.
const (
	baseConfidenceStandard = 0.85
	baseConfidenceHigh     = 0.95
	unstableStepPenalty    = 0.05
	longTracePenalty       = 0.01 // per 10 steps beyond the first 10
	minConfidence          = 0.50
	maxConfidence          = 0.99
)

// Generator evaluates expressions and emits verifiable proofs.
type Generator struct {
	evaluator *expr.Evaluator
	logger    *slog.Logger
	now       func() time.Time
	newID     func() string
}

// NewGenerator creates a proof generator backed by the given evaluator.
func NewGenerator(evaluator *expr.Evaluator) *Generator {
	return &Generator{
		evaluator: evaluator,
		logger:    slog.Default().With("component", "proof-generator"),
		now:       time.Now,
		newID:     func() string { return uuid.New().String() },
	}
}

// GenerateInput carries the parameters for one proof generation.
type GenerateInput struct {
	Expression   string
	Variables    map[string]float64
	Level        VerificationLevel // Zero value means LevelStandard
	UserID       string
	SupersedesID string // Set when this proof corrects an earlier one
}

// Generate evaluates the expression and wraps the result in a proof whose
// verification hash covers the expression, variables, full step trace and
// final result. Evaluator errors are returned unchanged inside a
// GenerationError so callers can still inspect the error kind.
func (g *Generator) Generate(input GenerateInput) (*VeritasProof, error) {
	result, err := g.evaluator.Evaluate(input.Expression, input.Variables)
	if err != nil {
		g.logger.Debug("evaluation failed, no proof generated",
			"error_kind", string(expr.KindOf(err)))
		return nil, &GenerationError{Expression: input.Expression, Cause: err}
	}

	p := &VeritasProof{
		ProofID:          g.newID(),
		Expression:       input.Expression,
		Variables:        copyVariables(input.Variables),
		Steps:            StepsFromTrace(result.Steps),
		FinalResult:      result.Value,
		ConfidenceScore:  scoreConfidence(input.Level, result),
		VerifierSystemID: VerifierSystemID,
		SupersedesID:     input.SupersedesID,
		UserID:           input.UserID,
		CreatedAt:        g.now().UTC(),
	}
	p.VerificationHash = ComputeHash(p)

	g.logger.Debug("proof generated",
		"proof_id", p.ProofID,
		"steps", len(p.Steps),
		"confidence", p.ConfidenceScore)

	return p, nil
}

// StepsFromTrace converts an evaluator trace into the flat persisted form.
// Order is preserved; indexes are assigned here and never re-derived.
func StepsFromTrace(steps []expr.Step) []ComputationStep {
	out := make([]ComputationStep, len(steps))
	for i, step := range steps {
		out[i] = ComputationStep{
			StepIndex: i,
			Operation: step.Operation(),
			Rendering: step.Describe(),
			Result:    step.Result(),
			Unstable:  step.Unstable(),
		}
	}
	return out
}

// scoreConfidence computes the reproducible confidence score:
// base 0.85 (standard) or 0.95 (high), minus 0.05 if any step is numerically
// unstable, minus 0.01 per 10 steps beyond the first 10, clamped to
// [0.50, 0.99].
func scoreConfidence(level VerificationLevel, result *expr.Result) float64 {
	score := baseConfidenceStandard
	if level == LevelHigh {
		score = baseConfidenceHigh
	}

	if result.UnstableSteps() > 0 {
		score -= unstableStepPenalty
	}

	if extra := len(result.Steps) - 10; extra > 0 {
		score -= longTracePenalty * float64((extra+9)/10)
	}

	if score < minConfidence {
		score = minConfidence
	}
	if score > maxConfidence {
		score = maxConfidence
	}
	return score
}

func copyVariables(vars map[string]float64) map[string]float64 {
	if vars == nil {
		return nil
	}
	out := make(map[string]float64, len(vars))
	for k, v := range vars {
		out[k] = v
	}
	return out
}
