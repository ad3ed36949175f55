package expr

import (
	"fmt"
	"math"
)

// nearZeroDivisor is the threshold below which a division is flagged as a
// numeric edge case. Divisors at exactly zero are an error, not a flag.
const nearZeroDivisor = 1e-6

// Limits bound the work a single evaluation may perform. Enforced by static
// pre-checks before any reduction happens.
type Limits struct {
	// MaxExpressionLength is the maximum expression length in bytes.
	// Default: 1000
	MaxExpressionLength int

	// MaxVariables is the maximum number of caller-supplied variables.
	// Default: 50
	MaxVariables int

	// MaxOperations is the maximum number of reducible operations in the
	// parsed expression. Default: 200
	MaxOperations int
}

// DefaultLimits returns the default evaluation limits.
func DefaultLimits() Limits {
	return Limits{
		MaxExpressionLength: 1000,
		MaxVariables:        50,
		MaxOperations:       200,
	}
}

// Result holds the outcome of a successful evaluation.
type Result struct {
	// Value is the final IEEE-754 double result. It is not rounded; any
	// display rounding happens at the formatting boundary.
	Value float64

	// Steps is the ordered reduction trace, innermost first.
	Steps []Step
}

// UnstableSteps counts steps flagged as numeric edge cases.
func (r *Result) UnstableSteps() int {
	count := 0
	for _, step := range r.Steps {
		if step.Unstable() {
			count++
		}
	}
	return count
}

// Evaluator parses and evaluates expressions within configured limits.
// It is stateless beyond its limits and safe for concurrent use.
type Evaluator struct {
	limits Limits
}

// NewEvaluator creates an evaluator with the given limits. Zero-valued
// limit fields fall back to defaults.
func NewEvaluator(limits Limits) *Evaluator {
	defaults := DefaultLimits()
	if limits.MaxExpressionLength <= 0 {
		limits.MaxExpressionLength = defaults.MaxExpressionLength
	}
	if limits.MaxVariables <= 0 {
		limits.MaxVariables = defaults.MaxVariables
	}
	if limits.MaxOperations <= 0 {
		limits.MaxOperations = defaults.MaxOperations
	}
	return &Evaluator{limits: limits}
}

// Limits returns the evaluator's effective limits.
func (e *Evaluator) Limits() Limits {
	return e.limits
}

// Evaluate parses and reduces an expression against the supplied variables,
// returning the final value and the ordered step trace. The trace is
// deterministic: identical input always produces an identical trace.
func (e *Evaluator) Evaluate(expression string, variables map[string]float64) (*Result, error) {
	if err := e.CheckInput(expression, variables); err != nil {
		return nil, err
	}

	root, err := parse(expression)
	if err != nil {
		return nil, err
	}

	if ops := root.opCount(); ops > e.limits.MaxOperations {
		return nil, &Error{
			Kind:     KindComplexity,
			Message:  fmt.Sprintf("expression has %d operations, limit is %d", ops, e.limits.MaxOperations),
			Position: -1,
		}
	}

	walker := &evalWalker{variables: variables}
	value, err := walker.eval(root)
	if err != nil {
		return nil, err
	}

	return &Result{Value: value, Steps: walker.steps}, nil
}

// CheckInput runs the static pre-checks without parsing. The orchestrator
// uses this for early rejection before any evaluation work is scheduled.
func (e *Evaluator) CheckInput(expression string, variables map[string]float64) error {
	if len(expression) > e.limits.MaxExpressionLength {
		return &Error{
			Kind:     KindComplexity,
			Message:  fmt.Sprintf("expression length %d exceeds limit %d", len(expression), e.limits.MaxExpressionLength),
			Position: -1,
		}
	}
	if len(variables) > e.limits.MaxVariables {
		return &Error{
			Kind:     KindComplexity,
			Message:  fmt.Sprintf("%d variables exceeds limit %d", len(variables), e.limits.MaxVariables),
			Position: -1,
		}
	}
	if expression == "" {
		return &Error{
			Kind:     KindSyntax,
			Message:  "empty expression",
			Position: 0,
		}
	}
	return nil
}

// evalWalker reduces an AST depth-first, appending one step per reduction.
type evalWalker struct {
	variables map[string]float64
	steps     []Step
}

func (w *evalWalker) eval(n node) (float64, error) {
	switch n := n.(type) {
	case *numberNode:
		return n.value, nil

	case *variableNode:
		return w.resolve(n)

	case *unaryNode:
		operand, err := w.eval(n.operand)
		if err != nil {
			return 0, err
		}
		value := -operand
		w.steps = append(w.steps, &ArithmeticStep{
			Op:    "negate",
			Left:  operand,
			Unary: true,
			Value: value,
		})
		return value, nil

	case *binaryNode:
		left, err := w.eval(n.left)
		if err != nil {
			return 0, err
		}
		right, err := w.eval(n.right)
		if err != nil {
			return 0, err
		}
		return w.applyBinary(n, left, right)

	case *callNode:
		args := make([]float64, len(n.args))
		for i, arg := range n.args {
			value, err := w.eval(arg)
			if err != nil {
				return 0, err
			}
			args[i] = value
		}

		fn := functions[n.name]
		value, err := fn.apply(args)
		if err != nil {
			return 0, err
		}

		w.steps = append(w.steps, &FunctionStep{Name: n.name, Args: args, Value: value})
		return value, nil
	}

	return 0, newError(KindSyntax, "internal: unknown node type %T", n)
}

// resolve looks up a variable, falling back to built-in constants.
// Caller-supplied variables shadow constants.
func (w *evalWalker) resolve(n *variableNode) (float64, error) {
	if value, ok := w.variables[n.name]; ok {
		return value, nil
	}
	if value, ok := constants[n.name]; ok {
		w.steps = append(w.steps, &ConstantStep{Name: n.name, Value: value})
		return value, nil
	}
	return 0, &Error{
		Kind:       KindUndefinedVariable,
		Message:    fmt.Sprintf("variable %q is not defined", n.name),
		Position:   n.pos,
		Token:      n.name,
		Suggestion: "supply the variable in the request, or check its spelling",
	}
}

func (w *evalWalker) applyBinary(n *binaryNode, left, right float64) (float64, error) {
	var value float64
	edgeCase := false

	switch n.op {
	case "add":
		value = left + right
	case "subtract":
		value = left - right
	case "multiply":
		value = left * right
	case "divide":
		if right == 0 {
			return 0, &Error{
				Kind:     KindDivisionByZero,
				Message:  fmt.Sprintf("division of %s by zero", formatValue(left)),
				Position: n.pos,
			}
		}
		value = left / right
		edgeCase = math.Abs(right) < nearZeroDivisor
	case "modulo":
		if right == 0 {
			return 0, &Error{
				Kind:     KindDivisionByZero,
				Message:  fmt.Sprintf("modulo of %s by zero", formatValue(left)),
				Position: n.pos,
			}
		}
		value = math.Mod(left, right)
		edgeCase = math.Abs(right) < nearZeroDivisor
	case "power":
		if left == 0 && right < 0 {
			return 0, &Error{
				Kind:     KindDivisionByZero,
				Message:  "zero raised to a negative power",
				Position: n.pos,
			}
		}
		value = math.Pow(left, right)
	default:
		return 0, newError(KindSyntax, "internal: unknown operator %q", n.op)
	}

	if math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, &Error{
			Kind:     KindDomain,
			Message:  fmt.Sprintf("%s %s %s has no finite result", formatValue(left), symbolFor(n.op), formatValue(right)),
			Position: n.pos,
		}
	}

	w.steps = append(w.steps, &ArithmeticStep{
		Op:       n.op,
		Left:     left,
		Right:    right,
		Value:    value,
		EdgeCase: edgeCase,
	})
	return value, nil
}
