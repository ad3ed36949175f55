package expr

import (
	"fmt"
	"strconv"
)

// Step is one reduction in an evaluation trace. Implementations are tagged
// variants per operator category rather than open-ended maps, so the trace
// shape is fixed at compile time.
type Step interface {
	// Operation returns the evaluator rule name (e.g. "add", "sqrt").
	Operation() string

	// Describe returns a human-readable rendering of the resolved operands.
	Describe() string

	// Result returns the step's intermediate value.
	Result() float64

	// Unstable reports whether the step touched a numeric edge case
	// (e.g. a near-zero divisor). Feeds the proof confidence score.
	Unstable() bool
}

// ArithmeticStep records a binary or unary arithmetic reduction.
type ArithmeticStep struct {
	Op       string
	Left     float64
	Right    float64
	Unary    bool
	Value    float64
	EdgeCase bool
}

func (s *ArithmeticStep) Operation() string { return s.Op }
func (s *ArithmeticStep) Result() float64   { return s.Value }
func (s *ArithmeticStep) Unstable() bool    { return s.EdgeCase }

func (s *ArithmeticStep) Describe() string {
	if s.Unary {
		return fmt.Sprintf("%s(%s)", s.Op, formatValue(s.Left))
	}
	return fmt.Sprintf("%s %s %s", formatValue(s.Left), symbolFor(s.Op), formatValue(s.Right))
}

// FunctionStep records a whitelisted function application.
type FunctionStep struct {
	Name  string
	Args  []float64
	Value float64
}

func (s *FunctionStep) Operation() string { return s.Name }
func (s *FunctionStep) Result() float64   { return s.Value }
func (s *FunctionStep) Unstable() bool    { return false }

func (s *FunctionStep) Describe() string {
	desc := s.Name + "("
	for i, arg := range s.Args {
		if i > 0 {
			desc += ", "
		}
		desc += formatValue(arg)
	}
	return desc + ")"
}

// ConstantStep records the resolution of a built-in constant. Variable
// substitution is not a step; constants are, so proofs document where the
// value of pi came from.
type ConstantStep struct {
	Name  string
	Value float64
}

func (s *ConstantStep) Operation() string { return "const" }
func (s *ConstantStep) Result() float64   { return s.Value }
func (s *ConstantStep) Unstable() bool    { return false }

func (s *ConstantStep) Describe() string {
	return fmt.Sprintf("%s = %s", s.Name, formatValue(s.Value))
}

// formatValue renders a step operand/result deterministically. The 17-digit
// round trip format guarantees the same float always renders the same text,
// which proof hashing relies on.
func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'g', 17, 64)
}

func symbolFor(op string) string {
	switch op {
	case "add":
		return "+"
	case "subtract":
		return "-"
	case "multiply":
		return "*"
	case "divide":
		return "/"
	case "modulo":
		return "%"
	case "power":
		return "^"
	}
	return op
}
