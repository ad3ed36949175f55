package expr

import (
	"errors"
	"math"
	"testing"
)

func TestEvaluate_Arithmetic(t *testing.T) {
	tests := []struct {
		name       string
		expression string
		variables  map[string]float64
		want       float64
	}{
		{name: "addition", expression: "1 + 2", want: 3},
		{name: "precedence", expression: "2 + 3 * 4", want: 14},
		{name: "parentheses", expression: "(2 + 3) * 4", want: 20},
		{name: "division", expression: "10 / 4", want: 2.5},
		{name: "modulo", expression: "10 % 3", want: 1},
		{name: "power", expression: "2 ^ 10", want: 1024},
		{name: "power right associative", expression: "2^3^2", want: 512},
		{name: "negative exponent", expression: "2^-2", want: 0.25},
		{name: "unary minus", expression: "-3 + 5", want: 2},
		{name: "double unary minus", expression: "--4", want: 4},
		{name: "sqrt", expression: "sqrt(16)", want: 4},
		{name: "nested functions", expression: "sqrt(abs(-16))", want: 4},
		{name: "variable substitution", expression: "x * y", variables: map[string]float64{"x": 6, "y": 7}, want: 42},
		{name: "exponent literal", expression: "1.5e2 + 1", want: 151},
		{name: "floor", expression: "floor(2.9)", want: 2},
		{name: "round", expression: "round(2.5)", want: 3},
	}

	eval := NewEvaluator(DefaultLimits())

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := eval.Evaluate(tt.expression, tt.variables)
			if err != nil {
				t.Fatalf("Evaluate(%q) failed: %v", tt.expression, err)
			}
			if result.Value != tt.want {
				t.Errorf("Evaluate(%q) = %v, want %v", tt.expression, result.Value, tt.want)
			}
		})
	}
}

func TestEvaluate_BuiltinConstants(t *testing.T) {
	eval := NewEvaluator(DefaultLimits())

	result, err := eval.Evaluate("pi * r^2", map[string]float64{"r": 5})
	if err != nil {
		t.Fatalf("Evaluate() failed: %v", err)
	}

	want := math.Pi * 25
	if math.Abs(result.Value-want) > 1e-9 {
		t.Errorf("pi * r^2 with r=5 = %v, want %v", result.Value, want)
	}

	// Constant resolution must appear in the trace.
	found := false
	for _, step := range result.Steps {
		if step.Operation() == "const" {
			found = true
		}
	}
	if !found {
		t.Error("expected a const step for pi in the trace")
	}
}

func TestEvaluate_ConstantShadowing(t *testing.T) {
	eval := NewEvaluator(DefaultLimits())

	// A caller-supplied variable named pi shadows the built-in.
	result, err := eval.Evaluate("pi + 1", map[string]float64{"pi": 3})
	if err != nil {
		t.Fatalf("Evaluate() failed: %v", err)
	}
	if result.Value != 4 {
		t.Errorf("shadowed pi + 1 = %v, want 4", result.Value)
	}
}

func TestEvaluate_Errors(t *testing.T) {
	tests := []struct {
		name       string
		expression string
		variables  map[string]float64
		wantKind   Kind
	}{
		{name: "division by zero", expression: "1/0", wantKind: KindDivisionByZero},
		{name: "modulo by zero", expression: "5 % 0", wantKind: KindDivisionByZero},
		{name: "zero to negative power", expression: "0^-1", wantKind: KindDivisionByZero},
		{name: "sqrt of negative", expression: "sqrt(-4)", wantKind: KindDomain},
		{name: "log of zero", expression: "log(0)", wantKind: KindDomain},
		{name: "asin out of range", expression: "asin(2)", wantKind: KindDomain},
		{name: "exp overflow", expression: "exp(1000)", wantKind: KindDomain},
		{name: "non-integer power of negative", expression: "(0-2)^0.5", wantKind: KindDomain},
		{name: "undefined variable", expression: "x + 1", wantKind: KindUndefinedVariable},
		{name: "unknown function", expression: "system(1)", wantKind: KindSecurity},
		{name: "forbidden character", expression: "1 + 2; drop table", wantKind: KindSecurity},
		{name: "unbalanced parens", expression: "(1 + 2", wantKind: KindSyntax},
		{name: "trailing operator", expression: "1 +", wantKind: KindSyntax},
		{name: "empty expression", expression: "", wantKind: KindSyntax},
		{name: "wrong arity", expression: "sqrt(1, 2)", wantKind: KindSyntax},
	}

	eval := NewEvaluator(DefaultLimits())

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := eval.Evaluate(tt.expression, tt.variables)
			if err == nil {
				t.Fatalf("Evaluate(%q) succeeded, want %s", tt.expression, tt.wantKind)
			}
			if got := KindOf(err); got != tt.wantKind {
				t.Errorf("Evaluate(%q) error kind = %s, want %s", tt.expression, got, tt.wantKind)
			}
		})
	}
}

func TestEvaluate_ComplexityLimits(t *testing.T) {
	eval := NewEvaluator(Limits{
		MaxExpressionLength: 20,
		MaxVariables:        2,
		MaxOperations:       3,
	})

	t.Run("length", func(t *testing.T) {
		_, err := eval.Evaluate("1 + 1 + 1 + 1 + 1 + 1 + 1", nil)
		if KindOf(err) != KindComplexity {
			t.Errorf("error kind = %s, want %s", KindOf(err), KindComplexity)
		}
	})

	t.Run("variables", func(t *testing.T) {
		_, err := eval.Evaluate("a + b", map[string]float64{"a": 1, "b": 2, "c": 3})
		if KindOf(err) != KindComplexity {
			t.Errorf("error kind = %s, want %s", KindOf(err), KindComplexity)
		}
	})

	t.Run("operations", func(t *testing.T) {
		_, err := eval.Evaluate("1+2+3+4+5", nil)
		if KindOf(err) != KindComplexity {
			t.Errorf("error kind = %s, want %s", KindOf(err), KindComplexity)
		}
	})
}

func TestEvaluate_StepTrace(t *testing.T) {
	eval := NewEvaluator(DefaultLimits())

	result, err := eval.Evaluate("2 + 3 * 4", nil)
	if err != nil {
		t.Fatalf("Evaluate() failed: %v", err)
	}

	// Innermost first: the multiplication reduces before the addition.
	if len(result.Steps) != 2 {
		t.Fatalf("expected 2 steps, got %d", len(result.Steps))
	}
	if result.Steps[0].Operation() != "multiply" || result.Steps[0].Result() != 12 {
		t.Errorf("step 0 = %s -> %v, want multiply -> 12", result.Steps[0].Operation(), result.Steps[0].Result())
	}
	if result.Steps[1].Operation() != "add" || result.Steps[1].Result() != 14 {
		t.Errorf("step 1 = %s -> %v, want add -> 14", result.Steps[1].Operation(), result.Steps[1].Result())
	}
}

func TestEvaluate_TraceDeterminism(t *testing.T) {
	eval := NewEvaluator(DefaultLimits())
	vars := map[string]float64{"a": 1.5, "b": -2.25, "c": 7}

	first, err := eval.Evaluate("sqrt(abs(b)) + a * c - c / a", vars)
	if err != nil {
		t.Fatalf("Evaluate() failed: %v", err)
	}

	for i := 0; i < 10; i++ {
		again, err := eval.Evaluate("sqrt(abs(b)) + a * c - c / a", vars)
		if err != nil {
			t.Fatalf("Evaluate() failed on run %d: %v", i, err)
		}
		if again.Value != first.Value {
			t.Fatalf("run %d value %v differs from first %v", i, again.Value, first.Value)
		}
		if len(again.Steps) != len(first.Steps) {
			t.Fatalf("run %d step count %d differs from first %d", i, len(again.Steps), len(first.Steps))
		}
		for j := range again.Steps {
			if again.Steps[j].Describe() != first.Steps[j].Describe() {
				t.Fatalf("run %d step %d %q differs from first %q",
					i, j, again.Steps[j].Describe(), first.Steps[j].Describe())
			}
			if again.Steps[j].Result() != first.Steps[j].Result() {
				t.Fatalf("run %d step %d result differs", i, j)
			}
		}
	}
}

func TestEvaluate_UnstableSteps(t *testing.T) {
	eval := NewEvaluator(DefaultLimits())

	result, err := eval.Evaluate("1 / d", map[string]float64{"d": 1e-9})
	if err != nil {
		t.Fatalf("Evaluate() failed: %v", err)
	}
	if result.UnstableSteps() != 1 {
		t.Errorf("UnstableSteps() = %d, want 1 for near-zero divisor", result.UnstableSteps())
	}

	stable, err := eval.Evaluate("1 / d", map[string]float64{"d": 2})
	if err != nil {
		t.Fatalf("Evaluate() failed: %v", err)
	}
	if stable.UnstableSteps() != 0 {
		t.Errorf("UnstableSteps() = %d, want 0", stable.UnstableSteps())
	}
}

func TestEvaluate_QuadraticDiscriminant(t *testing.T) {
	// x^2 + 5x + 6 = 0 decomposed into discriminant and root steps.
	eval := NewEvaluator(DefaultLimits())
	vars := map[string]float64{"a": 1, "b": 5, "c": 6}

	disc, err := eval.Evaluate("b^2 - 4*a*c", vars)
	if err != nil {
		t.Fatalf("discriminant failed: %v", err)
	}
	if disc.Value != 1 {
		t.Fatalf("discriminant = %v, want 1", disc.Value)
	}

	root1, err := eval.Evaluate("(-b + sqrt(b^2 - 4*a*c)) / (2*a)", vars)
	if err != nil {
		t.Fatalf("root1 failed: %v", err)
	}
	if root1.Value != -2 {
		t.Errorf("root1 = %v, want -2", root1.Value)
	}

	root2, err := eval.Evaluate("(-b - sqrt(b^2 - 4*a*c)) / (2*a)", vars)
	if err != nil {
		t.Fatalf("root2 failed: %v", err)
	}
	if root2.Value != -3 {
		t.Errorf("root2 = %v, want -3", root2.Value)
	}
}

func TestKindOf_NonEvaluatorError(t *testing.T) {
	if got := KindOf(errors.New("plain")); got != "" {
		t.Errorf("KindOf(plain error) = %q, want empty", got)
	}
}
