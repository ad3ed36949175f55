package expr

import (
	"fmt"
	"math"
)

// function is a whitelisted mathematical function. apply returns a
// DOMAIN_ERROR for arguments outside the function's real-valued domain
// instead of propagating NaN into the trace.
type function struct {
	name  string
	arity int
	apply func(args []float64) (float64, error)
}

// functions is the closed whitelist. Anything not listed here is rejected
// at parse time as a SECURITY_VIOLATION.
var functions = map[string]function{
	"sqrt": {name: "sqrt", arity: 1, apply: func(args []float64) (float64, error) {
		if args[0] < 0 {
			return 0, newError(KindDomain, "sqrt of negative number %s", formatOperand(args[0]))
		}
		return math.Sqrt(args[0]), nil
	}},
	"cbrt": {name: "cbrt", arity: 1, apply: func(args []float64) (float64, error) {
		return math.Cbrt(args[0]), nil
	}},
	"log": {name: "log", arity: 1, apply: func(args []float64) (float64, error) {
		if args[0] <= 0 {
			return 0, newError(KindDomain, "log of non-positive number %s", formatOperand(args[0]))
		}
		return math.Log(args[0]), nil
	}},
	"log10": {name: "log10", arity: 1, apply: func(args []float64) (float64, error) {
		if args[0] <= 0 {
			return 0, newError(KindDomain, "log10 of non-positive number %s", formatOperand(args[0]))
		}
		return math.Log10(args[0]), nil
	}},
	"exp": {name: "exp", arity: 1, apply: func(args []float64) (float64, error) {
		result := math.Exp(args[0])
		if math.IsInf(result, 0) {
			return 0, newError(KindDomain, "exp(%s) overflows", formatOperand(args[0]))
		}
		return result, nil
	}},
	"sin": {name: "sin", arity: 1, apply: func(args []float64) (float64, error) {
		return math.Sin(args[0]), nil
	}},
	"cos": {name: "cos", arity: 1, apply: func(args []float64) (float64, error) {
		return math.Cos(args[0]), nil
	}},
	"tan": {name: "tan", arity: 1, apply: func(args []float64) (float64, error) {
		return math.Tan(args[0]), nil
	}},
	"asin": {name: "asin", arity: 1, apply: func(args []float64) (float64, error) {
		if args[0] < -1 || args[0] > 1 {
			return 0, newError(KindDomain, "asin argument %s outside [-1, 1]", formatOperand(args[0]))
		}
		return math.Asin(args[0]), nil
	}},
	"acos": {name: "acos", arity: 1, apply: func(args []float64) (float64, error) {
		if args[0] < -1 || args[0] > 1 {
			return 0, newError(KindDomain, "acos argument %s outside [-1, 1]", formatOperand(args[0]))
		}
		return math.Acos(args[0]), nil
	}},
	"atan": {name: "atan", arity: 1, apply: func(args []float64) (float64, error) {
		return math.Atan(args[0]), nil
	}},
	"abs": {name: "abs", arity: 1, apply: func(args []float64) (float64, error) {
		return math.Abs(args[0]), nil
	}},
	"ceil": {name: "ceil", arity: 1, apply: func(args []float64) (float64, error) {
		return math.Ceil(args[0]), nil
	}},
	"floor": {name: "floor", arity: 1, apply: func(args []float64) (float64, error) {
		return math.Floor(args[0]), nil
	}},
	"round": {name: "round", arity: 1, apply: func(args []float64) (float64, error) {
		return math.Round(args[0]), nil
	}},
}

// constants are built-in named values. Caller-supplied variables with the
// same name shadow them.
var constants = map[string]float64{
	"pi":  math.Pi,
	"e":   math.E,
	"tau": 2 * math.Pi,
}

// IsFunction reports whether name is a whitelisted function.
func IsFunction(name string) bool {
	_, ok := functions[name]
	return ok
}

// IsConstant reports whether name is a built-in constant.
func IsConstant(name string) bool {
	_, ok := constants[name]
	return ok
}

// FunctionNames returns the whitelist for documentation and error messages.
func FunctionNames() []string {
	names := make([]string, 0, len(functions))
	for name := range functions {
		names = append(names, name)
	}
	return names
}

func formatOperand(v float64) string {
	return fmt.Sprintf("%g", v)
}
