package expr

import (
	"errors"
	"fmt"
)

// Kind categorizes evaluator failures. Each kind maps to a stable,
// documented code surfaced unchanged to API callers.
type Kind string

const (
	KindSyntax            Kind = "SYNTAX_ERROR"
	KindUndefinedVariable Kind = "UNDEFINED_VARIABLE"
	KindDomain            Kind = "DOMAIN_ERROR"
	KindDivisionByZero    Kind = "DIVISION_BY_ZERO"
	KindComplexity        Kind = "COMPLEXITY_EXCEEDED"
	KindSecurity          Kind = "SECURITY_VIOLATION"
)

// Error is a rich evaluator error with the offending token position and an
// optional suggested fix. Messages never contain internal state beyond the
// user's own input.
type Error struct {
	Kind       Kind   // Stable error code
	Message    string // Human-readable description
	Position   int    // Byte offset into the expression, -1 if not applicable
	Token      string // Offending token text, if any
	Suggestion string // Suggested fix (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := fmt.Sprintf("[%s] %s", e.Kind, e.Message)
	if e.Position >= 0 {
		msg += fmt.Sprintf(" (at offset %d)", e.Position)
	}
	if e.Suggestion != "" {
		msg += fmt.Sprintf("; suggestion: %s", e.Suggestion)
	}
	return msg
}

// Is allows errors.Is comparisons against another *Error by kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// newError creates an evaluator error without position information.
func newError(kind Kind, format string, args ...any) *Error {
	return &Error{
		Kind:     kind,
		Message:  fmt.Sprintf(format, args...),
		Position: -1,
	}
}

// KindOf extracts the error kind from any error. Returns an empty Kind if
// err is not an evaluator error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}
