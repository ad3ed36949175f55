// Package expr implements the sandboxed mathematical expression evaluator.
//
// The grammar is deliberately closed: arithmetic operators (+ - * / % ^),
// parentheses, numeric literals, named variables, a fixed whitelist of
// mathematical functions, and the built-in constants pi, e, and tau. There is
// no code-execution path of any kind — expressions are parsed into an AST by
// a hand-written recursive-descent parser and reduced by a tree walk, never
// delegated to an interpreter.
//
// # Evaluation Trace
//
// Evaluation produces one Step per reducible sub-expression, innermost first
// and left-to-right for equal depth. The trace is fully deterministic: the
// same expression and variables always yield the same ordered steps and the
// same IEEE-754 double results. Downstream proof hashing depends on this.
//
// # Resource Safety
//
// Expressions are rejected before evaluation if they exceed the configured
// length, operation, or variable limits. The grammar is not Turing-complete
// and terminates by construction, so the limits are enforced by static
// pre-checks rather than preemptive cancellation.
//
// # Errors
//
// All failures carry a stable Kind (SYNTAX_ERROR, UNDEFINED_VARIABLE,
// DOMAIN_ERROR, DIVISION_BY_ZERO, COMPLEXITY_EXCEEDED, SECURITY_VIOLATION)
// so callers can distinguish malformed input from forbidden input without
// string matching.
package expr
