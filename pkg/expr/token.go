package expr

import (
	"fmt"
	"strconv"
	"unicode"
)

// tokenType identifies the lexical class of a token.
type tokenType int

const (
	tokenNumber tokenType = iota
	tokenIdent
	tokenPlus
	tokenMinus
	tokenStar
	tokenSlash
	tokenPercent
	tokenCaret
	tokenLParen
	tokenRParen
	tokenComma
	tokenEOF
)

func (t tokenType) String() string {
	switch t {
	case tokenNumber:
		return "number"
	case tokenIdent:
		return "identifier"
	case tokenPlus:
		return "'+'"
	case tokenMinus:
		return "'-'"
	case tokenStar:
		return "'*'"
	case tokenSlash:
		return "'/'"
	case tokenPercent:
		return "'%'"
	case tokenCaret:
		return "'^'"
	case tokenLParen:
		return "'('"
	case tokenRParen:
		return "')'"
	case tokenComma:
		return "','"
	case tokenEOF:
		return "end of expression"
	}
	return "unknown"
}

// token is a single lexical unit with its source position.
type token struct {
	typ   tokenType
	text  string
	value float64 // Parsed value for tokenNumber
	pos   int     // Byte offset into the expression
}

// tokenize splits an expression into tokens. Any character outside the
// closed grammar is a SECURITY_VIOLATION, not a syntax error: the lexer is
// the injection boundary and rejects rather than skips.
func tokenize(input string) ([]token, error) {
	var tokens []token
	i := 0

	for i < len(input) {
		c := input[i]

		// Skip whitespace
		if c == ' ' || c == '\t' || c == '\n' || c == '\r' {
			i++
			continue
		}

		switch c {
		case '+':
			tokens = append(tokens, token{typ: tokenPlus, text: "+", pos: i})
			i++
			continue
		case '-':
			tokens = append(tokens, token{typ: tokenMinus, text: "-", pos: i})
			i++
			continue
		case '*':
			tokens = append(tokens, token{typ: tokenStar, text: "*", pos: i})
			i++
			continue
		case '/':
			tokens = append(tokens, token{typ: tokenSlash, text: "/", pos: i})
			i++
			continue
		case '%':
			tokens = append(tokens, token{typ: tokenPercent, text: "%", pos: i})
			i++
			continue
		case '^':
			tokens = append(tokens, token{typ: tokenCaret, text: "^", pos: i})
			i++
			continue
		case '(':
			tokens = append(tokens, token{typ: tokenLParen, text: "(", pos: i})
			i++
			continue
		case ')':
			tokens = append(tokens, token{typ: tokenRParen, text: ")", pos: i})
			i++
			continue
		case ',':
			tokens = append(tokens, token{typ: tokenComma, text: ",", pos: i})
			i++
			continue
		}

		if isDigit(c) || c == '.' {
			tok, next, err := lexNumber(input, i)
			if err != nil {
				return nil, err
			}
			tokens = append(tokens, tok)
			i = next
			continue
		}

		if isIdentStart(c) {
			start := i
			for i < len(input) && isIdentPart(input[i]) {
				i++
			}
			tokens = append(tokens, token{typ: tokenIdent, text: input[start:i], pos: start})
			continue
		}

		return nil, &Error{
			Kind:       KindSecurity,
			Message:    fmt.Sprintf("character %q is not part of the expression grammar", rune(c)),
			Position:   i,
			Token:      string(c),
			Suggestion: "only numbers, variables, + - * / % ^, parentheses and whitelisted functions are allowed",
		}
	}

	tokens = append(tokens, token{typ: tokenEOF, pos: len(input)})
	return tokens, nil
}

// lexNumber scans a numeric literal starting at position start.
// Supports integers, decimals, and exponent notation (1e3, 2.5e-4).
func lexNumber(input string, start int) (token, int, error) {
	i := start
	for i < len(input) && (isDigit(input[i]) || input[i] == '.') {
		i++
	}

	// Optional exponent
	if i < len(input) && (input[i] == 'e' || input[i] == 'E') {
		j := i + 1
		if j < len(input) && (input[j] == '+' || input[j] == '-') {
			j++
		}
		if j < len(input) && isDigit(input[j]) {
			i = j
			for i < len(input) && isDigit(input[i]) {
				i++
			}
		}
	}

	text := input[start:i]
	value, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return token{}, 0, &Error{
			Kind:     KindSyntax,
			Message:  fmt.Sprintf("malformed number %q", text),
			Position: start,
			Token:    text,
		}
	}

	return token{typ: tokenNumber, text: text, value: value, pos: start}, i, nil
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isIdentStart(c byte) bool {
	return c == '_' || unicode.IsLetter(rune(c))
}

func isIdentPart(c byte) bool {
	return c == '_' || isDigit(c) || unicode.IsLetter(rune(c))
}
