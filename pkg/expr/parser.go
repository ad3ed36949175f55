package expr

import (
	"fmt"
	"sort"
	"strings"
)

// parser is a recursive-descent parser over the token stream. Precedence,
// lowest to highest: additive (+ -), multiplicative (* / %), unary minus,
// power (^, right-associative), primary.
type parser struct {
	tokens []token
	pos    int
}

// parse builds the AST for an expression.
func parse(input string) (node, error) {
	tokens, err := tokenize(input)
	if err != nil {
		return nil, err
	}

	p := &parser{tokens: tokens}
	root, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}

	if tok := p.peek(); tok.typ != tokenEOF {
		return nil, &Error{
			Kind:     KindSyntax,
			Message:  fmt.Sprintf("unexpected %s after expression", tok.typ),
			Position: tok.pos,
			Token:    tok.text,
		}
	}

	return root, nil
}

func (p *parser) peek() token {
	return p.tokens[p.pos]
}

func (p *parser) next() token {
	tok := p.tokens[p.pos]
	if tok.typ != tokenEOF {
		p.pos++
	}
	return tok
}

// parseAdditive handles + and - (left-associative).
func (p *parser) parseAdditive() (node, error) {
	left, err := p.parseMultiplicative()
	if err != nil {
		return nil, err
	}

	for {
		tok := p.peek()
		var op string
		switch tok.typ {
		case tokenPlus:
			op = "add"
		case tokenMinus:
			op = "subtract"
		default:
			return left, nil
		}
		p.next()

		right, err := p.parseMultiplicative()
		if err != nil {
			return nil, err
		}
		left = &binaryNode{op: op, left: left, right: right, pos: tok.pos}
	}
}

// parseMultiplicative handles *, / and % (left-associative).
func (p *parser) parseMultiplicative() (node, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}

	for {
		tok := p.peek()
		var op string
		switch tok.typ {
		case tokenStar:
			op = "multiply"
		case tokenSlash:
			op = "divide"
		case tokenPercent:
			op = "modulo"
		default:
			return left, nil
		}
		p.next()

		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = &binaryNode{op: op, left: left, right: right, pos: tok.pos}
	}
}

// parseUnary handles unary minus.
func (p *parser) parseUnary() (node, error) {
	if tok := p.peek(); tok.typ == tokenMinus {
		p.next()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &unaryNode{operand: operand, pos: tok.pos}, nil
	}
	return p.parsePower()
}

// parsePower handles ^ (right-associative, binds tighter than unary minus
// on its right operand: 2^-1 is valid).
func (p *parser) parsePower() (node, error) {
	base, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}

	tok := p.peek()
	if tok.typ != tokenCaret {
		return base, nil
	}
	p.next()

	// Right-associative: recurse through parseUnary so exponents may be
	// negated and chained (2^3^2 == 2^(3^2)).
	exponent, err := p.parseUnary()
	if err != nil {
		return nil, err
	}

	return &binaryNode{op: "power", left: base, right: exponent, pos: tok.pos}, nil
}

// parsePrimary handles literals, variables, function calls, and
// parenthesized sub-expressions.
func (p *parser) parsePrimary() (node, error) {
	tok := p.next()

	switch tok.typ {
	case tokenNumber:
		return &numberNode{value: tok.value, pos: tok.pos}, nil

	case tokenLParen:
		inner, err := p.parseAdditive()
		if err != nil {
			return nil, err
		}
		if closing := p.next(); closing.typ != tokenRParen {
			return nil, &Error{
				Kind:       KindSyntax,
				Message:    fmt.Sprintf("expected ')' but found %s", closing.typ),
				Position:   closing.pos,
				Token:      closing.text,
				Suggestion: "check for unbalanced parentheses",
			}
		}
		return inner, nil

	case tokenIdent:
		if p.peek().typ == tokenLParen {
			return p.parseCall(tok)
		}
		return &variableNode{name: tok.text, pos: tok.pos}, nil

	case tokenEOF:
		return nil, &Error{
			Kind:     KindSyntax,
			Message:  "unexpected end of expression",
			Position: tok.pos,
		}

	default:
		return nil, &Error{
			Kind:     KindSyntax,
			Message:  fmt.Sprintf("unexpected %s", tok.typ),
			Position: tok.pos,
			Token:    tok.text,
		}
	}
}

// parseCall parses a function invocation. Unknown function names are a
// SECURITY_VIOLATION: the whitelist is the sandbox boundary, and calling
// anything outside it is forbidden input rather than a typo.
func (p *parser) parseCall(ident token) (node, error) {
	fn, ok := functions[ident.text]
	if !ok {
		return nil, &Error{
			Kind:       KindSecurity,
			Message:    fmt.Sprintf("function %q is not whitelisted", ident.text),
			Position:   ident.pos,
			Token:      ident.text,
			Suggestion: "allowed functions: " + strings.Join(sortedFunctionNames(), ", "),
		}
	}

	p.next() // consume '('

	var args []node
	if p.peek().typ != tokenRParen {
		for {
			arg, err := p.parseAdditive()
			if err != nil {
				return nil, err
			}
			args = append(args, arg)

			if p.peek().typ != tokenComma {
				break
			}
			p.next()
		}
	}

	if closing := p.next(); closing.typ != tokenRParen {
		return nil, &Error{
			Kind:       KindSyntax,
			Message:    fmt.Sprintf("expected ')' to close %s call, found %s", ident.text, closing.typ),
			Position:   closing.pos,
			Token:      closing.text,
			Suggestion: "check for unbalanced parentheses",
		}
	}

	if len(args) != fn.arity {
		return nil, &Error{
			Kind:     KindSyntax,
			Message:  fmt.Sprintf("%s expects %d argument(s), got %d", ident.text, fn.arity, len(args)),
			Position: ident.pos,
			Token:    ident.text,
		}
	}

	return &callNode{name: ident.text, args: args, pos: ident.pos}, nil
}

func sortedFunctionNames() []string {
	names := FunctionNames()
	sort.Strings(names)
	return names
}
