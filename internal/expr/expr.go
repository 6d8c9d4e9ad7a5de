// Package expr compiles and evaluates the small expression language used by
// expr= placeholders.
//
// Supported syntax:
//   - literals: numbers, 'single' or "double" quoted strings, true, false, null
//   - names with dot-path traversal: `order.total`
//   - arithmetic: + - * / % (+ also concatenates when either side is a string)
//   - comparisons: == != < <= > >=
//   - boolean composition: && || ! (or the words and, or, not)
//
// && and || return one of their operands, so `nickname || name` picks the
// first present value.
package expr

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/conneroisu/varfmt/internal/binding"
	varerrors "github.com/conneroisu/varfmt/internal/errors"
)

// Expression is a compiled expression. It is immutable and safe for
// concurrent evaluation.
type Expression struct {
	source string
	root   node
	names  []string
}

// Compile parses src. Syntax errors are configuration errors.
func Compile(src string) (*Expression, error) {
	trimmed := strings.TrimSpace(src)
	if trimmed == "" {
		return nil, varerrors.NewConfigurationError(varerrors.ErrCodeInvalidExpression, src, "empty expression")
	}

	tokens, err := tokenize(trimmed)
	if err != nil {
		return nil, varerrors.NewConfigurationError(varerrors.ErrCodeInvalidExpression, src, "invalid expression").WithCause(err)
	}

	stream := &tokenStream{tokens: tokens}
	root, err := parseOr(stream)
	if err == nil && stream.pos < len(stream.tokens) {
		err = fmt.Errorf("unexpected token %q at %d", stream.tokens[stream.pos].raw, stream.tokens[stream.pos].pos)
	}
	if err != nil {
		return nil, varerrors.NewConfigurationError(varerrors.ErrCodeInvalidExpression, src, "invalid expression").WithCause(err)
	}

	return &Expression{source: trimmed, root: root, names: stream.names}, nil
}

// MustCompile panics if src does not compile.
func MustCompile(src string) *Expression {
	e, err := Compile(src)
	if err != nil {
		panic(err)
	}
	return e
}

// String returns the expression source.
func (e *Expression) String() string { return e.source }

// Names lists the names the expression reads, in order of appearance.
func (e *Expression) Names() []string {
	out := make([]string, len(e.names))
	copy(out, e.names)
	return out
}

// Eval evaluates the expression. A name missing from ctx fails with a
// lookup error; operand type errors fail with an eval error.
func (e *Expression) Eval(ctx binding.Context) (any, error) {
	if ctx == nil {
		ctx = binding.Empty
	}
	v, err := e.root.eval(ctx)
	if err != nil {
		if varerrors.IsLookupError(err) {
			return nil, err
		}
		return nil, varerrors.NewEvalError(e.source, "evaluation failed", err)
	}
	return v, nil
}

type tokenStream struct {
	tokens []token
	pos    int
	names  []string
}

func (s *tokenStream) peek() (token, bool) {
	if s.pos >= len(s.tokens) {
		return token{}, false
	}
	return s.tokens[s.pos], true
}

func (s *tokenStream) match(kinds ...tokenKind) (token, bool) {
	tok, ok := s.peek()
	if !ok {
		return token{}, false
	}
	for _, kind := range kinds {
		if tok.kind == kind {
			s.pos++
			return tok, true
		}
	}
	return token{}, false
}

func parseOr(s *tokenStream) (node, error) {
	left, err := parseAnd(s)
	if err != nil {
		return nil, err
	}
	for {
		if _, ok := s.match(tokenOr); !ok {
			return left, nil
		}
		right, err := parseAnd(s)
		if err != nil {
			return nil, err
		}
		left = orNode{left: left, right: right}
	}
}

func parseAnd(s *tokenStream) (node, error) {
	left, err := parseNot(s)
	if err != nil {
		return nil, err
	}
	for {
		if _, ok := s.match(tokenAnd); !ok {
			return left, nil
		}
		right, err := parseNot(s)
		if err != nil {
			return nil, err
		}
		left = andNode{left: left, right: right}
	}
}

func parseNot(s *tokenStream) (node, error) {
	if _, ok := s.match(tokenNot); ok {
		inner, err := parseNot(s)
		if err != nil {
			return nil, err
		}
		return notNode{inner: inner}, nil
	}
	return parseComparison(s)
}

func parseComparison(s *tokenStream) (node, error) {
	left, err := parseAdditive(s)
	if err != nil {
		return nil, err
	}
	op, ok := s.match(tokenEq, tokenNeq, tokenLt, tokenLte, tokenGt, tokenGte)
	if !ok {
		return left, nil
	}
	right, err := parseAdditive(s)
	if err != nil {
		return nil, err
	}
	return compareNode{op: op.kind, left: left, right: right}, nil
}

func parseAdditive(s *tokenStream) (node, error) {
	left, err := parseMultiplicative(s)
	if err != nil {
		return nil, err
	}
	for {
		op, ok := s.match(tokenPlus, tokenMinus)
		if !ok {
			return left, nil
		}
		right, err := parseMultiplicative(s)
		if err != nil {
			return nil, err
		}
		left = arithNode{op: op.kind, left: left, right: right}
	}
}

func parseMultiplicative(s *tokenStream) (node, error) {
	left, err := parseUnary(s)
	if err != nil {
		return nil, err
	}
	for {
		op, ok := s.match(tokenStar, tokenSlash, tokenPercent)
		if !ok {
			return left, nil
		}
		right, err := parseUnary(s)
		if err != nil {
			return nil, err
		}
		left = arithNode{op: op.kind, left: left, right: right}
	}
}

func parseUnary(s *tokenStream) (node, error) {
	if _, ok := s.match(tokenMinus); ok {
		inner, err := parseUnary(s)
		if err != nil {
			return nil, err
		}
		return negNode{inner: inner}, nil
	}
	if _, ok := s.match(tokenPlus); ok {
		return parseUnary(s)
	}
	return parsePrimary(s)
}

func parsePrimary(s *tokenStream) (node, error) {
	tok, ok := s.peek()
	if !ok {
		return nil, errors.New("unexpected end of expression")
	}
	s.pos++

	switch tok.kind {
	case tokenLParen:
		inner, err := parseOr(s)
		if err != nil {
			return nil, err
		}
		if _, ok := s.match(tokenRParen); !ok {
			return nil, errors.New("missing closing ')'")
		}
		return inner, nil
	case tokenNumber:
		return parseNumber(tok)
	case tokenString:
		return literalNode{value: tok.raw}, nil
	case tokenBool:
		return literalNode{value: tok.raw == "true"}, nil
	case tokenNull:
		return literalNode{value: nil}, nil
	case tokenIdentifier:
		s.names = append(s.names, tok.raw)
		return nameNode{name: tok.raw}, nil
	default:
		return nil, fmt.Errorf("unexpected token %q at %d", tok.raw, tok.pos)
	}
}

func parseNumber(tok token) (node, error) {
	if !strings.ContainsAny(tok.raw, ".eE") {
		if i, err := strconv.ParseInt(tok.raw, 10, 64); err == nil {
			return literalNode{value: i}, nil
		}
	}
	f, err := strconv.ParseFloat(tok.raw, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid number literal %q at %d", tok.raw, tok.pos)
	}
	return literalNode{value: f}, nil
}
