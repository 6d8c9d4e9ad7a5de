package expr

import (
	"fmt"
	"strings"
)

type tokenKind int

const (
	tokenIdentifier tokenKind = iota
	tokenString
	tokenNumber
	tokenBool
	tokenNull
	tokenEq
	tokenNeq
	tokenLt
	tokenLte
	tokenGt
	tokenGte
	tokenAnd
	tokenOr
	tokenNot
	tokenPlus
	tokenMinus
	tokenStar
	tokenSlash
	tokenPercent
	tokenLParen
	tokenRParen
)

type token struct {
	kind tokenKind
	raw  string
	pos  int
}

var operators = []struct {
	raw  string
	kind tokenKind
}{
	// Two-character operators first so "<=" is not read as "<".
	{"==", tokenEq},
	{"!=", tokenNeq},
	{"<=", tokenLte},
	{">=", tokenGte},
	{"&&", tokenAnd},
	{"||", tokenOr},
	{"<", tokenLt},
	{">", tokenGt},
	{"!", tokenNot},
	{"+", tokenPlus},
	{"-", tokenMinus},
	{"*", tokenStar},
	{"/", tokenSlash},
	{"%", tokenPercent},
	{"(", tokenLParen},
	{")", tokenRParen},
}

func tokenize(input string) ([]token, error) {
	var tokens []token
	i := 0

	for i < len(input) {
		ch := input[i]
		if ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r' {
			i++
			continue
		}

		if ch == '"' || ch == '\'' {
			start := i
			i++
			escaped := false
			closed := false
			for i < len(input) {
				c := input[i]
				i++
				if escaped {
					escaped = false
					continue
				}
				if c == '\\' {
					escaped = true
					continue
				}
				if c == ch {
					closed = true
					break
				}
			}
			if !closed {
				return nil, fmt.Errorf("unterminated string literal at %d", start)
			}
			tokens = append(tokens, token{kind: tokenString, raw: unescape(input[start+1 : i-1]), pos: start})
			continue
		}

		if ch >= '0' && ch <= '9' || ch == '.' && i+1 < len(input) && isDigit(input[i+1]) {
			start := i
			for i < len(input) && (isDigit(input[i]) || input[i] == '.' || input[i] == 'e' || input[i] == 'E' ||
				(input[i] == '+' || input[i] == '-') && (input[i-1] == 'e' || input[i-1] == 'E')) {
				i++
			}
			tokens = append(tokens, token{kind: tokenNumber, raw: input[start:i], pos: start})
			continue
		}

		if isIdentStart(ch) {
			start := i
			for i < len(input) && (isIdentStart(input[i]) || isDigit(input[i]) || input[i] == '.') {
				i++
			}
			raw := input[start:i]
			switch raw {
			case "true", "false":
				tokens = append(tokens, token{kind: tokenBool, raw: raw, pos: start})
			case "null", "nil", "None":
				tokens = append(tokens, token{kind: tokenNull, raw: "null", pos: start})
			case "and":
				tokens = append(tokens, token{kind: tokenAnd, raw: raw, pos: start})
			case "or":
				tokens = append(tokens, token{kind: tokenOr, raw: raw, pos: start})
			case "not":
				tokens = append(tokens, token{kind: tokenNot, raw: raw, pos: start})
			default:
				if strings.HasSuffix(raw, ".") || strings.Contains(raw, "..") {
					return nil, fmt.Errorf("invalid identifier %q at %d", raw, start)
				}
				tokens = append(tokens, token{kind: tokenIdentifier, raw: raw, pos: start})
			}
			continue
		}

		matched := false
		for _, op := range operators {
			if strings.HasPrefix(input[i:], op.raw) {
				tokens = append(tokens, token{kind: op.kind, raw: op.raw, pos: i})
				i += len(op.raw)
				matched = true
				break
			}
		}
		if !matched {
			return nil, fmt.Errorf("unexpected character %q at %d", ch, i)
		}
	}

	return tokens, nil
}

// unescape resolves \n, \t, \r and backslash-quoted characters.
func unescape(body string) string {
	if !strings.Contains(body, `\`) {
		return body
	}
	var sb strings.Builder
	for i := 0; i < len(body); i++ {
		c := body[i]
		if c != '\\' || i+1 == len(body) {
			sb.WriteByte(c)
			continue
		}
		i++
		switch body[i] {
		case 'n':
			sb.WriteByte('\n')
		case 't':
			sb.WriteByte('\t')
		case 'r':
			sb.WriteByte('\r')
		default:
			sb.WriteByte(body[i])
		}
	}
	return sb.String()
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isIdentStart(c byte) bool {
	return c == '_' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}
