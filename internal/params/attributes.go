package params

import (
	"strings"

	varerrors "github.com/conneroisu/varfmt/internal/errors"
)

// ParseAttributes splits the argument text of a placeholder into attribute
// pairs. It accepts key=value, key="value", key='value' and bare words.
//
// A leading bare word that is not a flag names the variable, so
// `title upper` yields name=title and upper. A leading bare quoted string is
// an expression: `"price * qty"` yields expr=price * qty.
func ParseAttributes(src string) ([]Attr, error) {
	var attrs []Attr
	i := 0

	skipSpace := func() {
		for i < len(src) && isSpace(src[i]) {
			i++
		}
	}

	for {
		skipSpace()
		if i >= len(src) {
			break
		}

		if src[i] == '"' || src[i] == '\'' {
			text, next, err := readQuoted(src, i)
			if err != nil {
				return nil, err
			}
			i = next
			if len(attrs) != 0 {
				return nil, varerrors.NewConfigurationError(varerrors.ErrCodeMalformedTag, text,
					"quoted value without a parameter name")
			}
			attrs = append(attrs, Attr{Key: KeyExpr, Value: text, HasValue: true})
			continue
		}

		start := i
		for i < len(src) && !isSpace(src[i]) && src[i] != '=' {
			i++
		}
		key := src[start:i]

		if i < len(src) && src[i] == '=' {
			i++
			if key == "" {
				return nil, varerrors.NewConfigurationError(varerrors.ErrCodeMalformedTag, "",
					"'=' without a parameter name")
			}
			val, next, err := readValue(src, i)
			if err != nil {
				return nil, err
			}
			i = next
			attrs = append(attrs, Attr{Key: key, Value: val, HasValue: true})
			continue
		}

		if len(attrs) == 0 && !IsFlag(key) {
			attrs = append(attrs, Attr{Key: KeyName, Value: key, HasValue: true})
			continue
		}
		attrs = append(attrs, Attr{Key: key})
	}

	return attrs, nil
}

// FromPairs converts "key=value" and bare "key" strings into attributes.
// Values are taken verbatim, without quote processing.
func FromPairs(pairs []string) []Attr {
	attrs := make([]Attr, 0, len(pairs))
	for _, pair := range pairs {
		key, val, found := strings.Cut(pair, "=")
		attrs = append(attrs, Attr{Key: strings.TrimSpace(key), Value: val, HasValue: found})
	}
	return attrs
}

func readValue(src string, i int) (string, int, error) {
	if i < len(src) && (src[i] == '"' || src[i] == '\'') {
		return readQuoted(src, i)
	}
	start := i
	for i < len(src) && !isSpace(src[i]) {
		i++
	}
	return src[start:i], i, nil
}

// readQuoted reads a quoted string starting at src[i]. A backslash escapes
// the next character.
func readQuoted(src string, i int) (string, int, error) {
	quote := src[i]
	i++

	var sb strings.Builder
	for i < len(src) {
		c := src[i]
		i++
		switch {
		case c == '\\' && i < len(src):
			sb.WriteByte(src[i])
			i++
		case c == quote:
			return sb.String(), i, nil
		default:
			sb.WriteByte(c)
		}
	}
	return "", i, varerrors.NewConfigurationError(varerrors.ErrCodeMalformedTag, src,
		"unterminated quoted value")
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}
