package variable

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/conneroisu/varfmt/internal/value"
)

// conversion is one conversion specifier of a printf-style format: %[flags][width][.precision]verb.
type conversion struct {
	flags     string
	width     string
	precision string
	verb      byte
}

// segment is either literal text or a conversion.
type segment struct {
	literal string
	conv    *conversion
}

// printfFormat is a parsed printf-style format that consumes exactly one
// argument.
type printfFormat struct {
	source   string
	segments []segment
}

const printfVerbs = "sdiufFeEgGxXocr"

// parsePrintf parses format and checks that it holds exactly one conversion.
func parsePrintf(format string) (*printfFormat, error) {
	var segments []segment
	var lit strings.Builder
	conversions := 0

	for i := 0; i < len(format); i++ {
		c := format[i]
		if c != '%' {
			lit.WriteByte(c)
			continue
		}
		i++
		if i >= len(format) {
			return nil, fmt.Errorf("format %q ends with a bare %%", format)
		}
		if format[i] == '%' {
			lit.WriteByte('%')
			continue
		}

		conv := &conversion{}
		start := i
		for i < len(format) && strings.IndexByte("-+ #0", format[i]) >= 0 {
			i++
		}
		conv.flags = format[start:i]

		start = i
		for i < len(format) && isDigit(format[i]) {
			i++
		}
		conv.width = format[start:i]

		if i < len(format) && format[i] == '.' {
			start = i
			i++
			for i < len(format) && isDigit(format[i]) {
				i++
			}
			conv.precision = format[start:i]
		}

		if i >= len(format) || strings.IndexByte(printfVerbs, format[i]) < 0 {
			return nil, fmt.Errorf("format %q has an unsupported conversion", format)
		}
		conv.verb = format[i]

		if lit.Len() > 0 {
			segments = append(segments, segment{literal: lit.String()})
			lit.Reset()
		}
		segments = append(segments, segment{conv: conv})
		conversions++
	}
	if lit.Len() > 0 {
		segments = append(segments, segment{literal: lit.String()})
	}

	if conversions != 1 {
		return nil, fmt.Errorf("format %q must hold exactly one conversion, found %d", format, conversions)
	}
	return &printfFormat{source: format, segments: segments}, nil
}

// sprintf formats v with a printf-style format, reporting false when the
// format is invalid or v does not suit its conversion.
func sprintf(format string, v any) (string, bool) {
	f, err := parsePrintf(format)
	if err != nil {
		return "", false
	}
	return f.apply(v)
}

func (f *printfFormat) apply(v any) (string, bool) {
	var sb strings.Builder
	for _, seg := range f.segments {
		if seg.conv == nil {
			sb.WriteString(seg.literal)
			continue
		}
		out, ok := seg.conv.apply(v)
		if !ok {
			return "", false
		}
		sb.WriteString(out)
	}
	return sb.String(), true
}

func (c *conversion) apply(v any) (string, bool) {
	verb := c.verb
	precision := c.precision
	var arg any

	switch verb {
	case 's':
		arg = value.String(v)
	case 'r':
		if s, ok := v.(string); ok {
			arg = strconv.Quote(s)
		} else {
			arg = value.String(v)
		}
		verb = 's'
	case 'd', 'i', 'u':
		n, ok := integer(v)
		if !ok {
			return "", false
		}
		arg, verb = n, 'd'
	case 'x', 'X', 'o':
		n, ok := integer(v)
		if !ok {
			return "", false
		}
		arg = n
	case 'f', 'F', 'e', 'E', 'g', 'G':
		f, ok := value.Float(v)
		if !ok {
			return "", false
		}
		if (verb == 'g' || verb == 'G') && precision == "" {
			precision = ".6"
		}
		arg = f
	case 'c':
		r, ok := char(v)
		if !ok {
			return "", false
		}
		arg = r
	default:
		return "", false
	}

	out := fmt.Sprintf("%"+c.flags+c.width+precision+string(verb), arg)
	if strings.Contains(out, "%!") {
		return "", false
	}
	return out, true
}

// integer converts integral values and truncates floats toward zero.
func integer(v any) (any, bool) {
	switch v.(type) {
	case bool, string, nil:
		return nil, false
	}
	s, ok := value.IntegerString(v)
	if !ok {
		return nil, false
	}
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i, true
	}
	if u, err := strconv.ParseUint(s, 10, 64); err == nil {
		return u, true
	}
	return nil, false
}

func char(v any) (rune, bool) {
	if s, ok := v.(string); ok {
		if utf8.RuneCountInString(s) != 1 {
			return 0, false
		}
		r, _ := utf8.DecodeRuneInString(s)
		return r, true
	}
	n, ok := integer(v)
	if !ok {
		return 0, false
	}
	switch i := n.(type) {
	case int64:
		if i < 0 || i > utf8.MaxRune {
			return 0, false
		}
		return rune(i), true
	case uint64:
		if i > utf8.MaxRune {
			return 0, false
		}
		return rune(i), true
	}
	return 0, false
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }
