package formats

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/conneroisu/varfmt/internal/value"
)

// Built-in format tags.
const (
	HTMLQuote                  = "html-quote"
	URLQuote                   = "url-quote"
	MultiLine                  = "multi-line"
	CommaNumeric               = "comma-numeric"
	WholeDollars               = "whole-dollars"
	DollarsAndCents            = "dollars-and-cents"
	DollarsWithCommas          = "dollars-with-commas"
	DollarsAndCentsWithCommas  = "dollars-and-cents-with-commas"
	CollectionLength           = "collection-length"
	CollectionLengthWithCommas = "collection-length-with-commas"
)

func builtins() map[string]Directive {
	return map[string]Directive{
		HTMLQuote:                  HTMLQuoteDirective,
		URLQuote:                   URLQuoteDirective,
		MultiLine:                  MultiLineDirective,
		CommaNumeric:               func(v any) string { return Commatify(value.String(v)) },
		WholeDollars:               WholeDollarsDirective,
		DollarsAndCents:            DollarsAndCentsDirective,
		DollarsWithCommas:          func(v any) string { return Commatify(WholeDollarsDirective(v)) },
		DollarsAndCentsWithCommas:  func(v any) string { return Commatify(DollarsAndCentsDirective(v)) },
		CollectionLength:           CollectionLengthDirective,
		CollectionLengthWithCommas: func(v any) string { return Commatify(CollectionLengthDirective(v)) },
	}
}

// Ampersand goes first so the entities introduced later are not re-escaped.
// A Replacer makes a single pass, which gives the same result.
var htmlEntities = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
)

// HTMLQuoteDirective escapes &, <, > and " to named entities.
func HTMLQuoteDirective(v any) string {
	return htmlEntities.Replace(value.String(v))
}

const upperhex = "0123456789ABCDEF"

// URLQuoteDirective percent-encodes every byte except ASCII letters, digits,
// '_', '.', '-', '~' and '/'.
func URLQuoteDirective(v any) string {
	s := value.String(v)

	var sb strings.Builder
	sb.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if urlSafe(c) {
			sb.WriteByte(c)
			continue
		}
		sb.WriteByte('%')
		sb.WriteByte(upperhex[c>>4])
		sb.WriteByte(upperhex[c&15])
	}
	return sb.String()
}

func urlSafe(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	}
	switch c {
	case '_', '.', '-', '~', '/':
		return true
	}
	return false
}

var lineBreak = regexp.MustCompile(`\r?\n`)

// MultiLineDirective turns every line break into "<br>\n".
func MultiLineDirective(v any) string {
	return lineBreak.ReplaceAllLiteralString(value.String(v), "<br>\n")
}

// WholeDollarsDirective renders "$" and the integer part of a number.
func WholeDollarsDirective(v any) string {
	s, ok := value.IntegerString(v)
	if !ok {
		return ""
	}
	return "$" + s
}

// DollarsAndCentsDirective renders "$" and the number with two decimals.
func DollarsAndCentsDirective(v any) string {
	f, ok := value.Float(v)
	if !ok || math.IsNaN(f) || math.IsInf(f, 0) {
		return ""
	}
	return "$" + strconv.FormatFloat(f, 'f', 2, 64)
}

// CollectionLengthDirective renders the element count of v, or "" when v
// has no length.
func CollectionLengthDirective(v any) string {
	n, ok := value.Len(v)
	if !ok {
		return ""
	}
	return strconv.Itoa(n)
}

// A digit followed by exactly three digits and then a comma or the end.
var thousands = regexp.MustCompile(`([0-9])([0-9]{3}(?:,|$))`)

var digitRun = regexp.MustCompile(`[0-9]+`)

// Commatify inserts thousands separators into every run of digits in s,
// except fractional runs, which start right after a '.'. Applying it twice
// changes nothing.
func Commatify(s string) string {
	var sb strings.Builder
	last := 0
	for _, loc := range digitRun.FindAllStringIndex(s, -1) {
		start, end := loc[0], loc[1]
		sb.WriteString(s[last:start])
		if start > 0 && s[start-1] == '.' {
			sb.WriteString(s[start:end])
		} else {
			sb.WriteString(groupDigits(s[start:end]))
		}
		last = end
	}
	sb.WriteString(s[last:])
	return sb.String()
}

// groupDigits inserts one comma per pass at the left-most match, so runs of
// any length are grouped.
func groupDigits(run string) string {
	for {
		loc := thousands.FindStringSubmatchIndex(run)
		if loc == nil {
			return run
		}
		run = run[:loc[4]] + "," + run[loc[4]:]
	}
}
