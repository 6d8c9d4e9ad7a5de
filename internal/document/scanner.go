package document

import (
	"strings"

	varerrors "github.com/conneroisu/varfmt/internal/errors"
)

// Placeholder syntaxes: the comment form and the tag form.
const (
	commentOpen  = "<!--#var"
	commentClose = "-->"
	tagOpen      = "<dtml-var"
	tagClose     = ">"
)

// rawPlaceholder is one placeholder found in the source.
type rawPlaceholder struct {
	offset int    // byte offset of the opener
	end    int    // byte offset just past the closer
	args   string // argument text between opener and closer
}

// scan splits src into literal text and placeholders. literals always has
// one more element than holders. Quoted argument values may contain the
// closer.
func scan(src string) (literals []string, holders []rawPlaceholder, err error) {
	var lit strings.Builder
	pos := 0
	for {
		start, open, closer := nextOpener(src, pos)
		if start < 0 {
			lit.WriteString(src[pos:])
			return append(literals, lit.String()), holders, nil
		}

		argsStart := start + len(open)
		if argsStart < len(src) && !isSpace(src[argsStart]) && !strings.HasPrefix(src[argsStart:], closer) {
			// Some other tag sharing the prefix, such as <dtml-variable>.
			lit.WriteString(src[pos:argsStart])
			pos = argsStart
			continue
		}

		end, ok := findClose(src, argsStart, closer)
		if !ok {
			return nil, nil, varerrors.WithOffset(
				varerrors.NewConfigurationError(varerrors.ErrCodeMalformedTag, open, "unterminated placeholder"), start)
		}

		args := strings.TrimSpace(src[argsStart:end])
		if closer == tagClose {
			args = strings.TrimSpace(strings.TrimSuffix(args, "/"))
		}

		lit.WriteString(src[pos:start])
		literals = append(literals, lit.String())
		lit.Reset()
		holders = append(holders, rawPlaceholder{offset: start, end: end + len(closer), args: args})
		pos = end + len(closer)
	}
}

func nextOpener(src string, pos int) (start int, open, closer string) {
	c := strings.Index(src[pos:], commentOpen)
	t := strings.Index(src[pos:], tagOpen)
	switch {
	case c < 0 && t < 0:
		return -1, "", ""
	case t < 0 || (c >= 0 && c < t):
		return pos + c, commentOpen, commentClose
	default:
		return pos + t, tagOpen, tagClose
	}
}

// findClose returns the index of closer at or after i, skipping quoted runs.
func findClose(src string, i int, closer string) (int, bool) {
	var quote byte
	for ; i < len(src); i++ {
		c := src[i]
		switch {
		case quote != 0:
			if c == '\\' {
				i++
			} else if c == quote {
				quote = 0
			}
		case c == '"' || c == '\'':
			quote = c
		case strings.HasPrefix(src[i:], closer):
			return i, true
		}
	}
	return 0, false
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}
