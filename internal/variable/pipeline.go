package variable

import (
	"context"
	"fmt"
	"reflect"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/conneroisu/varfmt/internal/binding"
	"github.com/conneroisu/varfmt/internal/formats"
	"github.com/conneroisu/varfmt/internal/logging"
	"github.com/conneroisu/varfmt/internal/params"
	"github.com/conneroisu/varfmt/internal/value"
)

// Pipeline renders References. It holds no per-render state, so one
// Pipeline may serve any number of concurrent renders.
type Pipeline struct {
	registry *formats.Registry
	logger   logging.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithRegistry sets the format registry consulted by the custom-format
// cascade.
func WithRegistry(r *formats.Registry) Option {
	return func(p *Pipeline) {
		if r != nil {
			p.registry = r
		}
	}
}

// WithLogger sets the logger that records absorbed formatting failures at
// debug level.
func WithLogger(l logging.Logger) Option {
	return func(p *Pipeline) {
		if l != nil {
			p.logger = l.WithComponent("variable")
		}
	}
}

var defaultPipeline = NewPipeline()

// NewPipeline creates a Pipeline over formats.Default() that logs nothing
// unless configured otherwise.
func NewPipeline(opts ...Option) *Pipeline {
	p := &Pipeline{registry: formats.Default(), logger: logging.Nop()}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Registry returns the registry the pipeline dispatches to.
func (p *Pipeline) Registry() *formats.Registry { return p.registry }

// Render resolves ref against ctx and formats the value. Only resolution
// failures are returned.
func (p *Pipeline) Render(ref *Reference, ctx binding.Context) (string, error) {
	v, err := ref.Resolve(ctx)
	if err != nil {
		return "", err
	}
	return p.Format(ref, v), nil
}

// Format runs an already resolved value through the formatting stages:
// custom format, case transforms, null substitution, base format and
// truncation. It never fails.
func (p *Pipeline) Format(ref *Reference, v any) string {
	set := &ref.set

	if set.HasFmt {
		v = p.customFormat(v, set.Fmt, ref.Identifier())
	}

	v = transformCase(v, set)

	if set.HasNull && !value.Truthy(v) {
		return set.Null
	}

	s, ok := ref.base.apply(v)
	if !ok {
		p.logger.Debug(context.Background(), "base format does not fit value, using string form",
			"variable", ref.Identifier(), "format", ref.baseFormat, "type", fmt.Sprintf("%T", v))
		s = value.String(v)
	}

	if set.HasSize {
		s = Truncate(s, set.Size, set.Etc)
	}
	return s
}

// probe is one step of the custom-format cascade. ok is false when the
// probe does not apply to the value.
type probe func(v any, tag string) (out any, ok bool)

func (p *Pipeline) customFormat(v any, tag, ident string) any {
	probes := []probe{methodProbe, p.registryProbe, printfProbe}
	for _, try := range probes {
		if out, ok := try(v, tag); ok {
			return out
		}
	}
	p.logger.Debug(context.Background(), "custom format not applicable, value left unchanged",
		"variable", ident, "fmt", tag, "type", fmt.Sprintf("%T", v))
	return v
}

var errorType = reflect.TypeOf((*error)(nil)).Elem()

// methodProbe calls a zero-argument method named tag on the value. The
// method may return a value, or a value and an error.
func methodProbe(v any, tag string) (out any, ok bool) {
	if v == nil || tag == "" {
		return nil, false
	}
	m := reflect.ValueOf(v).MethodByName(tag)
	if !m.IsValid() {
		return nil, false
	}
	mt := m.Type()
	if mt.NumIn() != 0 {
		return nil, false
	}
	switch {
	case mt.NumOut() == 1:
	case mt.NumOut() == 2 && mt.Out(1).Implements(errorType):
	default:
		return nil, false
	}

	defer func() {
		if recover() != nil {
			out, ok = nil, false
		}
	}()
	results := m.Call(nil)
	if len(results) == 2 && !results[1].IsNil() {
		return nil, false
	}
	return results[0].Interface(), true
}

func (p *Pipeline) registryProbe(v any, tag string) (out any, ok bool) {
	defer func() {
		if recover() != nil {
			out, ok = nil, false
		}
	}()
	return p.registry.Apply(tag, v)
}

func printfProbe(v any, tag string) (any, bool) {
	return sprintf(tag, v)
}

// transformCase applies upper, lower, capitalize and spacify in that order.
// Each stage overwrites the previous one.
func transformCase(v any, set *params.Set) any {
	if set.Upper {
		v = cases.Upper(language.Und).String(value.String(v))
	}
	if set.Lower {
		v = cases.Lower(language.Und).String(value.String(v))
	}
	if set.Capitalize {
		v = capitalize(value.String(v))
	}
	if set.Spacify {
		v = strings.ReplaceAll(value.String(v), "_", " ")
	}
	return v
}

// capitalize uppercases the first character and lowercases the rest.
func capitalize(s string) string {
	if s == "" {
		return s
	}
	_, n := utf8.DecodeRuneInString(s)
	return cases.Upper(language.Und).String(s[:n]) + cases.Lower(language.Und).String(s[n:])
}

// Truncate shortens s to at most size runes followed by etc. When the cut
// prefix holds a space past size/2, the cut moves to just after it so the
// second half of a word is never split. Strings that fit are returned
// unchanged.
func Truncate(s string, size int, etc string) string {
	if utf8.RuneCountInString(s) <= size {
		return s
	}
	if size < 0 {
		size = 0
	}
	cut := []rune(s)[:size]
	for i := len(cut) - 1; i >= 0; i-- {
		if cut[i] == ' ' {
			if i > size/2 {
				cut = cut[:i+1]
			}
			break
		}
	}
	return string(cut) + etc
}
