// Package document compiles text containing variable placeholders into a
// Template and renders it against a binding context.
//
// Two placeholder forms are recognized:
//
//	<!--#var title upper size=20-->
//	<dtml-var expr="price * qty" fmt=dollars-and-cents>
//
// Every placeholder is compiled once, when the document is parsed, so
// configuration errors surface before anything is rendered.
package document

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/conneroisu/varfmt/internal/binding"
	varerrors "github.com/conneroisu/varfmt/internal/errors"
	"github.com/conneroisu/varfmt/internal/logging"
	"github.com/conneroisu/varfmt/internal/variable"
)

// ErrorPolicy decides what a render does when a placeholder fails to
// resolve.
type ErrorPolicy string

const (
	// PolicyAbort stops rendering and returns the error.
	PolicyAbort ErrorPolicy = "abort"
	// PolicyMarker substitutes the error marker for the placeholder.
	PolicyMarker ErrorPolicy = "marker"
	// PolicyEmpty substitutes nothing.
	PolicyEmpty ErrorPolicy = "empty"
)

// DefaultErrorMarker is substituted under PolicyMarker. %s receives the
// variable name or expression.
const DefaultErrorMarker = "[error: %s]"

// ParsePolicy converts a policy name.
func ParsePolicy(name string) (ErrorPolicy, error) {
	switch p := ErrorPolicy(strings.ToLower(strings.TrimSpace(name))); p {
	case PolicyAbort, PolicyMarker, PolicyEmpty:
		return p, nil
	case "":
		return PolicyAbort, nil
	default:
		return "", fmt.Errorf("unknown error policy %q (want abort, marker or empty)", name)
	}
}

// Placeholder describes one compiled placeholder.
type Placeholder struct {
	Offset     int
	End        int
	Args       string
	Identifier string
}

type part struct {
	literal string
	ref     *variable.Reference
	holder  Placeholder
}

// Template is a parsed document. It is immutable and may be rendered
// concurrently.
type Template struct {
	parts    []part
	pipeline *variable.Pipeline
	policy   ErrorPolicy
	marker   string
	logger   logging.Logger
}

// Option configures a Template.
type Option func(*Template)

// WithPipeline sets the pipeline placeholders are rendered with.
func WithPipeline(p *variable.Pipeline) Option {
	return func(t *Template) {
		if p != nil {
			t.pipeline = p
		}
	}
}

// WithErrorPolicy sets the policy for resolution failures.
func WithErrorPolicy(p ErrorPolicy) Option {
	return func(t *Template) { t.policy = p }
}

// WithErrorMarker sets the marker used under PolicyMarker.
func WithErrorMarker(marker string) Option {
	return func(t *Template) { t.marker = marker }
}

// WithLogger sets the logger that records substituted failures.
func WithLogger(l logging.Logger) Option {
	return func(t *Template) {
		if l != nil {
			t.logger = l.WithComponent("document")
		}
	}
}

// Parse compiles every placeholder in src. All configuration errors are
// reported together, each carrying the byte offset of its placeholder.
func Parse(src string, opts ...Option) (*Template, error) {
	t := &Template{
		pipeline: variable.NewPipeline(),
		policy:   PolicyAbort,
		marker:   DefaultErrorMarker,
		logger:   logging.Nop(),
	}
	for _, opt := range opts {
		opt(t)
	}
	if _, err := ParsePolicy(string(t.policy)); err != nil {
		return nil, err
	}

	literals, holders, err := scan(src)
	if err != nil {
		return nil, err
	}

	var errs []error
	for i, h := range holders {
		if literals[i] != "" {
			t.parts = append(t.parts, part{literal: literals[i]})
		}
		ref, err := variable.Parse(h.args)
		if err != nil {
			errs = append(errs, varerrors.WithOffset(err, h.offset))
			continue
		}
		t.parts = append(t.parts, part{ref: ref, holder: Placeholder{
			Offset:     h.offset,
			End:        h.end,
			Args:       h.args,
			Identifier: ref.Identifier(),
		}})
	}
	if tail := literals[len(literals)-1]; tail != "" {
		t.parts = append(t.parts, part{literal: tail})
	}

	if err := varerrors.CombineErrors(errs...); err != nil {
		return nil, err
	}
	return t, nil
}

// MustParse is Parse for static documents; it panics on error.
func MustParse(src string, opts ...Option) *Template {
	t, err := Parse(src, opts...)
	if err != nil {
		panic(err)
	}
	return t
}

// Placeholders lists the compiled placeholders in document order.
func (t *Template) Placeholders() []Placeholder {
	var out []Placeholder
	for _, p := range t.parts {
		if p.ref != nil {
			out = append(out, p.holder)
		}
	}
	return out
}

// Render renders the document against ctx.
func (t *Template) Render(ctx binding.Context) (string, error) {
	var sb strings.Builder
	if err := t.Execute(&sb, ctx); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// Execute renders the document against ctx and writes it to w. Under
// PolicyAbort nothing is written when a placeholder fails.
func (t *Template) Execute(w io.Writer, ctx binding.Context) error {
	var sb strings.Builder
	for _, p := range t.parts {
		if p.ref == nil {
			sb.WriteString(p.literal)
			continue
		}
		out, err := t.pipeline.Render(p.ref, ctx)
		if err != nil {
			out, err = t.substitute(p, err)
			if err != nil {
				return err
			}
		}
		sb.WriteString(out)
	}
	_, err := io.WriteString(w, sb.String())
	return err
}

func (t *Template) substitute(p part, err error) (string, error) {
	switch t.policy {
	case PolicyMarker:
		t.logger.Warn(context.Background(), err, "placeholder failed, substituting marker",
			"variable", p.holder.Identifier, "offset", p.holder.Offset)
		return strings.ReplaceAll(t.marker, "%s", p.holder.Identifier), nil
	case PolicyEmpty:
		t.logger.Warn(context.Background(), err, "placeholder failed, substituting nothing",
			"variable", p.holder.Identifier, "offset", p.holder.Offset)
		return "", nil
	default:
		return "", varerrors.WithOffset(err, p.holder.Offset)
	}
}
