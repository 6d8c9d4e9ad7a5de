// Package variable compiles variable placeholders into References and
// renders them through the formatting pipeline.
package variable

import (
	"github.com/conneroisu/varfmt/internal/binding"
	varerrors "github.com/conneroisu/varfmt/internal/errors"
	"github.com/conneroisu/varfmt/internal/expr"
	"github.com/conneroisu/varfmt/internal/params"
)

// DefaultBaseFormat is plain string conversion.
const DefaultBaseFormat = "s"

// Reference is a compiled placeholder: what to render and how. It is
// immutable once compiled and safe for concurrent use.
type Reference struct {
	set        params.Set
	expr       *expr.Expression
	baseFormat string
	base       *printfFormat
}

// Compile validates attrs and baseFormat and compiles the expression, if
// any. An empty baseFormat means DefaultBaseFormat. All failures are
// configuration errors.
func Compile(attrs []params.Attr, baseFormat string) (*Reference, error) {
	set, err := params.Parse(attrs)
	if err != nil {
		return nil, err
	}

	if baseFormat == "" {
		baseFormat = DefaultBaseFormat
	}
	base, err := parsePrintf("%" + baseFormat)
	if err != nil {
		return nil, varerrors.NewConfigurationError(varerrors.ErrCodeInvalidBaseFormat, baseFormat,
			"invalid base format").WithCause(err)
	}

	ref := &Reference{set: *set, baseFormat: baseFormat, base: base}
	if set.Expr != "" {
		ref.expr, err = expr.Compile(set.Expr)
		if err != nil {
			return nil, err
		}
	}
	return ref, nil
}

// MustCompile is Compile for static placeholders; it panics on error.
func MustCompile(attrs []params.Attr, baseFormat string) *Reference {
	ref, err := Compile(attrs, baseFormat)
	if err != nil {
		panic(err)
	}
	return ref
}

// Parse tokenizes the argument text of a placeholder and compiles it with
// the default base format.
func Parse(args string) (*Reference, error) {
	attrs, err := params.ParseAttributes(args)
	if err != nil {
		return nil, err
	}
	return Compile(attrs, "")
}

// Identifier is the variable name or the expression source.
func (r *Reference) Identifier() string { return r.set.Identifier() }

// Params returns a copy of the validated parameter set.
func (r *Reference) Params() params.Set { return r.set }

// BaseFormat returns the final printf-style conversion without its leading %.
func (r *Reference) BaseFormat() string { return r.baseFormat }

// IsExpr reports whether the value comes from an expression.
func (r *Reference) IsExpr() bool { return r.expr != nil }

// Resolve produces the raw value: a name lookup or an expression
// evaluation. Failures are lookup or eval errors and are never absorbed.
func (r *Reference) Resolve(ctx binding.Context) (any, error) {
	if ctx == nil {
		ctx = binding.Empty
	}
	if r.expr != nil {
		return r.expr.Eval(ctx)
	}
	v, ok := ctx.Lookup(r.set.Name)
	if !ok {
		return nil, varerrors.NewLookupError(r.set.Name)
	}
	return v, nil
}

// Render renders r with the default pipeline.
func (r *Reference) Render(ctx binding.Context) (string, error) {
	return defaultPipeline.Render(r, ctx)
}
