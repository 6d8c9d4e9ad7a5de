// Package formats provides the registry of named custom formats a
// placeholder can request with fmt=.
//
// A registry is immutable once built. Every directive is a pure, total
// function: values of the wrong shape produce an empty string instead of an
// error.
package formats

import (
	"fmt"
	"sort"
	"sync"

	varerrors "github.com/conneroisu/varfmt/internal/errors"
)

// Directive transforms a raw value into its formatted text.
type Directive func(v any) string

// Entry pairs a tag with its directive for registry construction.
type Entry struct {
	Tag       string
	Directive Directive
}

// Registry maps format tags to directives.
type Registry struct {
	directives map[string]Directive
}

var (
	defaultOnce     sync.Once
	defaultRegistry *Registry
)

// Default returns the registry holding exactly the built-in directives.
func Default() *Registry {
	defaultOnce.Do(func() {
		defaultRegistry = &Registry{directives: builtins()}
	})
	return defaultRegistry
}

// New builds a registry from the built-ins plus extra entries. Extras may
// not reuse a built-in tag or each other's tags.
func New(extra ...Entry) (*Registry, error) {
	directives := builtins()
	for _, entry := range extra {
		if entry.Tag == "" {
			return nil, varerrors.NewConfigurationError(varerrors.ErrCodeInvalidRegistry, "", "format tag is required")
		}
		if entry.Directive == nil {
			return nil, varerrors.NewConfigurationError(varerrors.ErrCodeInvalidRegistry, entry.Tag, "format directive is required")
		}
		if _, exists := directives[entry.Tag]; exists {
			return nil, varerrors.NewConfigurationError(varerrors.ErrCodeInvalidRegistry, entry.Tag,
				fmt.Sprintf("format %q already registered", entry.Tag))
		}
		directives[entry.Tag] = entry.Directive
	}
	return &Registry{directives: directives}, nil
}

// MustNew panics on construction failure. Useful for init-time wiring.
func MustNew(extra ...Entry) *Registry {
	r, err := New(extra...)
	if err != nil {
		panic(err)
	}
	return r
}

// Lookup retrieves a directive by tag.
func (r *Registry) Lookup(tag string) (Directive, bool) {
	d, ok := r.directives[tag]
	return d, ok
}

// Apply runs the directive registered under tag. ok is false when no
// directive has that tag.
func (r *Registry) Apply(tag string, v any) (string, bool) {
	d, ok := r.directives[tag]
	if !ok {
		return "", false
	}
	return d(v), true
}

// Has reports whether a directive is registered.
func (r *Registry) Has(tag string) bool {
	_, ok := r.directives[tag]
	return ok
}

// Tags returns a sorted list of registered tags.
func (r *Registry) Tags() []string {
	tags := make([]string, 0, len(r.directives))
	for tag := range r.directives {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}
