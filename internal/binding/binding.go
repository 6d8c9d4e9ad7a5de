// Package binding provides the read-only name lookup a placeholder is
// rendered against. Implementations must be safe for concurrent reads when
// renders run in parallel.
package binding

import (
	"reflect"
	"strings"
)

// Context resolves a name to a value for the duration of one render pass.
type Context interface {
	Lookup(name string) (any, bool)
}

// ContextFunc adapts a function into a Context.
type ContextFunc func(name string) (any, bool)

// Lookup delegates to the underlying function.
func (fn ContextFunc) Lookup(name string) (any, bool) {
	return fn(name)
}

// Map is a Context backed by a map. Names may be dotted paths into nested
// maps and structs; an exact key match is preferred over traversal.
type Map map[string]any

// Lookup implements Context.
func (m Map) Lookup(name string) (any, bool) {
	return lookupPath(m, name)
}

type chain []Context

// Chain layers contexts; the first context that knows a name wins. nil
// entries are skipped.
func Chain(contexts ...Context) Context {
	out := make(chain, 0, len(contexts))
	for _, c := range contexts {
		if c != nil {
			out = append(out, c)
		}
	}
	return out
}

func (c chain) Lookup(name string) (any, bool) {
	for _, ctx := range c {
		if v, ok := ctx.Lookup(name); ok {
			return v, true
		}
	}
	return nil, false
}

// Empty is a Context that knows no names.
var Empty Context = Map(nil)

func lookupPath(values map[string]any, path string) (any, bool) {
	path = strings.TrimSpace(path)
	if len(values) == 0 || path == "" {
		return nil, false
	}

	if v, ok := values[path]; ok {
		return v, true
	}

	parts := strings.Split(path, ".")
	var current any = values
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			return nil, false
		}
		next, ok := child(current, part)
		if !ok {
			return nil, false
		}
		current = next
	}
	return current, true
}

// child returns the member called key of a map or struct value.
func child(current any, key string) (any, bool) {
	switch typed := current.(type) {
	case map[string]any:
		v, ok := typed[key]
		return v, ok
	case Map:
		v, ok := typed[key]
		return v, ok
	case map[string]string:
		v, ok := typed[key]
		return v, ok
	case map[any]any:
		v, ok := typed[key]
		return v, ok
	case Context:
		return typed.Lookup(key)
	}

	rv := reflect.ValueOf(current)
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return nil, false
		}
		rv = rv.Elem()
	}

	switch rv.Kind() {
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return nil, false
		}
		v := rv.MapIndex(reflect.ValueOf(key).Convert(rv.Type().Key()))
		if !v.IsValid() {
			return nil, false
		}
		return v.Interface(), true
	case reflect.Struct:
		f, ok := rv.Type().FieldByName(key)
		if !ok || !f.IsExported() {
			return nil, false
		}
		fv, err := rv.FieldByIndexErr(f.Index)
		if err != nil {
			return nil, false
		}
		return fv.Interface(), true
	}
	return nil, false
}
