// Package params validates the attribute list of a variable placeholder
// against the fixed parameter schema and normalizes it into a Set.
package params

import (
	"strconv"
	"strings"

	varerrors "github.com/conneroisu/varfmt/internal/errors"
)

// Recognized parameter keys.
const (
	KeyName       = "name"
	KeyExpr       = "expr"
	KeyFmt        = "fmt"
	KeyNull       = "null"
	KeyUpper      = "upper"
	KeyLower      = "lower"
	KeyCapitalize = "capitalize"
	KeySpacify    = "spacify"
	KeySize       = "size"
	KeyEtc        = "etc"
)

// DefaultEtc is appended to truncated text when etc is not supplied.
const DefaultEtc = "..."

type kind int

const (
	kindString kind = iota
	kindFlag
	kindInt
)

type field struct {
	kind kind
	// def is the value a bare occurrence of the key takes.
	def string
}

var schema = map[string]field{
	KeyName:       {kind: kindString},
	KeyExpr:       {kind: kindString},
	KeyFmt:        {kind: kindString, def: "s"},
	KeyNull:       {kind: kindString},
	KeyUpper:      {kind: kindFlag},
	KeyLower:      {kind: kindFlag},
	KeyCapitalize: {kind: kindFlag},
	KeySpacify:    {kind: kindFlag},
	KeySize:       {kind: kindInt, def: "0"},
	KeyEtc:        {kind: kindString, def: DefaultEtc},
}

// Recognized reports whether key belongs to the parameter schema.
func Recognized(key string) bool {
	_, ok := schema[key]
	return ok
}

// IsFlag reports whether key is a presence-only parameter.
func IsFlag(key string) bool {
	f, ok := schema[key]
	return ok && f.kind == kindFlag
}

// Attr is one raw (key, value) pair from a placeholder. HasValue is false for
// bare keys such as "upper".
type Attr struct {
	Key      string
	Value    string
	HasValue bool
}

// Set is the validated parameter set of one placeholder. Has* fields record
// whether the optional parameter was supplied at all.
type Set struct {
	Name string
	Expr string

	Fmt    string
	HasFmt bool

	Null    string
	HasNull bool

	Upper      bool
	Lower      bool
	Capitalize bool
	Spacify    bool

	Size    int
	HasSize bool

	Etc string
}

// Identifier returns the variable name, or the expression source when the
// placeholder is expression based.
func (s *Set) Identifier() string {
	if s.Name != "" {
		return s.Name
	}
	return s.Expr
}

// Parse validates attrs against the schema. Later occurrences of a key
// replace earlier ones. Exactly one of name and expr must be present, and
// size must be a non-negative integer.
func Parse(attrs []Attr) (*Set, error) {
	set := &Set{Etc: DefaultEtc}
	var hasName, hasExpr bool

	for _, attr := range attrs {
		key := strings.TrimSpace(attr.Key)
		f, ok := schema[key]
		if !ok {
			return nil, varerrors.NewConfigurationError(varerrors.ErrCodeUnrecognizedParameter, key, "unrecognized parameter")
		}

		raw := f.def
		if attr.HasValue {
			raw = attr.Value
		}

		switch key {
		case KeyName:
			set.Name, hasName = strings.TrimSpace(raw), true
		case KeyExpr:
			set.Expr, hasExpr = strings.TrimSpace(raw), true
		case KeyFmt:
			set.Fmt, set.HasFmt = raw, true
		case KeyNull:
			set.Null, set.HasNull = raw, true
		case KeyUpper:
			set.Upper = true
		case KeyLower:
			set.Lower = true
		case KeyCapitalize:
			set.Capitalize = true
		case KeySpacify:
			set.Spacify = true
		case KeySize:
			size, err := parseSize(raw)
			if err != nil {
				return nil, err
			}
			set.Size, set.HasSize = size, true
		case KeyEtc:
			set.Etc = raw
		}
	}

	switch {
	case hasName && hasExpr:
		return nil, varerrors.NewConfigurationError(varerrors.ErrCodeDuplicateIdentifier, set.Name,
			"name and expr are mutually exclusive")
	case !hasName && !hasExpr:
		return nil, varerrors.NewConfigurationError(varerrors.ErrCodeMissingIdentifier, "",
			"missing variable identifier")
	case hasName && set.Name == "":
		return nil, varerrors.NewConfigurationError(varerrors.ErrCodeMissingIdentifier, KeyName,
			"variable name is empty")
	case hasExpr && set.Expr == "":
		return nil, varerrors.NewConfigurationError(varerrors.ErrCodeMissingIdentifier, KeyExpr,
			"expression is empty")
	}

	return set, nil
}

func parseSize(raw string) (int, error) {
	size, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, varerrors.NewConfigurationError(varerrors.ErrCodeInvalidSize, KeySize,
			"size must be an integer").WithContext("value", raw)
	}
	if size < 0 {
		return 0, varerrors.NewConfigurationError(varerrors.ErrCodeInvalidSize, KeySize,
			"size must not be negative").WithContext("value", raw)
	}
	return size, nil
}
