package params

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	varerrors "github.com/conneroisu/varfmt/internal/errors"
)

func attr(key, value string) Attr { return Attr{Key: key, Value: value, HasValue: true} }

func bare(key string) Attr { return Attr{Key: key} }

func TestParse(t *testing.T) {
	testCases := []struct {
		name  string
		attrs []Attr
		want  *Set
	}{
		{
			name:  "name only",
			attrs: []Attr{attr("name", "title")},
			want:  &Set{Name: "title", Etc: "..."},
		},
		{
			name:  "expr only",
			attrs: []Attr{attr("expr", "price * qty")},
			want:  &Set{Expr: "price * qty", Etc: "..."},
		},
		{
			name: "every parameter",
			attrs: []Attr{
				attr("name", "cost"), attr("fmt", "dollars-and-cents"), attr("null", "n/a"),
				bare("upper"), bare("lower"), bare("capitalize"), bare("spacify"),
				attr("size", "10"), attr("etc", " (more)"),
			},
			want: &Set{
				Name: "cost", Fmt: "dollars-and-cents", HasFmt: true, Null: "n/a", HasNull: true,
				Upper: true, Lower: true, Capitalize: true, Spacify: true,
				Size: 10, HasSize: true, Etc: " (more)",
			},
		},
		{
			name:  "bare keys take schema defaults",
			attrs: []Attr{attr("name", "x"), bare("fmt"), bare("null"), bare("etc"), bare("size")},
			want:  &Set{Name: "x", Fmt: "s", HasFmt: true, HasNull: true, Etc: "...", HasSize: true},
		},
		{
			name:  "flag with a value is still a flag",
			attrs: []Attr{attr("name", "x"), attr("upper", "0")},
			want:  &Set{Name: "x", Upper: true, Etc: "..."},
		},
		{
			name:  "later occurrence wins",
			attrs: []Attr{attr("name", "a"), attr("name", "b"), attr("size", "3"), attr("size", " 4 ")},
			want:  &Set{Name: "b", Size: 4, HasSize: true, Etc: "..."},
		},
		{
			name:  "empty null text is still supplied",
			attrs: []Attr{attr("name", "x"), attr("null", "")},
			want:  &Set{Name: "x", HasNull: true, Etc: "..."},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Parse(tc.attrs)
			require.NoError(t, err)
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Fatalf("parameter set mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseErrors(t *testing.T) {
	testCases := []struct {
		name  string
		attrs []Attr
		want  error
	}{
		{"unrecognized parameter", []Attr{attr("name", "x"), attr("colour", "red")}, varerrors.ErrUnrecognizedParameter},
		{"missing identifier", []Attr{bare("upper")}, varerrors.ErrMissingIdentifier},
		{"empty name", []Attr{attr("name", " ")}, varerrors.ErrMissingIdentifier},
		{"no attributes", nil, varerrors.ErrMissingIdentifier},
		{"name and expr", []Attr{attr("name", "x"), attr("expr", "y")}, varerrors.ErrDuplicateIdentifier},
		{"empty name with expr", FromPairs([]string{"name=", "expr=x"}), varerrors.ErrDuplicateIdentifier},
		{"name with empty expr", []Attr{attr("name", "x"), attr("expr", "")}, varerrors.ErrDuplicateIdentifier},
		{"empty expr", []Attr{attr("expr", "  ")}, varerrors.ErrMissingIdentifier},
		{"bare name key", []Attr{bare("name")}, varerrors.ErrMissingIdentifier},
		{"size not an integer", []Attr{attr("name", "x"), attr("size", "ten")}, varerrors.ErrInvalidSize},
		{"size negative", []Attr{attr("name", "x"), attr("size", "-1")}, varerrors.ErrInvalidSize},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Parse(tc.attrs)
			require.Error(t, err)
			assert.Nil(t, got)
			assert.ErrorIs(t, err, tc.want)
			assert.True(t, varerrors.IsConfigurationError(err))
		})
	}
}

func TestIdentifier(t *testing.T) {
	assert.Equal(t, "n", (&Set{Name: "n"}).Identifier())
	assert.Equal(t, "a+b", (&Set{Expr: "a+b"}).Identifier())
}

func TestSchemaPredicates(t *testing.T) {
	for _, key := range []string{"name", "expr", "fmt", "null", "upper", "lower", "capitalize", "spacify", "size", "etc"} {
		assert.True(t, Recognized(key), key)
	}
	assert.False(t, Recognized("colour"))
	assert.True(t, IsFlag("spacify"))
	assert.False(t, IsFlag("size"))
	assert.False(t, IsFlag("colour"))
}
