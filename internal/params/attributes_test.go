package params

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	varerrors "github.com/conneroisu/varfmt/internal/errors"
)

func TestParseAttributes(t *testing.T) {
	testCases := []struct {
		name string
		src  string
		want []Attr
	}{
		{
			name: "leading bare word is the name",
			src:  "title upper",
			want: []Attr{attr("name", "title"), bare("upper")},
		},
		{
			name: "leading flag stays a flag",
			src:  "upper name=title",
			want: []Attr{bare("upper"), attr("name", "title")},
		},
		{
			name: "quoted values",
			src:  `name=spam size=10 etc=" [more]" null='n/a'`,
			want: []Attr{attr("name", "spam"), attr("size", "10"), attr("etc", " [more]"), attr("null", "n/a")},
		},
		{
			name: "leading quoted string is an expression",
			src:  `"price * qty" fmt=dollars-and-cents`,
			want: []Attr{attr("expr", "price * qty"), attr("fmt", "dollars-and-cents")},
		},
		{
			name: "escaped quote",
			src:  `name=x null="say \"none\""`,
			want: []Attr{attr("name", "x"), attr("null", `say "none"`)},
		},
		{
			name: "empty value",
			src:  `name=x null=""`,
			want: []Attr{attr("name", "x"), attr("null", "")},
		},
		{
			name: "whitespace only",
			src:  " \t\n",
			want: nil,
		},
		{
			name: "unknown bare words are kept for validation",
			src:  "x bogus",
			want: []Attr{attr("name", "x"), bare("bogus")},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseAttributes(tc.src)
			require.NoError(t, err)
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Fatalf("attributes mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseAttributesErrors(t *testing.T) {
	for _, src := range []string{`name="open`, `x "late quote"`, `=value`} {
		t.Run(src, func(t *testing.T) {
			_, err := ParseAttributes(src)
			require.Error(t, err)
			assert.ErrorIs(t, err, varerrors.ErrMalformedTag)
		})
	}
}

func TestParseAttributesThenParse(t *testing.T) {
	attrs, err := ParseAttributes("x bogus")
	require.NoError(t, err)
	_, err = Parse(attrs)
	assert.ErrorIs(t, err, varerrors.ErrUnrecognizedParameter)
}

func TestFromPairs(t *testing.T) {
	got := FromPairs([]string{"name=total", "upper", "etc=a=b", "null="})
	want := []Attr{attr("name", "total"), bare("upper"), attr("etc", "a=b"), attr("null", "")}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("pairs mismatch (-want +got):\n%s", diff)
	}
}
