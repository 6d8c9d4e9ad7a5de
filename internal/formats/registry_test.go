package formats_test

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	varerrors "github.com/conneroisu/varfmt/internal/errors"
	"github.com/conneroisu/varfmt/internal/formats"
)

func TestDefaultRegistryTags(t *testing.T) {
	want := []string{
		"collection-length",
		"collection-length-with-commas",
		"comma-numeric",
		"dollars-and-cents",
		"dollars-and-cents-with-commas",
		"dollars-with-commas",
		"html-quote",
		"multi-line",
		"url-quote",
		"whole-dollars",
	}
	if diff := cmp.Diff(want, formats.Default().Tags()); diff != "" {
		t.Fatalf("default tags mismatch (-want +got):\n%s", diff)
	}
	assert.Same(t, formats.Default(), formats.Default())
}

func TestRegistryLookup(t *testing.T) {
	registry := formats.Default()

	d, ok := registry.Lookup(formats.HTMLQuote)
	require.True(t, ok)
	assert.Equal(t, "&lt;b&gt;", d("<b>"))

	_, ok = registry.Lookup("DayOfWeek")
	assert.False(t, ok)

	_, ok = registry.Apply("missing", "x")
	assert.False(t, ok)
	assert.False(t, registry.Has("missing"))
}

func TestNewWithExtensions(t *testing.T) {
	shout := formats.Entry{Tag: "shout", Directive: func(v any) string { return strings.ToUpper(v.(string)) + "!" }}

	registry, err := formats.New(shout, formats.SanitizeEntry())
	require.NoError(t, err)

	got, ok := registry.Apply("shout", "hi")
	require.True(t, ok)
	assert.Equal(t, "HI!", got)
	assert.True(t, registry.Has(formats.HTMLSanitize))
	assert.True(t, registry.Has(formats.WholeDollars))

	// Extensions never leak into the default table.
	assert.False(t, formats.Default().Has("shout"))
}

func TestNewRejectsInvalidEntries(t *testing.T) {
	testCases := []struct {
		name  string
		entry formats.Entry
	}{
		{"empty tag", formats.Entry{Directive: func(any) string { return "" }}},
		{"nil directive", formats.Entry{Tag: "x"}},
		{"builtin override", formats.Entry{Tag: formats.HTMLQuote, Directive: func(any) string { return "" }}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := formats.New(tc.entry)
			require.Error(t, err)
			assert.ErrorIs(t, err, varerrors.ErrInvalidRegistry)
		})
	}

	assert.Panics(t, func() {
		formats.MustNew(formats.Entry{Tag: "a", Directive: func(any) string { return "" }}, formats.Entry{Tag: "a", Directive: func(any) string { return "" }})
	})
}

func TestSanitizeDirective(t *testing.T) {
	d := formats.SanitizeEntry().Directive
	got := d(`<b>bold</b><script>alert(1)</script>`)
	assert.Equal(t, "<b>bold</b>", got)
}
