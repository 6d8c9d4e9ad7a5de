package variable

import (
	"bytes"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conneroisu/varfmt/internal/binding"
	varerrors "github.com/conneroisu/varfmt/internal/errors"
	"github.com/conneroisu/varfmt/internal/formats"
	"github.com/conneroisu/varfmt/internal/logging"
	"github.com/conneroisu/varfmt/internal/params"
)

type price float64

func (p price) Pretty() string { return "about " + formats.WholeDollarsDirective(float64(p)) }

type broken struct{}

func (broken) Explode() (string, error) { return "", errors.New("boom") }
func (broken) Panic() string            { panic("boom") }
func (broken) String() string           { return "broken" }

func render(t *testing.T, args string, ctx binding.Context) string {
	t.Helper()
	ref, err := Parse(args)
	require.NoError(t, err)
	out, err := ref.Render(ctx)
	require.NoError(t, err)
	return out
}

func TestRender(t *testing.T) {
	t.Parallel()

	ctx := binding.Map{
		"amount":   100000.5,
		"text":     "blah blah blah blah",
		"missing":  nil,
		"mixed":    "AbC",
		"zero":     0,
		"greeting": "hello world",
		"shouting": "hELLO wORLD",
		"field":    "first_name",
		"cost":     price(1234.56),
		"weird":    broken{},
		"pi":       3.14159,
		"word":     "x",
		"markup":   `<a href="x">&</a>`,
		"items":    []string{"a", "b", "c"},
		"price":    2.5,
		"qty":      4,
		"empty":    "",
	}

	testCases := []struct {
		name string
		args string
		want string
	}{
		{"dollars and cents with commas", "amount fmt=dollars-and-cents-with-commas", "$100,000.50"},
		{"truncate retracts to space", "text size=10", "blah blah ..."},
		{"null substitutes absent value", `missing null="n/a"`, "n/a"},
		{"lower runs after upper", "mixed upper lower", "abc"},
		{"upper", "mixed upper", "ABC"},
		{"zero is null eligible", "zero null=none", "none"},
		{"zero without null", "zero", "0"},
		{"empty string is null", `empty null="-"`, "-"},
		{"truthy value ignores null", "greeting null=none", "hello world"},
		{"capitalize", "greeting capitalize", "Hello world"},
		{"capitalize lowercases the rest", "shouting capitalize", "Hello world"},
		{"capitalize after upper", "greeting upper capitalize", "Hello world"},
		{"spacify", "field spacify", "first name"},
		{"capitalize then spacify", "field capitalize spacify", "First name"},
		{"method probe", "cost fmt=Pretty", "about $1234"},
		{"method error falls through", "weird fmt=Explode", "broken"},
		{"method panic falls through", "weird fmt=Panic", "broken"},
		{"registry probe", "markup fmt=html-quote", "&lt;a href=&quot;x&quot;&gt;&amp;&lt;/a&gt;"},
		{"printf probe", `pi fmt="%05.1f"`, "003.1"},
		{"cascade fallthrough keeps value", "word fmt=bogus", "x"},
		{"printf mismatch keeps value", `word fmt="%d"`, "x"},
		{"collection length", "items fmt=collection-length", "3"},
		{"custom etc", `text size=10 etc=" [more]"`, "blah blah  [more]"},
		{"expression", `expr="price * qty" fmt=dollars-and-cents`, "$10.00"},
		{"leading quoted expression", `"price * qty" fmt=whole-dollars`, "$10"},
		{"bare fmt is plain string", "word fmt", "x"},
		{"null after custom format", `word fmt=whole-dollars null="not a number"`, "not a number"},
		{"no null text skips truncation", `missing null="n/a" size=1`, "n/a"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, render(t, tc.args, ctx))
		})
	}
}

func TestRenderBaseFormat(t *testing.T) {
	t.Parallel()

	ctx := binding.Map{"n": 3.7, "s": "abc", "nothing": nil}

	testCases := []struct {
		attrs []string
		base  string
		want  string
	}{
		{[]string{"name=n"}, "d", "3"},
		{[]string{"name=n"}, ".2f", "3.70"},
		{[]string{"name=n"}, "", "3.7"},
		{[]string{"name=s"}, ".2f", "abc"},
		{[]string{"name=s"}, "5s", "  abc"},
		{[]string{"name=nothing"}, "s", ""},
		{[]string{"name=n", "size=2"}, ".3f", "3...."},
	}

	for _, tc := range testCases {
		t.Run(tc.base, func(t *testing.T) {
			ref, err := Compile(params.FromPairs(tc.attrs), tc.base)
			require.NoError(t, err)
			got, err := ref.Render(ctx)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestRenderResolutionErrors(t *testing.T) {
	t.Parallel()

	ctx := binding.Map{"s": "x"}

	_, err := MustCompile(params.FromPairs([]string{"name=absent", "null=n/a"}), "").Render(ctx)
	require.Error(t, err)
	assert.True(t, varerrors.IsLookupError(err))
	assert.ErrorIs(t, err, varerrors.ErrNameNotFound)

	_, err = MustCompile(params.FromPairs([]string{"expr=s - 1"}), "").Render(ctx)
	require.Error(t, err)
	assert.True(t, varerrors.IsEvalError(err))

	_, err = MustCompile(params.FromPairs([]string{"expr=ghost + 1"}), "").Render(nil)
	require.Error(t, err)
	assert.True(t, varerrors.IsLookupError(err))
}

func TestCompileErrors(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name  string
		attrs []string
		base  string
		want  error
	}{
		{"unrecognized parameter", []string{"name=x", "color=red"}, "", varerrors.ErrUnrecognizedParameter},
		{"missing identifier", []string{"upper"}, "", varerrors.ErrMissingIdentifier},
		{"both identifiers", []string{"name=x", "expr=1"}, "", varerrors.ErrDuplicateIdentifier},
		{"non integer size", []string{"name=x", "size=ten"}, "", varerrors.ErrInvalidSize},
		{"negative size", []string{"name=x", "size=-1"}, "", varerrors.ErrInvalidSize},
		{"unknown conversion", []string{"name=x"}, "q", varerrors.ErrInvalidBaseFormat},
		{"two conversions", []string{"name=x"}, "d%s", varerrors.ErrInvalidBaseFormat},
		{"bad expression", []string{"expr=1 +"}, "", varerrors.ErrInvalidExpression},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Compile(params.FromPairs(tc.attrs), tc.base)
			require.Error(t, err)
			assert.ErrorIs(t, err, tc.want)
			assert.True(t, varerrors.IsConfigurationError(err))
		})
	}

	assert.Panics(t, func() { MustCompile(nil, "") })
}

func TestReferenceAccessors(t *testing.T) {
	ref, err := Parse(`title upper size=5`)
	require.NoError(t, err)
	assert.Equal(t, "title", ref.Identifier())
	assert.Equal(t, DefaultBaseFormat, ref.BaseFormat())
	assert.False(t, ref.IsExpr())

	set := ref.Params()
	assert.True(t, set.Upper)
	assert.Equal(t, 5, set.Size)

	set.Upper = false
	assert.True(t, ref.Params().Upper, "Params returns a copy")

	ref, err = Parse(`expr="a + b"`)
	require.NoError(t, err)
	assert.True(t, ref.IsExpr())
	assert.Equal(t, "a + b", ref.Identifier())
}

func TestPipelineWithExtensions(t *testing.T) {
	t.Parallel()

	reg := formats.MustNew(
		formats.SanitizeEntry(),
		formats.Entry{Tag: "shout", Directive: func(v any) string { return "!" }},
		formats.Entry{Tag: "crash", Directive: func(v any) string { panic("crash") }},
	)
	p := NewPipeline(WithRegistry(reg))
	assert.Same(t, reg, p.Registry())

	ctx := binding.Map{"html": `<b>ok</b><script>alert(1)</script>`, "w": "w"}

	got, err := p.Render(MustCompile(params.FromPairs([]string{"name=html", "fmt=html-sanitize"}), ""), ctx)
	require.NoError(t, err)
	assert.Equal(t, "<b>ok</b>", got)

	got, err = p.Render(MustCompile(params.FromPairs([]string{"name=w", "fmt=shout"}), ""), ctx)
	require.NoError(t, err)
	assert.Equal(t, "!", got)

	got, err = p.Render(MustCompile(params.FromPairs([]string{"name=w", "fmt=crash"}), ""), ctx)
	require.NoError(t, err)
	assert.Equal(t, "w", got)

	// The default pipeline does not know the extension tags.
	got, err = MustCompile(params.FromPairs([]string{"name=w", "fmt=shout"}), "").Render(ctx)
	require.NoError(t, err)
	assert.Equal(t, "w", got)
}

func TestPipelineLogsAbsorbedFailures(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.NewLogger(&logging.LoggerConfig{Level: logging.LevelDebug, Format: "json", Output: &buf})
	p := NewPipeline(WithLogger(logger))

	ctx := binding.Map{"word": "x", "n": 1}

	got, err := p.Render(MustCompile(params.FromPairs([]string{"name=word", "fmt=bogus"}), ""), ctx)
	require.NoError(t, err)
	assert.Equal(t, "x", got)
	assert.Contains(t, buf.String(), "custom format not applicable")
	assert.Contains(t, buf.String(), `"fmt":"bogus"`)

	buf.Reset()
	got, err = p.Render(MustCompile(params.FromPairs([]string{"name=word"}), "d"), ctx)
	require.NoError(t, err)
	assert.Equal(t, "x", got)
	assert.Contains(t, buf.String(), "base format does not fit value")

	buf.Reset()
	_, err = p.Render(MustCompile(params.FromPairs([]string{"name=n", "fmt=whole-dollars"}), ""), ctx)
	require.NoError(t, err)
	assert.Empty(t, buf.String())
}

func TestRenderConcurrent(t *testing.T) {
	ref := MustCompile(params.FromPairs([]string{"name=v", "fmt=comma-numeric", "upper", "size=6"}), "")

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				got, err := ref.Render(binding.Map{"v": 1234567})
				assert.NoError(t, err)
				assert.Equal(t, "1,234,...", got)
			}
		}()
	}
	wg.Wait()
}

func TestTruncate(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name string
		s    string
		size int
		etc  string
		want string
	}{
		{"fits", "short", 10, "...", "short"},
		{"exact length", "exactly10!", 10, "...", "exactly10!"},
		{"retract past half", "blah blah blah blah", 10, "...", "blah blah ..."},
		{"space at half is not used", "abcde fghijkl", 10, "...", "abcde fghi..."},
		{"space past half is used", "abcdef ghijkl", 10, "...", "abcdef ..."},
		{"no space", "abcdefghijkl", 5, "...", "abcde..."},
		{"zero size", "abc", 0, "...", "..."},
		{"zero size empty string", "", 0, "...", ""},
		{"empty etc", "abc def", 4, "", "abc "},
		{"runes", "héllo wörld", 8, "…", "héllo …"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Truncate(tc.s, tc.size, tc.etc))
		})
	}
}
