package formats

import (
	"github.com/microcosm-cc/bluemonday"

	"github.com/conneroisu/varfmt/internal/value"
)

// HTMLSanitize is the tag of the optional sanitizing directive.
const HTMLSanitize = "html-sanitize"

// SanitizeEntry returns an extension entry that strips unsafe markup from
// the value using bluemonday's user-generated-content policy. Unlike
// html-quote it keeps safe tags such as <b> and <a href>.
func SanitizeEntry() Entry {
	policy := bluemonday.UGCPolicy()
	return Entry{
		Tag: HTMLSanitize,
		Directive: func(v any) string {
			return policy.Sanitize(value.String(v))
		},
	}
}
