package assist

import (
	"regexp"

	"github.com/microcosm-cc/bluemonday"
)

// Sanitizer cleans AI-produced markup before it reaches the editor.
type Sanitizer struct {
	policy *bluemonday.Policy
}

// NewSanitizer allows user-generated-content markup plus the class names the
// rich-text surface uses for alignment, indentation and code blocks.
func NewSanitizer() *Sanitizer {
	p := bluemonday.UGCPolicy()
	p.AllowAttrs("class").Matching(regexp.MustCompile(`^(ql-[a-z0-9-]+\s*)+$`)).Globally()
	p.AllowAttrs("spellcheck").OnElements("pre")
	return &Sanitizer{policy: p}
}

func (s *Sanitizer) Sanitize(markup string) string {
	return s.policy.Sanitize(markup)
}
