// Package sanitize strips markup from model output before it is stored.
package sanitize

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// Sanitizer removes every HTML tag from text. It is safe for concurrent use.
type Sanitizer struct {
	policy *bluemonday.Policy
}

// New creates a Sanitizer using bluemonday's strict policy.
func New() *Sanitizer {
	return &Sanitizer{policy: bluemonday.StrictPolicy()}
}

// Line sanitizes a single-line field such as a headline or source label and
// collapses runs of whitespace.
func (s *Sanitizer) Line(raw string) string {
	return strings.Join(strings.Fields(s.clean(raw)), " ")
}

// Block sanitizes multi-paragraph text, keeping line breaks but trimming
// trailing spaces from every line.
func (s *Sanitizer) Block(raw string) string {
	lines := strings.Split(s.clean(raw), "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t\r")
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

// clean strips tags; the strict policy escapes entities, so they are
// unescaped again to keep plain-text punctuation intact.
func (s *Sanitizer) clean(raw string) string {
	return html.UnescapeString(s.policy.Sanitize(raw))
}
