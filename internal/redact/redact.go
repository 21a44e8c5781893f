// Package redact strips credentials and other sensitive fragments from text
// before it is logged. Errors from the database driver, the generation
// backends and the Kafka client can carry connection strings, API keys and
// file paths; handlers log them through Error instead of err.Error().
package redact

import (
	"log/slog"
	"regexp"
)

// Placeholders substituted for redacted fragments.
const (
	CredentialPlaceholder = "[REDACTED_CREDENTIAL]"
	KeyPlaceholder        = "[REDACTED_KEY]"
	PathPlaceholder       = "[REDACTED_PATH]"
	JWTPlaceholder        = "[REDACTED_JWT]"
	SQLPlaceholder        = "[REDACTED_SQL]"
	StackPlaceholder      = "[STACK_TRACE_REDACTED]"
)

// rule replaces every match of pattern with replacement, which may refer to
// capture groups.
type rule struct {
	pattern     *regexp.Regexp
	replacement string
}

// rules run in order; earlier rules see the unredacted input.
var rules = []rule{
	{
		// user:password in connection URLs
		pattern:     regexp.MustCompile(`(?i)\b(postgres(?:ql)?|mysql|mongodb|redis|amqp|kafka)://[^@\s/]+@`),
		replacement: "${1}://" + CredentialPlaceholder + "@",
	},
	{
		// Google API keys (Gemini)
		pattern:     regexp.MustCompile(`AIza[0-9A-Za-z_\-]{35}`),
		replacement: KeyPlaceholder,
	},
	{
		pattern:     regexp.MustCompile(`eyJ[a-zA-Z0-9_-]+\.eyJ[a-zA-Z0-9_-]+\.[a-zA-Z0-9_-]+`),
		replacement: JWTPlaceholder,
	},
	{
		pattern:     regexp.MustCompile(`(?i)\b(bearer)\s+[A-Za-z0-9._~+/=-]{8,}`),
		replacement: "${1} " + CredentialPlaceholder,
	},
	{
		// key=... in URL query strings
		pattern:     regexp.MustCompile(`(?i)([?&](?:key|api_key|apikey|token|access_token)=)[^&\s"']+`),
		replacement: "${1}" + KeyPlaceholder,
	},
	{
		// password=..., api_key: ..., secret "..."
		pattern:     regexp.MustCompile(`(?i)\b(password|passwd|pwd|api[_-]?key|secret|token)(\s*[=:]\s*['"]?)[^'"&\s,]{3,}`),
		replacement: "${1}${2}" + CredentialPlaceholder,
	},
	{
		pattern:     regexp.MustCompile(`(AKIA|ASIA)[A-Z0-9]{16}`),
		replacement: KeyPlaceholder,
	},
	{
		pattern:     regexp.MustCompile(`(?:goroutine \d+|panic:)[\s\S]*?(\n\t.*)+`),
		replacement: StackPlaceholder,
	},
	{
		pattern: regexp.MustCompile(
			`(?i)\b(SELECT|INSERT|UPDATE|DELETE)\b[\s\w,*()=$.']+?\b(FROM|INTO|SET)\b[\s\w,*()=$.']*`),
		replacement: SQLPlaceholder,
	},
	{
		pattern:     regexp.MustCompile(`(^|[\s"'(=])(?:/[\w.-]+){3,}`),
		replacement: "${1}" + PathPlaceholder,
	},
	{
		pattern:     regexp.MustCompile(`[A-Za-z]:\\[^\\\s]+(\\[^\\\s]+)+`),
		replacement: PathPlaceholder,
	},
}

// String redacts sensitive information from s.
func String(s string) string {
	if s == "" {
		return s
	}
	for _, r := range rules {
		s = r.pattern.ReplaceAllString(s, r.replacement)
	}
	return s
}

// Error redacts err.Error(). A nil error yields "".
func Error(err error) string {
	if err == nil {
		return ""
	}
	return String(err.Error())
}

// Attr returns a redacted "error" log attribute for err.
func Attr(err error) slog.Attr {
	return slog.String("error", Error(err))
}
