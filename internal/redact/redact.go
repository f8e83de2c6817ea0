// Package redact scrubs secrets and internal details from strings before they
// are logged. Database DSNs, bearer tokens, provider API keys, email addresses,
// SQL text and file paths are replaced with fixed placeholders.
package redact

import (
	"regexp"
)

// Placeholders written in place of redacted content.
const (
	CredentialPlaceholder = "[REDACTED_CREDENTIAL]"
	KeyPlaceholder        = "[REDACTED_KEY]"
	TokenPlaceholder      = "[REDACTED_JWT]"
	EmailPlaceholder      = "[REDACTED_EMAIL]"
	SQLPlaceholder        = "[REDACTED_SQL]"
	PathPlaceholder       = "[REDACTED_PATH]"
)

type rule struct {
	pattern     *regexp.Regexp
	placeholder string
}

// Rules run in order; more specific patterns come first so a DSN is not
// half-eaten by the path rule.
var rules = []rule{
	{
		// user:password@ inside postgres://, file: or any other URL-ish DSN
		regexp.MustCompile(`(?i)\b[a-z][a-z0-9+.-]*://[^\s/@]+@`),
		CredentialPlaceholder,
	},
	{
		regexp.MustCompile(`(?i)(password|passwd|pwd)\s*[=:]\s*['"]?[^'"&\s]+`),
		CredentialPlaceholder,
	},
	{
		regexp.MustCompile(`eyJ[A-Za-z0-9_-]+\.eyJ[A-Za-z0-9_-]+\.[A-Za-z0-9_-]+`),
		TokenPlaceholder,
	},
	{
		// Gemini keys and OpenAI-compatible keys (sk-..., sk-or-...)
		regexp.MustCompile(`\b(AIza[0-9A-Za-z_-]{20,}|sk-[A-Za-z0-9_-]{16,})`),
		KeyPlaceholder,
	},
	{
		regexp.MustCompile(`(?i)(api[_-]?key|secret|token|bearer)(["'\s:=]+)[A-Za-z0-9_\-.~+/]{8,}`),
		KeyPlaceholder,
	},
	{
		regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`),
		EmailPlaceholder,
	},
	{
		regexp.MustCompile(`(?i)\b(SELECT|INSERT|UPDATE|DELETE)\b[^;]*?\b(FROM|INTO|SET|WHERE)\b[^;]*`),
		SQLPlaceholder,
	},
	{
		regexp.MustCompile(`(/[\w.-]+){2,}`),
		PathPlaceholder,
	},
}

// String redacts sensitive information from s.
func String(s string) string {
	if s == "" {
		return s
	}
	for _, r := range rules {
		s = r.pattern.ReplaceAllString(s, r.placeholder)
	}
	return s
}

// Error redacts err.Error(). A nil error yields an empty string.
func Error(err error) string {
	if err == nil {
		return ""
	}
	return String(err.Error())
}
