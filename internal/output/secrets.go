package output

import (
	"regexp"
	"strings"
)

// RedactedValue is the placeholder used for masked secret data.
const RedactedValue = "[REDACTED]"

// secretPatterns lists secret-shaped substrings, applied in order.
// Provider-specific token shapes come first so the generic key/value patterns
// never leave a partial token behind.
var secretPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)gh[op]_[A-Za-z0-9]{20,}`), // GitHub tokens
	regexp.MustCompile(`(?i)AKIA[0-9A-Z]{16}`),        // AWS access keys
	regexp.MustCompile(`(?i)ASIA[0-9A-Z]{16}`),        // AWS session keys
	regexp.MustCompile(`(?i)secret[^\n\r]{0,50}`),
	regexp.MustCompile(`(?i)x-api-key:[^\n\r]+`),
	regexp.MustCompile(`(?i)password[^\n\r]{0,50}`),
	regexp.MustCompile(`(?i)token[^\n\r]{0,50}`),
}

// blankRunPattern matches three or more consecutive newlines.
var blankRunPattern = regexp.MustCompile(`\n{3,}`)

// Sanitize redacts secrets and normalizes whitespace using the default fallback limit.
func Sanitize(text string) string {
	return SanitizeWithLimit(text, DefaultMaxMessageLength)
}

// SanitizeWithLimit redacts secret-shaped substrings and collapses blank-line runs.
// It never panics: on an internal failure it returns text truncated to fallbackLimit runes.
func SanitizeWithLimit(text string, fallbackLimit int) (result string) {
	if text == "" {
		return ""
	}

	defer func() {
		if r := recover(); r != nil {
			result = TruncateRunes(text, fallbackLimit)
		}
	}()

	return strings.TrimSpace(CollapseNewlines(MaskSecrets(text)))
}

// MaskSecrets replaces every secret-shaped substring with RedactedValue.
func MaskSecrets(text string) string {
	scrubbed := text
	for _, pattern := range secretPatterns {
		scrubbed = pattern.ReplaceAllLiteralString(scrubbed, RedactedValue)
	}
	return scrubbed
}

// CollapseNewlines reduces runs of three or more newlines to exactly two.
func CollapseNewlines(text string) string {
	return blankRunPattern.ReplaceAllLiteralString(text, "\n\n")
}

// ContainsSecret reports whether text still holds a provider token shape.
// Generic key/value patterns are excluded: their redaction marker would match itself.
func ContainsSecret(text string) bool {
	for _, pattern := range secretPatterns[:3] {
		if pattern.MatchString(text) {
			return true
		}
	}
	return false
}
