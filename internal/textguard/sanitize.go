package textguard

import (
	"html"
	"regexp"
	"strings"
)

// DefaultMaxInput caps sanitized input before it reaches any prompt.
const DefaultMaxInput = 8000

var (
	tagPattern        = regexp.MustCompile(`<[^>]+>`)
	scriptPattern     = regexp.MustCompile(`(?is)<script[^>]*>.*?</script>`)
	whitespacePattern = regexp.MustCompile(`[\s\p{Z}]+`)

	injectionPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)ignore\s+previous\s+instructions`),
		regexp.MustCompile(`(?i)system\s*:`),
		regexp.MustCompile(`(?i)you\s+are\s+now`),
		regexp.MustCompile(`(?i)forget\s+everything`),
		regexp.MustCompile(`(?i)new\s+instructions`),
	}
)

// Sanitize strips markup and prompt-injection phrases, collapses whitespace and caps
// the result at maxLen characters. A non-positive maxLen uses DefaultMaxInput.
func Sanitize(text string, maxLen int) string {
	if text == "" {
		return ""
	}
	if maxLen <= 0 {
		maxLen = DefaultMaxInput
	}

	text = html.UnescapeString(text)
	text = tagPattern.ReplaceAllString(text, "")
	text = scriptPattern.ReplaceAllString(text, "")
	for _, p := range injectionPatterns {
		text = p.ReplaceAllString(text, "")
	}
	text = whitespacePattern.ReplaceAllString(text, " ")
	text = strings.TrimSpace(text)

	return Truncate(text, maxLen)
}

// Truncate cuts text to at most n characters without any boundary handling.
func Truncate(text string, n int) string {
	if n <= 0 {
		return ""
	}
	runes := []rune(text)
	if len(runes) <= n {
		return text
	}
	return string(runes[:n])
}
