package textguard

import "strings"

// Ellipsis is appended when a message is cut mid-sentence.
const Ellipsis = "..."

// keepRatio is the share of the budget a boundary cut must retain to be preferred.
const keepRatio = 0.8

// Enforce returns text that is at most maxChars characters long.
//
// Text that already fits is returned unchanged. Otherwise the cut prefers the last
// sentence terminator, then the last word boundary, and falls back to a hard cut. The
// ellipsis is counted inside the budget, so the result never exceeds maxChars.
func Enforce(text string, maxChars int) string {
	if maxChars <= 0 {
		return ""
	}
	runes := []rune(text)
	if len(runes) <= maxChars {
		return text
	}

	threshold := float64(maxChars) * keepRatio
	prefix := runes[:maxChars]
	if end := lastIndexAny(prefix, ".!?"); end >= 0 && float64(end) > threshold {
		return string(prefix[:end+1])
	}

	marker := []rune(Ellipsis)
	if maxChars <= len(marker) {
		return string(prefix)
	}
	room := prefix[:maxChars-len(marker)]
	if space := lastIndexAny(room, " "); space >= 0 && float64(space) > threshold {
		return strings.TrimRight(string(room[:space]), " ") + Ellipsis
	}
	return string(room) + Ellipsis
}

// Budget returns the character limit for a message type. Only "linkedin" is short.
func Budget(messageType string) int {
	if strings.EqualFold(strings.TrimSpace(messageType), "linkedin") {
		return 300
	}
	return 1200
}

func lastIndexAny(runes []rune, chars string) int {
	for i := len(runes) - 1; i >= 0; i-- {
		if strings.ContainsRune(chars, runes[i]) {
			return i
		}
	}
	return -1
}
