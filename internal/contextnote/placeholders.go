package contextnote

import (
	"regexp"
	"strings"
)

var (
	hiContactPlaceholder = regexp.MustCompile(`(?i)Hi\s+\[(?:Name|FIRST_NAME)\]`)
	contactPlaceholder   = regexp.MustCompile(`(?i)\[(?:Name|FIRST_NAME|CONTACT_NAME)\]`)
	senderPlaceholder    = regexp.MustCompile(`(?i)\[(?:Your Name|MY_NAME|YOUR_NAME)\]`)
	spaceRun             = regexp.MustCompile(`[ \t]{2,}`)
)

// FillPlaceholders replaces name placeholders the generator may leave in a draft.
// Without a contact name the greeting falls back to "Hi there"/"Hi"; without a sender
// name the placeholder is removed.
func FillPlaceholders(text, contactName, senderName string) string {
	if text == "" {
		return text
	}
	contactName = strings.TrimSpace(contactName)
	senderName = strings.TrimSpace(senderName)

	if contactName != "" {
		text = contactPlaceholder.ReplaceAllLiteralString(text, contactName)
	} else {
		text = hiContactPlaceholder.ReplaceAllLiteralString(text, "Hi there")
		text = contactPlaceholder.ReplaceAllLiteralString(text, "Hi")
	}

	if senderName != "" {
		return senderPlaceholder.ReplaceAllLiteralString(text, senderName)
	}
	if !senderPlaceholder.MatchString(text) {
		return text
	}
	text = senderPlaceholder.ReplaceAllLiteralString(text, "")
	return strings.TrimSpace(spaceRun.ReplaceAllString(text, " "))
}
