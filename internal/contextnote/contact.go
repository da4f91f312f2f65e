package contextnote

import (
	"regexp"
	"strings"

	"outreach-backend/internal/model"
)

var (
	nameWordPattern  = regexp.MustCompile(`^[A-Z][a-z]+$`)
	labeledName      = regexp.MustCompile(`(?i)(?:full name|name)[:\s]+([A-Z][a-z]+)`)
	honorificHeading = regexp.MustCompile(`^(?:Mr\.|Ms\.|Mrs\.|Dr\.)?\s*([A-Z][a-z]+)`)
)

// Contact holds best-effort details about the person being contacted.
type Contact struct {
	Name    *string
	Company *string
}

// ExtractContact guesses the contact's first name from the raw profile text and their
// company from the most recent work history entry. Either field may be nil.
func ExtractContact(rawText string, profile model.StructuredProfile) Contact {
	var c Contact
	if name := FirstName(rawText); name != "" {
		c.Name = &name
	}
	for _, w := range profile.WorkHistory {
		if company := strings.TrimSpace(w.Company); company != "" {
			c.Company = &company
			break
		}
	}
	return c
}

// FirstName returns a likely first name from the top of a profile text, or "".
func FirstName(text string) string {
	lines := nonEmptyLines(text)

	for _, line := range head(lines, 5) {
		if len(line) > 50 || strings.Contains(line, "@") || strings.Contains(line, "http") {
			continue
		}
		words := strings.Fields(line)
		if len(words) < 1 || len(words) > 3 {
			continue
		}
		first := words[0]
		if len(first) >= 2 && len(first) <= 20 && nameWordPattern.MatchString(first) {
			return first
		}
	}

	for _, line := range lines {
		if m := labeledName.FindStringSubmatch(line); m != nil {
			return m[1]
		}
	}

	for _, line := range head(lines, 3) {
		if m := honorificHeading.FindStringSubmatch(line); m != nil {
			return m[1]
		}
	}
	return ""
}

func nonEmptyLines(text string) []string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func head(lines []string, n int) []string {
	if len(lines) < n {
		return lines
	}
	return lines[:n]
}
