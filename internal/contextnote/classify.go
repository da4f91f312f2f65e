// Package contextnote turns the sender's free-text note and the raw target text into
// the small attribute sets the drafting prompt consumes.
package contextnote

import (
	"strings"
	"unicode/utf8"

	"outreach-backend/internal/model"
)

const (
	DefaultGoal              = "learn about their work"
	DefaultConnectionContext = "no prior connection"

	// Notes shorter than this with no keyword match are treated as a personal hook.
	shortNoteChars = 50
)

// GoalRule maps a keyword set to an outreach goal.
type GoalRule struct {
	Keywords []string
	Goal     string
}

// GoalRules are evaluated in order; the first rule with a matching keyword wins.
var GoalRules = []GoalRule{
	{Keywords: []string{"coffee", "chat", "meet", "connect"}, Goal: "coffee chat or meeting"},
	{Keywords: []string{"curious", "explore", "learn", "interested"}, Goal: "learn about their work"},
	{Keywords: []string{"role", "position", "team"}, Goal: "explore their role/team"},
}

// ConnectionKeywords indicate prior real-world contact.
var ConnectionKeywords = []string{"met", "conference", "event", "summit", "talk", "presentation"}

// HookKeywords indicate something the sender shares with the target.
var HookKeywords = []string{"also", "share", "similar", "same", "both"}

// Defaults returns the attributes used for an empty note.
func Defaults() model.ContextAttributes {
	return model.ContextAttributes{
		OutreachGoal:      DefaultGoal,
		ConnectionContext: DefaultConnectionContext,
		PersonalHook:      "",
	}
}

// Classify derives context attributes from a note using keyword heuristics.
// Keyword matches are case-insensitive substring matches.
func Classify(note string) model.ContextAttributes {
	note = strings.TrimSpace(note)
	attrs := Defaults()
	if note == "" {
		return attrs
	}
	lower := strings.ToLower(note)

	if containsAny(lower, ConnectionKeywords) {
		attrs.ConnectionContext = note
	}
	for _, rule := range GoalRules {
		if containsAny(lower, rule.Keywords) {
			attrs.OutreachGoal = rule.Goal
			break
		}
	}
	if containsAny(lower, HookKeywords) {
		attrs.PersonalHook = note
	}

	if attrs.ConnectionContext == DefaultConnectionContext && attrs.PersonalHook == "" {
		if utf8.RuneCountInString(note) < shortNoteChars {
			attrs.PersonalHook = note
		} else {
			attrs.ConnectionContext = note
		}
	}
	return attrs
}

func containsAny(haystack string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(haystack, n) {
			return true
		}
	}
	return false
}
