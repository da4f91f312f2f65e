// Package stages wraps each generation step of the outreach pipeline: profile
// extraction, overlap analysis, drafting, refinement and follow-up. Steps that
// expect JSON fall back to their empty default when the reply cannot be parsed.
package stages

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"outreach-backend/internal/llm"
	"outreach-backend/internal/model"
	"outreach-backend/internal/shared/metrics"
	"outreach-backend/internal/shared/telemetry"
	"outreach-backend/internal/textguard"
)

// ErrGeneration wraps a failure to reach the generation capability.
var ErrGeneration = errors.New("generation failed")

const (
	extractSystem  = "You are a data extraction specialist. Extract structured information from LinkedIn profiles. Always return valid JSON only."
	overlapSystem  = "You are a profile analysis specialist. Compare profiles and identify meaningful overlaps. Always return valid JSON only."
	draftSystem    = "You are an expert cold outreach writer. Always respect character limits strictly. Return only valid JSON."
	followupSystem = "You are an expert at writing friendly, natural follow-up messages. Always keep messages under %d characters. Return only the message text."
	refineSystem   = "You are a message refinement specialist. Always respect the %d character limit. Return only the refined message text."

	extractTemperature  = 0.1
	overlapTemperature  = 0.2
	writingTemperature  = 0.7
	followupLinkedInCtx = 100
)

// Runner runs pipeline stages against two generation clients.
type Runner struct {
	// Fast serves extraction and overlap analysis.
	Fast llm.Completer
	// Writer serves drafting, refinement and follow-up.
	Writer llm.Completer
}

// Extract parses a StructuredProfile out of sanitized profile text. The
// boolean reports whether the empty default was substituted.
func (r *Runner) Extract(ctx context.Context, profileText string) (model.StructuredProfile, bool, error) {
	prompt, err := llm.RenderPrompt(llm.PromptExtract, map[string]any{"ProfileText": profileText})
	if err != nil {
		return model.EmptyProfile(), false, err
	}
	raw, err := r.fast().Complete(ctx, extractSystem, prompt, extractTemperature)
	if err != nil {
		return model.EmptyProfile(), false, fmt.Errorf("%w: extract: %v", ErrGeneration, err)
	}
	var profile model.StructuredProfile
	if err := llm.DecodeJSON(raw, &profile); err != nil {
		fallback(llm.PromptExtract, err)
		return model.EmptyProfile(), true, nil
	}
	return profile.Normalize(), false, nil
}

// Overlap compares the user's profile with the target's.
func (r *Runner) Overlap(ctx context.Context, user, target model.StructuredProfile) (model.OverlapSummary, bool, error) {
	userJSON, _ := json.MarshalIndent(user, "", "  ")
	targetJSON, _ := json.MarshalIndent(target, "", "  ")
	prompt, err := llm.RenderPrompt(llm.PromptOverlap, map[string]any{
		"UserProfile":   string(userJSON),
		"TargetProfile": string(targetJSON),
	})
	if err != nil {
		return model.EmptyOverlap(), false, err
	}
	raw, err := r.fast().Complete(ctx, overlapSystem, prompt, overlapTemperature)
	if err != nil {
		return model.EmptyOverlap(), false, fmt.Errorf("%w: overlap: %v", ErrGeneration, err)
	}
	var summary model.OverlapSummary
	if err := llm.DecodeJSON(raw, &summary); err != nil {
		fallback(llm.PromptOverlap, err)
		return model.EmptyOverlap(), true, nil
	}
	return summary.Normalize(), false, nil
}

// DraftInput bundles everything the drafter sees.
type DraftInput struct {
	User     model.StructuredProfile
	Target   model.StructuredProfile
	Overlap  model.OverlapSummary
	Context  model.ContextAttributes
	Insights []model.EnrichmentItem
}

type draftReply struct {
	LinkedInConnectionRequest *string `json:"linkedin_connection_request"`
	ColdOutreachEmail         *string `json:"cold_outreach_email"`
	FollowupTemplate          *string `json:"followup_template"`
}

// Draft generates the three outreach messages. Budgets are not applied here;
// callers enforce them after any placeholder substitution.
func (r *Runner) Draft(ctx context.Context, in DraftInput) (model.MessageSet, bool, error) {
	insights := in.Insights
	if len(insights) > 3 {
		insights = insights[:3]
	}
	prompt, err := llm.RenderPrompt(llm.PromptDraft, map[string]any{
		"User":             in.User,
		"Target":           in.Target,
		"UserBackground":   background(in.User, 2),
		"TargetBackground": background(in.Target, 2),
		"Overlap":          in.Overlap.Normalize(),
		"Context":          in.Context,
		"Insights":         insights,
		"LinkedInMax":      model.LinkedInMaxChars,
		"EmailMax":         model.EmailMaxChars,
		"FollowupMax":      model.FollowupMaxChars,
	})
	if err != nil {
		return model.MessageSet{}, false, err
	}
	raw, err := r.writer().Complete(ctx, draftSystem, prompt, writingTemperature)
	if err != nil {
		return model.MessageSet{}, false, fmt.Errorf("%w: draft: %v", ErrGeneration, err)
	}
	var reply draftReply
	if err := llm.DecodeJSON(raw, &reply); err != nil {
		fallback(llm.PromptDraft, err)
		return model.MessageSet{}, true, nil
	}
	return model.MessageSet{
		LinkedInConnectionRequest: deref(reply.LinkedInConnectionRequest),
		ColdOutreachEmail:         deref(reply.ColdOutreachEmail),
		FollowupTemplate:          deref(reply.FollowupTemplate),
	}, false, nil
}

// Refine rewrites message per instructions and enforces the budget for messageType.
func (r *Runner) Refine(ctx context.Context, message, instructions, messageType string) (string, error) {
	budget := textguard.Budget(messageType)
	prompt, err := llm.RenderPrompt(llm.PromptRefine, map[string]any{
		"Message":      message,
		"Instructions": instructions,
		"MaxChars":     budget,
	})
	if err != nil {
		return "", err
	}
	raw, err := r.writer().Complete(ctx, fmt.Sprintf(refineSystem, budget), prompt, writingTemperature)
	if err != nil {
		return "", fmt.Errorf("%w: refine: %v", ErrGeneration, err)
	}
	return textguard.Enforce(strings.TrimSpace(raw), budget), nil
}

// FollowupInput carries the context for a follow-up message.
type FollowupInput struct {
	User             model.StructuredProfile
	Target           model.StructuredProfile
	OriginalLinkedIn string
}

// Followup writes a follow-up for an accepted connection, bounded by the follow-up budget.
func (r *Runner) Followup(ctx context.Context, in FollowupInput) (string, error) {
	prompt, err := llm.RenderPrompt(llm.PromptFollowup, map[string]any{
		"User":             in.User,
		"Target":           in.Target,
		"UserBackground":   background(in.User, 1),
		"TargetBackground": background(in.Target, 1),
		"OriginalLinkedIn": textguard.Truncate(in.OriginalLinkedIn, followupLinkedInCtx),
		"MaxChars":         model.FollowupMaxChars,
	})
	if err != nil {
		return "", err
	}
	raw, err := r.writer().Complete(ctx, fmt.Sprintf(followupSystem, model.FollowupMaxChars), prompt, writingTemperature)
	if err != nil {
		return "", fmt.Errorf("%w: followup: %v", ErrGeneration, err)
	}
	return textguard.Enforce(strings.TrimSpace(raw), model.FollowupMaxChars), nil
}

func (r *Runner) fast() llm.Completer {
	if r.Fast != nil {
		return r.Fast
	}
	return r.writer()
}

func (r *Runner) writer() llm.Completer {
	if r.Writer != nil {
		return r.Writer
	}
	return llm.PlaceholderClient{}
}

func background(p model.StructuredProfile, n int) string {
	items := p.WorkHistory
	if len(items) > n {
		items = items[:n]
	}
	if items == nil {
		items = []model.WorkItem{}
	}
	data, _ := json.MarshalIndent(items, "", "  ")
	return string(data)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func fallback(stage string, err error) {
	metrics.IncGenerationFallback()
	telemetry.Warn("generation.parse_fallback", map[string]any{"stage": stage, "err": err.Error()})
}
