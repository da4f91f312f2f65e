// Package outreach runs the generation pipeline: it turns a target profile
// and a context note into three budgeted messages, records the transaction,
// and later refines messages or writes follow-ups for accepted connections.
package outreach

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"outreach-backend/internal/contextnote"
	"outreach-backend/internal/history"
	"outreach-backend/internal/model"
	"outreach-backend/internal/profiles"
	"outreach-backend/internal/search"
	"outreach-backend/internal/shared/metrics"
	"outreach-backend/internal/shared/telemetry"
	"outreach-backend/internal/stages"
	"outreach-backend/internal/textguard"
)

const storedTargetChars = 500

var (
	ErrInvalidInput    = errors.New("invalid input")
	ErrProfileNotFound = errors.New("user profile not found")
	ErrEntryNotFound   = errors.New("history entry not found")
	// ErrGeneration is returned when the generation capability cannot be reached.
	ErrGeneration = stages.ErrGeneration
)

// Pipeline is the set of generation stages the service drives.
type Pipeline interface {
	Extract(ctx context.Context, profileText string) (model.StructuredProfile, bool, error)
	Overlap(ctx context.Context, user, target model.StructuredProfile) (model.OverlapSummary, bool, error)
	Draft(ctx context.Context, in stages.DraftInput) (model.MessageSet, bool, error)
	Refine(ctx context.Context, message, instructions, messageType string) (string, error)
	Followup(ctx context.Context, in stages.FollowupInput) (string, error)
}

type Service struct {
	Profiles profiles.Repo
	History  history.Repo
	Stages   Pipeline
	Enricher *search.Enricher
}

type GenerateInput struct {
	UserID        string
	TargetProfile string
	ContextNote   string
}

type GenerateResult struct {
	HistoryID string
	Messages  model.MessageSet
}

// Generate drafts outreach for one target and records it as a draft history entry.
func (s *Service) Generate(ctx context.Context, in GenerateInput) (GenerateResult, error) {
	start := time.Now()
	res, err := s.generate(ctx, in)
	if err != nil {
		metrics.IncOutreachFailed()
		return GenerateResult{}, err
	}
	metrics.IncOutreachGenerated()
	metrics.ObserveOutreachDurationMs(metrics.SinceMillis(start))
	return res, nil
}

func (s *Service) generate(ctx context.Context, in GenerateInput) (GenerateResult, error) {
	if err := s.check(); err != nil {
		return GenerateResult{}, err
	}
	userID := strings.TrimSpace(in.UserID)
	if userID == "" {
		return GenerateResult{}, fmt.Errorf("%w: uuid is required", ErrInvalidInput)
	}
	sender, err := s.loadProfile(ctx, userID)
	if err != nil {
		return GenerateResult{}, err
	}

	targetText := textguard.Sanitize(in.TargetProfile, textguard.DefaultMaxInput)
	note := textguard.Sanitize(in.ContextNote, textguard.DefaultMaxInput)
	if targetText == "" {
		return GenerateResult{}, fmt.Errorf("%w: Target profile cannot be empty", ErrInvalidInput)
	}
	attrs := contextnote.Classify(note)

	t := time.Now()
	target, fellBack, err := s.Stages.Extract(ctx, targetText)
	logStage(userID, "extract", t, fellBack)
	if err != nil {
		return GenerateResult{}, err
	}

	var (
		overlap  model.OverlapSummary
		insights []model.EnrichmentItem
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		t := time.Now()
		summary, fellBack, err := s.Stages.Overlap(gctx, sender.Profile, target)
		logStage(userID, "overlap", t, fellBack)
		if err != nil {
			return err
		}
		overlap = summary
		return nil
	})
	g.Go(func() error {
		t := time.Now()
		insights = s.enrich(gctx, target)
		logStage(userID, "enrich", t, false)
		return nil
	})
	if err := g.Wait(); err != nil {
		return GenerateResult{}, err
	}

	t = time.Now()
	messages, fellBack, err := s.Stages.Draft(ctx, stages.DraftInput{
		User:     sender.Profile,
		Target:   target,
		Overlap:  overlap,
		Context:  attrs,
		Insights: insights,
	})
	logStage(userID, "draft", t, fellBack)
	if err != nil {
		return GenerateResult{}, err
	}

	contact := contextnote.ExtractContact(in.TargetProfile, target)
	messages = finalize(messages, deref(contact.Name), sender.FirstName)

	entry, err := s.History.Append(ctx, userID, model.HistoryEntry{
		TargetProfileText: textguard.Truncate(targetText, storedTargetChars),
		TargetProfile:     target,
		ContextNote:       note,
		ContextAttributes: attrs,
		OverlapSummary:    overlap,
		ExaResults:        insights,
		MessageSet:        messages,
		Status:            model.StatusDraft,
		ContactName:       contact.Name,
		ContactCompany:    contact.Company,
	})
	if err != nil {
		return GenerateResult{}, fmt.Errorf("save history: %w", err)
	}
	return GenerateResult{HistoryID: entry.ID, Messages: messages}, nil
}

type RefineInput struct {
	UserID       string
	Message      string
	Instructions string
	MessageType  string
}

// Refine rewrites a message per the caller's instructions within the budget of its type.
func (s *Service) Refine(ctx context.Context, in RefineInput) (string, error) {
	if s == nil || s.Stages == nil {
		return "", errors.New("outreach service not configured")
	}
	message := textguard.Sanitize(in.Message, textguard.DefaultMaxInput)
	instructions := textguard.Sanitize(in.Instructions, textguard.DefaultMaxInput)
	if message == "" || instructions == "" {
		return "", fmt.Errorf("%w: Message and instructions are required", ErrInvalidInput)
	}
	return s.Stages.Refine(ctx, message, instructions, strings.ToLower(strings.TrimSpace(in.MessageType)))
}

// FollowUp writes a follow-up for an accepted connection and marks the entry accepted.
// Repeated calls overwrite the same entry.
func (s *Service) FollowUp(ctx context.Context, userID, historyID string) (string, error) {
	if err := s.check(); err != nil {
		return "", err
	}
	userID = strings.TrimSpace(userID)
	historyID = strings.TrimSpace(historyID)
	if userID == "" || historyID == "" {
		return "", fmt.Errorf("%w: uuid and history_id are required", ErrInvalidInput)
	}
	sender, err := s.loadProfile(ctx, userID)
	if err != nil {
		return "", err
	}
	entry, err := s.History.Get(ctx, userID, historyID)
	if errors.Is(err, history.ErrNotFound) {
		return "", ErrEntryNotFound
	}
	if err != nil {
		return "", fmt.Errorf("load history: %w", err)
	}

	message, err := s.Stages.Followup(ctx, stages.FollowupInput{
		User:             sender.Profile,
		Target:           entry.TargetProfile,
		OriginalLinkedIn: entry.LinkedInConnectionRequest,
	})
	if err != nil {
		return "", err
	}
	message = textguard.Enforce(contextnote.FillPlaceholders(message, deref(entry.ContactName), sender.FirstName), model.FollowupMaxChars)

	if _, err := s.History.Update(ctx, userID, historyID, history.Update{
		Status:          model.StatusAccepted,
		FollowupMessage: message,
	}); err != nil {
		if errors.Is(err, history.ErrNotFound) {
			return "", ErrEntryNotFound
		}
		return "", fmt.Errorf("update history: %w", err)
	}
	metrics.IncFollowupGenerated()
	return message, nil
}

func (s *Service) check() error {
	if s == nil || s.Profiles == nil || s.History == nil || s.Stages == nil {
		return errors.New("outreach service not configured")
	}
	return nil
}

func (s *Service) loadProfile(ctx context.Context, userID string) (model.UserProfileRecord, error) {
	record, err := s.Profiles.Get(ctx, userID)
	if errors.Is(err, profiles.ErrNotFound) {
		return model.UserProfileRecord{}, ErrProfileNotFound
	}
	if err != nil {
		return model.UserProfileRecord{}, fmt.Errorf("load profile: %w", err)
	}
	return record, nil
}

func (s *Service) enrich(ctx context.Context, target model.StructuredProfile) []model.EnrichmentItem {
	if s.Enricher == nil {
		return []model.EnrichmentItem{}
	}
	if _, ok := s.Enricher.Capability.Get(); !ok {
		telemetry.Warn("enrichment.unavailable", nil)
		return []model.EnrichmentItem{}
	}
	items := s.Enricher.Enrich(ctx, target)
	if len(items) == 0 {
		metrics.IncEnrichmentFailed()
		telemetry.Warn("enrichment.failed", map[string]any{"queries": len(search.Queries(target))})
	}
	return items
}

// finalize fills name placeholders and applies every message budget.
func finalize(m model.MessageSet, contactName, senderName string) model.MessageSet {
	return model.MessageSet{
		LinkedInConnectionRequest: textguard.Enforce(contextnote.FillPlaceholders(m.LinkedInConnectionRequest, contactName, senderName), model.LinkedInMaxChars),
		ColdOutreachEmail:         textguard.Enforce(contextnote.FillPlaceholders(m.ColdOutreachEmail, contactName, senderName), model.EmailMaxChars),
		FollowupTemplate:          textguard.Enforce(contextnote.FillPlaceholders(m.FollowupTemplate, contactName, senderName), model.FollowupMaxChars),
	}
}

func logStage(userID, stage string, start time.Time, fellBack bool) {
	telemetry.Info("outreach.stage", map[string]any{
		"user_id":     userID,
		"stage":       stage,
		"duration_ms": metrics.SinceMillis(start),
		"fallback":    fellBack,
	})
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
