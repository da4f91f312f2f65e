package history

import (
	"context"
	"errors"
	"strings"
	"time"

	"outreach-backend/internal/model"
	"outreach-backend/internal/textguard"
)

const previewChars = 100

// Summary is the list view of a history entry.
type Summary struct {
	ID            string    `json:"id"`
	Timestamp     time.Time `json:"timestamp"`
	Status        string    `json:"status"`
	TargetPreview string    `json:"target_preview"`
}

type Service struct {
	Repo Repo
}

func NewService(repo Repo) *Service {
	return &Service{Repo: repo}
}

// List returns summaries in insertion order. A user with no history gets an empty list.
func (s *Service) List(ctx context.Context, userID string) ([]Summary, error) {
	if s == nil || s.Repo == nil {
		return nil, errors.New("history service not configured")
	}
	entries, err := s.Repo.List(ctx, strings.TrimSpace(userID))
	if err != nil {
		return nil, err
	}
	out := make([]Summary, 0, len(entries))
	for _, e := range entries {
		status := e.Status
		if status == "" {
			status = model.StatusDraft
		}
		out = append(out, Summary{
			ID:            e.ID,
			Timestamp:     e.Timestamp,
			Status:        status,
			TargetPreview: textguard.Truncate(e.TargetProfileText, previewChars),
		})
	}
	return out, nil
}

// Get returns the full entry.
func (s *Service) Get(ctx context.Context, userID, id string) (model.HistoryEntry, error) {
	if s == nil || s.Repo == nil {
		return model.HistoryEntry{}, errors.New("history service not configured")
	}
	return s.Repo.Get(ctx, strings.TrimSpace(userID), strings.TrimSpace(id))
}
