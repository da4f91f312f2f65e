// Package history persists outreach transactions per user.
package history

import (
	"context"
	"errors"

	"outreach-backend/internal/model"
)

// ErrNotFound is returned when a history entry does not exist for the user.
var ErrNotFound = errors.New("history entry not found")

// Update carries the mutable fields of an entry. Empty fields are left as is.
type Update struct {
	Status          string
	FollowupMessage string
}

// Repo stores history entries. Append assigns the id and timestamp.
type Repo interface {
	Append(ctx context.Context, userID string, entry model.HistoryEntry) (model.HistoryEntry, error)
	List(ctx context.Context, userID string) ([]model.HistoryEntry, error)
	Get(ctx context.Context, userID, id string) (model.HistoryEntry, error)
	Update(ctx context.Context, userID, id string, u Update) (model.HistoryEntry, error)
}

func apply(entry model.HistoryEntry, u Update) model.HistoryEntry {
	if u.Status != "" {
		entry.Status = u.Status
	}
	if u.FollowupMessage != "" {
		entry.FollowupMessage = u.FollowupMessage
	}
	return entry
}
