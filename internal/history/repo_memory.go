package history

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"outreach-backend/internal/model"
)

type MemoryRepo struct {
	mu      sync.RWMutex
	entries map[string][]model.HistoryEntry
	now     func() time.Time
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{entries: make(map[string][]model.HistoryEntry), now: time.Now}
}

func (r *MemoryRepo) Append(ctx context.Context, userID string, entry model.HistoryEntry) (model.HistoryEntry, error) {
	if err := ctx.Err(); err != nil {
		return model.HistoryEntry{}, err
	}
	entry.ID = uuid.NewString()
	entry.Timestamp = r.now().UTC()
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[userID] = append(r.entries[userID], entry)
	return entry, nil
}

func (r *MemoryRepo) List(ctx context.Context, userID string) ([]model.HistoryEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]model.HistoryEntry, len(r.entries[userID]))
	copy(out, r.entries[userID])
	return out, nil
}

func (r *MemoryRepo) Get(ctx context.Context, userID, id string) (model.HistoryEntry, error) {
	if err := ctx.Err(); err != nil {
		return model.HistoryEntry{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, e := range r.entries[userID] {
		if e.ID == id {
			return e, nil
		}
	}
	return model.HistoryEntry{}, ErrNotFound
}

func (r *MemoryRepo) Update(ctx context.Context, userID, id string, u Update) (model.HistoryEntry, error) {
	if err := ctx.Err(); err != nil {
		return model.HistoryEntry{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	list := r.entries[userID]
	for i := range list {
		if list[i].ID == id {
			list[i] = apply(list[i], u)
			return list[i], nil
		}
	}
	return model.HistoryEntry{}, ErrNotFound
}
