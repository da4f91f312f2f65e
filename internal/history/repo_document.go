package history

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"outreach-backend/internal/model"
	"outreach-backend/internal/shared/storage/object"
	"outreach-backend/internal/shared/util"
)

const historyDocument = "history.json"

// DocumentRepo keeps each user's history as one JSON array document.
// Read-modify-write cycles for a user are serialized in-process.
type DocumentRepo struct {
	Store object.Store

	locks sync.Map // user key -> *sync.Mutex
}

func (r *DocumentRepo) Append(ctx context.Context, userID string, entry model.HistoryEntry) (model.HistoryEntry, error) {
	unlock := r.lock(userID)
	defer unlock()

	entries, err := r.load(ctx, userID)
	if err != nil {
		return model.HistoryEntry{}, err
	}
	entry.ID = uuid.NewString()
	entry.Timestamp = time.Now().UTC()
	entries = append(entries, entry)
	if err := r.store(ctx, userID, entries); err != nil {
		return model.HistoryEntry{}, err
	}
	return entry, nil
}

func (r *DocumentRepo) List(ctx context.Context, userID string) ([]model.HistoryEntry, error) {
	return r.load(ctx, userID)
}

func (r *DocumentRepo) Get(ctx context.Context, userID, id string) (model.HistoryEntry, error) {
	entries, err := r.load(ctx, userID)
	if err != nil {
		return model.HistoryEntry{}, err
	}
	for _, e := range entries {
		if e.ID == id {
			return e, nil
		}
	}
	return model.HistoryEntry{}, ErrNotFound
}

func (r *DocumentRepo) Update(ctx context.Context, userID, id string, u Update) (model.HistoryEntry, error) {
	unlock := r.lock(userID)
	defer unlock()

	entries, err := r.load(ctx, userID)
	if err != nil {
		return model.HistoryEntry{}, err
	}
	for i := range entries {
		if entries[i].ID != id {
			continue
		}
		entries[i] = apply(entries[i], u)
		if err := r.store(ctx, userID, entries); err != nil {
			return model.HistoryEntry{}, err
		}
		return entries[i], nil
	}
	return model.HistoryEntry{}, ErrNotFound
}

func (r *DocumentRepo) lock(userID string) func() {
	v, _ := r.locks.LoadOrStore(util.HashUserKey(userID), &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

func (r *DocumentRepo) key(userID string) string {
	return util.UserKey(userID, historyDocument)
}

func (r *DocumentRepo) load(ctx context.Context, userID string) ([]model.HistoryEntry, error) {
	raw, err := r.Store.Get(ctx, r.key(userID))
	if errors.Is(err, object.ErrNotFound) {
		return []model.HistoryEntry{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}
	var entries []model.HistoryEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("decode history: %w", err)
	}
	if entries == nil {
		entries = []model.HistoryEntry{}
	}
	return entries, nil
}

func (r *DocumentRepo) store(ctx context.Context, userID string, entries []model.HistoryEntry) error {
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}
	if err := r.Store.Put(ctx, r.key(userID), "application/json", data); err != nil {
		return fmt.Errorf("save history: %w", err)
	}
	return nil
}
