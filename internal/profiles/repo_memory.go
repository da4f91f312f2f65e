package profiles

import (
	"context"
	"sync"
	"time"

	"outreach-backend/internal/model"
)

type MemoryRepo struct {
	mu       sync.RWMutex
	profiles map[string]model.UserProfileRecord
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{profiles: make(map[string]model.UserProfileRecord)}
}

func (r *MemoryRepo) Save(ctx context.Context, record model.UserProfileRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if record.UpdatedAt.IsZero() {
		record.UpdatedAt = time.Now().UTC()
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.profiles[record.UserID] = record
	return nil
}

func (r *MemoryRepo) Get(ctx context.Context, userID string) (model.UserProfileRecord, error) {
	if err := ctx.Err(); err != nil {
		return model.UserProfileRecord{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	record, ok := r.profiles[userID]
	if !ok {
		return model.UserProfileRecord{}, ErrNotFound
	}
	return record, nil
}
