package profiles

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"outreach-backend/internal/model"
	"outreach-backend/internal/shared/storage/object"
	"outreach-backend/internal/shared/util"
)

const (
	profileDocument   = "my_profile.json"
	embeddingDocument = "my_profile_embedding.json"
)

// DocumentRepo stores the profile and its embedding as two JSON documents
// under the user's hashed directory.
type DocumentRepo struct {
	Store object.Store
}

type profileDoc struct {
	Profile   model.StructuredProfile `json:"profile"`
	FirstName string                  `json:"first_name,omitempty"`
	UpdatedAt time.Time               `json:"updated_at"`
}

func (r *DocumentRepo) Save(ctx context.Context, record model.UserProfileRecord) error {
	if record.UpdatedAt.IsZero() {
		record.UpdatedAt = time.Now().UTC()
	}

	doc, err := json.MarshalIndent(profileDoc{
		Profile:   record.Profile.Normalize(),
		FirstName: record.FirstName,
		UpdatedAt: record.UpdatedAt,
	}, "", "  ")
	if err != nil {
		return err
	}
	if err := r.Store.Put(ctx, util.UserKey(record.UserID, profileDocument), "application/json", doc); err != nil {
		return fmt.Errorf("save profile: %w", err)
	}

	if len(record.Embedding) > 0 {
		vec, err := json.Marshal(record.Embedding)
		if err != nil {
			return err
		}
		if err := r.Store.Put(ctx, util.UserKey(record.UserID, embeddingDocument), "application/json", vec); err != nil {
			return fmt.Errorf("save embedding: %w", err)
		}
	}
	return nil
}

func (r *DocumentRepo) Get(ctx context.Context, userID string) (model.UserProfileRecord, error) {
	raw, err := r.Store.Get(ctx, util.UserKey(userID, profileDocument))
	if err != nil {
		if errors.Is(err, object.ErrNotFound) {
			return model.UserProfileRecord{}, ErrNotFound
		}
		return model.UserProfileRecord{}, err
	}
	var doc profileDoc
	if err := json.Unmarshal(raw, &doc); err != nil {
		return model.UserProfileRecord{}, fmt.Errorf("decode profile: %w", err)
	}

	record := model.UserProfileRecord{
		UserID:    userID,
		Profile:   doc.Profile.Normalize(),
		FirstName: doc.FirstName,
		UpdatedAt: doc.UpdatedAt,
	}
	vecRaw, err := r.Store.Get(ctx, util.UserKey(userID, embeddingDocument))
	switch {
	case err == nil:
		if err := json.Unmarshal(vecRaw, &record.Embedding); err != nil {
			return model.UserProfileRecord{}, fmt.Errorf("decode embedding: %w", err)
		}
	case !errors.Is(err, object.ErrNotFound):
		return model.UserProfileRecord{}, err
	}
	return record, nil
}
