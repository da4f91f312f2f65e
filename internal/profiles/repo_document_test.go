package profiles

import (
	"context"
	"errors"
	"testing"
	"time"

	"outreach-backend/internal/model"
	"outreach-backend/internal/shared/storage/object/local"
	"outreach-backend/internal/shared/util"
)

func TestDocumentRepoRoundTrip(t *testing.T) {
	store := local.New(t.TempDir())
	repo := &DocumentRepo{Store: store}
	ctx := context.Background()

	rec := model.UserProfileRecord{
		UserID:    "u1",
		Profile:   sampleProfile(),
		Embedding: []float32{1, 2, 3},
		FirstName: "Jane",
		UpdatedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}
	if err := repo.Save(ctx, rec); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := repo.Get(ctx, "u1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.FirstName != "Jane" || len(got.Embedding) != 3 || !got.UpdatedAt.Equal(rec.UpdatedAt) {
		t.Fatalf("unexpected record %#v", got)
	}

	if _, err := store.Get(ctx, util.HashUserKey("u1")+"/my_profile_embedding.json"); err != nil {
		t.Fatalf("expected embedding document: %v", err)
	}
}

func TestDocumentRepoWithoutEmbedding(t *testing.T) {
	repo := &DocumentRepo{Store: local.New(t.TempDir())}
	ctx := context.Background()
	if err := repo.Save(ctx, model.UserProfileRecord{UserID: "u2", Profile: model.EmptyProfile()}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := repo.Get(ctx, "u2")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Embedding != nil || got.Profile.Skills == nil {
		t.Fatalf("unexpected record %#v", got)
	}
}

func TestDocumentRepoMissing(t *testing.T) {
	repo := &DocumentRepo{Store: local.New(t.TempDir())}
	if _, err := repo.Get(context.Background(), "ghost"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
