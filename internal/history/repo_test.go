package history

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"outreach-backend/internal/model"
	"outreach-backend/internal/shared/storage/object/local"
)

func repos(t *testing.T) map[string]Repo {
	t.Helper()
	return map[string]Repo{
		"memory":   NewMemoryRepo(),
		"document": &DocumentRepo{Store: local.New(t.TempDir())},
	}
}

func draftEntry(text string) model.HistoryEntry {
	return model.HistoryEntry{
		TargetProfileText: text,
		TargetProfile:     model.EmptyProfile(),
		OverlapSummary:    model.EmptyOverlap(),
		ExaResults:        []model.EnrichmentItem{},
		Status:            model.StatusDraft,
	}
}

func TestRepoAppendAssignsIDAndTimestamp(t *testing.T) {
	for name, repo := range repos(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			a, err := repo.Append(ctx, "u1", draftEntry("first"))
			if err != nil {
				t.Fatalf("Append: %v", err)
			}
			b, err := repo.Append(ctx, "u1", draftEntry("second"))
			if err != nil {
				t.Fatalf("Append: %v", err)
			}
			if a.ID == "" || a.ID == b.ID || a.Timestamp.IsZero() {
				t.Fatalf("expected unique ids and timestamps, got %q %q", a.ID, b.ID)
			}

			list, err := repo.List(ctx, "u1")
			if err != nil {
				t.Fatalf("List: %v", err)
			}
			if len(list) != 2 || list[0].TargetProfileText != "first" || list[1].TargetProfileText != "second" {
				t.Fatalf("unexpected list %#v", list)
			}

			other, err := repo.List(ctx, "u2")
			if err != nil {
				t.Fatalf("List other: %v", err)
			}
			if len(other) != 0 {
				t.Fatalf("expected isolation between users")
			}
		})
	}
}

func TestRepoUpdateInPlace(t *testing.T) {
	for name, repo := range repos(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			e, _ := repo.Append(ctx, "u1", draftEntry("x"))

			updated, err := repo.Update(ctx, "u1", e.ID, Update{Status: model.StatusAccepted, FollowupMessage: "hello"})
			if err != nil {
				t.Fatalf("Update: %v", err)
			}
			if updated.Status != model.StatusAccepted || updated.FollowupMessage != "hello" {
				t.Fatalf("unexpected updated entry %#v", updated)
			}
			if _, err := repo.Update(ctx, "u1", e.ID, Update{Status: model.StatusAccepted, FollowupMessage: "again"}); err != nil {
				t.Fatalf("second Update: %v", err)
			}

			list, _ := repo.List(ctx, "u1")
			if len(list) != 1 {
				t.Fatalf("expected update not to duplicate, got %d entries", len(list))
			}
			got, err := repo.Get(ctx, "u1", e.ID)
			if err != nil {
				t.Fatalf("Get: %v", err)
			}
			if got.FollowupMessage != "again" || got.TargetProfileText != "x" {
				t.Fatalf("unexpected entry %#v", got)
			}
		})
	}
}

func TestRepoMissingEntry(t *testing.T) {
	for name, repo := range repos(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			if _, err := repo.Get(ctx, "u1", "nope"); !errors.Is(err, ErrNotFound) {
				t.Fatalf("expected ErrNotFound, got %v", err)
			}
			if _, err := repo.Update(ctx, "u1", "nope", Update{Status: model.StatusAccepted}); !errors.Is(err, ErrNotFound) {
				t.Fatalf("expected ErrNotFound on update, got %v", err)
			}
		})
	}
}

func TestDocumentRepoConcurrentAppends(t *testing.T) {
	repo := &DocumentRepo{Store: local.New(t.TempDir())}
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if _, err := repo.Append(ctx, "u1", draftEntry(fmt.Sprintf("entry-%d", i))); err != nil {
				t.Errorf("Append %d: %v", i, err)
			}
		}(i)
	}
	wg.Wait()

	list, err := repo.List(ctx, "u1")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 20 {
		t.Fatalf("expected 20 entries after concurrent appends, got %d", len(list))
	}
}

func TestEntryJSONShape(t *testing.T) {
	repo := &DocumentRepo{Store: local.New(t.TempDir())}
	ctx := context.Background()
	e := draftEntry("t")
	e.LinkedInConnectionRequest = "hi"
	saved, err := repo.Append(ctx, "u1", e)
	if err != nil {
		t.Fatalf("Append: %v", err)
	}
	got, err := repo.Get(ctx, "u1", saved.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.LinkedInConnectionRequest != "hi" || got.ExaResults == nil {
		t.Fatalf("expected flattened message fields and exa_results to survive, got %#v", got)
	}
}
