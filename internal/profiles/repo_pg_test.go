package profiles

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"outreach-backend/internal/model"
)

func TestPGRepoSaveUpserts(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}
	mock.ExpectExec("INSERT INTO user_profiles").
		WithArgs("u1", sqlmock.AnyArg(), sqlmock.AnyArg(), sql.NullString{String: "Jane", Valid: true}).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err = repo.Save(context.Background(), model.UserProfileRecord{
		UserID:    "u1",
		Profile:   sampleProfile(),
		Embedding: []float32{0.5, 1},
		FirstName: "Jane",
	})
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoGetDecodesProfileAndVector(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	updated := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{"user_id", "profile", "embedding", "first_name", "updated_at"}).
		AddRow("u1", `{"work_history":[{"company":"Acme"}],"skills":["go"]}`, "[0.5,1]", "Jane", updated)
	mock.ExpectQuery("SELECT user_id, profile, embedding, first_name, updated_at").
		WithArgs("u1").
		WillReturnRows(rows)

	repo := &PGRepo{DB: db}
	got, err := repo.Get(context.Background(), "u1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Profile.WorkHistory[0].Company != "Acme" || got.Profile.Education == nil {
		t.Fatalf("unexpected profile %#v", got.Profile)
	}
	if len(got.Embedding) != 2 || got.Embedding[1] != 1 {
		t.Fatalf("unexpected embedding %v", got.Embedding)
	}
	if got.FirstName != "Jane" || !got.UpdatedAt.Equal(updated) {
		t.Fatalf("unexpected record %#v", got)
	}
}

func TestPGRepoGetNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	mock.ExpectQuery("SELECT user_id").WithArgs("ghost").WillReturnError(sql.ErrNoRows)

	repo := &PGRepo{DB: db}
	if _, err := repo.Get(context.Background(), "ghost"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
