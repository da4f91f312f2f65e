package profiles

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/pgvector/pgvector-go"

	"outreach-backend/internal/model"
)

type PGRepo struct {
	DB *sql.DB
}

func (r *PGRepo) Save(ctx context.Context, record model.UserProfileRecord) error {
	const query = `
INSERT INTO user_profiles (user_id, profile, embedding, first_name, updated_at)
VALUES ($1, $2, $3, $4, now())
ON CONFLICT (user_id) DO UPDATE SET
  profile = EXCLUDED.profile,
  embedding = EXCLUDED.embedding,
  first_name = EXCLUDED.first_name,
  updated_at = now()`
	payload, err := json.Marshal(record.Profile.Normalize())
	if err != nil {
		return err
	}
	var embedding any
	if len(record.Embedding) > 0 {
		embedding = pgvector.NewVector(record.Embedding)
	}
	_, err = r.DB.ExecContext(ctx, query,
		record.UserID,
		string(payload),
		embedding,
		nullableString(record.FirstName),
	)
	return err
}

func (r *PGRepo) Get(ctx context.Context, userID string) (model.UserProfileRecord, error) {
	const query = `
SELECT user_id, profile, embedding, first_name, updated_at
FROM user_profiles
WHERE user_id = $1
LIMIT 1`
	var record model.UserProfileRecord
	var payload string
	var embedding sql.Null[pgvector.Vector]
	var firstName sql.NullString
	err := r.DB.QueryRowContext(ctx, query, userID).Scan(
		&record.UserID,
		&payload,
		&embedding,
		&firstName,
		&record.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.UserProfileRecord{}, ErrNotFound
		}
		return model.UserProfileRecord{}, err
	}
	if err := json.Unmarshal([]byte(payload), &record.Profile); err != nil {
		return model.UserProfileRecord{}, fmt.Errorf("decode profile: %w", err)
	}
	record.Profile = record.Profile.Normalize()
	if embedding.Valid {
		record.Embedding = embedding.V.Slice()
	}
	if firstName.Valid {
		record.FirstName = firstName.String
	}
	return record, nil
}

func nullableString(value string) sql.NullString {
	if value == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: value, Valid: true}
}
