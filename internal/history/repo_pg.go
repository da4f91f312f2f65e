package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"outreach-backend/internal/model"
)

// PGRepo stores the full entry as JSONB; status and follow-up are mirrored
// into columns so updates touch a single row.
type PGRepo struct {
	DB *sql.DB
}

func (r *PGRepo) Append(ctx context.Context, userID string, entry model.HistoryEntry) (model.HistoryEntry, error) {
	const query = `
INSERT INTO outreach_history (id, user_id, created_at, status, entry, followup_message, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, now())`
	entry.ID = uuid.NewString()
	entry.Timestamp = time.Now().UTC()
	payload, err := json.Marshal(entry)
	if err != nil {
		return model.HistoryEntry{}, err
	}
	_, err = r.DB.ExecContext(ctx, query,
		entry.ID,
		userID,
		entry.Timestamp,
		entry.Status,
		string(payload),
		nullableString(entry.FollowupMessage),
	)
	if err != nil {
		return model.HistoryEntry{}, err
	}
	return entry, nil
}

func (r *PGRepo) List(ctx context.Context, userID string) ([]model.HistoryEntry, error) {
	const query = `
SELECT entry, status, followup_message
FROM outreach_history
WHERE user_id = $1
ORDER BY created_at ASC`
	rows, err := r.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.HistoryEntry{}
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PGRepo) Get(ctx context.Context, userID, id string) (model.HistoryEntry, error) {
	const query = `
SELECT entry, status, followup_message
FROM outreach_history
WHERE user_id = $1 AND id = $2
LIMIT 1`
	if _, err := uuid.Parse(id); err != nil {
		return model.HistoryEntry{}, ErrNotFound
	}
	entry, err := scanEntry(r.DB.QueryRowContext(ctx, query, userID, id))
	if errors.Is(err, sql.ErrNoRows) {
		return model.HistoryEntry{}, ErrNotFound
	}
	return entry, err
}

func (r *PGRepo) Update(ctx context.Context, userID, id string, u Update) (model.HistoryEntry, error) {
	const query = `
UPDATE outreach_history
SET status = COALESCE(NULLIF($3, ''), status),
    followup_message = COALESCE(NULLIF($4, ''), followup_message),
    updated_at = now()
WHERE user_id = $1 AND id = $2
RETURNING entry, status, followup_message`
	if _, err := uuid.Parse(id); err != nil {
		return model.HistoryEntry{}, ErrNotFound
	}
	entry, err := scanEntry(r.DB.QueryRowContext(ctx, query, userID, id, u.Status, u.FollowupMessage))
	if errors.Is(err, sql.ErrNoRows) {
		return model.HistoryEntry{}, ErrNotFound
	}
	return entry, err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(row rowScanner) (model.HistoryEntry, error) {
	var payload string
	var status string
	var followup sql.NullString
	if err := row.Scan(&payload, &status, &followup); err != nil {
		return model.HistoryEntry{}, err
	}
	var entry model.HistoryEntry
	if err := json.Unmarshal([]byte(payload), &entry); err != nil {
		return model.HistoryEntry{}, fmt.Errorf("decode history entry: %w", err)
	}
	entry.Status = status
	if followup.Valid {
		entry.FollowupMessage = followup.String
	}
	return entry, nil
}

func nullableString(value string) sql.NullString {
	if value == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: value, Valid: true}
}
