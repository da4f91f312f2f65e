package profiles

import (
	"context"
	"errors"

	"outreach-backend/internal/model"
)

// ErrNotFound is returned when no profile is stored for a user.
var ErrNotFound = errors.New("profile not found")

// Repo persists one profile record per user.
type Repo interface {
	Save(ctx context.Context, record model.UserProfileRecord) error
	Get(ctx context.Context, userID string) (model.UserProfileRecord, error)
}
