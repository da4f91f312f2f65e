package object

import (
	"context"
	"errors"
	"io"
)

// ErrNotFound is returned by Get when no object exists at the key.
var ErrNotFound = errors.New("object not found")

// Store saves and retrieves objects under user-scoped keys.
type Store interface {
	// Save writes an uploaded file under the user's namespace with a random prefix.
	Save(ctx context.Context, userID string, fileName string, r io.Reader) (storageKey string, sizeBytes int64, mimeType string, err error)
	// Put replaces the object at key.
	Put(ctx context.Context, key string, contentType string, data []byte) error
	// Get reads the object at key.
	Get(ctx context.Context, key string) ([]byte, error)
}
