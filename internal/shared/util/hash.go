package util

import (
	"crypto/sha256"
	"encoding/hex"
	"path"
	"strings"
)

// HashUserKey returns a filesystem-safe identifier for a user ID.
func HashUserKey(s string) string {
	sum := sha256.Sum256([]byte(strings.TrimSpace(s)))
	return hex.EncodeToString(sum[:])
}

// UserKey joins parts under the user's hashed storage directory.
func UserKey(userID string, parts ...string) string {
	return path.Join(append([]string{HashUserKey(userID)}, parts...)...)
}
