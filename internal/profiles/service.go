package profiles

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"outreach-backend/internal/contextnote"
	"outreach-backend/internal/extract"
	"outreach-backend/internal/llm"
	"outreach-backend/internal/model"
	"outreach-backend/internal/shared/storage/object"
	"outreach-backend/internal/shared/telemetry"
	"outreach-backend/internal/textguard"
)

var (
	// ErrInvalidInput reports an empty user id or profile text.
	ErrInvalidInput = errors.New("invalid input")
	// ErrUnsupportedFile reports an upload whose text could not be extracted.
	ErrUnsupportedFile = errors.New("unsupported file")
)

// Extractor turns sanitized profile text into a StructuredProfile.
type Extractor interface {
	Extract(ctx context.Context, profileText string) (model.StructuredProfile, bool, error)
}

// Service saves and loads the sender's profile.
type Service struct {
	Repo      Repo
	Extractor Extractor
	Embedder  llm.Embedder
	// Uploads keeps original profile files. Optional.
	Uploads object.Store
}

// SaveText sanitizes, extracts and persists the user's profile. An embedding
// failure is logged and the profile is stored without a vector.
func (s *Service) SaveText(ctx context.Context, userID, profileText string) (model.UserProfileRecord, error) {
	if s == nil || s.Repo == nil || s.Extractor == nil {
		return model.UserProfileRecord{}, errors.New("profiles service not configured")
	}
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return model.UserProfileRecord{}, fmt.Errorf("%w: uuid is required", ErrInvalidInput)
	}
	clean := textguard.Sanitize(profileText, textguard.DefaultMaxInput)
	if clean == "" {
		return model.UserProfileRecord{}, fmt.Errorf("%w: profile text cannot be empty", ErrInvalidInput)
	}

	profile, _, err := s.Extractor.Extract(ctx, clean)
	if err != nil {
		return model.UserProfileRecord{}, err
	}

	record := model.UserProfileRecord{
		UserID:    userID,
		Profile:   profile,
		FirstName: contextnote.FirstName(profileText),
		UpdatedAt: time.Now().UTC(),
	}
	if s.Embedder != nil {
		vec, err := s.Embedder.Embed(ctx, clean)
		if err != nil {
			telemetry.Warn("profile.embedding_failed", map[string]any{"user_id": userID, "err": err.Error()})
		} else {
			record.Embedding = vec
		}
	}

	if err := s.Repo.Save(ctx, record); err != nil {
		return model.UserProfileRecord{}, err
	}
	return record, nil
}

// SaveFile extracts text from an uploaded PDF, DOCX or text file and saves it as the profile.
func (s *Service) SaveFile(ctx context.Context, userID, fileName, mimeType string, r io.Reader) (model.UserProfileRecord, error) {
	if strings.TrimSpace(userID) == "" {
		return model.UserProfileRecord{}, fmt.Errorf("%w: uuid is required", ErrInvalidInput)
	}
	if strings.TrimSpace(fileName) == "" {
		return model.UserProfileRecord{}, fmt.Errorf("%w: file name is required", ErrInvalidInput)
	}

	var text string
	if s.Uploads != nil {
		key, _, sniffed, err := s.Uploads.Save(ctx, userID, fileName, r)
		if err != nil {
			return model.UserProfileRecord{}, err
		}
		text, err = extract.ExtractText(ctx, s.Uploads, key, pickMime(sniffed, mimeType), fileName)
		if err != nil {
			return model.UserProfileRecord{}, fmt.Errorf("%w: %v", ErrUnsupportedFile, err)
		}
	} else {
		data, err := io.ReadAll(r)
		if err != nil {
			return model.UserProfileRecord{}, err
		}
		text, err = extract.ExtractTextFromBytes(ctx, data, pickMime(http.DetectContentType(data), mimeType), fileName)
		if err != nil {
			return model.UserProfileRecord{}, fmt.Errorf("%w: %v", ErrUnsupportedFile, err)
		}
	}
	return s.SaveText(ctx, userID, text)
}

// Get returns the stored profile for userID.
func (s *Service) Get(ctx context.Context, userID string) (model.UserProfileRecord, error) {
	if s == nil || s.Repo == nil {
		return model.UserProfileRecord{}, errors.New("profiles service not configured")
	}
	if strings.TrimSpace(userID) == "" {
		return model.UserProfileRecord{}, fmt.Errorf("%w: uuid is required", ErrInvalidInput)
	}
	return s.Repo.Get(ctx, userID)
}

// pickMime prefers the sniffed type unless sniffing only found generic bytes.
func pickMime(sniffed, declared string) string {
	base := strings.ToLower(strings.TrimSpace(strings.Split(sniffed, ";")[0]))
	if base == "" || base == "application/octet-stream" {
		return declared
	}
	return sniffed
}
