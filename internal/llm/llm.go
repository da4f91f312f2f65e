package llm

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
)

// Completer is the text-generation capability used by every pipeline stage.
type Completer interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string, temperature float32) (string, error)
}

// Embedder turns profile text into a vector.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// ErrNotImplemented is returned by the placeholder client.
var ErrNotImplemented = errors.New("LLM not implemented")

// ErrNoJSON is returned when a completion contains no decodable JSON object.
var ErrNoJSON = errors.New("no json object found")

// PlaceholderClient stands in when no provider is configured.
type PlaceholderClient struct{}

// Complete returns ErrNotImplemented.
func (PlaceholderClient) Complete(ctx context.Context, systemPrompt, userPrompt string, temperature float32) (string, error) {
	_ = ctx
	_ = systemPrompt
	_ = userPrompt
	_ = temperature
	return "", ErrNotImplemented
}

// Embed returns ErrNotImplemented.
func (PlaceholderClient) Embed(ctx context.Context, text string) ([]float32, error) {
	_ = ctx
	_ = text
	return nil, ErrNotImplemented
}

// StripCodeFence removes a leading ```json or ``` marker and a trailing ``` marker.
func StripCodeFence(raw string) string {
	content := strings.TrimSpace(raw)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	return strings.TrimSpace(content)
}

// DecodeJSON strips code fences from a completion and decodes the JSON object in it.
// If the payload is not valid JSON as a whole, the outermost {...} span is tried.
func DecodeJSON(raw string, v any) error {
	payload := StripCodeFence(raw)
	if payload == "" {
		return ErrNoJSON
	}
	if !json.Valid([]byte(payload)) {
		start := strings.Index(payload, "{")
		end := strings.LastIndex(payload, "}")
		if start == -1 || end <= start {
			return ErrNoJSON
		}
		payload = payload[start : end+1]
	}
	return json.Unmarshal([]byte(payload), v)
}
