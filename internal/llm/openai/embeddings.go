package openai

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"outreach-backend/internal/llm"
)

// EmbeddingClient implements llm.Embedder using the OpenAI embeddings endpoint.
type EmbeddingClient struct {
	model      string
	httpClient *http.Client
}

// NewEmbeddingClient constructs an embeddings client.
func NewEmbeddingClient(apiKey, model string, timeout time.Duration) (*EmbeddingClient, error) {
	if strings.TrimSpace(model) == "" {
		return nil, fmt.Errorf("EMBEDDING_MODEL is required for OpenAI")
	}
	httpClient, err := newHTTPClient(apiKey, timeout)
	if err != nil {
		return nil, err
	}
	return &EmbeddingClient{model: model, httpClient: httpClient}, nil
}

type embeddingRequest struct {
	Model string `json:"model"`
	Input string `json:"input"`
}

type embeddingResponse struct {
	Data []struct {
		Embedding []float32 `json:"embedding"`
	} `json:"data"`
	Error *apiError `json:"error,omitempty"`
}

// Embed returns the embedding vector for text.
func (c *EmbeddingClient) Embed(ctx context.Context, text string) ([]float32, error) {
	var parsed embeddingResponse
	status, err := postJSON(ctx, c.httpClient, embeddingsURL, embeddingRequest{Model: c.model, Input: text}, &parsed)
	if err != nil {
		return nil, err
	}
	if parsed.Error != nil {
		return nil, fmt.Errorf("openai http status %d: %s (%s)", status, parsed.Error.Message, parsed.Error.Type)
	}
	if len(parsed.Data) == 0 || len(parsed.Data[0].Embedding) == 0 {
		return nil, fmt.Errorf("openai embedding response empty")
	}
	return parsed.Data[0].Embedding, nil
}

var _ llm.Embedder = (*EmbeddingClient)(nil)
