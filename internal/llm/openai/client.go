package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/oauth2"

	"outreach-backend/internal/llm"
	"outreach-backend/internal/shared/telemetry"
)

var (
	apiURL        = "https://api.openai.com/v1/chat/completions"
	embeddingsURL = "https://api.openai.com/v1/embeddings"
)

const defaultTimeout = 120 * time.Second

// Client implements llm.Completer using OpenAI Chat Completions.
type Client struct {
	model      string
	httpClient *http.Client
}

// NewClient constructs a chat client. A non-positive timeout uses two minutes.
func NewClient(apiKey, model string, timeout time.Duration) (*Client, error) {
	if strings.TrimSpace(model) == "" {
		return nil, fmt.Errorf("LLM_MODEL is required for OpenAI")
	}
	httpClient, err := newHTTPClient(apiKey, timeout)
	if err != nil {
		return nil, err
	}
	return &Client{model: model, httpClient: httpClient}, nil
}

// newHTTPClient returns a client whose transport attaches the API key as a bearer token.
func newHTTPClient(apiKey string, timeout time.Duration) (*http.Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY is required")
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: apiKey, TokenType: "Bearer"})
	hc := oauth2.NewClient(context.Background(), src)
	hc.Timeout = timeout
	return hc, nil
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature *float32      `json:"temperature,omitempty"`
}

type apiError struct {
	Message string `json:"message"`
	Type    string `json:"type"`
}

type chatResponse struct {
	ID      string `json:"id"`
	Model   string `json:"model"`
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Usage *struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage,omitempty"`
	Error *apiError `json:"error,omitempty"`
}

// Complete sends one system and one user message and returns the trimmed reply.
func (c *Client) Complete(ctx context.Context, systemPrompt, userPrompt string, temperature float32) (string, error) {
	messages := make([]chatMessage, 0, 2)
	if strings.TrimSpace(systemPrompt) != "" {
		messages = append(messages, chatMessage{Role: "system", Content: systemPrompt})
	}
	messages = append(messages, chatMessage{Role: "user", Content: userPrompt})

	reqBody := chatRequest{Model: c.model, Messages: messages}
	if !isGPT5(c.model) {
		reqBody.Temperature = &temperature
	}

	var parsed chatResponse
	status, err := c.post(ctx, apiURL, reqBody, &parsed)
	if err != nil {
		return "", err
	}
	if parsed.Error != nil {
		return "", fmt.Errorf("openai http status %d: %s (%s)", status, parsed.Error.Message, parsed.Error.Type)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("openai response missing choices")
	}
	if parsed.Usage != nil {
		telemetry.Info("llm.usage", map[string]any{
			"model":             c.model,
			"prompt_tokens":     parsed.Usage.PromptTokens,
			"completion_tokens": parsed.Usage.CompletionTokens,
			"total_tokens":      parsed.Usage.TotalTokens,
		})
	}

	content := strings.TrimSpace(parsed.Choices[0].Message.Content)
	if content == "" {
		return "", fmt.Errorf("openai response empty content")
	}
	return content, nil
}

// post marshals payload, sends it and decodes the JSON reply into out.
func (c *Client) post(ctx context.Context, url string, payload any, out any) (int, error) {
	return postJSON(ctx, c.httpClient, url, payload, out)
}

func postJSON(ctx context.Context, hc *http.Client, url string, payload any, out any) (int, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return 0, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := hc.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || strings.Contains(err.Error(), "Client.Timeout") {
			return 0, fmt.Errorf("openai request timeout: %w", err)
		}
		return 0, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, err
	}
	if err := json.Unmarshal(raw, out); err != nil {
		if resp.StatusCode >= 400 {
			return resp.StatusCode, fmt.Errorf("openai http status %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
		}
		return resp.StatusCode, fmt.Errorf("openai response parse: %w", err)
	}
	return resp.StatusCode, nil
}

func isGPT5(model string) bool {
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(model)), "gpt-5")
}

var _ llm.Completer = (*Client)(nil)
