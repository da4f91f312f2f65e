// Package exa implements search.Client against the Exa search API.
package exa

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"outreach-backend/internal/search"
)

var apiURL = "https://api.exa.ai/search"

// Client calls the Exa search endpoint.
type Client struct {
	apiKey     string
	httpClient *http.Client
}

// NewClient returns an error when the API key is missing.
func NewClient(apiKey string, timeout time.Duration) (*Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("EXA_API_KEY is required")
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{apiKey: apiKey, httpClient: &http.Client{Timeout: timeout}}, nil
}

type searchRequest struct {
	Query         string   `json:"query"`
	NumResults    int      `json:"numResults"`
	UseAutoprompt bool     `json:"useAutoprompt"`
	Contents      contents `json:"contents"`
}

type contents struct {
	Text bool `json:"text"`
}

type searchResponse struct {
	Results []struct {
		Title string `json:"title"`
		URL   string `json:"url"`
		Text  string `json:"text"`
	} `json:"results"`
	Error string `json:"error,omitempty"`
}

// Search runs query and returns at most numResults hits.
func (c *Client) Search(ctx context.Context, query string, numResults int) ([]search.Result, error) {
	body, err := json.Marshal(searchRequest{
		Query:         query,
		NumResults:    numResults,
		UseAutoprompt: true,
		Contents:      contents{Text: true},
	})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, apiURL, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("exa http status %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}
	var parsed searchResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("exa response parse: %w", err)
	}
	if parsed.Error != "" {
		return nil, fmt.Errorf("exa error: %s", parsed.Error)
	}

	out := make([]search.Result, 0, len(parsed.Results))
	for _, r := range parsed.Results {
		out = append(out, search.Result{Title: r.Title, URL: r.URL, Text: r.Text})
	}
	if numResults > 0 && len(out) > numResults {
		out = out[:numResults]
	}
	return out, nil
}

var _ search.Client = (*Client)(nil)
