// Package search provides the optional web-search capability used for
// best-effort enrichment of outreach drafts.
package search

import "context"

// Result is one search hit.
type Result struct {
	Title string `json:"title"`
	URL   string `json:"url"`
	Text  string `json:"text"`
}

// Client runs a search query and returns at most numResults hits.
type Client interface {
	Search(ctx context.Context, query string, numResults int) ([]Result, error)
}

// Capability is an explicitly optional search client. An absent capability
// stays absent for the process lifetime.
type Capability struct {
	client Client
}

// Present wraps an available client. A nil client yields an absent capability.
func Present(c Client) Capability {
	return Capability{client: c}
}

// Absent returns a disabled capability.
func Absent() Capability {
	return Capability{}
}

// Get returns the client and whether it is available.
func (c Capability) Get() (Client, bool) {
	return c.client, c.client != nil
}
