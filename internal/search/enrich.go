package search

import (
	"context"
	"time"

	"outreach-backend/internal/model"
	"outreach-backend/internal/shared/telemetry"
)

const (
	maxQueries       = 2
	resultsPerQuery  = 2
	maxResults       = 3
	summaryMaxRunes  = 200
	fallbackQuery    = "professional networking insights"
	defaultEnrichTTL = 15 * time.Second
)

// Enricher turns a target profile into a short list of enrichment items.
type Enricher struct {
	Capability Capability
	Timeout    time.Duration
}

// Queries derives search queries from the target profile in priority order:
// most recent company, first industry, first role. A generic query is used
// when nothing is available.
func Queries(profile model.StructuredProfile) []string {
	var company, role string
	for _, w := range profile.WorkHistory {
		if company == "" && w.Company != "" {
			company = w.Company
		}
		if role == "" && w.Role != "" {
			role = w.Role
		}
	}

	queries := make([]string, 0, 3)
	if company != "" {
		queries = append(queries, "recent news about "+company)
	}
	if len(profile.Industries) > 0 && profile.Industries[0] != "" {
		queries = append(queries, "trends in "+profile.Industries[0]+" industry")
	}
	if role != "" {
		queries = append(queries, "insights about "+role+" role")
	}
	if len(queries) == 0 {
		queries = append(queries, fallbackQuery)
	}
	if len(queries) > maxQueries {
		queries = queries[:maxQueries]
	}
	return queries
}

// Enrich runs the derived queries and returns at most three items. It never
// fails: an absent capability, query errors and timeouts all yield fewer or
// no items.
func (e *Enricher) Enrich(ctx context.Context, profile model.StructuredProfile) []model.EnrichmentItem {
	items := []model.EnrichmentItem{}
	client, ok := e.Capability.Get()
	if !ok {
		return items
	}

	timeout := e.Timeout
	if timeout <= 0 {
		timeout = defaultEnrichTTL
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	for _, query := range Queries(profile) {
		results, err := client.Search(ctx, query, resultsPerQuery)
		if err != nil {
			telemetry.Warn("enrichment.query_failed", map[string]any{"query": query, "err": err.Error()})
			if ctx.Err() != nil {
				telemetry.Warn("enrichment.timeout", map[string]any{"timeout_ms": timeout.Milliseconds()})
				return []model.EnrichmentItem{}
			}
			continue
		}
		if len(results) > resultsPerQuery {
			results = results[:resultsPerQuery]
		}
		for _, r := range results {
			items = append(items, model.EnrichmentItem{
				Title:   r.Title,
				URL:     r.URL,
				Summary: truncateRunes(r.Text, summaryMaxRunes),
				Query:   query,
			})
		}
	}

	if len(items) > maxResults {
		items = items[:maxResults]
	}
	return items
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
