// internal/workers/research/web-search/models.go
package websearch

import "encoding/json"

type Input struct {
	Query          string   `json:"query"`
	MaxResults     *int     `json:"max_results,omitempty"`
	Location       string   `json:"location,omitempty"`
	Language       string   `json:"language,omitempty"`
	Country        string   `json:"country,omitempty"`
	IncludeDomains []string `json:"include_domains,omitempty"`
	WithSnippets   *bool    `json:"with_snippets,omitempty"`
	MissionID      string   `json:"mission_id,omitempty"`
	UserID         string   `json:"user_id,omitempty"`
}

// SearchResult is one normalized result. Optional provider fields are
// only present when the provider returned them.
type SearchResult struct {
	Title          string          `json:"title"`
	URL            string          `json:"url"`
	Snippet        string          `json:"snippet"`
	GroundingScore *float64        `json:"grounding_score,omitempty"`
	SnippetData    json.RawMessage `json:"snippet_data,omitempty"`
	References     json.RawMessage `json:"references,omitempty"`
}

type EnhancedFeatures struct {
	GroundingSupport bool   `json:"grounding_support"`
	RichSnippets     bool   `json:"rich_snippets"`
	APIVersion       string `json:"api_version"`
}

// Output is the single result shape: either Results/Provider/
// EnhancedFeatures on success, or Error alone on failure. Never both.
type Output struct {
	Results          []SearchResult    `json:"results,omitempty"`
	Provider         string            `json:"provider,omitempty"`
	EnhancedFeatures *EnhancedFeatures `json:"enhanced_features,omitempty"`
	Error            string            `json:"error,omitempty"`
}
