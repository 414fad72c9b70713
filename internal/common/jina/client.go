package jina

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	commonhttp "research-workers/internal/common/http"
	"research-workers/internal/common/logger"
)

const DefaultBaseURL = "https://s.jina.ai/"

// Client talks to the Jina search API. A zero API key means the client
// is unconfigured and Search fails fast without touching the network.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *commonhttp.Client
	logger     logger.Logger
}

// SearchRequest describes one search call.
type SearchRequest struct {
	Query            string
	Num              int
	Location         string
	Language         string
	Country          string
	Site             string
	WithLinksSummary bool
}

// Result is a single raw provider result. Optional fields stay nil when
// the provider omits them.
type Result struct {
	Title          string          `json:"title"`
	URL            string          `json:"url"`
	Content        string          `json:"content"`
	Description    string          `json:"description"`
	GroundingScore *float64        `json:"grounding_score,omitempty"`
	SnippetData    json.RawMessage `json:"snippet_data,omitempty"`
	References     json.RawMessage `json:"references,omitempty"`
}

type searchResponse struct {
	Data []Result `json:"data"`
}

// StatusError reports a non-2xx provider response.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("jina search returned status %d", e.StatusCode)
}

// RequestError reports a transport-level failure (DNS, connect, timeout).
type RequestError struct {
	Err error
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("jina search request failed: %v", e.Err)
}

func (e *RequestError) Unwrap() error {
	return e.Err
}

func NewClient(apiKey, baseURL string, timeout time.Duration, log logger.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		apiKey:     apiKey,
		baseURL:    baseURL,
		httpClient: commonhttp.NewClient(timeout),
		logger:     log,
	}
}

// IsConfigured reports whether an API key is present.
func (c *Client) IsConfigured() bool {
	return c.apiKey != ""
}

// Search performs one provider search call and returns the raw results.
func (c *Client) Search(ctx context.Context, req SearchRequest) ([]Result, error) {
	payload := map[string]interface{}{
		"q":   req.Query,
		"num": req.Num,
	}
	if req.Location != "" {
		payload["location"] = req.Location
	}
	if req.Language != "" {
		payload["hl"] = req.Language
	}
	if req.Country != "" {
		payload["gl"] = req.Country
	}

	headers := map[string]string{
		"Authorization": "Bearer " + c.apiKey,
	}
	if req.Site != "" {
		headers["X-Site"] = req.Site
	}
	if req.WithLinksSummary {
		headers["X-With-Links-Summary"] = "true"
	}

	resp, err := c.httpClient.PostJSON(ctx, c.baseURL, payload, headers)
	if err != nil {
		return nil, &RequestError{Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &RequestError{Err: err}
	}

	if resp.StatusCode >= http.StatusBadRequest {
		c.logger.Warn("Jina search returned error status", map[string]interface{}{
			"status_code": resp.StatusCode,
		})
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	var parsed searchResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("failed to decode jina response: %w", err)
	}

	return parsed.Data, nil
}
