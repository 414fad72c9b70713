// internal/workers/research/web-search/service.go
package websearch

import (
	"context"
	"fmt"
	"time"

	"research-workers/internal/common/errors"
	"research-workers/internal/common/feedback"
	"research-workers/internal/common/jina"
	"research-workers/internal/common/logger"
	"research-workers/internal/common/metrics"
	"research-workers/internal/common/missions"
	"research-workers/internal/common/settings"
)

const (
	providerName = "jina"
	apiVersion   = "v1"

	minResults = 1
	maxResults = 20

	settingsCategory = "search"
	settingsKey      = "api_key"
	envKeyVar        = "JINA_API_KEY"
)

// User-facing error messages. These are the whole failure contract:
// callers see exactly one of these strings, never a stack trace.
const (
	msgNotConfigured = "Web search is not available. Please configure your Jina.ai API key in Settings > Search to enable web search functionality."
	msgAuthFailed    = "Web search failed due to invalid Jina.ai API key. Please check your API key in Settings > Search."
	msgQuotaExceeded = "Web search quota exceeded for Jina.ai. Please check your account limits or try again later."
	msgAccessDenied  = "Web search access denied. Please verify your Jina.ai API key permissions."
	msgHTTPError     = "Web search failed with HTTP error %d. Please try again."
	msgNetworkError  = "Web search temporarily unavailable due to network issues. Please try again in a moment."
	msgUnexpected    = "Web search temporarily unavailable. Please try again or check your Jina.ai API key configuration in Settings."
)

// Service runs web searches for agent missions. Execute never returns a
// Go error: every failure becomes an Output with only the Error field
// set, carrying one of the user-facing messages above.
type Service struct {
	config   *Config
	settings settings.Store
	missions missions.Store
	feedback *feedback.Emitter
	logger   logger.Logger
}

func NewService(
	config *Config,
	settingsStore settings.Store,
	missionStore missions.Store,
	emitter *feedback.Emitter,
	log logger.Logger,
) *Service {
	return &Service{
		config:   config,
		settings: settingsStore,
		missions: missionStore,
		feedback: emitter,
		logger:   log.With(map[string]interface{}{"tool": TaskType}),
	}
}

func (s *Service) Execute(ctx context.Context, input *Input) *Output {
	start := time.Now()
	metrics.ToolRequestsTotal.WithLabelValues(TaskType).Inc()
	defer func() {
		metrics.ToolDurationSeconds.WithLabelValues(TaskType).Observe(time.Since(start).Seconds())
	}()

	apiKey, ok := s.resolveAPIKey(ctx, input.UserID)
	if !ok {
		s.logger.Warn("No search API key available", map[string]interface{}{
			"user_id": input.UserID,
		})
		s.feedback.Emit(ctx, feedback.ConfigError(providerName, input.Query, msgNotConfigured))
		return s.fail(errors.NewSearchNotConfiguredError("no API key in user settings or environment"), msgNotConfigured)
	}

	query := s.enhanceQuery(ctx, input)
	num := s.resolveMaxResults(ctx, input)
	withSnippets := input.WithSnippets == nil || *input.WithSnippets

	req := jina.SearchRequest{
		Query:            query,
		Num:              num,
		Location:         input.Location,
		Language:         input.Language,
		Country:          input.Country,
		WithLinksSummary: withSnippets,
	}
	if len(input.IncludeDomains) == 1 {
		req.Site = input.IncludeDomains[0]
	}

	client := jina.NewClient(apiKey, s.config.BaseURL, s.config.Timeout, s.logger)

	raw, err := client.Search(ctx, req)
	if err != nil {
		stdErr, msg := mapSearchError(err)
		s.logger.Error("Web search failed", map[string]interface{}{
			"query":      query,
			"error_code": string(stdErr.Code),
			"retryable":  stdErr.Retryable,
			"error":      err.Error(),
		})
		s.feedback.Emit(ctx, feedback.SearchError(providerName, input.Query, msg))
		return s.fail(stdErr, msg)
	}

	results := normalizeResults(raw)
	features := &EnhancedFeatures{
		GroundingSupport: true,
		RichSnippets:     withSnippets,
		APIVersion:       apiVersion,
	}

	s.logger.Info("Web search completed", map[string]interface{}{
		"query":       query,
		"num_results": len(results),
	})
	metrics.SearchResultsReturned.WithLabelValues(TaskType, providerName).Observe(float64(len(results)))
	// Feedback reports the query as the caller phrased it, not the
	// enhanced form sent to the provider, and the snippets flag that
	// was requested.
	s.feedback.Emit(ctx, feedback.Complete(providerName, input.Query, len(results), withSnippets))

	return &Output{
		Results:          results,
		Provider:         providerName,
		EnhancedFeatures: features,
	}
}

func (s *Service) fail(stdErr *errors.StandardError, msg string) *Output {
	metrics.ToolFailuresTotal.WithLabelValues(TaskType, string(stdErr.Code)).Inc()
	return &Output{Error: msg}
}

// resolveAPIKey walks the credential chain: the user's stored settings
// first, then the process environment.
func (s *Service) resolveAPIKey(ctx context.Context, userID string) (string, bool) {
	return settings.ResolveFirst(ctx,
		&settings.UserSettingsResolver{
			Store:    s.settings,
			UserID:   userID,
			Category: settingsCategory,
			Key:      settingsKey,
			Logger:   s.logger,
		},
		&settings.EnvResolver{Var: envKeyVar},
	)
}

// enhanceQuery applies mission preferences to the query. Enhancement is
// strictly best-effort: any panic inside falls back to the original
// query text.
func (s *Service) enhanceQuery(ctx context.Context, input *Input) (query string) {
	query = input.Query
	defer func() {
		if r := recover(); r != nil {
			s.logger.Warn("Query enhancement failed, using original query", map[string]interface{}{
				"panic": r,
			})
			query = input.Query
		}
	}()

	prefs := s.missions.SourcePreferences(ctx, input.MissionID)
	dateRange := s.missions.SearchDateRange(ctx, input.MissionID)
	query = EnhanceQuery(input.Query, prefs, dateRange)
	return query
}

// resolveMaxResults picks the explicit request value, consulting the
// mission setting only when the caller omitted one, and clamps the
// outcome to the provider's accepted range.
func (s *Service) resolveMaxResults(ctx context.Context, input *Input) int {
	num := s.config.DefaultMaxResults
	if input.MaxResults != nil {
		num = *input.MaxResults
	} else if n := s.missions.SearchMaxResults(ctx, input.MissionID); n > 0 {
		num = n
	}

	if num < minResults {
		num = minResults
	}
	if num > maxResults {
		num = maxResults
	}
	return num
}

func mapSearchError(err error) (*errors.StandardError, string) {
	switch e := err.(type) {
	case *jina.StatusError:
		switch e.StatusCode {
		case 401:
			return errors.NewSearchAuthFailedError(err.Error()), msgAuthFailed
		case 429:
			return errors.NewSearchQuotaExceededError(err.Error()), msgQuotaExceeded
		case 403:
			return errors.NewSearchAccessDeniedError(err.Error()), msgAccessDenied
		default:
			return errors.NewSearchHTTPError(e.StatusCode), httpErrorMessage(e.StatusCode)
		}
	case *jina.RequestError:
		return errors.NewSearchNetworkError(err), msgNetworkError
	default:
		return errors.NewSearchUnexpectedError(err), msgUnexpected
	}
}

func httpErrorMessage(statusCode int) string {
	return fmt.Sprintf(msgHTTPError, statusCode)
}

// normalizeResults maps raw provider results to the output shape with
// stable fallbacks for missing fields.
func normalizeResults(raw []jina.Result) []SearchResult {
	results := make([]SearchResult, 0, len(raw))
	for _, r := range raw {
		out := SearchResult{
			Title:   r.Title,
			URL:     r.URL,
			Snippet: r.Content,
		}
		if out.Title == "" {
			out.Title = "No Title"
		}
		if out.Snippet == "" {
			out.Snippet = r.Description
		}
		if out.Snippet == "" {
			out.Snippet = "No Snippet"
		}
		if out.URL == "" {
			out.URL = "#"
		}
		if r.GroundingScore != nil {
			out.GroundingScore = r.GroundingScore
		}
		if len(r.SnippetData) > 0 {
			out.SnippetData = r.SnippetData
		}
		if len(r.References) > 0 {
			out.References = r.References
		}
		results = append(results, out)
	}
	return results
}
