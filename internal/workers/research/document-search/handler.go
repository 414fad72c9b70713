// internal/workers/research/document-search/handler.go
package documentsearch

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/elastic/go-elasticsearch/v8"

	"research-workers/internal/common/logger"
	"research-workers/internal/common/observability"
)

const (
	TaskType = "document-search"
)

var (
	ErrConnectionFailed = errors.New("DOCUMENT_STORE_CONNECTION_FAILED")
	ErrQueryFailed      = errors.New("DOCUMENT_SEARCH_FAILED")
	ErrSearchTimeout    = errors.New("DOCUMENT_SEARCH_TIMEOUT")
	ErrIndexNotFound    = errors.New("DOCUMENT_INDEX_NOT_FOUND")
)

type Handler struct {
	config *Config
	client *elasticsearch.Client
	obs    *observability.Observability
	logger logger.Logger
}

// NewHandler builds the job handler. obs may be nil, in which case
// tracing and the tool counters become no-ops.
func NewHandler(config *Config, client *elasticsearch.Client, obs *observability.Observability, log logger.Logger) *Handler {
	return &Handler{
		config: config,
		client: client,
		obs:    obs,
		logger: log.With(map[string]interface{}{"taskType": TaskType}),
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) error {
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		h.failJob(client, job, "PARSE_ERROR", fmt.Sprintf("parse input: %v", err))
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	ctx, endSpan := h.obs.StartSpan(ctx, TaskType)
	start := time.Now()

	output, err := h.execute(ctx, &input)

	endSpan()
	h.obs.RecordToolDuration(ctx, TaskType, time.Since(start))
	if err != nil {
		h.obs.RecordToolExecuted(ctx, TaskType, "error")
		h.failJob(client, job, h.mapErrorToCode(err), err.Error())
		return err
	}
	h.obs.RecordToolExecuted(ctx, TaskType, "success")

	h.completeJob(client, job, output)
	return nil
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if input == nil || input.Query == "" {
		return nil, fmt.Errorf("%w: query is required", ErrQueryFailed)
	}

	size := h.config.MaxResults
	if input.MaxResults != nil && *input.MaxResults > 0 {
		size = *input.MaxResults
	}

	body, err := json.Marshal(h.buildQuery(input, size))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrQueryFailed, err)
	}

	res, err := h.client.Search(
		h.client.Search.WithContext(ctx),
		h.client.Search.WithIndex(h.config.IndexName),
		h.client.Search.WithBody(bytes.NewReader(body)),
	)
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return nil, ErrSearchTimeout
		}
		return nil, fmt.Errorf("%w: %v", ErrConnectionFailed, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		if res.StatusCode == 404 {
			return nil, ErrIndexNotFound
		}
		return nil, fmt.Errorf("%w: status %s", ErrQueryFailed, res.Status())
	}

	return h.parseResponse(res.Body)
}

// buildQuery matches the query text against title and content, scoped
// to the mission when one is given, with content highlighting for the
// snippet.
func (h *Handler) buildQuery(input *Input, size int) map[string]interface{} {
	must := []map[string]interface{}{
		{
			"multi_match": map[string]interface{}{
				"query":  input.Query,
				"fields": []string{"title^2", "content"},
			},
		},
	}

	query := map[string]interface{}{
		"bool": map[string]interface{}{
			"must": must,
		},
	}

	if input.MissionID != "" {
		query["bool"].(map[string]interface{})["filter"] = []map[string]interface{}{
			{"term": map[string]interface{}{"mission_id": input.MissionID}},
		}
	}

	return map[string]interface{}{
		"query": query,
		"size":  size,
		"highlight": map[string]interface{}{
			"fields": map[string]interface{}{
				"content": map[string]interface{}{},
			},
		},
	}
}

func (h *Handler) parseResponse(body io.Reader) (*Output, error) {
	var parsed struct {
		Took int `json:"took"`
		Hits struct {
			Total struct {
				Value int `json:"value"`
			} `json:"total"`
			Hits []struct {
				ID     string  `json:"_id"`
				Score  float64 `json:"_score"`
				Source struct {
					Title   string `json:"title"`
					Content string `json:"content"`
				} `json:"_source"`
				Highlight struct {
					Content []string `json:"content"`
				} `json:"highlight"`
			} `json:"hits"`
		} `json:"hits"`
	}

	if err := json.NewDecoder(body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", ErrQueryFailed, err)
	}

	results := make([]DocumentResult, 0, len(parsed.Hits.Hits))
	for _, hit := range parsed.Hits.Hits {
		snippet := hit.Source.Content
		if len(hit.Highlight.Content) > 0 {
			snippet = strings.Join(hit.Highlight.Content, " ... ")
		}

		results = append(results, DocumentResult{
			DocumentID: hit.ID,
			Title:      hit.Source.Title,
			Snippet:    snippet,
			Score:      hit.Score,
			Highlights: hit.Highlight.Content,
		})
	}

	return &Output{
		Results:   results,
		TotalHits: parsed.Hits.Total.Value,
		Took:      parsed.Took,
	}, nil
}

func (h *Handler) completeJob(client worker.JobClient, job entities.Job, output *Output) {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		h.logger.Error("failed to create complete job command", map[string]interface{}{
			"error": err,
		})
		return
	}
	_, err = cmd.Send(context.Background())
	if err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{
			"error": err,
		})
	}
}

func (h *Handler) failJob(client worker.JobClient, job entities.Job, errorCode, errorMessage string) {
	h.logger.Error("job failed", map[string]interface{}{
		"jobKey":       job.Key,
		"errorCode":    errorCode,
		"errorMessage": errorMessage,
	})

	_, err := client.NewThrowErrorCommand().
		JobKey(job.Key).
		ErrorCode(errorCode).
		ErrorMessage(errorMessage).
		Send(context.Background())
	if err != nil {
		h.logger.Error("failed to throw error", map[string]interface{}{
			"error": err,
		})
	}
}

func (h *Handler) mapErrorToCode(err error) string {
	switch {
	case errors.Is(err, ErrIndexNotFound):
		return "INDEX_NOT_FOUND"
	case errors.Is(err, ErrSearchTimeout):
		return "SEARCH_TIMEOUT"
	case errors.Is(err, ErrConnectionFailed):
		return "CONNECTION_FAILED"
	case errors.Is(err, ErrQueryFailed):
		return "SEARCH_QUERY_FAILED"
	}
	return "UNKNOWN_ERROR"
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
