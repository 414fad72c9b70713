// internal/workers/research/web-search/handler.go
package websearch

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"research-workers/internal/common/errors"
	"research-workers/internal/common/logger"
	"research-workers/internal/common/observability"
)

const (
	TaskType = "web-search"
)

type Handler struct {
	config  *Config
	service *Service
	obs     *observability.Observability
	logger  logger.Logger
}

// NewHandler builds the job handler. obs may be nil, in which case
// tracing and the tool counters become no-ops.
func NewHandler(config *Config, service *Service, obs *observability.Observability, log logger.Logger) *Handler {
	return &Handler{
		config:  config,
		service: service,
		obs:     obs,
		logger: log.With(map[string]interface{}{
			"taskType": TaskType,
		}),
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) error {
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	var rawVars map[string]interface{}
	if err := json.Unmarshal([]byte(job.Variables), &rawVars); err != nil {
		h.failJob(client, job, fmt.Errorf("parse variables: %w", err))
		return err
	}

	if stdErr := ValidateInput(rawVars); stdErr != nil {
		h.failJob(client, job, stdErr)
		return stdErr
	}

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		h.failJob(client, job, fmt.Errorf("parse input: %w", err))
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	ctx, endSpan := h.obs.StartSpan(ctx, TaskType)
	start := time.Now()

	// Execute never fails the job: search errors come back as the
	// error output shape and complete the job normally.
	output := h.service.Execute(ctx, &input)

	endSpan()
	h.obs.RecordToolDuration(ctx, TaskType, time.Since(start))
	status := "success"
	if output.Error != "" {
		status = "error"
	}
	h.obs.RecordToolExecuted(ctx, TaskType, status)

	h.completeJob(client, job, output)
	return nil
}

func (h *Handler) completeJob(client worker.JobClient, job entities.Job, output *Output) {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)

	if err != nil {
		h.logger.Error("Failed to complete job", map[string]interface{}{
			"jobKey": job.Key,
			"error":  err.Error(),
		})
		return
	}

	if _, sendErr := cmd.Send(context.Background()); sendErr != nil {
		h.logger.Error("Failed to send complete job", map[string]interface{}{
			"jobKey": job.Key,
			"error":  sendErr.Error(),
		})
	}
}

func (h *Handler) failJob(client worker.JobClient, job entities.Job, err error) {
	retries := int32(0)
	errorCode := "UNKNOWN_ERROR"
	if stdErr, ok := err.(*errors.StandardError); ok {
		errorCode = string(stdErr.Code)
		retries = int32(errors.GetRetryCount(stdErr.Code))
	}

	h.logger.Error("job failed", map[string]interface{}{
		"jobKey":    job.Key,
		"error":     err.Error(),
		"errorCode": errorCode,
	})

	_, _ = client.NewFailJobCommand().
		JobKey(job.Key).
		Retries(retries).
		ErrorMessage(err.Error()).
		Send(context.Background())
}

// Execute runs the tool directly, bypassing the job plumbing. Used by
// library callers and tests.
func (h *Handler) Execute(ctx context.Context, input *Input) *Output {
	return h.service.Execute(ctx, input)
}
