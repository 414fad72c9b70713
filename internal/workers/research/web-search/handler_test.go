// internal/workers/research/web-search/handler_test.go
package websearch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"research-workers/internal/common/errors"
	"research-workers/internal/common/feedback"
	"research-workers/internal/common/logger"
	"research-workers/internal/common/missions"
)

func newTestHandler(t *testing.T, baseURL string) *Handler {
	t.Helper()
	t.Setenv("JINA_API_KEY", "")

	cfg := &Config{
		BaseURL:           baseURL,
		Timeout:           3 * time.Second,
		DefaultMaxResults: 5,
	}

	svc := NewService(
		cfg,
		fakeSettings{"u-1/search/api_key": "test-key"},
		missions.NewStaticStore(),
		feedback.NewEmitter(nil, logger.NewTestLogger(t)),
		logger.NewTestLogger(t),
	)

	return NewHandler(cfg, svc, nil, logger.NewTestLogger(t))
}

func TestHandlerExecuteSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		w.Write([]byte(`{"data":[{"title":"Go Blog","url":"https://go.dev/blog","content":"Concurrency"}]}`))
	}))
	defer server.Close()

	handler := newTestHandler(t, server.URL)

	output := handler.Execute(context.Background(), &Input{Query: "golang", UserID: "u-1"})
	require.Empty(t, output.Error)
	require.Len(t, output.Results, 1)
	assert.Equal(t, "Go Blog", output.Results[0].Title)
	assert.Equal(t, "jina", output.Provider)
}

func TestHandlerExecuteErrorShape(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	handler := newTestHandler(t, server.URL)

	output := handler.Execute(context.Background(), &Input{Query: "golang", UserID: "u-1"})
	assert.Equal(t, msgAuthFailed, output.Error)
	assert.Empty(t, output.Results)
	assert.Empty(t, output.Provider)
	assert.Nil(t, output.EnhancedFeatures)
}

func TestValidateInputValid(t *testing.T) {
	err := ValidateInput(map[string]interface{}{
		"query":       "golang",
		"max_results": 10,
		"user_id":     "u-1",
	})
	assert.Nil(t, err)
}

func TestValidateInputMissingQuery(t *testing.T) {
	err := ValidateInput(map[string]interface{}{"user_id": "u-1"})
	require.NotNil(t, err)
	assert.Equal(t, errors.ErrCodeInvalidInput, err.Code)
	assert.False(t, err.Retryable)
}

func TestValidateInputWrongTypes(t *testing.T) {
	err := ValidateInput(map[string]interface{}{
		"query":       "golang",
		"max_results": "ten",
	})
	require.NotNil(t, err)
	assert.Equal(t, errors.ErrCodeInvalidInput, err.Code)

	err = ValidateInput(map[string]interface{}{
		"query":           "golang",
		"include_domains": "go.dev",
	})
	require.NotNil(t, err)
}
