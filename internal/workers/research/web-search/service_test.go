// internal/workers/research/web-search/service_test.go
package websearch

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"research-workers/internal/common/feedback"
	"research-workers/internal/common/logger"
	"research-workers/internal/common/missions"
	"research-workers/internal/common/settings"
)

type fakeSettings map[string]string

func (f fakeSettings) Get(ctx context.Context, userID, category, key string) (string, error) {
	if val, ok := f[userID+"/"+category+"/"+key]; ok {
		return val, nil
	}
	return "", settings.ErrNotFound
}

type testEnv struct {
	service *Service
	sink    *feedback.ChannelSink
	store   *missions.StaticStore
}

func newTestService(t *testing.T, baseURL string) *testEnv {
	t.Helper()
	t.Setenv("JINA_API_KEY", "")

	sink := feedback.NewChannelSink(10)
	store := missions.NewStaticStore()

	cfg := &Config{
		BaseURL:           baseURL,
		Timeout:           5 * time.Second,
		DefaultMaxResults: 5,
	}

	svc := NewService(
		cfg,
		fakeSettings{"u-1/search/api_key": "user-key"},
		store,
		feedback.NewEmitter(sink, logger.NewTestLogger(t)),
		logger.NewTestLogger(t),
	)

	return &testEnv{service: svc, sink: sink, store: store}
}

func drainEvents(sink *feedback.ChannelSink) []feedback.Message {
	var msgs []feedback.Message
	for {
		select {
		case msg := <-sink.Ch:
			msgs = append(msgs, msg)
		default:
			return msgs
		}
	}
}

func TestExecuteNotConfigured(t *testing.T) {
	var hits int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&hits, 1)
	}))
	defer server.Close()

	env := newTestService(t, server.URL)

	// Unknown user, no env key: the chain resolves nothing.
	output := env.service.Execute(context.Background(), &Input{Query: "golang", UserID: "nobody"})

	assert.Equal(t, msgNotConfigured, output.Error)
	assert.Empty(t, output.Results)
	assert.Empty(t, output.Provider)
	assert.Nil(t, output.EnhancedFeatures)
	assert.EqualValues(t, 0, atomic.LoadInt64(&hits), "must not touch the network without a key")

	events := drainEvents(env.sink)
	require.Len(t, events, 1)
	assert.Equal(t, "web_search_config_error", events[0].Payload.EventType)
	assert.Equal(t, msgNotConfigured, events[0].Payload.Error)
}

func TestExecuteEnvKeyFallback(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer env-key", r.Header.Get("Authorization"))
		w.Write([]byte(`{"data":[]}`))
	}))
	defer server.Close()

	env := newTestService(t, server.URL)
	t.Setenv("JINA_API_KEY", "env-key")

	output := env.service.Execute(context.Background(), &Input{Query: "golang", UserID: "nobody"})
	assert.Empty(t, output.Error)
	assert.Equal(t, "jina", output.Provider)
}

func TestExecuteSuccessNormalization(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":[
			{"title":"Go Blog","url":"https://go.dev/blog","content":"Concurrency patterns","grounding_score":0.9},
			{"title":"","url":"","content":"","description":"desc only"},
			{"title":"","url":"","content":"","description":""}
		]}`))
	}))
	defer server.Close()

	env := newTestService(t, server.URL)

	output := env.service.Execute(context.Background(), &Input{Query: "golang", UserID: "u-1"})
	require.Empty(t, output.Error)
	require.Len(t, output.Results, 3)

	assert.Equal(t, "Go Blog", output.Results[0].Title)
	assert.Equal(t, "Concurrency patterns", output.Results[0].Snippet)
	require.NotNil(t, output.Results[0].GroundingScore)

	assert.Equal(t, "No Title", output.Results[1].Title)
	assert.Equal(t, "desc only", output.Results[1].Snippet)
	assert.Equal(t, "#", output.Results[1].URL)

	assert.Equal(t, "No Snippet", output.Results[2].Snippet)

	assert.Equal(t, "jina", output.Provider)
	require.NotNil(t, output.EnhancedFeatures)
	assert.True(t, output.EnhancedFeatures.GroundingSupport)
	assert.True(t, output.EnhancedFeatures.RichSnippets)
	assert.Equal(t, "v1", output.EnhancedFeatures.APIVersion)

	events := drainEvents(env.sink)
	require.Len(t, events, 1)
	assert.Equal(t, "web_search_complete", events[0].Payload.EventType)
	require.NotNil(t, events[0].Payload.NumResults)
	assert.Equal(t, 3, *events[0].Payload.NumResults)
	assert.Equal(t, true, events[0].Payload.EnhancedFeatures)
}

func TestExecuteStatusMapping(t *testing.T) {
	cases := []struct {
		status int
		want   string
	}{
		{401, msgAuthFailed},
		{429, msgQuotaExceeded},
		{403, msgAccessDenied},
		{500, fmt.Sprintf(msgHTTPError, 500)},
		{502, fmt.Sprintf(msgHTTPError, 502)},
	}

	for _, tc := range cases {
		t.Run(fmt.Sprintf("status_%d", tc.status), func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
			}))
			defer server.Close()

			env := newTestService(t, server.URL)

			output := env.service.Execute(context.Background(), &Input{Query: "golang", UserID: "u-1"})
			assert.Equal(t, tc.want, output.Error)
			assert.Empty(t, output.Results)

			events := drainEvents(env.sink)
			require.Len(t, events, 1)
			assert.Equal(t, "web_search_error", events[0].Payload.EventType)
			assert.Equal(t, tc.want, events[0].Payload.Error)
		})
	}
}

func TestExecuteNetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	env := newTestService(t, server.URL)

	output := env.service.Execute(context.Background(), &Input{Query: "golang", UserID: "u-1"})
	assert.Equal(t, msgNetworkError, output.Error)
}

func TestExecuteMaxResultsClamping(t *testing.T) {
	cases := []struct {
		name    string
		input   *int
		wantNum float64
	}{
		{"below minimum", intPtr(0), 1},
		{"negative", intPtr(-3), 1},
		{"above maximum", intPtr(50), 20},
		{"in range", intPtr(7), 7},
		{"default from mission", nil, 5},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var gotBody map[string]interface{}
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_ = json.NewDecoder(r.Body).Decode(&gotBody)
				w.Write([]byte(`{"data":[]}`))
			}))
			defer server.Close()

			env := newTestService(t, server.URL)

			output := env.service.Execute(context.Background(), &Input{
				Query:      "golang",
				UserID:     "u-1",
				MaxResults: tc.input,
			})
			require.Empty(t, output.Error)
			assert.Equal(t, tc.wantNum, gotBody["num"])
		})
	}
}

type spyMissionStore struct {
	*missions.StaticStore
	maxResultsCalls int
}

func (s *spyMissionStore) SearchMaxResults(ctx context.Context, missionID string) int {
	s.maxResultsCalls++
	return s.StaticStore.SearchMaxResults(ctx, missionID)
}

func TestExecuteExplicitMaxResultsSkipsMissionLookup(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":[]}`))
	}))
	defer server.Close()

	t.Setenv("JINA_API_KEY", "")
	spy := &spyMissionStore{StaticStore: missions.NewStaticStore()}
	cfg := &Config{BaseURL: server.URL, Timeout: 5 * time.Second, DefaultMaxResults: 5}
	svc := NewService(
		cfg,
		fakeSettings{"u-1/search/api_key": "user-key"},
		spy,
		feedback.NewEmitter(nil, logger.NewTestLogger(t)),
		logger.NewTestLogger(t),
	)

	output := svc.Execute(context.Background(), &Input{
		Query:      "golang",
		UserID:     "u-1",
		MaxResults: intPtr(7),
	})
	require.Empty(t, output.Error)
	assert.Zero(t, spy.maxResultsCalls)

	output = svc.Execute(context.Background(), &Input{Query: "golang", UserID: "u-1"})
	require.Empty(t, output.Error)
	assert.Equal(t, 1, spy.maxResultsCalls)
}

func TestExecuteUsesMissionSettings(t *testing.T) {
	var gotBody map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		w.Write([]byte(`{"data":[]}`))
	}))
	defer server.Close()

	env := newTestService(t, server.URL)
	env.store.Settings = missions.Settings{
		MaxResults:        8,
		SourcePreferences: "academic",
		DateRange:         "last_year",
	}

	output := env.service.Execute(context.Background(), &Input{
		Query:     "climate change",
		UserID:    "u-1",
		MissionID: "m-1",
	})
	require.Empty(t, output.Error)

	assert.Equal(t, "climate change academic paper past year", gotBody["q"])
	assert.Equal(t, float64(8), gotBody["num"])
}

func TestExecuteSnippetToggle(t *testing.T) {
	var gotLinks string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotLinks = r.Header.Get("X-With-Links-Summary")
		w.Write([]byte(`{"data":[]}`))
	}))
	defer server.Close()

	env := newTestService(t, server.URL)

	output := env.service.Execute(context.Background(), &Input{
		Query:        "golang",
		UserID:       "u-1",
		WithSnippets: boolPtr(false),
	})
	require.Empty(t, output.Error)
	assert.Empty(t, gotLinks)
	assert.False(t, output.EnhancedFeatures.RichSnippets)
}

func TestExecuteSiteHeader(t *testing.T) {
	var gotSite string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotSite = r.Header.Get("X-Site")
		w.Write([]byte(`{"data":[]}`))
	}))
	defer server.Close()

	env := newTestService(t, server.URL)

	output := env.service.Execute(context.Background(), &Input{
		Query:          "golang",
		UserID:         "u-1",
		IncludeDomains: []string{"go.dev"},
	})
	require.Empty(t, output.Error)
	assert.Equal(t, "go.dev", gotSite)

	// Multiple domains cannot share the single site header.
	gotSite = ""
	output = env.service.Execute(context.Background(), &Input{
		Query:          "golang",
		UserID:         "u-1",
		IncludeDomains: []string{"go.dev", "golang.org"},
	})
	require.Empty(t, output.Error)
	assert.Empty(t, gotSite)
}

func intPtr(n int) *int    { return &n }
func boolPtr(b bool) *bool { return &b }
