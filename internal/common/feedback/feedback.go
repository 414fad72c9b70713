// Package feedback publishes agent feedback events. Delivery is best
// effort: a sink failure is logged and never affects the operation that
// produced the event.
package feedback

import (
	"context"
	"time"

	"github.com/google/uuid"

	"research-workers/internal/common/logger"
)

const messageType = "agent_feedback"

// Message is the envelope every feedback event travels in.
type Message struct {
	Type    string  `json:"type"`
	Payload Payload `json:"payload"`
}

// Payload carries one feedback event. The event name travels under the
// "type" key; event_id and timestamp are additive envelope metadata.
type Payload struct {
	EventID          string      `json:"event_id"`
	EventType        string      `json:"type"`
	Provider         string      `json:"provider"`
	Query            string      `json:"query"`
	Error            string      `json:"error,omitempty"`
	NumResults       *int        `json:"num_results,omitempty"`
	EnhancedFeatures interface{} `json:"enhanced_features,omitempty"`
	Timestamp        time.Time   `json:"timestamp"`
}

// Sink delivers feedback messages to whoever is listening.
type Sink interface {
	Publish(ctx context.Context, msg Message) error
}

// Emitter wraps a Sink with nil-safety and error swallowing.
type Emitter struct {
	sink   Sink
	logger logger.Logger
}

func NewEmitter(sink Sink, log logger.Logger) *Emitter {
	return &Emitter{sink: sink, logger: log}
}

// Emit publishes one event. Publish failures are logged and swallowed.
func (e *Emitter) Emit(ctx context.Context, payload Payload) {
	if e == nil || e.sink == nil {
		return
	}
	payload.EventID = uuid.NewString()
	payload.Timestamp = time.Now().UTC()

	msg := Message{Type: messageType, Payload: payload}
	if err := e.sink.Publish(ctx, msg); err != nil {
		e.logger.Warn("Failed to publish feedback event", map[string]interface{}{
			"event_type": payload.EventType,
			"error":      err.Error(),
		})
	}
}

// ConfigError reports a search that could not start for lack of
// provider configuration.
func ConfigError(provider, query, errMsg string) Payload {
	return Payload{
		EventType: "web_search_config_error",
		Provider:  provider,
		Query:     query,
		Error:     errMsg,
	}
}

// Complete reports a successful search. features is the with-snippets
// flag the caller requested.
func Complete(provider, query string, numResults int, features interface{}) Payload {
	return Payload{
		EventType:        "web_search_complete",
		Provider:         provider,
		Query:            query,
		NumResults:       &numResults,
		EnhancedFeatures: features,
	}
}

// SearchError reports a failed search.
func SearchError(provider, query, errMsg string) Payload {
	return Payload{
		EventType: "web_search_error",
		Provider:  provider,
		Query:     query,
		Error:     errMsg,
	}
}

// ChannelSink buffers messages on a channel. Used in tests and for
// in-process consumers.
type ChannelSink struct {
	Ch chan Message
}

func NewChannelSink(size int) *ChannelSink {
	return &ChannelSink{Ch: make(chan Message, size)}
}

func (s *ChannelSink) Publish(ctx context.Context, msg Message) error {
	select {
	case s.Ch <- msg:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
