// Package errors provides standardized error handling for agent tool workers.
package errors

import (
	"fmt"
	"strings"
	"time"
)

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	// Web search tool errors.
	ErrCodeSearchNotConfigured ErrorCode = "SEARCH_NOT_CONFIGURED"
	ErrCodeSearchAuthFailed    ErrorCode = "SEARCH_AUTH_FAILED"
	ErrCodeSearchQuotaExceeded ErrorCode = "SEARCH_QUOTA_EXCEEDED"
	ErrCodeSearchAccessDenied  ErrorCode = "SEARCH_ACCESS_DENIED"
	ErrCodeSearchHTTPError     ErrorCode = "SEARCH_HTTP_ERROR"
	ErrCodeSearchNetworkError  ErrorCode = "SEARCH_NETWORK_ERROR"
	ErrCodeSearchUnexpected    ErrorCode = "SEARCH_UNEXPECTED"

	// Document search tool errors.
	ErrCodeDocumentSearchFailed ErrorCode = "DOCUMENT_SEARCH_FAILED"
	ErrCodeDocumentIndexMissing ErrorCode = "DOCUMENT_INDEX_MISSING"
	ErrCodeDocumentSearchTimout ErrorCode = "DOCUMENT_SEARCH_TIMEOUT"

	// Shared worker errors.
	ErrCodeInvalidInput     ErrorCode = "INVALID_INPUT"
	ErrCodeSettingsUnavail  ErrorCode = "SETTINGS_UNAVAILABLE"
	ErrCodeMissionCfgFailed ErrorCode = "MISSION_CONFIG_FAILED"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// NewSearchNotConfiguredError is returned when no API key could be resolved.
// Never retryable: the user has to configure a key first.
func NewSearchNotConfiguredError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeSearchNotConfigured,
		Message:   "Web search provider is not configured",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewSearchAuthFailedError maps an HTTP 401 from the search provider.
func NewSearchAuthFailedError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeSearchAuthFailed,
		Message:   "Search provider rejected the API key",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewSearchQuotaExceededError maps an HTTP 429 from the search provider.
func NewSearchQuotaExceededError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeSearchQuotaExceeded,
		Message:   "Search provider quota exceeded",
		Details:   details,
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewSearchAccessDeniedError maps an HTTP 403 from the search provider.
func NewSearchAccessDeniedError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeSearchAccessDenied,
		Message:   "Search provider denied access for this key",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewSearchHTTPError maps any other non-2xx status from the search provider.
func NewSearchHTTPError(statusCode int) *StandardError {
	return &StandardError{
		Code:      ErrCodeSearchHTTPError,
		Message:   "Search provider returned an HTTP error",
		Details:   fmt.Sprintf("status: %d", statusCode),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewSearchNetworkError covers transport failures and timeouts.
func NewSearchNetworkError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeSearchNetworkError,
		Message:   "Search provider unreachable",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewSearchUnexpectedError covers failures during request build or parse.
func NewSearchUnexpectedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeSearchUnexpected,
		Message:   "Unexpected web search failure",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewDocumentSearchFailedError creates a retryable document index error.
func NewDocumentSearchFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeDocumentSearchFailed,
		Message:   "Document index query failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewDocumentIndexMissingError creates a non-retryable index error.
func NewDocumentIndexMissingError(indexName string) *StandardError {
	return &StandardError{
		Code:      ErrCodeDocumentIndexMissing,
		Message:   "Document index not found",
		Details:   fmt.Sprintf("indexName: %s", indexName),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewInvalidInputError creates a non-retryable input validation error.
func NewInvalidInputError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidInput,
		Message:   "Tool input validation failed",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// GetRetryCount returns the recommended job retry count per error code.
func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeSearchQuotaExceeded,
		ErrCodeSearchNetworkError,
		ErrCodeSearchHTTPError,
		ErrCodeDocumentSearchFailed:
		return 3

	case ErrCodeDocumentSearchTimout:
		return 2

	default:
		return 0
	}
}

// IsRetryableErrorCode checks if an error code is retryable.
func IsRetryableErrorCode(code ErrorCode) bool {
	return GetRetryCount(code) > 0
}

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.HasPrefix(codeStr, "SEARCH"):
		return "WEB_SEARCH"
	case strings.HasPrefix(codeStr, "DOCUMENT"):
		return "DOCUMENT_SEARCH"
	case strings.Contains(codeStr, "INVALID") || strings.Contains(codeStr, "VALIDATION"):
		return "VALIDATION"
	case strings.Contains(codeStr, "SETTINGS") || strings.Contains(codeStr, "CONFIG"):
		return "CONFIGURATION"
	default:
		return "OTHER"
	}
}
