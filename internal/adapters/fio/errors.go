package fio

import (
	"fmt"
	"time"
)

// APIError is a non-retryable FIO response: a 4xx or an unexpected status
// after retries were exhausted.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("FIO API error (status %d): %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("FIO API error (status %d)", e.StatusCode)
}

// NewAPIError creates an APIError for an unexpected status code
func NewAPIError(statusCode int, message string) *APIError {
	return &APIError{StatusCode: statusCode, Message: message}
}

// retryableError represents an error that should trigger a retry
type retryableError struct {
	message    string
	retryAfter time.Duration
}

func (e *retryableError) Error() string {
	return e.message
}
