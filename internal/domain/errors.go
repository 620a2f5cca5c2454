package domain

import (
	"context"
	"errors"
	"fmt"
)

// Sentinel errors for domain operations
var (
	// ErrItemNotFound indicates the requested title does not exist
	ErrItemNotFound = errors.New("title not found")

	// ErrInvalidCursor indicates a pagination cursor that the source cannot decode
	ErrInvalidCursor = errors.New("invalid pagination cursor")

	// ErrNotConfigured indicates the catalog provider settings are incomplete
	ErrNotConfigured = errors.New("catalog provider is not configured")

	// ErrAuthFailed indicates the catalog API rejected the configured token
	ErrAuthFailed = errors.New("catalog API token is invalid")
)

// NetworkError is a transport-level failure: no response was received.
// Timeouts are reported as NetworkError too.
type NetworkError struct {
	Op  string // e.g. "GET /discover/movie"
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s: network error: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// APIError is a non-success response from the catalog API
type APIError struct {
	Op      string
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: status %d: %s", e.Op, e.Status, e.Message)
	}
	return fmt.Sprintf("%s: status %d", e.Op, e.Status)
}

// UserMessage converts an error into the text shown to the user
func UserMessage(err error) string {
	if err == nil {
		return ""
	}

	var netErr *NetworkError
	var apiErr *APIError
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return "The catalog took too long to respond. Try again later."
	case errors.Is(err, ErrAuthFailed):
		return "The catalog rejected the API token. Check your configuration."
	case errors.Is(err, ErrItemNotFound):
		return "The title could not be found."
	case errors.Is(err, ErrInvalidCursor):
		return "Could not continue the list. Reload to start over."
	case errors.As(err, &netErr):
		return "Could not reach the catalog. Check your connection and try again."
	case errors.As(err, &apiErr):
		if apiErr.Message != "" {
			return fmt.Sprintf("The catalog returned an error (%d): %s", apiErr.Status, apiErr.Message)
		}
		return fmt.Sprintf("The catalog returned an error (%d).", apiErr.Status)
	default:
		return "Failed to load data. Please try again later."
	}
}
