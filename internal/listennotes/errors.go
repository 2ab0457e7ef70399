package listennotes

import (
	"errors"
	"fmt"
)

// ErrMalformedResponse is returned when a 200 response lacks the fields the caller needs.
var ErrMalformedResponse = errors.New("malformed response")

// APIError represents a non-200 answer from Listen Notes.
type APIError struct {
	StatusCode int
	Endpoint   string
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("listennotes %s returned status %d: %s", e.Endpoint, e.StatusCode, e.Message)
}
