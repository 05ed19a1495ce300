package trello

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// APIError is returned when Trello answers with a non-2xx status.
type APIError struct {
	StatusCode int
	Body       string
}

// Error implements the error interface
func (e *APIError) Error() string {
	if strings.TrimSpace(e.Body) == "" {
		return fmt.Sprintf("Trello API error %d", e.StatusCode)
	}
	return fmt.Sprintf("Trello API error %d: %s", e.StatusCode, e.Body)
}

// TransportError is returned when a request could not be completed.
type TransportError struct {
	Method string
	Path   string
	Err    error
}

// Error implements the error interface. The request URL carries the
// credentials, so the *url.Error wrapper is not printed.
func (e *TransportError) Error() string {
	cause := e.Err
	var urlErr *url.Error
	if errors.As(cause, &urlErr) {
		cause = urlErr.Err
	}
	return fmt.Sprintf("request to Trello failed (%s %s): %v", e.Method, e.Path, cause)
}

// Unwrap returns the underlying error
func (e *TransportError) Unwrap() error {
	return e.Err
}
