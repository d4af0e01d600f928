// Package clients provides an HTTP client for a running blog server.
package clients

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrMaxRetriesExceeded is returned after all attempts failed. The last
// failure is wrapped.
var ErrMaxRetriesExceeded = errors.New("max retries exceeded")

// APIError is a non-2xx answer from the blog API, decoded from its error
// envelope when one was sent.
type APIError struct {
	Status  int
	Code    string
	Message string
	TraceID string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("blog api: HTTP %d", e.Status)
	}

	return fmt.Sprintf("blog api: HTTP %d %s: %s", e.Status, e.Code, e.Message)
}

// IsNotFound reports whether err is a 404 from the blog API.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound
}
