// Package dto holds the request and response shapes of the blog API and the
// helpers that bind, validate and answer with them.
package dto

import "net/http"

// ErrorResponse is the envelope every failed API request answers with.
type ErrorResponse struct {
	Error   ErrorDetail `json:"error"`
	TraceID string      `json:"traceId,omitempty"`
}

// ErrorDetail describes one failure.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`

	// Details maps query parameter names to what was wrong with them.
	Details map[string]string `json:"details,omitempty"`
}

// Machine-readable error codes.
const (
	ErrorCodeNotFound         = "NOT_FOUND"
	ErrorCodeValidation       = "VALIDATION_ERROR"
	ErrorCodeBadRequest       = "BAD_REQUEST"
	ErrorCodeMethodNotAllowed = "METHOD_NOT_ALLOWED"
	ErrorCodeUnavailable      = "SERVICE_UNAVAILABLE"
	ErrorCodeTimeout          = "TIMEOUT"
	ErrorCodeInternal         = "INTERNAL_ERROR"
)

var codeStatus = map[string]int{
	ErrorCodeNotFound:         http.StatusNotFound,
	ErrorCodeValidation:       http.StatusBadRequest,
	ErrorCodeBadRequest:       http.StatusBadRequest,
	ErrorCodeMethodNotAllowed: http.StatusMethodNotAllowed,
	ErrorCodeUnavailable:      http.StatusServiceUnavailable,
	ErrorCodeTimeout:          http.StatusGatewayTimeout,
	ErrorCodeInternal:         http.StatusInternalServerError,
}

// NewErrorResponse creates an envelope with the given code and message.
func NewErrorResponse(code, message string) *ErrorResponse {
	return &ErrorResponse{
		Error: ErrorDetail{
			Code:    code,
			Message: message,
		},
	}
}

// WithDetails attaches per-parameter messages. An empty map is dropped.
func (e *ErrorResponse) WithDetails(details map[string]string) *ErrorResponse {
	if len(details) == 0 {
		e.Error.Details = nil
		return e
	}

	e.Error.Details = details
	return e
}

// WithTraceID sets the identifier a reader can quote when reporting a problem.
func (e *ErrorResponse) WithTraceID(traceID string) *ErrorResponse {
	e.TraceID = traceID
	return e
}

// Status is the HTTP status matching the envelope's code.
func (e *ErrorResponse) Status() int {
	return StatusForCode(e.Error.Code)
}

// StatusForCode maps an error code to its HTTP status. Unknown codes are 500.
func StatusForCode(code string) int {
	if status, ok := codeStatus[code]; ok {
		return status
	}

	return http.StatusInternalServerError
}
