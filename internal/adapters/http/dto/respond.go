package dto

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"

	"github.com/bour278/bourbaki/internal/domain"
	"github.com/bour278/bourbaki/internal/platform/logging"
)

// TraceIDKey is the gin context key under which a trace ID may be stored.
const TraceIDKey = "trace_id"

// requestIDHeader mirrors middleware.RequestIDHeader without importing it.
const requestIDHeader = "X-Request-ID"

// GetTraceID returns the identifier echoed in error envelopes. It prefers an
// explicit gin context value, then the active span, then the request ID.
func GetTraceID(c *gin.Context) string {
	if v, ok := c.Get(TraceIDKey); ok {
		if id, ok := v.(string); ok {
			return id
		}

		return ""
	}

	if c.Request == nil {
		return ""
	}

	if span := trace.SpanFromContext(c.Request.Context()); span.SpanContext().HasTraceID() {
		return span.SpanContext().TraceID().String()
	}

	return c.Request.Header.Get(requestIDHeader)
}

// MapDomainError maps a domain error to an HTTP status code and error response.
// Unknown errors are mapped to 500 Internal Server Error with a generic message.
func MapDomainError(err error) (int, *ErrorResponse) {
	switch {
	case err == nil:
		return http.StatusOK, nil

	case domain.IsNotFound(err):
		return http.StatusNotFound, NewErrorResponse(ErrorCodeNotFound, err.Error())

	case domain.IsValidation(err):
		resp := NewErrorResponse(ErrorCodeValidation, err.Error())

		var validationErr *domain.ValidationError
		if errors.As(err, &validationErr) && validationErr.Field != "" {
			resp.WithDetails(map[string]string{
				validationErr.Field: validationErr.Message,
			})
		}

		return resp.Status(), resp

	case domain.IsUnavailable(err):
		return http.StatusServiceUnavailable, NewErrorResponse(
			ErrorCodeUnavailable,
			"service temporarily unavailable",
		)

	default:
		// Unknown errors get a generic message to avoid leaking internals
		return http.StatusInternalServerError, NewErrorResponse(
			ErrorCodeInternal,
			"an internal error occurred",
		)
	}
}

// HandleError writes the error envelope for err and aborts the chain.
// Internal and unavailable errors are logged with full detail.
func HandleError(c *gin.Context, err error) {
	status, resp := MapDomainError(err)
	if resp == nil {
		return
	}

	resp.TraceID = GetTraceID(c)

	if status >= http.StatusInternalServerError {
		logging.FromContext(c.Request.Context()).ErrorContext(c.Request.Context(), "request failed",
			"error", err.Error(),
			"status", status,
			"trace_id", resp.TraceID,
		)
	}

	c.AbortWithStatusJSON(status, resp)
}

// RespondWithErrorCode writes an error envelope for an adapter-level failure
// that has no domain error behind it.
func RespondWithErrorCode(c *gin.Context, code, message string) {
	resp := NewErrorResponse(code, message).WithTraceID(GetTraceID(c))
	c.AbortWithStatusJSON(resp.Status(), resp)
}

// RespondWithValidationErrors writes a 400 response with field-level validation errors.
func RespondWithValidationErrors(c *gin.Context, fieldErrors map[string]string) {
	resp := NewErrorResponse(ErrorCodeValidation, "request validation failed").
		WithDetails(fieldErrors).
		WithTraceID(GetTraceID(c))

	c.AbortWithStatusJSON(resp.Status(), resp)
}
