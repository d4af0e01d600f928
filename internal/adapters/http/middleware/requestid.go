// Package middleware provides HTTP middleware components for the Gin server.
package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/bour278/bourbaki/internal/platform/logging"
)

const (
	// HeaderRequestID is the header name for request ID.
	HeaderRequestID = "X-Request-ID"

	// ContextKeyRequestID is the context key for storing the request ID.
	ContextKeyRequestID = "request_id"
)

// RequestID returns middleware that accepts or generates X-Request-ID. The ID
// is stored on the gin and request contexts, echoed in the response headers
// and added to the request logger.
func RequestID() gin.HandlerFunc {
	return createIDMiddleware(idMiddlewareConfig{
		headerName: HeaderRequestID,
		key:        requestIDKey,
		enrich:     logging.WithRequestID,
	})
}

// GetRequestID extracts the request ID from the gin.Context.
// Returns empty string if not set.
func GetRequestID(c *gin.Context) string {
	return idFromGin(c, requestIDKey)
}
