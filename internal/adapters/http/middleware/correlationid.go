package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/bour278/bourbaki/internal/platform/logging"
)

const (
	// HeaderCorrelationID is the header name for correlation ID. A front end
	// may reuse one across the requests of a page view.
	HeaderCorrelationID = "X-Correlation-ID"

	// ContextKeyCorrelationID is the context key for storing the correlation ID.
	ContextKeyCorrelationID = "correlation_id"
)

// CorrelationID returns middleware that accepts or generates X-Correlation-ID,
// echoes it on the response and attaches it to the request logger.
func CorrelationID() gin.HandlerFunc {
	return createIDMiddleware(idMiddlewareConfig{
		headerName: HeaderCorrelationID,
		key:        correlationIDKey,
		enrich:     logging.WithCorrelationID,
	})
}

// GetCorrelationID extracts the correlation ID from the gin.Context.
// Returns empty string if not set.
func GetCorrelationID(c *gin.Context) string {
	return idFromGin(c, correlationIDKey)
}
