package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// maxIncomingIDLength bounds IDs accepted from clients. Longer values are
// replaced with a generated one.
const maxIncomingIDLength = 128

// idKey keys an ID in a context.Context. Its value is the gin context key.
type idKey string

const (
	requestIDKey     idKey = ContextKeyRequestID
	correlationIDKey idKey = ContextKeyCorrelationID
)

// idMiddlewareConfig configures the ID middleware behavior.
type idMiddlewareConfig struct {
	headerName string
	key        idKey
	// enrich adds the ID to the request logger.
	enrich func(ctx context.Context, id string) context.Context
}

// createIDMiddleware accepts or generates an ID, stores it on the gin and
// request contexts and echoes it on the response. Request and correlation
// IDs share it.
func createIDMiddleware(cfg idMiddlewareConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(cfg.headerName)
		if id == "" || len(id) > maxIncomingIDLength {
			id = uuid.NewString()
		}

		c.Set(string(cfg.key), id)
		c.Header(cfg.headerName, id)

		ctx := context.WithValue(c.Request.Context(), cfg.key, id)
		if cfg.enrich != nil {
			ctx = cfg.enrich(ctx, id)
		}
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

func idFromGin(c *gin.Context, key idKey) string {
	return c.GetString(string(key))
}

func idFromContext(ctx context.Context, key idKey) string {
	if ctx == nil {
		return ""
	}

	id, _ := ctx.Value(key).(string)
	return id
}

// RequestIDFromContext returns the request ID stored by RequestID, or "".
// Outbound clients forward it.
func RequestIDFromContext(ctx context.Context) string {
	return idFromContext(ctx, requestIDKey)
}

// CorrelationIDFromContext returns the correlation ID stored by
// CorrelationID, or "".
func CorrelationIDFromContext(ctx context.Context) string {
	return idFromContext(ctx, correlationIDKey)
}

// ContextWithRequestID stores a request ID for outbound propagation outside
// the HTTP server, for example in bourbakictl.
func ContextWithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// ContextWithCorrelationID stores a correlation ID for outbound propagation.
func ContextWithCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, correlationIDKey, id)
}
