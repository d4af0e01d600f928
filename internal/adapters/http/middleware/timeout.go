package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/bour278/bourbaki/internal/adapters/http/dto"
	"github.com/bour278/bourbaki/internal/platform/logging"
)

// Timeout returns middleware that puts a deadline on the request context.
// Handlers observe it through ctx; when the deadline passes before anything
// was written, a 503 TIMEOUT envelope is sent. Handlers that ignore ctx run
// to completion.
func Timeout(timeout time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), timeout)
		defer cancel()

		c.Request = c.Request.WithContext(ctx)
		c.Next()

		if errors.Is(ctx.Err(), context.DeadlineExceeded) && !c.Writer.Written() {
			handleTimeout(c, timeout)
		}
	}
}

// handleTimeout logs the timeout and responds with an error envelope.
func handleTimeout(c *gin.Context, timeout time.Duration) {
	traceID := dto.GetTraceID(c)

	logging.FromContext(c.Request.Context()).Warn("request timeout",
		slog.String("path", c.Request.URL.Path),
		slog.String("method", c.Request.Method),
		slog.Duration("timeout", timeout),
		slog.String("trace_id", traceID),
	)

	c.AbortWithStatusJSON(http.StatusServiceUnavailable, dto.NewErrorResponse(
		dto.ErrorCodeTimeout,
		"request timeout exceeded",
	).WithTraceID(traceID))
}
