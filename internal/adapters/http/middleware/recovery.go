package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"github.com/bour278/bourbaki/internal/adapters/http/dto"
	"github.com/bour278/bourbaki/internal/platform/logging"
)

// Recovery returns middleware that turns a panic into a 500 error envelope.
// The panic value and stack are logged through the request logger, falling
// back to logger when the panic happened before one was attached.
//
// Apply it first so it wraps every other handler.
func Recovery(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			r := recover()
			if r == nil {
				return
			}

			if r == http.ErrAbortHandler {
				panic(r)
			}

			ctxLogger := logging.FromContext(c.Request.Context())
			if ctxLogger == slog.Default() && logger != nil {
				ctxLogger = logger
			}

			traceID := dto.GetTraceID(c)

			ctxLogger.Error("panic recovered",
				slog.Any("error", r),
				slog.String("stack", string(debug.Stack())),
				slog.String("path", c.Request.URL.Path),
				slog.String("method", c.Request.Method),
				slog.String("trace_id", traceID),
			)

			if c.Writer.Written() {
				c.Abort()
				return
			}

			c.AbortWithStatusJSON(http.StatusInternalServerError, dto.NewErrorResponse(
				dto.ErrorCodeInternal,
				"an internal error occurred",
			).WithTraceID(traceID))
		}()

		c.Next()
	}
}
