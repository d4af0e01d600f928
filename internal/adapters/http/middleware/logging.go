package middleware

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/bour278/bourbaki/internal/platform/logging"
)

// DefaultQuietPrefixes are request paths logged at debug level only:
// operational probes and front-end assets.
var DefaultQuietPrefixes = []string{"/-/", "/assets/", "/favicon"}

// Logging returns middleware that logs each completed request with its
// status, latency and size. Requests under quietPrefixes are logged at debug
// level; server errors at error and client errors at warn.
func Logging(logger *slog.Logger, quietPrefixes ...string) gin.HandlerFunc {
	if len(quietPrefixes) == 0 {
		quietPrefixes = DefaultQuietPrefixes
	}

	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		path := c.Request.URL.Path
		status := c.Writer.Status()

		level := slog.LevelInfo

		switch {
		case status >= http.StatusInternalServerError:
			level = slog.LevelError
		case status >= http.StatusBadRequest:
			level = slog.LevelWarn
		case hasAnyPrefix(path, quietPrefixes):
			level = slog.LevelDebug
		}

		ctxLogger := logging.FromContext(c.Request.Context())
		if ctxLogger == slog.Default() && logger != nil {
			ctxLogger = logger
		}

		if c.Request.URL.RawQuery != "" {
			path += "?" + c.Request.URL.RawQuery
		}

		latency := time.Since(start)

		ctxLogger.Log(c.Request.Context(), level, "request completed",
			slog.String("method", c.Request.Method),
			slog.String("path", path),
			slog.String("route", c.FullPath()),
			slog.Int("status", status),
			slog.Duration("latency", latency),
			slog.Int("bytes", c.Writer.Size()),
			slog.String("client_ip", c.ClientIP()),
		)
	}
}

func hasAnyPrefix(path string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(path, p) {
			return true
		}
	}

	return false
}
