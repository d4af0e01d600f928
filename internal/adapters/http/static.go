package http

import (
	"log/slog"
	"net/http"
	"os"
	"path"
	"path/filepath"

	"github.com/gin-gonic/gin"
)

// spaIndex is served for client-side routes such as /blog/:slug.
const spaIndex = "index.html"

// SPAHandler serves the built front end from dir. Existing files are served
// as-is; any other non-API path gets index.html so the client router can take
// over. API paths and a missing index yield a JSON 404.
func SPAHandler(dir string, logger *slog.Logger) gin.HandlerFunc {
	index := filepath.Join(dir, spaIndex)

	if _, err := os.Stat(index); err != nil && logger != nil {
		logger.Warn("front-end index not found, only the API will be served",
			slog.String("dir", dir),
			slog.Any("error", err),
		)
	}

	return func(c *gin.Context) {
		if isAPIPath(c.Request.URL.Path) {
			notFound(c)
			return
		}

		if c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead {
			methodNotAllowed(c)
			return
		}

		// Clean against a rooted path so ".." cannot escape dir.
		rel := filepath.FromSlash(path.Clean("/" + c.Request.URL.Path))
		candidate := filepath.Join(dir, rel)

		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			c.File(candidate)
			return
		}

		if _, err := os.Stat(index); err != nil {
			notFound(c)
			return
		}

		c.File(index)
	}
}
