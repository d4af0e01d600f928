package http

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/bour278/bourbaki/internal/adapters/http/dto"
)

// APIPrefix is the path prefix of the JSON API.
const APIPrefix = "/api"

// isAPIPath reports whether path belongs to the JSON API, so misses get a
// JSON envelope instead of the front end.
func isAPIPath(path string) bool {
	return path == APIPrefix || strings.HasPrefix(path, APIPrefix+"/")
}

// notFound answers unmatched API paths with a NOT_FOUND envelope.
func notFound(c *gin.Context) {
	dto.RespondWithErrorCode(c, dto.ErrorCodeNotFound, "no route for "+c.Request.Method+" "+c.Request.URL.Path)
}

// methodNotAllowed answers a known path requested with the wrong method.
func methodNotAllowed(c *gin.Context) {
	dto.RespondWithErrorCode(c, dto.ErrorCodeMethodNotAllowed, c.Request.Method+" is not allowed on "+c.Request.URL.Path)
}
