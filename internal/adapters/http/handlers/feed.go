package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/bour278/bourbaki/internal/adapters/http/dto"
	"github.com/bour278/bourbaki/internal/app"
	"github.com/bour278/bourbaki/internal/feed"
)

// FallbackBaseURL is used when neither configuration nor the request
// identifies the public host.
const FallbackBaseURL = "http://localhost:5000"

// FeedHandler serves the RSS document.
type FeedHandler struct {
	service *app.BlogService
	baseURL string
}

// NewFeedHandler creates a feed handler. An empty baseURL makes item links
// follow the host the feed was requested on.
func NewFeedHandler(service *app.BlogService, baseURL string) *FeedHandler {
	return &FeedHandler{
		service: service,
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// Feed handles GET /feed.xml
//
// @Summary RSS feed
// @Tags feed
// @Produce application/rss+xml
// @Success 200 {string} string
// @Router /feed.xml [get]
func (h *FeedHandler) Feed(c *gin.Context) {
	doc, err := h.service.Feed(c.Request.Context(), h.baseURLFor(c.Request))
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.Data(http.StatusOK, feed.ContentType, doc)
}

// RegisterRoutes registers the feed for GET and HEAD. r should be rooted
// at "/".
func (h *FeedHandler) RegisterRoutes(r gin.IRoutes) {
	readOnly(r, feed.Path, h.Feed)
}

// readOnly serves handler for GET and HEAD on path.
func readOnly(r gin.IRoutes, path string, handler gin.HandlerFunc) {
	r.GET(path, handler)
	r.HEAD(path, handler)
}

func (h *FeedHandler) baseURLFor(r *http.Request) string {
	if h.baseURL != "" {
		return h.baseURL
	}

	return RequestBaseURL(r)
}

// RequestBaseURL derives scheme://host from a request, honouring
// X-Forwarded-Proto and X-Forwarded-Host from a fronting proxy.
func RequestBaseURL(r *http.Request) string {
	host := firstHeaderValue(r.Header.Get("X-Forwarded-Host"))
	if host == "" {
		host = r.Host
	}

	if host == "" {
		return FallbackBaseURL
	}

	scheme := strings.ToLower(firstHeaderValue(r.Header.Get("X-Forwarded-Proto")))
	if scheme != "http" && scheme != "https" {
		scheme = "http"
		if r.TLS != nil {
			scheme = "https"
		}
	}

	return scheme + "://" + host
}

// firstHeaderValue returns the first entry of a comma-separated header.
func firstHeaderValue(v string) string {
	first, _, _ := strings.Cut(v, ",")
	return strings.TrimSpace(first)
}
