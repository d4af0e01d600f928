package handlers

import (
	"crypto/tls"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/mmcdole/gofeed"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bour278/bourbaki/internal/feed"
)

func TestFeedHandler_Feed(t *testing.T) {
	tests := []struct {
		name     string
		baseURL  string
		host     string
		wantLink string
	}{
		{
			name:     "configured base URL wins",
			baseURL:  "https://blog.example.org/",
			host:     "internal:5000",
			wantLink: "https://blog.example.org/blog/halting-problem",
		},
		{
			name:     "request host when unset",
			host:     "notes.local:8080",
			wantLink: "http://notes.local:8080/blog/halting-problem",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := gin.New()
			NewFeedHandler(newTestService(t), tt.baseURL).RegisterRoutes(router)

			req := httptest.NewRequest(http.MethodGet, feed.Path, nil)
			req.Host = tt.host

			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			require.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, feed.ContentType, w.Header().Get("Content-Type"))

			parsed, err := gofeed.NewParser().ParseString(w.Body.String())
			require.NoError(t, err)
			require.Len(t, parsed.Items, 3)
			assert.Equal(t, "Bourbaki", parsed.Title)
			assert.Equal(t, tt.wantLink, parsed.Items[0].Link)
		})
	}
}

func TestRequestBaseURL(t *testing.T) {
	tests := []struct {
		name    string
		host    string
		headers map[string]string
		tls     bool
		want    string
	}{
		{name: "plain host", host: "example.com", want: "http://example.com"},
		{name: "tls", host: "example.com", tls: true, want: "https://example.com"},
		{
			name:    "forwarded headers",
			host:    "10.0.0.4:5000",
			headers: map[string]string{"X-Forwarded-Host": "blog.example.com, proxy", "X-Forwarded-Proto": "HTTPS"},
			want:    "https://blog.example.com",
		},
		{
			name:    "bogus proto ignored",
			host:    "example.com",
			headers: map[string]string{"X-Forwarded-Proto": "gopher"},
			want:    "http://example.com",
		},
		{name: "no host", want: FallbackBaseURL},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/feed.xml", nil)
			req.Host = tt.host

			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}

			if tt.tls {
				req.TLS = &tls.ConnectionState{}
			} else {
				req.TLS = nil
			}

			assert.Equal(t, tt.want, RequestBaseURL(req))
		})
	}
}
