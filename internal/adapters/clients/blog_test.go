package clients

import (
	"context"
	"io"
	"log/slog"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	httpadapter "github.com/bour278/bourbaki/internal/adapters/http"
	"github.com/bour278/bourbaki/internal/adapters/http/dto"
	"github.com/bour278/bourbaki/internal/adapters/http/handlers"
	"github.com/bour278/bourbaki/internal/adapters/memory"
	"github.com/bour278/bourbaki/internal/app"
	"github.com/bour278/bourbaki/internal/domain"
	"github.com/bour278/bourbaki/internal/feed"
	"github.com/bour278/bourbaki/internal/ports"
)

func newBlogServer(t *testing.T) *httptest.Server {
	t.Helper()

	gin.SetMode(gin.TestMode)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := memory.NewPostStore()

	for i, p := range []*domain.Post{
		{Slug: "euler-identity", Title: "Euler", Category: "Mathematics", PublishDate: time.Date(2024, 3, 14, 0, 0, 0, 0, time.UTC)},
		{Slug: "halting-problem", Title: "Halting", Category: "Computer Science", PublishDate: time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)},
	} {
		p.ID = i + 1
		_, err := store.Put(context.Background(), p)
		require.NoError(t, err)
	}

	service := app.NewBlogService(app.BlogServiceConfig{
		Posts:  store,
		Feed:   feed.NewGenerator(feed.Config{Title: "Bourbaki"}),
		Logger: logger,
	})

	registry := ports.NewHealthRegistry()
	require.NoError(t, registry.Register(service))

	engine := gin.New()
	httpadapter.SetupRouter(engine, httpadapter.RouterConfig{
		Logger:        logger,
		HealthHandler: handlers.NewHealthHandler(registry, handlers.BuildInfo{}),
		PostHandler:   handlers.NewPostHandler(service),
		FeedHandler:   handlers.NewFeedHandler(service, ""),
	})

	server := httptest.NewServer(engine)
	t.Cleanup(server.Close)

	return server
}

func TestClient_BlogAPI(t *testing.T) {
	server := newBlogServer(t)
	client := newTestClient(t, server.URL)
	ctx := context.Background()

	require.NoError(t, client.Ready(ctx))

	posts, err := client.ListPosts(ctx, ListQuery{})
	require.NoError(t, err)
	require.Len(t, posts, 2)
	assert.Equal(t, "halting-problem", posts[0].Slug)

	filtered, err := client.ListPosts(ctx, ListQuery{Category: "mathematics", Limit: 5})
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, "euler-identity", filtered[0].Slug)

	post, err := client.GetPost(ctx, "euler-identity")
	require.NoError(t, err)
	assert.Equal(t, "Euler", post.Title)

	_, err = client.GetPost(ctx, "nope")
	require.Error(t, err)
	assert.True(t, IsNotFound(err))

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, dto.ErrorCodeNotFound, apiErr.Code)

	categories, err := client.Categories(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"Mathematics": 1, "Computer Science": 1}, categories)

	parsed, err := client.Feed(ctx)
	require.NoError(t, err)
	require.Len(t, parsed.Items, 2)
	assert.Equal(t, feed.PostURL(server.URL, "halting-problem"), parsed.Items[0].Link)
}

func TestListQuery_Encode(t *testing.T) {
	assert.Empty(t, ListQuery{}.encode())
	assert.Equal(t, "?category=Computer+Science&limit=3", ListQuery{Category: "Computer Science", Limit: 3}.encode())
}

func TestAPIError(t *testing.T) {
	assert.Equal(t, "blog api: HTTP 502", (&APIError{Status: 502}).Error())
	assert.Equal(t,
		"blog api: HTTP 404 NOT_FOUND: post \"x\" not found",
		(&APIError{Status: 404, Code: "NOT_FOUND", Message: `post "x" not found`}).Error(),
	)
	assert.False(t, IsNotFound(ErrMaxRetriesExceeded))
}
