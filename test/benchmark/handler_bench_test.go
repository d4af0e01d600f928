package benchmark

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	httpadapter "github.com/bour278/bourbaki/internal/adapters/http"
	"github.com/bour278/bourbaki/internal/adapters/http/handlers"
	"github.com/bour278/bourbaki/internal/adapters/memory"
	"github.com/bour278/bourbaki/internal/app"
	"github.com/bour278/bourbaki/internal/content"
	"github.com/bour278/bourbaki/internal/domain"
	"github.com/bour278/bourbaki/internal/feed"
	"github.com/bour278/bourbaki/internal/ports"
)

// numPosts is roughly a decade of weekly writing.
const numPosts = 500

var categories = []string{"Mathematics", "Computer Science", "Finance", "Puzzles"}

func init() {
	// Set Gin to release mode for accurate benchmarks
	gin.SetMode(gin.ReleaseMode)
}

// createGinContext creates a Gin context for handler testing.
func createGinContext(w http.ResponseWriter, r *http.Request) *gin.Context {
	c, _ := gin.CreateTestContext(w)
	c.Request = r
	return c
}

func setupService(b *testing.B) *app.BlogService {
	b.Helper()

	store := memory.NewPostStore()
	start := time.Date(2015, 1, 1, 0, 0, 0, 0, time.UTC)
	body := strings.Repeat("Let $x$ be a fixed point of the map. ", 60)

	for i := range numPosts {
		_, err := store.Put(context.Background(), &domain.Post{
			ID:          i + 1,
			Slug:        fmt.Sprintf("post-%03d", i),
			Title:       fmt.Sprintf("Note %d", i),
			Content:     body,
			Excerpt:     body[:200],
			Category:    categories[i%len(categories)],
			PublishDate: start.AddDate(0, 0, 7*i),
			Metadata:    &domain.PostMetadata{ReadingTime: 2, Tags: []string{"tag" + fmt.Sprint(i%10)}},
		})
		if err != nil {
			b.Fatal(err)
		}
	}

	return app.NewBlogService(app.BlogServiceConfig{
		Posts:  store,
		Feed:   feed.NewGenerator(feed.Config{Title: "Bourbaki"}),
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
}

func setupRouter(b *testing.B) *gin.Engine {
	b.Helper()

	service := setupService(b)
	registry := ports.NewHealthRegistry()
	_ = registry.Register(service)

	engine := gin.New()
	httpadapter.SetupRouter(engine, httpadapter.RouterConfig{
		Logger:        slog.New(slog.NewTextHandler(io.Discard, nil)),
		HealthHandler: handlers.NewHealthHandler(registry, handlers.NewBuildInfo("1.0.0", "abc123", "2024-01-01T00:00:00Z")),
		PostHandler:   handlers.NewPostHandler(service),
		FeedHandler:   handlers.NewFeedHandler(service, "https://blog.example.org"),
	})

	return engine
}

// BenchmarkListPosts measures the listing endpoint across filter shapes.
func BenchmarkListPosts(b *testing.B) {
	handler := handlers.NewPostHandler(setupService(b))

	for _, query := range []string{"", "?category=finance", "?tag=tag3", "?search=fixed%20point", "?limit=10"} {
		b.Run("query="+query, func(b *testing.B) {
			req := httptest.NewRequest(http.MethodGet, "/api/posts"+query, http.NoBody)

			b.ResetTimer()
			b.ReportAllocs()

			for i := 0; i < b.N; i++ {
				w := httptest.NewRecorder()
				c := createGinContext(w, req)
				handler.ListPosts(c)
			}
		})
	}
}

// BenchmarkGetPost measures the single-post endpoint.
func BenchmarkGetPost(b *testing.B) {
	handler := handlers.NewPostHandler(setupService(b))
	req := httptest.NewRequest(http.MethodGet, "/api/posts/post-250", http.NoBody)

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		w := httptest.NewRecorder()
		c := createGinContext(w, req)
		c.Params = gin.Params{{Key: "slug", Value: "post-250"}}
		handler.GetPost(c)
	}
}

// BenchmarkCategories measures category counting.
func BenchmarkCategories(b *testing.B) {
	handler := handlers.NewPostHandler(setupService(b))
	req := httptest.NewRequest(http.MethodGet, "/api/categories", http.NoBody)

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		w := httptest.NewRecorder()
		c := createGinContext(w, req)
		handler.Categories(c)
	}
}

// BenchmarkFeed measures RSS generation over every post.
func BenchmarkFeed(b *testing.B) {
	service := setupService(b)
	ctx := context.Background()

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		if _, err := service.Feed(ctx, "https://blog.example.org"); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkProcess measures parsing and rendering of a single source file.
func BenchmarkProcess(b *testing.B) {
	processor := content.NewProcessor(content.Options{Sanitize: true})
	source := []byte("---\ntitle: Fixed points\ncategory: Mathematics\npublishDate: 2024-01-01\ntags: [topology]\n---\n\n" +
		strings.Repeat("Every contraction $f$ on a complete space has a fixed point.\n\n$$\nd(f(x), f(y)) \\le q\\,d(x, y)\n$$\n\n", 40))
	ctx := context.Background()

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		if _, err := processor.Process(ctx, "fixed-points.md", source); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkRouter_Full measures a listing request through the full
// middleware chain.
func BenchmarkRouter_Full(b *testing.B) {
	router := setupRouter(b)
	req := httptest.NewRequest(http.MethodGet, "/api/posts?category=mathematics&limit=20", http.NoBody)

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
	}
}

// BenchmarkReadinessHandler measures readiness with the blog check registered.
func BenchmarkReadinessHandler(b *testing.B) {
	registry := ports.NewHealthRegistry()
	_ = registry.Register(setupService(b))

	handler := handlers.NewHealthHandler(registry, handlers.NewBuildInfo("1.0.0", "abc123", "2024-01-01T00:00:00Z"))
	req := httptest.NewRequest(http.MethodGet, "/-/ready", http.NoBody)

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		w := httptest.NewRecorder()
		c := createGinContext(w, req)
		handler.Readiness(c)
	}
}
