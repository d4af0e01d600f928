// Package app contains application services that orchestrate use cases.
package app

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/bour278/bourbaki/internal/domain"
	"github.com/bour278/bourbaki/internal/feed"
	"github.com/bour278/bourbaki/internal/ports"
)

// AllCategories as a category filter is the same as no filter.
const AllCategories = "all"

// ListFilter narrows a post listing. Search, when set, takes precedence over
// Category. Tag applies on top of either.
type ListFilter struct {
	Category string
	Tag      string
	Search   string
}

// CategoryCount is a category with the number of posts in it.
type CategoryCount struct {
	Name  string
	Count int
}

// TagCount is a tag with the number of posts carrying it.
type TagCount struct {
	Name  string
	Count int
}

// FeedObserver is notified each time the feed is rendered.
type FeedObserver interface {
	FeedRendered()
}

// BlogService answers read queries over the loaded posts.
// It depends on port interfaces, not concrete implementations.
type BlogService struct {
	posts        ports.PostRepository
	feed         *feed.Generator
	observer     FeedObserver
	requirePosts bool
	logger       *slog.Logger
	now          func() time.Time
}

// BlogServiceConfig contains configuration for the blog service.
type BlogServiceConfig struct {
	Posts ports.PostRepository
	Feed  *feed.Generator
	// Observer is optional.
	Observer FeedObserver
	// RequirePosts makes the content health check fail on an empty store.
	RequirePosts bool
	Logger       *slog.Logger
	Now          func() time.Time
}

// NewBlogService creates a new blog service with the provided dependencies.
func NewBlogService(cfg BlogServiceConfig) *BlogService {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	return &BlogService{
		posts:        cfg.Posts,
		feed:         cfg.Feed,
		observer:     cfg.Observer,
		requirePosts: cfg.RequirePosts,
		logger:       logger,
		now:          now,
	}
}

// ListPosts returns matching posts, newest first.
func (s *BlogService) ListPosts(ctx context.Context, filter ListFilter) ([]*domain.Post, error) {
	all, err := s.posts.All(ctx)
	if err != nil {
		return nil, err
	}

	search := strings.TrimSpace(filter.Search)
	category := strings.TrimSpace(filter.Category)
	tag := strings.TrimSpace(filter.Tag)

	if strings.EqualFold(category, AllCategories) {
		category = ""
	}

	out := make([]*domain.Post, 0, len(all))

	for _, p := range all {
		switch {
		case search != "":
			if !p.Matches(search) {
				continue
			}
		case category != "":
			if !p.InCategory(category) {
				continue
			}
		}

		if tag != "" && !p.HasTag(tag) {
			continue
		}

		out = append(out, p)
	}

	s.logger.DebugContext(ctx, "listed posts",
		slog.String("category", category),
		slog.String("tag", tag),
		slog.String("search", search),
		slog.Int("count", len(out)),
	)

	return out, nil
}

// GetPost returns the post with slug, or a not-found error.
func (s *BlogService) GetPost(ctx context.Context, slug string) (*domain.Post, error) {
	post, err := s.posts.Get(ctx, slug)
	if err != nil {
		if domain.IsNotFound(err) {
			s.logger.DebugContext(ctx, "post not found", slog.String("slug", slug))
		}

		return nil, err
	}

	return post, nil
}

// Categories counts posts per category, ordered by name.
func (s *BlogService) Categories(ctx context.Context) ([]CategoryCount, error) {
	all, err := s.posts.All(ctx)
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int)
	for _, p := range all {
		counts[p.Category]++
	}

	out := make([]CategoryCount, 0, len(counts))
	for name, n := range counts {
		out = append(out, CategoryCount{Name: name, Count: n})
	}

	slices.SortFunc(out, func(a, b CategoryCount) int {
		return cmp.Compare(a.Name, b.Name)
	})

	return out, nil
}

// Tags counts posts per tag, most used first. Tags differing only in case
// are merged under the first spelling seen.
func (s *BlogService) Tags(ctx context.Context) ([]TagCount, error) {
	all, err := s.posts.All(ctx)
	if err != nil {
		return nil, err
	}

	index := make(map[string]int)
	out := make([]TagCount, 0)

	for _, p := range all {
		for _, tag := range p.Tags() {
			key := strings.ToLower(tag)
			if i, ok := index[key]; ok {
				out[i].Count++
				continue
			}

			index[key] = len(out)
			out = append(out, TagCount{Name: tag, Count: 1})
		}
	}

	slices.SortFunc(out, func(a, b TagCount) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}

		return cmp.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
	})

	return out, nil
}

// Feed renders the RSS document for every post, linking items under baseURL.
func (s *BlogService) Feed(ctx context.Context, baseURL string) ([]byte, error) {
	if s.feed == nil {
		return nil, domain.NewUnavailableError("feed", "no generator configured")
	}

	all, err := s.posts.All(ctx)
	if err != nil {
		return nil, err
	}

	doc, err := s.feed.Generate(all, baseURL, s.now())
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to render feed", slog.Any("error", err))
		return nil, err
	}

	if s.observer != nil {
		s.observer.FeedRendered()
	}

	return doc, nil
}

// Name implements ports.HealthChecker.
func (s *BlogService) Name() string {
	return "content"
}

// Check implements ports.HealthChecker. The store is always usable; an empty
// store only fails when posts are required.
func (s *BlogService) Check(ctx context.Context) error {
	if !s.requirePosts {
		return nil
	}

	if n := s.posts.Count(ctx); n == 0 {
		return domain.NewUnavailableError("content", fmt.Sprintf("%d posts loaded", n))
	}

	return nil
}
