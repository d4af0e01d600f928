// Package memory provides the in-memory post collection.
package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/bour278/bourbaki/internal/domain"
	"github.com/bour278/bourbaki/internal/ports"
)

// PostStore is a map of posts keyed by slug. It is filled once at start-up
// and read by request handlers afterwards.
type PostStore struct {
	mu    sync.RWMutex
	posts map[string]*domain.Post
}

var _ ports.PostRepository = (*PostStore)(nil)

// NewPostStore creates an empty store.
func NewPostStore() *PostStore {
	return &PostStore{posts: make(map[string]*domain.Post)}
}

// Get returns the post with the given slug.
func (s *PostStore) Get(_ context.Context, slug string) (*domain.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	post, ok := s.posts[slug]
	if !ok {
		return nil, domain.NewPostNotFoundError(slug)
	}

	return post, nil
}

// All returns every post, newest first.
func (s *PostStore) All(_ context.Context) ([]*domain.Post, error) {
	s.mu.RLock()
	posts := make([]*domain.Post, 0, len(s.posts))
	for _, p := range s.posts {
		posts = append(posts, p)
	}
	s.mu.RUnlock()

	slices.SortFunc(posts, domain.NewestFirst)

	return posts, nil
}

// Put stores post under its slug. An existing post with the same slug is
// replaced.
func (s *PostStore) Put(_ context.Context, post *domain.Post) (bool, error) {
	if post == nil || post.Slug == "" {
		return false, domain.NewValidationError("slug", "must not be empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, replaced := s.posts[post.Slug]
	s.posts[post.Slug] = post

	return replaced, nil
}

// Count returns the number of stored posts.
func (s *PostStore) Count(_ context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.posts)
}
