// Package ports defines the interfaces the application layer depends on.
// Adapters implement them; the app package never sees concrete storage.
package ports

import (
	"context"

	"github.com/bour278/bourbaki/internal/domain"
)

// PostRepository is the read-mostly post collection keyed by slug.
//
// Put is only called while content is loaded at start-up. After that the
// collection is read-only.
type PostRepository interface {
	// Get returns the post with the given slug.
	// Returns domain.ErrNotFound if no such post exists.
	Get(ctx context.Context, slug string) (*domain.Post, error)

	// All returns every post ordered newest first.
	All(ctx context.Context) ([]*domain.Post, error)

	// Put stores a post under its slug, replacing any post with the same slug.
	// replaced reports whether an existing post was overwritten.
	Put(ctx context.Context, post *domain.Post) (replaced bool, err error)

	// Count returns the number of stored posts.
	Count(ctx context.Context) int
}
