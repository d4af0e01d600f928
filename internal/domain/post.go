package domain

import (
	"slices"
	"strings"
	"time"
)

// DefaultCategory is assigned to posts whose frontmatter names no category.
const DefaultCategory = "General"

// Categories lists the conventional categories. Category is free text, so
// posts outside this set are still accepted.
var Categories = []string{"Math", "TCS", "Finance", "Puzzles", DefaultCategory}

// Post is a single blog entry loaded from a Markdown source file.
type Post struct {
	ID          int
	Slug        string
	Title       string
	Subtitle    string
	Content     string
	Excerpt     string
	Category    string
	PublishDate time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
	Metadata    *PostMetadata

	// HTML is the rendered body. Only the detail view exposes it.
	HTML string

	// SourceFile is the file the post was loaded from.
	SourceFile string
}

// PostMetadata holds optional derived attributes.
type PostMetadata struct {
	ReadingTime int
	Tags        []string
}

// Tags returns the post's tags, or nil when there is no metadata.
func (p *Post) Tags() []string {
	if p.Metadata == nil {
		return nil
	}

	return p.Metadata.Tags
}

// ReadingTime returns the estimated minutes to read, or 0 when unknown.
func (p *Post) ReadingTime() int {
	if p.Metadata == nil {
		return 0
	}

	return p.Metadata.ReadingTime
}

// InCategory reports whether the post belongs to category, ignoring case.
func (p *Post) InCategory(category string) bool {
	return strings.EqualFold(p.Category, category)
}

// HasTag reports whether the post carries tag, ignoring case.
func (p *Post) HasTag(tag string) bool {
	return slices.ContainsFunc(p.Tags(), func(t string) bool {
		return strings.EqualFold(t, tag)
	})
}

// Matches reports whether term occurs, case-insensitively, in the title,
// subtitle, excerpt, content or any tag. An empty term matches everything.
func (p *Post) Matches(term string) bool {
	needle := strings.ToLower(term)
	if needle == "" {
		return true
	}

	for _, field := range []string{p.Title, p.Subtitle, p.Excerpt, p.Content} {
		if strings.Contains(strings.ToLower(field), needle) {
			return true
		}
	}

	return slices.ContainsFunc(p.Tags(), func(t string) bool {
		return strings.Contains(strings.ToLower(t), needle)
	})
}

// NewestFirst orders posts by publish date descending, breaking ties on slug
// so listings are deterministic.
func NewestFirst(a, b *Post) int {
	if c := b.PublishDate.Compare(a.PublishDate); c != 0 {
		return c
	}

	return strings.Compare(a.Slug, b.Slug)
}
