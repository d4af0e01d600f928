package dto

import "github.com/bour278/bourbaki/internal/app"

// MaxQueryLength bounds every free-text query parameter.
const MaxQueryLength = 200

// MaxListLimit is the largest page a listing returns.
const MaxListLimit = 100

// ListPostsQuery holds the /api/posts query parameters.
type ListPostsQuery struct {
	Category string `form:"category" json:"category" validate:"max=200,printable"`
	Tag      string `form:"tag"      json:"tag"      validate:"max=200,printable"`
	Search   string `form:"search"   json:"search"   validate:"max=200,printable"`

	// Limit caps the number of posts returned. Zero means all posts.
	Limit int `form:"limit" json:"limit" validate:"omitempty,gte=1,lte=100"`
}

// Filter converts the query into a service filter.
func (q *ListPostsQuery) Filter() app.ListFilter {
	return app.ListFilter{
		Category: q.Category,
		Tag:      q.Tag,
		Search:   q.Search,
	}
}

// SlugParam is the :slug path parameter.
type SlugParam struct {
	Slug string `uri:"slug" json:"slug" validate:"required,max=200,printable"`
}
