package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/bour278/bourbaki/internal/adapters/http/dto"
	"github.com/bour278/bourbaki/internal/app"
	"github.com/bour278/bourbaki/internal/domain"
)

// PostHandler handles the read-only post API.
type PostHandler struct {
	service *app.BlogService
}

// NewPostHandler creates a new post handler.
func NewPostHandler(service *app.BlogService) *PostHandler {
	return &PostHandler{
		service: service,
	}
}

// PostMetadataResponse carries derived attributes.
type PostMetadataResponse struct {
	ReadingTime int      `json:"readingTime"`
	Tags        []string `json:"tags"`
}

// PostResponse is a post as listed by /api/posts.
type PostResponse struct {
	ID          int                   `json:"id"`
	Slug        string                `json:"slug"`
	Title       string                `json:"title"`
	Subtitle    string                `json:"subtitle"`
	Content     string                `json:"content"`
	Excerpt     string                `json:"excerpt"`
	Category    string                `json:"category"`
	PublishDate time.Time             `json:"publishDate"`
	CreatedAt   time.Time             `json:"createdAt"`
	UpdatedAt   time.Time             `json:"updatedAt"`
	Metadata    *PostMetadataResponse `json:"metadata,omitempty"`
}

// PostDetailResponse adds the rendered body for the single-post view.
type PostDetailResponse struct {
	PostResponse

	HTML        string `json:"html"`
	ReadingTime int    `json:"readingTime"`
}

// toPostResponse converts a domain Post to an HTTP response.
func toPostResponse(p *domain.Post) PostResponse {
	resp := PostResponse{
		ID:          p.ID,
		Slug:        p.Slug,
		Title:       p.Title,
		Subtitle:    p.Subtitle,
		Content:     p.Content,
		Excerpt:     p.Excerpt,
		Category:    p.Category,
		PublishDate: p.PublishDate,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}

	if p.Metadata != nil {
		tags := p.Metadata.Tags
		if tags == nil {
			tags = []string{}
		}

		resp.Metadata = &PostMetadataResponse{
			ReadingTime: p.Metadata.ReadingTime,
			Tags:        tags,
		}
	}

	return resp
}

func toPostDetailResponse(p *domain.Post) PostDetailResponse {
	return PostDetailResponse{
		PostResponse: toPostResponse(p),
		HTML:         p.HTML,
		ReadingTime:  p.ReadingTime(),
	}
}

// ListPosts handles GET /api/posts
// Returns posts newest first, optionally filtered by category, tag or a
// search term. Search takes precedence over category.
//
// @Summary List posts
// @Tags posts
// @Produce json
// @Param category query string false "Category name, case-insensitive"
// @Param tag query string false "Tag, case-insensitive"
// @Param search query string false "Substring searched in title, subtitle, excerpt, content and tags"
// @Param limit query int false "Maximum number of posts (1-100)"
// @Success 200 {array} PostResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /api/posts [get]
func (h *PostHandler) ListPosts(c *gin.Context) {
	var query dto.ListPostsQuery

	if err := dto.BindQueryAndValidate(c, &query); err != nil {
		if dto.IsValidationError(err) {
			dto.RespondWithValidationErrors(c, dto.ValidationErrors(err))
			return
		}

		dto.RespondWithErrorCode(c, dto.ErrorCodeBadRequest, "invalid query parameters")

		return
	}

	posts, err := h.service.ListPosts(c.Request.Context(), query.Filter())
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	if query.Limit > 0 && len(posts) > query.Limit {
		posts = posts[:query.Limit]
	}

	resp := make([]PostResponse, 0, len(posts))
	for _, p := range posts {
		resp = append(resp, toPostResponse(p))
	}

	c.JSON(http.StatusOK, resp)
}

// GetPost handles GET /api/posts/:slug
// Returns a single post including its rendered HTML.
//
// @Summary Get a post by slug
// @Tags posts
// @Produce json
// @Param slug path string true "Post slug"
// @Success 200 {object} PostDetailResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/posts/{slug} [get]
func (h *PostHandler) GetPost(c *gin.Context) {
	var param dto.SlugParam

	if err := c.ShouldBindUri(&param); err != nil {
		dto.RespondWithErrorCode(c, dto.ErrorCodeBadRequest, "post slug is required")
		return
	}

	if err := dto.Validate(&param); err != nil {
		dto.RespondWithValidationErrors(c, dto.ValidationErrors(err))
		return
	}

	post, err := h.service.GetPost(c.Request.Context(), param.Slug)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, toPostDetailResponse(post))
}

// Categories handles GET /api/categories
// Returns an object mapping each category to its post count.
//
// @Summary Category counts
// @Tags posts
// @Produce json
// @Success 200 {object} map[string]int
// @Router /api/categories [get]
func (h *PostHandler) Categories(c *gin.Context) {
	counts, err := h.service.Categories(c.Request.Context())
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	resp := make(map[string]int, len(counts))
	for _, cc := range counts {
		resp[cc.Name] = cc.Count
	}

	c.JSON(http.StatusOK, resp)
}

// Tags handles GET /api/tags
// Returns an object mapping each tag to its post count.
func (h *PostHandler) Tags(c *gin.Context) {
	counts, err := h.service.Tags(c.Request.Context())
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	resp := make(map[string]int, len(counts))
	for _, tc := range counts {
		resp[tc.Name] = tc.Count
	}

	c.JSON(http.StatusOK, resp)
}

// RegisterRoutes registers the post API on rg, which is expected to be /api.
// Every route answers GET and HEAD.
func (h *PostHandler) RegisterRoutes(rg *gin.RouterGroup) {
	readOnly(rg, "/posts", h.ListPosts)
	readOnly(rg, "/posts/:slug", h.GetPost)
	readOnly(rg, "/categories", h.Categories)
	readOnly(rg, "/tags", h.Tags)
}
