package clients

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/mmcdole/gofeed"

	"github.com/bour278/bourbaki/internal/adapters/http/dto"
	"github.com/bour278/bourbaki/internal/adapters/http/handlers"
	"github.com/bour278/bourbaki/internal/feed"
)

// maxErrorBody bounds how much of an error response is read.
const maxErrorBody = 64 << 10

// ListQuery mirrors the /api/posts query parameters.
type ListQuery struct {
	Category string
	Tag      string
	Search   string
	Limit    int
}

func (q ListQuery) encode() string {
	v := url.Values{}
	if q.Category != "" {
		v.Set("category", q.Category)
	}

	if q.Tag != "" {
		v.Set("tag", q.Tag)
	}

	if q.Search != "" {
		v.Set("search", q.Search)
	}

	if q.Limit > 0 {
		v.Set("limit", strconv.Itoa(q.Limit))
	}

	if len(v) == 0 {
		return ""
	}

	return "?" + v.Encode()
}

// ListPosts calls GET /api/posts.
func (c *Client) ListPosts(ctx context.Context, q ListQuery) ([]handlers.PostResponse, error) {
	var out []handlers.PostResponse
	if err := c.getJSON(ctx, "/api/posts"+q.encode(), &out); err != nil {
		return nil, err
	}

	return out, nil
}

// GetPost calls GET /api/posts/:slug.
func (c *Client) GetPost(ctx context.Context, slug string) (*handlers.PostDetailResponse, error) {
	var out handlers.PostDetailResponse
	if err := c.getJSON(ctx, "/api/posts/"+url.PathEscape(slug), &out); err != nil {
		return nil, err
	}

	return &out, nil
}

// Categories calls GET /api/categories.
func (c *Client) Categories(ctx context.Context) (map[string]int, error) {
	out := make(map[string]int)
	if err := c.getJSON(ctx, "/api/categories", &out); err != nil {
		return nil, err
	}

	return out, nil
}

// Ready calls GET /-/ready. A 503 is reported as an *APIError.
func (c *Client) Ready(ctx context.Context) error {
	resp, err := c.Get(ctx, "/-/ready")
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &APIError{Status: resp.StatusCode, Message: "not ready"}
	}

	_, _ = io.Copy(io.Discard, resp.Body)

	return nil
}

// Feed fetches and parses the RSS document.
func (c *Client) Feed(ctx context.Context) (*gofeed.Feed, error) {
	resp, err := c.Get(ctx, feed.Path)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, decodeError(resp)
	}

	parsed, err := gofeed.NewParser().Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parsing feed: %w", err)
	}

	return parsed, nil
}

func (c *Client) getJSON(ctx context.Context, path string, v any) error {
	resp, err := c.Get(ctx, path)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return decodeError(resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decoding %s: %w", path, err)
	}

	return nil
}

// decodeError turns a non-200 response into an *APIError, reading the JSON
// envelope when the body has one.
func decodeError(resp *http.Response) error {
	apiErr := &APIError{Status: resp.StatusCode}

	var envelope dto.ErrorResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxErrorBody)).Decode(&envelope); err == nil {
		apiErr.Code = envelope.Error.Code
		apiErr.Message = envelope.Error.Message
		apiErr.TraceID = envelope.TraceID
	}

	return apiErr
}
