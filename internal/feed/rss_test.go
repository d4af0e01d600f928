package feed

import (
	"bytes"
	"encoding/xml"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/mmcdole/gofeed"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bour278/bourbaki/internal/domain"
)

func testPosts() []*domain.Post {
	return []*domain.Post{
		{
			Slug:        "black-scholes",
			Title:       "Black & Scholes <revisited>",
			Excerpt:     "Pricing with a PDE...",
			Category:    "Finance",
			PublishDate: time.Date(2024, 5, 2, 9, 0, 0, 0, time.UTC),
		},
		{
			Slug:        "knights-tour",
			Title:       "A Knight's Tour",
			Excerpt:     "Warnsdorff's rule",
			Category:    "Puzzles",
			PublishDate: time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC),
		},
	}
}

func newTestGenerator() *Generator {
	return NewGenerator(Config{
		Title:       "Notes",
		Description: "Mathematics, TCS & puzzles",
		Language:    "en-US",
		Author:      "me@example.com (Me)",
	})
}

// wellFormed walks every token so any syntax error surfaces.
func wellFormed(t *testing.T, doc []byte) {
	t.Helper()

	dec := xml.NewDecoder(bytes.NewReader(doc))
	for {
		_, err := dec.Token()
		if errors.Is(err, io.EOF) {
			return
		}
		require.NoError(t, err)
	}
}

func TestGenerate_OneItemPerPost(t *testing.T) {
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	doc, err := newTestGenerator().Generate(testPosts(), "https://blog.example.com/", now)
	require.NoError(t, err)

	wellFormed(t, doc)
	assert.True(t, bytes.HasPrefix(doc, []byte("<?xml")))

	parsed, err := gofeed.NewParser().ParseString(string(doc))
	require.NoError(t, err)

	assert.Equal(t, "rss", parsed.FeedType)
	assert.Equal(t, "2.0", parsed.FeedVersion)
	assert.Equal(t, "Notes", parsed.Title)
	assert.Equal(t, "https://blog.example.com", parsed.Link)
	assert.Equal(t, "en-US", parsed.Language)

	require.Len(t, parsed.Items, 2)

	first := parsed.Items[0]
	assert.Equal(t, "Black & Scholes <revisited>", first.Title)
	assert.Equal(t, "https://blog.example.com/blog/black-scholes", first.Link)
	assert.Equal(t, "https://blog.example.com/blog/black-scholes", first.GUID)
	assert.Equal(t, "Pricing with a PDE...", first.Description)
	assert.Equal(t, []string{"Finance"}, first.Categories)
	require.NotNil(t, first.PublishedParsed)
	assert.True(t, first.PublishedParsed.Equal(testPosts()[0].PublishDate))
}

func TestGenerate_LastBuildDate(t *testing.T) {
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	doc, err := newTestGenerator().Generate(testPosts(), "http://localhost:5000", now)
	require.NoError(t, err)
	assert.Contains(t, string(doc), "<lastBuildDate>Thu, 02 May 2024 09:00:00 +0000</lastBuildDate>")

	empty, err := newTestGenerator().Generate(nil, "http://localhost:5000", now)
	require.NoError(t, err)
	wellFormed(t, empty)
	assert.Contains(t, string(empty), "<lastBuildDate>Sat, 01 Jun 2024 00:00:00 +0000</lastBuildDate>")
	assert.NotContains(t, string(empty), "<item>")
}

func TestPostURL(t *testing.T) {
	assert.Equal(t, "http://x/blog/a", PostURL("http://x/", "a"))
	assert.Equal(t, "http://x/blog/a", PostURL("http://x", "a"))
}
