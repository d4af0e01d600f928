//go:build integration

package integration

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/bour278/bourbaki/internal/adapters/clients"
	"github.com/bour278/bourbaki/internal/adapters/http/handlers"
	"github.com/bour278/bourbaki/internal/app"
)

// TestContentPipeline_Report verifies what the loader makes of the fixture
// directory.
func TestContentPipeline_Report(t *testing.T) {
	_, report, err := newFixtureEngine(fixtureDir)
	require.NoError(t, err)

	assert.ElementsMatch(t,
		[]string{"fermat-little-theorem", "kelly-criterion", "turing-halting"},
		report.Loaded)
	assert.Empty(t, report.Overwritten)

	reasons := map[string]string{}
	for _, s := range report.Skipped {
		reasons[s.File] = s.Reason
	}

	assert.Equal(t, map[string]string{
		"broken.md":     app.SkipMalformed,
		"unfinished.md": app.SkipDraft,
	}, reasons)
}

// TestContentPipeline_PostDetail verifies derived fields end to end.
func TestContentPipeline_PostDetail(t *testing.T) {
	engine, _, err := newFixtureEngine(fixtureDir)
	require.NoError(t, err)

	server := httptest.NewServer(engine)
	defer server.Close()

	resp, err := http.Get(server.URL + "/api/posts/fermat-little-theorem")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	var post handlers.PostDetailResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&post))

	assert.Equal(t, "Fermat's little theorem", post.Title)
	assert.Equal(t, "A first proof by counting necklaces", post.Subtitle)
	assert.Equal(t, "Mathematics", post.Category)
	assert.Equal(t, 1, post.ReadingTime)
	assert.NotEmpty(t, post.Excerpt)
	assert.Contains(t, post.HTML, "math")
	require.NotNil(t, post.Metadata)
	assert.Equal(t, []string{"number-theory", "classics"}, post.Metadata.Tags)
}

// TestConcurrent_Reads verifies that many concurrent readers see the same
// listing through the retrying client.
func TestConcurrent_Reads(t *testing.T) {
	engine, _, err := newFixtureEngine(fixtureDir)
	require.NoError(t, err)

	server := httptest.NewServer(engine)
	defer server.Close()

	client, err := clients.New(&clients.Config{BaseURL: server.URL})
	require.NoError(t, err)

	const numGoroutines = 50

	g, ctx := errgroup.WithContext(context.Background())
	for i := range numGoroutines {
		g.Go(func() error {
			switch i % 4 {
			case 0:
				posts, err := client.ListPosts(ctx, clients.ListQuery{})
				if err != nil {
					return err
				}
				if len(posts) != 3 {
					return fmt.Errorf("reader %d saw %d posts", i, len(posts))
				}
			case 1:
				if _, err := client.GetPost(ctx, "turing-halting"); err != nil {
					return err
				}
			case 2:
				categories, err := client.Categories(ctx)
				if err != nil {
					return err
				}
				if categories["Finance"] != 1 {
					return fmt.Errorf("reader %d saw categories %v", i, categories)
				}
			default:
				parsed, err := client.Feed(ctx)
				if err != nil {
					return err
				}
				if len(parsed.Items) != 3 {
					return fmt.Errorf("reader %d saw %d feed items", i, len(parsed.Items))
				}
			}

			return nil
		})
	}

	require.NoError(t, g.Wait())
}

// TestConcurrent_ContextCancellation verifies that cancelled readers give up
// without waiting for retries.
func TestConcurrent_ContextCancellation(t *testing.T) {
	engine, _, err := newFixtureEngine(fixtureDir)
	require.NoError(t, err)

	server := httptest.NewServer(engine)
	defer server.Close()

	client, err := clients.New(&clients.Config{BaseURL: server.URL})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var g errgroup.Group
	for range 10 {
		g.Go(func() error {
			_, err := client.ListPosts(ctx, clients.ListQuery{})
			if err == nil {
				return fmt.Errorf("expected cancellation error")
			}

			return nil
		})
	}

	require.NoError(t, g.Wait())
}
