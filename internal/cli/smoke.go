package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/bour278/bourbaki/internal/adapters/clients"
)

// ErrSmokeFailed is returned when a running server disagrees with itself.
var ErrSmokeFailed = errors.New("smoke test failed")

func newSmokeCommand() *cobra.Command {
	var (
		baseURL string
		timeout time.Duration
	)

	cmd := &cobra.Command{
		Use:   "smoke",
		Short: "Check a running blog server end to end",
		Long: `smoke checks readiness, lists posts, fetches each one by slug and verifies
that category counts and the RSS feed agree with the listing.`,
		Args: cobra.NoArgs,
		// The server under test owns its configuration.
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := clients.New(&clients.Config{
				BaseURL: baseURL,
				Timeout: timeout,
			})
			if err != nil {
				return err
			}

			return runSmoke(cmd.Context(), client, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&baseURL, "url", "http://localhost:5000", "server base URL")
	cmd.Flags().DurationVar(&timeout, "timeout", 10*time.Second, "per-request timeout")

	return cmd
}

func runSmoke(ctx context.Context, client *clients.Client, w io.Writer) error {
	if err := client.Ready(ctx); err != nil {
		return fmt.Errorf("%w: readiness: %w", ErrSmokeFailed, err)
	}

	fmt.Fprintf(w, "ok    %s/-/ready\n", client.BaseURL())

	posts, err := client.ListPosts(ctx, clients.ListQuery{})
	if err != nil {
		return fmt.Errorf("%w: listing posts: %w", ErrSmokeFailed, err)
	}

	fmt.Fprintf(w, "ok    /api/posts (%d posts)\n", len(posts))

	for _, p := range posts {
		detail, err := client.GetPost(ctx, p.Slug)
		if err != nil {
			return fmt.Errorf("%w: post %q: %w", ErrSmokeFailed, p.Slug, err)
		}

		if detail.ID != p.ID {
			return fmt.Errorf("%w: post %q has id %d in the list and %d in detail", ErrSmokeFailed, p.Slug, p.ID, detail.ID)
		}
	}

	fmt.Fprintf(w, "ok    /api/posts/:slug (%d fetched)\n", len(posts))

	categories, err := client.Categories(ctx)
	if err != nil {
		return fmt.Errorf("%w: categories: %w", ErrSmokeFailed, err)
	}

	total := 0
	for _, n := range categories {
		total += n
	}

	if total != len(posts) {
		return fmt.Errorf("%w: categories count %d posts, listing has %d", ErrSmokeFailed, total, len(posts))
	}

	fmt.Fprintf(w, "ok    /api/categories (%d categories)\n", len(categories))

	parsed, err := client.Feed(ctx)
	if err != nil {
		return fmt.Errorf("%w: feed: %w", ErrSmokeFailed, err)
	}

	if len(parsed.Items) != len(posts) {
		return fmt.Errorf("%w: feed has %d items, listing has %d", ErrSmokeFailed, len(parsed.Items), len(posts))
	}

	fmt.Fprintf(w, "ok    /feed.xml (%d items)\n", len(parsed.Items))

	return nil
}
