package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bour278/bourbaki/internal/app"
	"github.com/bour278/bourbaki/internal/feed"
	"github.com/bour278/bourbaki/internal/platform/config"
)

func newFeedCommand(g *globals) *cobra.Command {
	var baseURL string

	cmd := &cobra.Command{
		Use:   "feed",
		Short: "Render the RSS feed to stdout",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, _, err := g.loadPosts(cmd.Context())
			if err != nil {
				return err
			}

			base := baseURL
			if base == "" {
				base = g.cfg.Feed.BaseURL
			}

			if base == "" {
				base = config.DefaultFeedBaseURL
			}

			service := app.NewBlogService(app.BlogServiceConfig{
				Posts: store,
				Feed: feed.NewGenerator(feed.Config{
					Title:       g.cfg.Feed.Title,
					Description: g.cfg.Feed.Description,
					Language:    g.cfg.Feed.Language,
					Author:      g.cfg.Feed.Author,
				}),
				Logger: g.logger,
			})

			doc, err := service.Feed(cmd.Context(), base)
			if err != nil {
				return fmt.Errorf("rendering feed: %w", err)
			}

			_, err = cmd.OutOrStdout().Write(doc)

			return err
		},
	}

	cmd.Flags().StringVar(&baseURL, "base-url", "", "public root used for item links (default feed.base_url)")

	return cmd
}
