// Package cli implements bourbakictl, the offline companion to the blog
// server: it validates the content directory, renders the feed without a
// server and smoke-tests a deployment.
package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/bour278/bourbaki/internal/adapters/memory"
	"github.com/bour278/bourbaki/internal/app"
	"github.com/bour278/bourbaki/internal/content"
	"github.com/bour278/bourbaki/internal/platform/config"
	"github.com/bour278/bourbaki/internal/platform/logging"
)

// BuildInfo is injected by main.
type BuildInfo struct {
	Version   string
	Commit    string
	BuildTime string
}

// globals holds persistent flag values and what PersistentPreRunE derives
// from them.
type globals struct {
	configDir string
	profile   string
	dir       string
	logLevel  string
	drafts    bool

	cfg    *config.Config
	logger *slog.Logger
}

// NewRootCommand builds a fresh command tree.
func NewRootCommand(build BuildInfo) *cobra.Command {
	g := &globals{}

	root := &cobra.Command{
		Use:   "bourbakictl",
		Short: "Tools for the Bourbaki blog",
		Long: `bourbakictl works on the same configuration and content directory as the
blog server.

Example usage:
  bourbakictl check                     # parse every post, report skipped files
  bourbakictl check -o yaml --strict    # machine-readable, fail on any skip
  bourbakictl feed --base-url https://blog.example.org > feed.xml
  bourbakictl smoke --url http://localhost:5000`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return g.init(cmd)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&g.configDir, "config-dir", "", "directory holding base.yaml and profile files (default \"configs\")")
	flags.StringVarP(&g.profile, "profile", "p", "local", "configuration profile")
	flags.StringVarP(&g.dir, "dir", "d", "", "content directory, overriding content.dir")
	flags.StringVar(&g.logLevel, "log-level", "warn", "log level: trace, debug, info, warn, error")
	flags.BoolVar(&g.drafts, "drafts", false, "include posts marked draft")

	root.AddCommand(
		newCheckCommand(g),
		newFeedCommand(g),
		newSmokeCommand(),
		newVersionCommand(build),
	)

	return root
}

// Execute runs the CLI with os.Args.
func Execute(ctx context.Context, build BuildInfo) error {
	return NewRootCommand(build).ExecuteContext(ctx)
}

func (g *globals) init(cmd *cobra.Command) error {
	if g.configDir != "" {
		config.ConfigDir = g.configDir
	}

	cfg, err := config.Load(g.profile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if g.dir != "" {
		cfg.Content.Dir = g.dir
	}

	if g.drafts {
		cfg.Content.IncludeDrafts = true
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	g.cfg = cfg
	g.logger = logging.NewWithWriter(&logging.Config{
		Level:   g.logLevel,
		Format:  "pretty",
		Service: "bourbakictl",
		Version: cfg.App.Version,
	}, cmd.ErrOrStderr())

	return nil
}

// loadPosts runs the content loader against a fresh in-memory store.
func (g *globals) loadPosts(ctx context.Context) (*memory.PostStore, *app.LoadReport, error) {
	store := memory.NewPostStore()

	loader := app.NewContentLoader(app.ContentLoaderConfig{
		Dir:           g.cfg.Content.Dir,
		IncludeDrafts: g.cfg.Content.IncludeDrafts,
		Processor: content.NewProcessor(content.Options{
			ExcerptLength:  g.cfg.Content.ExcerptLength,
			WordsPerMinute: g.cfg.Content.WordsPerMinute,
			Sanitize:       g.cfg.Content.Sanitize,
		}),
		Repository: store,
		Logger:     g.logger,
	})

	report, err := loader.Load(ctx)
	if err != nil {
		return nil, nil, err
	}

	return store, report, nil
}
