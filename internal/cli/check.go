package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/bour278/bourbaki/internal/app"
)

// ErrContentIssues is returned by check --strict when any file was skipped
// or a slug was defined twice.
var ErrContentIssues = errors.New("content has issues")

func newCheckCommand(g *globals) *cobra.Command {
	var (
		output string
		strict bool
	)

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Parse every post and report what would be served",
		Long: `check runs the same pipeline as server start-up: frontmatter, excerpt,
reading time and HTML rendering. Files the server would skip are listed
with the reason.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if output != "text" && output != "yaml" {
				return fmt.Errorf("unknown output format %q (want text or yaml)", output)
			}

			_, report, err := g.loadPosts(cmd.Context())
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if output == "yaml" {
				enc := yaml.NewEncoder(w)
				enc.SetIndent(2)

				if err := enc.Encode(report); err != nil {
					return fmt.Errorf("encoding report: %w", err)
				}

				if err := enc.Close(); err != nil {
					return fmt.Errorf("encoding report: %w", err)
				}
			} else {
				writeTextReport(w, report)
			}

			if strict && (len(report.Skipped) > 0 || len(report.Overwritten) > 0) {
				return fmt.Errorf("%w: %d skipped, %d overwritten",
					ErrContentIssues, len(report.Skipped), len(report.Overwritten))
			}

			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "text", "output format: text or yaml")
	cmd.Flags().BoolVar(&strict, "strict", false, "exit non-zero when any file is skipped or overwritten")

	return cmd
}

func writeTextReport(w io.Writer, r *app.LoadReport) {
	fmt.Fprintf(w, "%d posts loaded from %s in %s\n", len(r.Loaded), r.Dir, r.Duration.Round(time.Millisecond))

	for _, slug := range r.Loaded {
		fmt.Fprintf(w, "  ok    %s\n", slug)
	}

	for _, s := range r.Skipped {
		line := fmt.Sprintf("  skip  %s (%s)", s.File, s.Reason)
		if s.Detail != "" {
			line += ": " + strings.TrimSpace(s.Detail)
		}

		fmt.Fprintln(w, line)
	}

	for _, slug := range r.Overwritten {
		fmt.Fprintf(w, "  dup   %s defined more than once, last file wins\n", slug)
	}
}
