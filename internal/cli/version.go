package cli

import (
	"encoding/json"
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

func newVersionCommand(build BuildInfo) *cobra.Command {
	var (
		short      bool
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		// Version needs no configuration.
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		RunE: func(cmd *cobra.Command, _ []string) error {
			w := cmd.OutOrStdout()

			if short {
				fmt.Fprintln(w, build.Version)
				return nil
			}

			if jsonOutput {
				enc := json.NewEncoder(w)
				enc.SetIndent("", "  ")

				return enc.Encode(map[string]string{
					"version":   build.Version,
					"commit":    build.Commit,
					"built":     build.BuildTime,
					"goVersion": runtime.Version(),
				})
			}

			fmt.Fprintf(w, "bourbakictl version %s\n", build.Version)
			fmt.Fprintf(w, "  commit:     %s\n", build.Commit)
			fmt.Fprintf(w, "  built:      %s\n", build.BuildTime)
			fmt.Fprintf(w, "  go version: %s\n", runtime.Version())

			return nil
		},
	}

	cmd.Flags().BoolVar(&short, "short", false, "print version string only")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "output as JSON")

	return cmd
}
