package app

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/tsingmao/stackdist/internal/buildinfo"
	"github.com/tsingmao/stackdist/internal/config"
)

// VersionOptions holds options for the version command
type VersionOptions struct {
	*GlobalOptions

	// Short prints only the version number
	Short bool
}

// NewVersionCommand creates the version command.
//
// The version command displays build information for the stackdist binary
// and the llama-stack version the Containerfile targets by default.
//
// Usage:
//
//	stackdist version [--short]
//
// Parameters:
//   - globalOpts: Global options shared across commands
//
// Returns:
//   - A configured cobra.Command for displaying version info
func NewVersionCommand(globalOpts *GlobalOptions) *cobra.Command {
	opts := &VersionOptions{
		GlobalOptions: globalOpts,
	}

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Display version information",
		Example: `  # Show full version information
  stackdist version

  # Show only the version number
  stackdist version --short`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVersion(cmd.OutOrStdout(), opts)
		},
	}

	cmd.Flags().BoolVar(&opts.Short, "short", false,
		"show the version number only")

	return cmd
}

// runVersion executes the version command logic.
func runVersion(w io.Writer, opts *VersionOptions) error {
	info := buildinfo.Get()
	if opts.Short {
		fmt.Fprintln(w, info.Version)
		return nil
	}

	fmt.Fprintln(w, "stackdist:")
	fmt.Fprintf(w, "  Version:    %s\n", info.Version)
	fmt.Fprintf(w, "  Build Time: %s\n", info.BuildTime)
	fmt.Fprintf(w, "  Git Commit: %s\n", info.Commit)
	fmt.Fprintf(w, "  Go Version: %s\n", info.GoVersion)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Defaults:")
	fmt.Fprintf(w, "  llama-stack: %s\n", config.DefaultStackVersion)
	fmt.Fprintf(w, "  Run config:  %s\n", config.DefaultRunConfigPath)
	return nil
}
