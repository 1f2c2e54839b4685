package app

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tsingmao/stackdist/internal/distro"
)

// DocsOptions holds options for the docs command
type DocsOptions struct {
	*GlobalOptions

	// Check fails instead of writing when the README is stale
	Check bool

	// Watch regenerates the README whenever an input changes
	Watch bool
}

// NewDocsCommand creates the docs command.
//
// The docs command regenerates distribution/README.md from run.yaml,
// build.yaml and the Containerfile.
//
// Usage:
//
//	stackdist docs [--check | --watch]
//
// Parameters:
//   - globalOpts: Global options shared across commands
//
// Returns:
//   - A configured cobra.Command for generating the README
func NewDocsCommand(globalOpts *GlobalOptions) *cobra.Command {
	opts := &DocsOptions{
		GlobalOptions: globalOpts,
	}

	cmd := &cobra.Command{
		Use:   "docs",
		Short: "Generate the distribution README",
		Long: `Generate distribution/README.md.

The README shows the llama-stack version installed by the Containerfile and
a table of every provider configured in run.yaml, whether it is installed
from an external package and how to enable it.

With --check nothing is written; the command fails if the README is out of
date. This is what the pre-commit hook runs.`,
		Example: `  # Regenerate the README
  stackdist docs

  # Fail if the README is stale
  stackdist docs --check

  # Keep the README up to date while editing
  stackdist docs --watch`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDocs(cmd, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.Check, "check", false,
		"fail if the README is out of date instead of writing it")
	cmd.Flags().BoolVar(&opts.Watch, "watch", false,
		"regenerate the README whenever an input changes")
	cmd.MarkFlagsMutuallyExclusive("check", "watch")

	return cmd
}

// runDocs executes the docs command logic.
func runDocs(cmd *cobra.Command, opts *DocsOptions) error {
	ctx, cancel := signalContext(cmd.Context())
	defer cancel()

	layout := opts.Layout()
	gen := distro.NewGenerator(layout)

	if opts.Check {
		err := gen.Check(ctx)
		if errors.Is(err, distro.ErrReadmeOutOfDate) {
			return fmt.Errorf("%w: run 'stackdist docs' to update %s", err, layout.Readme())
		}
		return err
	}

	if err := gen.Write(ctx); err != nil {
		return err
	}
	if opts.Watch {
		return gen.Watch(ctx)
	}
	return nil
}
