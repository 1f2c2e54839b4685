package app

import (
	"github.com/spf13/cobra"

	"github.com/tsingmao/stackdist/internal/config"
	"github.com/tsingmao/stackdist/internal/containerfile"
	"github.com/tsingmao/stackdist/internal/logger"
)

// ContainerfileOptions holds options for the containerfile command
type ContainerfileOptions struct {
	*GlobalOptions

	// StackVersion overrides LLAMA_STACK_VERSION
	StackVersion string
}

// NewContainerfileCommand creates the containerfile command.
//
// The containerfile command installs the configured llama-stack version,
// lists the dependencies of distribution/config.yaml and renders
// distribution/Containerfile.in into distribution/Containerfile.
//
// Usage:
//
//	stackdist containerfile [--stack-version VERSION]
//
// Parameters:
//   - globalOpts: Global options shared across commands
//
// Returns:
//   - A configured cobra.Command for generating the Containerfile
func NewContainerfileCommand(globalOpts *GlobalOptions) *cobra.Command {
	opts := &ContainerfileOptions{
		GlobalOptions: globalOpts,
	}

	cmd := &cobra.Command{
		Use:   "containerfile",
		Short: "Generate the distribution Containerfile",
		Long: `Generate distribution/Containerfile from distribution/Containerfile.in.

Requires uv and the llama CLI (llama-stack-client) on PATH. The llama-stack
version comes from --stack-version, LLAMA_STACK_VERSION or the built-in
default. Commit hashes and +rhai versions are installed from source.`,
		Example: `  # Generate for the default version
  stackdist containerfile

  # Generate for a specific commit
  stackdist containerfile --stack-version 4f3c2a1`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runContainerfile(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.StackVersion, "stack-version", "",
		"llama-stack version or commit (default: $LLAMA_STACK_VERSION or "+config.DefaultStackVersion+")")

	return cmd
}

// runContainerfile executes the containerfile command logic.
func runContainerfile(cmd *cobra.Command, opts *ContainerfileOptions) error {
	ctx, cancel := signalContext(cmd.Context())
	defer cancel()

	cfg, err := config.LoadBuild()
	if err != nil {
		return err
	}
	version := cfg.StackVersion
	if opts.StackVersion != "" {
		version = opts.StackVersion
	}
	logger.Debug("Using llama-stack version %s", version)

	return containerfile.NewBuilder(opts.Layout(), version).Build(ctx)
}
