// Package app provides the command-line interface implementation for stackdist.
//
// This package contains all CLI commands and their implementations, following
// the Kubernetes CLI architecture pattern with cobra. Commands are organized
// hierarchically with a root command and subcommands.
package app

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/tsingmao/stackdist/internal/config"
	"github.com/tsingmao/stackdist/internal/logger"
)

const (
	// cliName is the name of the CLI application
	cliName = "stackdist"

	// cliDescription is the short description shown in help text
	cliDescription = "stackdist - build, check and run the inference distribution image"
)

// GlobalOptions holds options that are common to all commands
type GlobalOptions struct {
	// Root is the repository root containing distribution/
	Root string

	// Verbose enables verbose output
	Verbose bool
}

// Layout returns the repository layout selected by --root.
func (o *GlobalOptions) Layout() config.Layout {
	return config.NewLayout(o.Root)
}

// NewStackdistCommand creates the root stackdist command with all subcommands.
//
// The root command provides the main entry point for the CLI. It sets up
// global flags, configures logging, and registers all subcommands.
//
// Returns:
//   - A configured cobra.Command ready for execution
//
// Example:
//
//	cmd := NewStackdistCommand()
//	if err := cmd.Execute(); err != nil {
//	    os.Exit(1)
//	}
func NewStackdistCommand() *cobra.Command {
	opts := &GlobalOptions{}

	cmd := &cobra.Command{
		Use:   cliName,
		Short: cliDescription,
		Long: `stackdist is the tooling for the Llama Stack distribution image.

It provides the container entrypoint that selects a run configuration and
starts the server, the generators that keep distribution/README.md and
distribution/Containerfile in sync with their inputs, and a smoke test that
starts the built image and checks that it serves.`,
		SilenceUsage:  true,
		SilenceErrors: true,

		// Parse global flags before the subcommand name; run forwards
		// everything after it verbatim.
		TraverseChildren: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if opts.Verbose {
				logger.SetDebug(true)
			}
		},
	}

	// Add global flags
	cmd.PersistentFlags().StringVar(&opts.Root, "root", ".",
		"repository root containing the distribution directory")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false,
		"verbose output")

	// Add subcommands
	cmd.AddCommand(
		NewRunCommand(opts),
		NewDocsCommand(opts),
		NewContainerfileCommand(opts),
		NewSmokeCommand(opts),
		NewVersionCommand(opts),
	)

	return cmd
}

// signalContext returns a context cancelled on SIGINT or SIGTERM.
//
// Long-running maintenance commands use it so that Ctrl-C stops them
// cleanly. The run command does not: it forwards signals to the server.
func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}
