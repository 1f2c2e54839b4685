package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tsingmao/stackdist/internal/entrypoint"
	"github.com/tsingmao/stackdist/internal/logger"
)

// ExitError carries a non-zero exit code of the launched server.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit status %d", e.Code)
}

// NewRunCommand creates the run command.
//
// The run command behaves exactly like the image entrypoint: it selects the
// run configuration from the environment and starts the server with it,
// forwarding all arguments. Flag parsing is disabled so that server flags
// pass through untouched.
//
// Usage:
//
//	stackdist run [server args...]
//
// Parameters:
//   - globalOpts: Global options shared across commands
//
// Returns:
//   - A configured cobra.Command for starting the server
func NewRunCommand(globalOpts *GlobalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run [args...]",
		Short: "Select the run configuration and start the server",
		Long: `Select the run configuration and start the server.

The configuration is chosen in this order:
  1. RUN_CONFIG_PATH, if the file exists
  2. DISTRO_NAME, if set
  3. /opt/app-root/run.yaml

The selected reference is passed as the first argument of
LLAMA_STACK_LAUNCHER (default "llama stack run"), followed by every argument
given to this command. The server's exit code is returned.`,
		Example: `  # Start with the image default
  stackdist run

  # Start a named distribution on another port
  DISTRO_NAME=starter stackdist run --port 8322`,
		DisableFlagParsing: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEntrypoint(cmd, globalOpts, args)
		},
	}

	return cmd
}

// runEntrypoint executes the run command logic.
func runEntrypoint(cmd *cobra.Command, opts *GlobalOptions, args []string) error {
	ep := entrypoint.New()
	if opts.Verbose {
		logger.SetDebug(true)
	}
	if code := ep.Run(cmd.Context(), args); code != 0 {
		return &ExitError{Code: code}
	}
	return nil
}
