package app

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/tsingmao/stackdist/internal/config"
	"github.com/tsingmao/stackdist/internal/logger"
	"github.com/tsingmao/stackdist/internal/smoke"
)

// SmokeOptions holds options for the smoke command
type SmokeOptions struct {
	*GlobalOptions

	Image   string
	Port    int
	Timeout time.Duration
	Model   string
	VLLMURL string
	Chat    bool
	Env     []string
}

// NewSmokeCommand creates the smoke command.
//
// The smoke command starts the distribution image, waits for the server to
// report healthy and checks that the inference model is served.
//
// Usage:
//
//	stackdist smoke [flags]
//
// Parameters:
//   - globalOpts: Global options shared across commands
//
// Returns:
//   - A configured cobra.Command for smoke testing the image
func NewSmokeCommand(globalOpts *GlobalOptions) *cobra.Command {
	opts := &SmokeOptions{
		GlobalOptions: globalOpts,
	}

	cmd := &cobra.Command{
		Use:   "smoke",
		Short: "Smoke test the distribution image",
		Long: `Start the distribution image and check that it serves.

The container is started with INFERENCE_MODEL and VLLM_URL set, and its
server port is published on --port. The test passes once GET /v1/health
reports OK and GET /v1/models lists the model. With --chat a chat completion
must also return content. The container is removed afterwards; on failure
its logs are printed.

Every flag defaults to the matching SMOKE_* / INFERENCE_MODEL / VLLM_URL
environment variable.`,
		Example: `  # Test the local build against a vLLM server
  stackdist smoke --model llama-3-2-3b --vllm-url http://host.docker.internal:8000/v1

  # Also run a chat completion
  stackdist smoke --model llama-3-2-3b --chat`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSmoke(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Image, "image", "",
		"image to test (default: $SMOKE_IMAGE or "+config.DefaultSmokeImage+")")
	cmd.Flags().IntVar(&opts.Port, "port", 0,
		"host port for the server (default: $SMOKE_PORT or 8321)")
	cmd.Flags().DurationVar(&opts.Timeout, "timeout", 0,
		"how long to wait for the server to become healthy (default: $SMOKE_TIMEOUT or 5m)")
	cmd.Flags().StringVar(&opts.Model, "model", "",
		"model that must be served (default: $INFERENCE_MODEL)")
	cmd.Flags().StringVar(&opts.VLLMURL, "vllm-url", "",
		"vLLM endpoint passed to the container (default: $VLLM_URL)")
	cmd.Flags().BoolVar(&opts.Chat, "chat", false,
		"also run a chat completion (default: $SMOKE_CHAT)")
	cmd.Flags().StringArrayVarP(&opts.Env, "env", "e", nil,
		"extra KEY=VALUE for the container (repeatable, added to $SMOKE_ENV)")

	return cmd
}

// applySmokeFlags overrides cfg with the flags the user set.
func applySmokeFlags(cmd *cobra.Command, opts *SmokeOptions, cfg *config.SmokeConfig) {
	flags := cmd.Flags()
	if flags.Changed("image") {
		cfg.Image = opts.Image
	}
	if flags.Changed("port") {
		cfg.Port = opts.Port
	}
	if flags.Changed("timeout") {
		cfg.Timeout = opts.Timeout
	}
	if flags.Changed("model") {
		cfg.InferenceModel = opts.Model
	}
	if flags.Changed("vllm-url") {
		cfg.VLLMURL = opts.VLLMURL
	}
	if flags.Changed("chat") {
		cfg.Chat = opts.Chat
	}
	cfg.Env = append(cfg.Env, opts.Env...)
}

// runSmoke executes the smoke command logic.
func runSmoke(cmd *cobra.Command, opts *SmokeOptions) error {
	ctx, cancel := signalContext(cmd.Context())
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	applySmokeFlags(cmd, opts, &cfg.Smoke)

	docker, err := smoke.NewDockerClient(ctx)
	if err != nil {
		return err
	}
	defer docker.Close()

	if err := smoke.NewRunner(docker).Run(ctx, smoke.OptionsFromConfig(cfg.Smoke)); err != nil {
		return err
	}
	logger.Info("Smoke test passed for %s", cfg.Smoke.Image)
	return nil
}
