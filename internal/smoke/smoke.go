// Package smoke starts a built distribution image and checks that the
// server inside it comes up and serves the configured model.
//
// A run creates a uniquely named container, polls the health endpoint until
// it reports "OK", then verifies the model list and optionally a chat
// completion. The container is always stopped and removed afterwards, and
// its logs are attached to any failure.
package smoke

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/tsingmao/stackdist/internal/config"
	"github.com/tsingmao/stackdist/internal/logger"
)

const (
	// ContainerPrefix prefixes every smoke container name.
	ContainerPrefix = "stackdist-smoke-"

	// DefaultPollInterval is the delay between health checks.
	DefaultPollInterval = 2 * time.Second

	// requestTimeout bounds a single HTTP request.
	requestTimeout = 30 * time.Second

	// chatTimeout bounds the chat completion, which runs real inference.
	chatTimeout = 2 * time.Minute

	// cleanupTimeout bounds stop and remove after the run.
	cleanupTimeout = time.Minute

	// stopTimeout is how long the container gets to exit before being killed.
	stopTimeout = 10

	// logTail is how many log lines are attached to a failure.
	logTail = "200"
)

// ErrContainerExited is returned when the container stops before it is healthy.
var ErrContainerExited = errors.New("container exited")

// Options configure a smoke run.
type Options struct {
	// Image is the distribution image under test.
	Image string

	// Port is the host port bound to the server port.
	Port int

	// Timeout bounds the wait for a healthy server.
	Timeout time.Duration

	// PollInterval is the delay between health checks.
	PollInterval time.Duration

	// Model must be listed by the server. Empty skips the model checks.
	Model string

	// VLLMURL is passed to the container as VLLM_URL when set.
	VLLMURL string

	// Chat enables the chat completion check.
	Chat bool

	// Env holds extra KEY=VALUE pairs for the container.
	Env []string
}

// OptionsFromConfig converts the smoke configuration into run options.
func OptionsFromConfig(cfg config.SmokeConfig) Options {
	return Options{
		Image:        cfg.Image,
		Port:         cfg.Port,
		Timeout:      cfg.Timeout,
		PollInterval: DefaultPollInterval,
		Model:        cfg.InferenceModel,
		VLLMURL:      cfg.VLLMURL,
		Chat:         cfg.Chat,
		Env:          cfg.Env,
	}
}

// containerEnv returns the environment passed to the container.
func (o Options) containerEnv() []string {
	var env []string
	if o.Model != "" {
		env = append(env, "INFERENCE_MODEL="+o.Model)
	}
	if o.VLLMURL != "" {
		env = append(env, "VLLM_URL="+o.VLLMURL)
	}
	return append(env, o.Env...)
}

func (o Options) validate() error {
	if o.Image == "" {
		return errors.New("image is required")
	}
	if o.Port <= 0 || o.Port > 65535 {
		return fmt.Errorf("invalid port %d", o.Port)
	}
	if o.Timeout <= 0 {
		return fmt.Errorf("invalid timeout %s", o.Timeout)
	}
	if o.Chat && o.Model == "" {
		return errors.New("chat check requires a model")
	}
	return nil
}

// Runner executes smoke runs.
type Runner struct {
	// Containers is the container engine.
	Containers ContainerAPI

	// Host is where the mapped port is reachable. Empty means "localhost".
	Host string
}

// NewRunner returns a Runner using containers.
func NewRunner(containers ContainerAPI) *Runner {
	return &Runner{Containers: containers, Host: "localhost"}
}

// Run performs one smoke run.
//
// Parameters:
//   - ctx: cancels the run; cleanup still happens
//   - opts: what to start and what to check
//
// Returns:
//   - nil when every check passed
//   - Error wrapping ErrUnhealthy, ErrContainerExited, ErrModelNotListed or
//     ErrEmptyCompletion, with the container logs appended
func (r *Runner) Run(ctx context.Context, opts Options) error {
	if opts.PollInterval <= 0 {
		opts.PollInterval = DefaultPollInterval
	}
	if err := opts.validate(); err != nil {
		return fmt.Errorf("invalid smoke options: %w", err)
	}
	log := logger.With("smoke")

	if n, err := r.Containers.RemoveStale(ctx); err != nil {
		logger.Warn("Could not remove stale smoke containers: %v", err)
	} else if n > 0 {
		logger.Info("Removed %d stale smoke container(s)", n)
	}

	name := ContainerPrefix + uuid.NewString()[:8]
	logger.Info("Starting %s as %s on port %d", opts.Image, name, opts.Port)
	id, err := r.Containers.Create(ctx, ContainerSpec{
		Name:     name,
		Image:    opts.Image,
		Env:      opts.containerEnv(),
		HostPort: opts.Port,
		Labels:   map[string]string{LabelSmoke: "true"},
	})
	if err != nil {
		return err
	}
	defer r.cleanup(id)

	if err := r.Containers.Start(ctx, id); err != nil {
		return r.withLogs(id, err)
	}

	server := NewServerClient(r.baseURL(opts.Port), requestTimeout)
	start := time.Now()
	if err := r.waitHealthy(ctx, id, server, opts); err != nil {
		return r.withLogs(id, err)
	}
	log.Info().Dur("elapsed", time.Since(start)).Msg("server healthy")

	if opts.Model == "" {
		logger.Warn("No inference model configured, skipping model checks")
		return nil
	}
	if err := server.RequireModel(ctx, opts.Model); err != nil {
		return r.withLogs(id, err)
	}
	logger.Info("Model %s is listed", opts.Model)

	if opts.Chat {
		chatCtx, cancel := context.WithTimeout(ctx, chatTimeout)
		defer cancel()
		reply, err := server.Chat(chatCtx, opts.Model)
		if err != nil {
			return r.withLogs(id, err)
		}
		log.Debug().Str("reply", reply).Msg("chat completion")
		logger.Info("Chat completion succeeded")
	}
	return nil
}

func (r *Runner) baseURL(port int) string {
	host := r.Host
	if host == "" {
		host = "localhost"
	}
	return fmt.Sprintf("http://%s:%d", host, port)
}

// waitHealthy polls the health endpoint until it reports OK, the container
// exits or opts.Timeout elapses.
func (r *Runner) waitHealthy(ctx context.Context, id string, server *ServerClient, opts Options) error {
	ctx, cancel := context.WithTimeout(ctx, opts.Timeout)
	defer cancel()

	ticker := time.NewTicker(opts.PollInterval)
	defer ticker.Stop()

	var lastErr error
	for {
		if lastErr = server.Health(ctx); lastErr == nil {
			return nil
		}
		logger.Debug("Waiting for server: %v", lastErr)

		state, err := r.Containers.State(ctx, id)
		if err == nil && !state.Running {
			return fmt.Errorf("%w: %s", ErrContainerExited, state.Describe())
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("%w within %s: %v", ErrUnhealthy, opts.Timeout, lastErr)
		case <-ticker.C:
		}
	}
}

// withLogs appends the container logs to err.
func (r *Runner) withLogs(id string, err error) error {
	ctx, cancel := context.WithTimeout(context.Background(), cleanupTimeout)
	defer cancel()

	logs, logErr := r.Containers.Logs(ctx, id, logTail)
	if logErr != nil {
		logger.Warn("Could not collect container logs: %v", logErr)
		return err
	}
	return fmt.Errorf("%w\n--- container logs ---\n%s", err, logs)
}

// cleanup stops and removes the container. It does not use the run context,
// which may already be cancelled.
func (r *Runner) cleanup(id string) {
	ctx, cancel := context.WithTimeout(context.Background(), cleanupTimeout)
	defer cancel()

	if err := r.Containers.Stop(ctx, id, stopTimeout); err != nil {
		logger.Debug("Stop failed, removing anyway: %v", err)
	}
	if err := r.Containers.Remove(ctx, id); err != nil {
		logger.Warn("Failed to remove container %s: %v", id, err)
		return
	}
	logger.Debug("Removed container %s", id)
}
