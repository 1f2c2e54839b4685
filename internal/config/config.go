// Package config provides configuration management for stackdist.
//
// This package handles all configuration-related functionality including:
//   - Entrypoint settings (run configuration selection, launcher command)
//   - Repository layout (distribution/ inputs and generated files)
//   - Build and smoke-test settings for the distribution image
//
// Values come from the process environment (caarlos0/env) and are merged over
// built-in defaults with mergo. Command-line flags are applied on top by the
// cobra commands in cmd/stackdist/app.
package config

import (
	"fmt"
	"strings"
	"time"

	"dario.cat/mergo"
)

const (
	// DefaultRunConfigPath is the run configuration baked into the image.
	// It is the last-resort selection and is never checked for existence.
	DefaultRunConfigPath = "/opt/app-root/run.yaml"

	// DefaultLauncher is the command that starts the wrapped server.
	// The resolved run configuration is appended as its first argument.
	DefaultLauncher = "llama stack run"

	// DefaultStackVersion is the llama-stack version the Containerfile targets
	// unless LLAMA_STACK_VERSION overrides it.
	DefaultStackVersion = "v0.4.0+rhai0"

	// DefaultSmokeImage is the image tag produced by the local build.
	DefaultSmokeImage = "localhost/distribution:latest"

	// DefaultServerPort is the port the wrapped server listens on.
	DefaultServerPort = 8321

	// DefaultSmokeTimeout bounds how long the smoke test waits for health.
	DefaultSmokeTimeout = 5 * time.Minute
)

// EntrypointConfig is the environment consumed by the container entrypoint.
type EntrypointConfig struct {
	// RunConfigPath is an explicit run configuration file. It is only used
	// when the file exists.
	RunConfigPath string `env:"RUN_CONFIG_PATH"`

	// DistroName selects a named built-in distribution. Passed through to the
	// launcher uninterpreted.
	DistroName string `env:"DISTRO_NAME"`

	// Launcher is the space-separated launcher command prefix.
	Launcher string `env:"LLAMA_STACK_LAUNCHER"`

	// Exec replaces the current process image instead of supervising a child.
	Exec bool `env:"ENTRYPOINT_EXEC"`

	// Debug enables debug-level logging.
	Debug bool `env:"ENTRYPOINT_DEBUG"`
}

// LauncherArgs splits Launcher into argv form.
func (c *EntrypointConfig) LauncherArgs() []string {
	return strings.Fields(c.Launcher)
}

// BuildConfig holds settings for Containerfile generation.
type BuildConfig struct {
	// StackVersion is the llama-stack version or git ref to install.
	StackVersion string `env:"LLAMA_STACK_VERSION"`
}

// SmokeConfig holds settings for the image smoke test.
type SmokeConfig struct {
	// Image is the distribution image under test.
	Image string `env:"SMOKE_IMAGE"`

	// Port is the host port mapped to the server port inside the container.
	Port int `env:"SMOKE_PORT"`

	// Timeout bounds the wait for a healthy server.
	Timeout time.Duration `env:"SMOKE_TIMEOUT"`

	// InferenceModel is the model id that must be listed by /v1/models.
	InferenceModel string `env:"INFERENCE_MODEL"`

	// VLLMURL points the container at a remote vLLM endpoint.
	VLLMURL string `env:"VLLM_URL"`

	// Chat enables the chat completion check.
	Chat bool `env:"SMOKE_CHAT"`

	// Env holds extra KEY=VALUE pairs passed to the container.
	Env []string `env:"SMOKE_ENV" envSeparator:","`
}

// Config represents the complete application configuration.
type Config struct {
	Entrypoint EntrypointConfig
	Build      BuildConfig
	Smoke      SmokeConfig
}

// NewDefaultConfig creates a new configuration instance with default values.
//
// Returns:
//   - A pointer to a newly created Config with default values.
func NewDefaultConfig() *Config {
	return &Config{
		Entrypoint: EntrypointConfig{
			Launcher: DefaultLauncher,
		},
		Build: BuildConfig{
			StackVersion: DefaultStackVersion,
		},
		Smoke: SmokeConfig{
			Image:   DefaultSmokeImage,
			Port:    DefaultServerPort,
			Timeout: DefaultSmokeTimeout,
		},
	}
}

// Load builds the configuration from the environment, filling anything the
// environment leaves unset from NewDefaultConfig.
//
// Returns:
//   - The merged configuration
//   - Error if an environment value cannot be parsed
func Load() (*Config, error) {
	cfg := &Config{}
	if err := parseEnv(cfg); err != nil {
		return nil, err
	}
	if err := mergo.Merge(cfg, NewDefaultConfig()); err != nil {
		return nil, fmt.Errorf("error merging configs: %w", err)
	}
	return cfg, nil
}

// LoadEntrypoint loads only the entrypoint section.
//
// The entrypoint never fails because of its own configuration: if the
// environment cannot be parsed the defaults are returned together with the
// parse error so the caller can log it and continue.
func LoadEntrypoint() (*EntrypointConfig, error) {
	cfg := &EntrypointConfig{}
	parseErr := parseEnv(cfg)
	if err := mergo.Merge(cfg, NewDefaultConfig().Entrypoint); err != nil {
		return nil, fmt.Errorf("error merging configs: %w", err)
	}
	return cfg, parseErr
}

// LoadBuild loads only the build section, so an invalid entrypoint or smoke
// value does not stop a Containerfile build.
func LoadBuild() (*BuildConfig, error) {
	cfg := &BuildConfig{}
	if err := parseEnv(cfg); err != nil {
		return nil, err
	}
	if err := mergo.Merge(cfg, NewDefaultConfig().Build); err != nil {
		return nil, fmt.Errorf("error merging configs: %w", err)
	}
	return cfg, nil
}
