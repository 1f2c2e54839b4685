package app

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tsingmao/stackdist/internal/buildinfo"
	"github.com/tsingmao/stackdist/internal/config"
	"github.com/tsingmao/stackdist/internal/distro"
	"github.com/tsingmao/stackdist/internal/logger"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewStackdistCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestNewStackdistCommand_Subcommands(t *testing.T) {
	cmd := NewStackdistCommand()

	var names []string
	for _, c := range cmd.Commands() {
		names = append(names, c.Name())
	}
	assert.Subset(t, names, []string{"run", "docs", "containerfile", "smoke", "version"})

	run, _, err := cmd.Find([]string{"run"})
	require.NoError(t, err)
	assert.True(t, run.DisableFlagParsing)
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "Version:    "+buildinfo.Version)
	assert.Contains(t, out, "llama-stack: "+config.DefaultStackVersion)

	out, err = execute(t, "version", "--short")
	require.NoError(t, err)
	assert.Equal(t, buildinfo.Version+"\n", out)
}

// writeRepo creates a minimal distribution directory.
func writeRepo(t *testing.T) config.Layout {
	t.Helper()
	layout := config.NewLayout(t.TempDir())
	require.NoError(t, os.MkdirAll(filepath.Join(layout.Root, config.DistributionDir), 0o755))

	files := map[string]string{
		layout.Containerfile(): "FROM base\nRUN uv pip install llama-stack==0.3.5\n",
		layout.RunYAML():       "providers:\n  inference:\n  - provider_id: vllm\n    provider_type: remote::vllm\n",
		layout.BuildYAML():     "distribution_spec:\n  providers: {}\n",
	}
	for path, content := range files {
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return layout
}

func TestDocsCommand(t *testing.T) {
	layout := writeRepo(t)

	_, err := execute(t, "--root", layout.Root, "docs", "--check")
	require.ErrorIs(t, err, distro.ErrReadmeOutOfDate)
	assert.Contains(t, err.Error(), "stackdist docs")

	_, err = execute(t, "--root", layout.Root, "docs")
	require.NoError(t, err)
	readme, err := os.ReadFile(layout.Readme())
	require.NoError(t, err)
	assert.Contains(t, string(readme), "| inference | remote::vllm | No | ✅ | N/A |")

	_, err = execute(t, "--root", layout.Root, "docs", "--check")
	assert.NoError(t, err)
}

func TestDocsCommand_CheckAndWatchExclusive(t *testing.T) {
	_, err := execute(t, "docs", "--check", "--watch")
	assert.Error(t, err)
}

func TestRunCommand_ExitCode(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("uses POSIX true/false")
	}
	t.Setenv("RUN_CONFIG_PATH", "")
	t.Setenv("DISTRO_NAME", "starter")

	t.Setenv("LLAMA_STACK_LAUNCHER", "true")
	_, err := execute(t, "run", "--port", "8322")
	assert.NoError(t, err)

	t.Setenv("LLAMA_STACK_LAUNCHER", "false")
	_, err = execute(t, "run")
	var exitErr *ExitError
	require.True(t, errors.As(err, &exitErr))
	assert.Equal(t, 1, exitErr.Code)
	assert.Equal(t, "exit status 1", exitErr.Error())
}

func TestRunCommand_GlobalFlagsBeforeSubcommand(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("uses a POSIX shell script as launcher")
	}
	t.Cleanup(func() { logger.SetDebug(false) })

	dir := t.TempDir()
	argvFile := filepath.Join(dir, "argv")
	script := filepath.Join(dir, "launcher.sh")
	require.NoError(t, os.WriteFile(script, []byte("#!/bin/sh\nprintf '%s|' \"$@\" > "+argvFile+"\n"), 0o755))

	t.Setenv("RUN_CONFIG_PATH", "")
	t.Setenv("DISTRO_NAME", "starter")
	t.Setenv("LLAMA_STACK_LAUNCHER", script)

	_, err := execute(t, "-v", "--root", dir, "run", "--port", "8322")
	require.NoError(t, err)

	argv, err := os.ReadFile(argvFile)
	require.NoError(t, err)
	assert.Equal(t, "starter|--port|8322|", string(argv))
	assert.True(t, logger.IsDebug())
}

func TestApplySmokeFlags(t *testing.T) {
	opts := &SmokeOptions{GlobalOptions: &GlobalOptions{}}
	cmd := NewSmokeCommand(opts.GlobalOptions)
	require.NoError(t, cmd.ParseFlags([]string{"--model", "llama3", "--timeout", "30s", "-e", "A=1", "-e", "B=2"}))

	// NewSmokeCommand keeps its options private; rebuild them from the parsed flags.
	cmdOpts := &SmokeOptions{GlobalOptions: opts.GlobalOptions}
	cmdOpts.Model, _ = cmd.Flags().GetString("model")
	cmdOpts.Timeout, _ = cmd.Flags().GetDuration("timeout")
	cmdOpts.Env, _ = cmd.Flags().GetStringArray("env")

	cfg := config.NewDefaultConfig().Smoke
	cfg.Env = []string{"FROM_ENV=1"}
	applySmokeFlags(cmd, cmdOpts, &cfg)

	assert.Equal(t, "llama3", cfg.InferenceModel)
	assert.Equal(t, 30*time.Second, cfg.Timeout)
	assert.Equal(t, config.DefaultSmokeImage, cfg.Image)
	assert.Equal(t, config.DefaultServerPort, cfg.Port)
	assert.Equal(t, []string{"FROM_ENV=1", "A=1", "B=2"}, cfg.Env)
}
