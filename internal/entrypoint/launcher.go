package entrypoint

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"os/signal"

	"github.com/tsingmao/stackdist/internal/logger"
)

const (
	// ExitNotFound is returned when the launcher binary cannot be found.
	ExitNotFound = 127

	// ExitCannotExecute is returned when the launcher exists but cannot run.
	ExitCannotExecute = 126

	// exitSignalBase is added to the signal number of a killed child.
	exitSignalBase = 128
)

// errExecUnsupported is returned by execReplace on platforms without execve.
var errExecUnsupported = errors.New("process replacement is not supported on this platform")

// Command builds the launcher invocation: the launcher argv, then the
// resolved reference, then every extra argument unchanged and in order.
//
// Parameters:
//   - launcher: launcher argv prefix (e.g. ["llama", "stack", "run"])
//   - sel: the resolved run configuration
//   - args: extra arguments given to the entrypoint
//
// Returns:
//   - A new argv slice; the inputs are not modified
func Command(launcher []string, sel Selection, args []string) []string {
	argv := make([]string, 0, len(launcher)+1+len(args))
	argv = append(argv, launcher...)
	argv = append(argv, sel.Reference)
	argv = append(argv, args...)
	return argv
}

// Launcher starts the wrapped server and reports its exit code.
//
// In the default mode the server runs as a child process: standard streams
// are passed through, termination signals received by the entrypoint are
// forwarded, and the child's exit status becomes the return value. With
// Exec set, the current process image is replaced instead and Launch only
// returns if the replacement failed.
type Launcher struct {
	// Exec selects process replacement over child supervision.
	Exec bool

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	// Env is the child environment. Nil means the current environment.
	Env []string
}

// NewLauncher returns a Launcher wired to the process's standard streams.
func NewLauncher(execMode bool) *Launcher {
	return &Launcher{
		Exec:   execMode,
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}
}

// Launch runs argv and returns the exit code the entrypoint should exit with.
//
// Parameters:
//   - ctx: cancelling ctx sends a termination signal to the child
//   - argv: full invocation, argv[0] is looked up on PATH
//
// Returns:
//   - The child's exit code, 128+signo if it was killed by a signal,
//     127 if argv[0] was not found, 126 if it could not be started
func (l *Launcher) Launch(ctx context.Context, argv []string) int {
	if len(argv) == 0 {
		logger.Error("No launcher command configured")
		return ExitNotFound
	}

	path, err := exec.LookPath(argv[0])
	if err != nil {
		logger.Error("Launcher %q not found: %v", argv[0], err)
		return ExitNotFound
	}

	if l.Exec {
		err := execReplace(path, argv, l.environ())
		if !errors.Is(err, errExecUnsupported) {
			logger.Error("Failed to exec %s: %v", path, err)
			return ExitCannotExecute
		}
		logger.Warn("Process replacement unavailable, supervising %s as a child", path)
	}

	return l.supervise(ctx, path, argv)
}

func (l *Launcher) environ() []string {
	if l.Env != nil {
		return l.Env
	}
	return os.Environ()
}

// supervise runs the launcher as a child and waits for it.
func (l *Launcher) supervise(ctx context.Context, path string, argv []string) int {
	cmd := &exec.Cmd{
		Path:   path,
		Args:   argv,
		Env:    l.environ(),
		Stdin:  l.Stdin,
		Stdout: l.Stdout,
		Stderr: l.Stderr,
	}

	if err := cmd.Start(); err != nil {
		logger.Error("Failed to start %s: %v", path, err)
		return ExitCannotExecute
	}
	logger.Debug("Launcher started: pid=%d", cmd.Process.Pid)

	sigCh := make(chan os.Signal, 4)
	signal.Notify(sigCh, forwardedSignals...)
	defer signal.Stop(sigCh)

	done := make(chan struct{})
	defer close(done)
	go func() {
		for {
			select {
			case sig := <-sigCh:
				logger.Debug("Forwarding %v to pid %d", sig, cmd.Process.Pid)
				_ = cmd.Process.Signal(sig)
			case <-ctx.Done():
				_ = cmd.Process.Signal(terminateSignal)
				return
			case <-done:
				return
			}
		}
	}()

	err := cmd.Wait()
	code := exitCode(cmd.ProcessState)
	if err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			logger.Error("Waiting for %s failed: %v", path, err)
			return ExitCannotExecute
		}
	}
	logger.Debug("Launcher exited with code %d", code)
	return code
}

// exitCode maps a finished process state to a shell-style exit code.
func exitCode(state *os.ProcessState) int {
	if state == nil {
		return ExitCannotExecute
	}
	if code := state.ExitCode(); code >= 0 {
		return code
	}
	if signo, ok := terminatingSignal(state); ok {
		return exitSignalBase + signo
	}
	return exitSignalBase
}

// describe renders an argv for logs.
func describe(argv []string) string {
	return fmt.Sprintf("%q", argv)
}
