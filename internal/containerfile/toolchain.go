package containerfile

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

//go:generate mockgen -source=toolchain.go -destination=../mock/runner_mock.go -package=mock

// Runner executes the external tools the build depends on.
type Runner interface {
	// LookPath reports where an executable is on PATH.
	LookPath(file string) (string, error)

	// Output runs name in dir and returns its stdout.
	Output(ctx context.Context, dir, name string, args ...string) ([]byte, error)
}

// ExecRunner is the Runner backed by os/exec.
type ExecRunner struct{}

// LookPath implements Runner.
func (ExecRunner) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

// Output implements Runner. A non-zero exit is returned as a *CommandError
// carrying the captured stderr.
func (ExecRunner) Output(ctx context.Context, dir, name string, args ...string) ([]byte, error) {
	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	cmd.Stderr = &stderr

	out, err := cmd.Output()
	if err != nil {
		return out, &CommandError{
			Command: strings.Join(append([]string{name}, args...), " "),
			Stdout:  string(out),
			Stderr:  stderr.String(),
			Err:     err,
		}
	}
	return out, nil
}

// CommandError describes a failed external command.
type CommandError struct {
	Command string
	Stdout  string
	Stderr  string
	Err     error
}

func (e *CommandError) Error() string {
	msg := fmt.Sprintf("%s: %v", e.Command, e.Err)
	if s := strings.TrimSpace(e.Stderr); s != "" {
		msg += "\nstderr: " + s
	}
	return msg
}

func (e *CommandError) Unwrap() error { return e.Err }

// ErrCommandNotFound is returned by Require when a tool is missing.
var ErrCommandNotFound = errors.New("command not found")

// Require checks that command is on PATH. When pkg is set the error tells
// the user which package provides it.
func Require(r Runner, command, pkg string) error {
	if _, err := r.LookPath(command); err != nil {
		if pkg != "" {
			return fmt.Errorf("%w: %s. Please run uv pip install %s", ErrCommandNotFound, command, pkg)
		}
		return fmt.Errorf("%w: %s. Please install it", ErrCommandNotFound, command)
	}
	return nil
}
