//go:build unix

package entrypoint

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLauncher_SignalExitCode(t *testing.T) {
	l, _, _ := newTestLauncher(0)
	sh, err := lookShell()
	require.NoError(t, err)

	// sh kills itself with SIGTERM (15).
	code := l.Launch(context.Background(), []string{sh, "-c", "kill -TERM $$"})

	assert.Equal(t, 128+15, code)
}

func TestLauncher_ContextCancelTerminatesChild(t *testing.T) {
	l, _, _ := newTestLauncher(0)
	sh, err := lookShell()
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	code := l.Launch(ctx, []string{sh, "-c", "exec sleep 30"})

	assert.Equal(t, 128+15, code)
}

func TestLauncher_ForwardsSignals(t *testing.T) {
	sh, err := lookShell()
	require.NoError(t, err)

	tests := []struct {
		name string
		sig  syscall.Signal
		trap string
		want int
	}{
		{name: "TERM", sig: syscall.SIGTERM, trap: "TERM", want: 7},
		{name: "HUP", sig: syscall.SIGHUP, trap: "HUP", want: 8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Keep the default action from killing the test binary until the
			// launcher has registered its own handler.
			guard := make(chan os.Signal, 16)
			signal.Notify(guard, tt.sig)
			defer signal.Stop(guard)

			r, w, err := os.Pipe()
			require.NoError(t, err)
			defer r.Close()
			defer w.Close()

			l := &Launcher{Stdin: strings.NewReader(""), Stdout: w, Stderr: w}
			script := "trap 'kill $! 2>/dev/null; exit " + strconv.Itoa(tt.want) + "' " + tt.trap +
				"; sleep 30 & echo ready; wait"

			done := make(chan int, 1)
			go func() {
				done <- l.Launch(context.Background(), []string{sh, "-c", script})
			}()

			ready := make(chan error, 1)
			go func() {
				line, err := bufio.NewReader(r).ReadString('\n')
				if err == nil && line != "ready\n" {
					err = errors.New("unexpected output: " + line)
				}
				ready <- err
			}()
			select {
			case err := <-ready:
				require.NoError(t, err)
			case code := <-done:
				t.Fatalf("child exited early with code %d", code)
			case <-time.After(10 * time.Second):
				t.Fatal("child did not start")
			}

			// Resend until the launcher's handler is in place and the child
			// reacts; later copies reach an already exited child and are
			// dropped.
			ticker := time.NewTicker(50 * time.Millisecond)
			defer ticker.Stop()
			deadline := time.After(10 * time.Second)
			require.NoError(t, syscall.Kill(os.Getpid(), tt.sig))
			for {
				select {
				case code := <-done:
					assert.Equal(t, tt.want, code)
					return
				case <-ticker.C:
					require.NoError(t, syscall.Kill(os.Getpid(), tt.sig))
				case <-deadline:
					t.Fatal("signal was not forwarded to the child")
				}
			}
		})
	}
}

func TestEntrypoint_ExecReplacesProcess(t *testing.T) {
	launcher := helperLauncher(t)

	cmd := exec.Command(launcher[0], append(launcher[1:], "--port", "8321")...)
	cmd.Env = append(helperEnv(5),
		"HELPER_MODE=exec",
		"ENTRYPOINT_EXEC=true",
		"ENTRYPOINT_DEBUG=",
		"RUN_CONFIG_PATH=",
		"DISTRO_NAME=starter",
		"LLAMA_STACK_LAUNCHER="+strings.Join(launcher, " "),
	)
	var stdout bytes.Buffer
	cmd.Stdout = &stdout

	err := cmd.Run()

	var exitErr *exec.ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 5, exitErr.ExitCode())

	// The launched server reports the pid of the process that was started,
	// so the handoff replaced it instead of forking a child.
	lines := strings.Split(stdout.String(), "\n")
	require.NotEmpty(t, lines)
	assert.Equal(t, "pid="+strconv.Itoa(cmd.Process.Pid), lines[0])
	assert.Equal(t, []string{"starter", "--port", "8321"}, lines[1:])
}

func lookShell() (string, error) {
	for _, p := range []string{"/bin/sh", "/usr/bin/sh"} {
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}
	return "", os.ErrNotExist
}
