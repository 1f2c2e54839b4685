//go:build unix

package entrypoint

import (
	"os"
	"syscall"

	"golang.org/x/sys/unix"
)

// forwardedSignals are relayed from the entrypoint to a supervised child.
var forwardedSignals = []os.Signal{unix.SIGINT, unix.SIGTERM, unix.SIGHUP, unix.SIGQUIT, unix.SIGUSR1, unix.SIGUSR2}

// terminateSignal is sent to the child when the entrypoint's context ends.
var terminateSignal os.Signal = unix.SIGTERM

// execReplace replaces the current process image with path.
// It only returns on failure.
func execReplace(path string, argv, env []string) error {
	return unix.Exec(path, argv, env)
}

// terminatingSignal returns the signal number that killed the process.
func terminatingSignal(state *os.ProcessState) (int, bool) {
	ws, ok := state.Sys().(syscall.WaitStatus)
	if !ok || !ws.Signaled() {
		return 0, false
	}
	return int(ws.Signal()), true
}
