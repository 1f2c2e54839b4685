//go:build !unix

package entrypoint

import "os"

var forwardedSignals = []os.Signal{os.Interrupt}

var terminateSignal = os.Kill

func execReplace(string, []string, []string) error {
	return errExecUnsupported
}

func terminatingSignal(*os.ProcessState) (int, bool) {
	return 0, false
}
