// Command stackdist-entrypoint is the ENTRYPOINT of the distribution image.
//
// It selects the run configuration from RUN_CONFIG_PATH, DISTRO_NAME or the
// built-in default and starts the server with it. Flags are not parsed:
// every argument is forwarded to the server unchanged, and the server's exit
// code becomes this process's exit code.
package main

import (
	"context"
	"os"

	"github.com/tsingmao/stackdist/internal/entrypoint"
)

func main() {
	os.Exit(entrypoint.New().Run(context.Background(), os.Args[1:]))
}
