// Command stackdist maintains and runs the inference distribution image.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/tsingmao/stackdist/cmd/stackdist/app"
)

func main() {
	cmd := app.NewStackdistCommand()
	if err := cmd.Execute(); err != nil {
		// The wrapped server already reported its own failure.
		var exitErr *app.ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.Code)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
