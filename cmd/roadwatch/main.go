// Command roadwatch filters traffic-safety records and generates heatmap
// weights from them.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/roach88/roadwatch/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		// Commands report their own errors; cobra usage errors are not.
		var exitErr *cli.ExitError
		if !errors.As(err, &exitErr) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(cli.GetExitCode(err))
	}
}
