// Command cavity simulates a passively mode-locked fiber laser cavity.
package main

import (
	"fmt"
	"os"

	"github.com/roach88/cavity/internal/cli"
)

func main() {
	cmd := cli.NewRootCommand()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(cli.GetExitCode(err))
	}
}
