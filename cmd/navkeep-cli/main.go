// Package main provides the entry point for navkeep-cli.
//
// navkeep-cli is the command-line management tool for NavKeep. It
// inspects navigation state and restoration decisions, resets
// persisted state, and downloads diagnostic bundles from a running
// navkeep-server.
package main

import (
	"fmt"
	"os"

	"github.com/yndnr/navkeep-go/internal/cli/command"
)

func main() {
	app := command.App()

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
