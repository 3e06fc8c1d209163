// Package command provides CLI command definitions for navkeep-cli.
//
// This package defines all CLI commands using urfave/cli/v2:
//
//   - root.go: Root command and global flags
//   - state.go: Show the current navigation state
//   - decisions.go: Inspect the restoration decision journal
//   - reset.go: Clear persisted state and journal
//   - export.go: Download a diagnostic bundle
//   - config.go: Configuration inspection and validation
//   - system.go: Health and version checks
//
// Commands follow a consistent pattern of parsing flags, calling the
// server, and formatting output.
package command
