// Package config defines the local configuration for navkeep-cli.
//
// The CLI reads defaults from ~/.navkeep/cli.yaml; command-line flags
// and NAVKEEP_* environment variables always win over the file.
package config
