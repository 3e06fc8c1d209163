// Package config defines the navkeep-server configuration.
//
//   - spec.go: ServerConfig struct definition
//   - default.go: default values
//   - verify.go: validation (addresses, paths, key material, policy)
//   - sanitize.go: masking for safe logging
//
// Configuration is loaded via internal/infra/confloader from a YAML
// file and NAVKEEP_* environment variables.
package config
