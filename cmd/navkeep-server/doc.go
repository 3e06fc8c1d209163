// Package main provides the entry point for navkeep-server.
//
// The server is the NavKeep sidecar daemon. It hosts the navigation
// state engine and exposes:
//
//   - an HTTP API for diagnostics and event ingest
//   - a Unix-socket host bridge for the embedding shell
//   - Prometheus metrics
//
// Usage:
//
//	navkeep-server [flags]
//	navkeep-server --config /path/to/config.yaml
//
// The server loads configuration, opens storage, re-hydrates the last
// persisted navigation state, and starts all configured listeners.
package main
