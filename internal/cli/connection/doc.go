// Package connection provides server connectivity for navkeep-cli.
//
// Two transports are supported:
//
//   - http.go: HTTP client for the diagnostics and admin API
//   - socket.go: Unix socket client for the local host bridge
//
// The HTTP client speaks the standard JSON response envelope; the
// socket client speaks the newline-delimited bridge protocol.
package connection
