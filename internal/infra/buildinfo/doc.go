// Package buildinfo exposes build-time version information for
// NavKeep binaries.
//
// Values are injected via ldflags:
//
//	go build -ldflags "-X github.com/yndnr/navkeep-go/internal/infra/buildinfo.Version=v1.0.0"
//
// The version command, the /health endpoint, and the build-info metric
// collector all read from here so every surface reports the same
// answer.
package buildinfo
