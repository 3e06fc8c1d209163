// Package logger provides structured logging for NavKeep.
//
// It wraps log/slog with JSON output by default, a globally adjustable
// level, and automatic redaction of sensitive attributes before they
// reach any handler:
//
//   - logger.go: slog wrapper, level control, default logger
//   - context.go: context propagation of loggers and request IDs
//   - redact.go: masking of admin tokens and secret-looking fields
//
// The level can be changed at runtime through SetLevel; the config
// watcher uses this to apply log level edits without a restart.
package logger
