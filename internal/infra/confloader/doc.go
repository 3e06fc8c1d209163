// Package confloader loads NavKeep configuration.
//
// Built on koanf. Sources are merged in priority order (highest wins):
//
//  1. Explicit overrides (maps, typically CLI flags)
//  2. Environment variables (NAVKEEP_*)
//  3. Configuration file (YAML)
//
// Environment variables map onto config paths with a double underscore
// between sections and single underscores kept inside key names:
// NAVKEEP_POLICY__DEFAULT_ROUTE becomes policy.default_route.
//
// The companion Watcher reloads nothing by itself; it only reports
// file changes. The daemon uses it to hot-reload the log level.
// Everything behavioral is fixed at start.
package confloader
