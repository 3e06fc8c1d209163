// Package shutdown coordinates graceful termination of the NavKeep
// daemon.
//
// The daemon registers cleanup hooks in startup order; on SIGINT,
// SIGTERM, or a programmatic Trigger they run in reverse order under a
// shared timeout. The last failing hook's error is reported, but every
// hook runs regardless.
package shutdown
