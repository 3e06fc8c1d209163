// Package httpserver provides the diagnostics and ingest HTTP API for
// navkeep-server.
//
// Read endpoints expose what support needs (/state, /decisions,
// /health, /metrics); ingest endpoints let a host shell drive the
// engine over loopback HTTP (/events/lifecycle, /events/route); the
// admin surface (/admin/v1/*) is mounted only when an admin token is
// configured and is guarded by bearer authentication.
//
// All JSON responses share one envelope. The middleware chain is
// RequestID, Recover, instrumentation, then per-IP rate limiting; the
// admin chain adds bearer auth in front.
package httpserver
