// Package handler provides the HTTP request handlers for
// navkeep-server.
//
// Handlers follow one pattern: parse and validate the request, call
// the engine, wrap the result in the shared response envelope, and map
// domain error codes onto HTTP status codes. Ingest handlers never
// surface engine-internal failures as errors beyond what the engine
// itself reports (a full event queue, an unknown event name).
package handler
