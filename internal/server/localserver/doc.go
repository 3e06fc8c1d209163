// Package localserver provides the Unix-socket host bridge.
//
// An embedding application shell drives the engine through a local
// socket with newline-delimited commands, no HTTP stack required:
//
//	EVENT active|inactive|background   queue a lifecycle notification
//	ROUTE <name>                       report a route change
//	STATE                              dump the diagnostic state view
//	PING                               liveness check
//
// Replies are single lines: "OK" with an optional detail, a JSON
// object for STATE, or "ERR <code> <message>". Access control is the
// socket file's permissions; there is no in-band authentication.
package localserver
