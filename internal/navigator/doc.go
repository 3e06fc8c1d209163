// Package navigator is the reference navigation controller: a route
// registry plus the glue that consumes restoration decisions.
//
// The engine treats navigation as an external concern; this package is
// the in-process consumer used by the daemon and by tests. It owns the
// "current screen" notion, validates route parameters, and applies
// decisions with a fallback to the default route so a bad target never
// strands the user.
package navigator
