// Package routeset provides an immutable set of route names for NavKeep.
//
// The safe-route allow-list is fixed at engine construction and read on
// every foreground transition, so the set is built once and never
// mutated. Immutability makes concurrent reads lock-free and keeps the
// policy referentially transparent.
//
// Usage:
//
//	safe := routeset.New("home", "settings", "profile")
//	if safe.Contains(route) { ... }
//
// Thread Safety:
//
// A Set is safe for concurrent use by multiple goroutines without
// synchronization because it cannot change after New returns.
package routeset
