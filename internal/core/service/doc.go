// Package service contains the NavKeep engine.
//
// StateService owns the canonical navigation state, in memory and at
// rest; it is the only component that mutates it. LifecycleMonitor is
// the edge-triggered machine on top: host lifecycle notifications and
// route changes enter through one ordered queue, background edges
// snapshot the state, foreground edges load it, run the restoration
// policy and emit the decision.
//
// The host-facing surface never raises for persistence or lifecycle
// failures. Worst case the user starts on the default screen; the
// failure lands in the log and the metrics instead.
package service
