// Package metric provides Prometheus metrics for NavKeep.
//
// All metrics live under the "navkeep" namespace:
//
//   - prometheus.go: the Metrics set (state, lifecycle and HTTP
//     subsystems) and the /metrics handler
//   - collector.go: build info and uptime collector
//
// Storage engine metrics are registered separately by the engine
// itself; see BadgerEngine.RegisterMetrics.
package metric
