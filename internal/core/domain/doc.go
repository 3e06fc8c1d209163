// Package domain defines the core domain models for NavKeep.
//
// Domain models are pure value objects and entities without any
// IO dependencies or framework coupling. This package contains:
//
//   - NavigationState: The canonical navigation entity
//   - Decision: Restoration decision value object with outcome and reason
//   - Phase: The two-state lifecycle vocabulary and event parsing
//   - DecisionRecord: Durable journal entry for an emitted decision
//   - Errors: Domain-specific error definitions
//
// All mutation helpers on NavigationState are pure with respect to
// time: callers inject the clock reading.
package domain
