package domain

import "fmt"

// Outcome is the action a restoration decision asks the navigation
// layer to take.
type Outcome string

// Decision outcomes.
const (
	// OutcomeNoRestore means stay on the normal entry flow.
	OutcomeNoRestore Outcome = "no_restore"

	// OutcomeRestore means silently navigate back to Decision.Route.
	OutcomeRestore Outcome = "restore"

	// OutcomeFallback means navigate to the safe default route.
	OutcomeFallback Outcome = "fallback_home"
)

// Reason is the machine-readable rule that produced a decision.
type Reason string

// Decision reasons, one per policy rule.
const (
	// ReasonNoSnapshot: nothing persisted, or the record was discarded.
	ReasonNoSnapshot Reason = "no_snapshot"

	// ReasonStale: the background interval exceeded the maximum.
	ReasonStale Reason = "stale"

	// ReasonAlreadyDefault: the saved route is the default route.
	ReasonAlreadyDefault Reason = "already_default"

	// ReasonUnsafeRoute: the saved route is not restoration-safe.
	ReasonUnsafeRoute Reason = "unsafe_route"

	// ReasonEligible: all checks passed, restore the saved route.
	ReasonEligible Reason = "eligible"
)

// Decision is the result of evaluating the restoration policy on a
// foreground transition. It is a pure value: emitting it is the
// monitor's job, acting on it is the navigation layer's.
type Decision struct {
	// Outcome selects the action.
	Outcome Outcome `json:"outcome"`

	// Route is the navigation target: the saved route for a restore,
	// the default route for a fallback, empty for no_restore.
	Route string `json:"route,omitempty"`

	// Reason names the policy rule that fired.
	Reason Reason `json:"reason"`
}

// NoRestore builds a stay-on-entry-flow decision.
func NoRestore(reason Reason) Decision {
	return Decision{Outcome: OutcomeNoRestore, Reason: reason}
}

// RestoreTo builds a decision to silently return to route.
func RestoreTo(route string) Decision {
	return Decision{Outcome: OutcomeRestore, Route: route, Reason: ReasonEligible}
}

// FallbackHome builds a decision to land on the default route.
func FallbackHome(defaultRoute string, reason Reason) Decision {
	return Decision{Outcome: OutcomeFallback, Route: defaultRoute, Reason: reason}
}

// ShouldNavigate reports whether the decision requires a navigation.
func (d Decision) ShouldNavigate() bool {
	return d.Outcome == OutcomeRestore || d.Outcome == OutcomeFallback
}

// String renders the decision for logs.
func (d Decision) String() string {
	if d.Route == "" {
		return fmt.Sprintf("%s (%s)", d.Outcome, d.Reason)
	}
	return fmt.Sprintf("%s -> %s (%s)", d.Outcome, d.Route, d.Reason)
}
