package domain

import (
	"strings"
	"time"
)

// Navigation state constraints.
const (
	MaxRouteNameLength  = 256
	MaxRouteParamKey    = 64
	MaxRouteParamValue  = 1024
	DefaultHistoryLimit = 32
	MinHistoryLimit     = 1
	MaxHistoryLimit     = 1024
)

// NavigationState is the single canonical record of where the user is in
// the app. Exactly one live instance exists per process; the state
// service owns all mutation.
type NavigationState struct {
	// CurrentRoute is the active route name. Empty only before the
	// first navigation of a fresh install.
	CurrentRoute string `json:"current_route"`

	// RouteHistory holds recently visited routes, most recent last.
	// Bounded; oldest entries are evicted first. Diagnostics only:
	// restoration decisions never read it.
	RouteHistory []string `json:"route_history"`

	// LastActiveAt is the last activity timestamp (Unix milliseconds).
	// In memory it is stamped on foreground transitions; the persisted
	// snapshot stamps it at the moment of backgrounding so the elapsed
	// background interval can be measured on return.
	LastActiveAt int64 `json:"last_active_at"`

	// WasInBackground reports whether the app has been backgrounded at
	// least once since launch. Persisted verbatim; reset per launch.
	WasInBackground bool `json:"was_in_background"`
}

// NewNavigationState returns an empty state for a fresh launch.
func NewNavigationState() *NavigationState {
	return &NavigationState{
		RouteHistory: make([]string, 0, DefaultHistoryLimit),
	}
}

// VisitRoute records a navigation to route. The history is appended
// most-recent-last and trimmed to limit with oldest-first eviction.
// A route equal to the current one is a no-op: reporting the same
// screen twice in a row must not inflate the history. Returns true if
// the state changed.
func (s *NavigationState) VisitRoute(route string, limit int) bool {
	if route == "" || route == s.CurrentRoute {
		return false
	}
	s.CurrentRoute = route
	s.RouteHistory = append(s.RouteHistory, route)
	if limit < MinHistoryLimit {
		limit = MinHistoryLimit
	}
	if excess := len(s.RouteHistory) - limit; excess > 0 {
		s.RouteHistory = append(s.RouteHistory[:0], s.RouteHistory[excess:]...)
	}
	return true
}

// MarkActive stamps the activity timestamp for a foreground transition.
func (s *NavigationState) MarkActive(now time.Time) {
	s.LastActiveAt = now.UnixMilli()
}

// MarkBackground stamps the activity timestamp at the backgrounding
// instant and latches WasInBackground.
func (s *NavigationState) MarkBackground(now time.Time) {
	s.LastActiveAt = now.UnixMilli()
	s.WasInBackground = true
}

// BackgroundFor returns how long the state has been inactive relative
// to now. Negative when the clock moved backwards across the gap;
// callers treat that as not stale.
func (s *NavigationState) BackgroundFor(now time.Time) time.Duration {
	return now.Sub(time.UnixMilli(s.LastActiveAt))
}

// LastActiveTime returns LastActiveAt as time.Time.
func (s *NavigationState) LastActiveTime() time.Time {
	return time.UnixMilli(s.LastActiveAt)
}

// HasRoute reports whether the app has navigated at least once.
func (s *NavigationState) HasRoute() bool {
	return s.CurrentRoute != ""
}

// Clone creates a deep copy of the state.
func (s *NavigationState) Clone() *NavigationState {
	clone := *s
	if s.RouteHistory != nil {
		clone.RouteHistory = make([]string, len(s.RouteHistory))
		copy(clone.RouteHistory, s.RouteHistory)
	}
	return &clone
}

// Validate validates the state fields against constraints.
// Returns a DomainError with code NK-STATE-4001 if validation fails.
func (s *NavigationState) Validate() error {
	var violations []string

	if s.CurrentRoute != "" {
		if err := ValidateRouteName(s.CurrentRoute); err != nil {
			violations = append(violations, "current_route: "+err.Error())
		}
	}
	if len(s.RouteHistory) > MaxHistoryLimit {
		violations = append(violations, "route_history exceeds maximum length")
	}
	for _, r := range s.RouteHistory {
		if err := ValidateRouteName(r); err != nil {
			violations = append(violations, "route_history: "+err.Error())
			break
		}
	}
	if s.LastActiveAt < 0 {
		violations = append(violations, "last_active_at must not be negative")
	}

	if len(violations) > 0 {
		return ErrStateValidation.WithDetails(strings.Join(violations, "; "))
	}
	return nil
}

// ValidateRouteName checks a route name against naming constraints.
// Route names are opaque identifiers; the engine only requires that
// they are non-empty, bounded, and line-protocol safe.
func ValidateRouteName(name string) error {
	if name == "" {
		return ErrRouteInvalid.WithDetails("route name is empty")
	}
	if len(name) > MaxRouteNameLength {
		return ErrRouteInvalid.WithDetails("route name exceeds 256 characters")
	}
	if strings.ContainsAny(name, "\r\n\t ") {
		return ErrRouteInvalid.WithDetails("route name contains whitespace")
	}
	for _, r := range name {
		if r < 0x20 || r == 0x7f {
			return ErrRouteInvalid.WithDetails("route name contains control characters")
		}
	}
	return nil
}
