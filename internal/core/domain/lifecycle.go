package domain

// Phase is one of the two lifecycle states the engine tracks. Host
// platforms report richer lifecycles; everything collapses to these
// two for restoration purposes.
type Phase string

// Lifecycle phases.
const (
	PhaseActive     Phase = "active"
	PhaseBackground Phase = "background"
)

// Host event names accepted by ParseLifecycleEvent. "inactive" and
// "background" are distinct host states but the same edge here.
const (
	EventActive     = "active"
	EventInactive   = "inactive"
	EventBackground = "background"
)

// ParseLifecycleEvent maps a host lifecycle notification onto the
// two-phase model. Unknown events return NK-LIFE-4000; callers log
// and drop them rather than guessing an edge.
func ParseLifecycleEvent(event string) (Phase, error) {
	switch event {
	case EventActive:
		return PhaseActive, nil
	case EventInactive, EventBackground:
		return PhaseBackground, nil
	default:
		return "", ErrUnknownLifecycleEvent.WithDetails("event: " + event)
	}
}

// Valid reports whether p is one of the two known phases.
func (p Phase) Valid() bool {
	return p == PhaseActive || p == PhaseBackground
}
