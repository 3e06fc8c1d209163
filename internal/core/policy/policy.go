package policy

import (
	"time"

	"github.com/yndnr/navkeep-go/internal/core/domain"
	"github.com/yndnr/navkeep-go/pkg/routeset"
)

// DefaultMaxBackground is the staleness threshold applied when the
// configuration does not set one.
const DefaultMaxBackground = 15 * time.Minute

// Config is the restoration policy configuration. It is fixed at
// engine construction; there is no runtime mutation path.
type Config struct {
	// MaxBackgroundFor is the longest background interval after which
	// the saved route is considered stale. The boundary is inclusive:
	// an interval of exactly MaxBackgroundFor still restores.
	MaxBackgroundFor time.Duration

	// DefaultRoute is the safe landing route for fallbacks.
	DefaultRoute string

	// SafeRoutes is the allow-list of routes eligible for silent
	// restoration. The default route itself never needs to be listed:
	// rule 3 short-circuits before membership is consulted.
	SafeRoutes routeset.Set
}

// Validate checks the configuration for use.
func (c Config) Validate() error {
	if c.DefaultRoute == "" {
		return domain.ErrMissingArgument.WithDetails("default route is required")
	}
	if err := domain.ValidateRouteName(c.DefaultRoute); err != nil {
		return err
	}
	if c.MaxBackgroundFor < 0 {
		return domain.ErrInvalidArgument.WithDetails("max background duration must not be negative")
	}
	return nil
}

// withDefaults fills unset fields.
func (c Config) withDefaults() Config {
	if c.MaxBackgroundFor == 0 {
		c.MaxBackgroundFor = DefaultMaxBackground
	}
	return c
}

// Decide evaluates the restoration rules against a loaded snapshot.
// state is the persisted snapshot, nil when none exists; now is the
// instant of the foreground transition.
func Decide(state *domain.NavigationState, now time.Time, cfg Config) domain.Decision {
	cfg = cfg.withDefaults()

	// 1. Fresh install, reset, or discarded snapshot.
	if state == nil || !state.HasRoute() {
		return domain.NoRestore(domain.ReasonNoSnapshot)
	}

	// 2. Stale: too long in the background. A negative elapsed means
	// the wall clock moved backwards; that is not staleness.
	if state.BackgroundFor(now) > cfg.MaxBackgroundFor {
		return domain.FallbackHome(cfg.DefaultRoute, domain.ReasonStale)
	}

	// 3. Already on the default route; a restore would be a no-op.
	if state.CurrentRoute == cfg.DefaultRoute {
		return domain.NoRestore(domain.ReasonAlreadyDefault)
	}

	// 4. Routes outside the allow-list never restore silently.
	if !cfg.SafeRoutes.Contains(state.CurrentRoute) {
		return domain.FallbackHome(cfg.DefaultRoute, domain.ReasonUnsafeRoute)
	}

	// 5. Recent, safe, and somewhere other than home.
	return domain.RestoreTo(state.CurrentRoute)
}
