package navigator

import (
	"context"
	"log/slog"
	"sort"
	"sync"

	"github.com/yndnr/navkeep-go/internal/core/domain"
)

// Route describes a registered destination.
type Route struct {
	// Name is the route identifier, e.g. "orders/detail".
	Name string

	// RequiredParams lists parameter keys that must be present and
	// non-empty for Navigate to accept the route.
	RequiredParams []string
}

// ChangeHook is invoked after every successful navigation with the new
// route name. The engine's route-change feed hangs off this.
type ChangeHook func(route string)

// Navigator is a minimal navigation controller. It holds the route
// table and the current position; it renders nothing.
type Navigator struct {
	defaultRoute string
	logger       *slog.Logger

	mu      sync.RWMutex
	routes  map[string]Route
	current string
	params  map[string]string
	hooks   []ChangeHook
}

// New creates a navigator. The default route is registered implicitly
// with no required parameters; it must always be reachable.
func New(defaultRoute string, logger *slog.Logger) (*Navigator, error) {
	if err := domain.ValidateRouteName(defaultRoute); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}

	n := &Navigator{
		defaultRoute: defaultRoute,
		logger:       logger.With("component", "navigator"),
		routes:       make(map[string]Route),
	}
	n.routes[defaultRoute] = Route{Name: defaultRoute}
	return n, nil
}

// Register adds a route to the table. Re-registering a name replaces
// its parameter requirements.
func (n *Navigator) Register(r Route) error {
	if err := domain.ValidateRouteName(r.Name); err != nil {
		return err
	}
	for _, key := range r.RequiredParams {
		if key == "" || len(key) > domain.MaxRouteParamKey {
			return domain.ErrRouteParams.WithDetails("invalid required parameter key for route " + r.Name)
		}
	}

	n.mu.Lock()
	n.routes[r.Name] = r
	n.mu.Unlock()
	return nil
}

// OnRouteChange registers a hook. Hooks run synchronously inside
// Navigate, in registration order, after the position has moved.
func (n *Navigator) OnRouteChange(hook ChangeHook) {
	n.mu.Lock()
	n.hooks = append(n.hooks, hook)
	n.mu.Unlock()
}

// Navigate moves to a registered route. Unknown routes return
// NK-ROUTE-4040; missing or malformed parameters return NK-ROUTE-4001.
// Navigating to the current route refreshes the parameters without
// firing hooks.
func (n *Navigator) Navigate(route string, params map[string]string) error {
	if err := domain.ValidateRouteName(route); err != nil {
		return err
	}

	n.mu.Lock()
	r, ok := n.routes[route]
	if !ok {
		n.mu.Unlock()
		return domain.ErrRouteUnknown.WithDetails("route: " + route)
	}
	if err := checkParams(r, params); err != nil {
		n.mu.Unlock()
		return err
	}

	changed := n.current != route
	n.current = route
	n.params = cloneParams(params)
	hooks := n.hooks
	n.mu.Unlock()

	if !changed {
		return nil
	}

	n.logger.Debug("navigated", "route", route)
	for _, hook := range hooks {
		hook(route)
	}
	return nil
}

// CurrentRoute returns the current route name, empty before the first
// navigation.
func (n *Navigator) CurrentRoute() string {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.current
}

// CurrentParams returns a copy of the current route's parameters.
func (n *Navigator) CurrentParams() map[string]string {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return cloneParams(n.params)
}

// Routes returns the registered route names, sorted.
func (n *Navigator) Routes() []string {
	n.mu.RLock()
	names := make([]string, 0, len(n.routes))
	for name := range n.routes {
		names = append(names, name)
	}
	n.mu.RUnlock()

	sort.Strings(names)
	return names
}

// ApplyDecision acts on a restoration decision. A decided route the
// table rejects degrades to the default route; a no-restore on a cold
// start (no current route yet) lands on the default route too. The
// route actually reached is returned.
func (n *Navigator) ApplyDecision(d domain.Decision) string {
	if !d.ShouldNavigate() {
		if n.CurrentRoute() == "" {
			n.toDefault("cold start")
		}
		return n.CurrentRoute()
	}

	if err := n.Navigate(d.Route, nil); err != nil {
		n.logger.Warn("decided route rejected, using default",
			"route", d.Route,
			"outcome", string(d.Outcome),
			"error", err,
		)
		n.toDefault("rejected restoration target")
	}
	return n.CurrentRoute()
}

// Run consumes a decision stream until ctx is done or the stream
// closes. The daemon runs this in its own goroutine.
func (n *Navigator) Run(ctx context.Context, decisions <-chan domain.Decision) {
	for {
		select {
		case d, ok := <-decisions:
			if !ok {
				return
			}
			n.ApplyDecision(d)
		case <-ctx.Done():
			return
		}
	}
}

func (n *Navigator) toDefault(why string) {
	if err := n.Navigate(n.defaultRoute, nil); err != nil {
		// The default route is registered at construction; this means
		// someone replaced it with parameter requirements.
		n.logger.Error("default route unreachable", "route", n.defaultRoute, "why", why, "error", err)
	}
}

func checkParams(r Route, params map[string]string) error {
	for _, key := range r.RequiredParams {
		if params[key] == "" {
			return domain.ErrRouteParams.WithDetails("route " + r.Name + " requires parameter " + key)
		}
	}
	for key, value := range params {
		if len(key) > domain.MaxRouteParamKey {
			return domain.ErrRouteParams.WithDetails("parameter key exceeds 64 characters")
		}
		if len(value) > domain.MaxRouteParamValue {
			return domain.ErrRouteParams.WithDetails("parameter value exceeds 1024 characters")
		}
	}
	return nil
}

func cloneParams(params map[string]string) map[string]string {
	if len(params) == 0 {
		return nil
	}
	out := make(map[string]string, len(params))
	for k, v := range params {
		out[k] = v
	}
	return out
}
