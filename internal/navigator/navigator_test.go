package navigator

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/yndnr/navkeep-go/internal/core/domain"
)

func newTestNavigator(t *testing.T) *Navigator {
	t.Helper()
	nav, err := New("home", slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	for _, r := range []Route{
		{Name: "settings"},
		{Name: "profile"},
		{Name: "orders/detail", RequiredParams: []string{"order_id"}},
	} {
		if err := nav.Register(r); err != nil {
			t.Fatalf("Register(%q) error = %v", r.Name, err)
		}
	}
	return nav
}

func TestNavigator_New_InvalidDefault(t *testing.T) {
	if _, err := New("", nil); !errors.Is(err, domain.ErrRouteInvalid) {
		t.Errorf("New(\"\") error = %v, want ErrRouteInvalid", err)
	}
	if _, err := New("bad route", nil); !errors.Is(err, domain.ErrRouteInvalid) {
		t.Errorf("New with whitespace error = %v, want ErrRouteInvalid", err)
	}
}

func TestNavigator_Navigate(t *testing.T) {
	nav := newTestNavigator(t)

	if got := nav.CurrentRoute(); got != "" {
		t.Errorf("CurrentRoute() before first navigation = %q, want empty", got)
	}

	if err := nav.Navigate("settings", nil); err != nil {
		t.Fatalf("Navigate(settings) error = %v", err)
	}
	if got := nav.CurrentRoute(); got != "settings" {
		t.Errorf("CurrentRoute() = %q, want %q", got, "settings")
	}
}

func TestNavigator_Navigate_Errors(t *testing.T) {
	nav := newTestNavigator(t)

	tests := []struct {
		name    string
		route   string
		params  map[string]string
		wantErr *domain.DomainError
	}{
		{
			name:    "unknown route",
			route:   "nowhere",
			wantErr: domain.ErrRouteUnknown,
		},
		{
			name:    "empty route name",
			route:   "",
			wantErr: domain.ErrRouteInvalid,
		},
		{
			name:    "missing required param",
			route:   "orders/detail",
			wantErr: domain.ErrRouteParams,
		},
		{
			name:    "empty required param",
			route:   "orders/detail",
			params:  map[string]string{"order_id": ""},
			wantErr: domain.ErrRouteParams,
		},
		{
			name:    "oversize param value",
			route:   "settings",
			params:  map[string]string{"q": strings.Repeat("x", domain.MaxRouteParamValue+1)},
			wantErr: domain.ErrRouteParams,
		},
		{
			name:    "oversize param key",
			route:   "settings",
			params:  map[string]string{strings.Repeat("k", domain.MaxRouteParamKey+1): "v"},
			wantErr: domain.ErrRouteParams,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := nav.Navigate(tt.route, tt.params)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Navigate() error = %v, want %v", err, tt.wantErr)
			}
			if got := nav.CurrentRoute(); got != "" {
				t.Errorf("CurrentRoute() after failed navigation = %q, want empty", got)
			}
		})
	}
}

func TestNavigator_Navigate_WithParams(t *testing.T) {
	nav := newTestNavigator(t)

	params := map[string]string{"order_id": "ord-123"}
	if err := nav.Navigate("orders/detail", params); err != nil {
		t.Fatalf("Navigate() error = %v", err)
	}

	got := nav.CurrentParams()
	if !reflect.DeepEqual(got, params) {
		t.Errorf("CurrentParams() = %v, want %v", got, params)
	}

	// Mutating either map must not leak through.
	params["order_id"] = "mutated"
	got["order_id"] = "also mutated"
	if fresh := nav.CurrentParams(); fresh["order_id"] != "ord-123" {
		t.Errorf("CurrentParams()[order_id] = %q, want %q", fresh["order_id"], "ord-123")
	}
}

func TestNavigator_Hooks(t *testing.T) {
	nav := newTestNavigator(t)

	var seen []string
	nav.OnRouteChange(func(route string) { seen = append(seen, route) })

	nav.Navigate("settings", nil)
	nav.Navigate("settings", nil) // same route, no hook
	nav.Navigate("profile", nil)
	nav.Navigate("nowhere", nil) // rejected, no hook

	want := []string{"settings", "profile"}
	if !reflect.DeepEqual(seen, want) {
		t.Errorf("hook calls = %v, want %v", seen, want)
	}
}

func TestNavigator_Register_Invalid(t *testing.T) {
	nav := newTestNavigator(t)

	if err := nav.Register(Route{Name: "has space"}); !errors.Is(err, domain.ErrRouteInvalid) {
		t.Errorf("Register() error = %v, want ErrRouteInvalid", err)
	}
	if err := nav.Register(Route{Name: "ok", RequiredParams: []string{""}}); !errors.Is(err, domain.ErrRouteParams) {
		t.Errorf("Register() with empty param key error = %v, want ErrRouteParams", err)
	}
}

func TestNavigator_Routes(t *testing.T) {
	nav := newTestNavigator(t)

	want := []string{"home", "orders/detail", "profile", "settings"}
	if got := nav.Routes(); !reflect.DeepEqual(got, want) {
		t.Errorf("Routes() = %v, want %v", got, want)
	}
}

func TestNavigator_ApplyDecision(t *testing.T) {
	tests := []struct {
		name      string
		setup     func(nav *Navigator)
		decision  domain.Decision
		wantRoute string
	}{
		{
			name:      "restore to registered route",
			decision:  domain.RestoreTo("settings"),
			wantRoute: "settings",
		},
		{
			name:      "fallback decision lands on default",
			decision:  domain.FallbackHome("home", domain.ReasonStale),
			wantRoute: "home",
		},
		{
			name:      "no restore on cold start lands on default",
			decision:  domain.NoRestore(domain.ReasonNoSnapshot),
			wantRoute: "home",
		},
		{
			name: "no restore keeps current route",
			setup: func(nav *Navigator) {
				nav.Navigate("profile", nil)
			},
			decision:  domain.NoRestore(domain.ReasonAlreadyDefault),
			wantRoute: "profile",
		},
		{
			name:      "unregistered target degrades to default",
			decision:  domain.RestoreTo("removed/screen"),
			wantRoute: "home",
		},
		{
			name:      "target requiring params degrades to default",
			decision:  domain.RestoreTo("orders/detail"),
			wantRoute: "home",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nav := newTestNavigator(t)
			if tt.setup != nil {
				tt.setup(nav)
			}
			if got := nav.ApplyDecision(tt.decision); got != tt.wantRoute {
				t.Errorf("ApplyDecision() = %q, want %q", got, tt.wantRoute)
			}
			if got := nav.CurrentRoute(); got != tt.wantRoute {
				t.Errorf("CurrentRoute() = %q, want %q", got, tt.wantRoute)
			}
		})
	}
}

func TestNavigator_Run(t *testing.T) {
	nav := newTestNavigator(t)

	decisions := make(chan domain.Decision)
	done := make(chan struct{})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		defer close(done)
		nav.Run(ctx, decisions)
	}()

	decisions <- domain.RestoreTo("settings")
	decisions <- domain.FallbackHome("home", domain.ReasonUnsafeRoute)
	close(decisions)

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run() did not return after stream close")
	}

	if got := nav.CurrentRoute(); got != "home" {
		t.Errorf("CurrentRoute() after stream = %q, want %q", got, "home")
	}
}

func TestNavigator_Run_ContextCancel(t *testing.T) {
	nav := newTestNavigator(t)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		nav.Run(ctx, make(chan domain.Decision))
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run() did not return after cancel")
	}
}
