package command

import (
	"bufio"
	"encoding/json"
	"net"
	"net/http"
	"path/filepath"
	"strings"
	"testing"
)

func TestStateCommand(t *testing.T) {
	cmd := StateCommand()
	if cmd == nil {
		t.Fatal("StateCommand returned nil")
	}
	if cmd.Name != "state" {
		t.Errorf("Name = %q, want state", cmd.Name)
	}
	if cmd.Action == nil {
		t.Error("state command should have an action")
	}
}

func TestStateShow_HTTP(t *testing.T) {
	srv := newMockServer()
	defer srv.Close()

	srv.handle("/state", func(w http.ResponseWriter, r *http.Request) {
		envelopeResponse(w, http.StatusOK, map[string]any{
			"current_route":     "settings",
			"route_history":     []string{"home", "settings"},
			"last_active_at":    1700000000000,
			"was_in_background": false,
			"phase":             "active",
		})
	})

	ctx := makeTestContext(srv, map[string]any{"output": "json"}, nil)
	if err := stateShow(ctx); err != nil {
		t.Fatalf("stateShow: %v", err)
	}
}

func TestStateShow_ServerError(t *testing.T) {
	srv := newMockServer()
	defer srv.Close()

	srv.handle("/state", func(w http.ResponseWriter, r *http.Request) {
		errorEnvelope(w, http.StatusServiceUnavailable, "NK-SYS-5030", "storage unavailable")
	})

	ctx := makeTestContext(srv, nil, nil)
	err := stateShow(ctx)
	if err == nil {
		t.Fatal("expected error for 503 response")
	}
	if !strings.Contains(err.Error(), "NK-SYS-5030") {
		t.Errorf("error = %v, want NK-SYS-5030", err)
	}
}

func TestStateShow_LocalSocket(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bridge.sock")
	ln, err := net.Listen("unix", path)
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer ln.Close()

	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		scanner := bufio.NewScanner(conn)
		for scanner.Scan() {
			if scanner.Text() == "STATE" {
				line, _ := json.Marshal(map[string]any{
					"current_route":     "profile",
					"route_history":     []string{"home", "profile"},
					"last_active_at":    1700000000000,
					"was_in_background": true,
				})
				conn.Write(append(line, '\n'))
			} else {
				conn.Write([]byte("ERR NK-SYS-4000 unknown command\n"))
			}
		}
	}()

	ctx := makeTestContext(nil, map[string]any{
		"local":  true,
		"socket": path,
		"output": "json",
	}, nil)
	if err := stateShow(ctx); err != nil {
		t.Fatalf("stateShow via socket: %v", err)
	}
}

func TestStateViaSocket_BridgeError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bridge.sock")
	ln, err := net.Listen("unix", path)
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer ln.Close()

	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		scanner := bufio.NewScanner(conn)
		for scanner.Scan() {
			conn.Write([]byte("ERR NK-SYS-5001 storage write failed\n"))
		}
	}()

	ctx := makeTestContext(nil, map[string]any{"socket": path}, nil)
	_, err = stateViaSocket(ctx)
	if err == nil || !strings.Contains(err.Error(), "NK-SYS-5001") {
		t.Errorf("error = %v, want bridge error with code", err)
	}
}
