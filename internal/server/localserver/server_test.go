package localserver

import (
	"bufio"
	"context"
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func startTestServer(t *testing.T) string {
	t.Helper()

	h, _ := newTestHandler(t)
	path := filepath.Join(t.TempDir(), "navkeep.sock")
	srv := New(path, h, discardLogger())

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			t.Errorf("Shutdown: %v", err)
		}
		if err := <-errCh; err != nil {
			t.Errorf("ListenAndServe: %v", err)
		}
	})

	// Wait for the socket to appear.
	deadline := time.Now().Add(2 * time.Second)
	for {
		conn, err := net.Dial("unix", path)
		if err == nil {
			conn.Close()
			return path
		}
		if time.Now().After(deadline) {
			t.Fatalf("bridge socket never came up: %v", err)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func roundTrip(t *testing.T, conn net.Conn, r *bufio.Reader, cmd string) string {
	t.Helper()
	if _, err := conn.Write([]byte(cmd + "\n")); err != nil {
		t.Fatalf("write %q: %v", cmd, err)
	}
	reply, err := r.ReadString('\n')
	if err != nil {
		t.Fatalf("read reply for %q: %v", cmd, err)
	}
	return reply[:len(reply)-1]
}

func TestServer_CommandRoundTrip(t *testing.T) {
	path := startTestServer(t)

	conn, err := net.Dial("unix", path)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	r := bufio.NewReader(conn)

	if got := roundTrip(t, conn, r, "PING"); got != "PONG" {
		t.Errorf("PING = %q, want PONG", got)
	}
	if got := roundTrip(t, conn, r, "ROUTE settings"); got != "OK" {
		t.Errorf("ROUTE = %q, want OK", got)
	}
	if got := roundTrip(t, conn, r, "EVENT background"); got != "OK" {
		t.Errorf("EVENT = %q, want OK", got)
	}
}

func TestServer_MultipleClients(t *testing.T) {
	path := startTestServer(t)

	for i := 0; i < 3; i++ {
		conn, err := net.Dial("unix", path)
		if err != nil {
			t.Fatalf("dial %d: %v", i, err)
		}
		r := bufio.NewReader(conn)
		if got := roundTrip(t, conn, r, "PING"); got != "PONG" {
			t.Errorf("client %d PING = %q, want PONG", i, got)
		}
		conn.Close()
	}
}

func TestServer_ReplacesStaleSocket(t *testing.T) {
	h, _ := newTestHandler(t)
	path := filepath.Join(t.TempDir(), "navkeep.sock")

	// Simulate a crashed predecessor leaving its socket file behind.
	// A closed Go listener unlinks its own socket, so plant the
	// leftover file directly.
	if err := os.WriteFile(path, nil, 0o600); err != nil {
		t.Fatalf("plant stale socket: %v", err)
	}

	srv := New(path, h, discardLogger())
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	deadline := time.Now().Add(2 * time.Second)
	for {
		conn, err := net.Dial("unix", path)
		if err == nil {
			conn.Close()
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("server never bound over stale socket: %v", err)
		}
		time.Sleep(5 * time.Millisecond)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		t.Errorf("Shutdown: %v", err)
	}
	if err := <-errCh; err != nil {
		t.Errorf("ListenAndServe: %v", err)
	}
}
