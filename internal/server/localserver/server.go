package localserver

import (
	"bufio"
	"context"
	"errors"
	"log/slog"
	"net"
	"os"
	"sync"
	"sync/atomic"
	"time"
)

// Line-protocol limits. A bridge client sending more than this per
// line is broken; the connection is dropped rather than buffered.
const maxLineLength = 4096

// connIdleTimeout bounds how long a silent bridge connection is held.
const connIdleTimeout = 5 * time.Minute

// Server is the host-bridge socket server.
type Server struct {
	listener net.Listener
	path     string
	handler  *Handler
	logger   *slog.Logger
	running  atomic.Bool
	wg       sync.WaitGroup
}

// New creates a bridge server on socketPath.
func New(socketPath string, handler *Handler, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		path:    socketPath,
		handler: handler,
		logger:  logger.With("component", "bridge"),
	}
}

// ListenAndServe starts the bridge server. A stale socket file from a
// crashed predecessor is removed before binding.
func (s *Server) ListenAndServe() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}

	var err error
	s.listener, err = net.Listen("unix", s.path)
	if err != nil {
		return err
	}

	// The socket is the only access control the bridge has.
	if err := os.Chmod(s.path, 0o600); err != nil {
		s.listener.Close()
		return err
	}

	s.running.Store(true)
	s.logger.Info("host bridge listening", "path", s.path)

	for {
		conn, err := s.listener.Accept()
		if err != nil {
			if !s.running.Load() || errors.Is(err, net.ErrClosed) {
				return nil
			}
			return err
		}

		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.handleConnection(conn)
		}()
	}
}

// Shutdown stops accepting connections and waits for active ones to
// finish, respecting the context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	s.running.Store(false)

	var closeErr error
	if s.listener != nil {
		closeErr = s.listener.Close()
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return closeErr
	case <-ctx.Done():
		return ctx.Err()
	}
}

// handleConnection serves one bridge client: one command per line, one
// reply per command, until the client hangs up or goes quiet.
func (s *Server) handleConnection(conn net.Conn) {
	defer conn.Close()

	scanner := bufio.NewScanner(conn)
	scanner.Buffer(make([]byte, maxLineLength), maxLineLength)

	for {
		if err := conn.SetReadDeadline(time.Now().Add(connIdleTimeout)); err != nil {
			return
		}
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil && s.running.Load() {
				s.logger.Debug("bridge connection closed", "error", err)
			}
			return
		}

		reply := s.handler.Execute(scanner.Text())
		if _, err := conn.Write(append([]byte(reply), '\n')); err != nil {
			return
		}
	}
}
