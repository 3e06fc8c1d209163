package connection

import "fmt"

// Manager tracks the active server connection for the CLI session.
type Manager struct {
	current *Connection
}

// Connection represents a connection to a navkeep-server instance.
type Connection struct {
	Name       string
	Server     string
	Token      string
	SocketPath string
}

// NewManager creates a new connection manager.
func NewManager() *Manager {
	return &Manager{}
}

// Connect sets the active connection.
func (m *Manager) Connect(conn *Connection) error {
	if conn == nil || (conn.Server == "" && conn.SocketPath == "") {
		return fmt.Errorf("connection needs a server address or socket path")
	}
	m.current = conn
	return nil
}

// Disconnect clears the current connection.
func (m *Manager) Disconnect() {
	m.current = nil
}

// Current returns the current connection.
func (m *Manager) Current() *Connection {
	return m.current
}

// IsConnected returns true if a connection is active.
func (m *Manager) IsConnected() bool {
	return m.current != nil
}
