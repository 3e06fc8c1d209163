package connection

import (
	"bufio"
	"net"
	"strings"
	"time"
)

// SocketClient speaks the host bridge line protocol over the daemon's
// Unix socket.
type SocketClient struct {
	path string
	conn net.Conn
}

// NewSocketClient creates a new socket client.
func NewSocketClient(socketPath string) *SocketClient {
	return &SocketClient{path: socketPath}
}

// Connect connects to the local socket.
func (c *SocketClient) Connect() error {
	var err error
	c.conn, err = net.DialTimeout("unix", c.path, 5*time.Second)
	return err
}

// Close closes the socket connection.
func (c *SocketClient) Close() error {
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

// Execute sends one command line and returns the reply line with the
// trailing newline stripped.
func (c *SocketClient) Execute(cmd string) (string, error) {
	if c.conn == nil {
		if err := c.Connect(); err != nil {
			return "", err
		}
	}

	if _, err := c.conn.Write([]byte(cmd + "\n")); err != nil {
		return "", err
	}

	reader := bufio.NewReader(c.conn)
	response, err := reader.ReadString('\n')
	if err != nil {
		return "", err
	}

	return strings.TrimRight(response, "\n"), nil
}
