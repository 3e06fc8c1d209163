package config

// CLIConfig is the configuration for navkeep-cli.
type CLIConfig struct {
	// DefaultServer is the HTTP address of the daemon.
	DefaultServer string `yaml:"default_server"`

	// DefaultOutput selects the default output format: table, json, yaml.
	DefaultOutput string `yaml:"default_output"`

	// Token is the admin bearer token. Leave empty for the
	// unauthenticated diagnostics surface.
	Token string `yaml:"token,omitempty"`

	// SocketPath points at the daemon's host bridge socket.
	SocketPath string `yaml:"socket_path,omitempty"`
}

// Default returns the default CLI configuration.
func Default() *CLIConfig {
	return &CLIConfig{
		DefaultServer: "http://127.0.0.1:7600",
		DefaultOutput: "table",
		SocketPath:    "/var/run/navkeep/navkeep.sock",
	}
}
