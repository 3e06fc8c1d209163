package config

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.DefaultServer != "http://127.0.0.1:7600" {
		t.Errorf("DefaultServer = %q", cfg.DefaultServer)
	}
	if cfg.DefaultOutput != "table" {
		t.Errorf("DefaultOutput = %q", cfg.DefaultOutput)
	}
	if cfg.SocketPath == "" {
		t.Error("SocketPath should have a default")
	}
	if cfg.Token != "" {
		t.Error("Token should default to empty")
	}
}

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.DefaultServer != Default().DefaultServer {
		t.Errorf("DefaultServer = %q, want default", cfg.DefaultServer)
	}
}

func TestLoad_ParsesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cli.yaml")
	content := `default_server: http://nav.internal:7600
default_output: json
token: nkat_local_dev
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.DefaultServer != "http://nav.internal:7600" {
		t.Errorf("DefaultServer = %q", cfg.DefaultServer)
	}
	if cfg.DefaultOutput != "json" {
		t.Errorf("DefaultOutput = %q", cfg.DefaultOutput)
	}
	if cfg.Token != "nkat_local_dev" {
		t.Errorf("Token = %q", cfg.Token)
	}
	// Fields absent from the file keep their defaults.
	if cfg.SocketPath != Default().SocketPath {
		t.Errorf("SocketPath = %q, want default", cfg.SocketPath)
	}
}

func TestLoad_MalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cli.yaml")
	if err := os.WriteFile(path, []byte("default_server: [unclosed"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	if _, err := Load(path); err == nil {
		t.Error("expected error for malformed YAML")
	}
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "cli.yaml")

	want := &CLIConfig{
		DefaultServer: "https://nav.example.com",
		DefaultOutput: "yaml",
		Token:         "nkat_roundtrip",
		SocketPath:    "/tmp/navkeep.sock",
	}
	if err := Save(want, path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if *got != *want {
		t.Errorf("round trip mismatch: got %+v, want %+v", got, want)
	}
}

func TestSave_FilePermissions(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("unix permissions")
	}

	path := filepath.Join(t.TempDir(), "cli.yaml")
	if err := Save(Default(), path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Errorf("config file mode = %o, want 0600", perm)
	}
}
