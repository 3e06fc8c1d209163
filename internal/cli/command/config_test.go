package command

import (
	"os"
	"path/filepath"
	"testing"
)

func TestConfigCommand(t *testing.T) {
	cmd := ConfigCommand()
	if cmd.Name != "config" {
		t.Errorf("Name = %q, want config", cmd.Name)
	}

	subNames := make(map[string]bool)
	for _, sub := range cmd.Subcommands {
		subNames[sub.Name] = true
	}
	for _, name := range []string{"show", "validate"} {
		if !subNames[name] {
			t.Errorf("missing subcommand: %s", name)
		}
	}
}

func TestConfigValidate_ValidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "server.yaml")
	content := `server:
  http:
    addr: "127.0.0.1:7600"
policy:
  default_route: home
  max_background_for: 15m
  safe_routes:
    - home
    - settings
log:
  level: info
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	ctx := makeTestContext(nil, nil, []string{path})
	if err := configValidate(ctx); err != nil {
		t.Errorf("configValidate: %v", err)
	}
}

func TestConfigValidate_InvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "server.yaml")
	content := `policy:
  max_background_for: -5m
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	ctx := makeTestContext(nil, nil, []string{path})
	if err := configValidate(ctx); err == nil {
		t.Error("expected validation failure for negative staleness threshold")
	}
}

func TestConfigValidate_MissingArg(t *testing.T) {
	ctx := makeTestContext(nil, nil, nil)
	if err := configValidate(ctx); err == nil {
		t.Error("expected error without file argument")
	}
}

func TestConfigValidate_MissingFile(t *testing.T) {
	ctx := makeTestContext(nil, nil, []string{filepath.Join(t.TempDir(), "absent.yaml")})
	if err := configValidate(ctx); err == nil {
		t.Error("expected error for missing file")
	}
}
