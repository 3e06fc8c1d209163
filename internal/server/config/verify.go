package config

import (
	"encoding/hex"
	"errors"
	"fmt"
	"net"
	"os"
	"strings"

	"github.com/yndnr/navkeep-go/internal/core/domain"
	"github.com/yndnr/navkeep-go/pkg/crypto/adaptive"
)

// StorageEngines lists the valid storage.engine values.
var StorageEngines = []string{"badger", "memory"}

// Verify validates the configuration. Verification has side effects:
// the badger data directory is created when missing.
func Verify(cfg *ServerConfig) error {
	if err := verifyServer(&cfg.Server); err != nil {
		return err
	}
	if err := verifyStorage(&cfg.Storage); err != nil {
		return err
	}
	if err := verifyPolicy(&cfg.Policy); err != nil {
		return err
	}
	if err := verifyState(&cfg.State); err != nil {
		return err
	}
	return verifySecurity(&cfg.Security)
}

func verifyServer(cfg *ServerSection) error {
	if cfg.HTTP.Addr == "" {
		return errors.New("server.http.addr is required")
	}
	if _, _, err := net.SplitHostPort(cfg.HTTP.Addr); err != nil {
		return fmt.Errorf("server.http.addr %q: %w", cfg.HTTP.Addr, err)
	}

	cert, key := cfg.HTTP.TLSCertFile, cfg.HTTP.TLSKeyFile
	if (cert == "") != (key == "") {
		return errors.New("server.http.tls_cert_file and tls_key_file must be set together")
	}
	for _, path := range []string{cert, key} {
		if path == "" {
			continue
		}
		if _, err := os.Stat(path); err != nil {
			return fmt.Errorf("TLS file %q: %w", path, err)
		}
	}

	if cfg.HTTP.RateLimit < 0 {
		return errors.New("server.http.rate_limit must not be negative")
	}
	if cfg.HTTP.RateLimit > 0 && cfg.HTTP.RateBurst < 1 {
		return errors.New("server.http.rate_burst must be at least 1 when rate limiting is on")
	}

	if cfg.Local.Path == "" {
		return errors.New("server.local.path is required")
	}
	return nil
}

func verifyStorage(cfg *StorageSection) error {
	valid := false
	for _, engine := range StorageEngines {
		if cfg.Engine == engine {
			valid = true
			break
		}
	}
	if !valid {
		return fmt.Errorf("storage.engine %q: must be one of %s", cfg.Engine, strings.Join(StorageEngines, ", "))
	}

	if cfg.Engine == "badger" {
		if cfg.DataDir == "" {
			return errors.New("storage.data_dir is required for the badger engine")
		}
		if err := os.MkdirAll(cfg.DataDir, 0o750); err != nil {
			return fmt.Errorf("cannot create data directory: %w", err)
		}
	}

	if cfg.JournalKeep < 1 {
		return errors.New("storage.journal_keep must be at least 1")
	}
	return nil
}

func verifyPolicy(cfg *PolicySection) error {
	if cfg.DefaultRoute == "" {
		return errors.New("policy.default_route is required")
	}
	if err := domain.ValidateRouteName(cfg.DefaultRoute); err != nil {
		return fmt.Errorf("policy.default_route: %w", err)
	}
	if cfg.MaxBackgroundFor < 0 {
		return errors.New("policy.max_background_for must not be negative")
	}
	for _, route := range cfg.SafeRoutes {
		if err := domain.ValidateRouteName(route); err != nil {
			return fmt.Errorf("policy.safe_routes entry %q: %w", route, err)
		}
	}
	return nil
}

func verifyState(cfg *StateSection) error {
	if cfg.HistoryLimit < domain.MinHistoryLimit || cfg.HistoryLimit > domain.MaxHistoryLimit {
		return fmt.Errorf("state.history_limit must be between %d and %d", domain.MinHistoryLimit, domain.MaxHistoryLimit)
	}
	if cfg.PersistInterval < 0 {
		return errors.New("state.persist_interval must not be negative")
	}
	return nil
}

func verifySecurity(cfg *SecuritySection) error {
	if cfg.EncryptionKey != "" {
		raw, err := hex.DecodeString(strings.TrimSpace(cfg.EncryptionKey))
		if err != nil {
			return fmt.Errorf("security.encryption_key: %w", err)
		}
		if len(raw) != adaptive.KeySize {
			return fmt.Errorf("security.encryption_key must be %d hex characters", adaptive.KeySize*2)
		}
	}

	if cfg.AdminToken != "" {
		if !strings.HasPrefix(cfg.AdminToken, "nkat_") {
			return errors.New("security.admin_token must start with nkat_")
		}
		if len(cfg.AdminToken) < 16 {
			return errors.New("security.admin_token is too short")
		}
	}
	return nil
}
