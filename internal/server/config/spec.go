package config

import "time"

// ServerConfig is the root configuration for navkeep-server.
type ServerConfig struct {
	Server   ServerSection   `koanf:"server"`
	Storage  StorageSection  `koanf:"storage"`
	Policy   PolicySection   `koanf:"policy"`
	State    StateSection    `koanf:"state"`
	Security SecuritySection `koanf:"security"`
	Clock    ClockSection    `koanf:"clock"`
	Log      LogSection      `koanf:"log"`
}

// ServerSection configures the daemon's listeners.
type ServerSection struct {
	HTTP  HTTPConfig  `koanf:"http"`
	Local LocalConfig `koanf:"local"`
}

// HTTPConfig configures the HTTP API server.
type HTTPConfig struct {
	Addr        string `koanf:"addr"`
	TLSCertFile string `koanf:"tls_cert_file"`
	TLSKeyFile  string `koanf:"tls_key_file"`

	// RateLimit is the per-client request rate (requests/second);
	// RateBurst is the matching burst. Zero RateLimit disables
	// limiting.
	RateLimit float64 `koanf:"rate_limit"`
	RateBurst int     `koanf:"rate_burst"`
}

// LocalConfig configures the local host-bridge socket.
type LocalConfig struct {
	Path string `koanf:"path"`
}

// StorageSection configures persistence.
type StorageSection struct {
	// Engine selects the storage engine: "badger" or "memory".
	Engine string `koanf:"engine"`

	// DataDir is the badger database directory. Ignored by the
	// memory engine.
	DataDir string `koanf:"data_dir"`

	// JournalKeep caps the decision journal; older entries are pruned.
	JournalKeep int `koanf:"journal_keep"`
}

// PolicySection configures the restoration policy.
type PolicySection struct {
	// DefaultRoute is the safe landing route for fallbacks and the
	// route that short-circuits restoration.
	DefaultRoute string `koanf:"default_route"`

	// MaxBackgroundFor is the staleness threshold, inclusive.
	MaxBackgroundFor time.Duration `koanf:"max_background_for"`

	// SafeRoutes is the allow-list of restorable routes.
	SafeRoutes []string `koanf:"safe_routes"`
}

// StateSection configures the state service.
type StateSection struct {
	// HistoryLimit bounds the route history.
	HistoryLimit int `koanf:"history_limit"`

	// PersistInterval rate-limits opportunistic persists on route
	// changes.
	PersistInterval time.Duration `koanf:"persist_interval"`
}

// SecuritySection holds key material.
type SecuritySection struct {
	// EncryptionKey seals the persisted record and export bundles.
	// 64 hex characters (32 bytes); empty disables at-rest encryption.
	EncryptionKey string `koanf:"encryption_key"`

	// AdminToken guards the admin endpoints. Format: "nkat_" prefix.
	// Empty disables the admin surface.
	AdminToken string `koanf:"admin_token"`
}

// ClockSection configures clock sanity checking.
type ClockSection struct {
	// SkewCheck probes an NTP server at startup and logs the offset.
	SkewCheck bool `koanf:"skew_check"`

	// NTPServer is the probe target.
	NTPServer string `koanf:"ntp_server"`
}

// LogSection configures logging.
type LogSection struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}
