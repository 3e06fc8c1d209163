package config

import (
	"time"

	"github.com/yndnr/navkeep-go/internal/core/domain"
)

// Default configuration values.
const (
	DefaultHTTPAddr    = "127.0.0.1:7600"
	DefaultLocalSocket = "/var/run/navkeep/navkeep.sock"

	DefaultStorageEngine = "badger"
	DefaultDataDir       = "/var/lib/navkeep/data"
	DefaultJournalKeep   = 200

	DefaultRoute         = "home"
	DefaultMaxBackground = 15 * time.Minute

	DefaultPersistInterval = 2 * time.Second

	DefaultRateLimit = 50.0
	DefaultRateBurst = 100

	DefaultNTPServer = "pool.ntp.org"

	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"
)

// Default returns the default server configuration.
func Default() *ServerConfig {
	return &ServerConfig{
		Server: ServerSection{
			HTTP: HTTPConfig{
				Addr:      DefaultHTTPAddr,
				RateLimit: DefaultRateLimit,
				RateBurst: DefaultRateBurst,
			},
			Local: LocalConfig{
				Path: DefaultLocalSocket,
			},
		},
		Storage: StorageSection{
			Engine:      DefaultStorageEngine,
			DataDir:     DefaultDataDir,
			JournalKeep: DefaultJournalKeep,
		},
		Policy: PolicySection{
			DefaultRoute:     DefaultRoute,
			MaxBackgroundFor: DefaultMaxBackground,
		},
		State: StateSection{
			HistoryLimit:    domain.DefaultHistoryLimit,
			PersistInterval: DefaultPersistInterval,
		},
		Clock: ClockSection{
			NTPServer: DefaultNTPServer,
		},
		Log: LogSection{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
	}
}
