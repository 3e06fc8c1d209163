package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

// Common errors.
var (
	ErrKeyNotFound = errors.New("key not found")
	ErrClosed      = errors.New("kv engine closed")
)

// Key layout. All NavKeep data lives in one flat keyspace.
const (
	// StateKey holds the single serialized navigation state record.
	StateKey = "nav/state"

	// JournalPrefix prefixes decision journal entries. The suffix is
	// the record's ULID, so lexicographic key order is time order.
	JournalPrefix = "journal/"
)

// JournalKey returns the storage key for a decision record ID.
func JournalKey(id string) []byte {
	return []byte(JournalPrefix + id)
}

// KV defines the contract for the engine's key-value storage.
//
// Implementation requirements:
//   - Thread-safe: concurrent reads and writes must be safe
//   - Atomic per call: a Set either lands completely or not at all,
//     so a torn write can never surface as a half-updated record
type KV interface {
	// Get retrieves a value by key.
	// Returns ErrKeyNotFound if the key doesn't exist.
	Get(ctx context.Context, key []byte) ([]byte, error)

	// Set stores a key-value pair.
	Set(ctx context.Context, key, value []byte) error

	// Delete removes a key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key []byte) error

	// Scan iterates over keys with a given prefix in ascending key
	// order. Callback returns false to stop iteration.
	Scan(ctx context.Context, prefix []byte, fn func(key, value []byte) bool) error

	// GC triggers garbage collection (for LSM-based engines).
	// Returns approximate bytes reclaimed.
	GC(ctx context.Context) (uint64, error)

	// Stats returns storage statistics.
	Stats(ctx context.Context) (*KVStats, error)

	// Close gracefully shuts down the engine.
	Close() error
}

// KVStats contains storage engine statistics.
type KVStats struct {
	// TotalKeys is the approximate number of keys.
	TotalKeys uint64

	// TotalSize is the total disk usage in bytes.
	TotalSize uint64

	// LSMSize is the LSM tree size (Badger).
	LSMSize uint64

	// ValueLogSize is the value log size (Badger).
	ValueLogSize uint64

	// LastGCTime is the last GC run timestamp (Unix milliseconds).
	LastGCTime int64

	// GCBytesReclaimed is the total bytes reclaimed by GC.
	GCBytesReclaimed uint64
}

// KVConfig configures a KV engine.
type KVConfig struct {
	// Engine selects the implementation ("badger" or "memory").
	// Default: "badger"
	Engine string

	// Dir is the storage directory (badger only).
	Dir string

	// Badger-specific tuning.
	Badger BadgerConfig
}

// BadgerConfig contains Badger-specific tuning parameters.
type BadgerConfig struct {
	// GCInterval is the interval between automatic GC runs.
	// Default: 30m
	GCInterval string

	// GCThreshold is the GC discard ratio threshold (0.0-1.0).
	// Default: 0.5
	GCThreshold float64

	// CacheSize is the block cache size in bytes.
	// Default: 16MB. The working set is one record plus a bounded
	// journal; a session-store sized cache would be wasted here.
	CacheSize int64

	// ValueLogFileSize is the max value log file size in bytes.
	// Default: 64MB
	ValueLogFileSize int64

	// NumMemtables is the number of memtables.
	// Default: 2
	NumMemtables int

	// NumLevelZeroTables is the number of Level 0 tables before compaction.
	// Default: 5
	NumLevelZeroTables int

	// NumLevelZeroTablesStall is the Level 0 table count that stalls writes.
	// Default: 10
	NumLevelZeroTablesStall int

	// SyncWrites enables fsync after each write.
	// Default: true. The background snapshot is the last write before
	// the OS may kill the process; it has to reach disk.
	SyncWrites bool
}

// DefaultKVConfig returns the default KV configuration.
func DefaultKVConfig(dir string) KVConfig {
	return KVConfig{
		Engine: "badger",
		Dir:    dir,
		Badger: DefaultBadgerConfig(),
	}
}

// DefaultBadgerConfig returns the default Badger configuration.
func DefaultBadgerConfig() BadgerConfig {
	return BadgerConfig{
		GCInterval:              "30m",
		GCThreshold:             0.5,
		CacheSize:               16 << 20, // 16MB
		ValueLogFileSize:        64 << 20, // 64MB
		NumMemtables:            2,
		NumLevelZeroTables:      5,
		NumLevelZeroTablesStall: 10,
		SyncWrites:              true,
	}
}

// Open creates a KV engine from the configuration.
func Open(cfg KVConfig, logger *slog.Logger) (KV, error) {
	switch cfg.Engine {
	case "", "badger":
		return NewBadgerEngine(cfg, logger)
	case "memory":
		return NewMemoryEngine(), nil
	default:
		return nil, fmt.Errorf("storage: unknown engine %q", cfg.Engine)
	}
}
