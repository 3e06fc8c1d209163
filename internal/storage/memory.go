package storage

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryEngine implements KV with an in-process map. Nothing survives
// a restart: it exists for tests and for hosts that explicitly opt out
// of persistence.
type MemoryEngine struct {
	mu     sync.RWMutex
	data   map[string][]byte
	closed bool
}

// NewMemoryEngine creates an empty in-memory engine.
func NewMemoryEngine() *MemoryEngine {
	return &MemoryEngine{
		data: make(map[string][]byte),
	}
}

// Get retrieves a value by key.
func (e *MemoryEngine) Get(ctx context.Context, key []byte) ([]byte, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if e.closed {
		return nil, ErrClosed
	}

	value, ok := e.data[string(key)]
	if !ok {
		return nil, ErrKeyNotFound
	}

	out := make([]byte, len(value))
	copy(out, value)
	return out, nil
}

// Set stores a key-value pair. The value is copied; callers may reuse
// their buffer.
func (e *MemoryEngine) Set(ctx context.Context, key, value []byte) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return ErrClosed
	}

	stored := make([]byte, len(value))
	copy(stored, value)
	e.data[string(key)] = stored
	return nil
}

// Delete removes a key.
func (e *MemoryEngine) Delete(ctx context.Context, key []byte) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return ErrClosed
	}

	delete(e.data, string(key))
	return nil
}

// Scan iterates over keys with a given prefix in ascending key order.
func (e *MemoryEngine) Scan(ctx context.Context, prefix []byte, fn func(key, value []byte) bool) error {
	e.mu.RLock()
	if e.closed {
		e.mu.RUnlock()
		return ErrClosed
	}

	p := string(prefix)
	keys := make([]string, 0, len(e.data))
	for k := range e.data {
		if len(k) >= len(p) && k[:len(p)] == p {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	// Copy out under the lock so the callback runs without it.
	type pair struct {
		key   []byte
		value []byte
	}
	pairs := make([]pair, 0, len(keys))
	for _, k := range keys {
		v := e.data[k]
		vc := make([]byte, len(v))
		copy(vc, v)
		pairs = append(pairs, pair{key: []byte(k), value: vc})
	}
	e.mu.RUnlock()

	for _, p := range pairs {
		if !fn(p.key, p.value) {
			break
		}
	}
	return nil
}

// GC is a no-op for the memory engine.
func (e *MemoryEngine) GC(ctx context.Context) (uint64, error) {
	return 0, nil
}

// Stats returns approximate statistics.
func (e *MemoryEngine) Stats(ctx context.Context) (*KVStats, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	var size uint64
	for k, v := range e.data {
		size += uint64(len(k) + len(v))
	}

	return &KVStats{
		TotalKeys:  uint64(len(e.data)),
		TotalSize:  size,
		LastGCTime: time.Now().UnixMilli(),
	}, nil
}

// Close marks the engine closed; subsequent calls fail with ErrClosed.
func (e *MemoryEngine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.closed = true
	e.data = nil
	return nil
}
