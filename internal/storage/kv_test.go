package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"testing"
)

// engineUnderTest builds each KV implementation against the same
// behavioral checks.
func enginesUnderTest(t *testing.T) map[string]KV {
	t.Helper()

	cfg := DefaultKVConfig(t.TempDir())
	cfg.Badger.GCInterval = "1h" // keep auto GC out of test timing

	badgerEngine, err := NewBadgerEngine(cfg, slog.Default())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { badgerEngine.Close() })

	memEngine := NewMemoryEngine()
	t.Cleanup(func() { memEngine.Close() })

	return map[string]KV{
		"badger": badgerEngine,
		"memory": memEngine,
	}
}

func TestKVEngines_BasicOperations(t *testing.T) {
	ctx := context.Background()

	for name, engine := range enginesUnderTest(t) {
		t.Run(name, func(t *testing.T) {
			t.Run("set and get", func(t *testing.T) {
				if err := engine.Set(ctx, []byte("k1"), []byte("v1")); err != nil {
					t.Fatal(err)
				}
				got, err := engine.Get(ctx, []byte("k1"))
				if err != nil {
					t.Fatal(err)
				}
				if string(got) != "v1" {
					t.Errorf("Get() = %q, want %q", got, "v1")
				}
			})

			t.Run("get missing key", func(t *testing.T) {
				_, err := engine.Get(ctx, []byte("missing"))
				if !errors.Is(err, ErrKeyNotFound) {
					t.Errorf("Get() error = %v, want ErrKeyNotFound", err)
				}
			})

			t.Run("overwrite", func(t *testing.T) {
				if err := engine.Set(ctx, []byte("k2"), []byte("old")); err != nil {
					t.Fatal(err)
				}
				if err := engine.Set(ctx, []byte("k2"), []byte("new")); err != nil {
					t.Fatal(err)
				}
				got, err := engine.Get(ctx, []byte("k2"))
				if err != nil {
					t.Fatal(err)
				}
				if string(got) != "new" {
					t.Errorf("Get() = %q, want %q", got, "new")
				}
			})

			t.Run("delete", func(t *testing.T) {
				if err := engine.Set(ctx, []byte("k3"), []byte("v3")); err != nil {
					t.Fatal(err)
				}
				if err := engine.Delete(ctx, []byte("k3")); err != nil {
					t.Fatal(err)
				}
				if _, err := engine.Get(ctx, []byte("k3")); !errors.Is(err, ErrKeyNotFound) {
					t.Errorf("Get() after delete error = %v, want ErrKeyNotFound", err)
				}
			})

			t.Run("delete absent key", func(t *testing.T) {
				if err := engine.Delete(ctx, []byte("never-existed")); err != nil {
					t.Errorf("Delete() on absent key error = %v", err)
				}
			})
		})
	}
}

func TestKVEngines_Scan(t *testing.T) {
	ctx := context.Background()

	for name, engine := range enginesUnderTest(t) {
		t.Run(name, func(t *testing.T) {
			for i := 0; i < 5; i++ {
				key := fmt.Sprintf("journal/%03d", i)
				if err := engine.Set(ctx, []byte(key), []byte(fmt.Sprintf("entry-%d", i))); err != nil {
					t.Fatal(err)
				}
			}
			if err := engine.Set(ctx, []byte(StateKey), []byte("state")); err != nil {
				t.Fatal(err)
			}

			t.Run("prefix isolation and order", func(t *testing.T) {
				var keys []string
				err := engine.Scan(ctx, []byte("journal/"), func(key, _ []byte) bool {
					keys = append(keys, string(key))
					return true
				})
				if err != nil {
					t.Fatal(err)
				}
				if len(keys) != 5 {
					t.Fatalf("scanned %d keys, want 5", len(keys))
				}
				for i, k := range keys {
					if want := fmt.Sprintf("journal/%03d", i); k != want {
						t.Errorf("keys[%d] = %q, want %q", i, k, want)
					}
				}
			})

			t.Run("early stop", func(t *testing.T) {
				count := 0
				err := engine.Scan(ctx, []byte("journal/"), func(_, _ []byte) bool {
					count++
					return count < 2
				})
				if err != nil {
					t.Fatal(err)
				}
				if count != 2 {
					t.Errorf("callback ran %d times, want 2", count)
				}
			})
		})
	}
}

func TestBadgerEngine_Persistence(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	cfg := DefaultKVConfig(dir)
	cfg.Badger.GCInterval = "1h"

	engine, err := NewBadgerEngine(cfg, slog.Default())
	if err != nil {
		t.Fatal(err)
	}
	if err := engine.Set(ctx, []byte(StateKey), []byte(`{"current_route":"home"}`)); err != nil {
		t.Fatal(err)
	}
	if err := engine.Close(); err != nil {
		t.Fatal(err)
	}

	// Reopen: the write must have survived.
	engine2, err := NewBadgerEngine(cfg, slog.Default())
	if err != nil {
		t.Fatal(err)
	}
	defer engine2.Close()

	got, err := engine2.Get(ctx, []byte(StateKey))
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != `{"current_route":"home"}` {
		t.Errorf("Get() after reopen = %q", got)
	}
}

func TestBadgerEngine_Stats(t *testing.T) {
	cfg := DefaultKVConfig(t.TempDir())
	cfg.Badger.GCInterval = "1h"

	engine, err := NewBadgerEngine(cfg, slog.Default())
	if err != nil {
		t.Fatal(err)
	}
	defer engine.Close()

	stats, err := engine.Stats(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if stats == nil {
		t.Fatal("Stats() returned nil")
	}
}

func TestMemoryEngine_Closed(t *testing.T) {
	ctx := context.Background()
	engine := NewMemoryEngine()

	if err := engine.Set(ctx, []byte("k"), []byte("v")); err != nil {
		t.Fatal(err)
	}
	if err := engine.Close(); err != nil {
		t.Fatal(err)
	}

	if _, err := engine.Get(ctx, []byte("k")); !errors.Is(err, ErrClosed) {
		t.Errorf("Get() after close error = %v, want ErrClosed", err)
	}
	if err := engine.Set(ctx, []byte("k"), []byte("v")); !errors.Is(err, ErrClosed) {
		t.Errorf("Set() after close error = %v, want ErrClosed", err)
	}
}

func TestMemoryEngine_CopiesValues(t *testing.T) {
	ctx := context.Background()
	engine := NewMemoryEngine()
	defer engine.Close()

	value := []byte("original")
	if err := engine.Set(ctx, []byte("k"), value); err != nil {
		t.Fatal(err)
	}
	value[0] = 'X' // caller reuses its buffer

	got, err := engine.Get(ctx, []byte("k"))
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "original" {
		t.Errorf("Get() = %q, want %q (stored value must be isolated)", got, "original")
	}

	got[0] = 'Y' // mutating the returned copy must not corrupt the store
	again, err := engine.Get(ctx, []byte("k"))
	if err != nil {
		t.Fatal(err)
	}
	if string(again) != "original" {
		t.Errorf("Get() second read = %q, want %q", again, "original")
	}
}

func TestOpen(t *testing.T) {
	t.Run("memory", func(t *testing.T) {
		kv, err := Open(KVConfig{Engine: "memory"}, slog.Default())
		if err != nil {
			t.Fatal(err)
		}
		defer kv.Close()
		if _, ok := kv.(*MemoryEngine); !ok {
			t.Errorf("Open() = %T, want *MemoryEngine", kv)
		}
	})

	t.Run("badger by default", func(t *testing.T) {
		cfg := DefaultKVConfig(t.TempDir())
		cfg.Engine = ""
		kv, err := Open(cfg, slog.Default())
		if err != nil {
			t.Fatal(err)
		}
		defer kv.Close()
		if _, ok := kv.(*BadgerEngine); !ok {
			t.Errorf("Open() = %T, want *BadgerEngine", kv)
		}
	})

	t.Run("unknown engine", func(t *testing.T) {
		if _, err := Open(KVConfig{Engine: "etcd"}, slog.Default()); err == nil {
			t.Error("Open() with unknown engine should fail")
		}
	})
}
