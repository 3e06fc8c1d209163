package storage

import (
	"context"
	"fmt"
	"log/slog"
	"testing"
	"time"

	"github.com/yndnr/navkeep-go/internal/core/domain"
)

// appendRecords writes n decision records with ascending timestamps
// and returns them oldest first.
func appendRecords(t *testing.T, j *JournalStore, n int) []*domain.DecisionRecord {
	t.Helper()
	ctx := context.Background()
	base := time.UnixMilli(1_700_000_000_000)

	records := make([]*domain.DecisionRecord, 0, n)
	for i := 0; i < n; i++ {
		rec, err := domain.NewDecisionRecord(
			domain.RestoreTo(fmt.Sprintf("route-%02d", i)),
			fmt.Sprintf("route-%02d", i),
			time.Duration(i)*time.Second,
			base.Add(time.Duration(i)*time.Minute),
		)
		if err != nil {
			t.Fatal(err)
		}
		if err := j.Append(ctx, rec); err != nil {
			t.Fatal(err)
		}
		records = append(records, rec)
	}
	return records
}

func TestJournalStore_AppendAndList(t *testing.T) {
	kv := NewMemoryEngine()
	defer kv.Close()
	j := NewJournalStore(kv, slog.Default())
	ctx := context.Background()

	written := appendRecords(t, j, 5)

	got, err := j.List(ctx, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 5 {
		t.Fatalf("List() returned %d records, want 5", len(got))
	}

	// Newest first.
	for i, rec := range got {
		want := written[len(written)-1-i]
		if rec.ID != want.ID {
			t.Errorf("got[%d].ID = %q, want %q", i, rec.ID, want.ID)
		}
	}
}

func TestJournalStore_ListLimit(t *testing.T) {
	kv := NewMemoryEngine()
	defer kv.Close()
	j := NewJournalStore(kv, slog.Default())
	ctx := context.Background()

	written := appendRecords(t, j, 10)

	got, err := j.List(ctx, 3)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 3 {
		t.Fatalf("List(3) returned %d records, want 3", len(got))
	}
	if got[0].ID != written[9].ID {
		t.Errorf("List(3)[0] = %q, want newest %q", got[0].ID, written[9].ID)
	}
}

func TestJournalStore_SkipsCorruptEntries(t *testing.T) {
	kv := NewMemoryEngine()
	defer kv.Close()
	j := NewJournalStore(kv, slog.Default())
	ctx := context.Background()

	appendRecords(t, j, 3)
	if err := kv.Set(ctx, JournalKey("nkdc-zzzzzzzzzzzzzzzzzzzzzzzzzz"), []byte("not json")); err != nil {
		t.Fatal(err)
	}

	got, err := j.List(ctx, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 3 {
		t.Errorf("List() returned %d records, want 3 (corrupt entry skipped)", len(got))
	}
}

func TestJournalStore_Prune(t *testing.T) {
	kv := NewMemoryEngine()
	defer kv.Close()
	j := NewJournalStore(kv, slog.Default())
	ctx := context.Background()

	written := appendRecords(t, j, 10)

	deleted, err := j.Prune(ctx, 4)
	if err != nil {
		t.Fatal(err)
	}
	if deleted != 6 {
		t.Errorf("Prune() deleted %d, want 6", deleted)
	}

	got, err := j.List(ctx, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 4 {
		t.Fatalf("after prune: %d records, want 4", len(got))
	}
	// The newest four survive.
	if got[0].ID != written[9].ID || got[3].ID != written[6].ID {
		t.Errorf("prune kept wrong records: newest=%q oldest=%q", got[0].ID, got[3].ID)
	}
}

func TestJournalStore_PruneUnderRetention(t *testing.T) {
	kv := NewMemoryEngine()
	defer kv.Close()
	j := NewJournalStore(kv, slog.Default())

	appendRecords(t, j, 3)

	deleted, err := j.Prune(context.Background(), 10)
	if err != nil {
		t.Fatal(err)
	}
	if deleted != 0 {
		t.Errorf("Prune() deleted %d, want 0", deleted)
	}
}

func TestJournalStore_Clear(t *testing.T) {
	kv := NewMemoryEngine()
	defer kv.Close()
	j := NewJournalStore(kv, slog.Default())
	ctx := context.Background()

	appendRecords(t, j, 5)

	// An unrelated key must survive Clear.
	if err := kv.Set(ctx, []byte(StateKey), []byte("state")); err != nil {
		t.Fatal(err)
	}

	if err := j.Clear(ctx); err != nil {
		t.Fatal(err)
	}

	count, err := j.Count(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if count != 0 {
		t.Errorf("Count() after clear = %d, want 0", count)
	}

	if _, err := kv.Get(ctx, []byte(StateKey)); err != nil {
		t.Errorf("state record should survive journal clear: %v", err)
	}
}

func TestJournalStore_AppendInvalid(t *testing.T) {
	j := NewJournalStore(NewMemoryEngine(), slog.Default())

	if err := j.Append(context.Background(), nil); err == nil {
		t.Error("Append(nil) should fail")
	}
	if err := j.Append(context.Background(), &domain.DecisionRecord{}); err == nil {
		t.Error("Append() without ID should fail")
	}
}
