package storage

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/yndnr/navkeep-go/internal/core/domain"
)

// DefaultJournalRetention is how many decision records Prune keeps.
const DefaultJournalRetention = 200

// JournalStore persists decision records under JournalPrefix keys.
// ULID record IDs make key order equal time order, so listing and
// pruning are plain prefix scans.
type JournalStore struct {
	kv     KV
	logger *slog.Logger
}

// NewJournalStore builds a journal over the given KV engine.
func NewJournalStore(kv KV, logger *slog.Logger) *JournalStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &JournalStore{kv: kv, logger: logger}
}

// Append persists one decision record.
func (j *JournalStore) Append(ctx context.Context, rec *domain.DecisionRecord) error {
	if rec == nil || rec.ID == "" {
		return domain.ErrInvalidArgument.WithDetails("decision record missing id")
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return domain.ErrStorageError.WithCause(err)
	}
	if err := j.kv.Set(ctx, JournalKey(rec.ID), data); err != nil {
		return domain.ErrStorageError.WithCause(err)
	}
	return nil
}

// List returns up to limit records, newest first. limit <= 0 means all.
// Undecodable entries are skipped and logged; one bad record must not
// hide the rest of the journal from support.
func (j *JournalStore) List(ctx context.Context, limit int) ([]*domain.DecisionRecord, error) {
	var records []*domain.DecisionRecord

	err := j.kv.Scan(ctx, []byte(JournalPrefix), func(key, value []byte) bool {
		var rec domain.DecisionRecord
		if err := json.Unmarshal(value, &rec); err != nil {
			j.logger.Warn("skipping corrupt journal entry", "entry", string(key), "error", err)
			return true
		}
		records = append(records, &rec)
		return true
	})
	if err != nil {
		return nil, domain.ErrStorageError.WithCause(err)
	}

	// Scan yields oldest first; reverse to newest first.
	for i, n := 0, len(records); i < n/2; i++ {
		records[i], records[n-1-i] = records[n-1-i], records[i]
	}

	if limit > 0 && len(records) > limit {
		records = records[:limit]
	}
	return records, nil
}

// Prune deletes all but the newest keep records. keep <= 0 applies
// the default retention.
func (j *JournalStore) Prune(ctx context.Context, keep int) (int, error) {
	if keep <= 0 {
		keep = DefaultJournalRetention
	}

	var keys []string
	err := j.kv.Scan(ctx, []byte(JournalPrefix), func(key, _ []byte) bool {
		keys = append(keys, string(key))
		return true
	})
	if err != nil {
		return 0, domain.ErrStorageError.WithCause(err)
	}

	excess := len(keys) - keep
	if excess <= 0 {
		return 0, nil
	}

	deleted := 0
	for _, key := range keys[:excess] {
		if err := j.kv.Delete(ctx, []byte(key)); err != nil {
			j.logger.Warn("journal prune delete failed", "entry", key, "error", err)
			continue
		}
		deleted++
	}
	return deleted, nil
}

// Clear removes every journal entry.
func (j *JournalStore) Clear(ctx context.Context) error {
	var keys []string
	err := j.kv.Scan(ctx, []byte(JournalPrefix), func(key, _ []byte) bool {
		keys = append(keys, string(key))
		return true
	})
	if err != nil {
		return domain.ErrStorageError.WithCause(err)
	}

	for _, key := range keys {
		if err := j.kv.Delete(ctx, []byte(key)); err != nil {
			return domain.ErrStorageError.WithCause(err)
		}
	}
	return nil
}

// Count returns the number of journal entries.
func (j *JournalStore) Count(ctx context.Context) (int, error) {
	count := 0
	err := j.kv.Scan(ctx, []byte(JournalPrefix), func(_, _ []byte) bool {
		count++
		return true
	})
	if err != nil {
		return 0, domain.ErrStorageError.WithCause(err)
	}
	return count, nil
}
