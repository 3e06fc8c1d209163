package domain

import (
	"crypto/rand"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
)

// DecisionRecordPrefix is the prefix for decision record IDs.
const DecisionRecordPrefix = "nkdc-"

// DecisionRecord is the durable journal entry written for every
// restoration decision the engine emits. Restoration bugs are timing
// bugs; the journal is what support reads to reconstruct them.
type DecisionRecord struct {
	// ID is the unique record identifier.
	// Format: nkdc-{ulid_lowercase}, 31 characters total. ULIDs sort
	// by creation time, which gives the journal its ordering for free.
	ID string `json:"id"`

	// DecidedAt is when the decision was made (Unix milliseconds).
	DecidedAt int64 `json:"decided_at"`

	// Outcome, Route and Reason mirror the emitted Decision.
	Outcome Outcome `json:"outcome"`
	Route   string  `json:"route,omitempty"`
	Reason  Reason  `json:"reason"`

	// BackgroundMs is the elapsed background interval the policy saw,
	// in milliseconds. Negative when the wall clock moved backwards.
	BackgroundMs int64 `json:"background_ms"`

	// SavedRoute is the route held by the snapshot under evaluation,
	// empty when no snapshot existed.
	SavedRoute string `json:"saved_route,omitempty"`
}

// NewDecisionRecord builds a journal entry for an emitted decision.
func NewDecisionRecord(d Decision, savedRoute string, backgroundFor time.Duration, now time.Time) (*DecisionRecord, error) {
	id, err := GenerateDecisionRecordID(now)
	if err != nil {
		return nil, err
	}
	return &DecisionRecord{
		ID:           id,
		DecidedAt:    now.UnixMilli(),
		Outcome:      d.Outcome,
		Route:        d.Route,
		Reason:       d.Reason,
		BackgroundMs: backgroundFor.Milliseconds(),
		SavedRoute:   savedRoute,
	}, nil
}

// GenerateDecisionRecordID generates a new record ID using ULID.
// Format: nkdc-{ulid_lowercase}, 31 characters total.
func GenerateDecisionRecordID(now time.Time) (string, error) {
	entropy := ulid.Monotonic(rand.Reader, 0)
	id, err := ulid.New(ulid.Timestamp(now), entropy)
	if err != nil {
		return "", ErrInternalServer.WithCause(err)
	}
	return DecisionRecordPrefix + strings.ToLower(id.String()), nil
}

// IsValidDecisionRecordID checks if a string is a valid record ID.
func IsValidDecisionRecordID(id string) bool {
	id = strings.ToLower(id)
	if !strings.HasPrefix(id, DecisionRecordPrefix) {
		return false
	}
	// nkdc- (5) + ULID (26) = 31 characters
	if len(id) != 31 {
		return false
	}
	_, err := ulid.Parse(strings.ToUpper(id[len(DecisionRecordPrefix):]))
	return err == nil
}

// DecidedAtTime returns DecidedAt as time.Time.
func (r *DecisionRecord) DecidedAtTime() time.Time {
	return time.UnixMilli(r.DecidedAt)
}
