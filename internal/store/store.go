// Package store persists the caller-owned state the engine reads back:
// filing flags per deadline and named rule sets.
//
// Filing flags are kept as an append-only log of FilingRecord events. The
// current flag for a deadline is its latest event; undoing a filing appends
// an event with Filed=false instead of deleting anything.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rpgo/fiscal-engine/internal/domain"
)

// ErrRulesNotFound is returned by LoadRules for an unknown rule-set name.
var ErrRulesNotFound = errors.New("rule set not found")

// FilingRecord is one change of a deadline's filed flag.
type FilingRecord struct {
	ID         string    `json:"id"`
	DeadlineID string    `json:"deadline_id"`
	Year       int       `json:"year"`
	Filed      bool      `json:"filed"`
	RecordedAt time.Time `json:"recorded_at"`
}

// NewFilingRecord stamps a new event with a fresh id.
func NewFilingRecord(deadlineID string, year int, filed bool, at time.Time) FilingRecord {
	return FilingRecord{
		ID:         uuid.NewString(),
		DeadlineID: deadlineID,
		Year:       year,
		Filed:      filed,
		RecordedAt: at.UTC(),
	}
}

// FilingStore persists filing events and rule sets.
type FilingStore interface {
	// SetFiled appends a filing event.
	SetFiled(ctx context.Context, rec FilingRecord) error

	// Filings folds the year's events into the current filed flag per deadline id.
	Filings(ctx context.Context, year int) (map[string]bool, error)

	// History returns every event for one deadline, oldest first.
	History(ctx context.Context, deadlineID string) ([]FilingRecord, error)

	// SaveRules stores a rule set under name, replacing any previous one.
	SaveRules(ctx context.Context, name string, cfg *domain.Configuration) error

	// LoadRules returns the rule set stored under name.
	LoadRules(ctx context.Context, name string) (*domain.Configuration, error)

	Close() error
}

// Fold reduces events (oldest first) into the latest flag per deadline.
func Fold(records []FilingRecord) map[string]bool {
	out := make(map[string]bool, len(records))
	for _, r := range records {
		out[r.DeadlineID] = r.Filed
	}
	return out
}
