/*
Package sqlite provides a SQLite-backed store.FilingStore.

TABLES:

	filing_events: append-only log of filed-flag changes, one row per event
	rule_sets:     named rule sets, JSON-encoded, replaced on save

Filing events are never updated or deleted. The current flag of a deadline
is its latest event (highest seq).

WAL MODE:

	The database is opened with WAL so readers do not block the writer.
	Writes are serialized with a sync.RWMutex.

USAGE:

	st, err := sqlite.New("./fiscal.db")
	if err != nil {
		return err
	}
	defer st.Close()

Use ":memory:" for a throwaway database.
*/
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rpgo/fiscal-engine/internal/domain"
	"github.com/rpgo/fiscal-engine/internal/store"
)

// Store implements store.FilingStore on SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

var _ store.FilingStore = (*Store)(nil)

// New opens (and migrates) the database at dbPath. An empty path or ":memory:"
// opens an in-memory database held on a single connection.
func New(dbPath string) (*Store, error) {
	if dbPath == "" {
		dbPath = ":memory:"
	}
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if dbPath == ":memory:" {
		// every pooled connection would get its own empty database
		db.SetMaxOpenConns(1)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS filing_events (
		seq INTEGER PRIMARY KEY AUTOINCREMENT,
		id TEXT NOT NULL UNIQUE,
		deadline_id TEXT NOT NULL,
		fiscal_year INTEGER NOT NULL,
		filed BOOLEAN NOT NULL,
		recorded_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_filing_events_year
		ON filing_events(fiscal_year, seq);
	CREATE INDEX IF NOT EXISTS idx_filing_events_deadline
		ON filing_events(deadline_id, seq);

	CREATE TABLE IF NOT EXISTS rule_sets (
		name TEXT PRIMARY KEY,
		config_json TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// SetFiled appends a filing event.
func (s *Store) SetFiled(ctx context.Context, rec store.FilingRecord) error {
	if rec.DeadlineID == "" {
		return fmt.Errorf("filing record has no deadline id")
	}
	if rec.ID == "" {
		rec = store.NewFilingRecord(rec.DeadlineID, rec.Year, rec.Filed, rec.RecordedAt)
	}
	if rec.RecordedAt.IsZero() {
		rec.RecordedAt = time.Now().UTC()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO filing_events (id, deadline_id, fiscal_year, filed, recorded_at)
		VALUES (?, ?, ?, ?, ?)`,
		rec.ID, rec.DeadlineID, rec.Year, rec.Filed, rec.RecordedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("failed to record filing for %s: %w", rec.DeadlineID, err)
	}
	return nil
}

// Filings returns the current filed flag per deadline for one fiscal year.
func (s *Store) Filings(ctx context.Context, year int) (map[string]bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	records, err := s.query(ctx, `
		SELECT id, deadline_id, fiscal_year, filed, recorded_at
		FROM filing_events WHERE fiscal_year = ? ORDER BY seq`, year)
	if err != nil {
		return nil, err
	}
	return store.Fold(records), nil
}

// History returns every event for one deadline, oldest first.
func (s *Store) History(ctx context.Context, deadlineID string) ([]store.FilingRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.query(ctx, `
		SELECT id, deadline_id, fiscal_year, filed, recorded_at
		FROM filing_events WHERE deadline_id = ? ORDER BY seq`, deadlineID)
}

func (s *Store) query(ctx context.Context, query string, args ...any) ([]store.FilingRecord, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query filings: %w", err)
	}
	defer rows.Close()

	var out []store.FilingRecord
	for rows.Next() {
		var (
			rec        store.FilingRecord
			recordedAt string
		)
		if err := rows.Scan(&rec.ID, &rec.DeadlineID, &rec.Year, &rec.Filed, &recordedAt); err != nil {
			return nil, fmt.Errorf("failed to scan filing: %w", err)
		}
		if rec.RecordedAt, err = time.Parse(time.RFC3339Nano, recordedAt); err != nil {
			return nil, fmt.Errorf("failed to parse recorded_at of filing %s: %w", rec.ID, err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// SaveRules stores cfg under name, replacing any previous rule set.
func (s *Store) SaveRules(ctx context.Context, name string, cfg *domain.Configuration) error {
	data, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to encode rules %s: %w", name, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO rule_sets (name, config_json, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET config_json = excluded.config_json, updated_at = excluded.updated_at`,
		name, string(data), time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to save rules %s: %w", name, err)
	}
	return nil
}

// LoadRules returns the rule set stored under name.
func (s *Store) LoadRules(ctx context.Context, name string) (*domain.Configuration, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var data string
	err := s.db.QueryRowContext(ctx, `SELECT config_json FROM rule_sets WHERE name = ?`, name).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", store.ErrRulesNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load rules %s: %w", name, err)
	}

	var cfg domain.Configuration
	if err := json.Unmarshal([]byte(data), &cfg); err != nil {
		return nil, fmt.Errorf("failed to decode rules %s: %w", name, err)
	}
	return &cfg, nil
}
