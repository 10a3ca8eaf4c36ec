// Package history keeps a SQLite log of processed forms. It is a record of what happened and
// plays no part in duplicate detection.
package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/gardar/formscribe/pkg/pipeline"
	"github.com/gardar/formscribe/pkg/record"
)

// DefaultLimit is used by Recent for non-positive limits.
const DefaultLimit = 50

// Entry is one logged run.
type Entry struct {
	ID        int64          `json:"id"`
	FormID    string         `json:"form_id"`
	Source    string         `json:"source"`
	Warning   string         `json:"warning,omitempty"`
	Record    *record.Record `json:"record"`
	CreatedAt time.Time      `json:"created_at"`
}

// Store wraps the SQLite database.
type Store struct {
	db *sql.DB
}

// Open opens or creates the database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}
	// A single connection serializes writers instead of failing with SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the database.
func (s *Store) Close() error { return s.db.Close() }

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			form_id TEXT,
			source TEXT,
			warning TEXT,
			record_json TEXT,
			created_at TEXT
		);`,
		`CREATE INDEX IF NOT EXISTS idx_runs_form_id ON runs(form_id);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to migrate history database: %w", err)
		}
	}
	return nil
}

// Record stores run. It satisfies pipeline.Recorder.
func (s *Store) Record(ctx context.Context, run pipeline.Run) error {
	recordJSON, err := json.Marshal(run.Record)
	if err != nil {
		return fmt.Errorf("failed to encode record: %w", err)
	}
	at := run.At
	if at.IsZero() {
		at = time.Now()
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO runs(form_id, source, warning, record_json, created_at) VALUES(?, ?, ?, ?, ?)`,
		run.FormID, run.Source, run.Warning, string(recordJSON), at.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}
	return nil
}

// Recent returns up to limit runs, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, form_id, source, warning, record_json, created_at FROM runs ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	entries := []Entry{}
	for rows.Next() {
		var (
			e          Entry
			recordJSON string
			createdAt  string
		)
		if err := rows.Scan(&e.ID, &e.FormID, &e.Source, &e.Warning, &recordJSON, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		e.Record = record.New()
		if err := json.Unmarshal([]byte(recordJSON), e.Record); err != nil {
			return nil, fmt.Errorf("failed to decode record of run %d: %w", e.ID, err)
		}
		if e.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
			return nil, fmt.Errorf("failed to parse time of run %d: %w", e.ID, err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read runs: %w", err)
	}
	return entries, nil
}
