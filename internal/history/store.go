// Package history provides a SQLite-backed audit log of CLI invocations.
// Recording is best-effort: a broken log never fails the command it records.
package history

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// Entry is one recorded CLI invocation.
type Entry struct {
	ID        string
	Path      string
	Args      string
	DryRun    bool
	ExitCode  int
	StartedAt time.Time
	Duration  time.Duration
}

// Store provides SQLite-backed invocation persistence.
type Store struct {
	db *sql.DB
}

// Open creates or opens the store at the given database path.
func Open(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("creating history dir: %w", err)
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Record inserts an entry. An empty ID is filled with a fresh UUID.
func (s *Store) Record(e Entry) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	_, err := s.db.Exec(`
		INSERT INTO invocations (id, path, args, dry_run, exit_code, started_at, duration_ms)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.Path, e.Args, e.DryRun, e.ExitCode,
		// Epoch nanoseconds: integers order correctly, unlike RFC 3339
		// text once trailing fractional zeros are trimmed.
		e.StartedAt.UnixNano(), e.Duration.Milliseconds(),
	)
	if err != nil {
		return fmt.Errorf("recording invocation: %w", err)
	}
	return nil
}

// List returns the most recent entries, newest first.
func (s *Store) List(limit int) ([]Entry, error) {
	rows, err := s.db.Query(`
		SELECT id, path, args, dry_run, exit_code, started_at, duration_ms
		FROM invocations
		ORDER BY started_at DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var startedAt, durationMS int64
		if err := rows.Scan(&e.ID, &e.Path, &e.Args, &e.DryRun, &e.ExitCode, &startedAt, &durationMS); err != nil {
			return nil, err
		}
		e.StartedAt = time.Unix(0, startedAt).UTC()
		e.Duration = time.Duration(durationMS) * time.Millisecond
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Append opens the store at dbPath, records one entry, and closes it. It is
// the one-shot form used by the dispatcher.
func Append(dbPath string, e Entry) error {
	store, err := Open(dbPath)
	if err != nil {
		return err
	}
	defer store.Close()
	return store.Record(e)
}
