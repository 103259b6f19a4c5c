// Package store persists onboarding results and in-progress drafts in SQLite.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"selfemploy/internal/logging"
)

// ErrNotFound is returned when no matching row exists.
var ErrNotFound = errors.New("not found")

// Schema versions:
// v1: profiles table
// v2: onboarding_draft table for resumable onboarding
// v3: profiles.utr column
const CurrentSchemaVersion = 3

// Store manages the selfemploy database.
type Store struct {
	db     *sql.DB
	dbPath string
	mu     sync.Mutex
}

// Open creates or opens the database at path.
func Open(ctx context.Context, path string, busyTimeout time.Duration) (*Store, error) {
	timer := logging.StartTimer(logging.CategoryStore, "Open")
	defer timer.Stop()

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(%d)&_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)",
		path, busyTimeout.Milliseconds())
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	s := &Store{db: db, dbPath: path}
	if err := s.migrate(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	logging.Store("opened database %s", path)
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.dbPath
}

// SchemaVersion returns the applied schema version.
func (s *Store) SchemaVersion(ctx context.Context) (int, error) {
	var v int
	if err := s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&v); err != nil {
		return 0, fmt.Errorf("failed to read schema version: %w", err)
	}
	return v, nil
}

// migrations[i] upgrades a database from version i to i+1.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS profiles (
		id TEXT PRIMARY KEY,
		user_name TEXT NOT NULL,
		tax_year TEXT NOT NULL,
		business_type TEXT NOT NULL,
		welcome TEXT NOT NULL,
		skipped INTEGER NOT NULL DEFAULT 0,
		completed_at TEXT NOT NULL,
		created_at TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_profiles_created ON profiles(created_at);`,

	`CREATE TABLE IF NOT EXISTS onboarding_draft (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		snapshot_json TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);`,

	`ALTER TABLE profiles ADD COLUMN utr TEXT NOT NULL DEFAULT '';`,
}

func (s *Store) migrate(ctx context.Context) error {
	from, err := s.SchemaVersion(ctx)
	if err != nil {
		return err
	}
	if from > len(migrations) {
		return fmt.Errorf("database schema v%d is newer than supported v%d", from, len(migrations))
	}

	for v := from; v < len(migrations); v++ {
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, migrations[v]); err != nil {
			tx.Rollback()
			return fmt.Errorf("migration to v%d: %w", v+1, err)
		}
		// PRAGMA does not accept bound parameters.
		if _, err := tx.ExecContext(ctx, fmt.Sprintf("PRAGMA user_version = %d", v+1)); err != nil {
			tx.Rollback()
			return fmt.Errorf("migration to v%d: %w", v+1, err)
		}
		if err := tx.Commit(); err != nil {
			return err
		}
		logging.StoreDebug("schema migrated to v%d", v+1)
	}
	return nil
}

// DeleteAll removes every profile and the draft.
func (s *Store) DeleteAll(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, stmt := range []string{"DELETE FROM profiles", "DELETE FROM onboarding_draft"} {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to clear data: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	logging.Store("cleared all profiles and drafts")
	return nil
}

// Fixed-width so that stored timestamps sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	return time.Parse(timeLayout, s)
}
