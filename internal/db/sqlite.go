package db

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/gofrs/flock"
	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// SQLiteStore implements Store using SQLite
type SQLiteStore struct {
	db       *sql.DB
	lock     *flock.Flock
	readOnly bool
}

// NewSQLiteStore opens the database at path, takes the single-writer lock
// next to it and applies migrations.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	return openSQLite(path, false)
}

// NewSQLiteReader opens the database without the writer lock, so it works
// while a game is running. Every write returns ErrReadOnly.
func NewSQLiteReader(path string) (*SQLiteStore, error) {
	return openSQLite(path, true)
}

func openSQLite(path string, readOnly bool) (*SQLiteStore, error) {
	var lock *flock.Flock
	if path != ":memory:" && !readOnly {
		lock = flock.New(path + ".lock")
		ok, err := lock.TryLock()
		if err != nil {
			return nil, fmt.Errorf("failed to acquire database lock: %w", err)
		}
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrLocked, path)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		unlock(lock)
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if path == ":memory:" {
		// every pooled connection would get its own in-memory database
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		unlock(lock)
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	store := &SQLiteStore{db: db, lock: lock, readOnly: readOnly}
	if err := store.migrate(); err != nil {
		db.Close()
		unlock(lock)
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

func unlock(lock *flock.Flock) {
	if lock != nil {
		_ = lock.Unlock()
	}
}

func (s *SQLiteStore) migrate() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS bin_progress (
			file TEXT NOT NULL,
			bin INTEGER NOT NULL,
			value INTEGER NOT NULL DEFAULT 0,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (file, bin)
		);`,
		`CREATE TABLE IF NOT EXISTS captures (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			session_id TEXT NOT NULL,
			file TEXT NOT NULL,
			bin INTEGER NOT NULL,
			row_index INTEGER NOT NULL,
			col_index INTEGER NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);`,
		`CREATE INDEX IF NOT EXISTS idx_captures_file_created ON captures(file, created_at DESC)`,
	}
	for _, query := range queries {
		if _, err := s.db.Exec(query); err != nil {
			return err
		}
	}
	return nil
}

// Close closes the database connection and releases the lock
func (s *SQLiteStore) Close() error {
	err := s.db.Close()
	unlock(s.lock)
	return err
}

// LoadProgress returns the stored bins for every file
func (s *SQLiteStore) LoadProgress() (map[string][Bins]int, error) {
	rows, err := s.db.Query(`SELECT file, bin, value FROM bin_progress`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanProgress(rows)
}

// SaveBinProgress upserts a single bin
func (s *SQLiteStore) SaveBinProgress(file string, bin, value int) error {
	if s.readOnly {
		return ErrReadOnly
	}
	if bin < 0 || bin >= Bins {
		return fmt.Errorf("bin %d out of range", bin)
	}
	query := `INSERT INTO bin_progress (file, bin, value, updated_at) VALUES (?, ?, ?, ?)
			  ON CONFLICT (file, bin) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`
	_, err := s.db.Exec(query, file, bin, value, time.Now())
	return err
}

// ResetProgress clears all progress and the capture journal
func (s *SQLiteStore) ResetProgress() error {
	if s.readOnly {
		return ErrReadOnly
	}
	for _, query := range []string{`DELETE FROM bin_progress`, `DELETE FROM captures`} {
		if _, err := s.db.Exec(query); err != nil {
			return err
		}
	}
	return nil
}

// RecordCapture journals a capture
func (s *SQLiteStore) RecordCapture(c Capture) error {
	if s.readOnly {
		return ErrReadOnly
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now()
	}
	query := `INSERT INTO captures (session_id, file, bin, row_index, col_index, created_at) VALUES (?, ?, ?, ?, ?, ?)`
	_, err := s.db.Exec(query, c.SessionID, c.File, c.Bin, c.Row, c.Col, c.CreatedAt)
	return err
}

// QueryCaptures returns the most recent captures, optionally for one file
func (s *SQLiteStore) QueryCaptures(file string, limit int) ([]Capture, error) {
	query := `SELECT id, session_id, file, bin, row_index, col_index, created_at FROM captures
			  WHERE (? = '' OR file = ?) ORDER BY created_at DESC, id DESC LIMIT ?`
	rows, err := s.db.Query(query, file, file, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanCaptures(rows)
}

func scanProgress(rows *sql.Rows) (map[string][Bins]int, error) {
	progress := make(map[string][Bins]int)
	for rows.Next() {
		var file string
		var bin, value int
		if err := rows.Scan(&file, &bin, &value); err != nil {
			return nil, err
		}
		if bin < 0 || bin >= Bins {
			continue
		}
		bins := progress[file]
		bins[bin] = value
		progress[file] = bins
	}
	return progress, rows.Err()
}

func scanCaptures(rows *sql.Rows) ([]Capture, error) {
	var results []Capture
	for rows.Next() {
		var c Capture
		if err := rows.Scan(&c.ID, &c.SessionID, &c.File, &c.Bin, &c.Row, &c.Col, &c.CreatedAt); err != nil {
			return nil, err
		}
		results = append(results, c)
	}
	return results, rows.Err()
}
