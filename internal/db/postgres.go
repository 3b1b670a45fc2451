package db

import (
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/lib/pq"
)

// PostgresStore implements Store using PostgreSQL
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore creates a new Postgres store and applies migrations
func NewPostgresStore(dsn string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	store := &PostgresStore{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

func (s *PostgresStore) migrate() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS bin_progress (
			file TEXT NOT NULL,
			bin INTEGER NOT NULL,
			value INTEGER NOT NULL DEFAULT 0,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (file, bin)
		);`,
		`CREATE TABLE IF NOT EXISTS captures (
			id SERIAL PRIMARY KEY,
			session_id TEXT NOT NULL,
			file TEXT NOT NULL,
			bin INTEGER NOT NULL,
			row_index INTEGER NOT NULL,
			col_index INTEGER NOT NULL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);`,
	}

	for _, query := range queries {
		if _, err := s.db.Exec(query); err != nil {
			return err
		}
	}

	if _, err := s.db.Exec(`CREATE INDEX IF NOT EXISTS idx_captures_file_created ON captures(file, created_at DESC)`); err != nil {
		slog.Debug("failed to create captures index", "error", err)
	}
	return nil
}

// Close closes the database connection
func (s *PostgresStore) Close() error {
	return s.db.Close()
}

// LoadProgress returns the stored bins for every file
func (s *PostgresStore) LoadProgress() (map[string][Bins]int, error) {
	rows, err := s.db.Query(`SELECT file, bin, value FROM bin_progress`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanProgress(rows)
}

// SaveBinProgress upserts a single bin
func (s *PostgresStore) SaveBinProgress(file string, bin, value int) error {
	if bin < 0 || bin >= Bins {
		return fmt.Errorf("bin %d out of range", bin)
	}
	query := `INSERT INTO bin_progress (file, bin, value, updated_at) VALUES ($1, $2, $3, NOW())
			  ON CONFLICT (file, bin) DO UPDATE SET value = $3, updated_at = NOW()`
	_, err := s.db.Exec(query, file, bin, value)
	return err
}

// ResetProgress clears all progress and the capture journal
func (s *PostgresStore) ResetProgress() error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM bin_progress`); err != nil {
		return err
	}
	if _, err := tx.Exec(`DELETE FROM captures`); err != nil {
		return err
	}
	return tx.Commit()
}

// RecordCapture journals a capture
func (s *PostgresStore) RecordCapture(c Capture) error {
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now()
	}
	query := `INSERT INTO captures (session_id, file, bin, row_index, col_index, created_at) VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := s.db.Exec(query, c.SessionID, c.File, c.Bin, c.Row, c.Col, c.CreatedAt)
	return err
}

// QueryCaptures returns the most recent captures, optionally for one file
func (s *PostgresStore) QueryCaptures(file string, limit int) ([]Capture, error) {
	query := `SELECT id, session_id, file, bin, row_index, col_index, created_at FROM captures
			  WHERE ($1 = '' OR file = $1) ORDER BY created_at DESC, id DESC LIMIT $2`
	rows, err := s.db.Query(query, file, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanCaptures(rows)
}
