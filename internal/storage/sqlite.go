package storage

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite" // CGO-free SQLite
)

// SQLiteStore keeps identifiers in an embedded SQLite database
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (and if needed creates) the database at path
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if err := ensureDir(path); err != nil {
		return nil, err
	}

	// WAL + busy timeout to avoid "database is locked"
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := createTables(db); err != nil {
		db.Close() //nolint:errcheck
		return nil, err
	}

	return &SQLiteStore{db: db}, nil
}

func createTables(db *sql.DB) error {
	_, err := db.Exec(`
	CREATE TABLE IF NOT EXISTS sent_urls(
	  id      INTEGER PRIMARY KEY,
	  url     TEXT    NOT NULL UNIQUE,
	  sent_at TEXT    NOT NULL
	);
	`)
	if err != nil {
		return fmt.Errorf("failed to create database tables: %w", err)
	}
	return nil
}

// Load returns every stored URL in insertion order
func (s *SQLiteStore) Load() ([]string, error) {
	rows, err := s.db.Query(`SELECT url FROM sent_urls ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query ledger: %w", err)
	}
	defer rows.Close() //nolint:errcheck

	ids := make([]string, 0)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan ledger row: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read ledger: %w", err)
	}
	return ids, nil
}

// Append inserts id; inserting an existing id is a no-op
func (s *SQLiteStore) Append(id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return fmt.Errorf("invalid ledger entry: %q", id)
	}

	_, err := s.db.Exec(
		`INSERT OR IGNORE INTO sent_urls(url, sent_at) VALUES(?, ?)`,
		id, time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to insert ledger entry: %w", err)
	}
	return nil
}

// Close closes the database
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
