// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package cache persists HTTP response bodies in a SQLite database with
// a freshness TTL so repeated report runs reuse recent API responses
// instead of re-querying every source.
package cache

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

const defaultTTL = time.Hour

// Store is a TTL cache of response bodies keyed by request URL.
type Store struct {
	db  *sql.DB
	ttl time.Duration
	now func() time.Time
}

// DefaultPath returns the cache database location under the user cache
// directory.
func DefaultPath() (string, error) {
	dir, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("resolving user cache directory: %w", err)
	}
	return filepath.Join(dir, "project-stats", "responses.db"), nil
}

// Open opens or creates the cache database at path, creating parent
// directories and the schema as needed. A non-positive ttl selects the
// default of one hour.
func Open(path string, ttl time.Duration) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating cache directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening cache database: %w", err)
	}

	if ttl <= 0 {
		ttl = defaultTTL
	}

	s := &Store{db: db, ttl: ttl, now: time.Now}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating cache schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS responses (
			key TEXT PRIMARY KEY,
			body BLOB NOT NULL,
			fetched_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_responses_fetched_at ON responses(fetched_at)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Get returns the cached body for key if it is still fresh.
func (s *Store) Get(key string) ([]byte, bool) {
	var body []byte
	var fetchedAt string
	err := s.db.QueryRow(
		`SELECT body, fetched_at FROM responses WHERE key = ?`, key,
	).Scan(&body, &fetchedAt)
	if err != nil {
		return nil, false
	}

	fetched, err := time.Parse(time.RFC3339Nano, fetchedAt)
	if err != nil {
		return nil, false
	}
	if s.now().Sub(fetched) >= s.ttl {
		return nil, false
	}
	return body, true
}

// Put stores the body for key, replacing any previous entry.
func (s *Store) Put(key string, body []byte) error {
	_, err := s.db.Exec(
		`INSERT INTO responses (key, body, fetched_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET body = excluded.body, fetched_at = excluded.fetched_at`,
		key, body, s.now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("storing cached response: %w", err)
	}
	return nil
}

// Prune deletes entries older than the TTL and returns how many were
// removed.
func (s *Store) Prune() (int64, error) {
	cutoff := s.now().Add(-s.ttl).UTC().Format(time.RFC3339Nano)
	res, err := s.db.Exec(`DELETE FROM responses WHERE fetched_at < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("pruning cache: %w", err)
	}
	return res.RowsAffected()
}
