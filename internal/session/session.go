// Package session provides the session-scoped key-value store backing the
// catalog snapshot cache. Values live in a sqlite database that defaults to
// an in-memory DSN, so nothing persists across process restarts unless a
// file path is configured explicitly.
package session

import (
	"database/sql"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/spf13/viper"
	_ "modernc.org/sqlite"
)

// MemoryDSN keeps the store scoped to the current process.
const MemoryDSN = ":memory:"

const schema = `
CREATE TABLE IF NOT EXISTS session_cache (
	cache_key TEXT PRIMARY KEY NOT NULL,
	data TEXT NOT NULL,
	cached_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_session_cached_at ON session_cache(cached_at);
`

// Store is a TTL-aware key-value store.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// Open creates the store at the given sqlite path. An empty path falls back
// to the in-memory DSN.
func Open(path string) (*Store, error) {
	if path == "" {
		path = MemoryDSN
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open session store: %w", err)
	}
	// An in-memory sqlite database exists per connection; a second pooled
	// connection would see an empty table.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create session table: %w", err)
	}
	return &Store{db: db}, nil
}

// OpenFromConfig opens the store at the configured cache.dbfile location.
func OpenFromConfig() (*Store, error) {
	return Open(viper.GetString("cache.dbfile"))
}

// Close closes the underlying database.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Get returns the value for key if it exists and is younger than ttl.
func (s *Store) Get(key string, ttl time.Duration) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var data string
	var cachedAt time.Time
	err := s.db.QueryRow(
		`SELECT data, cached_at FROM session_cache WHERE cache_key = ?`, key,
	).Scan(&data, &cachedAt)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to query session store: %w", err)
	}

	age := time.Now().UTC().Sub(cachedAt)
	if age > ttl {
		slog.Debug("Session entry expired", "key", key, "age", age)
		return "", false, nil
	}
	return data, true, nil
}

// Set stores the value, replacing any previous entry for key wholesale.
func (s *Store) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(
		`INSERT OR REPLACE INTO session_cache (cache_key, data, cached_at) VALUES (?, ?, CURRENT_TIMESTAMP)`,
		key, value,
	)
	if err != nil {
		return fmt.Errorf("failed to write session store: %w", err)
	}
	return nil
}

// Delete removes a single entry.
func (s *Store) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.Exec(`DELETE FROM session_cache WHERE cache_key = ?`, key); err != nil {
		return fmt.Errorf("failed to delete session entry: %w", err)
	}
	return nil
}

// Clear removes every entry and returns the number of rows deleted.
func (s *Store) Clear() (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	result, err := s.db.Exec(`DELETE FROM session_cache`)
	if err != nil {
		return 0, fmt.Errorf("failed to clear session store: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	slog.Debug("Session store cleared", "rows_deleted", rows)
	return rows, nil
}

// Entry describes one stored key for the status listing.
type Entry struct {
	Key      string
	Size     int
	CachedAt time.Time
}

// Entries lists every stored key with its payload size and age.
func (s *Store) Entries() ([]Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`SELECT cache_key, length(data), cached_at FROM session_cache ORDER BY cache_key`)
	if err != nil {
		return nil, fmt.Errorf("failed to list session entries: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.Key, &e.Size, &e.CachedAt); err != nil {
			return nil, fmt.Errorf("failed to scan session entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
