/*
Package sqlite provides a SQLite-backed Persistence implementation.

PURPOSE:
  Stores each engine document as one JSON value in a key-value table,
  mirroring the contract of the extension storage the documents originally
  lived in: independent keys, whole-document replacement on Set, no
  transactionality across keys.

SCHEMA:
  documents(key TEXT PRIMARY KEY, value TEXT NOT NULL, updated_at TEXT)

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging):
  - Multiple readers don't block
  - Single writer at a time
  - Better crash recovery

USAGE:
  store, err := sqlite.New("./data/rms.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

MIGRATION:
  Schema is auto-migrated on New(). Use ":memory:" for tests.

SEE ALSO:
  - rms/persist.go: Interface definition
  - store/memory: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Store implements rms.Persistence using SQLite.
type Store struct {
	db *sql.DB
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS documents (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);`
	_, err := s.db.Exec(schema)
	return err
}

// Get returns the stored documents for the requested keys. Missing keys
// are simply absent from the result map.
func (s *Store) Get(ctx context.Context, keys []string) (map[string]json.RawMessage, error) {
	if len(keys) == 0 {
		return map[string]json.RawMessage{}, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(keys)), ",")
	args := make([]any, len(keys))
	for i, key := range keys {
		args[i] = key
	}

	rows, err := s.db.QueryContext(ctx,
		fmt.Sprintf("SELECT key, value FROM documents WHERE key IN (%s)", placeholders), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to read documents: %w", err)
	}
	defer rows.Close()

	result := make(map[string]json.RawMessage, len(keys))
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, err
		}
		result[key] = json.RawMessage(value)
	}
	return result, rows.Err()
}

// Set marshals value and stores it under key, replacing any previous
// document.
func (s *Store) Set(ctx context.Context, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal document %q: %w", key, err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO documents (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, string(raw), time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("failed to write document %q: %w", key, err)
	}
	return nil
}
