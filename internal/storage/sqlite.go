package storage

import (
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

const schema = `
CREATE TABLE IF NOT EXISTS kv (
	namespace TEXT NOT NULL,
	key       TEXT NOT NULL,
	value     BLOB NOT NULL,
	updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
	PRIMARY KEY (namespace, key)
);
`

// SQLite is a KV backed by a single-file SQLite database.
type SQLite struct {
	db *sql.DB
}

func OpenSQLite(path string) (*SQLite, error) {
	if path == "" {
		return nil, errors.New("storage path is required")
	}
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping storage: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init storage schema: %w", err)
	}
	return &SQLite{db: db}, nil
}

func (s *SQLite) Get(namespace, key string) ([]byte, error) {
	var value []byte
	err := s.db.QueryRow(
		`SELECT value FROM kv WHERE namespace = ? AND key = ?`,
		namespace, key,
	).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("storage get %s/%s: %w", namespace, key, err)
	}
	return value, nil
}

func (s *SQLite) Set(namespace, key string, value []byte) error {
	_, err := s.db.Exec(`
		INSERT INTO kv (namespace, key, value, updated_at)
		VALUES (?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(namespace, key) DO UPDATE SET
			value = excluded.value,
			updated_at = CURRENT_TIMESTAMP
	`, namespace, key, value)
	if err != nil {
		return fmt.Errorf("storage set %s/%s: %w", namespace, key, err)
	}
	return nil
}

func (s *SQLite) Delete(namespace, key string) error {
	if _, err := s.db.Exec(`DELETE FROM kv WHERE namespace = ? AND key = ?`, namespace, key); err != nil {
		return fmt.Errorf("storage delete %s/%s: %w", namespace, key, err)
	}
	return nil
}

func (s *SQLite) Close() error { return s.db.Close() }
