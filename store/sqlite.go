//go:build !tinygo

package store

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// SQLite keeps all records in one database file: handy when several
// simulator instances share a single artifact.
type SQLite struct {
	db *sql.DB
}

// NewSQLite opens (or creates) the database and initializes the schema.
func NewSQLite(path string) (*SQLite, error) {
	dsn := path + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	db.SetMaxOpenConns(1)

	const schema = `
	CREATE TABLE IF NOT EXISTS records (
		name TEXT PRIMARY KEY,
		data BLOB NOT NULL
	);`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &SQLite{db: db}, nil
}

func (s *SQLite) Close() error { return s.db.Close() }

func (s *SQLite) Exists(name string) bool {
	var one int
	err := s.db.QueryRow(`SELECT 1 FROM records WHERE name = ?`, name).Scan(&one)
	return err == nil
}

func (s *SQLite) Read(name string, p []byte) bool {
	var body []byte
	err := s.db.QueryRow(`SELECT data FROM records WHERE name = ?`, name).Scan(&body)
	if err != nil || len(body) != len(p) {
		return false
	}
	copy(p, body)
	return true
}

func (s *SQLite) Write(name string, p []byte) error {
	_, err := s.db.Exec(
		`INSERT INTO records (name, data) VALUES (?, ?)
		 ON CONFLICT(name) DO UPDATE SET data = excluded.data`,
		name, p,
	)
	if err != nil {
		return fmt.Errorf("write record %q: %w", name, err)
	}
	return nil
}
