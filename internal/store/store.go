// Package store caches the normalized event set in SQLite, keyed by a
// fingerprint of the raw source. The cache is a pure optimization: deleting
// the database file and reloading regenerates identical rows from the log.
package store

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

type Store struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS Source (
  path TEXT PRIMARY KEY,
  fingerprint TEXT NOT NULL,
  loaded_at DATETIME
);

CREATE TABLE IF NOT EXISTS Event (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  source TEXT NOT NULL,
  start_time INTEGER NOT NULL,
  end_time INTEGER NOT NULL,
  duration_ms INTEGER NOT NULL,
  track TEXT NOT NULL,
  artist TEXT NOT NULL,
  album TEXT NOT NULL,
  platform TEXT NOT NULL,
  skipped INTEGER NOT NULL,
  track_uri TEXT,
  media_type TEXT NOT NULL,
  FOREIGN KEY (source) REFERENCES Source(path)
);

CREATE INDEX IF NOT EXISTS EventBySource ON Event(source, end_time, id);
`

func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if err := createTables(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating tables: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func createTables(db *sql.DB) error {
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("executing schema: %w", err)
	}
	return nil
}
