// Package database keeps a local history of runs and the profiles they
// collected. It is best-effort bookkeeping beside the CSV output: the sink
// stays authoritative.
package database

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// DB wraps the sqlite connection.
type DB struct {
	conn *sql.DB
}

// New opens (or creates) the database at dbPath and ensures the schema.
func New(dbPath string) (*DB, error) {
	conn, err := sql.Open("sqlite3", fmt.Sprintf("%s?_journal_mode=WAL&_synchronous=NORMAL&_timeout=5000", dbPath))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite doesn't support multiple writers.
	conn.SetMaxOpenConns(1)
	conn.SetMaxIdleConns(1)
	conn.SetConnMaxLifetime(time.Hour)

	db := &DB{conn: conn}
	if err := db.initSchema(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return db, nil
}

func (db *DB) initSchema() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			started_at TIMESTAMP NOT NULL,
			finished_at TIMESTAMP,
			queries INTEGER NOT NULL DEFAULT 0,
			profiles INTEGER NOT NULL DEFAULT 0,
			status TEXT NOT NULL DEFAULT 'running',
			output_path TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS profiles (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id TEXT NOT NULL REFERENCES runs(id),
			query TEXT NOT NULL,
			name TEXT,
			title TEXT,
			company TEXT,
			location TEXT,
			profile_url TEXT,
			about TEXT,
			connections TEXT,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_profiles_run ON profiles(run_id)`,
		`CREATE INDEX IF NOT EXISTS idx_profiles_url ON profiles(profile_url)`,
	}

	for _, q := range queries {
		if _, err := db.conn.Exec(q); err != nil {
			return fmt.Errorf("failed to create table: %w", err)
		}
	}
	return nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

// GetConn returns the underlying connection for repositories.
func (db *DB) GetConn() *sql.DB {
	return db.conn
}
