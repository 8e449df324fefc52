package database

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// DBPath returns the default path of the shared database
func DBPath() string {
	return filepath.Join("data", "marine-outlook.db")
}

// Open opens the SQLite database at path, creating its directory if needed.
func Open(path string) (*sql.DB, error) {
	if path != ":memory:" {
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("creating database directory: %w", err)
			}
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	// A single connection keeps ":memory:" databases shared and avoids
	// SQLITE_BUSY between writers.
	db.SetMaxOpenConns(1)

	// Set pragmas for performance
	_, _ = db.Exec("PRAGMA journal_mode=WAL")
	_, _ = db.Exec("PRAGMA synchronous=NORMAL")
	_, _ = db.Exec("PRAGMA busy_timeout=5000")

	if err := EnsureSchema(db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// EnsureSchema creates the forecast page cache table if it does not exist.
func EnsureSchema(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS forecast_pages (
			zone TEXT NOT NULL,
			synopsis_zone TEXT NOT NULL DEFAULT '',
			source_url TEXT NOT NULL,
			html TEXT NOT NULL,
			fetched_at DATETIME NOT NULL,
			PRIMARY KEY (zone, synopsis_zone)
		);
	`)
	if err != nil {
		return fmt.Errorf("creating forecast_pages table: %w", err)
	}

	return nil
}
