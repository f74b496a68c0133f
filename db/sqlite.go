package db

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// Connect opens the dedup/checkpoint database, creating the parent
// directory when absent.
func Connect(path string) (*sql.DB, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// SQLite allows a single writer; one pooled connection avoids
	// SQLITE_BUSY under concurrent checkpoint updates.
	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	return db, nil
}

// Init creates the seen-events and source-checkpoints tables.
func Init(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS seen_events (
			event_id TEXT PRIMARY KEY,
			first_seen_ts TEXT,
			source TEXT,
			title TEXT
		)
	`)
	if err != nil {
		return fmt.Errorf("create seen_events: %w", err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS source_checkpoints (
			source TEXT PRIMARY KEY,
			last_checkpoint TEXT,
			last_pull_ts TEXT
		)
	`)
	if err != nil {
		return fmt.Errorf("create source_checkpoints: %w", err)
	}

	return nil
}

func Close(db *sql.DB) {
	if db != nil {
		db.Close()
	}
}
