// Package journal records workflow actions in a SQLite database.
package journal

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS entries (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	action      TEXT NOT NULL,
	path        TEXT NOT NULL DEFAULT '',
	page_id     INTEGER NOT NULL DEFAULT 0,
	backup_file TEXT NOT NULL DEFAULT '',
	checksum    TEXT NOT NULL DEFAULT '',
	succeeded   INTEGER NOT NULL DEFAULT 0,
	message     TEXT NOT NULL DEFAULT '',
	created_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_entries_path ON entries(path, id);
`

// DB wraps a sql.DB with journal operations.
type DB struct {
	conn *sql.DB
}

// Open opens (or creates) the journal database and applies the schema.
// The parent directory is created if needed.
func Open(dsn string) (*DB, error) {
	if dir := filepath.Dir(dsn); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("journal: mkdir: %w", err)
		}
	}
	conn, err := sql.Open("sqlite3", dsn+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("journal: open db: %w", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("journal: ping: %w", err)
	}
	if _, err := conn.Exec(schemaSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("journal: apply schema: %w", err)
	}
	return &DB{conn: conn}, nil
}

// Close closes the underlying database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}
