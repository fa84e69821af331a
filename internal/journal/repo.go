package journal

import (
	"fmt"
	"time"

	"github.com/starford/wikictl/internal/models"
)

// Record appends e to the journal and returns its id. A zero CreatedAt is
// replaced by the current time.
func (db *DB) Record(e models.JournalEntry) (int64, error) {
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}
	res, err := db.conn.Exec(`
		INSERT INTO entries (action, path, page_id, backup_file, checksum, succeeded, message, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, e.Action, e.Path, e.PageID, e.BackupFile, e.Checksum, e.Succeeded, e.Message, e.CreatedAt.UTC())
	if err != nil {
		return 0, fmt.Errorf("journal: insert entry: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("journal: last insert id: %w", err)
	}
	return id, nil
}

// List returns the most recent entries first. An empty path lists all
// pages; limit <= 0 means 50.
func (db *DB) List(path string, limit int) ([]models.JournalEntry, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := db.conn.Query(`
		SELECT id, action, path, page_id, backup_file, checksum, succeeded, message, created_at
		FROM entries
		WHERE ? = '' OR path = ?
		ORDER BY id DESC
		LIMIT ?
	`, path, path, limit)
	if err != nil {
		return nil, fmt.Errorf("journal: list: %w", err)
	}
	defer rows.Close()

	var out []models.JournalEntry
	for rows.Next() {
		var e models.JournalEntry
		if err := rows.Scan(&e.ID, &e.Action, &e.Path, &e.PageID, &e.BackupFile,
			&e.Checksum, &e.Succeeded, &e.Message, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("journal: scan: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
