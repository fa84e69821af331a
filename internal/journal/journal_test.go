package journal

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/starford/wikictl/internal/models"
)

func testDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "nested", "journal.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestSchemaCreation(t *testing.T) {
	db := testDB(t)
	var count int
	if err := db.conn.QueryRow(`SELECT count(*) FROM entries`).Scan(&count); err != nil {
		t.Fatalf("entries table missing: %v", err)
	}
	if count != 0 {
		t.Errorf("count = %d, want 0", count)
	}
}

func TestRecordAndList(t *testing.T) {
	db := testDB(t)
	at := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

	if _, err := db.Record(models.JournalEntry{Action: "get", Path: "infra/vpn", PageID: 42, Succeeded: true, CreatedAt: at}); err != nil {
		t.Fatalf("Record: %v", err)
	}
	if _, err := db.Record(models.JournalEntry{Action: "create", Path: "other", Succeeded: true}); err != nil {
		t.Fatalf("Record: %v", err)
	}
	id, err := db.Record(models.JournalEntry{
		Action: "update", Path: "infra/vpn", PageID: 42,
		BackupFile: ".backup/infra/vpn-20240102-030405.md", Checksum: "abc", Message: "boom",
	})
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	if id != 3 {
		t.Errorf("id = %d, want 3", id)
	}

	entries, err := db.List("infra/vpn", 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("len = %d, want 2", len(entries))
	}
	if entries[0].Action != "update" || entries[1].Action != "get" {
		t.Errorf("order = %s, %s; want update, get", entries[0].Action, entries[1].Action)
	}
	if entries[0].Succeeded || entries[0].Message != "boom" || entries[0].Checksum != "abc" {
		t.Errorf("update entry = %+v", entries[0])
	}
	if !entries[1].Succeeded || entries[1].PageID != 42 || !entries[1].CreatedAt.Equal(at) {
		t.Errorf("get entry = %+v", entries[1])
	}

	all, err := db.List("", 2)
	if err != nil {
		t.Fatalf("List all: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("limit not applied: %d entries", len(all))
	}
}
