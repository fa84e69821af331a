package internal

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/starford/wikictl/internal/models"
	"github.com/starford/wikictl/internal/testutil"
)

func openTestApp(t *testing.T, fake *testutil.FakeWiki) *App {
	t.Helper()
	dir := t.TempDir()
	cfg := NewDefaultConfig()
	cfg.APIURL = fake.URL()
	cfg.APIKey = testutil.Token
	cfg.BackupDir = filepath.Join(dir, ".backup")
	cfg.JournalPath = filepath.Join(dir, ".backup", "journal.db")
	cfg.WatchDebounce = 50 * time.Millisecond

	app, err := Open(WithConfig(cfg), WithLogOutput(&bytes.Buffer{}))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { app.Close() })
	return app
}

func TestOpen_RequiresConfig(t *testing.T) {
	if _, err := Open(); err == nil {
		t.Error("Open without config should fail")
	}
}

func TestOpen_DeleteIsJournaled(t *testing.T) {
	fake := testutil.NewFakeWiki(t)
	fake.AddPage(models.Page{ID: 5, Path: "infra/vpn", Title: "VPN"})
	app := openTestApp(t, fake)

	res, err := app.Engine.Delete(context.Background(), "infra/vpn")
	if err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if !res.Succeeded {
		t.Errorf("result = %+v", res)
	}

	entries, err := app.History("infra/vpn", 10)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(entries) != 1 || entries[0].Action != "delete" || entries[0].PageID != 5 {
		t.Errorf("entries = %+v", entries)
	}
}

func TestHistory_JournalDisabled(t *testing.T) {
	fake := testutil.NewFakeWiki(t)
	cfg := NewDefaultConfig()
	cfg.APIURL = fake.URL()
	cfg.APIKey = testutil.Token
	cfg.BackupDir = filepath.Join(t.TempDir(), ".backup")
	cfg.JournalPath = ""

	app, err := Open(WithConfig(cfg), WithLogOutput(&bytes.Buffer{}))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer app.Close()

	if _, err := app.History("", 0); err == nil {
		t.Error("History should fail when the journal is disabled")
	}
}

func TestWatch_UpdatesOnSave(t *testing.T) {
	fake := testutil.NewFakeWiki(t)
	fake.AddPage(models.Page{ID: 1, Path: "infra/vpn", Title: "VPN", Content: "v0"})
	app := openTestApp(t, fake)

	file := filepath.Join(t.TempDir(), "vpn.md")
	doc := "---\nmetadata:\n  title: VPN\n  path: infra/vpn\n---\n\n"
	if err := os.WriteFile(file, []byte(doc+"v1\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var mu sync.Mutex
	var reports []*models.UpdateReport
	done := make(chan error, 1)
	go func() {
		done <- app.Watch(ctx, file, func(r *models.UpdateReport, err error) {
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				reports = append(reports, r)
			}
		})
	}()

	time.Sleep(100 * time.Millisecond)
	if err := os.WriteFile(file, []byte(doc+"v2\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if p, ok := fake.Page("infra/vpn"); ok && p.Content == "v2\n" {
			break
		}
		time.Sleep(20 * time.Millisecond)
	}

	cancel()
	if err := <-done; err != nil {
		t.Fatalf("Watch: %v", err)
	}

	p, ok := fake.Page("infra/vpn")
	if !ok || p.Content != "v2\n" {
		t.Fatalf("page = %+v, want content v2", p)
	}
	mu.Lock()
	defer mu.Unlock()
	if len(reports) == 0 || reports[0].PreviousID != 1 {
		t.Errorf("reports = %+v", reports)
	}
}
