package storage

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func tempRoot(t *testing.T) *FS {
	t.Helper()
	fs, err := NewFS(filepath.Join(t.TempDir(), ".backup"))
	if err != nil {
		t.Fatalf("NewFS: %v", err)
	}
	return fs
}

func TestWriteAndRead(t *testing.T) {
	s := tempRoot(t)
	content := []byte("# Hello\nWorld\n")
	if err := s.Write("note.md", content); err != nil {
		t.Fatalf("Write: %v", err)
	}
	got, err := s.Read("note.md")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if string(got) != string(content) {
		t.Errorf("content mismatch: got %q", got)
	}
}

func TestWriteCreatesSubdirs(t *testing.T) {
	s := tempRoot(t)
	if err := s.Write("a/b/c.md", []byte("deep")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	abs, err := s.Abs("a/b/c.md")
	if err != nil {
		t.Fatalf("Abs: %v", err)
	}
	if _, err := os.Stat(abs); err != nil {
		t.Errorf("stat %s: %v", abs, err)
	}
}

func TestTraversalBlocked(t *testing.T) {
	s := tempRoot(t)

	cases := []string{
		"../../etc/passwd",
		"../outside.md",
		"/etc/shadow",
	}
	for _, p := range cases {
		if _, err := s.Read(p); err == nil {
			t.Errorf("expected error for path %q", p)
		}
		if err := s.Write(p, []byte("x")); err == nil {
			t.Errorf("expected error for write to %q", p)
		}
	}
}

func TestWriteFile_OverwriteLeavesNoTemp(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "out.md")
	if err := WriteFile(target, []byte("original")); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if err := WriteFile(target, []byte("updated")); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	got, _ := os.ReadFile(target)
	if string(got) != "updated" {
		t.Errorf("expected updated content, got %q", got)
	}
	matches, _ := filepath.Glob(filepath.Join(dir, ".wikictl-tmp-*"))
	if len(matches) != 0 {
		t.Errorf("leftover temp files: %v", matches)
	}
}

func TestNewFS_FileNotDir(t *testing.T) {
	f, _ := os.CreateTemp("", "wikictl-test-*")
	_ = f.Close()
	defer os.Remove(f.Name())
	if _, err := NewFS(f.Name()); err == nil {
		t.Error("expected error when root is a file")
	}
}

func TestBackupName(t *testing.T) {
	at := time.Date(2024, 3, 9, 14, 5, 7, 0, time.UTC)
	cases := map[string]string{
		"infra/vpn":        "infra/vpn-20240309-140507.md",
		"vpn":              "vpn-20240309-140507.md",
		"/a/b/c/":          "a/b/c-20240309-140507.md",
		"../../etc/passwd": "etc/passwd-20240309-140507.md",
	}
	for in, want := range cases {
		if got := BackupName(in, at); got != want {
			t.Errorf("BackupName(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestLastSegment(t *testing.T) {
	cases := map[string]string{
		"infra/vpn":  "vpn",
		"vpn":        "vpn",
		"infra/vpn/": "vpn",
		"":           "",
	}
	for in, want := range cases {
		if got := LastSegment(in); got != want {
			t.Errorf("LastSegment(%q) = %q, want %q", in, got, want)
		}
	}
}
