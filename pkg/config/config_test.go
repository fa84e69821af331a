package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type sample struct {
	Name  string `yaml:"name"`
	Count int    `yaml:"count"`
}

func (s *sample) Validate() error {
	if s.Name == "" {
		return errors.New("name is required")
	}
	return nil
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestLoad_ExpandsEnv(t *testing.T) {
	t.Setenv("SAMPLE_NAME", "wiki")
	p := writeFile(t, t.TempDir(), "c.yaml", "name: ${SAMPLE_NAME}\ncount: 3\n")

	var s sample
	if err := Load(p, &s); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if s.Name != "wiki" || s.Count != 3 {
		t.Errorf("s = %+v", s)
	}
}

func TestLoad_Validates(t *testing.T) {
	p := writeFile(t, t.TempDir(), "c.yaml", "count: 3\n")

	var s sample
	err := Load(p, &s)
	if err == nil || !strings.Contains(err.Error(), "validation failed") {
		t.Errorf("err = %v, want validation failure", err)
	}
}

func TestLoadFirst_SkipsMissing(t *testing.T) {
	dir := t.TempDir()
	second := writeFile(t, dir, "second.yaml", "name: second\n")

	var s sample
	used, err := LoadFirst(&s, filepath.Join(dir, "missing.json"), second)
	if err != nil {
		t.Fatalf("LoadFirst: %v", err)
	}
	if used != second || s.Name != "second" {
		t.Errorf("used = %s, s = %+v", used, s)
	}
}

func TestLoadFirst_NoneFound(t *testing.T) {
	var s sample
	if _, err := LoadFirst(&s, filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error when no file exists")
	}
}
