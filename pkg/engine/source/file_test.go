package source

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func writeRuleSet(t *testing.T, dir, name, content string) {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
}

func TestFileSourceLoad(t *testing.T) {
	dir := t.TempDir()
	writeRuleSet(t, dir, "us_ibc_2021.json", `{"mcp_id": "us_ibc_2021"}`)

	s := NewFileSource(dir, nil)
	data, err := s.Load(context.Background(), "us_ibc_2021.json")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if string(data) != `{"mcp_id": "us_ibc_2021"}` {
		t.Errorf("Load() = %q", data)
	}
}

func TestFileSourceLoadMissing(t *testing.T) {
	s := NewFileSource(t.TempDir(), nil)
	if _, err := s.Load(context.Background(), "nope.json"); err == nil {
		t.Fatal("expected error for missing rule set")
	}
}

func TestFileSourceRejectsEscapingRefs(t *testing.T) {
	s := NewFileSource(t.TempDir(), nil)
	if _, err := s.Load(context.Background(), "../outside.json"); err == nil {
		t.Fatal("expected error for reference escaping the base directory")
	}
}

func TestFileSourceWithoutBaseDir(t *testing.T) {
	dir := t.TempDir()
	writeRuleSet(t, dir, "rules.yaml", "mcp_id: x")

	s := NewFileSource("", nil)
	data, err := s.Load(context.Background(), filepath.Join(dir, "rules.yaml"))
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if string(data) != "mcp_id: x" {
		t.Errorf("Load() = %q", data)
	}
}

func TestFileSourceList(t *testing.T) {
	dir := t.TempDir()
	writeRuleSet(t, dir, "a.json", "{}")
	writeRuleSet(t, dir, "sub/b.yaml", "x: 1")
	writeRuleSet(t, dir, "notes.txt", "not a rule set")

	s := NewFileSource(dir, nil)
	refs, err := s.List(context.Background())
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}

	if len(refs) != 2 {
		t.Fatalf("List() = %v, want 2 rule-set refs", refs)
	}
	want := map[string]bool{"a.json": true, filepath.Join("sub", "b.yaml"): true}
	for _, ref := range refs {
		if !want[ref] {
			t.Errorf("unexpected ref %q", ref)
		}
	}
}

func TestFileSourceListWithoutBaseDir(t *testing.T) {
	s := NewFileSource("", nil)
	if _, err := s.List(context.Background()); err == nil {
		t.Fatal("expected error listing without a base directory")
	}
}
