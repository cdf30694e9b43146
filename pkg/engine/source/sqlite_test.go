package source

import (
	"context"
	"path/filepath"
	"testing"
)

func newTestSQLiteSource(t *testing.T) *SQLiteSource {
	t.Helper()
	s, err := NewSQLiteSource(filepath.Join(t.TempDir(), "rules.db"), nil)
	if err != nil {
		t.Fatalf("NewSQLiteSource() error: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSQLiteSourceRoundTrip(t *testing.T) {
	s := newTestSQLiteSource(t)
	ctx := context.Background()

	if err := s.Put(ctx, "us_ibc_2021.json", []byte(`{"mcp_id": "us_ibc_2021"}`)); err != nil {
		t.Fatalf("Put() error: %v", err)
	}

	data, err := s.Load(ctx, "us_ibc_2021.json")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if string(data) != `{"mcp_id": "us_ibc_2021"}` {
		t.Errorf("Load() = %q", data)
	}
}

func TestSQLiteSourceLoadMissing(t *testing.T) {
	s := newTestSQLiteSource(t)
	if _, err := s.Load(context.Background(), "missing.json"); err == nil {
		t.Fatal("expected error for missing ref")
	}
}

func TestSQLiteSourcePutReplaces(t *testing.T) {
	s := newTestSQLiteSource(t)
	ctx := context.Background()

	if err := s.Put(ctx, "a.json", []byte("v1")); err != nil {
		t.Fatal(err)
	}
	if err := s.Put(ctx, "a.json", []byte("v2")); err != nil {
		t.Fatal(err)
	}

	data, err := s.Load(ctx, "a.json")
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "v2" {
		t.Errorf("Load() = %q, want replacement content", data)
	}
}

func TestSQLiteSourceList(t *testing.T) {
	s := newTestSQLiteSource(t)
	ctx := context.Background()

	for _, ref := range []string{"b.json", "a.json", "c.yaml"} {
		if err := s.Put(ctx, ref, []byte("{}")); err != nil {
			t.Fatal(err)
		}
	}

	refs, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}

	want := []string{"a.json", "b.json", "c.yaml"}
	if len(refs) != len(want) {
		t.Fatalf("List() = %v, want %v", refs, want)
	}
	for i := range want {
		if refs[i] != want[i] {
			t.Errorf("List()[%d] = %q, want %q (lexical order)", i, refs[i], want[i])
		}
	}
}

func TestSQLiteSourceRequiresPath(t *testing.T) {
	if _, err := NewSQLiteSource("", nil); err == nil {
		t.Fatal("expected error for empty db path")
	}
}
