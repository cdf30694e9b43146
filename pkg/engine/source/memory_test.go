package source

import (
	"context"
	"testing"
)

func TestMemorySourceLoad(t *testing.T) {
	s := NewMemorySource()
	s.Put("a.json", []byte("content"))

	data, err := s.Load(context.Background(), "a.json")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if string(data) != "content" {
		t.Errorf("Load() = %q", data)
	}

	if _, err := s.Load(context.Background(), "missing.json"); err == nil {
		t.Fatal("expected error for missing ref")
	}
}

func TestMemorySourceCopiesContent(t *testing.T) {
	s := NewMemorySource()
	original := []byte("abc")
	s.Put("a.json", original)
	original[0] = 'x'

	data, err := s.Load(context.Background(), "a.json")
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "abc" {
		t.Errorf("stored content mutated: %q", data)
	}

	// Mutating the loaded copy must not affect the store either.
	data[0] = 'y'
	again, _ := s.Load(context.Background(), "a.json")
	if string(again) != "abc" {
		t.Errorf("stored content mutated through Load copy: %q", again)
	}
}

func TestMemorySourceDelete(t *testing.T) {
	s := NewMemorySource()
	s.Put("a.json", []byte("x"))
	s.Delete("a.json")

	if _, err := s.Load(context.Background(), "a.json"); err == nil {
		t.Fatal("expected error after delete")
	}
}

func TestMemorySourceList(t *testing.T) {
	s := NewMemorySource()
	s.Put("a.json", []byte("x"))
	s.Put("b.json", []byte("y"))

	refs, err := s.List(context.Background())
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if len(refs) != 2 {
		t.Errorf("List() = %v, want 2 refs", refs)
	}
}
