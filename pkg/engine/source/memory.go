package source

import (
	"context"
	"fmt"
	"sync"
)

// MemorySource serves rule sets from an in-memory map. It is intended for
// tests and for embedding rule sets into a binary. Safe for concurrent use.
type MemorySource struct {
	mu       sync.RWMutex
	ruleSets map[string][]byte
}

// NewMemorySource creates an empty in-memory rule source.
func NewMemorySource() *MemorySource {
	return &MemorySource{
		ruleSets: make(map[string][]byte),
	}
}

// Load returns the rule set stored under ref.
func (s *MemorySource) Load(ctx context.Context, ref string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, ok := s.ruleSets[ref]
	if !ok {
		return nil, fmt.Errorf("rule set not found: %q", ref)
	}

	// Copy so callers cannot mutate the stored content.
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

// Put stores a rule set under ref, replacing any previous content.
func (s *MemorySource) Put(ref string, data []byte) {
	stored := make([]byte, len(data))
	copy(stored, data)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.ruleSets[ref] = stored
}

// Delete removes the rule set stored under ref.
func (s *MemorySource) Delete(ref string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.ruleSets, ref)
}

// List returns all stored references in unspecified order.
func (s *MemorySource) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	refs := make([]string, 0, len(s.ruleSets))
	for ref := range s.ruleSets {
		refs = append(refs, ref)
	}
	return refs, nil
}
