package engine

import (
	"sync"

	"arxhq/codecheck/pkg/mcp/ast"
)

// ruleSetCache holds loaded rule sets keyed by source reference. All
// methods are safe for concurrent use.
type ruleSetCache struct {
	mu      sync.RWMutex
	entries map[string]*ast.MCPFile
}

func newRuleSetCache() *ruleSetCache {
	return &ruleSetCache{
		entries: make(map[string]*ast.MCPFile),
	}
}

// Get returns the cached rule set for ref, if present.
func (c *ruleSetCache) Get(ref string) (*ast.MCPFile, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	file, ok := c.entries[ref]
	return file, ok
}

// Put stores a rule set under ref, replacing any previous entry.
func (c *ruleSetCache) Put(ref string, file *ast.MCPFile) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[ref] = file
}

// Delete evicts the entry for ref. Returns true if an entry was present.
func (c *ruleSetCache) Delete(ref string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.entries[ref]
	delete(c.entries, ref)
	return ok
}

// Clear evicts all entries.
func (c *ruleSetCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*ast.MCPFile)
}

// Len returns the number of cached rule sets.
func (c *ruleSetCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Refs returns the cached references in unspecified order.
func (c *ruleSetCache) Refs() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	refs := make([]string, 0, len(c.entries))
	for ref := range c.entries {
		refs = append(refs, ref)
	}
	return refs
}
