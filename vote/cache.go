package vote

import "sync"

// SelectionCache maps selection global names to the local name of their
// chosen choice. It is replaced as a whole on every full-state decode.
type SelectionCache struct {
	mu      sync.RWMutex
	results map[string]string
}

func NewSelectionCache() *SelectionCache {
	return &SelectionCache{results: make(map[string]string)}
}

// Replace swaps in a copy of results.
func (c *SelectionCache) Replace(results map[string]string) {
	next := make(map[string]string, len(results))
	for k, v := range results {
		next[k] = v
	}
	c.mu.Lock()
	c.results = next
	c.mu.Unlock()
}

func (c *SelectionCache) Get(selection string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	choice, ok := c.results[selection]
	return choice, ok
}

// Snapshot returns a copy of the cached results.
func (c *SelectionCache) Snapshot() map[string]string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make(map[string]string, len(c.results))
	for k, v := range c.results {
		out[k] = v
	}
	return out
}

func (c *SelectionCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.results)
}
