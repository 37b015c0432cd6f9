package library

import "sync"

// queryCache is a keyed in-memory cache for query results. Invalidation is
// the only consistency mechanism: mutations drop the relevant key and the
// next query re-fetches. No optimistic writes, no merging.
type queryCache struct {
	mu      sync.Mutex
	entries map[string]interface{}
}

func newQueryCache() *queryCache {
	return &queryCache{entries: make(map[string]interface{})}
}

func (c *queryCache) get(key string) (interface{}, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.entries[key]
	return v, ok
}

func (c *queryCache) set(key string, v interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = v
}

func (c *queryCache) invalidate(keys ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		delete(c.entries, k)
	}
}

func (c *queryCache) clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]interface{})
}
