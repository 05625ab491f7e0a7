// Package memo caches the most recent generation result.
package memo

import (
	"sync"

	"github.com/kpaulsen/itemforge/internal/itemgen"
)

// Result is one completed generation: the combined text plus the
// serialized Word document and its download name.
type Result struct {
	Text     string
	FileName string
	Docx     []byte
}

// Cache holds at most one result, keyed by the exact request that
// produced it. A lookup with any differing request field misses, and
// storing a new result evicts the old one. Generation is expensive
// enough that re-running an identical request is the only case worth
// memoizing.
type Cache struct {
	mu     sync.Mutex
	key    itemgen.Request
	result *Result
}

// Get returns the cached result for req, or nil if the slot is empty
// or was produced by a different request.
func (c *Cache) Get(req itemgen.Request) (*Result, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.result == nil || c.key != req {
		return nil, false
	}
	return c.result, true
}

// Put stores res as the sole cached result, replacing any previous one.
func (c *Cache) Put(req itemgen.Request, res *Result) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.key = req
	c.result = res
}

// Clear empties the slot.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.key = itemgen.Request{}
	c.result = nil
}
