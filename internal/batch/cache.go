package batch

import (
	"sync"

	"github.com/pfrederiksen/handbook-courses/internal/course"
)

// Cache is a process-lifetime map of subject code to extracted record,
// shared by every worker of every batch. Entries are immutable once set:
// the first successful fetch for a code wins and later writes are ignored.
// Failures are never stored, so a later retry of the same code can succeed.
type Cache struct {
	mu      sync.RWMutex
	records map[string]*course.Record
}

// NewCache creates an empty cache.
func NewCache() *Cache {
	return &Cache{
		records: make(map[string]*course.Record),
	}
}

// Get returns the cached record for code, if present.
func (c *Cache) Get(code string) (*course.Record, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	rec, ok := c.records[code]
	return rec, ok
}

// Set stores a record under its code unless one is already present.
func (c *Cache) Set(rec *course.Record) {
	if rec == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.records[rec.Code]; !exists {
		c.records[rec.Code] = rec
	}
}

// Warm preloads records, typically from a snapshot file, so their codes
// resolve without network access.
func (c *Cache) Warm(records []*course.Record) {
	for _, rec := range records {
		c.Set(rec)
	}
}

// Size returns the number of cached records.
func (c *Cache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.records)
}
