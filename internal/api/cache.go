package api

import (
	"os"
	"strconv"
	"sync"

	"github.com/roadpulse/roadpulse/pkg/schedule"
)

// ScheduleCache is a thread-safe LRU cache for generated schedules, keyed
// by (as-of date, monsoon mode). Any write to segments, inspections, or
// scores clears it.
type ScheduleCache struct {
	mu      sync.Mutex
	maxSize int
	entries map[string]*cacheEntry
	order   []string // oldest first
}

type cacheEntry struct {
	entries []schedule.Entry
}

// NewScheduleCache creates a cache with the given maximum number of entries.
// If maxSize <= 0, it defaults to 8.
func NewScheduleCache(maxSize int) *ScheduleCache {
	if maxSize <= 0 {
		maxSize = 8
	}
	return &ScheduleCache{
		maxSize: maxSize,
		entries: make(map[string]*cacheEntry),
	}
}

// NewScheduleCacheFromEnv creates a cache with size from SCHEDULE_CACHE_SIZE env var.
func NewScheduleCacheFromEnv() *ScheduleCache {
	size := 8
	if v := os.Getenv("SCHEDULE_CACHE_SIZE"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			size = parsed
		}
	}
	return NewScheduleCache(size)
}

// Get retrieves a schedule from the cache, or nil if not found.
func (c *ScheduleCache) Get(key string) []schedule.Entry {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		return nil
	}

	// Move to end (most recently used)
	c.moveToEnd(key)
	return entry.entries
}

// Put adds a schedule to the cache, evicting the oldest if full.
func (c *ScheduleCache) Put(key string, entries []schedule.Entry) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.entries[key]; ok {
		c.entries[key] = &cacheEntry{entries: entries}
		c.moveToEnd(key)
		return
	}

	// Evict oldest if at capacity
	for len(c.entries) >= c.maxSize && len(c.order) > 0 {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.entries, oldest)
	}

	c.entries[key] = &cacheEntry{entries: entries}
	c.order = append(c.order, key)
}

// Clear drops every cached schedule. Called after any write.
func (c *ScheduleCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*cacheEntry)
	c.order = nil
}

func (c *ScheduleCache) moveToEnd(key string) {
	for i, k := range c.order {
		if k == key {
			c.order = append(c.order[:i], c.order[i+1:]...)
			c.order = append(c.order, key)
			return
		}
	}
}
