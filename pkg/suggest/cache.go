package suggest

import (
	"container/list"
	"slices"
	"sync"

	"github.com/charmbracelet/log"
)

// DefaultCacheCapacity bounds the suggestion cache.
const DefaultCacheCapacity = 512

// Cache memoizes ranked suggestions per lowercase Latin token.
//
// Eviction is strict insertion order: once full, the oldest inserted key goes
// first. Reads never refresh an entry and overwriting a key keeps its place in
// the queue. One mutex guards every operation.
type Cache struct {
	mu       sync.Mutex
	capacity int
	items    map[string]*list.Element
	order    *list.List
	hits     int64
	misses   int64
	evicted  int64
}

type cacheEntry struct {
	key   string
	value []string
}

// NewCache returns a cache holding at most capacity tokens.
func NewCache(capacity int) *Cache {
	if capacity <= 0 {
		capacity = DefaultCacheCapacity
	}
	return &Cache{
		capacity: capacity,
		items:    make(map[string]*list.Element, capacity),
		order:    list.New(),
	}
}

// Get returns a copy of the cached list for key.
func (c *Cache) Get(key string) ([]string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.items[key]
	if !ok {
		c.misses++
		return nil, false
	}
	c.hits++
	return slices.Clone(el.Value.(*cacheEntry).value), true
}

// Put stores value under key, evicting the oldest entry when a new key would
// exceed capacity.
func (c *Cache) Put(key string, value []string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.items[key]; ok {
		el.Value.(*cacheEntry).value = slices.Clone(value)
		return
	}
	if c.order.Len() >= c.capacity {
		c.evictOldest()
	}
	c.items[key] = c.order.PushBack(&cacheEntry{key: key, value: slices.Clone(value)})
}

// evictOldest drops the front of the queue. Must be called with c.mu held.
func (c *Cache) evictOldest() {
	front := c.order.Front()
	if front == nil {
		return
	}
	entry := c.order.Remove(front).(*cacheEntry)
	delete(c.items, entry.key)
	c.evicted++
	log.Debugf("Evicted '%s' from suggestion cache", entry.key)
}

// Clear drops every entry.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = make(map[string]*list.Element, c.capacity)
	c.order.Init()
}

// Len returns the number of cached tokens.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

// Capacity returns the entry bound.
func (c *Cache) Capacity() int { return c.capacity }

func (c *Cache) Stats() map[string]int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return map[string]int{
		"cacheEntries":  c.order.Len(),
		"cacheCapacity": c.capacity,
		"cacheHits":     int(c.hits),
		"cacheMisses":   int(c.misses),
		"cacheEvicted":  int(c.evicted),
	}
}
