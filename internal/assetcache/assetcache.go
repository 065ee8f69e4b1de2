package assetcache

import (
	"container/list"
	"errors"
	"sync"
	"time"
)

// DefaultCapacity is the default cache budget in bytes (16MB).
const DefaultCapacity = 16 << 20

// ErrItemTooLarge is returned when a file exceeds the cache capacity.
var ErrItemTooLarge = errors.New("item too large for cache")

// Stats holds cache performance metrics.
type Stats struct {
	Capacity  int64
	Size      int64
	ItemCount int64
	Hits      int64
	Misses    int64
	Evictions int64
	HitRate   float64
}

// Cache is an in-memory LRU over file bytes with a byte budget.
// Inserting past the budget evicts least recently used entries first.
type Cache struct {
	capacity int64
	size     int64

	items    map[string]*list.Element
	eviction *list.List

	mu sync.RWMutex

	stats Stats
}

// entry is one cached file.
type entry struct {
	key     string
	value   []byte
	size    int64
	addedAt time.Time
}

// New creates a cache with the given capacity in bytes. Zero or
// negative means DefaultCapacity.
func New(capacity int64) *Cache {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Cache{
		capacity: capacity,
		items:    make(map[string]*list.Element),
		eviction: list.New(),
		stats:    Stats{Capacity: capacity},
	}
}

// Get retrieves a file and marks it most recently used.
func (c *Cache) Get(key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.items[key]
	if !ok {
		c.stats.Misses++
		return nil, false
	}

	c.eviction.MoveToFront(elem)
	c.stats.Hits++
	return elem.Value.(*entry).value, true
}

// Put stores a file, evicting older entries to stay within the
// budget.
func (c *Cache) Put(key string, value []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	valueSize := int64(len(value))

	if elem, ok := c.items[key]; ok {
		c.eviction.MoveToFront(elem)
		e := elem.Value.(*entry)
		c.size += valueSize - e.size
		e.value = value
		e.size = valueSize
		e.addedAt = time.Now()
		return nil
	}

	if valueSize > c.capacity {
		return ErrItemTooLarge
	}

	for c.size+valueSize > c.capacity && c.eviction.Len() > 0 {
		c.evictOldest()
	}

	elem := c.eviction.PushFront(&entry{
		key:     key,
		value:   value,
		size:    valueSize,
		addedAt: time.Now(),
	})
	c.items[key] = elem
	c.size += valueSize
	return nil
}

// Invalidate drops one entry. Unknown keys are a no-op, so change
// notifications can fire for files that were never cached.
func (c *Cache) Invalidate(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.items[key]; ok {
		c.removeElement(elem)
	}
}

// Clear drops every entry.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = make(map[string]*list.Element)
	c.eviction.Init()
	c.size = 0
}

// Contains reports whether key is cached without touching LRU order.
func (c *Cache) Contains(key string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	_, ok := c.items[key]
	return ok
}

// Len returns the number of cached files.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.items)
}

// Size returns the current cache size in bytes.
func (c *Cache) Size() int64 {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.size
}

// Stats returns a snapshot of cache metrics.
func (c *Cache) Stats() Stats {
	c.mu.RLock()
	defer c.mu.RUnlock()

	stats := c.stats
	stats.Size = c.size
	stats.ItemCount = int64(len(c.items))
	if stats.Hits+stats.Misses > 0 {
		stats.HitRate = float64(stats.Hits) / float64(stats.Hits+stats.Misses)
	}
	return stats
}

// Prune removes entries older than maxAge and returns how many were
// dropped.
func (c *Cache) Prune(maxAge time.Duration) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	cutoff := time.Now().Add(-maxAge)
	pruned := 0

	elem := c.eviction.Back()
	for elem != nil {
		prev := elem.Prev()
		if elem.Value.(*entry).addedAt.Before(cutoff) {
			c.removeElement(elem)
			pruned++
		}
		elem = prev
	}
	return pruned
}

// Resize changes the byte budget, evicting as needed.
func (c *Cache) Resize(capacity int64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.capacity = capacity
	c.stats.Capacity = capacity
	for c.size > c.capacity && c.eviction.Len() > 0 {
		c.evictOldest()
	}
}

// evictOldest removes the least recently used entry. Callers hold the
// lock.
func (c *Cache) evictOldest() {
	if elem := c.eviction.Back(); elem != nil {
		c.removeElement(elem)
		c.stats.Evictions++
	}
}

// removeElement unlinks an element. Callers hold the lock.
func (c *Cache) removeElement(elem *list.Element) {
	c.eviction.Remove(elem)
	e := elem.Value.(*entry)
	delete(c.items, e.key)
	c.size -= e.size
}
