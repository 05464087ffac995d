package position

import "sync"

// DefaultCacheCapacity bounds the image cache when none is configured.
const DefaultCacheCapacity = 50

// imageCache is a bounded FIFO map from bead identity key to resolved image
// handle. Each Manager owns exactly one.
type imageCache struct {
	mu       sync.Mutex
	capacity int
	order    []string
	entries  map[string]string
}

func newImageCache(capacity int) *imageCache {
	if capacity <= 0 {
		capacity = DefaultCacheCapacity
	}
	return &imageCache{capacity: capacity, entries: make(map[string]string, capacity)}
}

func (c *imageCache) get(key string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.entries[key]
	return v, ok
}

func (c *imageCache) put(key, handle string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.entries[key]; ok {
		c.entries[key] = handle
		return
	}
	for len(c.order) >= c.capacity {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.entries, oldest)
	}
	c.order = append(c.order, key)
	c.entries[key] = handle
}

func (c *imageCache) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *imageCache) reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.order = nil
	c.entries = make(map[string]string, c.capacity)
}
