package calllog

import "sync"

// Cache is a keyed in-memory cache that only grows until Reset.
type Cache[V any] struct {
	mu    sync.RWMutex
	items map[string]V
}

func NewCache[V any]() *Cache[V] {
	return &Cache[V]{items: make(map[string]V)}
}

func (c *Cache[V]) Get(key string) (V, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.items[key]
	return v, ok
}

func (c *Cache[V]) Set(key string, v V) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[key] = v
}

func (c *Cache[V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

func (c *Cache[V]) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = make(map[string]V)
}
