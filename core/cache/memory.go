package cache

import (
	"container/list"
	"context"
	"strings"
	"sync"
	"time"
)

type memoryEntry struct {
	key       string
	value     []byte
	expiresAt time.Time
}

// MemoryCache is an in-process TTL cache bounded by a fixed key count.
// When full, the least recently used entry is evicted. Expired entries
// are purged lazily on lookup.
type MemoryCache struct {
	mu      sync.Mutex
	maxKeys int
	order   *list.List // front = most recently used
	entries map[string]*list.Element
	now     func() time.Time
}

func NewMemoryCache(maxKeys int) *MemoryCache {
	if maxKeys < 1 {
		maxKeys = 1
	}
	return &MemoryCache{
		maxKeys: maxKeys,
		order:   list.New(),
		entries: make(map[string]*list.Element),
		now:     time.Now,
	}
}

func (c *MemoryCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.entries[key]
	if !ok {
		return nil, false, nil
	}
	entry := el.Value.(*memoryEntry)
	if c.now().After(entry.expiresAt) {
		c.removeElement(el)
		return nil, false, nil
	}
	c.order.MoveToFront(el)
	return entry.value, true, nil
}

func (c *MemoryCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.entries[key]; ok {
		entry := el.Value.(*memoryEntry)
		entry.value = value
		entry.expiresAt = c.now().Add(ttl)
		c.order.MoveToFront(el)
		return nil
	}

	for len(c.entries) >= c.maxKeys {
		oldest := c.order.Back()
		if oldest == nil {
			break
		}
		c.removeElement(oldest)
	}

	el := c.order.PushFront(&memoryEntry{
		key:       key,
		value:     value,
		expiresAt: c.now().Add(ttl),
	})
	c.entries[key] = el
	return nil
}

func (c *MemoryCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.entries[key]; ok {
		c.removeElement(el)
	}
	return nil
}

func (c *MemoryCache) DeletePrefix(_ context.Context, prefix string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for key, el := range c.entries {
		if strings.HasPrefix(key, prefix) {
			c.removeElement(el)
		}
	}
	return nil
}

func (c *MemoryCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// removeElement must be called with the mutex held.
func (c *MemoryCache) removeElement(el *list.Element) {
	entry := el.Value.(*memoryEntry)
	delete(c.entries, entry.key)
	c.order.Remove(el)
}
