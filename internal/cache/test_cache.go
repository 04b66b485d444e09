package cache

import "sync"

var _ Cache = (*TestCache)(nil)

// TestCache - a simple map backed cache for unit tests
type TestCache struct {
	mutex   sync.Mutex
	entries map[string][]byte
}

func NewTestCache() *TestCache {
	return &TestCache{
		entries: map[string][]byte{},
	}
}

func (c *TestCache) Get(key []byte) ([]byte, bool) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	val, ok := c.entries[string(key)]
	return val, ok
}

func (c *TestCache) Set(key, value []byte, _ int) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.entries[string(key)] = value
	return nil
}

func (c *TestCache) Del(key []byte) bool {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	_, ok := c.entries[string(key)]
	delete(c.entries, string(key))
	return ok
}
