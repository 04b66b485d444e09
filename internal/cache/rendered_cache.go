package cache

import "github.com/coocood/freecache"

var _ Cache = (*RenderedBlogCache)(nil)

// RenderedBlogCache keeps rendered blog section lists around, keyed by blog
// id. Rendering is deterministic, so entries only have to go away when the
// blog itself changes.
type RenderedBlogCache struct {
	mainCache *freecache.Cache
}

func NewRenderedBlogCache() *RenderedBlogCache {
	megabyte := 1024 * 1024
	cacheSize := 20 * megabyte

	return &RenderedBlogCache{
		mainCache: freecache.NewCache(cacheSize),
	}
}

func (c *RenderedBlogCache) Get(key []byte) ([]byte, bool) {
	val, err := c.mainCache.Get(key)
	if err != nil {
		return nil, false
	}
	return val, true
}

func (c *RenderedBlogCache) Set(key, value []byte, expireSeconds int) error {
	return c.mainCache.Set(key, value, expireSeconds)
}

func (c *RenderedBlogCache) Del(key []byte) bool {
	return c.mainCache.Del(key)
}
