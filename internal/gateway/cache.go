package gateway

import (
	"fmt"

	"github.com/gregjones/httpcache"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/naka-gawa/gh-dashboard/internal/config"
)

var _ httpcache.Cache = (*memoryCache)(nil)

// memoryCache is an httpcache.Cache holding at most a fixed number of
// responses. The least recently used response is evicted first.
type memoryCache struct {
	entries *lru.Cache[string, []byte]
}

// newMemoryCache falls back to config.DefaultCacheEntries for a non-positive size.
func newMemoryCache(size int) (*memoryCache, error) {
	if size <= 0 {
		size = config.DefaultCacheEntries
	}
	entries, err := lru.New[string, []byte](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create response cache: %w", err)
	}
	return &memoryCache{entries: entries}, nil
}

func (c *memoryCache) Get(key string) ([]byte, bool) {
	return c.entries.Get(key)
}

func (c *memoryCache) Set(key string, resp []byte) {
	c.entries.Add(key, resp)
}

func (c *memoryCache) Delete(key string) {
	c.entries.Remove(key)
}
