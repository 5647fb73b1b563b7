package service

import (
	"sync"

	"github.com/dgraph-io/ristretto"
)

// AggregateCache keeps derived aggregates (summaries, category analysis,
// monthly trends) for repeated offline reads. Keys are tracked so any local
// write can drop all of them at once; recomputing is cheap, serving stale
// totals is not.
type AggregateCache struct {
	cache *ristretto.Cache
	mu    sync.Mutex
	keys  map[string]struct{}
}

func NewAggregateCache() (*AggregateCache, error) {
	cache, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: 1000,
		MaxCost:     1000,
		BufferItems: 64,
	})
	if err != nil {
		return nil, err
	}
	return &AggregateCache{cache: cache, keys: make(map[string]struct{})}, nil
}

func (c *AggregateCache) Get(key string) (any, bool) {
	return c.cache.Get(key)
}

func (c *AggregateCache) Set(key string, value any) {
	c.mu.Lock()
	c.keys[key] = struct{}{}
	c.mu.Unlock()
	c.cache.Set(key, value, 1)
}

// Clear drops every tracked key.
func (c *AggregateCache) Clear() {
	c.mu.Lock()
	for key := range c.keys {
		c.cache.Del(key)
	}
	c.keys = make(map[string]struct{})
	c.mu.Unlock()
}
