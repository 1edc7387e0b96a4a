package preview

import (
	lru "github.com/hashicorp/golang-lru"
	"github.com/kk-code-lab/rpeek/internal/metrics"
)

// Cache is a bounded LRU of fetched records keyed by row or line index.
// Merging is idempotent and the last write for an index wins, so results
// may be applied in any order and more than once.
type Cache[V any] struct {
	name string
	lru  *lru.Cache
}

// NewCache builds a cache holding at most size entries. name labels its
// metrics ("rows", "lines").
func NewCache[V any](name string, size int) (*Cache[V], error) {
	l, err := lru.NewWithEvict(size, func(_, _ interface{}) {
		metrics.CacheEvictions.WithLabelValues(name).Inc()
	})
	if err != nil {
		return nil, err
	}
	return &Cache[V]{name: name, lru: l}, nil
}

// Merge stores v at index.
func (c *Cache[V]) Merge(index int64, v V) {
	c.lru.Add(index, v)
}

// Get returns the value at index and marks it recently used.
func (c *Cache[V]) Get(index int64) (V, bool) {
	v, ok := c.lru.Get(index)
	if !ok {
		metrics.CacheLookups.WithLabelValues(c.name, "miss").Inc()
		var zero V
		return zero, false
	}
	metrics.CacheLookups.WithLabelValues(c.name, "hit").Inc()
	return v.(V), true
}

// Contains reports presence without touching recency.
func (c *Cache[V]) Contains(index int64) bool {
	return c.lru.Contains(index)
}

// Len returns the number of cached entries.
func (c *Cache[V]) Len() int {
	return c.lru.Len()
}
