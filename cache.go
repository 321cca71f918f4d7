package tparse

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/gnolang/tparse/template"
)

// Cache holds compiled templates keyed by their source. It is safe for
// concurrent use. When full, the least recently used entry is evicted.
type Cache struct {
	entries *expirable.LRU[string, *template.Template]
}

// NewCache creates a cache holding at most maxEntries templates.
// A maxEntries of zero or less means no limit.
func NewCache(maxEntries int) *Cache {
	return NewExpiringCache(maxEntries, 0)
}

// NewExpiringCache is like NewCache, but entries are dropped maxAge after
// they were compiled. A maxAge of zero or less means entries never expire.
func NewExpiringCache(maxEntries int, maxAge time.Duration) *Cache {
	if maxEntries < 0 {
		maxEntries = 0
	}
	return &Cache{
		entries: expirable.NewLRU[string, *template.Template](maxEntries, nil, maxAge),
	}
}

// Get returns the compiled template for source, compiling it on a miss.
// Compilation errors are not cached.
func (c *Cache) Get(source string) (*template.Template, error) {
	if t, ok := c.entries.Get(source); ok {
		return t, nil
	}

	t, err := template.Compile(source)
	if err != nil {
		return nil, err
	}
	c.entries.Add(source, t)
	return t, nil
}

// Len returns the number of cached templates.
func (c *Cache) Len() int {
	return c.entries.Len()
}

// Contains reports whether source is cached, without touching its
// recency.
func (c *Cache) Contains(source string) bool {
	_, ok := c.entries.Peek(source)
	return ok
}

func (c *Cache) InvalidateAll() {
	c.entries.Purge()
}
