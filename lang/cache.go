package lang

import (
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/ardnew/jpx/lang/types"
)

// DefaultCacheSize is the capacity of the process-wide compile cache.
const DefaultCacheSize = 512

// Cache holds compiled expressions keyed by source text. Compiled nodes are
// never modified by evaluation, so one node may serve any number of
// concurrent searches.
type Cache struct {
	lru *lru.Cache[string, *types.Node]
}

var defaultCache = NewCache(DefaultCacheSize)

// NewCache returns a cache holding at most size expressions, evicting the
// least recently used. A size of zero or less returns nil, which is a valid
// cache that stores nothing.
func NewCache(size int) *Cache {
	c, err := lru.New[string, *types.Node](size)
	if err != nil {
		return nil
	}

	return &Cache{lru: c}
}

// Get returns the compiled form of expression, if cached.
func (c *Cache) Get(expression string) (*types.Node, bool) {
	if c == nil {
		return nil, false
	}

	return c.lru.Get(expression)
}

// Add stores the compiled form of expression.
func (c *Cache) Add(expression string, node *types.Node) {
	if c != nil {
		c.lru.Add(expression, node)
	}
}

// Len returns the number of cached expressions.
func (c *Cache) Len() int {
	if c == nil {
		return 0
	}

	return c.lru.Len()
}

// Purge removes every cached expression.
func (c *Cache) Purge() {
	if c != nil {
		c.lru.Purge()
	}
}
