package morph

import (
	"context"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Cached memoizes the parses of another Analyzer in a bounded LRU. Errors are
// not cached.
type Cached struct {
	next  Analyzer
	cache *lru.Cache[string, []Parse]
}

var _ Analyzer = (*Cached)(nil)

// NewCached wraps next with a cache holding up to size words.
func NewCached(next Analyzer, size int) (*Cached, error) {
	cache, err := lru.New[string, []Parse](size)
	if err != nil {
		return nil, err
	}
	return &Cached{next: next, cache: cache}, nil
}

// Parse implements Analyzer.
func (c *Cached) Parse(ctx context.Context, word string) ([]Parse, error) {
	if parses, ok := c.cache.Get(word); ok {
		return parses, nil
	}
	parses, err := c.next.Parse(ctx, word)
	if err != nil {
		return nil, err
	}
	c.cache.Add(word, parses)
	return parses, nil
}

// Len returns the number of cached words.
func (c *Cached) Len() int {
	return c.cache.Len()
}
