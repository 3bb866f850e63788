package menu

import (
	"crypto/sha256"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/warp/menu-engine/tabular"
)

// DefaultCacheSize bounds the number of normalized tables kept per side.
const DefaultCacheSize = 32

// Cache memoizes normalized tables by the exact bytes of their source, the
// schema and the options that shape the output. A hit skips parsing; it never
// changes the result. Tables are copied in and out so callers cannot mutate
// a cached entry.
type Cache struct {
	costs *lru.Cache[cacheKey, CostTable]
	sales *lru.Cache[cacheKey, SalesTable]
}

type cacheKey struct {
	digest [sha256.Size]byte
	shape  string
}

// NewCache creates a cache holding up to size tables per side.
func NewCache(size int) (*Cache, error) {
	if size <= 0 {
		size = DefaultCacheSize
	}
	costs, err := lru.New[cacheKey, CostTable](size)
	if err != nil {
		return nil, fmt.Errorf("create cost cache: %w", err)
	}
	sales, err := lru.New[cacheKey, SalesTable](size)
	if err != nil {
		return nil, fmt.Errorf("create sales cache: %w", err)
	}
	return &Cache{costs: costs, sales: sales}, nil
}

func newCacheKey(data []byte, schema tabular.Schema, opts Options) cacheKey {
	return cacheKey{
		digest: sha256.Sum256(data),
		shape:  fmt.Sprintf("%v|%s", schema, opts.fingerprint()),
	}
}

func (c *Cache) getCosts(k cacheKey) (CostTable, bool) {
	t, ok := c.costs.Get(k)
	if !ok {
		return CostTable{}, false
	}
	return t.clone(), true
}

func (c *Cache) putCosts(k cacheKey, t CostTable) {
	c.costs.Add(k, t.clone())
}

func (c *Cache) getSales(k cacheKey) (SalesTable, bool) {
	t, ok := c.sales.Get(k)
	if !ok {
		return SalesTable{}, false
	}
	return t.clone(), true
}

func (c *Cache) putSales(k cacheKey, t SalesTable) {
	c.sales.Add(k, t.clone())
}

// Len reports how many cost and sales tables are cached.
func (c *Cache) Len() (costs, sales int) {
	return c.costs.Len(), c.sales.Len()
}

// Purge drops every cached table.
func (c *Cache) Purge() {
	c.costs.Purge()
	c.sales.Purge()
}

func (t CostTable) clone() CostTable {
	out := t
	out.Rows = append([]CostRow(nil), t.Rows...)
	return out
}

func (t SalesTable) clone() SalesTable {
	out := t
	out.Rows = append([]SalesRow(nil), t.Rows...)
	out.Ignored = append([]string(nil), t.Ignored...)
	return out
}
