package app

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"gonomo/domain/core"
	"gonomo/domain/dataset"
	"gonomo/internal"
	"gonomo/internal/metrics"
)

// DefaultCacheEntries is the number of parsed sources kept in memory
const DefaultCacheEntries = 4

// Source is a loadable dataset that can fingerprint itself without parsing
type Source interface {
	Name() string
	Identity() (core.SourceHash, error)
	Load(ctx context.Context) (*dataset.Table, error)
}

// LoadedSource is a parsed table together with the identity it was loaded under
type LoadedSource struct {
	Table    *dataset.Table
	Identity core.SourceHash
	Cached   bool
}

// SourceCache memoizes parsed tables by source identity. Concurrent loads of
// the same identity share one parse. Tables are never mutated after loading,
// so cached tables are shared between callers.
type SourceCache struct {
	group   singleflight.Group
	mu      sync.RWMutex
	entries map[core.SourceHash]*dataset.Table
	order   []core.SourceHash
	max     int
	metrics *metrics.Pipeline
	logger  *internal.Logger
}

// NewSourceCache creates a cache holding at most maxEntries tables.
// maxEntries <= 0 selects DefaultCacheEntries.
func NewSourceCache(maxEntries int, m *metrics.Pipeline, logger *internal.Logger) *SourceCache {
	if maxEntries <= 0 {
		maxEntries = DefaultCacheEntries
	}
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &SourceCache{
		entries: make(map[core.SourceHash]*dataset.Table),
		max:     maxEntries,
		metrics: m,
		logger:  logger.With("component", "source_cache"),
	}
}

// Load returns the table for src, parsing it only when its identity is new
func (c *SourceCache) Load(ctx context.Context, src Source) (*LoadedSource, error) {
	id, err := src.Identity()
	if err != nil {
		c.metrics.ObserveLoad("failed", 0)
		return nil, err
	}

	if table, ok := c.get(id); ok {
		c.metrics.ObserveLoad("cached", 0)
		c.logger.Debug("[SourceCache] %s served from cache (%s)", src.Name(), id)
		return &LoadedSource{Table: table, Identity: id, Cached: true}, nil
	}

	v, err, shared := c.group.Do(id.String(), func() (interface{}, error) {
		startTime := time.Now()
		table, err := src.Load(ctx)
		if err != nil {
			c.metrics.ObserveLoad("failed", time.Since(startTime))
			return nil, err
		}
		c.metrics.ObserveLoad("loaded", time.Since(startTime))
		c.put(id, table)
		return table, nil
	})
	if err != nil {
		return nil, err
	}
	return &LoadedSource{Table: v.(*dataset.Table), Identity: id, Cached: shared}, nil
}

// Forget drops a cached table
func (c *SourceCache) Forget(id core.SourceHash) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.entries[id]; !ok {
		return
	}
	delete(c.entries, id)
	for i, k := range c.order {
		if k == id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
}

// Len returns the number of cached tables
func (c *SourceCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

func (c *SourceCache) get(id core.SourceHash) (*dataset.Table, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	t, ok := c.entries[id]
	return t, ok
}

// put stores a table, evicting the oldest entry when full
func (c *SourceCache) put(id core.SourceHash, table *dataset.Table) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.entries[id]; ok {
		return
	}
	for len(c.order) >= c.max {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.entries, oldest)
	}
	c.entries[id] = table
	c.order = append(c.order, id)
}
