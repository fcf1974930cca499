package orchestrator

import (
	"context"
	"slices"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/mylora/mylora-desktop/internal/model"
)

// CategoryLister fetches the category list
type CategoryLister interface {
	ListCategories(ctx context.Context) ([]model.Category, error)
}

// CategoryCache holds the category list after the first successful fetch.
// Concurrent fetches share one request.
type CategoryCache struct {
	src   CategoryLister
	group singleflight.Group

	mu         sync.RWMutex
	categories []model.Category
	loaded     bool
}

// NewCategoryCache returns an empty cache over src
func NewCategoryCache(src CategoryLister) *CategoryCache {
	return &CategoryCache{src: src}
}

// Get returns the cached list, fetching it on first use. A failed fetch
// leaves the cache empty so the next Get tries again.
func (c *CategoryCache) Get(ctx context.Context) ([]model.Category, error) {
	if categories, ok := c.Cached(); ok {
		return categories, nil
	}
	return c.fetch(ctx)
}

// Refresh re-fetches the list and replaces the cached one. On failure the
// previous list is kept.
func (c *CategoryCache) Refresh(ctx context.Context) ([]model.Category, error) {
	return c.fetch(ctx)
}

// Cached returns a copy of the cached list and whether one is loaded
func (c *CategoryCache) Cached() ([]model.Category, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.categories), c.loaded
}

func (c *CategoryCache) fetch(ctx context.Context) ([]model.Category, error) {
	v, err, _ := c.group.Do("categories", func() (any, error) {
		categories, err := c.src.ListCategories(ctx)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.categories = categories
		c.loaded = true
		c.mu.Unlock()
		return categories, nil
	})
	if err != nil {
		return nil, err
	}
	return slices.Clone(v.([]model.Category)), nil
}
