package badger

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/onflow/corruptible-validator/model/flow"
	"github.com/onflow/corruptible-validator/module"
	"github.com/onflow/corruptible-validator/module/metrics"
)

func withLimit[V any](limit uint) func(*Cache[V]) {
	return func(c *Cache[V]) {
		c.limit = limit
	}
}

type storeFunc[V any] func(flow.Identifier, V) error

func withStore[V any](store storeFunc[V]) func(*Cache[V]) {
	return func(c *Cache[V]) {
		c.store = store
	}
}

func noStore[V any](flow.Identifier, V) error {
	return fmt.Errorf("no store function for cache put available")
}

type retrieveFunc[V any] func(flow.Identifier) (V, error)

func withRetrieve[V any](retrieve retrieveFunc[V]) func(*Cache[V]) {
	return func(c *Cache[V]) {
		c.retrieve = retrieve
	}
}

func noRetrieve[V any](flow.Identifier) (V, error) {
	var nothing V
	return nothing, fmt.Errorf("no retrieve function for cache get available")
}

func withResource[V any](resource string) func(*Cache[V]) {
	return func(c *Cache[V]) {
		c.resource = resource
	}
}

// Cache is a read-through, write-through LRU cache in front of the database.
type Cache[V any] struct {
	metrics  module.CacheMetrics
	limit    uint
	store    storeFunc[V]
	retrieve retrieveFunc[V]
	resource string
	cache    *lru.Cache[flow.Identifier, V]
}

func newCache[V any](collector module.CacheMetrics, options ...func(*Cache[V])) *Cache[V] {
	c := Cache[V]{
		metrics:  collector,
		limit:    1000,
		store:    noStore[V],
		retrieve: noRetrieve[V],
		resource: metrics.ResourceUndefined,
	}
	for _, option := range options {
		option(&c)
	}
	// only errors on a non-positive size
	c.cache, _ = lru.New[flow.Identifier, V](int(c.limit))
	c.metrics.CacheEntries(c.resource, uint(c.cache.Len()))
	return &c
}

// Get will try to retrieve the resource from cache first, and then from the
// injected retrieve function.
func (c *Cache[V]) Get(key flow.Identifier) (V, error) {

	// check if we have it in the cache
	resource, cached := c.cache.Get(key)
	if cached {
		c.metrics.CacheHit(c.resource)
		return resource, nil
	}

	// get it from the database
	c.metrics.CacheMiss(c.resource)
	resource, err := c.retrieve(key)
	if err != nil {
		var nothing V
		return nothing, fmt.Errorf("could not retrieve resource: %w", err)
	}

	// cache the resource and eject least recently used one if we reached limit
	evicted := c.cache.Add(key, resource)
	if !evicted {
		c.metrics.CacheEntries(c.resource, uint(c.cache.Len()))
	}

	return resource, nil
}

// Put will add a resource to the cache with the given key.
func (c *Cache[V]) Put(key flow.Identifier, resource V) error {

	// try to store the resource
	err := c.store(key, resource)
	if err != nil {
		return fmt.Errorf("could not store resource: %w", err)
	}

	// cache the resource and eject least recently used one if we reached limit
	evicted := c.cache.Add(key, resource)
	if !evicted {
		c.metrics.CacheEntries(c.resource, uint(c.cache.Len()))
	}

	return nil
}
