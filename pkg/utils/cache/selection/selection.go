// Package selection implements a loader cache holding at most one
// entry. Only one (session, driver) selection is ever live, so a
// general eviction policy is not needed: any Get with a different key
// replaces the stored entry, and a session reload invalidates it
// wholesale.
package selection

import (
	"context"
	"sync"

	"github.com/pitwall/pitwall/log"
	"github.com/pitwall/pitwall/pkg/utils/cache"
)

type (
	Option[K comparable, V any] func(*config[K, V])

	loaderFunc[K comparable, V any] func(ctx context.Context, key K) (*V, error)

	config[K comparable, V any] struct {
		loader loaderFunc[K, V]
		l      *log.Logger
	}

	selectionCache[K comparable, V any] struct {
		mutex  sync.Mutex
		key    K
		value  *V
		loaded bool
		config *config[K, V]
	}
)

func WithLoader[K comparable, V any](lf loaderFunc[K, V]) Option[K, V] {
	return func(c *config[K, V]) {
		c.loader = lf
	}
}

func WithLogger[K comparable, V any](arg *log.Logger) Option[K, V] {
	return func(c *config[K, V]) {
		c.l = arg
	}
}

func New[K comparable, V any](opts ...Option[K, V]) cache.Cache[K, V] {
	c := &config[K, V]{
		l: log.Default().Named("cache"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return &selectionCache[K, V]{config: c}
}

func (c *selectionCache[K, V]) Get(ctx context.Context, key K) (*V, error) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	if c.loaded && c.key == key {
		return c.value, nil
	}
	return c.load(ctx, key)
}

func (c *selectionCache[K, V]) load(ctx context.Context, key K) (*V, error) {
	if c.config.loader == nil {
		return nil, cache.ErrCacheMiss
	}
	c.config.l.Debug("selectionCache.load", log.Any("key", key))
	v, err := c.config.loader(ctx, key)
	if err != nil {
		c.config.l.Error("error loading entry", log.ErrorField(err))
		return nil, err
	}
	c.key = key
	c.value = v
	c.loaded = true
	return v, nil
}

func (c *selectionCache[K, V]) Invalidate(ctx context.Context, key K) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	if c.loaded && c.key == key {
		c.reset()
	}
}

func (c *selectionCache[K, V]) InvalidateAll(ctx context.Context) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.reset()
}

func (c *selectionCache[K, V]) reset() {
	var zeroKey K
	c.key = zeroKey
	c.value = nil
	c.loaded = false
}
