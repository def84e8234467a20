// Package cache provides a small TTL bound loader cache used to
// memoize read queries, e.g. the vehicle lookup done per replay
// subscription.
package cache

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/racedatahub/racedata-manager-go/log"
)

var ErrCacheMiss = errors.New("cache miss")

type Cache[K comparable, V any] interface {
	Get(ctx context.Context, key K) (*V, error)
	Invalidate(ctx context.Context, key K)
}

type (
	LoaderFunc[K comparable, V any] func(ctx context.Context, key K) (*V, error)

	Option[K comparable, V any] func(*loaderCache[K, V])

	entry[V any] struct {
		data    *V
		expires time.Time
	}

	loaderCache[K comparable, V any] struct {
		mu         sync.Mutex
		items      map[K]entry[V]
		expiration time.Duration
		loader     LoaderFunc[K, V]
		log        *log.Logger
	}
)

func WithExpiration[K comparable, V any](d time.Duration) Option[K, V] {
	return func(c *loaderCache[K, V]) {
		c.expiration = d
	}
}

func WithLoader[K comparable, V any](lf LoaderFunc[K, V]) Option[K, V] {
	return func(c *loaderCache[K, V]) {
		c.loader = lf
	}
}

func WithLogger[K comparable, V any](l *log.Logger) Option[K, V] {
	return func(c *loaderCache[K, V]) {
		c.log = l
	}
}

func New[K comparable, V any](opts ...Option[K, V]) Cache[K, V] {
	c := &loaderCache[K, V]{
		items:      make(map[K]entry[V]),
		expiration: 5 * time.Minute,
		log:        log.Default().Named("cache"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *loaderCache[K, V]) Get(ctx context.Context, key K) (*V, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if item, ok := c.items[key]; ok {
		if item.expires.After(time.Now()) {
			return item.data, nil
		}
		delete(c.items, key)
	}
	return c.load(ctx, key)
}

func (c *loaderCache[K, V]) load(ctx context.Context, key K) (*V, error) {
	if c.loader == nil {
		return nil, ErrCacheMiss
	}
	v, err := c.loader(ctx, key)
	if err != nil {
		c.log.Error("error loading entry", log.Any("key", key), log.ErrorField(err))
		return nil, err
	}
	c.items[key] = entry[V]{data: v, expires: time.Now().Add(c.expiration)}
	return v, nil
}

func (c *loaderCache[K, V]) Invalidate(ctx context.Context, key K) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, key)
}
