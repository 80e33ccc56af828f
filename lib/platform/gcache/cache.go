package gcache

import (
	"errors"
	"sync"

	"example.com/swarmpolicy/lib/core/adapter/cache"

	"github.com/bluele/gcache"
)

var errNoLoader = errors.New("no loader func")

// NewCache builds an LRU holding at most size entries.
func NewCache(size int) cache.Cache {
	c := cacheImpl{
		fallbacks: &sync.Map{},
	}
	gc := gcache.New(size).LRU().
		LoaderFunc(c.loaderFunc).
		EvictedFunc(func(key, _ interface{}) { c.fallbacks.Delete(key) }).
		Build()
	c.gc = gc
	return c
}

type cacheImpl struct {
	gc        gcache.Cache
	fallbacks *sync.Map
}

func (c cacheImpl) loaderFunc(key interface{}) (interface{}, error) {
	v, ok := c.fallbacks.Load(key)
	if ok {
		w := v.(func() (interface{}, error))
		return w()
	}
	return nil, errNoLoader
}

func (c cacheImpl) Cached(key interface{}, fallback func() (interface{}, error)) (interface{}, error) {
	c.fallbacks.Store(key, fallback)
	return c.gc.Get(key)
}

func (c cacheImpl) Get(key interface{}) (interface{}, error) {
	v, err := c.gc.GetIFPresent(key)
	if errors.Is(err, gcache.KeyNotFoundError) {
		return nil, cache.ErrNotFound
	}
	return v, err
}

func (c cacheImpl) Remove(key interface{}) bool {
	c.fallbacks.Delete(key)
	return c.gc.Remove(key)
}
