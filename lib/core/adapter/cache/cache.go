package cache

import "errors"

var ErrNotFound = errors.New("cache: key not found")

type Cache interface {
	// Cached returns the value under key, calling fallback to fill a miss.
	Cached(key interface{}, fallback func() (interface{}, error)) (interface{}, error)
	// Get never fills; a miss returns ErrNotFound.
	Get(key interface{}) (interface{}, error)
	Remove(key interface{}) bool
}
