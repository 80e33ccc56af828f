package persistentmetadata

import "errors"

// ErrNotFound is returned by Get when nothing is stored under the key.
var ErrNotFound = errors.New("persistentmetadata: not found")

// PersistentMetadata stores values by key; implementations choose the encoding.
type PersistentMetadata interface {
	Put(key string, value interface{}) error
	Get(key string, value interface{}) error
}
