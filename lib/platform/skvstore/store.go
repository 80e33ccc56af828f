package skvstore

import (
	"errors"
	"fmt"

	"example.com/swarmpolicy/lib/core/adapter/persistentmetadata"

	"github.com/rapidloop/skv"
)

// Store is a gob-encoding key value file. A missing key is reported as
// persistentmetadata.ErrNotFound.
type Store struct {
	kv *skv.KVStore
}

var _ persistentmetadata.PersistentMetadata = &Store{}

func Open(path string) (*Store, error) {
	kv, err := skv.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open store %s: %w", path, err)
	}
	return &Store{kv: kv}, nil
}

func (s *Store) Put(key string, value interface{}) error {
	return s.kv.Put(key, value)
}

func (s *Store) Get(key string, value interface{}) error {
	err := s.kv.Get(key, value)
	if errors.Is(err, skv.ErrNotFound) {
		return fmt.Errorf("%w: %s", persistentmetadata.ErrNotFound, key)
	}
	return err
}

func (s *Store) Delete(key string) error {
	err := s.kv.Delete(key)
	if errors.Is(err, skv.ErrNotFound) {
		return fmt.Errorf("%w: %s", persistentmetadata.ErrNotFound, key)
	}
	return err
}

func (s *Store) Close() error {
	return s.kv.Close()
}
