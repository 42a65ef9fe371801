// Package badgerstore implements kvstore.Store on top of BadgerDB, an
// embedded LSM key-value database. Suitable when cached results should
// survive restarts without running an external service.
package badgerstore

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/dgraph-io/badger/v4"

	"github.com/weo-soft/poeData-sub000/kvstore"
)

// Store implements kvstore.Store backed by a Badger database.
//
// The store does not own the *badger.DB unless created via Open; a DB passed
// to New is left open on Close so it can be shared with other components.
type Store struct {
	db      *badger.DB
	ownsDB  bool
	keyFunc func(string) []byte
}

var _ kvstore.Store = (*Store)(nil)

// New creates a store on an existing Badger database.
// keyPrefix is prepended to all keys so the store can share a DB.
func New(db *badger.DB, keyPrefix string) *Store {
	return &Store{
		db: db,
		keyFunc: func(key string) []byte {
			return []byte(keyPrefix + key)
		},
	}
}

// Open opens (or creates) a Badger database at dir and returns a store that
// owns it. Pass inMemory=true for an ephemeral database, useful in tests.
func Open(dir string, inMemory bool) (*Store, error) {
	opts := badger.DefaultOptions(dir).
		WithInMemory(inMemory).
		WithLogger(nil)

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger at %q: %w", dir, err)
	}

	s := New(db, "")
	s.ownsDB = true
	return s, nil
}

// Get returns the value stored under key.
func (s *Store) Get(_ context.Context, key string) ([]byte, error) {
	var value []byte

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(s.keyFunc(key))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return kvstore.ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("get %q: %w", key, err)
		}
		value, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		return nil, err
	}
	return value, nil
}

// Put stores value under key.
func (s *Store) Put(_ context.Context, key string, value []byte) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(s.keyFunc(key), value)
	})
}

// Delete removes the value stored under key.
func (s *Store) Delete(_ context.Context, key string) error {
	return s.db.Update(func(txn *badger.Txn) error {
		err := txn.Delete(s.keyFunc(key))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		return err
	})
}

// List returns all keys with the given prefix, sorted.
func (s *Store) List(_ context.Context, prefix string) ([]string, error) {
	fullPrefix := s.keyFunc(prefix)
	basePrefix := s.keyFunc("")

	var keys []string
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = fullPrefix

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			k := it.Item().Key()
			keys = append(keys, string(k[len(basePrefix):]))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(keys)
	return keys, nil
}

// Close closes the underlying database if this store opened it.
func (s *Store) Close() error {
	if !s.ownsDB {
		return nil
	}
	return s.db.Close()
}
