// Package redisstore implements kvstore.Store on top of Redis, so multiple
// processes can share one result cache.
package redisstore

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/weo-soft/poeData-sub000/kvstore"
)

// Store implements kvstore.Store backed by a Redis server.
//
// Values are stored as plain Redis strings under keyPrefix+key. When the
// server runs with a maxmemory limit and a noeviction policy, write failures
// are surfaced as kvstore.ErrQuotaExceeded so the cache layer can run its own
// eviction.
type Store struct {
	rdb       *redis.Client
	keyPrefix string
	ttl       time.Duration
	ownsConn  bool
}

var _ kvstore.Store = (*Store)(nil)

// Config holds Redis connection settings.
type Config struct {
	Addr     string
	Password string
	DB       int
	PoolSize int

	// KeyPrefix is prepended to all keys so the store can share a database.
	KeyPrefix string

	// TTL expires entries server-side as a backstop to cache-layer eviction.
	// Zero means no expiry.
	TTL time.Duration
}

// New creates a Redis store and verifies the connection with a PING.
func New(cfg Config) (*Store, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return &Store{
		rdb:       rdb,
		keyPrefix: cfg.KeyPrefix,
		ttl:       cfg.TTL,
		ownsConn:  true,
	}, nil
}

// NewWithClient creates a store on an existing client. The client is left
// open on Close so it can be shared with other components.
func NewWithClient(rdb *redis.Client, keyPrefix string, ttl time.Duration) *Store {
	return &Store{rdb: rdb, keyPrefix: keyPrefix, ttl: ttl}
}

func (s *Store) key(key string) string {
	return s.keyPrefix + key
}

// Get returns the value stored under key.
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := s.rdb.Get(ctx, s.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, kvstore.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get %q: %w", key, err)
	}
	return data, nil
}

// Put stores value under key.
func (s *Store) Put(ctx context.Context, key string, value []byte) error {
	err := s.rdb.Set(ctx, s.key(key), value, s.ttl).Err()
	if err != nil {
		if isOOMErr(err) {
			return kvstore.ErrQuotaExceeded
		}
		return fmt.Errorf("redis set %q: %w", key, err)
	}
	return nil
}

// Delete removes the value stored under key.
func (s *Store) Delete(ctx context.Context, key string) error {
	return s.rdb.Del(ctx, s.key(key)).Err()
}

// List returns all keys with the given prefix, sorted.
//
// Uses SCAN rather than KEYS so a large shared Redis is never blocked.
func (s *Store) List(ctx context.Context, prefix string) ([]string, error) {
	pattern := escapeGlob(s.key(prefix)) + "*"

	var keys []string
	iter := s.rdb.Scan(ctx, 0, pattern, 100).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, strings.TrimPrefix(iter.Val(), s.keyPrefix))
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("redis scan %q: %w", pattern, err)
	}
	sort.Strings(keys)
	return keys, nil
}

// Close closes the connection if this store created it.
func (s *Store) Close() error {
	if !s.ownsConn {
		return nil
	}
	return s.rdb.Close()
}

// isOOMErr reports whether err is Redis rejecting a write for memory
// ("OOM command not allowed when used memory > 'maxmemory'").
func isOOMErr(err error) bool {
	return err != nil && strings.HasPrefix(err.Error(), "OOM")
}

// escapeGlob escapes SCAN MATCH metacharacters in literal key prefixes.
func escapeGlob(s string) string {
	r := strings.NewReplacer(`*`, `\*`, `?`, `\?`, `[`, `\[`, `]`, `\]`, `\`, `\\`)
	return r.Replace(s)
}
