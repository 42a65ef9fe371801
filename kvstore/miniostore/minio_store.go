// Package miniostore implements kvstore.Store for MinIO and other
// S3-compatible object stores using the native MinIO client.
package miniostore

import (
	"bytes"
	"context"
	"io"
	"path"
	"sort"
	"strings"

	"github.com/minio/minio-go/v7"

	"github.com/weo-soft/poeData-sub000/kvstore"
)

// Store implements kvstore.Store backed by a MinIO bucket.
type Store struct {
	client *minio.Client
	bucket string
	prefix string
}

var _ kvstore.Store = (*Store)(nil)

// New creates a MinIO store.
// bucket is the bucket name; rootPrefix is prepended to all keys.
func New(client *minio.Client, bucket, rootPrefix string) *Store {
	return &Store{
		client: client,
		bucket: bucket,
		prefix: rootPrefix,
	}
}

func (s *Store) key(key string) string {
	return path.Join(s.prefix, key)
}

// Get returns the value stored under key.
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, s.key(key), minio.GetObjectOptions{})
	if err != nil {
		return nil, err
	}
	defer func() { _ = obj.Close() }()

	data, err := io.ReadAll(obj)
	if err != nil {
		// MinIO reports missing objects lazily, on first read.
		if isNotFound(err) {
			return nil, kvstore.ErrNotFound
		}
		return nil, err
	}
	return data, nil
}

// Put stores value under key atomically.
func (s *Store) Put(ctx context.Context, key string, value []byte) error {
	_, err := s.client.PutObject(ctx, s.bucket, s.key(key),
		bytes.NewReader(value), int64(len(value)), minio.PutObjectOptions{})
	if err != nil && minio.ToErrorResponse(err).Code == "QuotaExceeded" {
		return kvstore.ErrQuotaExceeded
	}
	return err
}

// Delete removes the value stored under key.
func (s *Store) Delete(ctx context.Context, key string) error {
	return s.client.RemoveObject(ctx, s.bucket, s.key(key), minio.RemoveObjectOptions{})
}

// List returns all keys with the given prefix, sorted.
func (s *Store) List(ctx context.Context, prefix string) ([]string, error) {
	fullPrefix := s.key(prefix)
	// path.Join strips a trailing slash, which would widen the match to
	// sibling keys sharing the prefix as a substring.
	if strings.HasSuffix(prefix, "/") && !strings.HasSuffix(fullPrefix, "/") {
		fullPrefix += "/"
	}

	var keys []string
	for obj := range s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{
		Prefix:    fullPrefix,
		Recursive: true,
	}) {
		if obj.Err != nil {
			return nil, obj.Err
		}
		rel := obj.Key
		if s.prefix != "" {
			rel = strings.TrimPrefix(strings.TrimPrefix(rel, s.prefix), "/")
		}
		keys = append(keys, rel)
	}
	sort.Strings(keys)
	return keys, nil
}

// Close is a no-op; the MinIO client holds no per-store resources.
func (s *Store) Close() error {
	return nil
}

func isNotFound(err error) bool {
	code := minio.ToErrorResponse(err).Code
	return code == "NoSuchKey" || code == "NotFound"
}
