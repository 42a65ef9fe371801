// Package kvstore defines the key-value storage abstraction backing the
// result cache, together with in-memory and on-disk implementations.
//
// The cache layer treats stores as dumb byte namespaces: it encodes its own
// envelopes, performs its own validation, and runs its own eviction. Stores
// only enforce byte quotas (reporting ErrQuotaExceeded) and atomicity of
// individual writes.
//
// Remote backends live in subpackages (badgerstore, redisstore, s3store,
// miniostore, dynamostore) so their SDK dependencies stay out of the import
// graph of users who do not need them.
package kvstore
