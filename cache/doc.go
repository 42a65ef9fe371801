// Package cache persists estimation results keyed by category and mode, and
// validates them against the current dataset manifest before serving.
//
// Design rules, in order of importance:
//
//   - Never serve stale results. Every Get recomputes the manifest
//     fingerprint and compares it to the stored one; a mismatch deletes the
//     entry and reports a miss. An unobtainable manifest is a miss, never a
//     trusted hit.
//   - Never block a correct result. All storage errors are swallowed with
//     logging; the worst a broken store can do is slow the next lookup.
//   - Bound the footprint. Bayesian payloads are downsampled before
//     persisting, compressed when it helps, and quota rejections trigger
//     oldest-last-accessed-first eviction, then payload degradation, then a
//     dropped write. Put never fails loudly.
//
// Entries are whole-value envelopes: metadata (fingerprint, codec name,
// compression id, CRC32C, timestamps) plus the encoded payload. Writes commit
// atomically through the kvstore contract, so an abandoned request can never
// leave a torn entry.
package cache
