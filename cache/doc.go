// Package cache provides the pluggable cache backend interface and
// deterministic key derivation for cached viewset responses.
//
// # Overview
//
// This package exports two main interfaces and their default implementations:
//
//   - Backend: a byte-payload key-value store with TTL and prefix deletion
//   - KeyBuilder: derives stable cache keys from a resource prefix and the
//     canonical filter/pagination specs
//
// Two Backend constructors are provided: NewMemoryBackend, an in-process
// sturdyc-backed store, and NewRedisBackend over a shared redis client.
//
// # Key Derivation Strategy
//
// The default key builder renders the FilterSpec and PaginationSpec in their
// canonical textual forms (clause order, value order, and ordering terms are
// fixed by the query package) and hashes each rendering with xxhash64:
//
//	<prefix>:list:<filterDigest>:<pageDigest>:<fields>
//	<prefix>:object:<id>:<fields>
//
// Because canonicalization happens before hashing, two requests that differ
// only in parameter ordering produce the same key, while any differing filter
// value, exclusion, ordering term, or page window produces a different one.
// A key collision would mean serving wrong data; the 64-bit digests over the
// two independent spec renderings make that vanishingly unlikely over the
// practical input space.
//
// # Invalidation Namespaces
//
// ListPrefix and ObjectPrefix expose the namespaces write operations delete
// via Backend.DeleteByPrefix. Invalidation is deliberately coarse: a write
// drops every list window for the resource rather than trying to compute
// which windows it touched.
//
// # Error Handling
//
// Backend failures are never load-bearing. Callers treat Get errors as
// misses and Set/Delete errors as log-and-continue; only latency, not
// correctness, depends on the cache.
package cache
