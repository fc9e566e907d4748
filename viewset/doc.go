// Package viewset provides cached list/detail CRUD entry points in front of
// a data store.
//
// # Overview
//
// A ViewSet binds four things for one resource type:
//
//   - the query parsers (filtering, pagination, field selection)
//   - a Dataset, the external collaborator executing queries
//   - a Serializer converting records to and from wire format
//   - a cache.Backend plus key builder for response caching
//
// Reads follow a read-through pattern:
//
//  1. Parse and validate the query parameters (fail fast, no side effects)
//  2. Derive the cache key from the canonical specs
//  3. On a hit, return the cached payload with its from-cache marker
//  4. On a miss, query the Dataset, serialize, store, return
//
// Writes run against the Dataset first; only after the write succeeded are
// the affected key namespaces invalidated. Invalidation is coarse: a create
// drops every list window for the resource, an update or delete additionally
// drops the record's object keys. Over-invalidation is acceptable,
// under-invalidation is not.
//
// # Failure Semantics
//
// Dataset errors (ErrNotFound, constraint violations) propagate unchanged.
// Cache backend errors never fail a request: reads fall through to the
// Dataset, writes are logged and skipped. A failed Dataset write never
// triggers invalidation.
//
// # Configuration
//
// Options is immutable per-resource configuration, validated once at
// construction: the filter allow-list, page size, cache prefix and TTL,
// method and update-field allow-lists, search fields. Collaborators are
// injected explicitly, never global, so tests substitute them freely.
//
// # Concurrency
//
// A ViewSet holds no per-request state. The parsers are pure; the Dataset
// and Backend are shared, externally-synchronized resources the executor
// issues single round trips against, never holding locks across them. After
// a write there is a brief window where a concurrent read can observe a
// stale entry; the invalidation immediately following the write and the TTL
// bound it.
package viewset
