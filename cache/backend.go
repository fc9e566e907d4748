package cache

import (
	"context"
	"time"
)

// Backend is the pluggable key-value store behind the caching executor.
// Payloads are opaque serialized responses; the core never inspects them.
//
// Contract:
//   - Concurrency: implementations must be safe for concurrent use.
//   - Get returns (nil, false, nil) on a miss; an error only for transport or
//     backend failures. Callers treat any error as a miss and fall through to
//     the source of truth.
//   - Set stores under the backend's expiry semantics; ttl is advisory for
//     backends without per-entry expiry.
//   - Delete and DeleteByPrefix are idempotent.
type Backend interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, payload []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	DeleteByPrefix(ctx context.Context, prefix string) error
}
