package cacheinfra

import (
	"context"
	"errors"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// ErrNilRedisClient is returned when constructing a redis backend without a client.
var ErrNilRedisClient = errors.New("cacheinfra: nil redis client")

// redisBackend stores payloads in redis with per-entry TTLs. The client is
// shared, externally-owned state; this adapter never closes it.
type redisBackend struct {
	rdb goredis.UniversalClient
}

// NewRedisBackend creates a redis-backed cache adapter over an existing client.
func NewRedisBackend(client goredis.UniversalClient) (*redisBackend, error) {
	if client == nil {
		return nil, ErrNilRedisClient
	}
	return &redisBackend{rdb: client}, nil
}

// Get retrieves a payload. goredis.Nil is a miss; any other error is a
// transport or server failure the caller recovers from locally.
func (b *redisBackend) Get(ctx context.Context, key string) ([]byte, bool, error) {
	payload, err := b.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return payload, true, nil
}

// Set stores a payload with the given TTL. Non-positive TTLs store without expiry.
func (b *redisBackend) Set(ctx context.Context, key string, payload []byte, ttl time.Duration) error {
	if ttl < 0 {
		ttl = 0
	}
	return b.rdb.Set(ctx, key, payload, ttl).Err()
}

// Delete removes a single entry. Idempotent.
func (b *redisBackend) Delete(ctx context.Context, key string) error {
	return b.rdb.Del(ctx, key).Err()
}

// globEscaper neutralizes redis MATCH metacharacters so a prefix is matched
// literally. An unescaped "?" or "[" in a key prefix would silently narrow
// the scan and leave stale entries behind.
var globEscaper = strings.NewReplacer(
	`\`, `\\`,
	"*", `\*`,
	"?", `\?`,
	"[", `\[`,
	"]", `\]`,
)

// DeleteByPrefix removes all entries under the given prefix using SCAN, so
// large key spaces are walked without blocking the server.
func (b *redisBackend) DeleteByPrefix(ctx context.Context, prefix string) error {
	iter := b.rdb.Scan(ctx, 0, globEscaper.Replace(prefix)+"*", 0).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	return b.rdb.Del(ctx, keys...).Err()
}
