package cache

import (
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"

	"github.com/goliatone/go-viewset-cache/query"
)

// KeySeparator delimits cache key segments.
const KeySeparator = ":"

// KeyBuilder derives deterministic cache keys from a resource prefix and the
// canonical request specs. Keys must be stable across parameter reorderings
// carrying the same semantics, and distinct for any differing clause, value,
// ordering, or page window.
type KeyBuilder interface {
	ListKey(prefix string, filters query.FilterSpec, page query.PaginationSpec, fields []string) string
	ObjectKey(prefix, id string, fields []string) string

	// ListPrefix and ObjectPrefix are the coarse invalidation namespaces the
	// executor deletes after writes.
	ListPrefix(prefix string) string
	ObjectPrefix(prefix, id string) string
}

// defaultKeyBuilder hashes the canonical spec renderings with xxhash64.
// Canonicalization, not hashing, is what makes keys order-independent; the
// digest keeps them short enough for any key-value backend.
type defaultKeyBuilder struct{}

// NewDefaultKeyBuilder returns the standard key builder.
func NewDefaultKeyBuilder() KeyBuilder {
	return defaultKeyBuilder{}
}

// ListKey builds <prefix>:list:<filterDigest>:<pageDigest>:<fields>.
func (defaultKeyBuilder) ListKey(prefix string, filters query.FilterSpec, page query.PaginationSpec, fields []string) string {
	return join(
		prefix,
		"list",
		digest(filters.Canonical()),
		digest(page.Canonical()),
		query.FieldsKey(fields),
	)
}

// ObjectKey builds <prefix>:object:<id>:<fields>.
func (defaultKeyBuilder) ObjectKey(prefix, id string, fields []string) string {
	return join(prefix, "object", id, query.FieldsKey(fields))
}

func (defaultKeyBuilder) ListPrefix(prefix string) string {
	return join(prefix, "list") + KeySeparator
}

func (defaultKeyBuilder) ObjectPrefix(prefix, id string) string {
	return join(prefix, "object", id) + KeySeparator
}

func join(segments ...string) string {
	return strings.Join(segments, KeySeparator)
}

func digest(canonical string) string {
	return strconv.FormatUint(xxhash.Sum64String(canonical), 16)
}
