package viewset

import (
	"context"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/goliatone/go-viewset-cache/query"
)

// Method names a CRUD entry point for the per-resource method allow-list.
type Method string

const (
	MethodList     Method = "list"
	MethodRetrieve Method = "retrieve"
	MethodCreate   Method = "create"
	MethodUpdate   Method = "update"
	MethodDelete   Method = "delete"
)

// Options is the immutable per-resource configuration bound to a ViewSet at
// construction time. It is validated once, at startup, never introspected per
// request.
type Options struct {
	// Resource names the resource type, used in errors and logs. Left empty,
	// New derives it from the record type's snake_case name.
	Resource string

	// KeyPrefix namespaces this resource's cache keys. Empty disables caching
	// entirely: every read goes to the Dataset.
	KeyPrefix string

	// CacheTTL governs cache entry expiry. Required when KeyPrefix is set.
	CacheTTL time.Duration

	// AllowedFilterFields is the filterable field allow-list. Requests
	// referencing other fields in filter-shaped parameters are rejected.
	AllowedFilterFields query.FieldSet

	// AllowedUpdateFields restricts which fields an update may touch.
	// Nil allows all.
	AllowedUpdateFields []string

	// AllowedFields restricts the fields parameter's projection. Nil allows all.
	AllowedFields []string

	// SearchFields enables the search parameter across these fields.
	SearchFields []string

	// AllowedMethods restricts the exposed CRUD entry points. Nil allows all.
	AllowedMethods []Method

	// SizePerRequest is the page size for page-based pagination.
	SizePerRequest int

	// StrictFilters rejects unknown non-reserved query parameters instead of
	// ignoring them.
	StrictFilters bool
}

// Validate checks the configuration at construction time.
func (o Options) Validate() error {
	return validation.ValidateStruct(&o,
		validation.Field(&o.Resource, validation.Required),
		validation.Field(&o.SizePerRequest, validation.Required, validation.Min(1)),
		validation.Field(&o.CacheTTL,
			validation.When(o.KeyPrefix != "", validation.Required, validation.Min(time.Millisecond)),
		),
	)
}

func (o Options) allows(m Method) bool {
	if len(o.AllowedMethods) == 0 {
		return true
	}
	for _, allowed := range o.AllowedMethods {
		if allowed == m {
			return true
		}
	}
	return false
}

func (o Options) filterOptions() query.FilterOptions {
	return query.FilterOptions{
		Allowed:      o.AllowedFilterFields,
		SearchFields: o.SearchFields,
		Strict:       o.StrictFilters,
	}
}

// Hooks are optional callbacks around write operations. Pre hooks may veto
// the write by returning an error; post hooks run after the write and its
// cache invalidation completed.
type Hooks[T any] struct {
	PreCreate  func(ctx context.Context, record T) error
	PostCreate func(ctx context.Context, record T)
	PreUpdate  func(ctx context.Context, record T) error
	PostUpdate func(ctx context.Context, record T)
	PreDelete  func(ctx context.Context, id string) error
	PostDelete func(ctx context.Context, id string)
}
