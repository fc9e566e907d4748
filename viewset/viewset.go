package viewset

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"reflect"

	"github.com/goliatone/go-viewset-cache/cache"
	"github.com/goliatone/go-viewset-cache/query"
)

// ViewSet binds the parsers, key builder, and caching executor into
// list/retrieve/create/update/delete entry points for one resource. It holds
// no per-request state; a single instance serves concurrent requests.
type ViewSet[T any] struct {
	opts       Options
	dataset    Dataset[T]
	serializer Serializer[T]
	keys       cache.KeyBuilder
	identity   func(T) string
	hooks      Hooks[T]
	log        Logger
	exec       *Executor[T]
}

// Option customizes a ViewSet's collaborators at construction.
type Option[T any] func(*ViewSet[T])

// WithLogger installs a logger; cache failures are reported through it.
func WithLogger[T any](l Logger) Option[T] {
	return func(v *ViewSet[T]) { v.log = l }
}

// WithSerializer replaces the default JSON serializer.
func WithSerializer[T any](s Serializer[T]) Option[T] {
	return func(v *ViewSet[T]) { v.serializer = s }
}

// WithKeyBuilder replaces the default cache key builder.
func WithKeyBuilder[T any](kb cache.KeyBuilder) Option[T] {
	return func(v *ViewSet[T]) { v.keys = kb }
}

// WithHooks installs the pre/post write callbacks.
func WithHooks[T any](h Hooks[T]) Option[T] {
	return func(v *ViewSet[T]) { v.hooks = h }
}

// WithIdentity replaces the reflection-based record id extractor.
func WithIdentity[T any](fn func(T) string) Option[T] {
	return func(v *ViewSet[T]) { v.identity = fn }
}

// New validates the options once and builds the facade. A nil backend (or an
// empty Options.KeyPrefix) disables caching without changing any other
// behavior.
func New[T any](opts Options, dataset Dataset[T], backend cache.Backend, extra ...Option[T]) (*ViewSet[T], error) {
	if opts.Resource == "" {
		opts.Resource = resourceName[T]()
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if dataset == nil {
		return nil, fmt.Errorf("viewset: %s: dataset is required", opts.Resource)
	}

	v := &ViewSet[T]{
		opts:       opts,
		dataset:    dataset,
		serializer: JSONSerializer[T]{},
		keys:       cache.NewDefaultKeyBuilder(),
		identity:   defaultIdentity[T],
		log:        NopLogger{},
	}
	for _, opt := range extra {
		opt(v)
	}

	v.exec = NewExecutor(ExecutorConfig[T]{
		Dataset:    dataset,
		Serializer: v.serializer,
		Backend:    backend,
		Keys:       v.keys,
		Identity:   v.identity,
		KeyPrefix:  opts.KeyPrefix,
		TTL:        opts.CacheTTL,
		Logger:     v.log,
	})
	return v, nil
}

// Options returns a copy of the resource configuration.
func (v *ViewSet[T]) Options() Options {
	return v.opts
}

// List parses the query parameters and serves the filtered, paginated,
// cached list. Validation happens before any Dataset or cache access.
func (v *ViewSet[T]) List(ctx context.Context, params url.Values) (Result, error) {
	if !v.opts.allows(MethodList) {
		return Result{}, ErrMethodNotAllowed
	}

	filters, err := query.ParseFilters(params, v.opts.filterOptions())
	if err != nil {
		return Result{}, err
	}
	page, err := query.ParsePagination(params, v.opts.SizePerRequest, v.opts.AllowedFilterFields)
	if err != nil {
		return Result{}, err
	}
	fields := query.ParseFieldSelection(params, v.opts.AllowedFields)

	return v.exec.List(ctx, filters, page, fields)
}

// Retrieve serves a single record by id, honoring field selection.
func (v *ViewSet[T]) Retrieve(ctx context.Context, id string, params url.Values) (Result, error) {
	if !v.opts.allows(MethodRetrieve) {
		return Result{}, ErrMethodNotAllowed
	}
	fields := query.ParseFieldSelection(params, v.opts.AllowedFields)
	return v.exec.Retrieve(ctx, id, fields)
}

// Create decodes the body, inserts the record, and invalidates list caches.
func (v *ViewSet[T]) Create(ctx context.Context, body []byte) ([]byte, error) {
	if !v.opts.allows(MethodCreate) {
		return nil, ErrMethodNotAllowed
	}

	record, err := v.serializer.Unmarshal(body)
	if err != nil {
		return nil, err
	}
	if v.hooks.PreCreate != nil {
		if err := v.hooks.PreCreate(ctx, record); err != nil {
			return nil, err
		}
	}

	created, payload, err := v.exec.Create(ctx, record)
	if err != nil {
		return nil, err
	}
	if v.hooks.PostCreate != nil {
		v.hooks.PostCreate(ctx, created)
	}
	return payload, nil
}

// Update decodes a partial update, enforces the update field allow-list, and
// applies it. The cache is only invalidated after the write committed.
func (v *ViewSet[T]) Update(ctx context.Context, id string, body []byte) ([]byte, error) {
	if !v.opts.allows(MethodUpdate) {
		return nil, ErrMethodNotAllowed
	}

	var patch map[string]any
	if err := json.Unmarshal(body, &patch); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBody, err)
	}
	if err := v.checkUpdateFields(patch); err != nil {
		return nil, err
	}

	if v.hooks.PreUpdate != nil {
		current, err := v.dataset.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		if err := v.hooks.PreUpdate(ctx, current); err != nil {
			return nil, err
		}
	}

	updated, payload, err := v.exec.Update(ctx, id, patch)
	if err != nil {
		return nil, err
	}
	if v.hooks.PostUpdate != nil {
		v.hooks.PostUpdate(ctx, updated)
	}
	return payload, nil
}

// Delete removes the record, then invalidates its cache entries.
func (v *ViewSet[T]) Delete(ctx context.Context, id string) error {
	if !v.opts.allows(MethodDelete) {
		return ErrMethodNotAllowed
	}

	if v.hooks.PreDelete != nil {
		if err := v.hooks.PreDelete(ctx, id); err != nil {
			return err
		}
	}
	if err := v.exec.Delete(ctx, id); err != nil {
		return err
	}
	if v.hooks.PostDelete != nil {
		v.hooks.PostDelete(ctx, id)
	}
	return nil
}

func (v *ViewSet[T]) checkUpdateFields(patch map[string]any) error {
	if v.opts.AllowedUpdateFields == nil {
		return nil
	}
	allowed := make(map[string]struct{}, len(v.opts.AllowedUpdateFields))
	for _, f := range v.opts.AllowedUpdateFields {
		allowed[f] = struct{}{}
	}
	for field := range patch {
		if _, ok := allowed[field]; !ok {
			return fmt.Errorf("%w: %s", ErrFieldNotUpdatable, field)
		}
	}
	return nil
}

// defaultIdentity extracts a record id via reflection, trying the common ID
// field names. Records without one simply skip object-level caching.
func defaultIdentity[T any](record T) string {
	v := reflect.ValueOf(record)
	if v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return ""
		}
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return ""
	}
	for _, name := range []string{"ID", "Id"} {
		field := v.FieldByName(name)
		if field.IsValid() && field.CanInterface() {
			if s := fmt.Sprintf("%v", field.Interface()); s != "" {
				return s
			}
		}
	}
	return ""
}
