package viewset

import (
	"context"
	"encoding/json"
	"time"

	"github.com/goliatone/go-viewset-cache/cache"
	"github.com/goliatone/go-viewset-cache/query"
)

// Executor orchestrates cache lookups, Dataset queries, serialization, and
// write-triggered invalidation for one resource. The ViewSet facade is a thin
// binding over it; it is exported for callers wiring their own entry points.
//
// Cache failures are best-effort by contract: a failed read falls through to
// the Dataset, a failed store or invalidation is logged and ignored. Dataset
// errors propagate unchanged.
type Executor[T any] struct {
	dataset    Dataset[T]
	serializer Serializer[T]
	backend    cache.Backend
	keys       cache.KeyBuilder
	identity   func(T) string
	prefix     string
	ttl        time.Duration
	log        Logger
}

// ExecutorConfig collects the collaborators an Executor binds. A nil Backend
// or empty KeyPrefix disables caching; every read then goes to the Dataset.
type ExecutorConfig[T any] struct {
	Dataset    Dataset[T]
	Serializer Serializer[T]
	Backend    cache.Backend
	Keys       cache.KeyBuilder
	Identity   func(T) string
	KeyPrefix  string
	TTL        time.Duration
	Logger     Logger
}

// NewExecutor builds an Executor, defaulting the serializer, key builder,
// identity extractor, and logger.
func NewExecutor[T any](cfg ExecutorConfig[T]) *Executor[T] {
	if cfg.Serializer == nil {
		cfg.Serializer = JSONSerializer[T]{}
	}
	if cfg.Keys == nil {
		cfg.Keys = cache.NewDefaultKeyBuilder()
	}
	if cfg.Identity == nil {
		cfg.Identity = defaultIdentity[T]
	}
	if cfg.Logger == nil {
		cfg.Logger = NopLogger{}
	}
	return &Executor[T]{
		dataset:    cfg.Dataset,
		serializer: cfg.Serializer,
		backend:    cfg.Backend,
		keys:       cfg.Keys,
		identity:   cfg.Identity,
		prefix:     cfg.KeyPrefix,
		ttl:        cfg.TTL,
		log:        cfg.Logger,
	}
}

// List serves a filtered, paginated list, read-through cached.
func (e *Executor[T]) List(ctx context.Context, filters query.FilterSpec, page query.PaginationSpec, fields []string) (Result, error) {
	var key string
	if e.cachingEnabled() {
		key = e.keys.ListKey(e.prefix, filters, page, fields)
		if payload, ok := e.lookup(ctx, key); ok {
			return Result{Payload: payload, FromCache: true}, nil
		}
	}

	records, total, err := e.dataset.Query(ctx, filters, page)
	if err != nil {
		return Result{}, err
	}

	payload, err := e.listPayload(records, total, page, fields)
	if err != nil {
		return Result{}, err
	}

	if key != "" {
		e.store(ctx, key, payload)
	}
	return Result{Payload: payload}, nil
}

// Retrieve serves a single record by id, read-through cached.
func (e *Executor[T]) Retrieve(ctx context.Context, id string, fields []string) (Result, error) {
	var key string
	if e.cachingEnabled() {
		key = e.keys.ObjectKey(e.prefix, id, fields)
		if payload, ok := e.lookup(ctx, key); ok {
			return Result{Payload: payload, FromCache: true}, nil
		}
	}

	record, err := e.dataset.Get(ctx, id)
	if err != nil {
		return Result{}, err
	}

	payload, err := e.serializer.Marshal(record, fields)
	if err != nil {
		return Result{}, err
	}

	if key != "" {
		e.store(ctx, key, payload)
	}
	return Result{Payload: payload}, nil
}

// Create inserts a record, then invalidates every cached list window for the
// resource. The fresh record is cached under its object key so an immediate
// retrieve is warm. A failed insert leaves the cache untouched.
func (e *Executor[T]) Create(ctx context.Context, record T) (T, []byte, error) {
	created, err := e.dataset.Insert(ctx, record)
	if err != nil {
		var zero T
		return zero, nil, err
	}

	payload, err := e.serializer.Marshal(created, nil)
	if err != nil {
		var zero T
		return zero, nil, err
	}

	if e.cachingEnabled() {
		e.invalidate(ctx, e.keys.ListPrefix(e.prefix))
		if id := e.identity(created); id != "" {
			e.store(ctx, e.keys.ObjectKey(e.prefix, id, nil), payload)
		}
	}
	return created, payload, nil
}

// Update applies a partial update, then invalidates the record's object keys
// and every list window. A failed update leaves the cache untouched.
func (e *Executor[T]) Update(ctx context.Context, id string, patch map[string]any) (T, []byte, error) {
	updated, err := e.dataset.Update(ctx, id, patch)
	if err != nil {
		var zero T
		return zero, nil, err
	}

	if e.cachingEnabled() {
		e.invalidate(ctx, e.keys.ObjectPrefix(e.prefix, id), e.keys.ListPrefix(e.prefix))
	}

	payload, err := e.serializer.Marshal(updated, nil)
	if err != nil {
		var zero T
		return zero, nil, err
	}
	return updated, payload, nil
}

// Delete removes a record, then invalidates its object keys and every list
// window. Invalidation runs only after the underlying delete committed.
func (e *Executor[T]) Delete(ctx context.Context, id string) error {
	if err := e.dataset.Delete(ctx, id); err != nil {
		return err
	}
	if e.cachingEnabled() {
		e.invalidate(ctx, e.keys.ObjectPrefix(e.prefix, id), e.keys.ListPrefix(e.prefix))
	}
	return nil
}

func (e *Executor[T]) cachingEnabled() bool {
	return e.backend != nil && e.prefix != ""
}

func (e *Executor[T]) lookup(ctx context.Context, key string) ([]byte, bool) {
	payload, ok, err := e.backend.Get(ctx, key)
	if err != nil {
		e.log.Warn("cache read failed, falling through", Fields{"key": key, "error": err})
		return nil, false
	}
	return payload, ok
}

func (e *Executor[T]) store(ctx context.Context, key string, payload []byte) {
	if err := e.backend.Set(ctx, key, payload, e.ttl); err != nil {
		e.log.Warn("cache write failed", Fields{"key": key, "error": err})
	}
}

func (e *Executor[T]) invalidate(ctx context.Context, prefixes ...string) {
	for _, p := range prefixes {
		if err := e.backend.DeleteByPrefix(ctx, p); err != nil {
			e.log.Error("cache invalidation failed", Fields{"prefix": p, "error": err})
		}
	}
}

func (e *Executor[T]) listPayload(records []T, total int, page query.PaginationSpec, fields []string) ([]byte, error) {
	objects := make([]json.RawMessage, 0, len(records))
	for _, record := range records {
		data, err := e.serializer.Marshal(record, fields)
		if err != nil {
			return nil, err
		}
		objects = append(objects, data)
	}

	envelope := ListPayload{Objects: objects, TotalCount: total}
	if page.Mode == query.ModePage {
		envelope.CurrentPage = page.Page
		envelope.NumPages = (total + page.Size - 1) / page.Size
		if envelope.NumPages < 1 {
			envelope.NumPages = 1
		}
	}
	return json.Marshal(envelope)
}
