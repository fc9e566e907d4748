package di

import (
	goredis "github.com/redis/go-redis/v9"

	"github.com/goliatone/go-viewset-cache/cache"
	"github.com/goliatone/go-viewset-cache/viewset"
)

// Container provides dependency injection for viewset related components.
// It manages singleton instances of the cache backend and key builder and
// provides factory methods for creating viewsets.
type Container struct {
	backend cache.Backend
	keys    cache.KeyBuilder
	config  cache.Config
}

// NewContainer creates a new DI container backed by the in-process cache
// using the provided configuration.
func NewContainer(config cache.Config) (*Container, error) {
	backend, err := cache.NewMemoryBackend(config)
	if err != nil {
		return nil, err
	}

	return &Container{
		backend: backend,
		keys:    cache.NewDefaultKeyBuilder(),
		config:  config,
	}, nil
}

// NewContainerWithDefaults creates a new DI container using default
// configuration. This is a convenience constructor for typical use cases
// where custom configuration is not required.
func NewContainerWithDefaults() (*Container, error) {
	return NewContainer(cache.DefaultConfig())
}

// NewRedisContainer creates a new DI container backed by a shared redis
// client. The client stays externally owned.
func NewRedisContainer(client goredis.UniversalClient) (*Container, error) {
	backend, err := cache.NewRedisBackend(client)
	if err != nil {
		return nil, err
	}

	return &Container{
		backend: backend,
		keys:    cache.NewDefaultKeyBuilder(),
	}, nil
}

// Backend returns the singleton cache backend instance.
func (c *Container) Backend() cache.Backend {
	return c.backend
}

// KeyBuilder returns the singleton key builder instance.
func (c *Container) KeyBuilder() cache.KeyBuilder {
	return c.keys
}

// Config returns a copy of the cache configuration used by this container.
func (c *Container) Config() cache.Config {
	return c.config
}

// NewViewSet creates a viewset wired to the container's cache backend and
// key builder.
//
// Since Go methods cannot have type parameters, this is provided as a
// package-level function. Example: NewViewSet[User](container, opts, dataset)
func NewViewSet[T any](container *Container, opts viewset.Options, dataset viewset.Dataset[T], extra ...viewset.Option[T]) (*viewset.ViewSet[T], error) {
	extra = append([]viewset.Option[T]{viewset.WithKeyBuilder[T](container.keys)}, extra...)
	return viewset.New(opts, dataset, container.backend, extra...)
}
