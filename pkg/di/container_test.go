package di

import (
	"context"
	"testing"
	"time"

	"github.com/goliatone/go-viewset-cache/cache"
)

func TestNewContainer(t *testing.T) {
	config := cache.Config{
		Capacity:           1000,
		NumShards:          256,
		TTL:                5 * time.Minute,
		EvictionPercentage: 10,
	}

	container, err := NewContainer(config)
	if err != nil {
		t.Fatalf("NewContainer() failed: %v", err)
	}

	if container.Backend() == nil {
		t.Error("Container should have a non-nil backend")
	}
	if container.KeyBuilder() == nil {
		t.Error("Container should have a non-nil key builder")
	}

	stored := container.Config()
	if stored.Capacity != config.Capacity {
		t.Errorf("Expected capacity %d, got %d", config.Capacity, stored.Capacity)
	}
	if stored.TTL != config.TTL {
		t.Errorf("Expected TTL %v, got %v", config.TTL, stored.TTL)
	}
}

func TestNewContainerWithDefaults(t *testing.T) {
	container, err := NewContainerWithDefaults()
	if err != nil {
		t.Fatalf("NewContainerWithDefaults() failed: %v", err)
	}

	config := container.Config()
	defaults := cache.DefaultConfig()
	if config.Capacity != defaults.Capacity {
		t.Errorf("Expected default capacity %d, got %d", defaults.Capacity, config.Capacity)
	}
	if config.TTL != defaults.TTL {
		t.Errorf("Expected default TTL %v, got %v", defaults.TTL, config.TTL)
	}
}

func TestNewContainer_InvalidConfig(t *testing.T) {
	invalid := cache.Config{
		Capacity:           0, // Invalid: must be > 0
		NumShards:          256,
		TTL:                5 * time.Minute,
		EvictionPercentage: 10,
	}

	if _, err := NewContainer(invalid); err == nil {
		t.Error("NewContainer() should fail with invalid config")
	}
}

func TestContainerSingletonBehavior(t *testing.T) {
	container, err := NewContainerWithDefaults()
	if err != nil {
		t.Fatalf("NewContainerWithDefaults() failed: %v", err)
	}

	if container.Backend() != container.Backend() {
		t.Error("Backend() should return the same instance")
	}
	if container.KeyBuilder() != container.KeyBuilder() {
		t.Error("KeyBuilder() should return the same instance")
	}
}

func TestContainerBackendIntegration(t *testing.T) {
	container, err := NewContainerWithDefaults()
	if err != nil {
		t.Fatalf("NewContainerWithDefaults() failed: %v", err)
	}

	backend := container.Backend()
	ctx := context.Background()
	key := container.KeyBuilder().ObjectKey("tests", "1", nil)

	if err := backend.Set(ctx, key, []byte("payload"), time.Minute); err != nil {
		t.Fatalf("Set() failed: %v", err)
	}
	got, hit, err := backend.Get(ctx, key)
	if err != nil || !hit {
		t.Fatalf("Get() = hit=%v err=%v, want hit", hit, err)
	}
	if string(got) != "payload" {
		t.Errorf("Get() = %q, want %q", got, "payload")
	}

	if err := backend.Delete(ctx, key); err != nil {
		t.Errorf("Delete() failed: %v", err)
	}
	if _, hit, _ := backend.Get(ctx, key); hit {
		t.Error("Get() after Delete() should miss")
	}
}
