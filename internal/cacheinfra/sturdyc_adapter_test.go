package cacheinfra

import (
	"context"
	"testing"
	"time"
)

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*Config)
		wantField string
	}{
		{
			name:   "default config is valid",
			mutate: func(*Config) {},
		},
		{
			name:      "zero capacity",
			mutate:    func(c *Config) { c.Capacity = 0 },
			wantField: "Capacity",
		},
		{
			name:      "negative shards",
			mutate:    func(c *Config) { c.NumShards = -1 },
			wantField: "NumShards",
		},
		{
			name:      "zero ttl",
			mutate:    func(c *Config) { c.TTL = 0 },
			wantField: "TTL",
		},
		{
			name:      "eviction percentage too low",
			mutate:    func(c *Config) { c.EvictionPercentage = 0 },
			wantField: "EvictionPercentage",
		},
		{
			name:      "eviction percentage too high",
			mutate:    func(c *Config) { c.EvictionPercentage = 101 },
			wantField: "EvictionPercentage",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.wantField == "" {
				if err != nil {
					t.Fatalf("Validate() error = %v, want nil", err)
				}
				return
			}

			cerr, ok := err.(*ConfigError)
			if !ok {
				t.Fatalf("Validate() error type = %T, want *ConfigError", err)
			}
			if cerr.Field != tt.wantField {
				t.Errorf("ConfigError.Field = %q, want %q", cerr.Field, tt.wantField)
			}
		})
	}
}

func TestNewSturdycBackend_InvalidConfig(t *testing.T) {
	_, err := NewSturdycBackend(Config{})
	if err == nil {
		t.Fatal("NewSturdycBackend(zero config) should fail validation")
	}
}

func TestSturdycBackend_RoundTrip(t *testing.T) {
	backend, err := NewSturdycBackend(DefaultConfig())
	if err != nil {
		t.Fatalf("NewSturdycBackend() error = %v", err)
	}
	ctx := context.Background()

	if _, hit, err := backend.Get(ctx, "missing"); err != nil || hit {
		t.Fatalf("Get(missing) = hit=%v err=%v, want miss without error", hit, err)
	}

	payload := []byte(`{"id":"1"}`)
	if err := backend.Set(ctx, "users:object:1:all", payload, time.Minute); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	got, hit, err := backend.Get(ctx, "users:object:1:all")
	if err != nil || !hit {
		t.Fatalf("Get() = hit=%v err=%v, want hit", hit, err)
	}
	if string(got) != string(payload) {
		t.Errorf("Get() payload = %s, want %s", got, payload)
	}

	if err := backend.Delete(ctx, "users:object:1:all"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, hit, _ := backend.Get(ctx, "users:object:1:all"); hit {
		t.Error("Get() after Delete() should miss")
	}

	// Deleting again must be a no-op.
	if err := backend.Delete(ctx, "users:object:1:all"); err != nil {
		t.Errorf("Delete() of absent key error = %v, want nil", err)
	}
}

func TestSturdycBackend_DeleteByPrefix(t *testing.T) {
	backend, err := NewSturdycBackend(DefaultConfig())
	if err != nil {
		t.Fatalf("NewSturdycBackend() error = %v", err)
	}
	ctx := context.Background()

	keys := []string{
		"users:list:aaaa:bbbb:all",
		"users:list:cccc:dddd:all",
		"users:object:1:all",
		"orders:list:eeee:ffff:all",
	}
	for _, k := range keys {
		if err := backend.Set(ctx, k, []byte("x"), time.Minute); err != nil {
			t.Fatalf("Set(%s) error = %v", k, err)
		}
	}

	if err := backend.DeleteByPrefix(ctx, "users:list:"); err != nil {
		t.Fatalf("DeleteByPrefix() error = %v", err)
	}

	for _, k := range keys[:2] {
		if _, hit, _ := backend.Get(ctx, k); hit {
			t.Errorf("key %s survived prefix deletion", k)
		}
	}
	for _, k := range keys[2:] {
		if _, hit, _ := backend.Get(ctx, k); !hit {
			t.Errorf("key %s outside the prefix was deleted", k)
		}
	}
}
