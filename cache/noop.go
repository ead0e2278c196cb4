package cache

import (
	"context"
	"time"
)

// NoopCache is the always-miss implementation of the Cache interface.
// It lets callers run with caching structurally disabled - not merely
// misconfigured - without any code branching: every operation completes
// without error, every read reports a miss, and no state is ever held.
type NoopCache struct{}

// NewNoopCache creates a new NoopCache.
func NewNoopCache() *NoopCache {
	return &NoopCache{}
}

// Connect is a no-op and always succeeds.
func (n *NoopCache) Connect(ctx context.Context) error { return nil }

// Disconnect is a no-op and always succeeds.
func (n *NoopCache) Disconnect() error { return nil }

// Get always reports a miss.
func (n *NoopCache) Get(ctx context.Context, key string, target interface{}) error {
	return ErrCacheMiss
}

// Set discards the value.
func (n *NoopCache) Set(ctx context.Context, key string, value interface{}, ttl ...time.Duration) {}

// Delete does nothing.
func (n *NoopCache) Delete(ctx context.Context, key string) {}

// Exists always reports absent.
func (n *NoopCache) Exists(ctx context.Context, key string) bool { return false }

// IsConnected always reports false; there is nothing to connect to.
func (n *NoopCache) IsConnected() bool { return false }

// HealthCheck always reports healthy. A structurally disabled cache has no
// backing store that could fail, so it must never trip a service's health
// probe.
func (n *NoopCache) HealthCheck(ctx context.Context) bool { return true }
