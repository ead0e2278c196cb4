package cache

import (
	"context"
	"time"
)

// Cache is the closed capability set shared by the real and the no-op cache
// implementations. Callers depend on this interface and select the variant
// once at startup via NewCache; it is never switched at runtime.
//
// The contract is fail-soft throughout: caching is strictly an optimization
// and never a correctness dependency. Read failures degrade to a miss, write
// failures are logged and swallowed. Only Connect propagates errors, because
// the caller decides whether a missing backing store is fatal.
//
// This interface is implemented by exactly two types: *RedisCache and
// *NoopCache.
type Cache interface {
	// Connect establishes the session to the backing store and verifies it
	// with a round trip. Connection errors are propagated to the caller.
	Connect(ctx context.Context) error

	// Disconnect closes the session. Idempotent; a no-op if never connected.
	Disconnect() error

	// Get retrieves and deserializes the value stored under key into target.
	// Returns ErrCacheMiss when the key is absent, the value cannot be
	// deserialized, or the backing store is unavailable.
	Get(ctx context.Context, key string, target interface{}) error

	// Set serializes value and stores it under key with the given TTL
	// (the configured default when omitted). Failures are logged and
	// swallowed.
	Set(ctx context.Context, key string, value interface{}, ttl ...time.Duration)

	// Delete removes key from the store. Failures are logged and swallowed.
	Delete(ctx context.Context, key string)

	// Exists reports whether key is present. Returns false on any failure.
	Exists(ctx context.Context, key string) bool

	// IsConnected reports whether Connect has completed successfully.
	IsConnected() bool

	// HealthCheck performs a round trip against the backing store and
	// reports the result. It never returns an error.
	HealthCheck(ctx context.Context) bool
}
