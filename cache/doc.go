// Package cache provides a fail-soft key-value cache client backed by Redis.
//
// The package treats caching strictly as an optimization: read failures
// degrade to a miss (ErrCacheMiss), write failures are logged and swallowed,
// and a structurally disabled variant (NoopCache) implements the identical
// capability set so callers never branch on whether caching is on.
//
// # Architecture
//
// The Cache interface is a closed set of exactly two polymorphic variants:
//   - RedisCache: the real client on github.com/redis/go-redis/v9
//   - NoopCache: the always-miss variant
//
// The variant is selected once at startup by the NewCache factory (or the
// FX module) and never switched at runtime.
//
// Keys are namespaced before transmission as "<prefix>:<key>"; values are
// JSON round-tripped, so non-JSON-safe values are not preserved.
//
// # Basic Usage
//
//	c, err := cache.NewRedisCache(cache.Config{ServiceName: "billing-service"})
//	if err != nil {
//		return err
//	}
//	if err := c.Connect(ctx); err != nil {
//		return err
//	}
//	defer c.Disconnect()
//
//	c.Set(ctx, "invoice:7", invoice)
//
//	var cached Invoice
//	if err := c.Get(ctx, "invoice:7", &cached); errors.Is(err, cache.ErrCacheMiss) {
//		// fall through to the source of truth
//	}
package cache
