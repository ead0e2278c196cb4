package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// Get retrieves the value stored under key and deserializes it into target,
// which must be a non-nil pointer.
//
// Get degrades every internal failure to ErrCacheMiss: an absent key, a
// payload that fails deserialization, and an unavailable backing store all
// look like a miss to the caller. Unexpected failures are additionally
// logged.
//
// Example:
//
//	var profile Profile
//	if err := c.Get(ctx, "profile:42", &profile); errors.Is(err, cache.ErrCacheMiss) {
//	    profile = loadProfile(ctx, 42)
//	    c.Set(ctx, "profile:42", profile)
//	}
func (c *RedisCache) Get(ctx context.Context, key string, target interface{}) error {
	start := time.Now()

	if c.client == nil {
		return ErrCacheMiss
	}

	payload, err := c.client.Get(ctx, c.buildKey(key)).Bytes()
	c.observeOperation("get", key, time.Since(start), err, int64(len(payload)))

	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logWarn(ctx, "Cache read failed, degrading to miss", err, map[string]interface{}{
				"key": key,
			})
		}
		return ErrCacheMiss
	}

	if err := json.Unmarshal(payload, target); err != nil {
		c.logWarn(ctx, "Cache payload failed to deserialize, degrading to miss", err, map[string]interface{}{
			"key": key,
		})
		return ErrCacheMiss
	}

	return nil
}

// Set serializes value as JSON and stores it under key with the given TTL,
// falling back to the configured default when none is passed. Failures are
// logged and swallowed - caching is an optimization, never a correctness
// dependency.
//
// Values that are not JSON-safe (functions, channels) are not preserved;
// such a value is logged and dropped.
func (c *RedisCache) Set(ctx context.Context, key string, value interface{}, ttl ...time.Duration) {
	start := time.Now()

	if c.client == nil {
		return
	}

	expiry := c.cfg.TTL
	if len(ttl) > 0 && ttl[0] > 0 {
		expiry = ttl[0]
	}

	payload, err := json.Marshal(value)
	if err != nil {
		c.logWarn(ctx, "Cache value failed to serialize, dropping write", err, map[string]interface{}{
			"key": key,
		})
		return
	}

	err = c.client.Set(ctx, c.buildKey(key), payload, expiry).Err()
	c.observeOperation("set", key, time.Since(start), err, int64(len(payload)))

	if err != nil {
		c.logWarn(ctx, "Cache write failed, dropping write", err, map[string]interface{}{
			"key": key,
		})
	}
}

// Delete removes key from the store. Failures are logged and swallowed.
func (c *RedisCache) Delete(ctx context.Context, key string) {
	start := time.Now()

	if c.client == nil {
		return
	}

	err := c.client.Del(ctx, c.buildKey(key)).Err()
	c.observeOperation("delete", key, time.Since(start), err, 0)

	if err != nil {
		c.logWarn(ctx, "Cache delete failed", err, map[string]interface{}{
			"key": key,
		})
	}
}

// Exists reports whether key is present in the store. Any failure, including
// an unavailable backing store, reports false.
func (c *RedisCache) Exists(ctx context.Context, key string) bool {
	start := time.Now()

	if c.client == nil {
		return false
	}

	n, err := c.client.Exists(ctx, c.buildKey(key)).Result()
	c.observeOperation("exists", key, time.Since(start), err, 0)

	if err != nil {
		c.logWarn(ctx, "Cache existence check failed, reporting absent", err, map[string]interface{}{
			"key": key,
		})
		return false
	}
	return n > 0
}
