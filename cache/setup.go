package cache

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/redis/go-redis/v9"

	"github.com/aalemi-dev/servicekit/observability"
)

// RedisCache is the Redis-backed implementation of the Cache interface.
// Values are stored JSON-serialized under prefixed keys; see the Cache
// interface for the fail-soft contract.
type RedisCache struct {
	// cfg stores the configuration for this cache client
	cfg Config

	// client is the underlying go-redis client, nil until Connect
	client *redis.Client

	// observer provides optional observability hooks for tracking operations
	observer observability.Observer

	// logger provides optional logging for lifecycle events and swallowed failures
	logger Logger

	// connected tracks whether Connect has completed successfully
	connected atomic.Bool
}

// NewRedisCache creates a new RedisCache with the provided configuration.
// Construction validates required fields and applies defaults; no I/O happens
// until Connect is called.
//
// Returns ErrServiceNameRequired when cfg.ServiceName is empty.
//
// Example:
//
//	c, err := cache.NewRedisCache(cache.Config{ServiceName: "billing-service"})
//	if err != nil {
//	    return err
//	}
//	if err := c.Connect(ctx); err != nil {
//	    return err
//	}
//	defer c.Disconnect()
func NewRedisCache(cfg Config) (*RedisCache, error) {
	if cfg.ServiceName == "" {
		return nil, ErrServiceNameRequired
	}
	cfg.applyDefaults()

	return &RedisCache{cfg: cfg}, nil
}

// NewCache is the startup factory selecting between the two Cache variants.
// When enabled is false it returns a *NoopCache, letting callers run with
// caching structurally disabled without any code branching. The selection is
// made once; variants are never switched at runtime.
func NewCache(cfg Config, enabled bool) (Cache, error) {
	if !enabled {
		return NewNoopCache(), nil
	}
	return NewRedisCache(cfg)
}

// WithObserver attaches an observer to the cache client for tracking operations.
// This method uses the builder pattern and returns the client for method chaining.
func (c *RedisCache) WithObserver(observer observability.Observer) *RedisCache {
	c.observer = observer
	return c
}

// WithLogger attaches a logger to the cache client for internal logging.
// This method uses the builder pattern and returns the client for method chaining.
//
// The logger is where swallowed write failures and degraded reads surface, so
// attaching one is strongly recommended outside tests.
func (c *RedisCache) WithLogger(logger Logger) *RedisCache {
	c.logger = logger
	return c
}

// Connect establishes the connection to Redis and verifies it with a ping.
// The URL accepts either a full "redis://" URL or a plain "host:port"
// address. Connection errors are propagated to the caller.
func (c *RedisCache) Connect(ctx context.Context) error {
	client, err := newRedisClient(c.cfg.URL)
	if err != nil {
		return fmt.Errorf("failed to configure redis client: %w", err)
	}

	if err := client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("failed to connect to redis: %w", err)
	}

	c.client = client
	c.connected.Store(true)
	c.logInfo(ctx, "Connected to cache backing store", map[string]interface{}{
		"key_prefix": c.cfg.KeyPrefix,
	})
	return nil
}

// newRedisClient builds a go-redis client from a URL or bare address.
func newRedisClient(rawURL string) (*redis.Client, error) {
	if strings.HasPrefix(rawURL, "redis://") || strings.HasPrefix(rawURL, "rediss://") {
		opt, err := redis.ParseURL(rawURL)
		if err != nil {
			return nil, err
		}
		return redis.NewClient(opt), nil
	}
	return redis.NewClient(&redis.Options{Addr: rawURL}), nil
}

// Disconnect closes the Redis connection. Idempotent; calling it on a client
// that never connected is a no-op.
func (c *RedisCache) Disconnect() error {
	if !c.connected.Swap(false) || c.client == nil {
		return nil
	}
	return c.client.Close()
}

// IsConnected reports whether Connect has completed successfully.
func (c *RedisCache) IsConnected() bool {
	return c.connected.Load()
}

// HealthCheck pings the backing store with a bounded timeout and reports the
// result. Health probing never returns an error.
func (c *RedisCache) HealthCheck(ctx context.Context) bool {
	if c.client == nil {
		return false
	}

	ctx, cancel := context.WithTimeout(ctx, DefaultHealthCheckTimeout)
	defer cancel()

	return c.client.Ping(ctx).Err() == nil
}

// buildKey computes the prefixed key transmitted to the store.
func (c *RedisCache) buildKey(key string) string {
	return c.cfg.KeyPrefix + ":" + key
}

// logWarn logs a warning message using the configured logger if available.
func (c *RedisCache) logWarn(ctx context.Context, msg string, err error, fields map[string]interface{}) {
	if c.logger != nil {
		c.logger.WarnWithContext(ctx, msg, err, fields)
	}
	// Silently skip if no logger configured
}

// logInfo logs an informational message using the configured logger if available.
func (c *RedisCache) logInfo(ctx context.Context, msg string, fields map[string]interface{}) {
	if c.logger != nil {
		c.logger.InfoWithContext(ctx, msg, nil, fields)
	}
	// Silently skip if no logger configured
}
