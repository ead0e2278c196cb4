package cache

import "errors"

var (
	// ErrServiceNameRequired is returned when Config.ServiceName is empty.
	// The check happens synchronously at construction, before any I/O.
	ErrServiceNameRequired = errors.New("cache: service name is required")

	// ErrCacheMiss is the not-found sentinel returned by Get. It covers an
	// absent key, a value that fails deserialization, and an unavailable
	// backing store - all three degrade to a miss by contract.
	ErrCacheMiss = errors.New("cache: miss")
)
