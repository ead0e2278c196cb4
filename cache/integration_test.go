package cache

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// initializeRedis starts a disposable Redis container and returns its address.
func initializeRedis(ctx context.Context, t *testing.T) (string, testcontainers.Container) {
	t.Helper()

	req := testcontainers.ContainerRequest{
		Image:        "redis:7-alpine",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForLog("Ready to accept connections"),
	}
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "6379")
	require.NoError(t, err)

	return fmt.Sprintf("%s:%s", host, port.Port()), container
}

func TestRedisCacheRoundTrip(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ctx := context.Background()

	addr, containerInstance := initializeRedis(ctx, t)
	defer func() {
		if err := containerInstance.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	}()

	c, err := NewRedisCache(Config{
		ServiceName: "integration-service",
		URL:         addr,
		KeyPrefix:   "it",
		TTL:         time.Minute,
	})
	require.NoError(t, err)
	require.NoError(t, c.Connect(ctx))
	defer c.Disconnect()

	assert.True(t, c.IsConnected())
	assert.True(t, c.HealthCheck(ctx))

	type payload struct {
		Name  string   `json:"name"`
		Count int      `json:"count"`
		Tags  []string `json:"tags"`
	}

	t.Run("set then get is deep equal", func(t *testing.T) {
		in := payload{Name: "alpha", Count: 3, Tags: []string{"a", "b"}}
		c.Set(ctx, "k1", in)

		var out payload
		require.NoError(t, c.Get(ctx, "k1", &out))
		assert.Equal(t, in, out)
	})

	t.Run("delete removes the key", func(t *testing.T) {
		c.Set(ctx, "k2", "value")
		require.True(t, c.Exists(ctx, "k2"))

		c.Delete(ctx, "k2")
		assert.False(t, c.Exists(ctx, "k2"))

		var out string
		assert.ErrorIs(t, c.Get(ctx, "k2", &out), ErrCacheMiss)
	})

	t.Run("missing key is a miss", func(t *testing.T) {
		var out string
		assert.ErrorIs(t, c.Get(ctx, "never-set", &out), ErrCacheMiss)
	})

	t.Run("explicit ttl expires the key", func(t *testing.T) {
		c.Set(ctx, "k3", "short-lived", time.Second)
		require.True(t, c.Exists(ctx, "k3"))

		assert.Eventually(t, func() bool {
			return !c.Exists(ctx, "k3")
		}, 5*time.Second, 250*time.Millisecond)
	})
}
