package logger

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

// ==================== Construction ====================

func TestNewLoggerClientRequiresServiceName(t *testing.T) {
	t.Parallel()

	_, err := NewLoggerClient(Config{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrServiceNameRequired)
}

func TestNewLoggerClientConsoleOnly(t *testing.T) {
	t.Parallel()

	client, err := NewLoggerClient(Config{ServiceName: "test-service"})
	require.NoError(t, err)
	require.NotNil(t, client.Zap)
	assert.Nil(t, client.remote)
}

func TestNewLoggerClientLevels(t *testing.T) {
	t.Parallel()

	for _, level := range []string{Debug, Info, Warning, Error, ""} {
		client, err := NewLoggerClient(Config{ServiceName: "test-service", Level: level})
		require.NoError(t, err, "level %q", level)
		require.NotNil(t, client.Zap)
	}
}

func TestNewLoggerClientInvalidRemoteDegradesToConsole(t *testing.T) {
	t.Parallel()

	client, err := NewLoggerClient(Config{
		ServiceName:  "test-service",
		EnableRemote: true,
		RemoteURL:    "ftp://not-a-log-endpoint",
	})
	require.NoError(t, err)
	require.NotNil(t, client.Zap)
	assert.Nil(t, client.remote)
}

func TestNewLoggerClientSuppressesRemoteInTestEnvironment(t *testing.T) {
	t.Parallel()

	client, err := NewLoggerClient(Config{
		ServiceName:  "test-service",
		Environment:  "test",
		EnableRemote: true,
		RemoteURL:    "http://localhost:3100/loki/api/v1/push",
	})
	require.NoError(t, err)
	assert.Nil(t, client.remote)
}

// ==================== Field conversion ====================

func TestConvertToZapFields(t *testing.T) {
	t.Parallel()

	client, err := NewLoggerClient(Config{ServiceName: "test-service"})
	require.NoError(t, err)

	t.Run("nil error and no fields", func(t *testing.T) {
		t.Parallel()
		assert.Empty(t, client.convertToZapFields(nil))
	})

	t.Run("error only", func(t *testing.T) {
		t.Parallel()
		fields := client.convertToZapFields(assert.AnError)
		require.Len(t, fields, 1)
		assert.Equal(t, "error", fields[0].Key)
	})

	t.Run("multiple field maps", func(t *testing.T) {
		t.Parallel()
		fields := client.convertToZapFields(nil,
			map[string]interface{}{"a": 1},
			map[string]interface{}{"b": 2},
		)
		assert.Len(t, fields, 2)
	})
}

// ==================== Remote sink ====================

func TestRemoteSinkShipsEntries(t *testing.T) {
	t.Parallel()

	var mu sync.Mutex
	var payloads []pushPayload
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		var p pushPayload
		require.NoError(t, json.Unmarshal(body, &p))
		mu.Lock()
		payloads = append(payloads, p)
		mu.Unlock()
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	client, err := NewLoggerClient(Config{
		ServiceName:  "ship-service",
		Environment:  "staging",
		EnableRemote: true,
		RemoteURL:    server.URL,
	})
	require.NoError(t, err)
	require.NotNil(t, client.remote)

	client.Info("shipped message", nil, map[string]interface{}{"n": 1})
	client.remote.stop()

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, payloads, 1)
	require.Len(t, payloads[0].Streams, 1)

	stream := payloads[0].Streams[0]
	assert.Equal(t, "ship-service", stream.Stream["app"])
	assert.Equal(t, "staging", stream.Stream["environment"])
	require.NotEmpty(t, stream.Values)
	assert.Contains(t, stream.Values[0][1], "shipped message")
}

func TestRemoteSinkPushFailureIsSwallowed(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	client, err := NewLoggerClient(Config{
		ServiceName:  "ship-service",
		EnableRemote: true,
		RemoteURL:    server.URL,
	})
	require.NoError(t, err)

	client.Error("failing push", assert.AnError)
	server.Close()

	// Logging must keep working after the backend is gone.
	client.Warn("backend is down", nil)
	require.NoError(t, client.Close())
}

func TestRemoteCoreWriteAfterStopDoesNotBlock(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	client, err := NewLoggerClient(Config{
		ServiceName:  "ship-service",
		EnableRemote: true,
		RemoteURL:    server.URL,
	})
	require.NoError(t, err)
	require.NotNil(t, client.remote)

	client.remote.stop()

	done := make(chan struct{})
	go func() {
		defer close(done)
		err := client.remote.Write(zapcore.Entry{Time: time.Now(), Message: "late"}, nil)
		assert.NoError(t, err)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Write blocked after stop")
	}
}
