package kafka

import (
	"context"
	"fmt"
	"testing"

	segmentio "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==================== Construction ====================

func TestNewConsumerRequiresServiceName(t *testing.T) {
	t.Parallel()

	_, err := NewConsumer(Config{Brokers: []string{"localhost:9092"}})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrServiceNameRequired)
}

func TestNewConsumerRequiresBrokers(t *testing.T) {
	t.Parallel()

	_, err := NewConsumer(Config{ServiceName: "svc"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrBrokersRequired)
}

func TestNewConsumerAppliesDefaults(t *testing.T) {
	t.Parallel()

	c, err := NewConsumer(Config{ServiceName: "svc", Brokers: []string{"localhost:9092"}})
	require.NoError(t, err)
	assert.Equal(t, "svc", c.cfg.GroupID)
	assert.Equal(t, DefaultMinBytes, c.cfg.MinBytes)
	assert.Equal(t, int(DefaultMaxBytes), c.cfg.MaxBytes)
	assert.Equal(t, DefaultMaxWait, c.cfg.MaxWait)
}

func TestNewConsumerFailsFastOnBadSASL(t *testing.T) {
	t.Parallel()

	_, err := NewConsumer(Config{
		ServiceName: "svc",
		Brokers:     []string{"localhost:9092"},
		SASL:        SASLConfig{Enabled: true, Mechanism: "GSSAPI"},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported SASL mechanism")
}

func TestNewConsumerFailsFastOnMissingCACert(t *testing.T) {
	t.Parallel()

	_, err := NewConsumer(Config{
		ServiceName: "svc",
		Brokers:     []string{"localhost:9092"},
		TLS:         TLSConfig{Enabled: true, CACertPath: "/does/not/exist.pem"},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read CA cert")
}

func TestNewConsumerSASLMechanisms(t *testing.T) {
	t.Parallel()

	for _, mechanism := range []string{"PLAIN", "SCRAM-SHA-256", "SCRAM-SHA-512"} {
		c, err := NewConsumer(Config{
			ServiceName: "svc",
			Brokers:     []string{"localhost:9092"},
			SASL:        SASLConfig{Enabled: true, Mechanism: mechanism, Username: "u", Password: "p"},
		})
		require.NoError(t, err, "mechanism %s", mechanism)
		assert.NotNil(t, c.mechanism)
	}
}

// ==================== Subscription guards ====================

func TestSubscribeRequiresConnect(t *testing.T) {
	t.Parallel()

	c, err := NewConsumer(Config{ServiceName: "svc", Brokers: []string{"localhost:9092"}})
	require.NoError(t, err)

	err = c.Subscribe(context.Background(), "topic", func(ctx context.Context, msg Message) error { return nil })
	assert.ErrorIs(t, err, ErrNotConnected)
}

func TestSubscribeValidatesArguments(t *testing.T) {
	t.Parallel()

	c, err := NewConsumer(Config{ServiceName: "svc", Brokers: []string{"localhost:9092"}})
	require.NoError(t, err)

	assert.ErrorIs(t, c.Subscribe(context.Background(), "", func(ctx context.Context, msg Message) error { return nil }), ErrTopicRequired)
	assert.ErrorIs(t, c.Subscribe(context.Background(), "topic", nil), ErrHandlerRequired)
}

func TestDisconnectWithoutSubscriptionIsNoOp(t *testing.T) {
	t.Parallel()

	c, err := NewConsumer(Config{ServiceName: "svc", Brokers: []string{"localhost:9092"}})
	require.NoError(t, err)

	assert.NoError(t, c.Disconnect())
	assert.NoError(t, c.Disconnect())
}

// ==================== Stats ====================

func TestStatsInitiallyZero(t *testing.T) {
	t.Parallel()

	c, err := NewConsumer(Config{ServiceName: "svc", Brokers: []string{"localhost:9092"}})
	require.NoError(t, err)

	stats := c.Stats()
	assert.Zero(t, stats.ProcessedCount)
	assert.Zero(t, stats.ErrorCount)
	assert.True(t, stats.LastActivity.IsZero())
}

// ==================== Message ====================

func newTestMessage(key string, value []byte, headers []segmentio.Header, partition int, offset int64) *consumerMessage {
	return &consumerMessage{
		message: segmentio.Message{
			Topic:     "test-topic",
			Key:       []byte(key),
			Value:     value,
			Headers:   headers,
			Partition: partition,
			Offset:    offset,
		},
	}
}

func TestConsumerMessageAccessors(t *testing.T) {
	t.Parallel()

	msg := newTestMessage("my-key", []byte(`{"n":7}`), []segmentio.Header{{Key: "trace", Value: []byte("abc")}}, 3, 42)

	assert.Equal(t, "test-topic", msg.Topic())
	assert.Equal(t, "my-key", msg.Key())
	assert.Equal(t, []byte(`{"n":7}`), msg.Body())
	assert.Equal(t, 3, msg.Partition())
	assert.Equal(t, int64(42), msg.Offset())
	assert.Equal(t, map[string]interface{}{"trace": "abc"}, msg.Header())
}

func TestConsumerMessageBodyAs(t *testing.T) {
	t.Parallel()

	t.Run("valid json", func(t *testing.T) {
		t.Parallel()
		msg := newTestMessage("", []byte(`{"n":7}`), nil, 0, 0)
		var target struct {
			N int `json:"n"`
		}
		require.NoError(t, msg.BodyAs(&target))
		assert.Equal(t, 7, target.N)
	})

	t.Run("invalid json", func(t *testing.T) {
		t.Parallel()
		msg := newTestMessage("", []byte(`{broken`), nil, 0, 0)
		var target map[string]interface{}
		assert.Error(t, msg.BodyAs(&target))
	})
}

// ==================== Handler invocation ====================

func TestInvokeHandlerCatchesPanic(t *testing.T) {
	t.Parallel()

	c, err := NewConsumer(Config{ServiceName: "svc", Brokers: []string{"localhost:9092"}})
	require.NoError(t, err)

	err = c.invokeHandler(context.Background(), func(ctx context.Context, msg Message) error {
		panic("boom")
	}, newTestMessage("", nil, nil, 0, 0))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "handler panicked")
}

// ==================== Error translation ====================

func TestTranslateError(t *testing.T) {
	t.Parallel()

	c := &Consumer{}

	tests := []struct {
		name     string
		input    string
		expected error
	}{
		{"connection refused", "dial tcp: connection refused", ErrConnectionFailed},
		{"broker not available", "broker not available", ErrBrokerNotAvailable},
		{"sasl failure", "SASL Authentication Failed", ErrAuthenticationFailed},
		{"unknown topic", "unknown topic or partition", ErrTopicNotFound},
		{"offset out of range", "offset out of range", ErrOffsetOutOfRange},
		{"rebalance", "rebalance in progress", ErrRebalanceInProgress},
		{"i/o timeout", "read tcp: i/o timeout", ErrRequestTimedOut},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, c.TranslateError(fmt.Errorf("%s", tt.input)))
		})
	}

	t.Run("nil passes through", func(t *testing.T) {
		t.Parallel()
		assert.NoError(t, c.TranslateError(nil))
	})

	t.Run("unknown error passes through", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, assert.AnError, c.TranslateError(assert.AnError))
	})
}

func TestErrorClassification(t *testing.T) {
	t.Parallel()

	c := &Consumer{}

	assert.True(t, c.IsRetryableError(ErrConnectionFailed))
	assert.True(t, c.IsRetryableError(ErrRebalanceInProgress))
	assert.False(t, c.IsRetryableError(ErrAuthenticationFailed))

	assert.True(t, c.IsAuthenticationError(ErrAuthenticationFailed))
	assert.True(t, c.IsAuthenticationError(ErrInvalidCredentials))
	assert.False(t, c.IsAuthenticationError(ErrConnectionFailed))
}
