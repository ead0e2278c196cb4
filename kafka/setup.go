package kafka

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"os"
	"sync"
	"sync/atomic"

	"github.com/segmentio/kafka-go"
	"github.com/segmentio/kafka-go/sasl"
	"github.com/segmentio/kafka-go/sasl/plain"
	"github.com/segmentio/kafka-go/sasl/scram"

	"github.com/aalemi-dev/servicekit/observability"
)

// Consumer is a client for consuming messages from Apache Kafka.
// It manages the session lifecycle and a sequential per-subscription message
// loop, tracking processed and error counts.
//
// Consumer implements the Client interface.
type Consumer struct {
	// cfg stores the configuration for this consumer
	cfg Config

	// observer provides optional observability hooks for tracking operations
	observer observability.Observer

	// logger provides optional logging for lifecycle and per-message errors
	logger Logger

	// tlsConfig and mechanism are resolved once at construction so that
	// configuration errors fail fast, before any I/O
	tlsConfig *tls.Config
	mechanism sasl.Mechanism

	// mu protects reader, cancel and the connection state
	mu        sync.Mutex
	reader    *kafka.Reader
	cancel    context.CancelFunc
	done      chan struct{}
	connected bool

	// Monotonically increasing counters, reset only by process restart.
	processedCount atomic.Uint64
	errorCount     atomic.Uint64
	lastActivity   atomic.Int64 // unix nanoseconds, 0 = never
}

// NewConsumer creates a new Consumer with the provided configuration.
// Required fields are validated and TLS/SASL material is loaded here, so a
// misconfigured consumer fails at construction rather than on first use.
// No network I/O happens until Connect.
//
// Example:
//
//	consumer, err := kafka.NewConsumer(kafka.Config{
//	    ServiceName: "billing-service",
//	    Brokers:     []string{"localhost:9092"},
//	})
//	if err != nil {
//	    return err
//	}
//	if err := consumer.Connect(ctx); err != nil {
//	    return err
//	}
//	defer consumer.Disconnect()
func NewConsumer(cfg Config) (*Consumer, error) {
	if cfg.ServiceName == "" {
		return nil, ErrServiceNameRequired
	}
	if len(cfg.Brokers) == 0 {
		return nil, ErrBrokersRequired
	}

	// Apply defaults
	if cfg.GroupID == "" {
		cfg.GroupID = cfg.ServiceName
	}
	if cfg.MinBytes == 0 {
		cfg.MinBytes = DefaultMinBytes
	}
	if cfg.MaxBytes == 0 {
		cfg.MaxBytes = DefaultMaxBytes
	}
	if cfg.MaxWait == 0 {
		cfg.MaxWait = DefaultMaxWait
	}

	c := &Consumer{cfg: cfg}

	var err error
	if cfg.TLS.Enabled {
		c.tlsConfig, err = createTLSConfig(cfg.TLS)
		if err != nil {
			return nil, fmt.Errorf("failed to create TLS config: %w", err)
		}
	}
	if cfg.SASL.Enabled {
		c.mechanism, err = createSASLMechanism(cfg.SASL)
		if err != nil {
			return nil, fmt.Errorf("failed to create SASL mechanism: %w", err)
		}
	}

	return c, nil
}

// WithObserver attaches an observer to the consumer for tracking operations.
// This method uses the builder pattern and returns the consumer for method chaining.
func (c *Consumer) WithObserver(observer observability.Observer) *Consumer {
	c.observer = observer
	return c
}

// WithLogger attaches a logger to the consumer for internal logging.
// This method uses the builder pattern and returns the consumer for method chaining.
//
// The logger receives all lifecycle events and per-message handler errors
// with topic, partition and offset metadata.
func (c *Consumer) WithLogger(logger Logger) *Consumer {
	c.logger = logger
	return c
}

// Connect establishes a session to the broker cluster using the configured
// TLS and SASL settings and verifies it with a dial round trip. The
// underlying connection error is propagated unchanged for the caller to
// decide whether to retry or abort.
func (c *Consumer) Connect(ctx context.Context) error {
	conn, err := c.dialer().DialContext(ctx, "tcp", c.cfg.Brokers[0])
	if err != nil {
		return fmt.Errorf("failed to connect to kafka broker %s: %w", c.cfg.Brokers[0], err)
	}
	_ = conn.Close()

	c.mu.Lock()
	c.connected = true
	c.mu.Unlock()

	c.logInfo(ctx, "Connected to Kafka cluster", map[string]interface{}{
		"brokers": c.cfg.Brokers,
		"group":   c.cfg.GroupID,
	})
	return nil
}

// dialer builds the kafka-go dialer carrying TLS and SASL settings.
func (c *Consumer) dialer() *kafka.Dialer {
	return &kafka.Dialer{
		Timeout:       DefaultDialTimeout,
		DualStack:     true,
		TLS:           c.tlsConfig,
		SASLMechanism: c.mechanism,
	}
}

// createTLSConfig creates a TLS configuration from the provided config
func createTLSConfig(cfg TLSConfig) (*tls.Config, error) {
	tlsConfig := &tls.Config{
		InsecureSkipVerify: cfg.InsecureSkipVerify, //nolint:gosec
	}

	// Load CA certificate
	if cfg.CACertPath != "" {
		caCert, err := os.ReadFile(cfg.CACertPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read CA cert: %w", err)
		}
		caCertPool := x509.NewCertPool()
		if !caCertPool.AppendCertsFromPEM(caCert) {
			return nil, fmt.Errorf("failed to parse CA cert")
		}
		tlsConfig.RootCAs = caCertPool
	}

	// Load client certificate
	if cfg.ClientCertPath != "" && cfg.ClientKeyPath != "" {
		cert, err := tls.LoadX509KeyPair(cfg.ClientCertPath, cfg.ClientKeyPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load client cert: %w", err)
		}
		tlsConfig.Certificates = []tls.Certificate{cert}
	}

	return tlsConfig, nil
}

// createSASLMechanism creates a SASL mechanism from the provided config
func createSASLMechanism(cfg SASLConfig) (sasl.Mechanism, error) {
	switch cfg.Mechanism {
	case "PLAIN":
		return plain.Mechanism{
			Username: cfg.Username,
			Password: cfg.Password,
		}, nil
	case "SCRAM-SHA-256":
		return scram.Mechanism(scram.SHA256, cfg.Username, cfg.Password)
	case "SCRAM-SHA-512":
		return scram.Mechanism(scram.SHA512, cfg.Username, cfg.Password)
	default:
		return nil, fmt.Errorf("unsupported SASL mechanism: %s", cfg.Mechanism)
	}
}

// logInfo logs an informational message using the configured logger if available.
func (c *Consumer) logInfo(ctx context.Context, msg string, fields map[string]interface{}) {
	if c.logger != nil {
		c.logger.InfoWithContext(ctx, msg, nil, fields)
	}
	// Silently skip if no logger configured
}

// logWarn logs a warning message using the configured logger if available.
func (c *Consumer) logWarn(ctx context.Context, msg string, fields map[string]interface{}) {
	if c.logger != nil {
		c.logger.WarnWithContext(ctx, msg, nil, fields)
	}
	// Silently skip if no logger configured
}

// logError logs an error message using the configured logger if available.
// This is only used for errors in the subscription loop that can't be
// returned to the caller.
func (c *Consumer) logError(ctx context.Context, msg string, err error, fields map[string]interface{}) {
	if c.logger != nil {
		c.logger.ErrorWithContext(ctx, msg, err, fields)
	}
	// Silently skip if no logger configured
}
