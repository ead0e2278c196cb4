package kafka

import (
	"context"
	"time"
)

// Handler processes one consumed message. A non-nil error is caught by the
// subscription loop, logged, counted, and never halts consumption
// (continue-on-error semantics, not retry).
type Handler func(ctx context.Context, msg Message) error

// Client provides a high-level interface for consuming from Apache Kafka.
// It abstracts the session lifecycle and the sequential message loop.
//
// This interface is implemented by the concrete *Consumer type.
type Client interface {
	// Lifecycle

	// Connect establishes a session to the broker cluster, verifying
	// reachability and credentials. Connection errors are propagated.
	Connect(ctx context.Context) error

	// Subscribe registers a topic and starts an indefinite message loop
	// invoking handler per message, strictly one message in flight.
	Subscribe(ctx context.Context, topic string, handler Handler, opts ...SubscribeOption) error

	// Disconnect stops the message loop and closes the session.
	// Idempotent; a no-op if never subscribed.
	Disconnect() error

	// Statistics

	// Stats returns a snapshot of the consumption counters.
	Stats() Stats

	// Error handling

	// TranslateError translates Kafka errors to standardized error types.
	TranslateError(err error) error

	// IsRetryableError checks if an error can be retried.
	IsRetryableError(err error) bool

	// IsAuthenticationError checks if an error is authentication-related.
	IsAuthenticationError(err error) bool
}

// Message defines the interface for consumed messages.
// It abstracts the underlying Kafka message structure.
type Message interface {
	// Topic returns the topic this message came from.
	Topic() string

	// Key returns the message key as a string.
	Key() string

	// Body returns the message payload as a byte slice.
	Body() []byte

	// BodyAs deserializes the JSON message body into the target structure.
	BodyAs(target interface{}) error

	// Header returns the headers associated with the message.
	Header() map[string]interface{}

	// Partition returns the partition this message came from.
	Partition() int

	// Offset returns the offset of this message.
	Offset() int64
}

// Stats is a snapshot of a consumer's monotonically increasing counters.
// Counters reset only on process restart.
type Stats struct {
	// ProcessedCount is the number of messages whose handler completed
	// without error.
	ProcessedCount uint64

	// ErrorCount is the number of messages whose handler returned an error
	// or panicked.
	ErrorCount uint64

	// LastActivity is the time the most recent message finished handling;
	// zero when no message has been handled yet.
	LastActivity time.Time
}

// SubscribeOption customizes a subscription.
type SubscribeOption func(*subscribeOptions)

type subscribeOptions struct {
	fromBeginning bool
}

// FromBeginning makes the subscription start from the earliest available
// offset when the consumer group has no committed offset for a partition.
// The default is to start from the latest offset.
func FromBeginning() SubscribeOption {
	return func(o *subscribeOptions) { o.fromBeginning = true }
}
