package kafka

import (
	"errors"
	"strings"
)

// Common Kafka error types that can be used by consumers of this package.
// These provide a standardized set of errors that abstract away the
// underlying Kafka-specific error details.
var (
	// ErrServiceNameRequired is returned when Config.ServiceName is empty.
	ErrServiceNameRequired = errors.New("kafka: service name is required")

	// ErrBrokersRequired is returned when Config.Brokers is empty.
	ErrBrokersRequired = errors.New("kafka: at least one broker is required")

	// ErrTopicRequired is returned by Subscribe when the topic is empty.
	ErrTopicRequired = errors.New("kafka: topic is required")

	// ErrHandlerRequired is returned by Subscribe when the handler is nil.
	ErrHandlerRequired = errors.New("kafka: handler is required")

	// ErrNotConnected is returned by Subscribe before Connect has succeeded.
	ErrNotConnected = errors.New("kafka: not connected")

	// ErrAlreadySubscribed is returned by Subscribe when a subscription
	// loop is already running for this consumer.
	ErrAlreadySubscribed = errors.New("kafka: already subscribed")

	// ErrConnectionFailed is returned when connection to Kafka cannot be established
	ErrConnectionFailed = errors.New("connection failed")

	// ErrConnectionLost is returned when connection to Kafka is lost
	ErrConnectionLost = errors.New("connection lost")

	// ErrBrokerNotAvailable is returned when broker is not available
	ErrBrokerNotAvailable = errors.New("broker not available")

	// ErrAuthenticationFailed is returned when authentication fails
	ErrAuthenticationFailed = errors.New("authentication failed")

	// ErrAuthorizationFailed is returned when authorization fails
	ErrAuthorizationFailed = errors.New("authorization failed")

	// ErrInvalidCredentials is returned when credentials are invalid
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrTopicNotFound is returned when topic doesn't exist
	ErrTopicNotFound = errors.New("topic not found")

	// ErrGroupCoordinatorNotAvailable is returned when group coordinator is not available
	ErrGroupCoordinatorNotAvailable = errors.New("group coordinator not available")

	// ErrRebalanceInProgress is returned when rebalance is in progress
	ErrRebalanceInProgress = errors.New("rebalance in progress")

	// ErrOffsetOutOfRange is returned when offset is out of range
	ErrOffsetOutOfRange = errors.New("offset out of range")

	// ErrMessageTooLarge is returned when message exceeds size limits
	ErrMessageTooLarge = errors.New("message too large")

	// ErrLeaderNotAvailable is returned when leader is not available
	ErrLeaderNotAvailable = errors.New("leader not available")

	// ErrRequestTimedOut is returned when request times out
	ErrRequestTimedOut = errors.New("request timed out")

	// ErrNetworkError is returned for network-related errors
	ErrNetworkError = errors.New("network error")

	// ErrContextCanceled is returned when context is canceled
	ErrContextCanceled = errors.New("context canceled")
)

// TranslateError converts Kafka-specific errors into standardized application
// errors, providing abstraction from the underlying client implementation.
// If an error doesn't match any known pattern, it's returned unchanged.
func (c *Consumer) TranslateError(err error) error {
	if err == nil {
		return nil
	}
	return translateByErrorMessage(strings.ToLower(err.Error()), err)
}

// translateByErrorMessage translates errors based on error message patterns
func translateByErrorMessage(errMsg string, originalErr error) error {
	switch {
	// Connection related
	case strings.Contains(errMsg, "connection refused"):
		return ErrConnectionFailed
	case strings.Contains(errMsg, "connection reset"),
		strings.Contains(errMsg, "connection closed"):
		return ErrConnectionLost
	case strings.Contains(errMsg, "broker not available"):
		return ErrBrokerNotAvailable

	// Authentication and authorization
	case strings.Contains(errMsg, "sasl authentication failed"),
		strings.Contains(errMsg, "authentication failed"):
		return ErrAuthenticationFailed
	case strings.Contains(errMsg, "authorization failed"):
		return ErrAuthorizationFailed
	case strings.Contains(errMsg, "invalid credentials"):
		return ErrInvalidCredentials

	// Topic and group errors
	case strings.Contains(errMsg, "unknown topic"),
		strings.Contains(errMsg, "topic not found"):
		return ErrTopicNotFound
	case strings.Contains(errMsg, "group coordinator not available"):
		return ErrGroupCoordinatorNotAvailable
	case strings.Contains(errMsg, "rebalance in progress"):
		return ErrRebalanceInProgress

	// Offset and message errors
	case strings.Contains(errMsg, "offset out of range"):
		return ErrOffsetOutOfRange
	case strings.Contains(errMsg, "message too large"),
		strings.Contains(errMsg, "record too large"):
		return ErrMessageTooLarge
	case strings.Contains(errMsg, "leader not available"):
		return ErrLeaderNotAvailable

	// Timeouts and network
	case strings.Contains(errMsg, "request timed out"),
		strings.Contains(errMsg, "timeout"):
		return ErrRequestTimedOut
	case strings.Contains(errMsg, "network"),
		strings.Contains(errMsg, "dial"),
		strings.Contains(errMsg, "i/o timeout"):
		return ErrNetworkError

	// Context errors
	case strings.Contains(errMsg, "context canceled"),
		strings.Contains(errMsg, "context cancelled"):
		return ErrContextCanceled

	default:
		// Return the original error if no pattern matches
		return originalErr
	}
}

// IsRetryableError returns true if the error is retryable
func (c *Consumer) IsRetryableError(err error) bool {
	switch {
	case errors.Is(err, ErrConnectionFailed),
		errors.Is(err, ErrConnectionLost),
		errors.Is(err, ErrBrokerNotAvailable),
		errors.Is(err, ErrLeaderNotAvailable),
		errors.Is(err, ErrRequestTimedOut),
		errors.Is(err, ErrNetworkError),
		errors.Is(err, ErrGroupCoordinatorNotAvailable),
		errors.Is(err, ErrRebalanceInProgress):
		return true
	default:
		return false
	}
}

// IsAuthenticationError returns true if the error is authentication-related
func (c *Consumer) IsAuthenticationError(err error) bool {
	switch {
	case errors.Is(err, ErrAuthenticationFailed),
		errors.Is(err, ErrAuthorizationFailed),
		errors.Is(err, ErrInvalidCredentials):
		return true
	default:
		return false
	}
}
