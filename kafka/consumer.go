package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/segmentio/kafka-go"
)

// consumerMessage implements the Message interface around a kafka-go message.
type consumerMessage struct {
	message kafka.Message
}

func (m *consumerMessage) Topic() string  { return m.message.Topic }
func (m *consumerMessage) Key() string    { return string(m.message.Key) }
func (m *consumerMessage) Body() []byte   { return m.message.Value }
func (m *consumerMessage) Partition() int { return m.message.Partition }
func (m *consumerMessage) Offset() int64  { return m.message.Offset }

// BodyAs deserializes the JSON message body into the target structure.
func (m *consumerMessage) BodyAs(target interface{}) error {
	if err := json.Unmarshal(m.message.Value, target); err != nil {
		return fmt.Errorf("failed to deserialize message body: %w", err)
	}
	return nil
}

// Header returns the headers associated with the message.
func (m *consumerMessage) Header() map[string]interface{} {
	headers := make(map[string]interface{}, len(m.message.Headers))
	for _, h := range m.message.Headers {
		headers[h.Key] = string(h.Value)
	}
	return headers
}

// Subscribe registers topic and begins an indefinite message loop in a
// background goroutine. Each received message invokes handler and is awaited
// before the next message is fetched: strictly in-order, at most one message
// in flight per consumer.
//
// A handler failure (error return or panic) is caught, logged with topic,
// partition and offset, and counted as an error without halting the loop;
// the message is still committed, so there is no redelivery. This is
// continue-on-error semantics, not retry.
//
// Subscribe returns ErrNotConnected before Connect has succeeded and
// ErrAlreadySubscribed on a second call; it does not block on the loop.
//
// Example:
//
//	err := consumer.Subscribe(ctx, "invoice-events", func(ctx context.Context, msg kafka.Message) error {
//	    var event InvoiceEvent
//	    if err := msg.BodyAs(&event); err != nil {
//	        return err
//	    }
//	    return process(ctx, event)
//	}, kafka.FromBeginning())
func (c *Consumer) Subscribe(ctx context.Context, topic string, handler Handler, opts ...SubscribeOption) error {
	if topic == "" {
		return ErrTopicRequired
	}
	if handler == nil {
		return ErrHandlerRequired
	}

	options := subscribeOptions{}
	for _, opt := range opts {
		opt(&options)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.connected {
		return ErrNotConnected
	}
	if c.reader != nil {
		return ErrAlreadySubscribed
	}

	startOffset := int64(kafka.LastOffset)
	if options.fromBeginning {
		startOffset = kafka.FirstOffset
	}

	c.reader = kafka.NewReader(kafka.ReaderConfig{
		Brokers:     c.cfg.Brokers,
		GroupID:     c.cfg.GroupID,
		Topic:       topic,
		MinBytes:    c.cfg.MinBytes,
		MaxBytes:    c.cfg.MaxBytes,
		MaxWait:     c.cfg.MaxWait,
		StartOffset: startOffset,
		Dialer:      c.dialer(),
	})

	loopCtx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	c.done = make(chan struct{})

	c.logInfo(ctx, "Subscribed to topic", map[string]interface{}{
		"topic":          topic,
		"group":          c.cfg.GroupID,
		"from_beginning": options.fromBeginning,
	})

	go c.run(loopCtx, c.reader, topic, handler)
	return nil
}

// run is the sequential subscription loop: fetch, handle, commit, repeat.
// It exits when the context is cancelled or the reader is closed.
func (c *Consumer) run(ctx context.Context, reader *kafka.Reader, topic string, handler Handler) {
	defer close(c.done)

	for {
		start := time.Now()
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, io.EOF) || errors.Is(err, io.ErrClosedPipe) {
				c.logInfo(ctx, "Subscription loop stopped", map[string]interface{}{
					"topic": topic,
				})
				return
			}
			c.logError(ctx, "Failed to fetch message", c.TranslateError(err), map[string]interface{}{
				"topic": topic,
			})
			continue
		}

		handlerErr := c.invokeHandler(ctx, handler, &consumerMessage{message: msg})

		c.observeOperation("consume", topic, fmt.Sprintf("%d", msg.Partition), time.Since(start), handlerErr, int64(len(msg.Value)))
		c.lastActivity.Store(time.Now().UnixNano())

		if handlerErr != nil {
			c.errorCount.Add(1)
			c.logError(ctx, "Message handler failed", handlerErr, map[string]interface{}{
				"topic":     topic,
				"partition": msg.Partition,
				"offset":    msg.Offset,
			})
		} else {
			c.processedCount.Add(1)
		}

		// Commit regardless of handler outcome: the contract is
		// continue-on-error, not redelivery.
		if err := reader.CommitMessages(ctx, msg); err != nil {
			if errors.Is(err, context.Canceled) {
				return
			}
			c.logError(ctx, "Failed to commit message", c.TranslateError(err), map[string]interface{}{
				"topic":     topic,
				"partition": msg.Partition,
				"offset":    msg.Offset,
			})
		}
	}
}

// invokeHandler calls handler, converting a panic into an error so a single
// bad message never kills the subscription loop.
func (c *Consumer) invokeHandler(ctx context.Context, handler Handler, msg Message) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("handler panicked: %v", r)
		}
	}()
	return handler(ctx, msg)
}

// Disconnect stops the subscription loop, waits for the in-flight message to
// finish, and closes the session. It is idempotent and a no-op when the
// consumer never subscribed.
func (c *Consumer) Disconnect() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.connected = false

	if c.reader == nil {
		// Never subscribed, or already disconnected.
		return nil
	}

	c.cancel()
	err := c.reader.Close()
	<-c.done

	c.reader = nil
	c.cancel = nil
	c.done = nil

	c.logInfo(context.Background(), "Disconnected from Kafka", map[string]interface{}{
		"group": c.cfg.GroupID,
	})

	if err != nil {
		return fmt.Errorf("failed to close kafka reader: %w", err)
	}
	return nil
}

// Stats returns a snapshot of the consumption counters. Counters are
// monotonically increasing and reset only by process restart.
func (c *Consumer) Stats() Stats {
	stats := Stats{
		ProcessedCount: c.processedCount.Load(),
		ErrorCount:     c.errorCount.Load(),
	}
	if ns := c.lastActivity.Load(); ns != 0 {
		stats.LastActivity = time.Unix(0, ns)
	}
	return stats
}
