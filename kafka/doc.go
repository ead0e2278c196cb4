// Package kafka provides a consumer client for Apache Kafka.
//
// The package wraps github.com/segmentio/kafka-go with a simplified
// subscribe-with-handler interface, SASL (PLAIN, SCRAM-SHA-256,
// SCRAM-SHA-512) and TLS support, and processed/error counters.
//
// # Architecture
//
// The package follows the "accept interfaces, return structs" Go idiom:
//   - Client interface: Defines the contract for consumer operations
//   - Consumer struct: Concrete implementation of the Client interface
//   - Message interface: Defines the contract for consumed messages
//   - FX module provides both *Consumer and the Client interface
//
// # Message loop semantics
//
// Subscribe runs one sequential loop per consumer: message N+1 is not
// fetched until the handler for message N has returned, giving a total
// order per consumer instance. A handler error (or panic) is caught, logged
// with topic/partition/offset, counted, and the loop continues with the
// next message - there is no retry and no redelivery.
//
// # Basic Usage
//
//	consumer, err := kafka.NewConsumer(kafka.Config{
//		ServiceName: "billing-service",
//		Brokers:     []string{"localhost:9092"},
//		SASL: kafka.SASLConfig{
//			Enabled:   true,
//			Mechanism: "SCRAM-SHA-512",
//			Username:  "svc",
//			Password:  "secret",
//		},
//	})
//	if err != nil {
//		return err
//	}
//	if err := consumer.Connect(ctx); err != nil {
//		return err
//	}
//	defer consumer.Disconnect()
//
//	err = consumer.Subscribe(ctx, "invoice-events", func(ctx context.Context, msg kafka.Message) error {
//		var event InvoiceEvent
//		if err := msg.BodyAs(&event); err != nil {
//			return err
//		}
//		return process(ctx, event)
//	})
package kafka
