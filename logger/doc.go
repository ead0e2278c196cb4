// Package logger provides structured logging functionality for Go services.
//
// The logger package offers a standardized logging approach with log levels,
// contextual logging, distributed tracing integration and an optional remote
// log-shipping sink, built on top of Uber's Zap.
//
// # Architecture
//
// This package follows the "accept interfaces, return structs" design pattern:
//   - Logger interface: Defines the contract for logging operations
//   - LoggerClient struct: Concrete implementation of the Logger interface
//   - NewLoggerClient constructor: Returns *LoggerClient (concrete type)
//   - FXModule: Provides both *LoggerClient and Logger interface for dependency injection
//
// Core Features:
//   - Structured JSON logging with key-value pairs
//   - Log levels (Debug, Info, Warning, Error, Fatal)
//   - Default service, environment and pid fields on every entry
//   - Optional Loki-style remote shipping with app/environment labels,
//     degrading to console-only output when the sink cannot be built
//   - Context-aware methods that attach OpenTelemetry trace/span IDs
//
// # Basic Usage
//
//	log, err := logger.NewLoggerClient(logger.Config{
//		ServiceName: "billing-service",
//		Level:       logger.Info,
//		Environment: "production",
//	})
//	if err != nil {
//		panic(err)
//	}
//	defer log.Close()
//
//	log.Info("Service started", nil, map[string]interface{}{"port": 8080})
package logger
