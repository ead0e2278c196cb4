package logger

import (
	"errors"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ErrServiceNameRequired is returned when Config.ServiceName is empty.
// The check happens synchronously at construction, before any I/O.
var ErrServiceNameRequired = errors.New("logger: service name is required")

// LoggerClient is a wrapper around Uber's Zap logger.
// It provides a simplified interface to the underlying Zap logger with
// console output on stderr and an optional remote log-shipping sink.
//
// LoggerClient implements the Logger interface.
type LoggerClient struct {
	// Zap is the underlying zap.Logger instance.
	// This is exposed to allow direct access to Zap-specific functionality
	// when needed, but most logging should go through the wrapper methods.
	Zap *zap.Logger

	// remote is the remote shipping core, nil when shipping is disabled or
	// the sink could not be constructed.
	remote *remoteCore

	// tracingEnabled indicates whether the WithContext method variants
	// extract trace/span IDs from context.
	tracingEnabled bool
}

// NewLoggerClient initializes and returns a new logger based on configuration.
//
// The logger is configured with:
//   - JSON encoding for structured logging
//   - ISO8601 timestamp format
//   - Capital letter level encoding ("INFO", "ERROR") without color codes
//   - Process ID, service name and environment as default fields
//   - Caller information with configurable skip depth
//   - Console output on stderr, always
//
// A remote sink is added only when cfg.EnableRemote is set, cfg.RemoteURL is
// non-empty and cfg.Environment is not "test". Failure to construct the
// remote sink logs a warning and degrades to console-only output; it never
// prevents logger creation.
//
// Returns ErrServiceNameRequired when cfg.ServiceName is empty.
//
// Example:
//
//	log, err := logger.NewLoggerClient(logger.Config{
//	    ServiceName: "billing-service",
//	    Level:       logger.Info,
//	    Environment: "production",
//	})
//	if err != nil {
//	    return err
//	}
//	defer log.Zap.Sync()
//	log.Info("Application started", nil, nil)
func NewLoggerClient(cfg Config) (*LoggerClient, error) {
	if cfg.ServiceName == "" {
		return nil, ErrServiceNameRequired
	}
	if cfg.Environment == "" {
		cfg.Environment = "development"
	}

	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = "timestamp"
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderCfg.EncodeLevel = zapcore.CapitalLevelEncoder
	encoderCfg.EncodeCaller = zapcore.FullCallerEncoder
	encoderCfg.EncodeDuration = zapcore.MillisDurationEncoder

	logLevel := zap.InfoLevel
	switch cfg.Level {
	case Debug:
		logLevel = zap.DebugLevel
	case Info:
		logLevel = zap.InfoLevel
	case Warning:
		logLevel = zap.WarnLevel
	case Error:
		logLevel = zap.ErrorLevel
	}

	encoder := zapcore.NewJSONEncoder(encoderCfg)
	consoleCore := zapcore.NewCore(encoder, zapcore.Lock(os.Stderr), zap.NewAtomicLevelAt(logLevel))

	core := zapcore.Core(consoleCore)
	client := &LoggerClient{tracingEnabled: cfg.EnableTracing}

	if shouldShipRemote(cfg) {
		remote, err := newRemoteCore(cfg, encoderCfg, logLevel)
		if err == nil {
			client.remote = remote
			core = zapcore.NewTee(consoleCore, remote)
		}
		// Construction failure falls through to console-only; the warning is
		// emitted after the logger exists so it reaches the console sink.
		if err != nil {
			defer func() {
				client.Warn("Remote log sink disabled, falling back to console only", err, map[string]interface{}{
					"remote_url": cfg.RemoteURL,
				})
			}()
		}
	}

	// Default to 1 if not set, which works for direct usage of this package.
	callerSkip := cfg.CallerSkip
	if callerSkip <= 0 {
		callerSkip = 1
	}

	client.Zap = zap.New(core,
		zap.AddCaller(),
		zap.AddCallerSkip(callerSkip),
		zap.ErrorOutput(zapcore.Lock(os.Stderr)),
		zap.Fields(
			zap.Int("pid", os.Getpid()),
			zap.String("service", cfg.ServiceName),
			zap.String("environment", cfg.Environment),
		),
	)

	return client, nil
}

// shouldShipRemote reports whether the remote sink should be constructed.
// Shipping is suppressed entirely in the "test" environment so test runs
// never reach the network.
func shouldShipRemote(cfg Config) bool {
	return cfg.EnableRemote && cfg.RemoteURL != "" && cfg.Environment != "test"
}

// Close flushes the console sink and stops the remote shipping worker,
// flushing any batched entries. Safe to call on a console-only logger.
func (l *LoggerClient) Close() error {
	err := l.Zap.Sync()
	if l.remote != nil {
		l.remote.stop()
	}
	return err
}
