package metrics

import (
	"context"
	"errors"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// ErrServiceNameRequired is returned when a Config has no service name
var ErrServiceNameRequired = errors.New("metrics: service name is required")

// Metrics encapsulates a dedicated Prometheus registry. The registry is
// explicitly constructed and injected - never the process-global default - so
// independently constructed Metrics instances stay isolated from each other
// and from third-party code.
//
// All metrics created via CreateCounter, CreateGauge, CreateHistogram and
// CreateSummary are registered here and automatically wrapped with a constant
// `service` label.
type Metrics struct {
	cfg    Config
	logger Logger

	// registry is the backing Prometheus registry for this instance.
	registry *prometheus.Registry

	// wrappedRegisterer is the service-label-wrapped registerer used internally
	// for registering metrics with the automatic service label.
	wrappedRegisterer prometheus.Registerer
}

// NewMetrics initializes and returns a new Metrics instance with a fresh
// registry. ServiceName is validated before anything else so a misconfigured
// instance fails at construction.
//
// When EnableSystemMetrics is set, the standard Go runtime, process and build
// info collectors are registered alongside application metrics.
//
// Example:
//
//	m, err := metrics.NewMetrics(metrics.Config{
//	    ServiceName: "billing-service",
//	    RemoteURL:   "http://collector:8428/api/v1/import",
//	})
//	if err != nil {
//	    return err
//	}
//	counter := m.CreateCounter("requests_total", "Total requests", []string{"endpoint"})
//	counter.WithLabelValues("/api/invoices").Inc()
func NewMetrics(cfg Config) (*Metrics, error) {
	if cfg.ServiceName == "" {
		return nil, ErrServiceNameRequired
	}
	if cfg.Environment == "" {
		cfg.Environment = DefaultEnvironment
	}
	if cfg.PushInterval == 0 {
		cfg.PushInterval = DefaultPushInterval
	}

	registry := prometheus.NewRegistry()
	wrapped := prometheus.WrapRegistererWith(
		prometheus.Labels{"service": cfg.ServiceName},
		registry,
	)

	if cfg.EnableSystemMetrics {
		wrapped.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
			collectors.NewBuildInfoCollector(),
		)
	}

	return &Metrics{
		cfg:               cfg,
		registry:          registry,
		wrappedRegisterer: wrapped,
	}, nil
}

// WithLogger attaches a logger to the Metrics instance for internal logging.
// This method uses the builder pattern and returns the instance for method chaining.
func (m *Metrics) WithLogger(logger Logger) *Metrics {
	m.logger = logger
	return m
}

// Registry returns the backing Prometheus registry. Use this for operations
// not covered by the wrapper methods, such as registering a custom collector.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler returns an HTTP handler exposing the registry's current state in
// exposition-format text with the library-declared content type. This is the
// pull path for external scrapers.
//
// An internal gather failure yields a 500 response and is logged by the
// handler; it is never surfaced as a panic.
//
// Example:
//
//	mux := http.NewServeMux()
//	mux.Handle("/metrics", m.Handler())
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{
		ErrorHandling: promhttp.HTTPErrorOnError,
		ErrorLog:      promHTTPLogger{logger: m.logger},
	})
}

// promHTTPLogger adapts the package Logger to promhttp's error logger.
type promHTTPLogger struct {
	logger Logger
}

func (l promHTTPLogger) Println(v ...interface{}) {
	if l.logger == nil {
		return
	}
	l.logger.ErrorWithContext(context.Background(), "Metrics handler error", nil, map[string]interface{}{
		"details": v,
	})
}
