// Package metrics provides a Prometheus-backed metrics registry wrapper and a
// remote push loop for services that cannot be scraped directly.
//
// # Design
//
// Every Metrics instance owns a dedicated, explicitly constructed
// prometheus.Registry - never the process-global default registry. The
// registry is injected wherever it is needed, so independently constructed
// instances stay isolated from each other and from third-party code that
// registers against the global default.
//
// All metrics created through the instance carry an automatic constant
// `service` label taken from the configuration.
//
// # Creating metrics
//
//	m, err := metrics.NewMetrics(metrics.Config{
//	    ServiceName: "billing-service",
//	})
//	if err != nil {
//	    return err
//	}
//
//	requests := m.CreateCounter("http_requests_total", "Total HTTP requests", []string{"method", "status"})
//	requests.WithLabelValues("GET", "200").Inc()
//
//	latency := m.CreateHistogram("request_duration_seconds", "Request duration",
//	    []string{"endpoint"}, []float64{.01, .05, .1, .5, 1, 5})
//	latency.WithLabelValues("/api/invoices").Observe(0.25)
//
// # Pull path
//
// Handler returns an HTTP handler serving the registry's current state in
// exposition-format text with the library-declared content type:
//
//	mux := http.NewServeMux()
//	mux.Handle("/metrics", m.Handler())
//
// A gather failure inside the handler produces a 500 response and a log line;
// it never panics.
//
// # Push path
//
// Pusher periodically harvests the registry and POSTs a JSON batch of
// (name, value) samples to a remote collector:
//
//	{"service": "billing-service", "environment": "production", "samples": {"http_requests_total": 42}}
//
// The push protocol carries exactly two batch-level labels (service and
// environment); per-sample labels are discarded during harvesting, so series
// that differ only in labels collapse into a single sample, last write
// winning. Pushes are scheduled every PushInterval (default 15s) after one
// immediate push on Start. Push failures are logged and swallowed - the loop
// self-heals on the next tick, with no backoff or retry.
//
//	pusher := metrics.NewPusher(m)
//	pusher.Start(ctx)
//	defer pusher.Stop()
//
// Start is a no-op when already running and warns (without starting) when no
// remote endpoint is configured. Stop cancels future ticks without
// interrupting an in-flight push and is idempotent.
//
// # Fx integration
//
// The package provides `FXModule` which constructs `*Metrics`, exposes it as
// the `MetricsCollector` interface, and manages the pusher lifecycle:
//
//	app := fx.New(
//	    metrics.FXModule,
//	    fx.Provide(loadMetricsConfig),
//	)
package metrics
