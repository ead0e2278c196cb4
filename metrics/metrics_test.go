package metrics

import (
	"io"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"
)

// ==================== Construction ====================

func TestNewMetricsRequiresServiceName(t *testing.T) {
	t.Parallel()

	_, err := NewMetrics(Config{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrServiceNameRequired)
}

func TestNewMetricsAppliesDefaults(t *testing.T) {
	t.Parallel()

	m, err := NewMetrics(Config{ServiceName: "svc"})
	require.NoError(t, err)
	assert.Equal(t, DefaultPushInterval, m.cfg.PushInterval)
	assert.Equal(t, DefaultEnvironment, m.cfg.Environment)
	assert.NotNil(t, m.Registry())
}

func TestNewMetricsIsolatedRegistries(t *testing.T) {
	t.Parallel()

	m1, err := NewMetrics(Config{ServiceName: "svc-a"})
	require.NoError(t, err)
	m2, err := NewMetrics(Config{ServiceName: "svc-b"})
	require.NoError(t, err)

	// Same metric name in both instances must not collide.
	m1.CreateCounter("requests_total", "Total requests", nil)
	assert.NotPanics(t, func() {
		m2.CreateCounter("requests_total", "Total requests", nil)
	})
}

// ==================== Metric creation ====================

func TestCreateCounter(t *testing.T) {
	t.Parallel()

	m, err := NewMetrics(Config{ServiceName: "svc"})
	require.NoError(t, err)

	counter := m.CreateCounter("jobs_done_total", "Completed jobs", []string{"queue"})
	counter.WithLabelValues("default").Inc()
	counter.WithLabelValues("default").Add(2)

	families, err := m.Registry().Gather()
	require.NoError(t, err)
	require.Len(t, families, 1)
	assert.Equal(t, "jobs_done_total", families[0].GetName())
	assert.Equal(t, float64(3), families[0].GetMetric()[0].GetCounter().GetValue())
}

func TestCreateGauge(t *testing.T) {
	t.Parallel()

	m, err := NewMetrics(Config{ServiceName: "svc"})
	require.NoError(t, err)

	gauge := m.CreateGauge("queue_depth", "Items waiting", nil)
	gauge.Set(10)
	gauge.Inc()
	gauge.Dec()
	gauge.Add(5)
	gauge.Sub(3)

	families, err := m.Registry().Gather()
	require.NoError(t, err)
	require.Len(t, families, 1)
	assert.Equal(t, float64(12), families[0].GetMetric()[0].GetGauge().GetValue())
}

func TestCreateHistogram(t *testing.T) {
	t.Parallel()

	m, err := NewMetrics(Config{ServiceName: "svc"})
	require.NoError(t, err)

	hist := m.CreateHistogram("latency_seconds", "Latency", []string{"endpoint"}, []float64{0.1, 1, 10})
	hist.WithLabelValues("/api").Observe(0.5)
	hist.WithLabelValues("/api").Observe(2)

	families, err := m.Registry().Gather()
	require.NoError(t, err)
	require.Len(t, families, 1)
	assert.Equal(t, uint64(2), families[0].GetMetric()[0].GetHistogram().GetSampleCount())
}

func TestCreateSummary(t *testing.T) {
	t.Parallel()

	m, err := NewMetrics(Config{ServiceName: "svc"})
	require.NoError(t, err)

	summary := m.CreateSummary("payload_bytes", "Payload sizes", nil, map[float64]float64{0.5: 0.05})
	summary.Observe(100)
	summary.Observe(300)

	families, err := m.Registry().Gather()
	require.NoError(t, err)
	require.Len(t, families, 1)
	assert.Equal(t, uint64(2), families[0].GetMetric()[0].GetSummary().GetSampleCount())
	assert.Equal(t, float64(400), families[0].GetMetric()[0].GetSummary().GetSampleSum())
}

func TestServiceLabelAttached(t *testing.T) {
	t.Parallel()

	m, err := NewMetrics(Config{ServiceName: "billing-service"})
	require.NoError(t, err)
	m.CreateCounter("requests_total", "Total requests", nil).Inc()

	families, err := m.Registry().Gather()
	require.NoError(t, err)
	require.Len(t, families, 1)

	labels := families[0].GetMetric()[0].GetLabel()
	require.Len(t, labels, 1)
	assert.Equal(t, "service", labels[0].GetName())
	assert.Equal(t, "billing-service", labels[0].GetValue())
}

func TestSystemCollectorsOptIn(t *testing.T) {
	t.Parallel()

	m, err := NewMetrics(Config{ServiceName: "svc", EnableSystemMetrics: true})
	require.NoError(t, err)

	families, err := m.Registry().Gather()
	require.NoError(t, err)

	names := make(map[string]bool, len(families))
	for _, family := range families {
		names[family.GetName()] = true
	}
	assert.True(t, names["go_goroutines"], "expected runtime collectors to be registered")
}

// ==================== Pull path ====================

func TestHandlerServesExposition(t *testing.T) {
	t.Parallel()

	m, err := NewMetrics(Config{ServiceName: "svc"})
	require.NoError(t, err)
	m.CreateCounter("requests_total", "Total requests", nil).Add(42)

	recorder := httptest.NewRecorder()
	m.Handler().ServeHTTP(recorder, httptest.NewRequest("GET", "/metrics", nil))

	resp := recorder.Result()
	defer func() { _ = resp.Body.Close() }()
	require.Equal(t, 200, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/plain")

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "requests_total")
	assert.Contains(t, string(body), "42")
}

// ==================== Fx integration ====================

func TestMetricsFXModule(t *testing.T) {
	t.Parallel()

	var collector MetricsCollector
	var pusher *Pusher

	app := fxtest.New(t,
		FXModule,
		fx.Provide(func() Config {
			// No RemoteURL: the pusher must stay idle with a warning.
			return Config{ServiceName: "svc"}
		}),
		fx.Populate(&collector, &pusher),
	)

	app.RequireStart()
	require.NotNil(t, collector)
	collector.CreateCounter("fx_requests_total", "Total requests", nil).Inc()
	assert.False(t, pusher.IsRunning())
	app.RequireStop()
}
