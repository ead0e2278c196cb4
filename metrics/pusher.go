package metrics

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/prometheus/common/expfmt"
)

// Pusher periodically harvests the Metrics registry and forwards it to a
// remote time-series collector.
//
// The pusher is a two-state machine: idle and running. Start moves it to
// running (performing one immediate push, then one per interval) and Stop
// moves it back to idle. Both transitions are idempotent.
//
// Push failures are logged and never returned - the scheduled loop self-heals
// on the next tick. There is no backoff or retry: silent sample loss on a
// transient outage is the accepted tradeoff for simplicity.
type Pusher struct {
	metrics *Metrics
	cfg     Config
	logger  Logger
	client  *http.Client

	mu      sync.Mutex
	cancel  context.CancelFunc
	running bool
}

// pushPayload is the JSON body POSTed to the remote collector: a batch of
// (name, value) samples plus two batch-level labels. Per-sample labels are
// not part of the remote protocol.
type pushPayload struct {
	Service     string             `json:"service"`
	Environment string             `json:"environment"`
	Samples     map[string]float64 `json:"samples"`
}

// NewPusher creates a Pusher harvesting the given Metrics instance, using the
// instance's Config for the remote URL, interval, and batch labels.
//
// Example:
//
//	m, err := metrics.NewMetrics(cfg)
//	if err != nil {
//	    return err
//	}
//	pusher := metrics.NewPusher(m)
//	pusher.Start(ctx)
//	defer pusher.Stop()
func NewPusher(m *Metrics) *Pusher {
	return &Pusher{
		metrics: m,
		cfg:     m.cfg,
		logger:  m.logger,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

// WithLogger attaches a logger to the pusher for internal logging.
// This method uses the builder pattern and returns the pusher for method chaining.
func (p *Pusher) WithLogger(logger Logger) *Pusher {
	p.logger = logger
	return p
}

// Start transitions the pusher from idle to running: one immediate push, then
// a push every configured interval. It is a no-op if the pusher is already
// running, and a no-op with a warning if no remote endpoint is configured.
func (p *Pusher) Start(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.running {
		return
	}
	if p.cfg.RemoteURL == "" {
		p.logWarn(ctx, "Metrics pusher not started: no remote endpoint configured", map[string]interface{}{
			"service": p.cfg.ServiceName,
		})
		return
	}

	loopCtx, cancel := context.WithCancel(context.Background())
	p.cancel = cancel
	p.running = true

	go p.run(loopCtx)

	p.logInfo(ctx, "Metrics pusher started", map[string]interface{}{
		"remote_url": p.cfg.RemoteURL,
		"interval":   p.cfg.PushInterval.String(),
	})
}

// Stop transitions the pusher back to idle, cancelling future ticks. An
// in-flight push is not interrupted. Stop is idempotent.
func (p *Pusher) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.running {
		return
	}
	p.cancel()
	p.cancel = nil
	p.running = false
}

// IsRunning reports whether the pusher is currently in the running state.
func (p *Pusher) IsRunning() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.running
}

// run is the push loop: one immediate push, then one per tick until cancelled.
// Pushes run on a background context so that Stop suppresses future ticks
// without interrupting an in-flight push; the HTTP client timeout bounds each
// push on its own.
func (p *Pusher) run(ctx context.Context) {
	p.pushOnce(context.Background())

	ticker := time.NewTicker(p.cfg.PushInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.pushOnce(context.Background())
		}
	}
}

// pushOnce performs a single harvest-and-forward cycle. Every failure mode is
// logged and swallowed; this method never reports an error to its caller.
func (p *Pusher) pushOnce(ctx context.Context) {
	exposition, err := p.gatherExposition()
	if err != nil {
		p.logError(ctx, "Failed to gather metrics for push", err, nil)
		return
	}

	samples := parseSamples(exposition)
	if len(samples) == 0 {
		p.logWarn(ctx, "Metrics push skipped: no samples to forward", map[string]interface{}{
			"service": p.cfg.ServiceName,
		})
		return
	}

	if err := p.forward(ctx, samples); err != nil {
		p.logError(ctx, "Failed to push metrics to remote collector", err, map[string]interface{}{
			"remote_url": p.cfg.RemoteURL,
			"samples":    len(samples),
		})
	}
}

// gatherExposition renders the registry's full state as exposition-format text.
func (p *Pusher) gatherExposition() (string, error) {
	families, err := p.metrics.registry.Gather()
	if err != nil {
		return "", fmt.Errorf("failed to gather registry: %w", err)
	}

	var buf bytes.Buffer
	encoder := expfmt.NewEncoder(&buf, expfmt.NewFormat(expfmt.TypeTextPlain))
	for _, family := range families {
		if err := encoder.Encode(family); err != nil {
			return "", fmt.Errorf("failed to encode metric family: %w", err)
		}
	}
	return buf.String(), nil
}

// parseSamples extracts (name, value) pairs from exposition-format text.
//
// For each non-comment, non-blank line the metric name is the token preceding
// any label block or whitespace, and the value is the first trailing token
// that parses as a number. Lines without a parsable value are skipped.
//
// Per-sample labels are discarded: the remote protocol attaches only two
// fixed batch-level dimensions (service, environment). Samples of the same
// name that differ only in labels therefore collapse, last write winning.
func parseSamples(exposition string) map[string]float64 {
	samples := make(map[string]float64)

	scanner := bufio.NewScanner(strings.NewReader(exposition))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}

		name := fields[0]
		if idx := strings.Index(name, "{"); idx >= 0 {
			name = name[:idx]
		}
		if name == "" {
			continue
		}

		// A label block containing spaces splits across fields; the value is
		// the first trailing field that parses as a number.
		var value float64
		found := false
		for _, field := range fields[1:] {
			if v, err := strconv.ParseFloat(field, 64); err == nil {
				value = v
				found = true
				break
			}
		}
		if !found {
			continue
		}

		samples[name] = value
	}

	return samples
}

// forward POSTs the sample batch to the remote collector as JSON.
func (p *Pusher) forward(ctx context.Context, samples map[string]float64) error {
	payload := pushPayload{
		Service:     p.cfg.ServiceName,
		Environment: p.cfg.Environment,
		Samples:     samples,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode push payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.cfg.RemoteURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build push request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to push samples: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("remote collector returned status %d", resp.StatusCode)
	}
	return nil
}

// logInfo logs an informational message using the configured logger if available.
func (p *Pusher) logInfo(ctx context.Context, msg string, fields map[string]interface{}) {
	if p.logger != nil {
		p.logger.InfoWithContext(ctx, msg, nil, fields)
	}
	// Silently skip if no logger configured
}

// logWarn logs a warning message using the configured logger if available.
func (p *Pusher) logWarn(ctx context.Context, msg string, fields map[string]interface{}) {
	if p.logger != nil {
		p.logger.WarnWithContext(ctx, msg, nil, fields)
	}
	// Silently skip if no logger configured
}

// logError logs an error message using the configured logger if available.
func (p *Pusher) logError(ctx context.Context, msg string, err error, fields map[string]interface{}) {
	if p.logger != nil {
		p.logger.ErrorWithContext(ctx, msg, err, fields)
	}
	// Silently skip if no logger configured
}
