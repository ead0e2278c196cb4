package logger

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap/zapcore"
)

// Remote shipping defaults. Entries are batched in memory and flushed either
// when the batch fills up or when the flush interval elapses, whichever
// comes first.
const (
	defaultRemoteBatchSize     = 100
	defaultRemoteFlushInterval = 5 * time.Second
	defaultRemoteTimeout       = 10 * time.Second
	remoteQueueCapacity        = 1024
)

// remoteCore is a zapcore.Core that ships encoded log entries to a Loki-style
// HTTP push endpoint. Every push carries two stream labels: "app" (the
// service name) and "environment".
//
// Shipping is strictly fail-soft: a failed push drops the batch. The console
// core remains the source of truth for log delivery.
type remoteCore struct {
	zapcore.LevelEnabler

	enc    zapcore.Encoder
	url    string
	labels map[string]string
	client *http.Client

	entries  chan remoteEntry
	stopOnce sync.Once
	stopped  chan struct{}
	done     chan struct{}
}

// remoteEntry is one encoded log line with its timestamp, matching the
// value layout of the push payload.
type remoteEntry struct {
	ts   time.Time
	line string
}

// pushPayload mirrors the Loki push API: a single stream with fixed labels
// and a list of [timestamp, line] values.
type pushPayload struct {
	Streams []pushStream `json:"streams"`
}

type pushStream struct {
	Stream map[string]string `json:"stream"`
	Values [][2]string       `json:"values"`
}

// newRemoteCore validates the endpoint and starts the background shipping
// worker. The returned core is handed to zapcore.NewTee next to the console
// core.
func newRemoteCore(cfg Config, encoderCfg zapcore.EncoderConfig, level zapcore.LevelEnabler) (*remoteCore, error) {
	u, err := url.Parse(cfg.RemoteURL)
	if err != nil {
		return nil, fmt.Errorf("invalid remote log URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("unsupported remote log URL scheme: %q", u.Scheme)
	}

	c := &remoteCore{
		LevelEnabler: level,
		enc:          zapcore.NewJSONEncoder(encoderCfg),
		url:          cfg.RemoteURL,
		labels: map[string]string{
			"app":         cfg.ServiceName,
			"environment": cfg.Environment,
		},
		client:  &http.Client{Timeout: defaultRemoteTimeout},
		entries: make(chan remoteEntry, remoteQueueCapacity),
		stopped: make(chan struct{}),
		done:    make(chan struct{}),
	}

	go c.run()
	return c, nil
}

func (c *remoteCore) With(fields []zapcore.Field) zapcore.Core {
	clone := *c
	clone.enc = c.enc.Clone()
	for i := range fields {
		fields[i].AddTo(clone.enc)
	}
	return &clone
}

func (c *remoteCore) Check(ent zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if c.Enabled(ent.Level) {
		return ce.AddCore(ent, c)
	}
	return ce
}

// Write encodes the entry and enqueues it for shipping. A full queue drops
// the entry rather than blocking the caller.
func (c *remoteCore) Write(ent zapcore.Entry, fields []zapcore.Field) error {
	buf, err := c.enc.EncodeEntry(ent, fields)
	if err != nil {
		return err
	}
	line := buf.String()
	buf.Free()

	select {
	case c.entries <- remoteEntry{ts: ent.Time, line: line}:
	case <-c.stopped:
	default:
		// Queue full; shipping is best-effort.
	}
	return nil
}

func (c *remoteCore) Sync() error { return nil }

// run batches queued entries and pushes them until stop is called.
func (c *remoteCore) run() {
	defer close(c.done)

	ticker := time.NewTicker(defaultRemoteFlushInterval)
	defer ticker.Stop()

	batch := make([]remoteEntry, 0, defaultRemoteBatchSize)
	flush := func() {
		if len(batch) > 0 {
			c.push(batch)
			batch = batch[:0]
		}
	}

	for {
		select {
		case e := <-c.entries:
			batch = append(batch, e)
			if len(batch) >= defaultRemoteBatchSize {
				flush()
			}
		case <-ticker.C:
			flush()
		case <-c.stopped:
			// Drain whatever is already queued, then do a final flush.
			for {
				select {
				case e := <-c.entries:
					batch = append(batch, e)
				default:
					flush()
					return
				}
			}
		}
	}
}

// push POSTs one batch to the remote endpoint. Failures drop the batch.
func (c *remoteCore) push(batch []remoteEntry) {
	values := make([][2]string, 0, len(batch))
	for _, e := range batch {
		values = append(values, [2]string{strconv.FormatInt(e.ts.UnixNano(), 10), e.line})
	}

	body, err := encodePayload(pushPayload{
		Streams: []pushStream{{Stream: c.labels, Values: values}},
	})
	if err != nil {
		return
	}

	resp, err := c.client.Post(c.url, "application/json", bytes.NewReader(body))
	if err != nil {
		return
	}
	_ = resp.Body.Close()
}

func encodePayload(p pushPayload) ([]byte, error) {
	return json.Marshal(p)
}

// stop terminates the shipping worker after a final flush.
func (c *remoteCore) stop() {
	c.stopOnce.Do(func() {
		close(c.stopped)
		<-c.done
	})
}
