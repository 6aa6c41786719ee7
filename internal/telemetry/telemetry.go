/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package telemetry reports anonymous, strictly opt‑in usage events from the
// designer (project open/save, snap engine selection, exports) and optional
// crash report uploads. Events carry no project content and no PII.
package telemetry

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"os"
	"runtime"
	"strings"
	"sync"
	"time"

	applog "github.com/avijitroydgp7/HMI-2.00/internal/log"
	"github.com/avijitroydgp7/HMI-2.00/internal/version"
)

// Event names emitted by the designer. Keep these stable; dashboards key on them.
const (
	EvProjectOpen = "project_open"
	EvProjectSave = "project_save"
	EvSnapEngine  = "snap_engine"
	EvExport      = "export"
)

// Config holds runtime configuration for event and crash uploads.
// Everything is disabled unless the user opts in.
//
// Environment variables (read by FromEnv):
// - HMI_TELEMETRY_OPT_IN: "1", "true", "yes", "on" to enable events
// - HMI_TELEMETRY_URL: base URL to POST JSON events to
// - HMI_CRASH_UPLOAD_URL: URL to POST crash reports to
// - HMI_TELEMETRY_TIMEOUT_MS: request timeout, default 1500ms
// - HMI_TELEMETRY_DEBUG: if set, logs send attempts
//
// With opt‑in but no URL configured, events are silently dropped.
type Config struct {
	OptIn        bool
	EventsURL    string
	CrashURL     string
	Timeout      time.Duration
	DebugLogging bool
}

func FromEnv() Config {
	cfg := Config{
		OptIn:        optInValue(os.Getenv("HMI_TELEMETRY_OPT_IN")),
		EventsURL:    strings.TrimSpace(os.Getenv("HMI_TELEMETRY_URL")),
		CrashURL:     strings.TrimSpace(os.Getenv("HMI_CRASH_UPLOAD_URL")),
		Timeout:      1500 * time.Millisecond,
		DebugLogging: os.Getenv("HMI_TELEMETRY_DEBUG") != "",
	}
	if ms := strings.TrimSpace(os.Getenv("HMI_TELEMETRY_TIMEOUT_MS")); ms != "" {
		if v, err := time.ParseDuration(ms + "ms"); err == nil {
			cfg.Timeout = v
		}
	}
	return cfg
}

func optInValue(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}

// Client sends events asynchronously over a bounded queue. A full queue or a
// failed request drops the event; the designer must never block on telemetry.
type Client struct {
	cfg   Config
	log   *slog.Logger
	httpc *http.Client
	queue chan map[string]any
	once  sync.Once
	done  chan struct{}
}

var defaultClient *Client
var defaultOnce sync.Once

// InitDefault initializes the package‑level default client from env when first used.
func InitDefault() {
	defaultOnce.Do(func() {
		NewDefault(FromEnv())
	})
}

// NewDefault creates and installs the default client with cfg.
func NewDefault(cfg Config) {
	defaultClient = New(cfg)
}

// New constructs a client and starts its sender goroutine.
func New(cfg Config) *Client {
	c := &Client{
		cfg:   cfg,
		log:   applog.WithComponent("telemetry"),
		httpc: &http.Client{Timeout: cfg.Timeout},
		queue: make(chan map[string]any, 128),
		done:  make(chan struct{}),
	}
	go c.run()
	return c
}

// Enabled reports whether events are enabled and an endpoint is configured.
func (c *Client) Enabled() bool { return c != nil && c.cfg.OptIn && c.cfg.EventsURL != "" }

// Enabled reports whether events are enabled using the default client.
func Enabled() bool {
	InitDefault()
	return defaultClient.Enabled()
}

// Event queues a small JSON event if enabled. Safe to call from anywhere.
func (c *Client) Event(name string, props map[string]any) {
	if !c.Enabled() || name == "" {
		return
	}
	payload := map[string]any{
		"app":     "hmi-designer",
		"name":    name,
		"ts":      time.Now().UTC().Format(time.RFC3339Nano),
		"version": version.String(),
		"os":      runtime.GOOS,
		"arch":    runtime.GOARCH,
	}
	for k, v := range props {
		// props must be counts or short identifiers, never project content
		payload[k] = v
	}
	select {
	case c.queue <- payload:
	default:
		// queue full, drop
	}
}

// Event using default client.
func Event(name string, props map[string]any) { InitDefault(); defaultClient.Event(name, props) }

// ProjectOpened records that a project was opened, with structure counts only.
func ProjectOpened(screens, tagGroups int) {
	Event(EvProjectOpen, map[string]any{"screens": screens, "tag_groups": tagGroups})
}

// ProjectSaved records a successful save.
func ProjectSaved(screens int) {
	Event(EvProjectSave, map[string]any{"screens": screens})
}

// SnapEngineSelected records which snap resolver the canvas runs with.
// fellBack is true when the configured engine was unknown and the default
// resolver was used instead.
func SnapEngineSelected(engine string, fellBack bool) {
	Event(EvSnapEngine, map[string]any{"engine": engine, "fallback": fellBack})
}

// ExportRun records an export operation by format ("pdf", "png").
func ExportRun(format string, screens int) {
	Event(EvExport, map[string]any{"format": format, "screens": screens})
}

// Flush waits briefly for the queue to drain.
func (c *Client) Flush(ctx context.Context) {
	deadline := time.Now().Add(500 * time.Millisecond)
	for {
		if len(c.queue) == 0 || time.Now().After(deadline) {
			return
		}
		select {
		case <-ctx.Done():
			return
		case <-time.After(25 * time.Millisecond):
		}
	}
}

// Close stops the sender goroutine.
func (c *Client) Close() { c.once.Do(func() { close(c.done) }) }

func (c *Client) run() {
	for {
		select {
		case <-c.done:
			return
		case payload := <-c.queue:
			c.post(payload)
		}
	}
}

func (c *Client) post(payload map[string]any) {
	buf, _ := json.Marshal(payload)
	req, err := http.NewRequest(http.MethodPost, c.cfg.EventsURL, bytes.NewReader(buf))
	if err != nil {
		return
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.httpc.Do(req)
	if err != nil {
		if c.cfg.DebugLogging {
			c.log.Debug("event send failed", slog.Any("err", err))
		}
		return
	}
	_ = resp.Body.Close()
	if c.cfg.DebugLogging {
		c.log.Debug("event sent", slog.String("name", payload["name"].(string)))
	}
}

// UploadCrash posts an already‑serialized crash report to the configured crash URL if opt‑in.
func (c *Client) UploadCrash(report []byte) {
	if c == nil || !c.cfg.OptIn || c.cfg.CrashURL == "" {
		return
	}
	go func(b []byte) {
		req, err := http.NewRequest(http.MethodPost, c.cfg.CrashURL, bytes.NewReader(b))
		if err != nil {
			return
		}
		req.Header.Set("Content-Type", "text/plain; charset=utf-8")
		resp, err := c.httpc.Do(req)
		if err != nil {
			if c.cfg.DebugLogging {
				c.log.Debug("crash upload failed", slog.Any("err", err))
			}
			return
		}
		_ = resp.Body.Close()
		if c.cfg.DebugLogging {
			c.log.Debug("crash report uploaded")
		}
	}(append([]byte(nil), report...))
}

// UploadCrash using default client.
func UploadCrash(report []byte) { InitDefault(); defaultClient.UploadCrash(report) }
