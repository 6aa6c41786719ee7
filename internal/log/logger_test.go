/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package log

import (
	"bufio"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// Verifies that Init with a file handler writes JSON logs and that static and
// contextual attributes are present.
func TestInitAndStructuredLoggingToFile(t *testing.T) {
	// File in the system temp dir to avoid Windows deleting a still-open handle.
	fpath := filepath.Join(os.TempDir(), fmt.Sprintf("hmi_log_%d.json", time.Now().UnixNano()))

	Init(Options{Level: "debug", Format: "json", File: fpath})

	l := WithComponent("testcomp")
	l = WithOperation(l, "op1")
	l.Info("hello world", slog.String("k", "v"))

	time.Sleep(50 * time.Millisecond)

	b, err := os.ReadFile(fpath)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if len(b) == 0 {
		t.Fatalf("log file is empty")
	}

	// Parse the last non-empty line as JSON and assert fields.
	scanner := bufio.NewScanner(strings.NewReader(string(b)))
	var last string
	for scanner.Scan() {
		if s := strings.TrimSpace(scanner.Text()); s != "" {
			last = s
		}
	}
	if last == "" {
		t.Fatalf("no log lines found")
	}
	var m map[string]any
	if err := json.Unmarshal([]byte(last), &m); err != nil {
		t.Fatalf("unmarshal json log: %v", err)
	}
	for k, want := range map[string]string{
		"app":       "hmidesigner",
		"component": "testcomp",
		"op":        "op1",
		"k":         "v",
		"msg":       "hello world",
	} {
		if got, _ := m[k].(string); got != want {
			t.Fatalf("field %q = %q, want %q", k, got, want)
		}
	}
	if _, ok := m["ver"].(string); !ok {
		t.Fatalf("missing ver attr")
	}
}

func TestConsoleHandlerLine(t *testing.T) {
	var sb strings.Builder
	h := &consoleHandler{opts: consoleOpts{Level: slog.LevelInfo}, w: &sb}
	l := slog.New(h).With(slog.String("component", "canvas"))
	l.Info("snap", slog.Float64("x", 12.5), slog.Bool("guide", true))

	line := sb.String()
	for _, want := range []string{" INF ", "snap", "component=canvas", "x=12.5", "guide=true"} {
		if !strings.Contains(line, want) {
			t.Fatalf("console line %q missing %q", line, want)
		}
	}
}

func TestLevelFiltering(t *testing.T) {
	var sb strings.Builder
	h := &consoleHandler{opts: consoleOpts{Level: slog.LevelWarn}, w: &sb}
	l := slog.New(h)
	l.Info("dropped")
	l.Warn("kept")
	if strings.Contains(sb.String(), "dropped") {
		t.Fatalf("info record not filtered: %q", sb.String())
	}
	if !strings.Contains(sb.String(), "kept") {
		t.Fatalf("warn record missing: %q", sb.String())
	}
}

func TestFromEnvDefaults(t *testing.T) {
	t.Setenv("HMI_LOG_LEVEL", "")
	t.Setenv("HMI_LOG_FORMAT", "")
	opts := FromEnv()
	if opts.Level != "info" || opts.Format != "console" || opts.AddSource {
		t.Fatalf("unexpected defaults: %+v", opts)
	}
}
