/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package crash

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/avijitroydgp7/HMI-2.00/internal/domain"
	"github.com/avijitroydgp7/HMI-2.00/internal/storage"
)

// A panic during an editing session must leave two artifacts under the
// project's backups folder: a crash report naming the panic, and an autosave
// JSON dump so the unsaved project state survives the exit.
func TestRecoverWritesReportAndAutosave(t *testing.T) {
	silenceStderr(t)

	exitCode := -1
	oldExit := exitFn
	exitFn = func(code int) { exitCode = code }
	defer func() { exitFn = oldExit }()

	root := t.TempDir()
	ph, err := storage.InitProject(root, domain.Project{
		Name: "Pump Station",
		Screens: []domain.Screen{
			{ID: "scr-main", Type: domain.ScreenTypeBase, Number: 1, Title: "Main", Width: 800, Height: 600},
		},
	})
	if err != nil {
		t.Fatalf("init project: %v", err)
	}

	func() {
		defer Recover(ph)
		panic("screen editor crashed")
	}()

	if exitCode != 2 {
		t.Fatalf("exit code = %d, want 2", exitCode)
	}

	bdir := filepath.Join(root, storage.BackupsDirName)
	report := findOne(t, bdir, "crash-", ".log")
	b, err := os.ReadFile(report)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	s := string(b)
	if !strings.HasPrefix(s, "HMI Designer Crash Report") {
		t.Fatalf("report does not start with header: %q", s[:40])
	}
	if !strings.Contains(s, "Panic: screen editor crashed") {
		t.Fatalf("report missing panic value:\n%s", s)
	}
	if !strings.Contains(s, "ProjectRoot: "+root) {
		t.Fatalf("report missing project root:\n%s", s)
	}

	autosave := findOne(t, bdir, "autosave-crash-", ".json")
	ab, err := os.ReadFile(autosave)
	if err != nil {
		t.Fatalf("read autosave: %v", err)
	}
	var saved domain.Project
	if err := json.Unmarshal(ab, &saved); err != nil {
		t.Fatalf("autosave is not valid project JSON: %v", err)
	}
	if saved.Name != "Pump Station" || len(saved.Screens) != 1 || saved.Screens[0].ID != "scr-main" {
		t.Fatalf("autosave lost project state: %+v", saved)
	}
}

// Recover is a no-op when there is no panic in flight.
func TestRecoverWithoutPanicDoesNothing(t *testing.T) {
	called := false
	oldExit := exitFn
	exitFn = func(int) { called = true }
	defer func() { exitFn = oldExit }()

	func() {
		defer Recover(nil)
	}()

	if called {
		t.Fatal("exitFn called without a panic")
	}
}

// silenceStderr keeps the recovered panic banner out of the test log.
func silenceStderr(t *testing.T) {
	t.Helper()
	old := os.Stderr
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("pipe: %v", err)
	}
	os.Stderr = w
	t.Cleanup(func() {
		_ = w.Close()
		os.Stderr = old
		_, _ = io.Copy(io.Discard, r)
	})
}

// findOne returns the single file in dir matching prefix and suffix.
func findOne(t *testing.T, dir, prefix, suffix string) string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read %s: %v", dir, err)
	}
	var match string
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), prefix) && strings.HasSuffix(e.Name(), suffix) {
			if match != "" {
				t.Fatalf("multiple %s*%s files in %s", prefix, suffix, dir)
			}
			match = filepath.Join(dir, e.Name())
		}
	}
	if match == "" {
		t.Fatalf("no %s*%s file in %s", prefix, suffix, dir)
	}
	return match
}
