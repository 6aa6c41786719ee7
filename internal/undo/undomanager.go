/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package undo

import (
	"sync"
	"time"
)

// Snapshot is a reversible state blob for one screen. Blob content is opaque
// to the manager (the editor stores the serialized screen); size is estimated
// as len(Blob). TS is when the snapshot was captured.
type Snapshot struct {
	ScreenID string
	Blob     []byte
	TS       time.Time
}

// Config controls memory and depth caps and coalescing behavior.
type Config struct {
	// MaxBytes is a soft cap; older entries are pruned when exceeded.
	MaxBytes int
	// MaxPerScreen limits snapshots kept per screen (0 means unlimited).
	MaxPerScreen int
	// MinInterval coalesces snapshots captured within the interval for the
	// same screen, replacing the previous one instead of pushing a new entry.
	// Dragging emits edits far faster than a user can mean them as separate
	// undo steps.
	MinInterval time.Duration
}

// Manager provides an in-memory undo/redo stack per screen with performance
// safeguards. It is safe for concurrent use.
type Manager struct {
	cfg Config
	mu  sync.Mutex
	// per-screen stacks
	undo map[string][]Snapshot
	redo map[string][]Snapshot
	// accounting
	totalBytes int
}

func NewManager(cfg Config) *Manager {
	if cfg.MaxBytes <= 0 {
		cfg.MaxBytes = 16 * 1024 * 1024 // 16 MiB
	}
	if cfg.MinInterval <= 0 {
		cfg.MinInterval = 250 * time.Millisecond
	}
	return &Manager{cfg: cfg, undo: make(map[string][]Snapshot), redo: make(map[string][]Snapshot)}
}

// PushSnapshot records a snapshot for a screen. If within MinInterval from
// the last snapshot on the same screen, it replaces the last one. Any new
// change clears the redo stack for that screen.
func (m *Manager) PushSnapshot(s Snapshot) {
	m.mu.Lock()
	defer m.mu.Unlock()
	stack := m.undo[s.ScreenID]
	if n := len(stack); n > 0 {
		last := stack[n-1]
		if s.TS.Sub(last.TS) < m.cfg.MinInterval {
			m.totalBytes += len(s.Blob) - len(last.Blob)
			stack[n-1] = s
			m.undo[s.ScreenID] = stack
			m.redo[s.ScreenID] = nil
			m.enforceCapsLocked(s.ScreenID)
			return
		}
	}
	m.undo[s.ScreenID] = append(stack, s)
	m.totalBytes += len(s.Blob)
	m.redo[s.ScreenID] = nil
	m.enforceCapsLocked(s.ScreenID)
}

// Undo pops from the screen's undo stack onto its redo stack and returns the
// snapshot.
func (m *Manager) Undo(screenID string) (Snapshot, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	stack := m.undo[screenID]
	if len(stack) == 0 {
		return Snapshot{}, false
	}
	s := stack[len(stack)-1]
	m.undo[screenID] = stack[:len(stack)-1]
	m.totalBytes -= len(s.Blob)
	m.redo[screenID] = append(m.redo[screenID], s)
	return s, true
}

// Redo pops from redo and pushes back to undo.
func (m *Manager) Redo(screenID string) (Snapshot, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r := m.redo[screenID]
	if len(r) == 0 {
		return Snapshot{}, false
	}
	s := r[len(r)-1]
	m.redo[screenID] = r[:len(r)-1]
	m.undo[screenID] = append(m.undo[screenID], s)
	m.totalBytes += len(s.Blob)
	m.enforceCapsLocked(screenID)
	return s, true
}

// ClearScreen clears undo/redo stacks for a screen to free memory.
func (m *Manager) ClearScreen(screenID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.undo[screenID] {
		m.totalBytes -= len(s.Blob)
	}
	delete(m.undo, screenID)
	delete(m.redo, screenID)
	if m.totalBytes < 0 {
		m.totalBytes = 0
	}
}

// Stats returns current sizes for diagnostics.
func (m *Manager) Stats() (totalBytes int, screens int, totalSnapshots int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	screens = len(m.undo)
	for _, v := range m.undo {
		totalSnapshots += len(v)
	}
	return m.totalBytes, screens, totalSnapshots
}

func (m *Manager) enforceCapsLocked(screenID string) {
	if m.cfg.MaxPerScreen > 0 {
		stack := m.undo[screenID]
		if len(stack) > m.cfg.MaxPerScreen {
			toDrop := len(stack) - m.cfg.MaxPerScreen
			for i := 0; i < toDrop; i++ {
				m.totalBytes -= len(stack[i].Blob)
			}
			m.undo[screenID] = append([]Snapshot{}, stack[toDrop:]...)
		}
	}
	// Global memory cap: prune oldest across all screens.
	for m.cfg.MaxBytes > 0 && m.totalBytes > m.cfg.MaxBytes {
		oldestScreen := ""
		oldestIdx := -1
		var oldestTS time.Time
		for id, stack := range m.undo {
			if len(stack) == 0 {
				continue
			}
			if oldestIdx == -1 || stack[0].TS.Before(oldestTS) {
				oldestScreen = id
				oldestIdx = 0
				oldestTS = stack[0].TS
			}
		}
		if oldestIdx == -1 {
			break
		}
		stack := m.undo[oldestScreen]
		m.totalBytes -= len(stack[0].Blob)
		m.undo[oldestScreen] = stack[1:]
		if len(m.undo[oldestScreen]) == 0 {
			delete(m.undo, oldestScreen)
		}
	}
}
