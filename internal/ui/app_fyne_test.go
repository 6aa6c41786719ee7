//go:build fyne && cgo

/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// These tests validate the Fyne-based UI components. They are gated behind the
// "fyne" build tag so CI (which is headless) does not need Fyne or a display.
// To run locally:
//
//	go test -tags fyne ./internal/ui
package ui

import (
	"image/color"
	"testing"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/test"

	"github.com/avijitroydgp7/HMI-2.00/internal/config"
	"github.com/avijitroydgp7/HMI-2.00/internal/domain"
	"github.com/avijitroydgp7/HMI-2.00/internal/geometry"
)

func testSnapCfg() config.SnapConfig {
	return config.SnapConfig{SnapToObjects: true, ShowGuides: true, Threshold: 5, Engine: "fast"}
}

func testScreen() *domain.Screen {
	return &domain.Screen{
		ID: "scr-1", Type: domain.ScreenTypeBase, Number: 1, Title: "Overview",
		Width: 800, Height: 600,
		Objects: []domain.Object{
			{ID: "a", Kind: domain.ObjectKindButton, Z: 0, Bounds: geometry.Box(100, 100, 150, 150)},
			{ID: "b", Kind: domain.ObjectKindLamp, Z: 1, Bounds: geometry.Box(200, 300, 260, 360)},
		},
	}
}

func TestScreenCanvas_Defaults(t *testing.T) {
	_ = test.NewApp()
	c := NewScreenCanvas(testSnapCfg())
	if c.zoom != 1 {
		t.Fatalf("expected default zoom 1, got %v", c.zoom)
	}
	if c.selected != -1 {
		t.Fatalf("expected no selection, got %d", c.selected)
	}
	sz := c.PreferredSize()
	if sz.Width != 800 || sz.Height != 600 {
		t.Fatalf("unexpected PreferredSize: %v", sz)
	}
}

func TestScreenCanvas_HitTest(t *testing.T) {
	_ = test.NewApp()
	c := NewScreenCanvas(testSnapCfg())
	c.Resize(fyne.NewSize(800, 600))
	c.SetScreen(testScreen())

	// With the widget and screen both 800x600 at zoom 1 the mapping is 1:1.
	if idx := c.hitTest(geometry.Pt{X: 120, Y: 120}); idx != 0 {
		t.Fatalf("expected hit on object a (index 0), got %d", idx)
	}
	if idx := c.hitTest(geometry.Pt{X: 230, Y: 330}); idx != 1 {
		t.Fatalf("expected hit on object b (index 1), got %d", idx)
	}
	if idx := c.hitTest(geometry.Pt{X: 700, Y: 20}); idx != -1 {
		t.Fatalf("expected miss, got %d", idx)
	}
}

func TestScreenCanvas_DragSnapsToCandidateEdge(t *testing.T) {
	_ = test.NewApp()
	c := NewScreenCanvas(testSnapCfg())
	c.Resize(fyne.NewSize(800, 600))
	sc := testScreen()
	c.SetScreen(sc)
	c.selected = 0

	// Begin dragging inside object a.
	c.Dragged(&fyne.DragEvent{PointEvent: fyne.PointEvent{Position: fyne.NewPos(120, 120)}})
	if c.mode != dragMove {
		t.Fatalf("expected dragMove, got %v", c.mode)
	}
	// Move the cursor to x=202: within threshold 5 of object b's left edge
	// at x=200, so the x axis snaps while y moves freely.
	c.Dragged(&fyne.DragEvent{PointEvent: fyne.PointEvent{Position: fyne.NewPos(202, 121)}})

	got := sc.Objects[0].Bounds
	want := geometry.Box(180, 101, 230, 151)
	if got != want {
		t.Fatalf("dragged bounds = %+v, want %+v", got, want)
	}
	if len(c.guides) != 1 || c.guides[0].Orientation != "vertical" || c.guides[0].Position != 200 {
		t.Fatalf("expected one vertical guide at 200, got %+v", c.guides)
	}

	c.DragEnd()
	if c.mode != dragNone || c.guides != nil {
		t.Fatalf("expected idle state after DragEnd")
	}
}

func TestScreenCanvas_SnapDisabled(t *testing.T) {
	_ = test.NewApp()
	cfg := testSnapCfg()
	cfg.SnapToObjects = false
	c := NewScreenCanvas(cfg)
	c.Resize(fyne.NewSize(800, 600))
	sc := testScreen()
	c.SetScreen(sc)
	c.selected = 0

	c.Dragged(&fyne.DragEvent{PointEvent: fyne.PointEvent{Position: fyne.NewPos(120, 120)}})
	c.Dragged(&fyne.DragEvent{PointEvent: fyne.PointEvent{Position: fyne.NewPos(202, 121)}})

	got := sc.Objects[0].Bounds
	want := geometry.Box(182, 101, 232, 151)
	if got != want {
		t.Fatalf("dragged bounds = %+v, want %+v (no snap)", got, want)
	}
	if len(c.guides) != 0 {
		t.Fatalf("expected no guides, got %+v", c.guides)
	}
}

func TestHexToColor(t *testing.T) {
	def := color.RGBA{R: 1, G: 2, B: 3, A: 255}
	if got := hexToColor("#3a78c2", def); got != (color.RGBA{R: 0x3a, G: 0x78, B: 0xc2, A: 255}) {
		t.Fatalf("hexToColor(#3a78c2) = %v", got)
	}
	if got := hexToColor("", def); got != def {
		t.Fatalf("empty string should fall back, got %v", got)
	}
	if got := hexToColor("#zzzzzz", def); got != def {
		t.Fatalf("invalid digits should fall back, got %v", got)
	}
}
