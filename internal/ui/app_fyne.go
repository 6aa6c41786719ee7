//go:build fyne && cgo

/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package ui

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/avijitroydgp7/HMI-2.00/internal/config"
	"github.com/avijitroydgp7/HMI-2.00/internal/crash"
	"github.com/avijitroydgp7/HMI-2.00/internal/domain"
	"github.com/avijitroydgp7/HMI-2.00/internal/export"
	"github.com/avijitroydgp7/HMI-2.00/internal/geometry"
	applog "github.com/avijitroydgp7/HMI-2.00/internal/log"
	"github.com/avijitroydgp7/HMI-2.00/internal/storage"
	"github.com/avijitroydgp7/HMI-2.00/internal/telemetry"
	"github.com/avijitroydgp7/HMI-2.00/internal/undo"
	"github.com/avijitroydgp7/HMI-2.00/internal/version"
)

// Run starts the Fyne-based designer shell. Pass an optional project
// directory to open immediately.
func Run(projectDir string) error {
	applog.Init(applog.FromEnv())
	l := applog.WithComponent("ui")
	l.Info("starting UI", slog.String("version", version.String()))

	var ph *storage.ProjectHandle
	defer func() { crash.Recover(ph) }()

	cfg, _, err := config.Load()
	if err != nil {
		l.Warn("config load failed, using defaults", slog.String("error", err.Error()))
		cfg = config.Defaults()
	}

	fyneApp := app.NewWithID("hmidesigner")
	w := fyneApp.NewWindow("HMI Designer")
	prefs := fyneApp.Preferences()
	winW := prefs.IntWithFallback("window.width", 1200)
	winH := prefs.IntWithFallback("window.height", 800)
	if winW < 800 {
		winW = 800
	}
	if winH < 600 {
		winH = 600
	}
	w.Resize(fyne.NewSize(float32(winW), float32(winH)))

	status := widget.NewLabel("Ready")
	canvasWidget := NewScreenCanvas(cfg.Snap)

	currentScreenIdx := -1

	// Undo manager keyed by screen; snapshots capture one whole screen.
	undoMgr := undo.NewManager(undo.Config{
		MaxBytes:     16 * 1024 * 1024,
		MaxPerScreen: 50,
		MinInterval:  300 * time.Millisecond,
	})

	currentScreen := func() *domain.Screen {
		if ph == nil || currentScreenIdx < 0 || currentScreenIdx >= len(ph.Project.Screens) {
			return nil
		}
		return &ph.Project.Screens[currentScreenIdx]
	}

	captureSnapshot := func() {
		sc := currentScreen()
		if sc == nil {
			return
		}
		blob, err := json.Marshal(sc)
		if err != nil {
			l.Warn("snapshot marshal failed", slog.String("error", err.Error()))
			return
		}
		undoMgr.PushSnapshot(undo.Snapshot{ScreenID: sc.ID, Blob: blob, TS: time.Now()})
	}

	applySnapshot := func(blob []byte) {
		sc := currentScreen()
		if sc == nil {
			return
		}
		var restored domain.Screen
		if err := json.Unmarshal(blob, &restored); err != nil {
			l.Warn("snapshot restore failed", slog.String("error", err.Error()))
			return
		}
		*sc = restored
		canvasWidget.SetScreen(sc)
	}

	// Screen navigation (left pane)
	screensDisplay := []string{}
	screensList := widget.NewList(
		func() int { return len(screensDisplay) },
		func() fyne.CanvasObject { return widget.NewLabel("") },
		func(i widget.ListItemID, o fyne.CanvasObject) {
			if i >= 0 && int(i) < len(screensDisplay) {
				o.(*widget.Label).SetText(screensDisplay[i])
			}
		},
	)

	refreshScreensList := func() {
		screensDisplay = screensDisplay[:0]
		if ph != nil {
			for i := range ph.Project.Screens {
				s := &ph.Project.Screens[i]
				screensDisplay = append(screensDisplay, fmt.Sprintf("%s #%d — %s", s.Type, s.Number, s.Title))
			}
		}
		screensList.Refresh()
	}

	// Object inspector (right pane)
	objInfo := widget.NewLabel("No selection")
	tagRefEntry := widget.NewEntry()
	tagRefEntry.SetPlaceHolder("group/tag")
	labelEntry := widget.NewEntry()
	labelEntry.SetPlaceHolder("label")

	refreshInspector := func() {
		ob := canvasWidget.SelectedObject()
		if ob == nil {
			objInfo.SetText("No selection")
			tagRefEntry.SetText("")
			labelEntry.SetText("")
			return
		}
		objInfo.SetText(fmt.Sprintf("%s  (%.0f,%.0f  %.0fx%.0f)", ob.Kind,
			ob.Bounds.Left, ob.Bounds.Top, ob.Bounds.Width(), ob.Bounds.Height()))
		tagRefEntry.SetText(ob.TagRef)
		labelEntry.SetText(ob.Label)
	}

	tagRefEntry.OnSubmitted = func(v string) {
		if ob := canvasWidget.SelectedObject(); ob != nil {
			captureSnapshot()
			ob.TagRef = v
			status.SetText("Tag binding updated")
		}
	}
	labelEntry.OnSubmitted = func(v string) {
		if ob := canvasWidget.SelectedObject(); ob != nil {
			captureSnapshot()
			ob.Label = v
			canvasWidget.Refresh()
		}
	}

	canvasWidget.OnSelect = func(int) { refreshInspector() }
	canvasWidget.OnObjectMoved = func(id string) {
		refreshInspector()
		l.Info("object moved", slog.String("object_id", id))
	}

	// Alignment controls mirror the View settings in the config file.
	saveSnapCfg := func() {
		cfg.Snap = canvasWidget.snapCfg
		if err := config.Save(cfg, ""); err != nil {
			l.Warn("config save failed", slog.String("error", err.Error()))
		}
	}
	snapCheck := widget.NewCheck("Snap to objects", func(v bool) {
		c := canvasWidget.snapCfg
		c.SnapToObjects = v
		canvasWidget.SetSnapConfig(c)
		saveSnapCfg()
	})
	snapCheck.SetChecked(cfg.Snap.SnapToObjects)
	guideCheck := widget.NewCheck("Show guides", func(v bool) {
		c := canvasWidget.snapCfg
		c.ShowGuides = v
		canvasWidget.SetSnapConfig(c)
		saveSnapCfg()
	})
	guideCheck.SetChecked(cfg.Snap.ShowGuides)
	thresholdEntry := widget.NewEntry()
	thresholdEntry.SetText(strconv.FormatFloat(cfg.Snap.Threshold, 'f', -1, 64))
	thresholdEntry.OnSubmitted = func(v string) {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			status.SetText("Invalid snap threshold")
			return
		}
		c := canvasWidget.snapCfg
		c.Threshold = f
		canvasWidget.SetSnapConfig(c)
		saveSnapCfg()
		status.SetText(fmt.Sprintf("Snap threshold set to %g", f))
	}

	right := container.NewVBox(
		widget.NewLabel("Object"), widget.NewSeparator(),
		objInfo,
		widget.NewForm(
			widget.NewFormItem("Tag", tagRefEntry),
			widget.NewFormItem("Label", labelEntry),
		),
		widget.NewSeparator(),
		widget.NewLabel("Alignment"),
		snapCheck, guideCheck,
		widget.NewForm(widget.NewFormItem("Threshold", thresholdEntry)),
	)

	openScreen := func(idx int) {
		currentScreenIdx = idx
		canvasWidget.SetScreen(currentScreen())
		refreshInspector()
		if sc := currentScreen(); sc != nil {
			status.SetText(fmt.Sprintf("Editing %s #%d — %s", sc.Type, sc.Number, sc.Title))
		}
	}
	screensList.OnSelected = func(id widget.ListItemID) { openScreen(int(id)) }

	openProject := func(dir string) {
		h, err := storage.Open(dir)
		if err != nil {
			dialog.ShowError(fmt.Errorf("open project: %w", err), w)
			return
		}
		ph = h
		currentScreenIdx = -1
		refreshScreensList()
		if len(ph.Project.Screens) > 0 {
			screensList.Select(0)
		} else {
			canvasWidget.SetScreen(nil)
		}
		w.SetTitle("HMI Designer — " + ph.Project.Name)
		status.SetText("Opened " + ph.Root)
		l.Info("project opened", slog.String("root", ph.Root))
		telemetry.ProjectOpened(len(ph.Project.Screens), len(ph.Project.TagGroups))

		go func() {
			if _, err := storage.DetectAndRebuildIndex(context.Background(), h.Root, h.Project); err != nil {
				l.Warn("index check failed", slog.String("error", err.Error()))
			}
		}()
	}

	saveProject := func() {
		if ph == nil {
			status.SetText("No project open")
			return
		}
		if err := storage.Save(ph); err != nil {
			dialog.ShowError(fmt.Errorf("save project: %w", err), w)
			return
		}
		go func() {
			if err := storage.UpdateIndex(context.Background(), ph.Root, ph.Project); err != nil {
				l.Warn("index update failed", slog.String("error", err.Error()))
			}
		}()
		telemetry.ProjectSaved(len(ph.Project.Screens))
		status.SetText("Saved")
	}

	nextScreenNumber := func(screenType string) int {
		n := 1
		for ph != nil && !ph.Project.IsScreenNumberUnique(screenType, n, "") {
			n++
		}
		return n
	}

	addScreen := func(screenType string) {
		if ph == nil {
			status.SetText("No project open")
			return
		}
		num := nextScreenNumber(screenType)
		s := domain.Screen{
			Type:   screenType,
			Number: num,
			Title:  fmt.Sprintf("Screen %d", num),
			Width:  800, Height: 600,
		}
		if screenType == domain.ScreenTypeWindow {
			s.Width, s.Height = 400, 300
		}
		ph.Project.AddScreen(s)
		refreshScreensList()
		screensList.Select(widget.ListItemID(len(ph.Project.Screens) - 1))
	}

	addObject := func(kind string) {
		sc := currentScreen()
		if sc == nil {
			status.SetText("No screen selected")
			return
		}
		captureSnapshot()
		b := geometry.FromSize(sc.Width/2-50, sc.Height/2-25, 100, 50)
		if kind == domain.ObjectKindLamp {
			b = geometry.FromSize(sc.Width/2-25, sc.Height/2-25, 50, 50)
		}
		z := 0
		for i := range sc.Objects {
			if sc.Objects[i].Z >= z {
				z = sc.Objects[i].Z + 1
			}
		}
		sc.AddObject(domain.Object{Kind: kind, Bounds: b, Z: z})
		canvasWidget.Refresh()
		status.SetText("Added " + kind)
	}

	deleteSelected := func() {
		sc := currentScreen()
		ob := canvasWidget.SelectedObject()
		if sc == nil || ob == nil {
			return
		}
		captureSnapshot()
		sc.RemoveObject(ob.ID)
		canvasWidget.SetScreen(sc)
		refreshInspector()
	}

	doUndo := func() {
		sc := currentScreen()
		if sc == nil {
			return
		}
		if snap, ok := undoMgr.Undo(sc.ID); ok {
			applySnapshot(snap.Blob)
			status.SetText("Undone")
		}
	}
	doRedo := func() {
		sc := currentScreen()
		if sc == nil {
			return
		}
		if snap, ok := undoMgr.Redo(sc.ID); ok {
			applySnapshot(snap.Blob)
			status.SetText("Redone")
		}
	}

	exportPDF := func() {
		if ph == nil {
			status.SetText("No project open")
			return
		}
		if err := export.ExportProjectPDF(ph, "screens.pdf", export.PDFOptions{IncludeTagTable: true}); err != nil {
			dialog.ShowError(err, w)
			return
		}
		status.SetText("Exported exports/screens.pdf")
	}
	exportPNG := func() {
		if ph == nil {
			status.SetText("No project open")
			return
		}
		if err := export.ExportScreenPNGs(ph, "png", export.PNGOptions{Scale: 1}); err != nil {
			dialog.ShowError(err, w)
			return
		}
		status.SetText("Exported exports/png/")
	}

	pickFolder := func(cb func(dir string)) {
		dialog.ShowFolderOpen(func(u fyne.ListableURI, err error) {
			if err != nil || u == nil {
				return
			}
			cb(u.Path())
		}, w)
	}

	newProject := func() {
		pickFolder(func(dir string) {
			h, err := storage.InitProject(dir, domain.Project{Name: "New Project"})
			if err != nil {
				dialog.ShowError(fmt.Errorf("init project: %w", err), w)
				return
			}
			ph = h
			currentScreenIdx = -1
			refreshScreensList()
			canvasWidget.SetScreen(nil)
			w.SetTitle("HMI Designer — " + ph.Project.Name)
			status.SetText("Created " + ph.Root)
		})
	}

	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem("New Project…", newProject),
		fyne.NewMenuItem("Open Project…", func() { pickFolder(openProject) }),
		fyne.NewMenuItem("Save", saveProject),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Export PDF", exportPDF),
		fyne.NewMenuItem("Export PNGs", exportPNG),
	)
	editMenu := fyne.NewMenu("Edit",
		fyne.NewMenuItem("Undo", doUndo),
		fyne.NewMenuItem("Redo", doRedo),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Delete Object", deleteSelected),
	)
	screenMenu := fyne.NewMenu("Screen",
		fyne.NewMenuItem("Add Base Screen", func() { addScreen(domain.ScreenTypeBase) }),
		fyne.NewMenuItem("Add Window Screen", func() { addScreen(domain.ScreenTypeWindow) }),
	)
	objectMenu := fyne.NewMenu("Object",
		fyne.NewMenuItem("Add Button", func() { addObject(domain.ObjectKindButton) }),
		fyne.NewMenuItem("Add Lamp", func() { addObject(domain.ObjectKindLamp) }),
		fyne.NewMenuItem("Add Text", func() { addObject(domain.ObjectKindText) }),
	)
	w.SetMainMenu(fyne.NewMainMenu(fileMenu, editMenu, screenMenu, objectMenu))

	left := container.NewBorder(
		container.NewVBox(widget.NewLabel("Screens"), widget.NewSeparator()), nil, nil, nil,
		screensList,
	)
	split := container.NewHSplit(left, container.NewHSplit(canvasWidget, right))
	split.SetOffset(0.18)
	content := container.NewBorder(nil, status, nil, nil, split)
	w.SetContent(content)

	w.SetOnClosed(func() {
		sz := w.Canvas().Size()
		prefs.SetInt("window.width", int(sz.Width))
		prefs.SetInt("window.height", int(sz.Height))
		l.Info("UI closed")
	})

	if projectDir != "" {
		openProject(projectDir)
	}

	w.ShowAndRun()
	return nil
}
