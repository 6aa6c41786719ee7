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
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/widget"

	"github.com/avijitroydgp7/HMI-2.00/internal/config"
	"github.com/avijitroydgp7/HMI-2.00/internal/domain"
	"github.com/avijitroydgp7/HMI-2.00/internal/geometry"
	"github.com/avijitroydgp7/HMI-2.00/internal/snap"
	"github.com/avijitroydgp7/HMI-2.00/internal/telemetry"
)

// dragMode represents the current interaction kind.
// dragNone: idle; dragPan: background pan; dragMove: moving the selection.
type dragMode int

const (
	dragNone dragMode = iota
	dragPan
	dragMove
)

// ScreenCanvas renders one screen and lets the user select and drag objects.
// Dragging runs the snap resolver on every pointer move; when a snap wins on
// an axis, the dragged object locks to it and a guide line is shown.
type ScreenCanvas struct {
	widget.BaseWidget
	// Interaction
	zoom    float32
	offsetX float32
	offsetY float32

	screen   *domain.Screen
	selected int // index into screen.Objects, -1 if none

	resolver snap.Resolver
	snapCfg  config.SnapConfig
	guides   []snap.GuideLine

	mode        dragMode
	startCursor geometry.Pt
	startBounds geometry.BoundingBox

	// OnSelect fires after a tap changes the selection (index may be -1).
	OnSelect func(index int)
	// OnObjectMoved fires once per completed drag of an object.
	OnObjectMoved func(objectID string)
}

func NewScreenCanvas(cfg config.SnapConfig) *ScreenCanvas {
	r, err := snap.Select(cfg.Engine)
	if err != nil {
		r = snap.Default()
	}
	telemetry.SnapEngineSelected(cfg.Engine, err != nil)
	sc := &ScreenCanvas{
		zoom:     1,
		selected: -1,
		resolver: r,
		snapCfg:  cfg,
	}
	sc.ExtendBaseWidget(sc)
	return sc
}

// SetScreen switches the canvas to another screen and clears the selection.
func (c *ScreenCanvas) SetScreen(s *domain.Screen) {
	c.screen = s
	c.selected = -1
	c.guides = nil
	c.mode = dragNone
	c.Refresh()
}

// SetSnapConfig applies updated alignment settings without touching the scene.
func (c *ScreenCanvas) SetSnapConfig(cfg config.SnapConfig) {
	c.snapCfg = cfg
	if r, err := snap.Select(cfg.Engine); err == nil {
		c.resolver = r
	}
	c.Refresh()
}

// SelectedObject returns the currently selected object, or nil.
func (c *ScreenCanvas) SelectedObject() *domain.Object {
	if c.screen == nil || c.selected < 0 || c.selected >= len(c.screen.Objects) {
		return nil
	}
	return &c.screen.Objects[c.selected]
}

func (c *ScreenCanvas) PreferredSize() fyne.Size { return fyne.NewSize(800, 600) }

// Coordinate helpers: screen-space <-> widget-space mapping.
func (c *ScreenCanvas) originAndScale() (cx, cy, scale float32) {
	size := c.Size()
	var w, h float32
	if c.screen != nil {
		w = float32(c.screen.Width) * c.zoom
		h = float32(c.screen.Height) * c.zoom
	}
	cx = size.Width/2 - w/2 + c.offsetX
	cy = size.Height/2 - h/2 + c.offsetY
	return cx, cy, c.zoom
}

func (c *ScreenCanvas) toWidget(pt geometry.Pt) fyne.Position {
	cx, cy, s := c.originAndScale()
	return fyne.NewPos(cx+float32(pt.X)*s, cy+float32(pt.Y)*s)
}

func (c *ScreenCanvas) toScene(pos fyne.Position) geometry.Pt {
	cx, cy, s := c.originAndScale()
	return geometry.Pt{X: float64((pos.X - cx) / s), Y: float64((pos.Y - cy) / s)}
}

// hitTest returns the top-most object index under pt, honoring draw order.
func (c *ScreenCanvas) hitTest(pt geometry.Pt) int {
	if c.screen == nil {
		return -1
	}
	byZ := c.screen.ObjectsByZ()
	for i := len(byZ) - 1; i >= 0; i-- {
		if byZ[i].Bounds.Contains(pt) {
			for j := range c.screen.Objects {
				if c.screen.Objects[j].ID == byZ[i].ID {
					return j
				}
			}
		}
	}
	return -1
}

// Tapped selects the object under the cursor.
func (c *ScreenCanvas) Tapped(e *fyne.PointEvent) {
	c.selected = c.hitTest(c.toScene(e.Position))
	c.mode = dragNone
	c.guides = nil
	if c.OnSelect != nil {
		c.OnSelect(c.selected)
	}
	c.Refresh()
}

// Dragged moves the selection or pans the view. Object moves are resolved
// through the snap engine each event; both axes snap independently.
func (c *ScreenCanvas) Dragged(e *fyne.DragEvent) {
	pos := e.Position
	if c.mode == dragNone {
		pt := c.toScene(pos)
		if c.selected >= 0 && c.screen != nil && c.screen.Objects[c.selected].Bounds.Contains(pt) {
			c.mode = dragMove
			c.startCursor = pt
			c.startBounds = c.screen.Objects[c.selected].Bounds
		} else {
			c.mode = dragPan
		}
	}

	switch c.mode {
	case dragPan:
		c.offsetX += e.Dragged.DX
		c.offsetY += e.Dragged.DY
	case dragMove:
		if c.screen == nil || c.selected < 0 {
			break
		}
		cur := c.toScene(pos)
		c.guides = nil
		if c.snapCfg.SnapToObjects {
			ob := &c.screen.Objects[c.selected]
			cands := c.screen.SnapCandidates(ob.ID)
			res := c.resolver.Resolve(cands, cur.X, cur.Y, c.snapCfg.Threshold)
			cur = geometry.Pt{X: res.SnapX, Y: res.SnapY}
			if c.snapCfg.ShowGuides {
				c.guides = snap.Guides(res, c.screen.Bounds())
			}
		}
		dx := cur.X - c.startCursor.X
		dy := cur.Y - c.startCursor.Y
		c.screen.Objects[c.selected].Bounds = c.startBounds.Translated(dx, dy)
	}
	c.Refresh()
}

func (c *ScreenCanvas) DragEnd() {
	moved := c.mode == dragMove
	c.mode = dragNone
	c.guides = nil
	if moved && c.OnObjectMoved != nil {
		if ob := c.SelectedObject(); ob != nil {
			c.OnObjectMoved(ob.ID)
		}
	}
	c.Refresh()
}

func (c *ScreenCanvas) CreateRenderer() fyne.WidgetRenderer {
	bg := canvas.NewRectangle(color.RGBA{R: 30, G: 30, B: 34, A: 255})

	surface := canvas.NewRectangle(color.White)
	surface.StrokeColor = color.RGBA{R: 20, G: 20, B: 20, A: 255}
	surface.StrokeWidth = 2

	bbox := canvas.NewRectangle(color.RGBA{})
	bbox.StrokeColor = color.RGBA{R: 0, G: 170, B: 255, A: 255}
	bbox.StrokeWidth = 1
	bbox.Hide()

	guideV := canvas.NewLine(color.RGBA{R: 255, G: 64, B: 64, A: 220})
	guideV.StrokeWidth = 1
	guideV.Hide()
	guideH := canvas.NewLine(color.RGBA{R: 255, G: 64, B: 64, A: 220})
	guideH.StrokeWidth = 1
	guideH.Hide()

	return &screenCanvasRenderer{
		sc:      c,
		bg:      bg,
		surface: surface,
		bbox:    bbox,
		guideV:  guideV,
		guideH:  guideH,
	}
}

type screenCanvasRenderer struct {
	sc      *ScreenCanvas
	bg      *canvas.Rectangle
	surface *canvas.Rectangle
	shapes  []fyne.CanvasObject // one per object, rebuilt when the scene changes
	bbox    *canvas.Rectangle
	guideV  *canvas.Line
	guideH  *canvas.Line
}

func (r *screenCanvasRenderer) Objects() []fyne.CanvasObject {
	objs := []fyne.CanvasObject{r.bg, r.surface}
	objs = append(objs, r.shapes...)
	objs = append(objs, r.bbox, r.guideV, r.guideH)
	return objs
}

func (r *screenCanvasRenderer) Destroy() {}

func (r *screenCanvasRenderer) MinSize() fyne.Size { return fyne.NewSize(400, 300) }

func (r *screenCanvasRenderer) Refresh() {
	r.rebuildShapes()
	r.Layout(r.sc.Size())
	canvas.Refresh(r.sc)
}

// rebuildShapes recreates the per-object canvas primitives from the scene.
func (r *screenCanvasRenderer) rebuildShapes() {
	r.shapes = r.shapes[:0]
	if r.sc.screen == nil {
		return
	}
	for _, ob := range r.sc.screen.ObjectsByZ() {
		fill := hexToColor(ob.Style.Fill, color.RGBA{R: 230, G: 230, B: 230, A: 255})
		stroke := hexToColor(ob.Style.BorderColor, color.RGBA{R: 30, G: 30, B: 30, A: 255})
		switch ob.Kind {
		case domain.ObjectKindLamp:
			ci := canvas.NewCircle(fill)
			ci.StrokeColor = stroke
			ci.StrokeWidth = float32(ob.Style.BorderWidth)
			r.shapes = append(r.shapes, ci)
		case domain.ObjectKindLine:
			ln := canvas.NewLine(stroke)
			ln.StrokeWidth = float32(ob.Style.BorderWidth)
			if ln.StrokeWidth <= 0 {
				ln.StrokeWidth = 1
			}
			r.shapes = append(r.shapes, ln)
		default:
			rc := canvas.NewRectangle(fill)
			rc.StrokeColor = stroke
			rc.StrokeWidth = float32(ob.Style.BorderWidth)
			if rc.StrokeWidth <= 0 {
				rc.StrokeWidth = 1
			}
			r.shapes = append(r.shapes, rc)
		}
	}
}

func (r *screenCanvasRenderer) Layout(size fyne.Size) {
	r.bg.Move(fyne.NewPos(0, 0))
	r.bg.Resize(size)

	sc := r.sc
	if sc.screen == nil {
		r.surface.Hide()
		r.bbox.Hide()
		r.guideV.Hide()
		r.guideH.Hide()
		return
	}
	r.surface.Show()
	r.surface.FillColor = hexToColor(sc.screen.Style.Fill, color.White)
	origin := sc.toWidget(geometry.Pt{})
	r.surface.Move(origin)
	r.surface.Resize(fyne.NewSize(float32(sc.screen.Width)*sc.zoom, float32(sc.screen.Height)*sc.zoom))

	byZ := sc.screen.ObjectsByZ()
	for i, ob := range byZ {
		if i >= len(r.shapes) {
			break
		}
		p0 := sc.toWidget(geometry.Pt{X: ob.Bounds.Left, Y: ob.Bounds.Top})
		p1 := sc.toWidget(geometry.Pt{X: ob.Bounds.Right, Y: ob.Bounds.Bottom})
		if ln, isLine := r.shapes[i].(*canvas.Line); isLine {
			ln.Position1 = p0
			ln.Position2 = p1
			continue
		}
		r.shapes[i].Move(p0)
		r.shapes[i].Resize(fyne.NewSize(p1.X-p0.X, p1.Y-p0.Y))
	}

	if ob := sc.SelectedObject(); ob != nil {
		p0 := sc.toWidget(geometry.Pt{X: ob.Bounds.Left, Y: ob.Bounds.Top})
		p1 := sc.toWidget(geometry.Pt{X: ob.Bounds.Right, Y: ob.Bounds.Bottom})
		r.bbox.Move(fyne.NewPos(p0.X-2, p0.Y-2))
		r.bbox.Resize(fyne.NewSize(p1.X-p0.X+4, p1.Y-p0.Y+4))
		r.bbox.Show()
	} else {
		r.bbox.Hide()
	}

	r.guideV.Hide()
	r.guideH.Hide()
	for _, g := range sc.guides {
		from := sc.toWidget(g.From)
		to := sc.toWidget(g.To)
		switch g.Orientation {
		case "vertical":
			r.guideV.Position1 = from
			r.guideV.Position2 = to
			r.guideV.Show()
		case "horizontal":
			r.guideH.Position1 = from
			r.guideH.Position2 = to
			r.guideH.Show()
		}
	}
}

// hexToColor parses manifest "#rrggbb" colors, falling back on def.
func hexToColor(s string, def color.RGBA) color.RGBA {
	if len(s) != 7 || s[0] != '#' {
		return def
	}
	var out color.RGBA
	out.A = 255
	for i, dst := range []*uint8{&out.R, &out.G, &out.B} {
		v, ok := hexByte(s[1+i*2], s[2+i*2])
		if !ok {
			return def
		}
		*dst = v
	}
	return out
}

func hexByte(hi, lo byte) (uint8, bool) {
	h, ok1 := hexNibble(hi)
	l, ok2 := hexNibble(lo)
	return h<<4 | l, ok1 && ok2
}

func hexNibble(b byte) (uint8, bool) {
	switch {
	case b >= '0' && b <= '9':
		return b - '0', true
	case b >= 'a' && b <= 'f':
		return b - 'a' + 10, true
	case b >= 'A' && b <= 'F':
		return b - 'A' + 10, true
	}
	return 0, false
}
