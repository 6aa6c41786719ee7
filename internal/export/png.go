/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package export

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"math"
	"os"
	"path/filepath"

	xdraw "golang.org/x/image/draw"

	"github.com/avijitroydgp7/HMI-2.00/internal/domain"
	"github.com/avijitroydgp7/HMI-2.00/internal/storage"
)

// PNGOptions controls PNG export behavior.
// - Scale: output pixels per screen unit; values <= 0 mean 1:1
// - ScreenIDs: if empty, export all screens
//
//nolint:revive // clarity is preferred
type PNGOptions struct {
	Scale     float64
	ScreenIDs []string
}

// ExportScreenPNGs renders each selected screen to its own PNG file.
// Output files are named screen-<type>-<number>.png under the project's
// exports folder unless outDir is absolute.
func ExportScreenPNGs(ph *storage.ProjectHandle, outDir string, opt PNGOptions) error {
	if ph == nil {
		return fmt.Errorf("project handle is nil")
	}
	screens := selectScreens(&ph.Project, opt.ScreenIDs)
	if len(screens) == 0 {
		return fmt.Errorf("no screens to export")
	}
	scale := opt.Scale
	if scale <= 0 {
		scale = 1
	}

	if !filepath.IsAbs(outDir) {
		outDir = filepath.Join(ph.Root, "exports", outDir)
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("ensure out dir: %w", err)
	}

	for _, sc := range screens {
		img := renderScreen(sc, scale)
		name := filepath.Join(outDir, fmt.Sprintf("screen-%s-%d.png", sc.Type, sc.Number))
		if err := writePNG(name, img); err != nil {
			return err
		}
	}
	return nil
}

// ExportScreenThumbnail renders one screen scaled down to fit maxW x maxH
// pixels, preserving aspect ratio, and writes it to outPath.
func ExportScreenThumbnail(ph *storage.ProjectHandle, screenID, outPath string, maxW, maxH int) error {
	if ph == nil {
		return fmt.Errorf("project handle is nil")
	}
	sc, ok := ph.Project.Screen(screenID)
	if !ok {
		return fmt.Errorf("unknown screen %q", screenID)
	}
	if maxW <= 0 || maxH <= 0 {
		return fmt.Errorf("thumbnail size must be positive")
	}

	full := renderScreen(sc, 1)
	ratio := math.Min(float64(maxW)/sc.Width, float64(maxH)/sc.Height)
	if ratio > 1 {
		ratio = 1
	}
	tw := int(math.Max(1, math.Round(sc.Width*ratio)))
	th := int(math.Max(1, math.Round(sc.Height*ratio)))
	thumb := image.NewRGBA(image.Rect(0, 0, tw, th))
	xdraw.CatmullRom.Scale(thumb, thumb.Bounds(), full, full.Bounds(), xdraw.Over, nil)

	if !filepath.IsAbs(outPath) {
		outPath = filepath.Join(ph.Root, "exports", outPath)
	}
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("ensure out dir: %w", err)
	}
	return writePNG(outPath, thumb)
}

// renderScreen rasterizes one screen at the given scale.
func renderScreen(sc *domain.Screen, scale float64) *image.RGBA {
	pixW := int(math.Round(sc.Width * scale))
	pixH := int(math.Round(sc.Height * scale))
	img := image.NewRGBA(image.Rect(0, 0, pixW, pixH))

	bg := parseHexColor(sc.Style.Fill, 255, 255, 255)
	draw.Draw(img, img.Bounds(), &image.Uniform{C: bg}, image.Point{}, draw.Src)
	border := parseHexColor(sc.Style.BorderColor, 0, 0, 0)
	strokeRect(img, 0, 0, pixW-1, pixH-1, border)

	for _, ob := range sc.ObjectsByZ() {
		b := ob.Bounds
		x0 := int(math.Round(b.Left * scale))
		y0 := int(math.Round(b.Top * scale))
		x1 := int(math.Round(b.Right*scale)) - 1
		y1 := int(math.Round(b.Bottom*scale)) - 1
		fc := parseHexColor(ob.Style.Fill, 230, 230, 230)
		bc := parseHexColor(ob.Style.BorderColor, 0, 0, 0)
		switch ob.Kind {
		case domain.ObjectKindLine:
			drawLine(img, x0, y0, x1, y1, bc)
		case domain.ObjectKindLamp:
			fillEllipse(img, x0, y0, x1, y1, fc)
		default:
			fillRect(img, x0, y0, x1, y1, fc)
			strokeRect(img, x0, y0, x1, y1, bc)
		}
	}
	return img
}

func writePNG(name string, img image.Image) error {
	f, err := os.Create(name)
	if err != nil {
		return fmt.Errorf("create png: %w", err)
	}
	if err := png.Encode(f, img); err != nil {
		_ = f.Close()
		return fmt.Errorf("encode png: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close png: %w", err)
	}
	return nil
}

// strokeRect draws a 1px axis-aligned rectangle border inclusive of endpoints.
func strokeRect(img *image.RGBA, x0, y0, x1, y1 int, col color.RGBA) {
	// top and bottom
	for x := x0; x <= x1; x++ {
		img.SetRGBA(x, y0, col)
		img.SetRGBA(x, y1, col)
	}
	// left and right
	for y := y0; y <= y1; y++ {
		img.SetRGBA(x0, y, col)
		img.SetRGBA(x1, y, col)
	}
}

func fillRect(img *image.RGBA, x0, y0, x1, y1 int, col color.RGBA) {
	if x1 < x0 {
		x0, x1 = x1, x0
	}
	if y1 < y0 {
		y0, y1 = y1, y0
	}
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			img.SetRGBA(x, y, col)
		}
	}
}

// fillEllipse fills the axis-aligned ellipse inscribed in the given rect.
func fillEllipse(img *image.RGBA, x0, y0, x1, y1 int, col color.RGBA) {
	if x1 < x0 {
		x0, x1 = x1, x0
	}
	if y1 < y0 {
		y0, y1 = y1, y0
	}
	cx := float64(x0+x1) / 2
	cy := float64(y0+y1) / 2
	rx := float64(x1-x0) / 2
	ry := float64(y1-y0) / 2
	if rx <= 0 || ry <= 0 {
		return
	}
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			dx := (float64(x) - cx) / rx
			dy := (float64(y) - cy) / ry
			if dx*dx+dy*dy <= 1 {
				img.SetRGBA(x, y, col)
			}
		}
	}
}

// drawLine draws a 1px line using Bresenham's algorithm.
func drawLine(img *image.RGBA, x0, y0, x1, y1 int, col color.RGBA) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx := 1
	if x0 > x1 {
		sx = -1
	}
	sy := 1
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy
	for {
		img.SetRGBA(x0, y0, col)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
