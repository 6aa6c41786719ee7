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
	"os"
	"path/filepath"

	"github.com/jung-kurt/gofpdf"

	"github.com/avijitroydgp7/HMI-2.00/internal/domain"
	"github.com/avijitroydgp7/HMI-2.00/internal/storage"
)

// PDFOptions controls PDF export behavior.
// Units are points (pt); one screen pixel maps to one point.
// Vector text uses built-in Helvetica for portability.
//
// Coordinates:
// - Page origin is top-left, matching the screen canvas.
// - Object bounds are assumed to be in screen coordinates.
type PDFOptions struct {
	IncludeTagTable bool     // append a tag cross-reference page per screen
	ScreenIDs       []string // if empty, export all screens in manifest order
}

// ExportProjectPDF exports the project's screens to a single multi-page PDF
// placed at outPath. Each screen becomes one page sized to the screen canvas.
func ExportProjectPDF(ph *storage.ProjectHandle, outPath string, opt PDFOptions) error {
	if ph == nil {
		return fmt.Errorf("project handle is nil")
	}
	screens := selectScreens(&ph.Project, opt.ScreenIDs)
	if len(screens) == 0 {
		return fmt.Errorf("no screens to export")
	}

	first := screens[0]
	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		UnitStr:        "pt",
		Size:           gofpdf.SizeType{Wd: first.Width, Ht: first.Height},
		OrientationStr: "P",
	})
	pdf.SetTitle(fmt.Sprintf("%s — Screen Layouts", ph.Project.Name), false)
	pdf.SetAuthor("HMI Designer", false)
	pdf.SetFont("Helvetica", "", 12)

	for _, sc := range screens {
		pdf.AddPageFormat("P", gofpdf.SizeType{Wd: sc.Width, Ht: sc.Height})
		drawScreenPDF(pdf, sc)
		if opt.IncludeTagTable {
			addTagTablePage(pdf, &ph.Project, sc)
		}
	}

	// Ensure output path is under project exports folder if relative
	if !filepath.IsAbs(outPath) {
		outPath = filepath.Join(ph.Root, "exports", outPath)
	}
	dir := filepath.Dir(outPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("ensure out dir: %w", err)
	}
	if err := pdf.OutputFileAndClose(outPath); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

func drawScreenPDF(pdf *gofpdf.Fpdf, sc *domain.Screen) {
	// Background fill and border from screen style
	fill := parseHexColor(sc.Style.Fill, 255, 255, 255)
	border := parseHexColor(sc.Style.BorderColor, 0, 0, 0)
	pdf.SetFillColor(int(fill.R), int(fill.G), int(fill.B))
	pdf.SetDrawColor(int(border.R), int(border.G), int(border.B))
	bw := float64(sc.Style.BorderWidth)
	if bw <= 0 {
		bw = 1
	}
	pdf.SetLineWidth(bw)
	pdf.Rect(0, 0, sc.Width, sc.Height, "FD")

	// Screen header
	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetTextColor(80, 80, 80)
	pdf.Text(6, 12, fmt.Sprintf("%s #%d — %s (%.0fx%.0f)", sc.Type, sc.Number, sc.Title, sc.Width, sc.Height))

	// Objects in z order, back to front
	for _, ob := range sc.ObjectsByZ() {
		b := ob.Bounds
		oc := parseHexColor(ob.Style.BorderColor, 0, 0, 0)
		of := parseHexColor(ob.Style.Fill, 230, 230, 230)
		pdf.SetDrawColor(int(oc.R), int(oc.G), int(oc.B))
		pdf.SetFillColor(int(of.R), int(of.G), int(of.B))
		obw := float64(ob.Style.BorderWidth)
		if obw <= 0 {
			obw = 1
		}
		pdf.SetLineWidth(obw)
		switch ob.Kind {
		case domain.ObjectKindLamp:
			pdf.Ellipse(b.Left+b.Width()/2, b.Top+b.Height()/2, b.Width()/2, b.Height()/2, 0, "FD")
		case domain.ObjectKindLine:
			pdf.Line(b.Left, b.Top, b.Right, b.Bottom)
		default:
			pdf.Rect(b.Left, b.Top, b.Width(), b.Height(), "FD")
		}
		if ob.Label != "" {
			pdf.SetFont("Helvetica", "", 9)
			pdf.SetTextColor(0, 0, 0)
			pdf.Text(b.Left+3, b.Top+b.Height()/2+3, ob.Label)
		}
		if ob.TagRef != "" {
			pdf.SetFont("Helvetica", "I", 7)
			pdf.SetTextColor(120, 120, 120)
			pdf.Text(b.Left+3, b.Bottom-2, ob.TagRef)
		}
	}
}

// addTagTablePage appends an A4 page listing each tag-bound object of the screen.
func addTagTablePage(pdf *gofpdf.Fpdf, proj *domain.Project, sc *domain.Screen) {
	pdf.AddPageFormat("P", gofpdf.SizeType{Wd: 595.28, Ht: 841.89})
	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetTextColor(0, 0, 0)
	pdf.Text(40, 50, fmt.Sprintf("Tag bindings — %s #%d", sc.Type, sc.Number))

	y := 80.0
	pdf.SetFont("Helvetica", "B", 10)
	pdf.Text(40, y, "Object")
	pdf.Text(180, y, "Kind")
	pdf.Text(260, y, "Tag")
	pdf.Text(420, y, "Address")
	y += 16
	pdf.SetFont("Helvetica", "", 10)
	for _, ob := range sc.Objects {
		if ob.TagRef == "" {
			continue
		}
		addr := ""
		if tag, ok := proj.FindTag(ob.TagRef); ok {
			addr = tag.Address
		}
		name := ob.Label
		if name == "" {
			name = ob.ID
		}
		pdf.Text(40, y, name)
		pdf.Text(180, y, ob.Kind)
		pdf.Text(260, y, ob.TagRef)
		pdf.Text(420, y, addr)
		y += 14
		if y > 800 {
			pdf.AddPageFormat("P", gofpdf.SizeType{Wd: 595.28, Ht: 841.89})
			y = 50
		}
	}
}

// selectScreens resolves the export set. Empty ids means every screen.
func selectScreens(proj *domain.Project, ids []string) []*domain.Screen {
	if len(ids) == 0 {
		out := make([]*domain.Screen, 0, len(proj.Screens))
		for i := range proj.Screens {
			out = append(out, &proj.Screens[i])
		}
		return out
	}
	var out []*domain.Screen
	for _, id := range ids {
		if sc, ok := proj.Screen(id); ok {
			out = append(out, sc)
		}
	}
	return out
}
