/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package geometry

// Basic 2D geometry for the screen designer. Coordinates are float64 in
// canvas units; boxes are stored as their four edges because that is the
// shape the snap engine and the manifest both use.

// Pt is a 2D point in canvas space.
type Pt struct{ X, Y float64 }

// BoundingBox is an axis-aligned rectangle defined by its edges.
// Callers are expected to keep Left <= Right and Top <= Bottom, but nothing
// in this package enforces it; degenerate boxes are computed as given.
type BoundingBox struct {
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Right  float64 `json:"right"`
	Bottom float64 `json:"bottom"`
}

// Box is shorthand for constructing a BoundingBox from edges.
func Box(left, top, right, bottom float64) BoundingBox {
	return BoundingBox{Left: left, Top: top, Right: right, Bottom: bottom}
}

// FromSize builds a box from a min corner and a width/height pair.
func FromSize(x, y, w, h float64) BoundingBox {
	return BoundingBox{Left: x, Top: y, Right: x + w, Bottom: y + h}
}

func (b BoundingBox) Width() float64  { return b.Right - b.Left }
func (b BoundingBox) Height() float64 { return b.Bottom - b.Top }

// Center returns the arithmetic center of the box.
func (b BoundingBox) Center() Pt {
	return Pt{X: (b.Left + b.Right) / 2, Y: (b.Top + b.Bottom) / 2}
}

func (b BoundingBox) Contains(p Pt) bool {
	return p.X >= b.Left && p.X <= b.Right && p.Y >= b.Top && p.Y <= b.Bottom
}

// Translated returns the box shifted by dx,dy.
func (b BoundingBox) Translated(dx, dy float64) BoundingBox {
	return BoundingBox{Left: b.Left + dx, Top: b.Top + dy, Right: b.Right + dx, Bottom: b.Bottom + dy}
}

// Union returns the minimal box containing both.
func (b BoundingBox) Union(o BoundingBox) BoundingBox {
	return BoundingBox{
		Left:   min(b.Left, o.Left),
		Top:    min(b.Top, o.Top),
		Right:  max(b.Right, o.Right),
		Bottom: max(b.Bottom, o.Bottom),
	}
}

// Canon returns the box with edges swapped if inverted.
func (b BoundingBox) Canon() BoundingBox {
	if b.Left > b.Right {
		b.Left, b.Right = b.Right, b.Left
	}
	if b.Top > b.Bottom {
		b.Top, b.Bottom = b.Bottom, b.Top
	}
	return b
}

func min(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func max(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
