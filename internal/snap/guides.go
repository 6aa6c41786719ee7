/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package snap

import "github.com/avijitroydgp7/HMI-2.00/internal/geometry"

// GuideLine describes a visual guide produced by a snap result.
// Orientation is "vertical" or "horizontal"; Position is the x (vertical) or
// y (horizontal) coordinate; From and To are the extents to render.
type GuideLine struct {
	Orientation string
	Position    float64
	From        geometry.Pt
	To          geometry.Pt
}

// Guides converts a Result into the guide lines to render, spanning the
// given canvas bounds. At most one vertical and one horizontal line are
// produced; a result with no snap yields none.
func Guides(r Result, canvas geometry.BoundingBox) []GuideLine {
	var out []GuideLine
	if r.HasX {
		out = append(out, GuideLine{
			Orientation: "vertical",
			Position:    r.GuideX,
			From:        geometry.Pt{X: r.GuideX, Y: canvas.Top},
			To:          geometry.Pt{X: r.GuideX, Y: canvas.Bottom},
		})
	}
	if r.HasY {
		out = append(out, GuideLine{
			Orientation: "horizontal",
			Position:    r.GuideY,
			From:        geometry.Pt{X: canvas.Left, Y: r.GuideY},
			To:          geometry.Pt{X: canvas.Right, Y: r.GuideY},
		})
	}
	return out
}
