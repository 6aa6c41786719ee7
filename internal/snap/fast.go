/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package snap

import "github.com/avijitroydgp7/HMI-2.00/internal/geometry"

// Fast returns the default resolver. It runs the same scan as the reference
// engine with the candidate arrays unrolled and the absolute value inlined,
// so it allocates nothing and stays cheap enough for one call per pointer
// move against hundreds of boxes. Results are bit-identical to Reference;
// the parity test enforces that.
func Fast() Resolver { return fastResolver{} }

type fastResolver struct{}

func (fastResolver) Resolve(boxes []geometry.BoundingBox, cursorX, cursorY, threshold float64) Result {
	snapX, snapY := cursorX, cursorY
	bestDX, bestDY := threshold, threshold
	var guideX, guideY float64
	var hasX, hasY bool

	for i := range boxes {
		b := &boxes[i]

		// Candidates per axis in fixed order: near edge, center, far edge.
		// The strict less-than keeps the first candidate at the minimum
		// distance, so the order must not change.
		v := b.Left
		d := cursorX - v
		if d < 0 {
			d = -d
		}
		if d < bestDX {
			bestDX, snapX, guideX, hasX = d, v, v, true
		}
		v = (b.Left + b.Right) / 2
		d = cursorX - v
		if d < 0 {
			d = -d
		}
		if d < bestDX {
			bestDX, snapX, guideX, hasX = d, v, v, true
		}
		v = b.Right
		d = cursorX - v
		if d < 0 {
			d = -d
		}
		if d < bestDX {
			bestDX, snapX, guideX, hasX = d, v, v, true
		}

		v = b.Top
		d = cursorY - v
		if d < 0 {
			d = -d
		}
		if d < bestDY {
			bestDY, snapY, guideY, hasY = d, v, v, true
		}
		v = (b.Top + b.Bottom) / 2
		d = cursorY - v
		if d < 0 {
			d = -d
		}
		if d < bestDY {
			bestDY, snapY, guideY, hasY = d, v, v, true
		}
		v = b.Bottom
		d = cursorY - v
		if d < 0 {
			d = -d
		}
		if d < bestDY {
			bestDY, snapY, guideY, hasY = d, v, v, true
		}
	}

	return Result{SnapX: snapX, SnapY: snapY, GuideX: guideX, GuideY: guideY, HasX: hasX, HasY: hasY}
}
