/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package snap

import (
	"math"

	"github.com/avijitroydgp7/HMI-2.00/internal/geometry"
)

// Reference returns the straightforward resolver. It is the behavioral
// oracle the fast engine is checked against and is kept deliberately close
// to a direct reading of the algorithm.
func Reference() Resolver { return referenceResolver{} }

type referenceResolver struct{}

func (referenceResolver) Resolve(boxes []geometry.BoundingBox, cursorX, cursorY, threshold float64) Result {
	res := Result{SnapX: cursorX, SnapY: cursorY}

	// The best distance starts at the threshold itself, so a candidate must
	// be strictly closer than the threshold to win; a candidate at exactly
	// threshold distance does not snap. A negative threshold therefore never
	// snaps, without any special casing.
	bestDX := threshold
	bestDY := threshold

	for _, b := range boxes {
		xVals := [3]float64{b.Left, (b.Left + b.Right) / 2, b.Right}
		for _, xv := range xVals {
			if d := math.Abs(cursorX - xv); d < bestDX {
				bestDX = d
				res.SnapX = xv
				res.GuideX = xv
				res.HasX = true
			}
		}
		yVals := [3]float64{b.Top, (b.Top + b.Bottom) / 2, b.Bottom}
		for _, yv := range yVals {
			if d := math.Abs(cursorY - yv); d < bestDY {
				bestDY = d
				res.SnapY = yv
				res.GuideY = yv
				res.HasY = true
			}
		}
	}
	return res
}
