/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package snap resolves cursor positions against object bounding boxes for
// edge/center alignment on the design canvas. The resolvers are UI-agnostic,
// stateless and deterministic so they can run on every pointer-move event and
// be swapped without observable behavior changes.
package snap

import (
	"fmt"
	"os"
	"strings"

	"github.com/avijitroydgp7/HMI-2.00/internal/geometry"
)

// Result is the outcome of one snap query. SnapX/SnapY are the cursor
// position after snapping each axis independently. GuideX/GuideY are the
// coordinates to render guide lines at; they are only meaningful when the
// matching HasX/HasY flag is set.
type Result struct {
	SnapX  float64
	SnapY  float64
	GuideX float64
	GuideY float64
	HasX   bool
	HasY   bool
}

// Resolver computes the best snap along each axis for a cursor position
// against candidate boxes. threshold is the maximum distance, exclusive, at
// which a candidate may win; boxes are scanned in input order and the first
// candidate at the minimum distance is kept, so callers that care about
// tie-break stability must keep box ordering stable across calls.
//
// Implementations never mutate boxes, hold no state between calls and are
// safe for concurrent use.
type Resolver interface {
	Resolve(boxes []geometry.BoundingBox, cursorX, cursorY, threshold float64) Result
}

// Engine names accepted by Select.
const (
	EngineFast      = "fast"
	EngineReference = "reference"
)

// EnvEngine overrides the engine choice at runtime (fast|reference).
const EnvEngine = "HMI_SNAP_ENGINE"

// Select returns the resolver for the given engine name. An empty name picks
// the fast engine.
func Select(name string) (Resolver, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", EngineFast:
		return Fast(), nil
	case EngineReference:
		return Reference(), nil
	default:
		return nil, fmt.Errorf("unknown snap engine %q", name)
	}
}

// Default returns the resolver the host should use: the fast engine unless
// HMI_SNAP_ENGINE selects the reference one. Unknown values fall back to the
// fast engine rather than failing, since both are always available here.
func Default() Resolver {
	if r, err := Select(os.Getenv(EnvEngine)); err == nil {
		return r
	}
	return Fast()
}
