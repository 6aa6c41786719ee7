/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package domain

import (
	"errors"
	"sort"

	"github.com/google/uuid"

	"github.com/avijitroydgp7/HMI-2.00/internal/geometry"
)

// Z-order directions for Reorder.
const (
	ReorderFront    = "front"
	ReorderBack     = "back"
	ReorderForward  = "forward"
	ReorderBackward = "backward"
)

var ErrUnknownDirection = errors.New("unknown reorder direction")

// Screen returns the screen with the given ID.
func (p *Project) Screen(id string) (*Screen, bool) {
	for i := range p.Screens {
		if p.Screens[i].ID == id {
			return &p.Screens[i], true
		}
	}
	return nil, false
}

// IsScreenNumberUnique reports whether no other screen of the same type uses
// number. excludingID may name a screen to ignore (the one being edited).
func (p *Project) IsScreenNumberUnique(screenType string, number int, excludingID string) bool {
	for i := range p.Screens {
		s := &p.Screens[i]
		if s.ID == excludingID {
			continue
		}
		if s.Type == screenType && s.Number == number {
			return false
		}
	}
	return true
}

// AddScreen appends a screen, assigning an ID and default style when absent.
func (p *Project) AddScreen(s Screen) string {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	if s.Style == (ScreenStyle{}) {
		s.Style = DefaultScreenStyle()
	}
	if s.Objects == nil {
		s.Objects = []Object{}
	}
	p.Screens = append(p.Screens, s)
	return s.ID
}

// RemoveScreen deletes a screen and strips references to it from the children
// lists of the remaining screens.
func (p *Project) RemoveScreen(id string) bool {
	idx := -1
	for i := range p.Screens {
		if p.Screens[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return false
	}
	p.Screens = append(p.Screens[:idx], p.Screens[idx+1:]...)
	for i := range p.Screens {
		s := &p.Screens[i]
		kept := s.Children[:0]
		for _, c := range s.Children {
			if c.ScreenID != id {
				kept = append(kept, c)
			}
		}
		s.Children = kept
	}
	return true
}

// ParentScreens returns the IDs of all screens that embed childID.
func (p *Project) ParentScreens(childID string) []string {
	var parents []string
	for i := range p.Screens {
		s := &p.Screens[i]
		if s.ID == childID {
			continue
		}
		for _, c := range s.Children {
			if c.ScreenID == childID {
				parents = append(parents, s.ID)
				break
			}
		}
	}
	return parents
}

// AddObject appends an object to the screen, assigning an ID when absent,
// and returns the ID.
func (s *Screen) AddObject(o Object) string {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	s.Objects = append(s.Objects, o)
	return o.ID
}

// Object returns the object with the given ID.
func (s *Screen) Object(id string) (*Object, bool) {
	for i := range s.Objects {
		if s.Objects[i].ID == id {
			return &s.Objects[i], true
		}
	}
	return nil, false
}

// RemoveObject deletes the object with the given ID.
func (s *Screen) RemoveObject(id string) bool {
	for i := range s.Objects {
		if s.Objects[i].ID == id {
			s.Objects = append(s.Objects[:i], s.Objects[i+1:]...)
			return true
		}
	}
	return false
}

// Reorder moves one object within the draw order. Objects later in the slice
// draw on top.
func (s *Screen) Reorder(objectID, direction string) error {
	idx := -1
	for i := range s.Objects {
		if s.Objects[i].ID == objectID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil
	}
	switch direction {
	case ReorderFront:
		o := s.Objects[idx]
		s.Objects = append(append(s.Objects[:idx:idx], s.Objects[idx+1:]...), o)
	case ReorderBack:
		o := s.Objects[idx]
		s.Objects = append([]Object{o}, append(s.Objects[:idx:idx], s.Objects[idx+1:]...)...)
	case ReorderForward:
		if idx+1 < len(s.Objects) {
			s.Objects[idx], s.Objects[idx+1] = s.Objects[idx+1], s.Objects[idx]
		}
	case ReorderBackward:
		if idx > 0 {
			s.Objects[idx], s.Objects[idx-1] = s.Objects[idx-1], s.Objects[idx]
		}
	default:
		return ErrUnknownDirection
	}
	return nil
}

// ReorderGroup moves a selection to the front or back keeping its internal
// order.
func (s *Screen) ReorderGroup(objectIDs []string, direction string) error {
	if direction != ReorderFront && direction != ReorderBack {
		return ErrUnknownDirection
	}
	selected := make(map[string]bool, len(objectIDs))
	for _, id := range objectIDs {
		selected[id] = true
	}
	var group, rest []Object
	for _, o := range s.Objects {
		if selected[o.ID] {
			group = append(group, o)
		} else {
			rest = append(rest, o)
		}
	}
	if len(group) == 0 {
		return nil
	}
	if direction == ReorderFront {
		s.Objects = append(rest, group...)
	} else {
		s.Objects = append(group, rest...)
	}
	return nil
}

// ObjectsByZ returns the screen's objects sorted by their persisted Z value,
// lowest first. Objects sharing a Z keep their list order.
func (s *Screen) ObjectsByZ() []*Object {
	out := make([]*Object, 0, len(s.Objects))
	for i := range s.Objects {
		out = append(out, &s.Objects[i])
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Z < out[j].Z })
	return out
}

// SnapCandidates gathers the bounding boxes the canvas passes to the snap
// resolver: every object on the screen except the ones being dragged.
// Order follows the object list so tie-breaks stay stable across calls.
func (s *Screen) SnapCandidates(excludeIDs ...string) []geometry.BoundingBox {
	excluded := make(map[string]bool, len(excludeIDs))
	for _, id := range excludeIDs {
		excluded[id] = true
	}
	boxes := make([]geometry.BoundingBox, 0, len(s.Objects))
	for i := range s.Objects {
		if excluded[s.Objects[i].ID] {
			continue
		}
		boxes = append(boxes, s.Objects[i].Bounds)
	}
	return boxes
}

// Bounds returns the screen's own box (origin at 0,0).
func (s *Screen) Bounds() geometry.BoundingBox {
	return geometry.FromSize(0, 0, s.Width, s.Height)
}

// FindTag resolves a TagRef of the form "group/name".
func (p *Project) FindTag(ref string) (*Tag, bool) {
	for gi := range p.TagGroups {
		g := &p.TagGroups[gi]
		for ti := range g.Tags {
			if g.Name+"/"+g.Tags[ti].Name == ref {
				return &g.Tags[ti], true
			}
		}
	}
	return nil, false
}
