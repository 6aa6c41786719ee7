/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package domain

// Core data model for the HMI screen designer. The structures serialize to a
// human-readable JSON manifest (project.json); behavior lives in screens.go.

import "github.com/avijitroydgp7/HMI-2.00/internal/geometry"

// Project is the root of a designer project.
type Project struct {
	Name      string      `json:"name"`
	Info      ProjectInfo `json:"info,omitempty"`
	Screens   []Screen    `json:"screens"`
	TagGroups []TagGroup  `json:"tagGroups,omitempty"`
}

// ProjectInfo carries descriptive metadata and the save history.
type ProjectInfo struct {
	Author      string   `json:"author,omitempty"`
	Company     string   `json:"company,omitempty"`
	Description string   `json:"description,omitempty"`
	Created     string   `json:"created,omitempty"`
	Modified    string   `json:"modified,omitempty"`
	SaveHistory []string `json:"saveHistory,omitempty"`
}

// Screen types. Base screens are full canvases; window screens are popups
// that can be embedded into base screens.
const (
	ScreenTypeBase   = "base"
	ScreenTypeWindow = "window"
)

// Screen is one designable canvas. Number is unique per screen type.
type Screen struct {
	ID       string      `json:"id"`
	Type     string      `json:"type"`
	Number   int         `json:"number"`
	Title    string      `json:"title"`
	Width    float64     `json:"width"`
	Height   float64     `json:"height"`
	Style    ScreenStyle `json:"style,omitempty"`
	Objects  []Object    `json:"objects"`
	Children []ScreenRef `json:"children,omitempty"`
}

// ScreenRef embeds another screen (by ID) as a child instance.
type ScreenRef struct {
	InstanceID string      `json:"instanceId"`
	ScreenID   string      `json:"screenId"`
	Offset     geometry.Pt `json:"offset"`
}

// ScreenStyle is the background/border styling of a screen.
type ScreenStyle struct {
	Opacity     float64 `json:"opacity,omitempty"`
	BorderStyle string  `json:"borderStyle,omitempty"`
	BorderColor string  `json:"borderColor,omitempty"`
	BorderWidth int     `json:"borderWidth,omitempty"`
	Fill        string  `json:"fill,omitempty"`
}

// DefaultScreenStyle mirrors the style applied to newly created screens.
func DefaultScreenStyle() ScreenStyle {
	return ScreenStyle{Opacity: 1.0, BorderStyle: "None", BorderColor: "#7a828e", BorderWidth: 1, Fill: "#ffffff"}
}

// Object kinds placed on a screen.
const (
	ObjectKindButton  = "button"
	ObjectKindLamp    = "lamp"
	ObjectKindText    = "text"
	ObjectKindLine    = "line"
	ObjectKindPolygon = "polygon"
	ObjectKindImage   = "image"
)

// Object is a graphical element on a screen. Bounds is what the canvas
// feeds to the snap resolver as a candidate box.
type Object struct {
	ID     string               `json:"id"`
	Kind   string               `json:"kind"`
	Bounds geometry.BoundingBox `json:"bounds"`
	Z      int                  `json:"z"`
	Style  ObjectStyle          `json:"style,omitempty"`
	TagRef string               `json:"tagRef,omitempty"`
	Label  string               `json:"label,omitempty"`
}

// ObjectStyle holds visual attributes of an object.
type ObjectStyle struct {
	Fill        string  `json:"fill,omitempty"`
	BorderColor string  `json:"borderColor,omitempty"`
	BorderWidth int     `json:"borderWidth,omitempty"`
	Opacity     float64 `json:"opacity,omitempty"`
}

// TagGroup is a named collection of PLC tags.
type TagGroup struct {
	Name    string `json:"name"`
	Comment string `json:"comment,omitempty"`
	Tags    []Tag  `json:"tags"`
}

// Tag is one PLC address binding, referenced by objects via TagRef
// ("group/name").
type Tag struct {
	Name     string `json:"name"`
	Address  string `json:"address"`
	DataType string `json:"dataType"`
	Comment  string `json:"comment,omitempty"`
}
