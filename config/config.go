// seehuhn.de/go/sketch - a freehand drawing surface
// Copyright (C) 2026  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

// Package config holds the settings of a drawing canvas.
//
// Settings can be given in Go, or read from a Lua file which fills the
// global table sketch.config:
//
//	sketch.config = {
//	    width = 800,
//	    height = 500,
//	    canvas_color = "white",
//	    stroke_color = "red",
//	    stroke_width = 4,
//	    eraser_width = 8,
//	    export_image_type = "png",
//	}
package config

// Config holds all settings of a canvas.
type Config struct {
	Canvas CanvasConfig
	Stroke StrokeConfig
	Export ExportConfig

	// ReadOnly disables drawing and all history operations.
	ReadOnly bool

	// WithTimestamp records start and end times of each stroke.
	WithTimestamp bool
}

// CanvasConfig describes the drawing surface.
type CanvasConfig struct {
	// ID is the prefix of all element identifiers.  If it is empty, a
	// random identifier is generated.
	ID string

	Width  int
	Height int

	// Color is the CSS background color.
	Color string

	// BackgroundImage is a data URI or file name, or empty.
	BackgroundImage string

	// PreserveAspectRatio is one of "none", "meet" or "slice", or a
	// full SVG preserveAspectRatio value.
	PreserveAspectRatio string
}

// StrokeConfig holds the initial stroke style.
type StrokeConfig struct {
	Color       string
	Width       float64
	EraserWidth float64
}

// ExportConfig controls image export.
type ExportConfig struct {
	// ImageType is "png" or "jpeg".
	ImageType string

	// WithBackgroundImage includes the background image in exports.
	WithBackgroundImage bool
}

// Default values for configuration options.
const (
	DefaultWidth               = 800
	DefaultHeight              = 500
	DefaultCanvasColor         = "white"
	DefaultPreserveAspectRatio = "none"
	DefaultStrokeColor         = "red"
	DefaultStrokeWidth         = 4.0
	DefaultEraserWidth         = 8.0
	DefaultImageType           = "png"
)

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return Config{
		Canvas: CanvasConfig{
			Width:               DefaultWidth,
			Height:              DefaultHeight,
			Color:               DefaultCanvasColor,
			PreserveAspectRatio: DefaultPreserveAspectRatio,
		},
		Stroke: StrokeConfig{
			Color:       DefaultStrokeColor,
			Width:       DefaultStrokeWidth,
			EraserWidth: DefaultEraserWidth,
		},
		Export: ExportConfig{
			ImageType: DefaultImageType,
		},
	}
}
