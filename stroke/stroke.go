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

// Package stroke defines the points and paths recorded from freehand input.
//
// A [Path] is one committed stroke: the ordered points of a pointer gesture
// together with the tool and style that were active while drawing it. Pen
// and eraser strokes share the same type and are told apart by [Path.Tool].
package stroke

import (
	"math"
	"time"

	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/geom/vec"
)

// Tool identifies the kind of a stroke.
type Tool uint8

// These are the supported tools.
const (
	Pen Tool = iota
	Eraser
)

func (t Tool) String() string {
	switch t {
	case Pen:
		return "pen"
	case Eraser:
		return "eraser"
	default:
		return "unknown"
	}
}

// Point is a single input sample in canvas coordinates.
// The y axis points down.
type Point struct {
	X, Y float64

	// Pressure is the pen pressure in the range (0, 1].
	// Zero means that the input device did not report a pressure.
	Pressure float64
}

// MaxCoord bounds the coordinates of drawable points.  Points further out
// than this are far off any canvas and are rejected on input.
const MaxCoord = 1e6

// Valid reports whether both coordinates are finite and within
// [-MaxCoord, MaxCoord].
func (p Point) Valid() bool {
	return math.Abs(p.X) <= MaxCoord && math.Abs(p.Y) <= MaxCoord
}

// Vec returns the position of the point.
func (p Point) Vec() vec.Vec2 {
	return vec.Vec2{X: p.X, Y: p.Y}
}

// Style describes how a stroke is painted.
type Style struct {
	// Color is a CSS color string, for example "#000000" or "red".
	Color string

	// Width is the stroke width in canvas units.
	Width float64
}

// Path is a committed stroke.
//
// Paths are values.  The Points slice must not be modified once the path
// has been committed; all components share the backing array.
type Path struct {
	// Seq is the commit sequence number.  It is assigned by the history
	// and increases with every committed or loaded path.
	Seq int

	Tool   Tool
	Style  Style
	Points []Point

	// Start and End record when the stroke was drawn.  Both are zero
	// unless timestamps are enabled.
	Start, End time.Time
}

// IsEraser reports whether the path was drawn with the eraser.
func (p Path) IsEraser() bool {
	return p.Tool == Eraser
}

// IsDot reports whether the path consists of a single point.
// Such paths are rendered as a filled dot of the stroke width.
func (p Path) IsDot() bool {
	return len(p.Points) == 1
}

// Duration returns the time spent drawing the path.
// The result is zero if the path carries no timestamps.
func (p Path) Duration() time.Duration {
	if p.Start.IsZero() || p.End.IsZero() || p.End.Before(p.Start) {
		return 0
	}
	return p.End.Sub(p.Start)
}

// Bounds returns the bounding box of the painted area, including half the
// stroke width on every side.  The result is the zero rectangle for a path
// without points.
func (p Path) Bounds() rect.Rect {
	if len(p.Points) == 0 {
		return rect.Rect{}
	}
	b := rect.Rect{
		LLx: math.Inf(1), LLy: math.Inf(1),
		URx: math.Inf(-1), URy: math.Inf(-1),
	}
	for _, pt := range p.Points {
		b.LLx = min(b.LLx, pt.X)
		b.LLy = min(b.LLy, pt.Y)
		b.URx = max(b.URx, pt.X)
		b.URy = max(b.URy, pt.Y)
	}
	d := p.Style.Width / 2
	b.LLx -= d
	b.LLy -= d
	b.URx += d
	b.URy += d
	return b
}
