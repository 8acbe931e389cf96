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

// Package testcases holds scripted drawing sessions.
//
// Each [Scenario] is a sequence of steps, as a user would perform them on
// a canvas, together with the structure the resulting scene must have.
// The scenarios are used by the tests of the sketch package and by the
// tools in the subdirectories, which write reference output.
package testcases

import (
	"math"

	"seehuhn.de/go/sketch/stroke"
)

// Scenario defines a single drawing session.
type Scenario struct {
	Name   string // lowercase a-z and _ only
	Width  int    // canvas width in pixels
	Height int    // canvas height in pixels
	Steps  []Step
	Want   Expect
}

// Expect describes the scene after all steps have been performed.
type Expect struct {
	Paths   int   // length of the done log
	Erasers int   // paths in the eraser stroke group
	Groups  int   // stroke groups
	Uses    []int // number of <use> references, per mask
}

// Step is one user action.
type Step interface {
	isStep()
}

// Draw is one stroke.  Empty Color and zero Width keep the current
// settings of the canvas.
type Draw struct {
	Tool   stroke.Tool
	Color  string
	Width  float64
	Points []stroke.Point
}

// Undo, Redo, Clear and Reset invoke the history operations of the
// same names.
type (
	Undo  struct{}
	Redo  struct{}
	Clear struct{}
	Reset struct{}
)

func (Draw) isStep()  {}
func (Undo) isStep()  {}
func (Redo) isStep()  {}
func (Clear) isStep() {}
func (Reset) isStep() {}

// pt is a helper to create a point from x, y coordinates.
func pt(x, y float64) stroke.Point {
	return stroke.Point{X: x, Y: y}
}

// square traces the outline of a square, starting and ending at the top
// left corner.
func square(tool stroke.Tool, x, y, size float64) Draw {
	return Draw{
		Tool: tool,
		Points: []stroke.Point{
			pt(x, y), pt(x+size, y), pt(x+size, y+size), pt(x, y+size), pt(x, y),
		},
	}
}

func pen(points ...stroke.Point) Draw {
	return Draw{Tool: stroke.Pen, Points: points}
}

func eraser(points ...stroke.Point) Draw {
	return Draw{Tool: stroke.Eraser, Points: points}
}

// wave samples a sine wave between x1 and x2.
func wave(x1, x2, cy, amplitude, periods float64, n int) []stroke.Point {
	pts := make([]stroke.Point, n)
	for i := range n {
		t := float64(i) / float64(n-1)
		pts[i] = pt(x1+t*(x2-x1), cy+amplitude*math.Sin(2*math.Pi*periods*t))
	}
	return pts
}

// spiral samples an Archimedean spiral around (cx, cy).
func spiral(cx, cy, rMin, rMax, turns float64, n int) []stroke.Point {
	pts := make([]stroke.Point, n)
	for i := range n {
		t := float64(i) / float64(n-1)
		r := rMin + t*(rMax-rMin)
		phi := 2 * math.Pi * turns * t
		pts[i] = pt(cx+r*math.Cos(phi), cy+r*math.Sin(phi))
	}
	return pts
}
