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

package testcases

import "seehuhn.de/go/sketch/stroke"

// largeCases exercise big canvases and long strokes.
var largeCases = []Scenario{
	{
		Name:   "long_stroke",
		Width:  1024,
		Height: 768,
		Steps:  []Step{pen(spiral(512, 384, 10, 370, 12, 2000)...)},
		Want:   Expect{Paths: 1, Groups: 1},
	},
	{
		Name:   "hatching",
		Width:  512,
		Height: 512,
		Steps:  hatching(512, 512, 16),
		Want:   Expect{Paths: 32, Erasers: 16, Groups: 16, Uses: uses(16)},
	},
}

// hatching alternates horizontal pen strokes with vertical eraser
// strokes.
func hatching(width, height float64, n int) []Step {
	var steps []Step
	for i := range n {
		f := (float64(i) + 0.5) / float64(n)
		steps = append(steps,
			Draw{Tool: stroke.Pen, Width: 8, Points: []stroke.Point{pt(10, f*height), pt(width-10, f*height)}},
			Draw{Tool: stroke.Eraser, Width: 8, Points: []stroke.Point{pt(f*width, 10), pt(f*width, height-10)}},
		)
	}
	return steps
}

// uses returns the mask reference counts for n alternating pen and
// eraser strokes: mask k sees the eraser strokes k, ..., n-1.
func uses(n int) []int {
	res := make([]int, n)
	for k := range n {
		res[k] = 1 + n - k
	}
	return res
}
