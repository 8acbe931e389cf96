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

var eraseCases = []Scenario{
	{
		// pen, then eraser: the pen group is masked by one eraser mask
		Name:   "pen_eraser",
		Width:  300,
		Height: 300,
		Steps: []Step{
			square(stroke.Pen, 100, 100, 50),
			square(stroke.Eraser, 100, 150, 50),
		},
		Want: Expect{Paths: 2, Erasers: 1, Groups: 1, Uses: []int{2}},
	},
	{
		// two pen and erase cycles
		Name:   "two_cycles",
		Width:  300,
		Height: 300,
		Steps: []Step{
			square(stroke.Pen, 100, 100, 50),
			square(stroke.Eraser, 100, 150, 50),
			square(stroke.Pen, 105, 105, 55),
			square(stroke.Eraser, 100, 150, 50),
		},
		Want: Expect{Paths: 4, Erasers: 2, Groups: 2, Uses: []int{3, 2}},
	},
	{
		// consecutive eraser strokes share one mask
		Name:   "eraser_run",
		Width:  200,
		Height: 200,
		Steps: []Step{
			pen(wave(10, 190, 100, 60, 3, 60)...),
			eraser(pt(50, 10), pt(50, 190)),
			eraser(pt(100, 10), pt(100, 190)),
			eraser(pt(150, 10), pt(150, 190)),
		},
		Want: Expect{Paths: 4, Erasers: 3, Groups: 1, Uses: []int{4}},
	},
	{
		// ink drawn after the last eraser stroke is not masked
		Name:   "pen_after_eraser",
		Width:  200,
		Height: 200,
		Steps: []Step{
			pen(pt(20, 100), pt(180, 100)),
			eraser(pt(100, 20), pt(100, 180)),
			pen(pt(100, 20), pt(100, 180)),
		},
		Want: Expect{Paths: 3, Erasers: 1, Groups: 2, Uses: []int{2}},
	},
	{
		// erasing an empty canvas creates a mask but no stroke group
		Name:   "eraser_only",
		Width:  100,
		Height: 100,
		Steps: []Step{
			eraser(pt(10, 10), pt(90, 90)),
			pen(pt(10, 90), pt(90, 10)),
		},
		Want: Expect{Paths: 2, Erasers: 1, Groups: 1, Uses: []int{2}},
	},
	{
		Name:   "eraser_dot",
		Width:  64,
		Height: 64,
		Steps: []Step{
			Draw{Tool: stroke.Pen, Width: 20, Points: []stroke.Point{pt(10, 32), pt(54, 32)}},
			Draw{Tool: stroke.Eraser, Width: 10, Points: []stroke.Point{pt(32, 32)}},
		},
		Want: Expect{Paths: 2, Erasers: 1, Groups: 1, Uses: []int{2}},
	},
}
