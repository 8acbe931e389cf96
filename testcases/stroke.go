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

var strokeCases = []Scenario{
	{
		Name:   "square",
		Width:  300,
		Height: 300,
		Steps:  []Step{square(stroke.Pen, 100, 100, 50)},
		Want:   Expect{Paths: 1, Groups: 1},
	},
	{
		Name:   "dot",
		Width:  64,
		Height: 64,
		Steps: []Step{
			Draw{Tool: stroke.Pen, Width: 12, Points: []stroke.Point{pt(32, 32)}},
		},
		Want: Expect{Paths: 1, Groups: 1},
	},
	{
		Name:   "line",
		Width:  64,
		Height: 64,
		Steps:  []Step{pen(pt(10, 32), pt(54, 32))},
		Want:   Expect{Paths: 1, Groups: 1},
	},
	{
		Name:   "corner",
		Width:  64,
		Height: 64,
		Steps: []Step{
			Draw{Tool: stroke.Pen, Width: 6, Points: []stroke.Point{pt(10, 50), pt(32, 14), pt(54, 50)}},
		},
		Want: Expect{Paths: 1, Groups: 1},
	},
	{
		Name:   "wave",
		Width:  200,
		Height: 100,
		Steps:  []Step{pen(wave(10, 190, 50, 30, 2, 40)...)},
		Want:   Expect{Paths: 1, Groups: 1},
	},
	{
		Name:   "colors",
		Width:  120,
		Height: 120,
		Steps: []Step{
			Draw{Tool: stroke.Pen, Color: "navy", Width: 10, Points: []stroke.Point{pt(10, 20), pt(110, 20)}},
			Draw{Tool: stroke.Pen, Color: "#2e8b57", Width: 10, Points: []stroke.Point{pt(10, 60), pt(110, 60)}},
			Draw{Tool: stroke.Pen, Color: "rgba(255, 0, 0, 0.5)", Width: 30, Points: []stroke.Point{pt(60, 10), pt(60, 110)}},
		},
		Want: Expect{Paths: 3, Groups: 1},
	},
	{
		Name:   "spiral",
		Width:  200,
		Height: 200,
		Steps:  []Step{pen(spiral(100, 100, 5, 90, 4, 200)...)},
		Want:   Expect{Paths: 1, Groups: 1},
	},
}
