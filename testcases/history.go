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

var historyCases = []Scenario{
	{
		Name:   "undo_stroke",
		Width:  300,
		Height: 300,
		Steps:  []Step{square(stroke.Pen, 100, 100, 50), Undo{}},
		Want:   Expect{},
	},
	{
		Name:   "undo_eraser",
		Width:  300,
		Height: 300,
		Steps: []Step{
			square(stroke.Pen, 100, 100, 50),
			square(stroke.Eraser, 100, 150, 50),
			Undo{},
		},
		Want: Expect{Paths: 1, Groups: 1},
	},
	{
		Name:   "redo_eraser",
		Width:  300,
		Height: 300,
		Steps: []Step{
			square(stroke.Pen, 100, 100, 50),
			square(stroke.Eraser, 100, 150, 50),
			Undo{},
			Redo{},
		},
		Want: Expect{Paths: 2, Erasers: 1, Groups: 1, Uses: []int{2}},
	},
	{
		Name:   "clear_redo",
		Width:  300,
		Height: 300,
		Steps: []Step{
			square(stroke.Pen, 100, 100, 50),
			Clear{},
			Redo{},
		},
		Want: Expect{},
	},
	{
		Name:   "clear_undo",
		Width:  300,
		Height: 300,
		Steps: []Step{
			square(stroke.Pen, 100, 100, 50),
			square(stroke.Eraser, 100, 150, 50),
			Clear{},
			Undo{},
		},
		Want: Expect{Paths: 2, Erasers: 1, Groups: 1, Uses: []int{2}},
	},
	{
		Name:   "reset",
		Width:  300,
		Height: 300,
		Steps: []Step{
			square(stroke.Pen, 100, 100, 50),
			square(stroke.Pen, 150, 150, 50),
			Reset{},
			Undo{},
			Redo{},
		},
		Want: Expect{},
	},
	{
		// a new stroke after undo discards the redo log
		Name:   "branch",
		Width:  300,
		Height: 300,
		Steps: []Step{
			square(stroke.Pen, 100, 100, 50),
			square(stroke.Eraser, 100, 150, 50),
			Undo{},
			square(stroke.Pen, 150, 150, 50),
			Redo{},
		},
		Want: Expect{Paths: 2, Groups: 1},
	},
}
