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

// Package mask derives the eraser masking structure from a stroke log.
//
// Eraser strokes never delete ink.  Instead, the log is cut into pen
// segments at every run of consecutive eraser strokes, and each pen
// segment is painted through a mask which hides it wherever a later
// eraser stroke was drawn.
//
// For a log like
//
//	pen pen eraser pen eraser eraser pen
//
// the layout has three segments {0,1}, {3}, {6} and two eraser groups
// {2}, {4,5}.  Segment 0 is masked by the erasers 2, 4 and 5, segment 1
// by the erasers 4 and 5, and the trailing segment 2 is not masked.
package mask

import "seehuhn.de/go/sketch/stroke"

// Segment is a maximal run of pen strokes.
type Segment struct {
	// Index is the position of the segment.  Segment n is the run of pen
	// strokes before eraser group n.
	Index int

	// Pens lists the positions of the pen strokes in the log.
	Pens []int
}

// Masked reports whether the segment is painted through a mask.
func (s Segment) Masked(l *Layout) bool {
	return s.Index < len(l.Groups)
}

// Group is a maximal run of eraser strokes.
type Group struct {
	// Index is the position of the group.  It is also the index of the
	// segment it masks.
	Index int

	// Erasers lists the positions of the eraser strokes in the log.
	Erasers []int

	// First is the ordinal of the group's first eraser stroke among all
	// eraser strokes of the log.
	First int
}

// Layout is the masking structure of a log.
type Layout struct {
	// Segments has one entry per eraser group, plus one for the pen
	// strokes after the last eraser group.  Segments may be empty.
	Segments []Segment

	// Groups lists the eraser groups in log order.
	Groups []Group

	// Erasers lists the positions of all eraser strokes in the log.
	Erasers []int
}

// Compose computes the layout for a log of strokes with the given tools.
// The computation is linear in the length of the log.
func Compose(tools []stroke.Tool) *Layout {
	l := &Layout{}
	cur := Segment{Index: 0}
	inRun := false
	for i, tool := range tools {
		switch tool {
		case stroke.Eraser:
			if !inRun {
				l.Segments = append(l.Segments, cur)
				l.Groups = append(l.Groups, Group{
					Index: len(l.Groups),
					First: len(l.Erasers),
				})
				cur = Segment{Index: len(l.Groups)}
				inRun = true
			}
			g := &l.Groups[len(l.Groups)-1]
			g.Erasers = append(g.Erasers, i)
			l.Erasers = append(l.Erasers, i)
		default:
			cur.Pens = append(cur.Pens, i)
			inRun = false
		}
	}
	l.Segments = append(l.Segments, cur)
	return l
}

// ComposePaths is like [Compose], but takes the tools from a list of paths.
func ComposePaths(paths []stroke.Path) *Layout {
	tools := make([]stroke.Tool, len(paths))
	for i, p := range paths {
		tools[i] = p.Tool
	}
	return Compose(tools)
}

// Uses returns the ordinals (among all eraser strokes) of the eraser
// strokes which mask segment n.  These are the strokes of eraser group n
// and of all later groups.  The result is empty for the trailing segment.
func (l *Layout) Uses(n int) []int {
	if n < 0 || n >= len(l.Groups) {
		return nil
	}
	first := l.Groups[n].First
	res := make([]int, 0, len(l.Erasers)-first)
	for k := first; k < len(l.Erasers); k++ {
		res = append(res, k)
	}
	return res
}

// GroupOf returns the index of the eraser group containing the eraser
// stroke with the given ordinal, or -1 if there is none.
func (l *Layout) GroupOf(ordinal int) int {
	for _, g := range l.Groups {
		if ordinal >= g.First && ordinal < g.First+len(g.Erasers) {
			return g.Index
		}
	}
	return -1
}
