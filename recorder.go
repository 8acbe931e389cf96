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

package sketch

import (
	"time"

	"seehuhn.de/go/sketch/stroke"
)

// Recorder turns one pointer gesture at a time into a [stroke.Path].
//
// A stroke starts with the pointer-down position, so every stroke has at
// least one point.  A gesture without movement becomes a single-point
// path, which is drawn as a dot.
//
// The zero value is ready to use and records no timestamps.
type Recorder struct {
	// Now, if set, is used to timestamp the start and end of each stroke.
	Now func() time.Time

	cur    stroke.Path
	active bool
}

// Begin opens a new stroke at the pointer-down position at.  A stroke
// which is still open is discarded.  If at lies outside the drawable
// coordinate range, no stroke is opened and false is returned.
func (r *Recorder) Begin(tool stroke.Tool, style stroke.Style, at stroke.Point) bool {
	r.Cancel()
	if !at.Valid() {
		return false
	}
	r.cur = stroke.Path{Tool: tool, Style: style, Points: []stroke.Point{at}}
	r.active = true
	if r.Now != nil {
		r.cur.Start = r.Now()
	}
	return true
}

// AddPoint appends a point to the open stroke.  If no stroke is open, or
// if p lies outside the drawable coordinate range, the point is ignored
// and false is returned.
func (r *Recorder) AddPoint(p stroke.Point) bool {
	if !r.active || !p.Valid() {
		return false
	}
	r.cur.Points = append(r.cur.Points, p)
	return true
}

// End closes the open stroke and returns it.  The second return value is
// false if no stroke was open.
func (r *Recorder) End() (stroke.Path, bool) {
	if !r.active {
		return stroke.Path{}, false
	}
	p := r.cur
	r.Cancel()
	if r.Now != nil {
		p.End = r.Now()
	}
	return p, true
}

// Cancel discards the open stroke, if any.
func (r *Recorder) Cancel() {
	r.cur = stroke.Path{}
	r.active = false
}

// Active reports whether a stroke is open.
func (r *Recorder) Active() bool {
	return r.active
}
