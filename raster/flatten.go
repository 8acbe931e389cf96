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

package raster

import (
	"math"

	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/vec"
)

// subpath is a range of points in polylines.pts.
type subpath struct {
	first, end int
	closed     bool
}

// polylines holds a path with all curves replaced by line segments.
type polylines struct {
	pts  []vec.Vec2
	subs []subpath

	open    bool     // a subpath is in progress
	current vec.Vec2 // the current point
	hasCur  bool
}

// flatten replaces the contents of pl by the flattened version of p.
// Curves are approximated to within the rasterizer's flatness tolerance,
// measured in device space.
func (pl *polylines) flatten(p *path.Data, r *Rasterizer) {
	pl.pts = pl.pts[:0]
	pl.subs = pl.subs[:0]
	pl.open = false
	pl.hasCur = false

	k := 0
	for _, cmd := range p.Cmds {
		switch cmd {
		case path.CmdMoveTo:
			pl.moveTo(p.Coords[k])
			k++
		case path.CmdLineTo:
			pl.lineTo(p.Coords[k])
			k++
		case path.CmdQuadTo:
			if pl.hasCur {
				r.flattenQuadratic(pl.current, p.Coords[k], p.Coords[k+1], pl.lineTo)
			}
			k += 2
		case path.CmdCubeTo:
			if pl.hasCur {
				r.flattenCubic(pl.current, p.Coords[k], p.Coords[k+1], p.Coords[k+2], pl.lineTo)
			}
			k += 3
		case path.CmdClose:
			pl.finish(true)
		}
	}
	pl.finish(false)
}

func (pl *polylines) moveTo(v vec.Vec2) {
	pl.finish(false)
	pl.subs = append(pl.subs, subpath{first: len(pl.pts)})
	pl.pts = append(pl.pts, v)
	pl.open = true
	pl.current = v
	pl.hasCur = true
}

// lineTo extends the current subpath.  After a ClosePath, drawing
// continues with a new subpath at the start of the closed one.
func (pl *polylines) lineTo(v vec.Vec2) {
	if !pl.open {
		if !pl.hasCur {
			return
		}
		pl.moveTo(pl.current)
	}
	pl.pts = append(pl.pts, v)
	pl.current = v
}

func (pl *polylines) finish(closed bool) {
	if !pl.open {
		return
	}
	s := &pl.subs[len(pl.subs)-1]
	s.end = len(pl.pts)
	s.closed = closed
	pl.open = false
	if closed {
		pl.current = pl.pts[s.first]
	}
}

// flattenQuadratic approximates the quadratic Bézier curve p0, p1, p2 and
// calls lineTo for every vertex after p0.
func (r *Rasterizer) flattenQuadratic(p0, p1, p2 vec.Vec2, lineTo func(vec.Vec2)) {
	// the deviation from the chord is bounded by |p0 - 2p1 + p2| / 4
	dev := r.transformLinear(p0.Sub(p1.Mul(2)).Add(p2).Mul(0.25)).Length()
	n := 1
	if dev > r.Flatness {
		n = int(math.Ceil(math.Sqrt(dev / r.Flatness)))
	}

	for i := 1; i <= n; i++ {
		t := float64(i) / float64(n)
		s := 1 - t
		lineTo(p0.Mul(s * s).Add(p1.Mul(2 * s * t)).Add(p2.Mul(t * t)))
	}
}

// flattenCubic approximates the cubic Bézier curve p0, p1, p2, p3 and
// calls lineTo for every vertex after p0.  The number of segments is
// chosen by Wang's formula.
func (r *Rasterizer) flattenCubic(p0, p1, p2, p3 vec.Vec2, lineTo func(vec.Vec2)) {
	d1 := r.transformLinear(p0.Sub(p1.Mul(2)).Add(p2)).Length()
	d2 := r.transformLinear(p1.Sub(p2.Mul(2)).Add(p3)).Length()
	n := 1
	if m := max(d1, d2); m > 0 {
		n = max(1, int(math.Ceil(math.Sqrt(3*m/(4*r.Flatness)))))
	}

	for i := 1; i <= n; i++ {
		t := float64(i) / float64(n)
		s := 1 - t
		lineTo(p0.Mul(s * s * s).
			Add(p1.Mul(3 * s * s * t)).
			Add(p2.Mul(3 * s * t * t)).
			Add(p3.Mul(t * t * t)))
	}
}
