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
	"seehuhn.de/go/pdf/graphics"
)

// Stroke computes the coverage of the outline of p, using Width, Cap,
// Join and MiterLimit.
//
// The outline is built from simple pieces: one quadrilateral per line
// segment, one polygon per join and one per cap.  All pieces are oriented
// the same way and filled together with the nonzero rule, so that overlaps
// are painted only once.  A subpath which consists of a single point is
// drawn as a dot if the cap style is round.
func (r *Rasterizer) Stroke(p *path.Data, emit EmitFunc) {
	r.lines.flatten(p, r)

	r.poly = r.poly[:0]
	r.polyStart = r.polyStart[:0]
	d := r.Width / 2
	if d <= 0 {
		return
	}

	for _, s := range r.lines.subs {
		pts := dedup(r.lines.pts[s.first:s.end])
		r.strokePolyline(pts, s.closed, d)
	}

	r.beginEdges()
	for i, start := range r.polyStart {
		end := len(r.poly)
		if i+1 < len(r.polyStart) {
			end = r.polyStart[i+1]
		}
		r.addPolygon(r.poly[start:end])
	}
	r.scan(NonZero, emit)
}

// dedup removes consecutive duplicate points, in place.
func dedup(pts []vec.Vec2) []vec.Vec2 {
	if len(pts) < 2 {
		return pts
	}
	out := pts[:1]
	for _, p := range pts[1:] {
		if p.Sub(out[len(out)-1]).Length() >= zeroLengthThreshold {
			out = append(out, p)
		}
	}
	return out
}

func (r *Rasterizer) strokePolyline(pts []vec.Vec2, closed bool, d float64) {
	switch len(pts) {
	case 0:
		return
	case 1:
		if r.Cap == graphics.LineCapRound {
			r.addCircle(pts[0], d)
		}
		return
	}

	if closed && len(pts) > 2 && pts[0].Sub(pts[len(pts)-1]).Length() < zeroLengthThreshold {
		pts = pts[:len(pts)-1]
	}
	closed = closed && len(pts) > 2
	n := len(pts)

	for i := 0; i+1 < n; i++ {
		r.addSegment(pts[i], pts[i+1], d)
	}
	for i := 1; i+1 < n; i++ {
		r.addJoin(pts[i-1], pts[i], pts[i+1], d)
	}

	if closed {
		r.addSegment(pts[n-1], pts[0], d)
		r.addJoin(pts[n-2], pts[n-1], pts[0], d)
		r.addJoin(pts[n-1], pts[0], pts[1], d)
		return
	}
	r.addCap(pts[0], unit(pts[0].Sub(pts[1])), d)
	r.addCap(pts[n-1], unit(pts[n-1].Sub(pts[n-2])), d)
}

// addSegment adds the rectangle of half-width d around the segment a-b.
func (r *Rasterizer) addSegment(a, b vec.Vec2, d float64) {
	t := unit(b.Sub(a))
	nd := normal(t).Mul(d)
	r.beginPoly()
	r.poly = append(r.poly, a.Sub(nd), b.Sub(nd), b.Add(nd), a.Add(nd))
	r.endPoly()
}

// addJoin adds the join at corner b of the polyline a-b-c.
func (r *Rasterizer) addJoin(a, b, c vec.Vec2, d float64) {
	t1 := unit(b.Sub(a))
	t2 := unit(c.Sub(b))
	cross := t1.X*t2.Y - t1.Y*t2.X
	dot := t1.Dot(t2)
	if math.Abs(cross) < collinearityThreshold && dot > 0 {
		return
	}

	if r.Join == graphics.LineJoinRound {
		r.addCircle(b, d)
		return
	}

	// the join fills the gap on the outer side of the corner
	side := 1.0
	if cross > 0 {
		side = -1
	}
	n1 := normal(t1).Mul(side)
	n2 := normal(t2).Mul(side)
	p1 := b.Add(n1.Mul(d))
	p2 := b.Add(n2.Mul(d))

	r.beginPoly()
	r.poly = append(r.poly, b, p1)
	if r.Join == graphics.LineJoinMiter {
		// the miter length relative to the line width is 1/cos(theta/2),
		// where theta is the angle between the tangents
		cosHalf := math.Sqrt((1 + dot) / 2)
		if cosHalf > 0 && 1/cosHalf <= r.MiterLimit+1e-10 {
			r.poly = append(r.poly, b.Add(unit(n1.Add(n2)).Mul(d/cosHalf)))
		}
	}
	r.poly = append(r.poly, p2)
	r.endPoly()
}

// addCap adds a line cap at p.  dir is the unit vector pointing away from
// the line.
func (r *Rasterizer) addCap(p, dir vec.Vec2, d float64) {
	switch r.Cap {
	case graphics.LineCapRound:
		r.addCircle(p, d)
	case graphics.LineCapSquare:
		nd := normal(dir).Mul(d)
		ext := p.Add(dir.Mul(d))
		r.beginPoly()
		r.poly = append(r.poly, p.Sub(nd), ext.Sub(nd), ext.Add(nd), p.Add(nd))
		r.endPoly()
	}
}

// addCircle adds a polygonal circle.  The number of vertices is chosen so
// that the deviation from the true circle stays below the flatness in
// device space.
func (r *Rasterizer) addCircle(center vec.Vec2, radius float64) {
	devRadius := radius * r.deviceScale()
	n := 8
	if devRadius > r.Flatness {
		step := 2 * math.Acos(1-r.Flatness/devRadius)
		n = max(n, int(math.Ceil(2*math.Pi/step)))
	}

	r.beginPoly()
	for i := range n {
		phi := 2 * math.Pi * float64(i) / float64(n)
		r.poly = append(r.poly, vec.Vec2{
			X: center.X + radius*math.Cos(phi),
			Y: center.Y + radius*math.Sin(phi),
		})
	}
	r.endPoly()
}

func (r *Rasterizer) beginPoly() {
	r.polyStart = append(r.polyStart, len(r.poly))
}

// endPoly normalises the orientation of the polygon started by the last
// call to beginPoly.  Polygons without area are discarded.
func (r *Rasterizer) endPoly() {
	start := r.polyStart[len(r.polyStart)-1]
	pts := r.poly[start:]

	var a float64
	for i := range pts {
		p, q := pts[i], pts[(i+1)%len(pts)]
		a += p.X*q.Y - q.X*p.Y
	}
	switch {
	case math.Abs(a) < zeroLengthThreshold:
		r.poly = r.poly[:start]
		r.polyStart = r.polyStart[:len(r.polyStart)-1]
	case a < 0:
		for i, j := 0, len(pts)-1; i < j; i, j = i+1, j-1 {
			pts[i], pts[j] = pts[j], pts[i]
		}
	}
}

func unit(v vec.Vec2) vec.Vec2 {
	l := v.Length()
	if l < zeroLengthThreshold {
		return vec.Vec2{X: 1}
	}
	return v.Mul(1 / l)
}

// normal returns t rotated by 90 degrees counter-clockwise.
func normal(t vec.Vec2) vec.Vec2 {
	return vec.Vec2{X: -t.Y, Y: t.X}
}
