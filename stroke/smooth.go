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

package stroke

import (
	"math"
	"strconv"
	"strings"

	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/vec"
)

// Smoothing is the fraction of the distance between the neighbours of a
// point that is used for the length of its Bézier control arms.
const Smoothing = 0.2

// Curve returns the smoothed outline of the stroke centre line.
//
// The first point starts a subpath.  Every further point is reached by a
// cubic Bézier segment whose control points are tangent to the line
// through the neighbouring samples.  A single-point path becomes a
// zero-length line segment, which is drawn as a dot when stroked with
// round caps.
func (p Path) Curve() *path.Data {
	res := &path.Data{}
	if len(p.Points) == 0 {
		return res
	}

	res.MoveTo(p.Points[0].Vec())
	if len(p.Points) == 1 {
		res.LineTo(p.Points[0].Vec())
		return res
	}
	for i := 1; i < len(p.Points); i++ {
		c1, c2 := p.controls(i)
		res.CubeTo(c1, c2, p.Points[i].Vec())
	}
	return res
}

// SVGData returns the stroke centre line in SVG path syntax.
func (p Path) SVGData() string {
	if len(p.Points) == 0 {
		return ""
	}

	b := &strings.Builder{}
	b.WriteString("M ")
	writePair(b, p.Points[0].Vec())
	if len(p.Points) == 1 {
		b.WriteString(" L ")
		writePair(b, p.Points[0].Vec())
		return b.String()
	}
	for i := 1; i < len(p.Points); i++ {
		c1, c2 := p.controls(i)
		b.WriteString(" C ")
		writePair(b, c1)
		b.WriteByte(' ')
		writePair(b, c2)
		b.WriteByte(' ')
		writePair(b, p.Points[i].Vec())
	}
	return b.String()
}

// controls returns the two control points of the segment ending at
// point i, for i >= 1.
func (p Path) controls(i int) (vec.Vec2, vec.Vec2) {
	pts := p.Points

	cur := pts[i-1].Vec()
	prev := cur
	if i >= 2 {
		prev = pts[i-2].Vec()
	}
	c1 := controlPoint(cur, prev, pts[i].Vec(), false)

	cur = pts[i].Vec()
	next := cur
	if i+1 < len(pts) {
		next = pts[i+1].Vec()
	}
	c2 := controlPoint(cur, pts[i-1].Vec(), next, true)

	return c1, c2
}

// controlPoint places a control point next to cur, parallel to the line
// from prev to next.  For reverse the control point lies on the side of
// prev instead of next.
func controlPoint(cur, prev, next vec.Vec2, reverse bool) vec.Vec2 {
	d := next.Sub(prev)
	angle := math.Atan2(d.Y, d.X)
	if reverse {
		angle += math.Pi
	}
	length := d.Length() * Smoothing
	return vec.Vec2{
		X: cur.X + math.Cos(angle)*length,
		Y: cur.Y + math.Sin(angle)*length,
	}
}

func writePair(b *strings.Builder, v vec.Vec2) {
	b.WriteString(formatCoord(v.X))
	b.WriteByte(',')
	b.WriteString(formatCoord(v.Y))
}

// formatCoord formats a coordinate with at most three decimals.
func formatCoord(x float64) string {
	x = math.Round(x*1000) / 1000
	if x == 0 {
		x = 0 // avoid "-0"
	}
	return strconv.FormatFloat(x, 'f', -1, 64)
}
