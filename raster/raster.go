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

// Package raster converts strokes and scenes to pixels.
//
// The [Rasterizer] computes exact area coverage for filled and stroked
// paths, one scanline at a time.  The [Compositor] uses it to paint a
// complete scene, with eraser masks, into an RGBA image.
package raster

import (
	"cmp"
	"math"
	"slices"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/geom/vec"
	"seehuhn.de/go/pdf/graphics"
)

// EmitFunc receives the coverage of one scanline.  coverage[i] is the
// fraction of pixel (xMin+i, y) covered by the shape, in the range [0, 1].
// The slice is only valid during the call.
type EmitFunc func(y, xMin int, coverage []float32)

// FillRule selects how overlapping parts of a path are filled.
type FillRule int

// These are the supported fill rules.
const (
	NonZero FillRule = iota
	EvenOdd
)

// edge is a line segment in device coordinates, oriented top to bottom.
type edge struct {
	x0, y0 float64 // upper end point
	x1, y1 float64 // lower end point
	dxdy   float64
	dir    float32 // +1 if the original segment pointed down, -1 otherwise
}

// Rasterizer computes pixel coverage for vector paths.  A Rasterizer can
// be reused for many paths; its buffers grow as needed and are kept
// between calls.
//
// A Rasterizer is not safe for concurrent use.
type Rasterizer struct {
	// CTM maps user space to device space.  Must be non-singular.
	CTM matrix.Matrix

	// Clip is the device space rectangle where coverage is computed.
	// Coordinates must be integers.
	Clip rect.Rect

	// Flatness is the maximal distance, in device pixels, between a
	// curve and its polygonal approximation.
	Flatness float64

	// Width is the stroke width in user space units.
	Width float64

	Cap        graphics.LineCapStyle
	Join       graphics.LineJoinStyle
	MiterLimit float64

	lines polylines

	edges  []edge
	active []int
	cover  []float32
	area   []float32

	// stroke outline polygons, stored contiguously
	poly      []vec.Vec2
	polyStart []int

	devXMin, devXMax float64
	devYMin, devYMax float64
}

// NewRasterizer returns a Rasterizer for the given clip rectangle.
// Strokes default to round caps and joins, since this is how freehand
// ink is drawn.
func NewRasterizer(clip rect.Rect) *Rasterizer {
	r := &Rasterizer{}
	r.Reset(clip)
	return r
}

// Reset restores the default parameters and sets a new clip rectangle.
// Buffer capacity is kept.
func (r *Rasterizer) Reset(clip rect.Rect) {
	r.CTM = matrix.Identity
	r.Clip = clip
	r.Flatness = defaultFlatness
	r.Width = 1
	r.Cap = graphics.LineCapRound
	r.Join = graphics.LineJoinRound
	r.MiterLimit = defaultMiterLimit
}

// Fill computes the coverage of the interior of p.  Open subpaths are
// closed implicitly.
func (r *Rasterizer) Fill(p *path.Data, rule FillRule, emit EmitFunc) {
	r.lines.flatten(p, r)

	r.beginEdges()
	for _, s := range r.lines.subs {
		pts := r.lines.pts[s.first:s.end]
		r.addPolygon(pts)
	}
	r.scan(rule, emit)
}

// FillNonZero is a shorthand for Fill with the nonzero winding rule.
func (r *Rasterizer) FillNonZero(p *path.Data, emit EmitFunc) {
	r.Fill(p, NonZero, emit)
}

// transformLinear applies the linear part of the CTM to v.
func (r *Rasterizer) transformLinear(v vec.Vec2) vec.Vec2 {
	return vec.Vec2{
		X: r.CTM[0]*v.X + r.CTM[2]*v.Y,
		Y: r.CTM[1]*v.X + r.CTM[3]*v.Y,
	}
}

// deviceScale returns the largest factor by which the CTM stretches
// lengths.
func (r *Rasterizer) deviceScale() float64 {
	sx := r.transformLinear(vec.Vec2{X: 1}).Length()
	sy := r.transformLinear(vec.Vec2{Y: 1}).Length()
	return max(sx, sy)
}

func (r *Rasterizer) beginEdges() {
	r.edges = r.edges[:0]
	r.devXMin, r.devYMin = math.Inf(1), math.Inf(1)
	r.devXMax, r.devYMax = math.Inf(-1), math.Inf(-1)
}

// addPolygon adds the edges of a closed polygon, given in user space.
func (r *Rasterizer) addPolygon(pts []vec.Vec2) {
	if len(pts) < 2 {
		return
	}
	for i := 1; i < len(pts); i++ {
		r.addEdge(pts[i-1], pts[i])
	}
	r.addEdge(pts[len(pts)-1], pts[0])
}

// addEdge transforms a segment to device space and adds it to the edge
// list.  Horizontal segments do not contribute to coverage and are
// dropped.
func (r *Rasterizer) addEdge(a, b vec.Vec2) {
	m := r.CTM
	ax := m[0]*a.X + m[2]*a.Y + m[4]
	ay := m[1]*a.X + m[3]*a.Y + m[5]
	bx := m[0]*b.X + m[2]*b.Y + m[4]
	by := m[1]*b.X + m[3]*b.Y + m[5]

	if math.Abs(by-ay) < horizontalEdgeThreshold {
		return
	}

	e := edge{x0: ax, y0: ay, x1: bx, y1: by, dir: 1}
	if ay > by {
		e = edge{x0: bx, y0: by, x1: ax, y1: ay, dir: -1}
	}
	e.dxdy = (e.x1 - e.x0) / (e.y1 - e.y0)
	r.edges = append(r.edges, e)

	r.devXMin = min(r.devXMin, ax, bx)
	r.devXMax = max(r.devXMax, ax, bx)
	r.devYMin = min(r.devYMin, e.y0)
	r.devYMax = max(r.devYMax, e.y1)
}

// Coverage model:
//
// Every edge deposits two numbers into the pixels it crosses on a scanline:
//
//	cover: the signed vertical extent of the edge inside the pixel
//	area:  cover, weighted by the part of the pixel to the right of the edge
//
// Summing from left to right, the coverage of pixel i is the running sum
// of cover over pixels 0..i-1 plus area[i].  The result is the signed area
// of the shape inside the pixel, which is then folded according to the
// fill rule.

// scan runs the active edge list over all scanlines inside the bounding
// box of the edges and emits the coverage of every non-empty row.
func (r *Rasterizer) scan(rule FillRule, emit EmitFunc) {
	if len(r.edges) == 0 {
		return
	}

	xMin := max(int(math.Floor(r.devXMin)), int(r.Clip.LLx))
	xMax := min(int(math.Floor(r.devXMax))+1, int(r.Clip.URx))
	yMin := max(int(math.Floor(r.devYMin)), int(r.Clip.LLy))
	yMax := min(int(math.Floor(r.devYMax))+1, int(r.Clip.URy))
	if xMin >= xMax || yMin >= yMax {
		return
	}

	width := xMax - xMin
	r.cover = slices.Grow(r.cover[:0], width)[:width]
	r.area = slices.Grow(r.area[:0], width)[:width]

	slices.SortFunc(r.edges, func(a, b edge) int {
		return cmp.Compare(a.y0, b.y0)
	})

	r.active = r.active[:0]
	next := 0
	for y := yMin; y < yMax; y++ {
		top, bot := float64(y), float64(y+1)

		for next < len(r.edges) && r.edges[next].y0 < bot {
			r.active = append(r.active, next)
			next++
		}
		keep := r.active[:0]
		for _, i := range r.active {
			if r.edges[i].y1 > top {
				keep = append(keep, i)
			}
		}
		r.active = keep
		if len(r.active) == 0 {
			continue
		}

		clear(r.cover)
		clear(r.area)
		for _, i := range r.active {
			r.accumulate(&r.edges[i], y, xMin, xMax)
		}

		if rule == EvenOdd {
			integrateEvenOdd(r.cover, r.area)
		} else {
			integrateNonZero(r.cover, r.area)
		}

		if row, offset := trimZeros(r.cover); row != nil {
			emit(y, xMin+offset, row)
		}
	}
}

// accumulate deposits the part of e inside scanline y into the cover and
// area buffers.  The buffers are indexed by x - xMin.  Contributions left
// of the buffer are folded into the first pixel, contributions right of
// it are dropped.
func (r *Rasterizer) accumulate(e *edge, y, xMin, xMax int) {
	top := max(float64(y), e.y0)
	bot := min(float64(y+1), e.y1)
	if bot <= top {
		return
	}

	// walk the part of the edge inside the scanline from left to right
	ax, ay := e.x0+e.dxdy*(top-e.y0), top
	bx, by := e.x0+e.dxdy*(bot-e.y0), bot
	if ax > bx {
		ax, ay, bx, by = bx, by, ax, ay
	}

	pix := int(math.Floor(ax))
	last := int(math.Floor(bx))
	if last < xMin {
		c := e.dir * float32(bot-top)
		r.cover[0] += c
		r.area[0] += c
		return
	}

	for pix < xMax {
		cx, cy := bx, by
		if pix < last {
			cx = float64(pix + 1)
			cy = ay + (cx-ax)*(by-ay)/(bx-ax)
		}

		c := e.dir * float32(math.Abs(cy-ay))
		if pix < xMin {
			r.cover[0] += c
			r.area[0] += c
		} else {
			frac := (ax+cx)/2 - float64(pix)
			i := pix - xMin
			r.cover[i] += c
			r.area[i] += c * float32(1-frac)
		}

		if pix >= last {
			break
		}
		ax, ay = cx, cy
		pix++
	}
}

// integrateNonZero converts cover/area to coverage using the nonzero
// winding rule.  The result overwrites cover.
func integrateNonZero(cover, area []float32) {
	var acc float32
	for i := range cover {
		v := acc + area[i]
		acc += cover[i]
		if v < 0 {
			v = -v
		}
		cover[i] = min(v, 1)
	}
}

// integrateEvenOdd converts cover/area to coverage using the even-odd
// rule.  The result overwrites cover.
func integrateEvenOdd(cover, area []float32) {
	var acc float32
	for i := range cover {
		v := acc + area[i]
		acc += cover[i]
		if v < 0 {
			v = -v
		}
		v -= 2 * float32(int(v/2))
		if v > 1 {
			v = 2 - v
		}
		cover[i] = v
	}
}

// trimZeros returns the part of coverage between the first and the last
// non-zero value, together with its offset.  The result is nil if all
// values are zero.
func trimZeros(coverage []float32) ([]float32, int) {
	lo, hi := 0, len(coverage)
	for lo < hi && coverage[lo] == 0 {
		lo++
	}
	if lo == hi {
		return nil, 0
	}
	for coverage[hi-1] == 0 {
		hi--
	}
	return coverage[lo:hi], lo
}

// Default parameter values.
const (
	// defaultFlatness is below the threshold of visual perception.
	defaultFlatness = 0.25

	// defaultMiterLimit matches PDF and SVG.
	defaultMiterLimit = 10.0
)

// Numerical tolerances.
const (
	horizontalEdgeThreshold = 1e-10
	zeroLengthThreshold     = 1e-10
	collinearityThreshold   = 1e-6
)
