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
	"fmt"
	"image"
	"image/color"

	"golang.org/x/image/draw"
	"seehuhn.de/go/geom/rect"

	"seehuhn.de/go/sketch/paint"
	"seehuhn.de/go/sketch/scene"
	"seehuhn.de/go/sketch/stroke"
)

// Compositor paints scenes into RGBA images.
//
// The layers are, from bottom to top: the canvas color, the background
// image, and one ink layer per stroke group.  Each ink layer is drawn
// through the coverage mask of its eraser group, so that erased ink
// reveals whatever lies beneath.
//
// A Compositor is not safe for concurrent use.
type Compositor struct {
	// Scaler resamples the background image.
	Scaler draw.Scaler

	r       *Rasterizer
	scratch *image.Alpha
}

// NewCompositor returns a Compositor which scales background images with
// a Catmull-Rom filter.
func NewCompositor() *Compositor {
	return &Compositor{
		Scaler: draw.CatmullRom,
		r:      NewRasterizer(rect.Rect{}),
	}
}

// Render paints the scene.  bg is the decoded background image and is
// only used if the scene has one; it may be nil.
func (c *Compositor) Render(s *scene.Scene, bg image.Image) (*image.RGBA, error) {
	bounds := image.Rect(0, 0, s.Width, s.Height)
	if bounds.Empty() {
		return nil, fmt.Errorf("invalid canvas size %dx%d", s.Width, s.Height)
	}
	dst := image.NewRGBA(bounds)

	canvas, err := paint.Parse(s.Background.Color)
	if err != nil {
		return nil, fmt.Errorf("canvas color: %w", err)
	}
	draw.Draw(dst, bounds, image.NewUniform(canvas), image.Point{}, draw.Src)
	if bg != nil && s.Background.Image != "" {
		c.DrawBackground(dst, bg, s.Background.AspectRatio)
	}

	masks := c.Masks(s)

	layer := image.NewRGBA(bounds)
	for _, g := range s.Groups {
		clear(layer.Pix)
		for _, pos := range g.Paths {
			if err := c.Ink(layer, s.Paths[pos]); err != nil {
				return nil, err
			}
		}
		var m image.Image
		if g.MaskID != "" {
			m = masks[g.Index]
		}
		draw.DrawMask(dst, bounds, layer, image.Point{}, m, image.Point{}, draw.Over)
	}
	return dst, nil
}

// Masks computes the coverage masks of all eraser groups.  Mask n is
// opaque where the pen segment n stays visible and transparent where it
// was erased by eraser group n or any later group.
func (c *Compositor) Masks(s *scene.Scene) []*image.Alpha {
	groups := s.Layout.Groups
	if len(groups) == 0 {
		return nil
	}

	bounds := image.Rect(0, 0, s.Width, s.Height)
	keep := image.NewAlpha(bounds)
	for i := range keep.Pix {
		keep.Pix[i] = 0xFF
	}

	masks := make([]*image.Alpha, len(groups))
	for n := len(groups) - 1; n >= 0; n-- {
		for _, pos := range groups[n].Erasers {
			c.Erase(keep, s.Paths[pos])
		}
		m := image.NewAlpha(bounds)
		copy(m.Pix, keep.Pix)
		masks[n] = m
	}
	return masks
}

// Ink paints a pen stroke onto dst.
func (c *Compositor) Ink(dst *image.RGBA, p stroke.Path) error {
	col, err := paint.Parse(p.Style.Color)
	if err != nil {
		return fmt.Errorf("stroke %d: %w", p.Seq, err)
	}

	bounds := dst.Bounds()
	if c.scratch == nil || c.scratch.Bounds() != bounds {
		c.scratch = image.NewAlpha(bounds)
	}
	a := c.scratch
	dirty := image.Rectangle{}
	c.stroke(bounds, p, func(y, xMin int, coverage []float32) {
		row := a.Pix[a.PixOffset(xMin, y):]
		for i, v := range coverage {
			row[i] = uint8(v*255 + 0.5)
		}
		dirty = dirty.Union(image.Rect(xMin, y, xMin+len(coverage), y+1))
	})
	if dirty.Empty() {
		return nil
	}

	draw.DrawMask(dst, dirty, image.NewUniform(col), image.Point{}, a, dirty.Min, draw.Over)
	for y := dirty.Min.Y; y < dirty.Max.Y; y++ {
		clear(a.Pix[a.PixOffset(dirty.Min.X, y):a.PixOffset(dirty.Max.X, y)])
	}
	return nil
}

// Erase removes the coverage of an eraser stroke from the mask m.
func (c *Compositor) Erase(m *image.Alpha, p stroke.Path) {
	c.stroke(m.Bounds(), p, func(y, xMin int, coverage []float32) {
		row := m.Pix[m.PixOffset(xMin, y):]
		for i, v := range coverage {
			row[i] = uint8(float32(row[i])*(1-v) + 0.5)
		}
	})
}

// Coverage returns the coverage of a stroke as an alpha image.
func (c *Compositor) Coverage(bounds image.Rectangle, p stroke.Path) *image.Alpha {
	a := image.NewAlpha(bounds)
	c.stroke(bounds, p, func(y, xMin int, coverage []float32) {
		row := a.Pix[a.PixOffset(xMin, y):]
		for i, v := range coverage {
			row[i] = uint8(v*255 + 0.5)
		}
	})
	return a
}

func (c *Compositor) stroke(bounds image.Rectangle, p stroke.Path, emit EmitFunc) {
	c.r.Reset(rect.Rect{
		LLx: float64(bounds.Min.X), LLy: float64(bounds.Min.Y),
		URx: float64(bounds.Max.X), URy: float64(bounds.Max.Y),
	})
	c.r.Width = p.Style.Width
	c.r.Stroke(p.Curve(), emit)
}

// DrawBackground paints img over dst, fitted according to ar.
func (c *Compositor) DrawBackground(dst draw.Image, img image.Image, ar scene.AspectRatio) {
	sb := img.Bounds()
	if sb.Empty() {
		return
	}
	dr := FitRect(dst.Bounds(), sb, ar)
	c.Scaler.Scale(dst, dr, img, sb, draw.Over, nil)
}

// FitRect returns the destination rectangle for an image of size src
// placed on a canvas with bounds dst.  For AspectSlice the result may
// extend beyond dst.
func FitRect(dst, src image.Rectangle, ar scene.AspectRatio) image.Rectangle {
	dw, dh := float64(dst.Dx()), float64(dst.Dy())
	sw, sh := float64(src.Dx()), float64(src.Dy())

	var scale float64
	switch ar {
	case scene.AspectMeet:
		scale = min(dw/sw, dh/sh)
	case scene.AspectSlice:
		scale = max(dw/sw, dh/sh)
	default:
		return dst
	}

	w := int(sw*scale + 0.5)
	h := int(sh*scale + 0.5)
	x := dst.Min.X + (dst.Dx()-w)/2
	y := dst.Min.Y + (dst.Dy()-h)/2
	return image.Rect(x, y, x+w, y+h)
}

// Opaque returns a copy of img composited over the given color.  JPEG has
// no alpha channel, so images are flattened with this before encoding.
func Opaque(img *image.RGBA, bg color.Color) *image.RGBA {
	res := image.NewRGBA(img.Bounds())
	draw.Draw(res, res.Bounds(), image.NewUniform(bg), image.Point{}, draw.Src)
	draw.Draw(res, res.Bounds(), img, img.Bounds().Min, draw.Over)
	return res
}
