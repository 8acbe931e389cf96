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

package export

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"math"

	"github.com/jung-kurt/gofpdf"
	"golang.org/x/image/draw"
	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/pdf/graphics"

	"seehuhn.de/go/sketch/paint"
	"seehuhn.de/go/sketch/raster"
	"seehuhn.de/go/sketch/scene"
	"seehuhn.de/go/sketch/stroke"
)

// PDF writes the scene as a single-page PDF document.  One canvas pixel
// corresponds to one PDF point.
//
// Pen strokes are written as vector paths.  PDF has no equivalent of the
// eraser masks.  On an opaque canvas the strokes are painted in commit
// order and every eraser stroke paints the background over the ink drawn
// before it: in the canvas color, or, if bg is not nil and the scene has a
// background image, as an image patch cut out along the eraser's coverage.
// If the canvas color is not opaque, painting cannot remove ink.  Then
// every masked stroke group is embedded as an image with an alpha
// channel, rasterised through its mask, and only the unmasked strokes
// stay vector paths.
func PDF(w io.Writer, s *scene.Scene, bg image.Image) error {
	return writePDF(w, s, bg, true)
}

func writePDF(w io.Writer, s *scene.Scene, bg image.Image, compress bool) error {
	if s.Width <= 0 || s.Height <= 0 {
		return fmt.Errorf("invalid canvas size %dx%d", s.Width, s.Height)
	}
	canvas, err := paint.Parse(s.Background.Color)
	if err != nil {
		return fmt.Errorf("canvas color: %w", err)
	}

	pw, ph := float64(s.Width), float64(s.Height)
	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		UnitStr: "pt",
		Size:    gofpdf.SizeType{Wd: pw, Ht: ph},
	})
	pdf.SetCompression(compress)
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()

	e := &pdfPainter{pdf: pdf, canvas: canvas, c: raster.NewCompositor()}
	if bg != nil && s.Background.Image != "" {
		// the canvas color is part of the image
		base := image.NewRGBA(image.Rect(0, 0, s.Width, s.Height))
		draw.Draw(base, base.Bounds(), image.NewUniform(canvas), image.Point{}, draw.Src)
		e.c.DrawBackground(base, bg, s.Background.AspectRatio)
		if err := e.placeImage("background", base, base.Bounds()); err != nil {
			return err
		}
		e.base = base
	} else if canvas.A > 0 {
		pdf.SetFillColor(int(canvas.R), int(canvas.G), int(canvas.B))
		if canvas.A < 0xFF {
			pdf.SetAlpha(float64(canvas.A)/255, "Normal")
		}
		pdf.Rect(0, 0, pw, ph, "F")
		if canvas.A < 0xFF {
			pdf.SetAlpha(1, "Normal")
		}
	}

	pdf.SetLineCapStyle(capStyle(graphics.LineCapRound))
	pdf.SetLineJoinStyle(joinStyle(graphics.LineJoinRound))
	if canvas.A < 0xFF {
		err = e.maskedGroups(s)
	} else {
		err = e.commitOrder(s)
	}
	if err != nil {
		return err
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("pdf: %w", err)
	}
	return nil
}

// pdfPainter paints strokes onto a PDF page.
type pdfPainter struct {
	pdf    *gofpdf.Fpdf
	canvas color.NRGBA

	// base is the rendered background, or nil if there is no image
	base *image.RGBA
	c    *raster.Compositor
	n    int
}

// commitOrder paints all strokes in commit order.  This requires an
// opaque background.
func (e *pdfPainter) commitOrder(s *scene.Scene) error {
	for _, p := range s.Paths {
		if p.IsEraser() {
			if err := e.erase(p); err != nil {
				return err
			}
			continue
		}
		if err := e.pen(p); err != nil {
			return err
		}
	}
	return nil
}

// maskedGroups paints the stroke groups in order.  Groups with a mask are
// rasterised through the mask and embedded as images.
func (e *pdfPainter) maskedGroups(s *scene.Scene) error {
	bounds := image.Rect(0, 0, s.Width, s.Height)
	masks := e.c.Masks(s)
	for _, g := range s.Groups {
		if g.MaskID == "" {
			for _, pos := range g.Paths {
				if err := e.pen(s.Paths[pos]); err != nil {
					return err
				}
			}
			continue
		}

		layer := image.NewRGBA(bounds)
		for _, pos := range g.Paths {
			if err := e.c.Ink(layer, s.Paths[pos]); err != nil {
				return err
			}
		}

		// layer is premultiplied, so all four channels scale with the mask
		m := masks[g.Index]
		dirty := image.Rectangle{}
		for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
			for x := bounds.Min.X; x < bounds.Max.X; x++ {
				i := layer.PixOffset(x, y)
				px := layer.Pix[i : i+4 : i+4]
				if px[3] == 0 {
					continue
				}
				a := uint32(m.AlphaAt(x, y).A)
				for k := range px {
					px[k] = uint8((uint32(px[k])*a + 127) / 255)
				}
				if px[3] != 0 {
					dirty = dirty.Union(image.Rect(x, y, x+1, y+1))
				}
			}
		}
		if dirty.Empty() {
			continue
		}
		name := fmt.Sprintf("group-%d", g.Index)
		if err := e.placeImage(name, layer.SubImage(dirty), dirty); err != nil {
			return err
		}
	}
	return nil
}

func (e *pdfPainter) pen(p stroke.Path) error {
	col, err := paint.Parse(p.Style.Color)
	if err != nil {
		return fmt.Errorf("stroke %d: %w", p.Seq, err)
	}
	strokePDF(e.pdf, p, col)
	return nil
}

// erase paints the background over an eraser stroke.
func (e *pdfPainter) erase(p stroke.Path) error {
	if e.base == nil {
		strokePDF(e.pdf, p, e.canvas)
		return nil
	}

	b := p.Bounds()
	r := image.Rect(
		int(math.Floor(b.LLx)), int(math.Floor(b.LLy)),
		int(math.Ceil(b.URx)), int(math.Ceil(b.URy)),
	).Intersect(e.base.Bounds())
	if r.Empty() {
		return nil
	}

	cov := e.c.Coverage(r, p)
	patch := image.NewNRGBA(r)
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			a := cov.AlphaAt(x, y).A
			if a == 0 {
				continue
			}
			c := e.base.RGBAAt(x, y)
			patch.SetNRGBA(x, y, color.NRGBA{R: c.R, G: c.G, B: c.B, A: a})
		}
	}
	e.n++
	return e.placeImage(fmt.Sprintf("eraser-%d", e.n), patch, r)
}

// placeImage embeds img as a PNG and draws it over the rectangle r.
func (e *pdfPainter) placeImage(name string, img image.Image, r image.Rectangle) error {
	buf := &bytes.Buffer{}
	if err := png.Encode(buf, img); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	e.pdf.RegisterImageOptionsReader(name, opts, buf)
	e.pdf.ImageOptions(name,
		float64(r.Min.X), float64(r.Min.Y), float64(r.Dx()), float64(r.Dy()),
		false, opts, 0, "")
	if !e.pdf.Ok() {
		return fmt.Errorf("%s: %w", name, e.pdf.Error())
	}
	return nil
}

func strokePDF(pdf *gofpdf.Fpdf, p stroke.Path, col color.NRGBA) {
	pdf.SetDrawColor(int(col.R), int(col.G), int(col.B))
	pdf.SetLineWidth(p.Style.Width)
	if col.A < 0xFF {
		pdf.SetAlpha(float64(col.A)/255, "Normal")
		defer pdf.SetAlpha(1, "Normal")
	}

	d := p.Curve()
	k := 0
	for _, cmd := range d.Cmds {
		switch cmd {
		case path.CmdMoveTo:
			pdf.MoveTo(d.Coords[k].X, d.Coords[k].Y)
			k++
		case path.CmdLineTo:
			pdf.LineTo(d.Coords[k].X, d.Coords[k].Y)
			k++
		case path.CmdQuadTo:
			pdf.CurveTo(d.Coords[k].X, d.Coords[k].Y, d.Coords[k+1].X, d.Coords[k+1].Y)
			k += 2
		case path.CmdCubeTo:
			c1, c2, v := d.Coords[k], d.Coords[k+1], d.Coords[k+2]
			pdf.CurveBezierCubicTo(c1.X, c1.Y, c2.X, c2.Y, v.X, v.Y)
			k += 3
		case path.CmdClose:
			pdf.ClosePath()
		}
	}
	pdf.DrawPath("D")
}

func capStyle(c graphics.LineCapStyle) string {
	switch c {
	case graphics.LineCapRound:
		return "round"
	case graphics.LineCapSquare:
		return "square"
	}
	return "butt"
}

func joinStyle(j graphics.LineJoinStyle) string {
	switch j {
	case graphics.LineJoinRound:
		return "round"
	case graphics.LineJoinBevel:
		return "bevel"
	}
	return "miter"
}
