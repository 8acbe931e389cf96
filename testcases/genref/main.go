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

// Command genref writes reference output for visual inspection.
//
// For every scenario it writes the exports of the canvas (PNG, SVG and
// PDF) to testdata/output.  It also writes an independent ink coverage
// reference to testdata/reference: a PDF in which pen strokes are white
// and eraser strokes black, drawn in commit order on a black page, and a
// grayscale PNG rendered from it with Ghostscript.  The tests of the sketch
// package compare their rasterised coverage against these PNG files.
package main

import (
	"fmt"
	"maps"
	"os"
	"os/exec"
	"path/filepath"
	"slices"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/pdf"
	"seehuhn.de/go/pdf/document"
	"seehuhn.de/go/pdf/graphics"
	"seehuhn.de/go/pdf/graphics/color"

	"seehuhn.de/go/sketch"
	"seehuhn.de/go/sketch/export"
	"seehuhn.de/go/sketch/stroke"
	"seehuhn.de/go/sketch/testcases"
)

const (
	refDir = "testdata/reference"
	outDir = "testdata/output"
)

func main() {
	for _, dir := range []string{refDir, outDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			panic(err)
		}
	}

	for _, category := range slices.Sorted(maps.Keys(testcases.All)) {
		for _, sc := range testcases.All[category] {
			name := category + "_" + sc.Name

			c, err := sketch.NewScenarioCanvas(sc)
			if err != nil {
				panic(fmt.Errorf("%s: %w", name, err))
			}
			if err := sketch.Replay(c, sc); err != nil {
				panic(err)
			}

			if err := writeOutputs(c, filepath.Join(outDir, name)); err != nil {
				panic(fmt.Errorf("%s: %w", name, err))
			}

			pdfPath := filepath.Join(refDir, name+".pdf")
			pngPath := filepath.Join(refDir, name+".png")
			if err := generatePDF(sc, c.Paths(), pdfPath); err != nil {
				panic(fmt.Errorf("%s: %w", name, err))
			}
			if err := renderPNG(pdfPath, pngPath); err != nil {
				panic(fmt.Errorf("%s: %w", name, err))
			}
		}
	}
}

func writeOutputs(c *sketch.Canvas, base string) error {
	png, err := c.ExportRaster(export.PNG, false)
	if err != nil {
		return err
	}
	if err := os.WriteFile(base+".png", png, 0o644); err != nil {
		return err
	}

	svg, err := c.ExportSVG(false)
	if err != nil {
		return err
	}
	if err := os.WriteFile(base+".svg", []byte(svg), 0o644); err != nil {
		return err
	}

	f, err := os.Create(base + ".pdf")
	if err != nil {
		return err
	}
	if err := c.ExportPDF(f, false); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// generatePDF writes the ink coverage of the done log as a PDF file.
// Painting each eraser stroke in black over everything drawn before it
// gives the same coverage as the eraser masks.
func generatePDF(sc testcases.Scenario, paths []stroke.Path, pdfPath string) error {
	// one point per pixel
	paper := &pdf.Rectangle{
		URx: float64(sc.Width),
		URy: float64(sc.Height),
	}

	page, err := document.CreateSinglePage(pdfPath, paper, pdf.V1_7, nil)
	if err != nil {
		return err
	}

	page.SetFillColor(color.DeviceGray(0))
	page.Rectangle(0, 0, float64(sc.Width), float64(sc.Height))
	page.Fill()

	// PDF origin is bottom-left; canvas coordinates have y pointing down
	page.Transform(matrix.Matrix{1, 0, 0, -1, 0, float64(sc.Height)})

	page.SetLineCap(graphics.LineCapRound)
	page.SetLineJoin(graphics.LineJoinRound)
	for _, p := range paths {
		if p.IsEraser() {
			page.SetStrokeColor(color.DeviceGray(0))
		} else {
			page.SetStrokeColor(color.DeviceGray(1))
		}
		page.SetLineWidth(p.Style.Width)

		for cmd, pts := range p.Curve().Iter().ToCubic() {
			switch cmd {
			case path.CmdMoveTo:
				page.MoveTo(pts[0].X, pts[0].Y)
			case path.CmdLineTo:
				page.LineTo(pts[0].X, pts[0].Y)
			case path.CmdCubeTo:
				page.CurveTo(pts[0].X, pts[0].Y, pts[1].X, pts[1].Y, pts[2].X, pts[2].Y)
			case path.CmdClose:
				page.ClosePath()
			}
		}
		page.Stroke()
	}

	return page.Close()
}

func renderPNG(pdfPath, pngPath string) error {
	// -r72: one point per pixel; -dGraphicsAlphaBits=4: anti-aliasing
	cmd := exec.Command(
		"gs", "-q",
		"-sDEVICE=pnggray",
		"-r72",
		"-dGraphicsAlphaBits=4",
		"-o", pngPath,
		pdfPath,
	)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}
