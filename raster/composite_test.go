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
	"image"
	"image/color"
	"testing"

	"golang.org/x/image/draw"

	"seehuhn.de/go/sketch/scene"
	"seehuhn.de/go/sketch/stroke"
)

func line(tool stroke.Tool, col string, x0, y0, x1, y1 float64) stroke.Path {
	return stroke.Path{
		Tool:   tool,
		Style:  stroke.Style{Color: col, Width: 10},
		Points: []stroke.Point{{X: x0, Y: y0}, {X: x1, Y: y1}},
	}
}

func rgbaAt(img *image.RGBA, x, y int) color.RGBA {
	return img.RGBAAt(x, y)
}

var (
	white = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	black = color.RGBA{A: 255}
	red   = color.RGBA{R: 255, A: 255}
	green = color.RGBA{G: 128, A: 255}
)

func render(t *testing.T, opts scene.Options, paths []stroke.Path, bg image.Image) *image.RGBA {
	t.Helper()
	c := NewCompositor()
	c.Scaler = draw.NearestNeighbor
	img, err := c.Render(scene.Build(opts, paths), bg)
	if err != nil {
		t.Fatal(err)
	}
	return img
}

var canvas100 = scene.Options{ID: "c", Width: 100, Height: 100, CanvasColor: "white"}

func TestRenderEmpty(t *testing.T) {
	img := render(t, canvas100, nil, nil)
	for _, pt := range []image.Point{{0, 0}, {50, 50}, {99, 99}} {
		if got := rgbaAt(img, pt.X, pt.Y); got != white {
			t.Errorf("pixel %v: got %v, want white", pt, got)
		}
	}
}

func TestRenderEraser(t *testing.T) {
	paths := []stroke.Path{
		line(stroke.Pen, "black", 10, 50, 90, 50),
		line(stroke.Eraser, "white", 50, 10, 50, 90),
	}
	img := render(t, canvas100, paths, nil)

	if got := rgbaAt(img, 30, 50); got != black {
		t.Errorf("ink: got %v, want black", got)
	}
	if got := rgbaAt(img, 50, 50); got != white {
		t.Errorf("erased ink: got %v, want white", got)
	}
	if got := rgbaAt(img, 50, 20); got != white {
		t.Errorf("eraser without ink: got %v, want white", got)
	}

	// ink drawn after the eraser is not affected
	paths = append(paths, line(stroke.Pen, "red", 40, 50, 60, 50))
	img = render(t, canvas100, paths, nil)
	if got := rgbaAt(img, 50, 50); got != red {
		t.Errorf("later ink: got %v, want red", got)
	}
	if got := rgbaAt(img, 30, 50); got != black {
		t.Errorf("earlier ink: got %v, want black", got)
	}
}

func TestRenderLaterEraserMasksEarlierGroups(t *testing.T) {
	paths := []stroke.Path{
		line(stroke.Pen, "black", 10, 30, 90, 30),
		line(stroke.Eraser, "white", 80, 10, 80, 20),
		line(stroke.Pen, "black", 10, 70, 90, 70),
		line(stroke.Eraser, "white", 50, 10, 50, 90),
	}
	img := render(t, canvas100, paths, nil)

	for _, y := range []int{30, 70} {
		if got := rgbaAt(img, 50, y); got != white {
			t.Errorf("y=%d: got %v, want erased", y, got)
		}
		if got := rgbaAt(img, 30, y); got != black {
			t.Errorf("y=%d: got %v, want ink", y, got)
		}
	}
}

func TestRenderBackground(t *testing.T) {
	bg := image.NewUniform(green)
	src := image.NewRGBA(image.Rect(0, 0, 10, 10))
	draw.Draw(src, src.Bounds(), bg, image.Point{}, draw.Src)

	opts := scene.Options{
		ID: "c", Width: 100, Height: 50, CanvasColor: "red",
		BackgroundImage: "bg.png",
		AspectRatio:     scene.AspectMeet,
	}
	img := render(t, opts, nil, src)
	if got := rgbaAt(img, 10, 25); got != red {
		t.Errorf("outside image: got %v, want red", got)
	}
	if got := rgbaAt(img, 50, 25); got != green {
		t.Errorf("inside image: got %v, want green", got)
	}

	// erasing reveals the image
	paths := []stroke.Path{
		line(stroke.Pen, "black", 0, 25, 100, 25),
		line(stroke.Eraser, "white", 50, 0, 50, 50),
	}
	img = render(t, opts, paths, src)
	if got := rgbaAt(img, 50, 25); got != green {
		t.Errorf("erased ink: got %v, want green", got)
	}
	if got := rgbaAt(img, 10, 25); got != black {
		t.Errorf("ink: got %v, want black", got)
	}

	opts.OmitBackgroundImage = true
	img = render(t, opts, nil, src)
	if got := rgbaAt(img, 50, 25); got != red {
		t.Errorf("omitted image: got %v, want red", got)
	}
}

func TestRenderErrors(t *testing.T) {
	c := NewCompositor()
	if _, err := c.Render(scene.Build(scene.Options{CanvasColor: "white"}, nil), nil); err == nil {
		t.Error("empty canvas size accepted")
	}

	opts := canvas100
	opts.CanvasColor = "no-such-color"
	if _, err := c.Render(scene.Build(opts, nil), nil); err == nil {
		t.Error("invalid canvas color accepted")
	}

	paths := []stroke.Path{line(stroke.Pen, "#12", 0, 0, 10, 10)}
	if _, err := c.Render(scene.Build(canvas100, paths), nil); err == nil {
		t.Error("invalid stroke color accepted")
	}
}

func TestFitRect(t *testing.T) {
	dst := image.Rect(0, 0, 200, 100)
	src := image.Rect(0, 0, 50, 50)

	tests := []struct {
		ar   scene.AspectRatio
		want image.Rectangle
	}{
		{scene.AspectNone, image.Rect(0, 0, 200, 100)},
		{scene.AspectMeet, image.Rect(50, 0, 150, 100)},
		{scene.AspectSlice, image.Rect(0, -50, 200, 150)},
	}
	for _, tc := range tests {
		if got := FitRect(dst, src, tc.ar); got != tc.want {
			t.Errorf("%s: got %v, want %v", tc.ar, got, tc.want)
		}
	}
}

func TestCoverage(t *testing.T) {
	c := NewCompositor()
	p := stroke.Path{
		Style:  stroke.Style{Width: 6},
		Points: []stroke.Point{{X: 10, Y: 10}},
	}
	a := c.Coverage(image.Rect(0, 0, 20, 20), p)
	if a.AlphaAt(10, 10).A != 255 {
		t.Errorf("dot centre alpha %d", a.AlphaAt(10, 10).A)
	}
	if a.AlphaAt(0, 0).A != 0 {
		t.Errorf("outside alpha %d", a.AlphaAt(0, 0).A)
	}
}
