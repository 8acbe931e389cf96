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
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"strings"
	"sync"
	"testing"
	"time"

	"seehuhn.de/go/sketch/config"
	"seehuhn.de/go/sketch/export"
	"seehuhn.de/go/sketch/scene"
	"seehuhn.de/go/sketch/stroke"
)

func newTestCanvas(t *testing.T) *Canvas {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Canvas.ID = "sketch"
	cfg.Canvas.Width = 300
	cfg.Canvas.Height = 300
	c, err := New(&cfg)
	if err != nil {
		t.Fatal(err)
	}
	return c
}

// drawSquare draws the outline of a square with the current tool.
func drawSquare(c *Canvas, x, y, size float64) bool {
	c.Begin(stroke.Point{X: x, Y: y})
	for _, p := range []stroke.Point{
		{X: x + size, Y: y},
		{X: x + size, Y: y + size},
		{X: x, Y: y + size},
		{X: x, Y: y},
	} {
		c.AddPoint(p)
	}
	return c.End()
}

func mustUndo(t *testing.T, c *Canvas) bool {
	t.Helper()
	ok, err := c.Undo()
	if err != nil {
		t.Fatal(err)
	}
	return ok
}

func mustRedo(t *testing.T, c *Canvas) bool {
	t.Helper()
	ok, err := c.Redo()
	if err != nil {
		t.Fatal(err)
	}
	return ok
}

func TestNewRandomID(t *testing.T) {
	a, err := New(nil)
	if err != nil {
		t.Fatal(err)
	}
	b, err := New(nil)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(a.ID(), "sketch-") {
		t.Errorf("unexpected id %q", a.ID())
	}
	if a.ID() == b.ID() {
		t.Errorf("two canvases share the id %q", a.ID())
	}
	if s := a.Scene(); s.Width != config.DefaultWidth || s.Height != config.DefaultHeight {
		t.Errorf("got %dx%d canvas", s.Width, s.Height)
	}
}

func TestNewInvalid(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Stroke.Width = 0
	if _, err := New(&cfg); err == nil {
		t.Error("invalid configuration accepted")
	}
}

func TestPenThenEraser(t *testing.T) {
	c := newTestCanvas(t)

	drawSquare(c, 100, 100, 50)
	s := c.Scene()
	if len(s.Paths) != 1 || len(s.Masks) != 0 || len(s.Erasers) != 0 {
		t.Fatalf("got %d paths, %d masks, %d erasers", len(s.Paths), len(s.Masks), len(s.Erasers))
	}
	if s.Groups[0].MaskID != "" {
		t.Error("unmasked group has a mask")
	}

	c.EraseMode(true)
	drawSquare(c, 100, 150, 50)
	s = c.Scene()
	if len(s.Masks) != 1 {
		t.Fatalf("got %d masks, want 1", len(s.Masks))
	}
	m := s.Masks[0]
	if len(m.Uses) != 2 {
		t.Errorf("mask has %d uses, want 2", len(m.Uses))
	}
	if s.Groups[0].MaskID != m.ID {
		t.Errorf("group mask %q, want %q", s.Groups[0].MaskID, m.ID)
	}
	if got := s.Paths[1].Style.Width; got != config.DefaultEraserWidth {
		t.Errorf("eraser width %g, want %g", got, config.DefaultEraserWidth)
	}

	svg, err := c.ExportSVG(false)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(svg, `mask="url(#sketch__eraser-mask-0)"`) {
		t.Error("SVG stroke group does not reference the mask")
	}
}

func TestTwoCycles(t *testing.T) {
	c := newTestCanvas(t)
	for range 2 {
		c.EraseMode(false)
		drawSquare(c, 100, 100, 50)
		c.EraseMode(true)
		drawSquare(c, 100, 150, 50)
	}

	s := c.Scene()
	if len(s.Erasers) != 2 {
		t.Errorf("eraser group holds %d paths, want 2", len(s.Erasers))
	}
	if len(s.Masks) != 2 {
		t.Fatalf("got %d masks, want 2", len(s.Masks))
	}
	if s.Masks[0].ID == s.Masks[1].ID {
		t.Error("masks share an identifier")
	}
	if got := len(s.Masks[0].Uses); got != 3 {
		t.Errorf("first mask has %d uses, want 3", got)
	}
	if got := len(s.Masks[1].Uses); got != 2 {
		t.Errorf("second mask has %d uses, want 2", got)
	}
}

func TestUndoRedoAll(t *testing.T) {
	c := newTestCanvas(t)
	const n = 5
	for i := range n {
		c.EraseMode(i%2 == 1)
		drawSquare(c, float64(10*i), 20, 30)
	}
	want := c.Paths()

	for range n {
		if !mustUndo(t, c) {
			t.Fatal("undo failed")
		}
	}
	if len(c.Paths()) != 0 || c.CanUndo() {
		t.Fatal("done log not empty after undoing everything")
	}
	if mustUndo(t, c) {
		t.Error("undo on empty canvas reported a change")
	}

	for range n {
		if !mustRedo(t, c) {
			t.Fatal("redo failed")
		}
	}
	if c.CanRedo() {
		t.Error("redo still possible")
	}
	got := c.Paths()
	if len(got) != len(want) {
		t.Fatalf("got %d paths, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i].Seq != want[i].Seq || got[i].Tool != want[i].Tool {
			t.Errorf("path %d differs after redo", i)
		}
	}
}

func TestCommitClearsRedo(t *testing.T) {
	c := newTestCanvas(t)
	drawSquare(c, 10, 10, 10)
	drawSquare(c, 20, 20, 10)
	mustUndo(t, c)
	if !c.CanRedo() {
		t.Fatal("nothing to redo")
	}
	drawSquare(c, 30, 30, 10)
	if c.CanRedo() || mustRedo(t, c) {
		t.Error("commit did not clear the redo log")
	}
}

func TestClear(t *testing.T) {
	c := newTestCanvas(t)
	drawSquare(c, 10, 10, 10)
	c.EraseMode(true)
	drawSquare(c, 15, 15, 10)
	before := c.Paths()

	ok, err := c.Clear()
	if err != nil || !ok {
		t.Fatalf("Clear() = %v, %v", ok, err)
	}
	if !c.Scene().IsEmpty() {
		t.Fatal("canvas not empty after clear")
	}
	if mustRedo(t, c) {
		t.Error("redo after clear reported a change")
	}
	if !c.Scene().IsEmpty() {
		t.Error("redo after clear restored strokes")
	}

	if !mustUndo(t, c) {
		t.Fatal("undo after clear failed")
	}
	after := c.Paths()
	if len(after) != len(before) {
		t.Fatalf("got %d paths after undo, want %d", len(after), len(before))
	}
	for i := range before {
		if after[i].Seq != before[i].Seq {
			t.Errorf("path %d not restored", i)
		}
	}

	// single undos proceed stroke by stroke
	mustUndo(t, c)
	if n := len(c.Paths()); n != 1 {
		t.Errorf("got %d paths, want 1", n)
	}
}

func TestClearEmpty(t *testing.T) {
	c := newTestCanvas(t)
	ok, err := c.Clear()
	if ok || err != nil {
		t.Errorf("Clear() = %v, %v on an empty canvas", ok, err)
	}
	if c.CanUndo() {
		t.Error("clearing an empty canvas created an undo entry")
	}
}

func TestReset(t *testing.T) {
	c := newTestCanvas(t)
	drawSquare(c, 10, 10, 10)
	drawSquare(c, 20, 20, 10)
	mustUndo(t, c)

	if err := c.Reset(); err != nil {
		t.Fatal(err)
	}
	for range 3 {
		mustUndo(t, c)
		mustRedo(t, c)
	}
	if !c.Scene().IsEmpty() {
		t.Error("strokes restored after reset")
	}
}

func TestPathsRoundTrip(t *testing.T) {
	c := newTestCanvas(t)
	for i := range 3 {
		c.EraseMode(false)
		drawSquare(c, float64(20*i), 20, 40)
		c.EraseMode(true)
		drawSquare(c, float64(20*i), 40, 40)
		drawSquare(c, float64(20*i), 60, 40)
	}
	data, err := c.ExportPaths()
	if err != nil {
		t.Fatal(err)
	}

	d := newTestCanvas(t)
	if err := d.LoadPathsJSON(data); err != nil {
		t.Fatal(err)
	}
	if d.CanRedo() {
		t.Error("loading paths left a redo entry")
	}

	a, b := c.Scene(), d.Scene()
	if len(a.Paths) != len(b.Paths) {
		t.Fatalf("got %d paths, want %d", len(b.Paths), len(a.Paths))
	}
	for i := range a.Paths {
		if a.Paths[i].Tool != b.Paths[i].Tool {
			t.Errorf("path %d: tool %v, want %v", i, b.Paths[i].Tool, a.Paths[i].Tool)
		}
	}
	if len(a.Masks) != len(b.Masks) || len(a.Groups) != len(b.Groups) {
		t.Fatal("eraser group structure differs")
	}
	for i := range a.Masks {
		if len(a.Masks[i].Uses) != len(b.Masks[i].Uses) {
			t.Errorf("mask %d: %d uses, want %d", i, len(b.Masks[i].Uses), len(a.Masks[i].Uses))
		}
	}

	sa, _ := c.ExportSVG(false)
	sb, _ := d.ExportSVG(false)
	if sa != sb {
		t.Error("SVG output differs after round trip")
	}
}

func TestLoadPathsInvalid(t *testing.T) {
	c := newTestCanvas(t)
	drawSquare(c, 10, 10, 10)
	before := c.Paths()

	err := c.LoadPathsJSON([]byte(`[{"drawMode":true,"strokeColor":"red","strokeWidth":4,"paths":[{"x":1,"y":2}]},{"drawMode":1}]`))
	var errs export.LoadErrors
	if !errors.As(err, &errs) {
		t.Fatalf("got %v, want LoadErrors", err)
	}
	if errs[0].Index != 1 {
		t.Errorf("error at index %d, want 1", errs[0].Index)
	}

	after := c.Paths()
	if len(after) != len(before) || after[0].Seq != before[0].Seq {
		t.Error("failed load modified the canvas")
	}
	if !c.CanUndo() {
		t.Error("failed load discarded the history")
	}
}

func TestLoadPathsOutOfRange(t *testing.T) {
	c := newTestCanvas(t)
	drawSquare(c, 10, 10, 10)

	err := c.LoadPaths([]stroke.Path{{
		Style:  stroke.Style{Color: "red", Width: 4},
		Points: []stroke.Point{{X: -1e300, Y: 0}, {X: 1e300, Y: 0}},
	}})
	var errs export.LoadErrors
	if !errors.As(err, &errs) || len(errs) != 2 {
		t.Fatalf("got %v, want two LoadErrors", err)
	}
	if errs[1].Index != 0 || errs[1].Field != "paths[1]" {
		t.Errorf("got %+v", errs[1])
	}
	if len(c.Paths()) != 1 {
		t.Error("failed load modified the canvas")
	}
}

func TestReadOnly(t *testing.T) {
	c := newTestCanvas(t)
	drawSquare(c, 10, 10, 10)
	c.SetReadOnly(true)
	if !c.ReadOnly() {
		t.Fatal("canvas is not read-only")
	}

	if drawSquare(c, 20, 20, 10) {
		t.Error("stroke committed on a read-only canvas")
	}
	if _, err := c.Undo(); !errors.Is(err, ErrReadOnly) {
		t.Errorf("Undo: got %v", err)
	}
	if _, err := c.Redo(); !errors.Is(err, ErrReadOnly) {
		t.Errorf("Redo: got %v", err)
	}
	if _, err := c.Clear(); !errors.Is(err, ErrReadOnly) {
		t.Errorf("Clear: got %v", err)
	}
	if err := c.Reset(); !errors.Is(err, ErrReadOnly) {
		t.Errorf("Reset: got %v", err)
	}
	if err := c.LoadPaths(nil); !errors.Is(err, ErrReadOnly) {
		t.Errorf("LoadPaths: got %v", err)
	}
	if len(c.Paths()) != 1 {
		t.Error("read-only canvas was modified")
	}
	if _, err := c.ExportRaster(export.PNG, false); err != nil {
		t.Errorf("export failed on a read-only canvas: %v", err)
	}

	c.SetReadOnly(false)
	if !drawSquare(c, 20, 20, 10) {
		t.Error("stroke not committed after leaving read-only mode")
	}
}

func TestStrokeInterruptedByHistory(t *testing.T) {
	c := newTestCanvas(t)
	drawSquare(c, 10, 10, 10)

	c.Begin(stroke.Point{X: 1, Y: 1})
	mustUndo(t, c)
	c.AddPoint(stroke.Point{X: 2, Y: 2})
	if c.End() {
		t.Error("interrupted stroke was committed")
	}
	if !c.Scene().IsEmpty() {
		t.Error("canvas not empty")
	}
}

func TestDot(t *testing.T) {
	// a click without movement commits a dot at the pointer-down position
	c := newTestCanvas(t)
	c.Begin(stroke.Point{X: 50, Y: 50})
	if !c.End() {
		t.Fatal("click not committed")
	}
	p := c.Paths()[0]
	if !p.IsDot() || p.Points[0] != (stroke.Point{X: 50, Y: 50}) {
		t.Errorf("got %+v, want a dot at (50, 50)", p)
	}

	if c.End() {
		t.Error("End without an open stroke committed")
	}
}

func TestOutOfRangePoints(t *testing.T) {
	c := newTestCanvas(t)
	c.Begin(stroke.Point{X: 1e300, Y: 0})
	if c.End() {
		t.Error("stroke starting far outside the canvas committed")
	}

	c.Begin(stroke.Point{X: 10, Y: 10})
	c.AddPoint(stroke.Point{X: -1e300, Y: 10})
	c.AddPoint(stroke.Point{X: 1e300, Y: 10})
	c.AddPoint(stroke.Point{X: 20, Y: 10})
	if !c.End() {
		t.Fatal("stroke not committed")
	}
	if n := len(c.Paths()[0].Points); n != 2 {
		t.Errorf("got %d points, want 2", n)
	}
}

func TestCallbacks(t *testing.T) {
	c := newTestCanvas(t)

	var mu sync.Mutex
	var changes []int
	var strokes []bool
	c.OnChange(func(paths []stroke.Path) {
		mu.Lock()
		defer mu.Unlock()
		changes = append(changes, len(paths))
	})
	c.OnStroke(func(p stroke.Path, isEraser bool) {
		mu.Lock()
		defer mu.Unlock()
		strokes = append(strokes, isEraser)
		// callbacks may use the canvas
		_ = c.Paths()
	})

	drawSquare(c, 10, 10, 10)
	c.EraseMode(true)
	drawSquare(c, 10, 10, 10)
	mustUndo(t, c)
	mustRedo(t, c)
	mustRedo(t, c) // no-op, no callback
	c.Clear()

	mu.Lock()
	defer mu.Unlock()
	wantChanges := []int{1, 2, 1, 2, 0}
	if len(changes) != len(wantChanges) {
		t.Fatalf("got changes %v, want %v", changes, wantChanges)
	}
	for i := range wantChanges {
		if changes[i] != wantChanges[i] {
			t.Errorf("got changes %v, want %v", changes, wantChanges)
			break
		}
	}
	if len(strokes) != 2 || strokes[0] || !strokes[1] {
		t.Errorf("got strokes %v", strokes)
	}
}

func TestSketchingTime(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.WithTimestamp = true
	c, err := New(&cfg)
	if err != nil {
		t.Fatal(err)
	}
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	c.rec.Now = func() time.Time {
		now = now.Add(time.Second)
		return now
	}

	drawSquare(c, 10, 10, 10)
	drawSquare(c, 20, 20, 10)
	if got := c.SketchingTime(); got != 2*time.Second {
		t.Errorf("got %v, want 2s", got)
	}
	mustUndo(t, c)
	if got := c.SketchingTime(); got != time.Second {
		t.Errorf("got %v after undo, want 1s", got)
	}

	d := newTestCanvas(t)
	drawSquare(d, 10, 10, 10)
	if got := d.SketchingTime(); got != 0 {
		t.Errorf("got %v without timestamps", got)
	}
}

func TestStyleSettings(t *testing.T) {
	c := newTestCanvas(t)
	if err := c.SetStrokeColor("not-a-color"); err == nil {
		t.Error("invalid color accepted")
	}
	if err := c.SetStrokeWidth(-1); err == nil {
		t.Error("negative width accepted")
	}
	if err := c.SetEraserWidth(0); err == nil {
		t.Error("zero eraser width accepted")
	}

	if err := c.SetStrokeColor("#00ff00"); err != nil {
		t.Fatal(err)
	}
	if err := c.SetStrokeWidth(7); err != nil {
		t.Fatal(err)
	}
	if err := c.SetEraserWidth(20); err != nil {
		t.Fatal(err)
	}
	drawSquare(c, 10, 10, 10)
	c.SetTool(stroke.Eraser)
	if c.Tool() != stroke.Eraser {
		t.Fatal("tool not set")
	}
	drawSquare(c, 10, 10, 10)

	paths := c.Paths()
	if want := (stroke.Style{Color: "#00ff00", Width: 7}); paths[0].Style != want {
		t.Errorf("pen style %v, want %v", paths[0].Style, want)
	}
	if paths[1].Style.Width != 20 {
		t.Errorf("eraser width %g, want 20", paths[1].Style.Width)
	}
}

// testBackground returns a data URI of a small blue PNG image.
func testBackground(t *testing.T) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 16, 8))
	for i := 0; i < len(img.Pix); i += 4 {
		copy(img.Pix[i:], []byte{0, 0, 255, 255})
	}
	buf := &bytes.Buffer{}
	if err := png.Encode(buf, img); err != nil {
		t.Fatal(err)
	}
	return export.EncodeDataURI("image/png", buf.Bytes())
}

func TestExportLargerThanEmpty(t *testing.T) {
	bg := testBackground(t)
	for _, f := range []export.Format{export.PNG, export.JPEG} {
		for _, withBg := range []bool{false, true} {
			empty := newTestCanvas(t)
			full := newTestCanvas(t)
			for _, c := range []*Canvas{empty, full} {
				c.SetBackgroundImage(bg, scene.AspectMeet)
			}
			drawSquare(full, 100, 100, 50)

			a, err := empty.ExportImage(f, withBg)
			if err != nil {
				t.Fatal(err)
			}
			b, err := full.ExportImage(f, withBg)
			if err != nil {
				t.Fatal(err)
			}
			prefix := "data:" + f.MIME() + ";base64,"
			if !strings.HasPrefix(a, prefix) || !strings.HasPrefix(b, prefix) {
				t.Errorf("%s: wrong data URI prefix", f)
			}
			if len(b) <= len(a) {
				t.Errorf("%s, background %t: drawing is %d bytes, empty canvas %d",
					f, withBg, len(b), len(a))
			}
		}
	}
}

func TestExportOnlyErasers(t *testing.T) {
	empty := newTestCanvas(t)
	erased := newTestCanvas(t)
	erased.EraseMode(true)
	drawSquare(erased, 100, 100, 50)
	drawSquare(erased, 120, 120, 50)
	if len(erased.Paths()) != 2 {
		t.Fatal("eraser strokes not committed")
	}

	for _, f := range []export.Format{export.PNG, export.JPEG} {
		a, err := empty.ExportRaster(f, false)
		if err != nil {
			t.Fatal(err)
		}
		b, err := erased.ExportRaster(f, false)
		if err != nil {
			t.Fatal(err)
		}
		if !bytes.Equal(a, b) {
			t.Errorf("%s: eraser strokes changed the image", f)
		}
	}
}

func TestExportBackground(t *testing.T) {
	c := newTestCanvas(t)
	c.SetBackgroundImage(testBackground(t), scene.AspectNone)

	decode := func(withBg bool) color.Color {
		data, err := c.ExportRaster(export.PNG, withBg)
		if err != nil {
			t.Fatal(err)
		}
		img, err := png.Decode(bytes.NewReader(data))
		if err != nil {
			t.Fatal(err)
		}
		return img.At(5, 5)
	}
	if r, g, b, _ := decode(true).RGBA(); r > 0x0200 || g > 0x0200 || b < 0xfd00 {
		t.Errorf("background image missing: %d %d %d", r, g, b)
	}
	if r, g, b, _ := decode(false).RGBA(); r != 0xffff || g != 0xffff || b != 0xffff {
		t.Errorf("background image not omitted: %d %d %d", r, g, b)
	}

	svg, err := c.ExportSVG(true)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(svg, "<pattern") {
		t.Error("SVG without background pattern")
	}
	svg, err = c.ExportSVG(false)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(svg, "<pattern") {
		t.Error("SVG contains background pattern")
	}
}

func TestExportBadBackground(t *testing.T) {
	c := newTestCanvas(t)
	c.SetBackgroundImage("data:image/png;base64,AAAA", scene.AspectNone)
	if _, err := c.ExportRaster(export.PNG, true); !errors.Is(err, export.ErrBackground) {
		t.Errorf("got %v, want ErrBackground", err)
	}
	if _, err := c.ExportRaster(export.PNG, false); err != nil {
		t.Errorf("export without background failed: %v", err)
	}
}

func TestExportDefault(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Export.ImageType = "jpeg"
	c, err := New(&cfg)
	if err != nil {
		t.Fatal(err)
	}
	uri, err := c.ExportDefault()
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(uri, "data:image/jpeg;base64,") {
		t.Errorf("unexpected prefix in %.30s", uri)
	}
}

func TestExportPDF(t *testing.T) {
	c := newTestCanvas(t)
	drawSquare(c, 100, 100, 50)
	c.EraseMode(true)
	drawSquare(c, 100, 150, 50)

	buf := &bytes.Buffer{}
	if err := c.ExportPDF(buf, false); err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")) {
		t.Error("output is not a PDF file")
	}
}

func TestConcurrentUse(t *testing.T) {
	c := newTestCanvas(t)
	var wg sync.WaitGroup
	for i := range 4 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range 10 {
				drawSquare(c, float64(10*i), float64(10*j), 5)
				if _, err := c.ExportSVG(false); err != nil {
					t.Error(err)
				}
			}
		}()
	}
	wg.Wait()

	// interleaved gestures may discard each other
	if n := len(c.Paths()); n > 40 {
		t.Errorf("got %d paths from 40 strokes", n)
	}
}
