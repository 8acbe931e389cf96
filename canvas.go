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

// Package sketch implements a freehand drawing surface.
//
// A [Canvas] records pen and eraser strokes, keeps an undo/redo history
// and exports the drawing as a PNG or JPEG image, as an SVG document or as
// a PDF file.  Eraser strokes never delete ink.  Instead they become masks
// which hide the pen strokes drawn before them, so that every eraser
// stroke can be undone like any other stroke.
package sketch

//go:generate go run ./testcases/export
//go:generate go run ./testcases/genref

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"io"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"seehuhn.de/go/sketch/config"
	"seehuhn.de/go/sketch/export"
	"seehuhn.de/go/sketch/history"
	"seehuhn.de/go/sketch/paint"
	"seehuhn.de/go/sketch/scene"
	"seehuhn.de/go/sketch/stroke"
)

// ErrReadOnly is returned by operations which would modify a read-only
// canvas.
var ErrReadOnly = errors.New("canvas is read-only")

// Canvas is a drawing surface.  All methods are safe for concurrent use;
// callbacks are run after the canvas lock has been released.
type Canvas struct {
	mu sync.Mutex

	opts       scene.Options
	exportType export.Format
	exportBg   bool

	hist history.Stack
	rec  Recorder

	tool        stroke.Tool
	penStyle    stroke.Style
	eraserWidth float64
	readOnly    bool

	// scene is rebuilt after every change of the done log
	scene *scene.Scene

	bg    image.Image
	bgRef string

	onChange func([]stroke.Path)
	onStroke func(stroke.Path, bool)
}

// New creates a canvas.  If cfg is nil, the default configuration is used.
// If no id is configured, a random one is generated.
func New(cfg *config.Config) (*Canvas, error) {
	if cfg == nil {
		c := config.DefaultConfig()
		cfg = &c
	}
	res := config.NewValidator().WithFileChecks(false).Validate(cfg)
	if err := res.Error(); err != nil {
		return nil, err
	}
	for _, w := range res.Warnings {
		Logger().Warn("configuration", "field", w.Field, "problem", w.Message)
	}

	ar, _ := scene.ParseAspectRatio(cfg.Canvas.PreserveAspectRatio)
	format, _ := export.ParseFormat(cfg.Export.ImageType)
	id := cfg.Canvas.ID
	if id == "" {
		id = "sketch-" + uuid.NewString()
	}

	c := &Canvas{
		opts: scene.Options{
			ID:              id,
			Width:           cfg.Canvas.Width,
			Height:          cfg.Canvas.Height,
			CanvasColor:     cfg.Canvas.Color,
			BackgroundImage: cfg.Canvas.BackgroundImage,
			AspectRatio:     ar,
		},
		exportType:  format,
		exportBg:    cfg.Export.WithBackgroundImage,
		penStyle:    stroke.Style{Color: cfg.Stroke.Color, Width: cfg.Stroke.Width},
		eraserWidth: cfg.Stroke.EraserWidth,
		readOnly:    cfg.ReadOnly,
	}
	if cfg.WithTimestamp {
		c.rec.Now = time.Now
	}
	c.rebuild()
	return c, nil
}

// ID returns the prefix of all element identifiers.
func (c *Canvas) ID() string {
	return c.opts.ID
}

// SetTool selects the tool for the next stroke.
func (c *Canvas) SetTool(t stroke.Tool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tool = t
}

// Tool returns the currently selected tool.
func (c *Canvas) Tool() stroke.Tool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.tool
}

// EraseMode switches between the eraser and the pen.
func (c *Canvas) EraseMode(erase bool) {
	if erase {
		c.SetTool(stroke.Eraser)
	} else {
		c.SetTool(stroke.Pen)
	}
}

// SetStrokeColor sets the pen color for the next stroke.
func (c *Canvas) SetStrokeColor(color string) error {
	if _, err := paint.Parse(color); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.penStyle.Color = color
	return nil
}

// SetStrokeWidth sets the pen width for the next stroke.
func (c *Canvas) SetStrokeWidth(w float64) error {
	if !(w > 0) {
		return fmt.Errorf("invalid stroke width %g", w)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.penStyle.Width = w
	return nil
}

// SetEraserWidth sets the eraser width for the next stroke.
func (c *Canvas) SetEraserWidth(w float64) error {
	if !(w > 0) {
		return fmt.Errorf("invalid eraser width %g", w)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.eraserWidth = w
	return nil
}

// SetBackgroundImage replaces the background image.  ref is a data URI or
// a file name; the empty string removes the image.  The image is loaded
// when it is first needed for an export.
func (c *Canvas) SetBackgroundImage(ref string, ar scene.AspectRatio) {
	c.mu.Lock()
	c.opts.BackgroundImage = ref
	c.opts.AspectRatio = ar
	c.bg, c.bgRef = nil, ""
	c.rebuild()
	c.mu.Unlock()
}

// SetReadOnly enables or disables read-only mode.  Entering read-only
// mode discards a stroke in progress.
func (c *Canvas) SetReadOnly(readOnly bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.readOnly = readOnly
	if readOnly {
		c.rec.Cancel()
	}
}

// ReadOnly reports whether the canvas is read-only.
func (c *Canvas) ReadOnly() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.readOnly
}

// OnChange registers a function which is called with the done log after
// every change.  Pass nil to remove it.
func (c *Canvas) OnChange(fn func(paths []stroke.Path)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onChange = fn
}

// OnStroke registers a function which is called after every committed
// stroke.  isEraser tells eraser strokes from pen strokes.
func (c *Canvas) OnStroke(fn func(p stroke.Path, isEraser bool)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onStroke = fn
}

// Begin starts a stroke at the pointer-down position at, with the current
// tool and style.  Ending the stroke without further points commits a
// dot.  On a read-only canvas, or if at lies outside the drawable
// coordinate range, Begin does nothing.
func (c *Canvas) Begin(at stroke.Point) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.readOnly {
		return
	}
	style := c.penStyle
	if c.tool == stroke.Eraser {
		style.Width = c.eraserWidth
	}
	c.rec.Begin(c.tool, style, at)
}

// AddPoint extends the current stroke.  Points arriving while no stroke
// is in progress, and points outside the drawable coordinate range, are
// ignored.
func (c *Canvas) AddPoint(p stroke.Point) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rec.AddPoint(p)
}

// End finishes the current stroke and commits it to the history.  It
// reports whether a stroke was committed.
func (c *Canvas) End() bool {
	c.mu.Lock()
	p, ok := c.rec.End()
	if !ok {
		c.mu.Unlock()
		return false
	}
	p = c.hist.Push(p)
	Logger().Debug("commit", "op", "push", "seq", p.Seq, "tool", p.Tool, "points", len(p.Points))
	c.rebuild()
	paths, onChange, onStroke := slices.Clone(c.scene.Paths), c.onChange, c.onStroke
	c.mu.Unlock()

	if onStroke != nil {
		onStroke(p, p.IsEraser())
	}
	if onChange != nil {
		onChange(paths)
	}
	return true
}

// Undo reverts the most recent operation.  It reports whether there was
// anything to undo.
func (c *Canvas) Undo() (bool, error) {
	return c.mutate("undo", c.hist.Undo)
}

// Redo reapplies the most recently undone operation.  It reports whether
// there was anything to redo.
func (c *Canvas) Redo() (bool, error) {
	return c.mutate("redo", c.hist.Redo)
}

// Clear removes all strokes from the canvas.  A single Undo restores them.
// It reports whether there was anything to clear.
func (c *Canvas) Clear() (bool, error) {
	return c.mutate("clear", c.hist.Clear)
}

// Reset removes all strokes and discards the history.
func (c *Canvas) Reset() error {
	_, err := c.mutate("reset", func() bool {
		c.hist.Reset()
		return true
	})
	return err
}

// LoadPaths replaces the strokes and discards the history.  The loaded
// strokes can be undone one by one, as if they had just been drawn.
// Paths without points or with out-of-range points are rejected with an
// error of type [export.LoadErrors], and the canvas is left unchanged.
func (c *Canvas) LoadPaths(paths []stroke.Path) error {
	var errs export.LoadErrors
	for i, p := range paths {
		if len(p.Points) == 0 {
			errs = append(errs, &export.LoadError{Index: i, Field: "paths", Reason: "no points"})
		}
		for j, pt := range p.Points {
			if !pt.Valid() {
				errs = append(errs, &export.LoadError{
					Index:  i,
					Field:  fmt.Sprintf("paths[%d]", j),
					Reason: fmt.Sprintf("(%g, %g) is out of range", pt.X, pt.Y),
				})
			}
		}
	}
	if errs != nil {
		return errs
	}

	_, err := c.mutate("load", func() bool {
		c.hist.Load(paths)
		return true
	})
	return err
}

// LoadPathsJSON replaces the strokes by the paths in a path-load document.
// If the document is malformed, the canvas is left unchanged and the
// error is of type [export.LoadErrors].
func (c *Canvas) LoadPathsJSON(data []byte) error {
	paths, err := export.UnmarshalPaths(data)
	if err != nil {
		return err
	}
	return c.LoadPaths(paths)
}

// mutate runs op on the history while holding the lock.  If op reports a
// change, the scene is rebuilt and the change callback is run.
func (c *Canvas) mutate(name string, op func() bool) (bool, error) {
	c.mu.Lock()
	if c.readOnly {
		c.mu.Unlock()
		return false, ErrReadOnly
	}
	if c.rec.Active() {
		// history operations end a stroke in progress
		c.rec.Cancel()
	}
	changed := op()
	Logger().Debug("history", "op", name, "changed", changed, "paths", c.hist.Len())
	if !changed {
		c.mu.Unlock()
		return false, nil
	}
	c.rebuild()
	paths, onChange := slices.Clone(c.scene.Paths), c.onChange
	c.mu.Unlock()

	if onChange != nil {
		onChange(paths)
	}
	return true, nil
}

// rebuild recomputes the scene.  The caller must hold c.mu.
func (c *Canvas) rebuild() {
	c.scene = scene.Build(c.opts, c.hist.Paths())
}

// Paths returns a copy of the done log.
func (c *Canvas) Paths() []stroke.Path {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.scene.Paths)
}

// ExportPaths returns the done log in the path-load format.
func (c *Canvas) ExportPaths() ([]byte, error) {
	return export.MarshalPaths(c.Paths())
}

// Scene returns the current scene.  Scenes are never modified, so the
// result stays valid after further changes to the canvas.
func (c *Canvas) Scene() *scene.Scene {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.scene
}

// CanUndo reports whether Undo would change the canvas.
func (c *Canvas) CanUndo() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hist.CanUndo()
}

// CanRedo reports whether Redo would change the canvas.
func (c *Canvas) CanRedo() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hist.CanRedo()
}

// SketchingTime returns the total time spent drawing the visible strokes.
// It is zero unless timestamps are enabled.
func (c *Canvas) SketchingTime() time.Duration {
	var total time.Duration
	for _, p := range c.Paths() {
		total += p.Duration()
	}
	return total
}

// snapshot returns the scene to export, together with the decoded
// background image if it is needed.
func (c *Canvas) snapshot(withBackground, decode bool) (*scene.Scene, image.Image, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !withBackground || c.opts.BackgroundImage == "" {
		opts := c.opts
		opts.OmitBackgroundImage = true
		return scene.Build(opts, c.scene.Paths), nil, nil
	}
	if !decode {
		return c.scene, nil, nil
	}
	if c.bg == nil || c.bgRef != c.opts.BackgroundImage {
		img, err := export.LoadBackground(c.opts.BackgroundImage)
		if err != nil {
			Logger().Warn("background image", "err", err)
			return nil, nil, err
		}
		c.bg, c.bgRef = img, c.opts.BackgroundImage
	}
	return c.scene, c.bg, nil
}

// ExportRaster renders the canvas in the given format.  The empty format
// selects the configured image type.
//
// A drawing with visible ink encodes to more bytes than the empty canvas.
// Eraser strokes alone add no ink, so a done log holding only eraser
// strokes renders exactly like the empty canvas.
func (c *Canvas) ExportRaster(f export.Format, withBackground bool) ([]byte, error) {
	if f == "" {
		f = c.exportType
	}
	s, bg, err := c.snapshot(withBackground, true)
	if err != nil {
		return nil, err
	}
	data, err := export.Raster(s, bg, f)
	if err != nil {
		Logger().Warn("export failed", "format", f, "err", err)
		return nil, err
	}
	return data, nil
}

// ExportImage renders the canvas and returns it as a base64 data URI.
// The empty format selects the configured image type.
func (c *Canvas) ExportImage(f export.Format, withBackground bool) (string, error) {
	if f == "" {
		f = c.exportType
	}
	data, err := c.ExportRaster(f, withBackground)
	if err != nil {
		return "", err
	}
	return export.EncodeDataURI(f.MIME(), data), nil
}

// ExportSVG returns the canvas as an SVG document.
func (c *Canvas) ExportSVG(withBackground bool) (string, error) {
	s, _, err := c.snapshot(withBackground, false)
	if err != nil {
		return "", err
	}
	data, err := export.SVG(s)
	if err != nil {
		Logger().Warn("export failed", "format", "svg", "err", err)
		return "", err
	}
	return string(data), nil
}

// ExportPDF writes the canvas as a PDF document.
func (c *Canvas) ExportPDF(w io.Writer, withBackground bool) error {
	s, bg, err := c.snapshot(withBackground, true)
	if err != nil {
		return err
	}
	buf := &bytes.Buffer{}
	if err := export.PDF(buf, s, bg); err != nil {
		Logger().Warn("export failed", "format", "pdf", "err", err)
		return err
	}
	_, err = buf.WriteTo(w)
	return err
}

// ExportDefault renders the canvas using the configured image type and
// background setting, as a data URI.
func (c *Canvas) ExportDefault() (string, error) {
	return c.ExportImage("", c.exportBg)
}

// LogValue implements slog.LogValuer.
func (c *Canvas) LogValue() slog.Value {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slog.GroupValue(
		slog.String("id", c.opts.ID),
		slog.Int("paths", len(c.scene.Paths)),
		slog.Bool("readOnly", c.readOnly),
	)
}
