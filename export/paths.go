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
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"

	"seehuhn.de/go/sketch/paint"
	"seehuhn.de/go/sketch/stroke"
)

// LoadError describes a problem with one entry of a path-load document.
type LoadError struct {
	// Index is the position of the entry, or -1 for errors which concern
	// the document as a whole.
	Index int

	// Field is the JSON name of the offending field, or empty.
	Field string

	Reason string
}

func (e *LoadError) Error() string {
	var b strings.Builder
	if e.Index >= 0 {
		fmt.Fprintf(&b, "path %d: ", e.Index)
	}
	if e.Field != "" {
		b.WriteString(e.Field)
		b.WriteString(": ")
	}
	b.WriteString(e.Reason)
	return b.String()
}

// LoadErrors collects all problems found in a path-load document.
type LoadErrors []*LoadError

func (errs LoadErrors) Error() string {
	msgs := make([]string, len(errs))
	for i, e := range errs {
		msgs[i] = e.Error()
	}
	return "invalid path data: " + strings.Join(msgs, "; ")
}

type pointJSON struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type pathJSON struct {
	DrawMode       bool        `json:"drawMode"`
	StrokeColor    string      `json:"strokeColor"`
	StrokeWidth    float64     `json:"strokeWidth"`
	Paths          []pointJSON `json:"paths"`
	StartTimestamp int64       `json:"startTimestamp,omitempty"`
	EndTimestamp   int64       `json:"endTimestamp,omitempty"`
}

// MarshalPaths encodes the paths in the path-load format.  Timestamps are
// included for paths which have them.
func MarshalPaths(paths []stroke.Path) ([]byte, error) {
	out := make([]pathJSON, len(paths))
	for i, p := range paths {
		pj := pathJSON{
			DrawMode:    !p.IsEraser(),
			StrokeColor: p.Style.Color,
			StrokeWidth: p.Style.Width,
			Paths:       make([]pointJSON, len(p.Points)),
		}
		for j, pt := range p.Points {
			pj.Paths[j] = pointJSON{X: pt.X, Y: pt.Y}
		}
		if !p.Start.IsZero() {
			pj.StartTimestamp = p.Start.UnixMilli()
		}
		if !p.End.IsZero() {
			pj.EndTimestamp = p.End.UnixMilli()
		}
		out[i] = pj
	}
	return json.Marshal(out)
}

// UnmarshalPaths decodes a path-load document.
//
// Every entry is checked, and all problems are reported together as
// [LoadErrors].  If any entry is malformed, no paths are returned.
func UnmarshalPaths(data []byte) ([]stroke.Path, error) {
	var entries []json.RawMessage
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, LoadErrors{{Index: -1, Reason: "expected a JSON array of paths: " + err.Error()}}
	}

	var errs LoadErrors
	paths := make([]stroke.Path, 0, len(entries))
	for i, raw := range entries {
		p, entryErrs := decodePath(i, raw)
		errs = append(errs, entryErrs...)
		paths = append(paths, p)
	}
	if len(errs) > 0 {
		return nil, errs
	}
	return paths, nil
}

func decodePath(idx int, raw json.RawMessage) (stroke.Path, LoadErrors) {
	var errs LoadErrors
	fail := func(field, format string, args ...any) {
		errs = append(errs, &LoadError{Index: idx, Field: field, Reason: fmt.Sprintf(format, args...)})
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil || fields == nil {
		fail("", "expected an object")
		return stroke.Path{}, errs
	}

	// field decodes a required or optional member into v and reports
	// whether it was present and well-typed.
	field := func(name string, v any, required bool) bool {
		msg, ok := fields[name]
		if !ok || string(msg) == "null" {
			if required {
				fail(name, "missing")
			}
			return false
		}
		if err := json.Unmarshal(msg, v); err != nil {
			fail(name, "wrong type: %s", typeError(err))
			return false
		}
		return true
	}

	var p stroke.Path

	var drawMode bool
	if field("drawMode", &drawMode, true) && !drawMode {
		p.Tool = stroke.Eraser
	}

	if field("strokeColor", &p.Style.Color, true) {
		if _, err := paint.Parse(p.Style.Color); err != nil {
			fail("strokeColor", "%v", err)
		}
	}

	if field("strokeWidth", &p.Style.Width, true) {
		w := p.Style.Width
		if w <= 0 || math.IsInf(w, 0) || math.IsNaN(w) {
			fail("strokeWidth", "must be positive, got %g", w)
		}
	}

	var pts []map[string]json.RawMessage
	if field("paths", &pts, true) {
		if len(pts) == 0 {
			fail("paths", "no points")
		}
		for j, m := range pts {
			var pt stroke.Point
			for _, c := range []struct {
				name string
				dst  *float64
			}{{"x", &pt.X}, {"y", &pt.Y}} {
				name := fmt.Sprintf("paths[%d].%s", j, c.name)
				msg, ok := m[c.name]
				if !ok {
					fail(name, "missing")
					continue
				}
				if err := json.Unmarshal(msg, c.dst); err != nil {
					fail(name, "wrong type: %s", typeError(err))
				} else if math.Abs(*c.dst) > stroke.MaxCoord {
					fail(name, "%g is outside [-%g, %g]", *c.dst, stroke.MaxCoord, stroke.MaxCoord)
				}
			}
			p.Points = append(p.Points, pt)
		}
	}

	var start, end int64
	if field("startTimestamp", &start, false) {
		p.Start = time.UnixMilli(start)
	}
	if field("endTimestamp", &end, false) {
		p.End = time.UnixMilli(end)
	}
	if !p.Start.IsZero() && !p.End.IsZero() && p.End.Before(p.Start) {
		fail("endTimestamp", "before startTimestamp")
	}

	return p, errs
}

// typeError shortens the messages of json.UnmarshalTypeError.
func typeError(err error) string {
	if te, ok := err.(*json.UnmarshalTypeError); ok {
		return fmt.Sprintf("got %s, want %s", te.Value, te.Type)
	}
	return err.Error()
}
