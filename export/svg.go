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
	"encoding/xml"
	"io"
	"strconv"

	"seehuhn.de/go/sketch/scene"
	"seehuhn.de/go/sketch/stroke"
)

const svgNS = "http://www.w3.org/2000/svg"

// SVG returns the scene as a standalone SVG document.
func SVG(s *scene.Scene) ([]byte, error) {
	buf := &bytes.Buffer{}
	if err := WriteSVG(buf, s); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteSVG writes the scene as an SVG document.
//
// The document has the same structure as the live rendering: a hidden
// group which holds the mask background and all eraser paths, one mask per
// eraser group made of <use> references into the hidden group, the
// background rectangle, and one group per pen segment.
func WriteSVG(out io.Writer, s *scene.Scene) error {
	w := &svgWriter{enc: xml.NewEncoder(out)}
	w.enc.Indent("", "  ")

	w.start("svg",
		"xmlns", svgNS,
		"id", s.ID,
		"width", strconv.Itoa(s.Width),
		"height", strconv.Itoa(s.Height),
		"viewBox", "0 0 "+strconv.Itoa(s.Width)+" "+strconv.Itoa(s.Height))

	w.start("g", "id", s.EraserGroupID, "display", "none")
	w.empty("rect", "id", s.MaskBackgroundID,
		"x", "0", "y", "0", "width", "100%", "height", "100%", "fill", "white")
	for _, e := range s.Erasers {
		w.path(e.ID, s.Paths[e.Path], "#000000")
	}
	w.end("g")

	bg := s.Background
	if bg.Image != "" || len(s.Masks) > 0 {
		w.start("defs")
		if bg.Image != "" {
			w.start("pattern", "id", bg.PatternID,
				"x", "0", "y", "0", "width", "100%", "height", "100%",
				"patternUnits", "userSpaceOnUse")
			w.empty("image", "x", "0", "y", "0", "width", "100%", "height", "100%",
				"href", bg.Image, "preserveAspectRatio", string(bg.AspectRatio))
			w.end("pattern")
		}
		for _, m := range s.Masks {
			w.start("mask", "id", m.ID, "maskUnits", "userSpaceOnUse")
			for _, ref := range m.Uses {
				w.empty("use", "href", "#"+ref)
			}
			w.end("mask")
		}
		w.end("defs")
	}

	if bg.Image != "" {
		w.empty("rect", "x", "0", "y", "0", "width", "100%", "height", "100%",
			"fill", bg.Color)
	}
	w.empty("rect", "id", bg.ID,
		"x", "0", "y", "0", "width", "100%", "height", "100%", "fill", bg.Fill())

	for _, g := range s.Groups {
		if g.MaskID != "" {
			w.start("g", "id", g.ID, "mask", "url(#"+g.MaskID+")")
		} else {
			w.start("g", "id", g.ID)
		}
		for _, pos := range g.Paths {
			p := s.Paths[pos]
			w.path("", p, p.Style.Color)
		}
		w.end("g")
	}

	w.end("svg")
	if w.err != nil {
		return w.err
	}
	if err := w.enc.Flush(); err != nil {
		return err
	}
	_, err := io.WriteString(out, "\n")
	return err
}

type svgWriter struct {
	enc *xml.Encoder
	err error
}

// start opens an element.  attrs holds alternating names and values.
func (w *svgWriter) start(name string, attrs ...string) {
	if w.err != nil {
		return
	}
	el := xml.StartElement{Name: xml.Name{Local: name}}
	for i := 0; i+1 < len(attrs); i += 2 {
		el.Attr = append(el.Attr, xml.Attr{Name: xml.Name{Local: attrs[i]}, Value: attrs[i+1]})
	}
	w.err = w.enc.EncodeToken(el)
}

func (w *svgWriter) end(name string) {
	if w.err != nil {
		return
	}
	w.err = w.enc.EncodeToken(xml.EndElement{Name: xml.Name{Local: name}})
}

func (w *svgWriter) empty(name string, attrs ...string) {
	w.start(name, attrs...)
	w.end(name)
}

func (w *svgWriter) path(id string, p stroke.Path, color string) {
	var attrs []string
	if id != "" {
		attrs = append(attrs, "id", id)
	}
	attrs = append(attrs,
		"d", p.SVGData(),
		"stroke", color,
		"stroke-width", strconv.FormatFloat(p.Style.Width, 'f', -1, 64),
		"fill", "none",
		"stroke-linecap", "round",
		"stroke-linejoin", "round")
	w.empty("path", attrs...)
}
