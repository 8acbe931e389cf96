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

package scene

import (
	"slices"
	"testing"

	"seehuhn.de/go/sketch/stroke"
)

var testOpts = Options{
	ID:          "canvas",
	Width:       400,
	Height:      300,
	CanvasColor: "white",
}

// square returns a closed square stroke with its top-left corner at (x, y).
func square(tool stroke.Tool, x, y, size float64) stroke.Path {
	return stroke.Path{
		Tool:  tool,
		Style: stroke.Style{Color: "black", Width: 4},
		Points: []stroke.Point{
			{X: x, Y: y}, {X: x + size, Y: y},
			{X: x + size, Y: y + size}, {X: x, Y: y + size}, {X: x, Y: y},
		},
	}
}

func TestEmpty(t *testing.T) {
	s := Build(testOpts, nil)
	if !s.IsEmpty() {
		t.Error("scene not empty")
	}
	if len(s.Groups) != 0 || len(s.Masks) != 0 || len(s.Erasers) != 0 {
		t.Errorf("unexpected content: %d groups, %d masks, %d erasers",
			len(s.Groups), len(s.Masks), len(s.Erasers))
	}
	if s.Background.ID != "canvas__canvas-background" {
		t.Errorf("background id %q", s.Background.ID)
	}
	if s.Background.Fill() != "white" {
		t.Errorf("background fill %q", s.Background.Fill())
	}
}

func TestPenThenEraser(t *testing.T) {
	paths := []stroke.Path{square(stroke.Pen, 100, 100, 50)}
	s := Build(testOpts, paths)
	if len(s.Masks) != 0 {
		t.Fatalf("got %d masks before erasing", len(s.Masks))
	}
	if len(s.Groups) != 1 || s.Groups[0].MaskID != "" {
		t.Fatalf("unexpected groups %+v", s.Groups)
	}

	paths = append(paths, square(stroke.Eraser, 100, 150, 50))
	s = Build(testOpts, paths)
	if len(s.Masks) != 1 {
		t.Fatalf("got %d masks, want 1", len(s.Masks))
	}
	m := s.Masks[0]
	if m.ID != "canvas__eraser-mask-0" {
		t.Errorf("mask id %q", m.ID)
	}
	if want := []string{"canvas__mask-background", "canvas__eraser-0"}; !slices.Equal(m.Uses, want) {
		t.Errorf("mask uses %v, want %v", m.Uses, want)
	}
	g := s.Groups[0]
	if g.ID != "canvas__stroke-group-0" || g.MaskID != m.ID {
		t.Errorf("group %+v does not reference mask %q", g, m.ID)
	}
}

func TestTwoCycles(t *testing.T) {
	paths := []stroke.Path{
		square(stroke.Pen, 100, 100, 50),
		square(stroke.Eraser, 100, 150, 50),
		square(stroke.Pen, 150, 100, 50),
		square(stroke.Eraser, 150, 150, 50),
	}
	s := Build(testOpts, paths)

	if len(s.Erasers) != 2 {
		t.Errorf("eraser group holds %d paths, want 2", len(s.Erasers))
	}
	if len(s.Masks) != 2 {
		t.Fatalf("got %d masks, want 2", len(s.Masks))
	}
	if n := len(s.Masks[0].Uses); n != 3 {
		t.Errorf("mask 0 has %d uses, want 3", n)
	}
	if n := len(s.Masks[1].Uses); n != 2 {
		t.Errorf("mask 1 has %d uses, want 2", n)
	}
	if s.Masks[1].Uses[1] != "canvas__eraser-1" {
		t.Errorf("mask 1 references %q", s.Masks[1].Uses[1])
	}

	for i, g := range s.Groups {
		if g.MaskID != s.MaskID(i) {
			t.Errorf("group %d has mask %q", i, g.MaskID)
		}
		if _, ok := s.Mask(g.MaskID); !ok {
			t.Errorf("group %d references missing mask", i)
		}
	}
}

func TestPositionalIDs(t *testing.T) {
	// An eraser at the start leaves segment 0 empty.  The first visible
	// group is still stroke-group-1.
	paths := []stroke.Path{
		square(stroke.Eraser, 0, 0, 10),
		square(stroke.Pen, 20, 20, 10),
	}
	s := Build(testOpts, paths)
	if len(s.Groups) != 1 {
		t.Fatalf("got %d groups, want 1", len(s.Groups))
	}
	if s.Groups[0].ID != "canvas__stroke-group-1" || s.Groups[0].MaskID != "" {
		t.Errorf("unexpected group %+v", s.Groups[0])
	}
	if len(s.Masks) != 1 {
		t.Errorf("got %d masks, want 1", len(s.Masks))
	}
}

func TestPrefixStability(t *testing.T) {
	paths := []stroke.Path{
		square(stroke.Pen, 0, 0, 10),
		square(stroke.Eraser, 0, 0, 10),
		square(stroke.Pen, 20, 20, 10),
	}
	before := Build(testOpts, paths[:2])
	after := Build(testOpts, paths)
	if before.Groups[0].ID != after.Groups[0].ID || before.Masks[0].ID != after.Masks[0].ID {
		t.Error("identifiers changed when a stroke was appended")
	}
}

func TestBackgroundImage(t *testing.T) {
	opts := testOpts
	opts.BackgroundImage = "bg.png"
	opts.AspectRatio = AspectSlice

	s := Build(opts, nil)
	if s.Background.Fill() != "url(#canvas__background)" {
		t.Errorf("background fill %q", s.Background.Fill())
	}

	opts.OmitBackgroundImage = true
	s = Build(opts, nil)
	if s.Background.Fill() != "white" {
		t.Errorf("background fill without image %q", s.Background.Fill())
	}
}

func TestParseAspectRatio(t *testing.T) {
	for in, want := range map[string]AspectRatio{
		"":               AspectNone,
		"none":           AspectNone,
		"meet":           AspectMeet,
		"xMidYMid slice": AspectSlice,
	} {
		got, err := ParseAspectRatio(in)
		if err != nil || got != want {
			t.Errorf("%q: got %q, %v", in, got, err)
		}
	}
	if _, err := ParseAspectRatio("stretch"); err == nil {
		t.Error("expected an error")
	}
}
