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
	"errors"
	"strings"
	"testing"
	"time"

	"seehuhn.de/go/sketch/stroke"
)

func TestPathsRoundTrip(t *testing.T) {
	in := twoCycles()
	in[1].Style = stroke.Style{Color: "#ff000080", Width: 12.5}
	in[2].Start = time.UnixMilli(1700000000000)
	in[2].End = time.UnixMilli(1700000001500)

	data, err := MarshalPaths(in)
	if err != nil {
		t.Fatal(err)
	}
	out, err := UnmarshalPaths(data)
	if err != nil {
		t.Fatal(err)
	}

	if len(out) != len(in) {
		t.Fatalf("got %d paths, want %d", len(out), len(in))
	}
	for i := range in {
		a, b := in[i], out[i]
		if a.Tool != b.Tool || a.Style != b.Style {
			t.Errorf("path %d: got %v %v, want %v %v", i, b.Tool, b.Style, a.Tool, a.Style)
		}
		if !a.Start.Equal(b.Start) || !a.End.Equal(b.End) {
			t.Errorf("path %d: timestamps differ", i)
		}
		if len(a.Points) != len(b.Points) {
			t.Errorf("path %d: %d points, want %d", i, len(b.Points), len(a.Points))
			continue
		}
		for j := range a.Points {
			if a.Points[j] != b.Points[j] {
				t.Errorf("path %d, point %d: got %v, want %v", i, j, b.Points[j], a.Points[j])
			}
		}
	}
}

func TestMarshalPathsFormat(t *testing.T) {
	data, err := MarshalPaths([]stroke.Path{square(stroke.Eraser, 1, 2, 3)})
	if err != nil {
		t.Fatal(err)
	}
	s := string(data)
	for _, want := range []string{`"drawMode":false`, `"strokeColor":"black"`, `"strokeWidth":4`, `"paths":[{"x":1,"y":2}`} {
		if !strings.Contains(s, want) {
			t.Errorf("%s does not contain %s", s, want)
		}
	}
	if strings.Contains(s, "Timestamp") {
		t.Errorf("zero timestamps written: %s", s)
	}
}

func TestUnmarshalPathsErrors(t *testing.T) {
	tests := []struct {
		name  string
		in    string
		index int
		field string
	}{
		{"not an array", `{"drawMode":true}`, -1, ""},
		{"not an object", `[42]`, 0, ""},
		{"missing drawMode", `[{"strokeColor":"red","strokeWidth":4,"paths":[{"x":0,"y":0}]}]`, 0, "drawMode"},
		{"wrong drawMode type", `[{"drawMode":"yes","strokeColor":"red","strokeWidth":4,"paths":[{"x":0,"y":0}]}]`, 0, "drawMode"},
		{"bad color", `[{"drawMode":true,"strokeColor":"#zz","strokeWidth":4,"paths":[{"x":0,"y":0}]}]`, 0, "strokeColor"},
		{"negative width", `[{"drawMode":true,"strokeColor":"red","strokeWidth":-1,"paths":[{"x":0,"y":0}]}]`, 0, "strokeWidth"},
		{"no points", `[{"drawMode":true,"strokeColor":"red","strokeWidth":4,"paths":[]}]`, 0, "paths"},
		{"missing y", `[{"drawMode":true,"strokeColor":"red","strokeWidth":4,"paths":[{"x":0}]}]`, 0, "paths[0].y"},
		{"string x", `[{"drawMode":true,"strokeColor":"red","strokeWidth":4,"paths":[{"x":"0","y":0}]}]`, 0, "paths[0].x"},
		{"second entry", `[{"drawMode":true,"strokeColor":"red","strokeWidth":4,"paths":[{"x":0,"y":0}]},{"drawMode":true}]`, 1, "strokeColor"},
		{"huge x", `[{"drawMode":true,"strokeColor":"red","strokeWidth":4,"paths":[{"x":0,"y":0},{"x":-1e300,"y":0}]}]`, 0, "paths[1].x"},
		{"huge y", `[{"drawMode":true,"strokeColor":"red","strokeWidth":4,"paths":[{"x":0,"y":2e6}]}]`, 0, "paths[0].y"},
		{"time reversed", `[{"drawMode":true,"strokeColor":"red","strokeWidth":4,"paths":[{"x":0,"y":0}],"startTimestamp":2000,"endTimestamp":1000}]`, 0, "endTimestamp"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			paths, err := UnmarshalPaths([]byte(tc.in))
			if paths != nil {
				t.Error("paths returned together with an error")
			}
			var errs LoadErrors
			if !errors.As(err, &errs) {
				t.Fatalf("got %v, want LoadErrors", err)
			}
			for _, e := range errs {
				if e.Index == tc.index && e.Field == tc.field {
					return
				}
			}
			t.Errorf("no error for index %d, field %q in %v", tc.index, tc.field, err)
		})
	}
}

func TestUnmarshalPathsEmpty(t *testing.T) {
	paths, err := UnmarshalPaths([]byte(`[]`))
	if err != nil || len(paths) != 0 {
		t.Errorf("got %v, %v", paths, err)
	}
}

func TestLoadErrorMessage(t *testing.T) {
	err := LoadErrors{
		{Index: 2, Field: "strokeWidth", Reason: "missing"},
		{Index: -1, Reason: "bad"},
	}
	want := "invalid path data: path 2: strokeWidth: missing; bad"
	if got := err.Error(); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}
