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

// Package scene builds the renderable structure of a drawing.
//
// A [Scene] is a pure function of the done log and the canvas options.  It
// is rebuilt after every change to the log and never modified afterwards,
// so that renderers and exporters always see a consistent drawing.
//
// Element identifiers are positional and derived from the canvas id:
//
//	{id}__canvas-background   the background rectangle
//	{id}__background          the background image pattern
//	{id}__stroke-group-{n}    the n-th pen segment
//	{id}__eraser-mask-{n}     the mask of the n-th pen segment
//	{id}__eraser-stroke-group the hidden container of eraser paths
//	{id}__mask-background     the white rectangle at the base of every mask
//	{id}__eraser-{k}          the k-th eraser path
package scene

import (
	"fmt"
	"strings"

	"seehuhn.de/go/sketch/mask"
	"seehuhn.de/go/sketch/stroke"
)

// AspectRatio selects how a background image is fitted to the canvas.
// The values follow the SVG preserveAspectRatio attribute.
type AspectRatio string

// These are the supported aspect ratio policies.
const (
	// AspectNone stretches the image to fill the canvas.
	AspectNone AspectRatio = "none"

	// AspectMeet scales the image to fit inside the canvas, centred.
	AspectMeet AspectRatio = "xMidYMid meet"

	// AspectSlice scales the image to cover the canvas, centred.
	AspectSlice AspectRatio = "xMidYMid slice"
)

// ParseAspectRatio converts a configuration value to an AspectRatio.
// Besides the SVG attribute values, the short forms "meet" and "slice"
// are accepted.  The empty string selects AspectNone.
func ParseAspectRatio(s string) (AspectRatio, error) {
	switch strings.TrimSpace(s) {
	case "", "none":
		return AspectNone, nil
	case "meet", string(AspectMeet):
		return AspectMeet, nil
	case "slice", string(AspectSlice):
		return AspectSlice, nil
	}
	return "", fmt.Errorf("unknown aspect ratio %q", s)
}

// Options describes the canvas a scene is built for.
type Options struct {
	ID            string
	Width, Height int

	// CanvasColor is the CSS color of the background rectangle.
	CanvasColor string

	// BackgroundImage is a reference to an image (URL, data URI or file
	// name) painted over the canvas color.  Empty means no image.
	BackgroundImage string

	AspectRatio AspectRatio

	// OmitBackgroundImage leaves the background image out of the scene,
	// even if one is configured.
	OmitBackgroundImage bool
}

// Background is the bottom layer of a scene.
type Background struct {
	ID    string
	Color string

	// Image is the background image reference, or empty.
	Image       string
	PatternID   string
	AspectRatio AspectRatio
}

// Fill returns the paint of the background rectangle: a reference to
// the image pattern if there is an image, and the canvas color otherwise.
func (b Background) Fill() string {
	if b.Image != "" {
		return "url(#" + b.PatternID + ")"
	}
	return b.Color
}

// StrokeGroup is one non-empty pen segment.
type StrokeGroup struct {
	ID    string
	Index int

	// MaskID is the identifier of the group's mask, or empty if the group
	// is drawn after the last eraser stroke.
	MaskID string

	// Paths lists the positions of the group's pen strokes in Scene.Paths.
	Paths []int
}

// EraserPath is an eraser stroke inside the hidden eraser group.
type EraserPath struct {
	ID string

	// Ordinal is the position among all eraser strokes.
	Ordinal int

	// Path is the position of the stroke in Scene.Paths.
	Path int
}

// Mask is the compositing mask of one pen segment.
type Mask struct {
	ID    string
	Index int

	// Uses lists the identifiers of the elements referenced by the mask:
	// first the mask background, then the eraser paths in commit order.
	Uses []string

	// Erasers holds the ordinals of the referenced eraser paths.
	Erasers []int
}

// Scene is the fully resolved structure of a drawing.
type Scene struct {
	ID            string
	Width, Height int

	Background Background
	Groups     []StrokeGroup

	EraserGroupID    string
	MaskBackgroundID string
	Erasers          []EraserPath
	Masks            []Mask

	// Paths is the done log the scene was built from.
	Paths []stroke.Path

	Layout *mask.Layout
}

// Build computes the scene for the given done log.
// The scene keeps a reference to paths; the caller must not modify it.
func Build(opts Options, paths []stroke.Path) *Scene {
	id := opts.ID
	s := &Scene{
		ID:     id,
		Width:  opts.Width,
		Height: opts.Height,
		Background: Background{
			ID:          id + "__canvas-background",
			Color:       opts.CanvasColor,
			PatternID:   id + "__background",
			AspectRatio: opts.AspectRatio,
		},
		EraserGroupID:    id + "__eraser-stroke-group",
		MaskBackgroundID: id + "__mask-background",
		Paths:            paths,
		Layout:           mask.ComposePaths(paths),
	}
	if !opts.OmitBackgroundImage {
		s.Background.Image = opts.BackgroundImage
	}
	if s.Background.AspectRatio == "" {
		s.Background.AspectRatio = AspectNone
	}

	l := s.Layout
	for k, pos := range l.Erasers {
		s.Erasers = append(s.Erasers, EraserPath{
			ID:      s.EraserID(k),
			Ordinal: k,
			Path:    pos,
		})
	}

	for _, g := range l.Groups {
		m := Mask{
			ID:    s.MaskID(g.Index),
			Index: g.Index,
			Uses:  []string{s.MaskBackgroundID},
		}
		for _, k := range l.Uses(g.Index) {
			m.Uses = append(m.Uses, s.EraserID(k))
			m.Erasers = append(m.Erasers, k)
		}
		s.Masks = append(s.Masks, m)
	}

	for _, seg := range l.Segments {
		if len(seg.Pens) == 0 {
			continue
		}
		g := StrokeGroup{
			ID:    s.StrokeGroupID(seg.Index),
			Index: seg.Index,
			Paths: seg.Pens,
		}
		if seg.Masked(l) {
			g.MaskID = s.MaskID(seg.Index)
		}
		s.Groups = append(s.Groups, g)
	}

	return s
}

// StrokeGroupID returns the identifier of the n-th stroke group.
func (s *Scene) StrokeGroupID(n int) string {
	return fmt.Sprintf("%s__stroke-group-%d", s.ID, n)
}

// MaskID returns the identifier of the n-th eraser mask.
func (s *Scene) MaskID(n int) string {
	return fmt.Sprintf("%s__eraser-mask-%d", s.ID, n)
}

// EraserID returns the identifier of the k-th eraser path.
func (s *Scene) EraserID(k int) string {
	return fmt.Sprintf("%s__eraser-%d", s.ID, k)
}

// Mask returns the mask with the given identifier.
func (s *Scene) Mask(id string) (*Mask, bool) {
	for i := range s.Masks {
		if s.Masks[i].ID == id {
			return &s.Masks[i], true
		}
	}
	return nil, false
}

// IsEmpty reports whether the scene contains no strokes.
func (s *Scene) IsEmpty() bool {
	return len(s.Paths) == 0
}
