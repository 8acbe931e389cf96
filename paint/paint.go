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

// Package paint converts CSS color strings to Go colors.
package paint

import (
	"errors"
	"fmt"
	"image/color"
	"math"
	"strconv"
	"strings"

	"golang.org/x/image/colornames"
)

// ErrColor is returned (wrapped) for color strings which cannot be parsed.
var ErrColor = errors.New("invalid color")

// Parse converts a CSS color string to a color.  The following forms are
// recognised:
//   - the SVG 1.1 color keywords, and "transparent"
//   - "#rgb", "#rgba", "#rrggbb" and "#rrggbbaa"
//   - "rgb(r, g, b)" and "rgba(r, g, b, a)", where the components are
//     integers in 0-255 or percentages, and a is in [0, 1]
func Parse(s string) (color.NRGBA, error) {
	s = strings.TrimSpace(s)
	lower := strings.ToLower(s)

	switch {
	case lower == "":
		return color.NRGBA{}, fmt.Errorf("%w: empty string", ErrColor)
	case lower == "transparent":
		return color.NRGBA{}, nil
	case strings.HasPrefix(lower, "#"):
		return parseHex(lower[1:])
	case strings.HasPrefix(lower, "rgba(") && strings.HasSuffix(lower, ")"):
		return parseFunc(lower[5:len(lower)-1], true)
	case strings.HasPrefix(lower, "rgb(") && strings.HasSuffix(lower, ")"):
		return parseFunc(lower[4:len(lower)-1], false)
	}

	if c, ok := colornames.Map[lower]; ok {
		return color.NRGBA{R: c.R, G: c.G, B: c.B, A: c.A}, nil
	}
	return color.NRGBA{}, fmt.Errorf("%w: %q", ErrColor, s)
}

// MustParse is like [Parse] but panics on error.
// Use this only for known-good color values.
func MustParse(s string) color.NRGBA {
	c, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return c
}

// Hex formats a color as "#rrggbb", or as "#rrggbbaa" if the color is not
// opaque.
func Hex(c color.NRGBA) string {
	if c.A == 255 {
		return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
	}
	return fmt.Sprintf("#%02x%02x%02x%02x", c.R, c.G, c.B, c.A)
}

func parseHex(s string) (color.NRGBA, error) {
	var digits [8]byte
	switch len(s) {
	case 3, 4:
		for i := range len(s) {
			digits[2*i] = s[i]
			digits[2*i+1] = s[i]
		}
		if len(s) == 3 {
			digits[6], digits[7] = 'f', 'f'
		}
	case 6:
		copy(digits[:], s)
		digits[6], digits[7] = 'f', 'f'
	case 8:
		copy(digits[:], s)
	default:
		return color.NRGBA{}, fmt.Errorf("%w: hex color #%s", ErrColor, s)
	}

	var v [4]uint8
	for i := range v {
		x, err := strconv.ParseUint(string(digits[2*i:2*i+2]), 16, 8)
		if err != nil {
			return color.NRGBA{}, fmt.Errorf("%w: hex color #%s", ErrColor, s)
		}
		v[i] = uint8(x)
	}
	return color.NRGBA{R: v[0], G: v[1], B: v[2], A: v[3]}, nil
}

func parseFunc(args string, withAlpha bool) (color.NRGBA, error) {
	parts := strings.Split(args, ",")
	want := 3
	if withAlpha {
		want = 4
	}
	if len(parts) != want {
		return color.NRGBA{}, fmt.Errorf("%w: expected %d components, got %d",
			ErrColor, want, len(parts))
	}

	var v [3]uint8
	for i := range v {
		x, err := parseComponent(strings.TrimSpace(parts[i]))
		if err != nil {
			return color.NRGBA{}, err
		}
		v[i] = x
	}

	a := uint8(255)
	if withAlpha {
		f, err := strconv.ParseFloat(strings.TrimSpace(parts[3]), 64)
		if err != nil || f < 0 || f > 1 {
			return color.NRGBA{}, fmt.Errorf("%w: alpha %q", ErrColor, parts[3])
		}
		a = uint8(math.Round(f * 255))
	}
	return color.NRGBA{R: v[0], G: v[1], B: v[2], A: a}, nil
}

func parseComponent(s string) (uint8, error) {
	if p, ok := strings.CutSuffix(s, "%"); ok {
		f, err := strconv.ParseFloat(p, 64)
		if err != nil || f < 0 || f > 100 {
			return 0, fmt.Errorf("%w: component %q", ErrColor, s)
		}
		return uint8(math.Round(f * 255 / 100)), nil
	}
	x, err := strconv.ParseUint(s, 10, 8)
	if err != nil {
		return 0, fmt.Errorf("%w: component %q", ErrColor, s)
	}
	return uint8(x), nil
}
