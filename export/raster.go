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

// Package export serializes scenes.
//
// Drawings can be written as raster images (PNG or JPEG, optionally as a
// base64 data URI), as SVG documents which keep the group and mask
// structure of the scene, and as PDF files.  The package also implements
// the JSON path-load format used to save and restore the stroke log.
package export

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"strings"

	"seehuhn.de/go/sketch/paint"
	"seehuhn.de/go/sketch/raster"
	"seehuhn.de/go/sketch/scene"
)

// ErrUnknownFormat is returned for unsupported image formats.
var ErrUnknownFormat = errors.New("unknown image format")

// Format is a raster image format.
type Format string

// These are the supported raster formats.
const (
	PNG  Format = "png"
	JPEG Format = "jpeg"
)

// ParseFormat converts a format name or file extension to a Format.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(s, ".")) {
	case "png":
		return PNG, nil
	case "jpeg", "jpg":
		return JPEG, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// MIME returns the media type of the format.
func (f Format) MIME() string {
	switch f {
	case PNG:
		return "image/png"
	case JPEG:
		return "image/jpeg"
	}
	return "application/octet-stream"
}

// JPEGQuality is the quality setting used for JPEG output.
const JPEGQuality = 92

// Raster renders the scene and encodes it in the given format.  bg is the
// decoded background image, or nil.
func Raster(s *scene.Scene, bg image.Image, f Format) ([]byte, error) {
	img, err := raster.NewCompositor().Render(s, bg)
	if err != nil {
		return nil, err
	}
	return Encode(img, f, s.Background.Color)
}

// Encode encodes img in the given format.  JPEG has no alpha channel, so
// for JPEG output the image is first flattened onto the canvas color.
func Encode(img *image.RGBA, f Format, canvasColor string) ([]byte, error) {
	buf := &bytes.Buffer{}
	switch f {
	case PNG:
		if err := png.Encode(buf, img); err != nil {
			return nil, fmt.Errorf("png: %w", err)
		}
	case JPEG:
		var under color.Color = color.White
		if c, err := paint.Parse(canvasColor); err == nil && c.A == 0xFF {
			under = c
		}
		err := jpeg.Encode(buf, raster.Opaque(img, under), &jpeg.Options{Quality: JPEGQuality})
		if err != nil {
			return nil, fmt.Errorf("jpeg: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, string(f))
	}
	return buf.Bytes(), nil
}

// DataURI renders the scene and returns it as a base64 data URI, for
// example "data:image/png;base64,iVBORw0...".
func DataURI(s *scene.Scene, bg image.Image, f Format) (string, error) {
	data, err := Raster(s, bg, f)
	if err != nil {
		return "", err
	}
	return EncodeDataURI(f.MIME(), data), nil
}

// EncodeDataURI formats data as a base64 data URI.
func EncodeDataURI(mime string, data []byte) string {
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data)
}
