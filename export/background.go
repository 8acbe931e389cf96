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
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	"net/url"
	"os"
	"strings"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// ErrBackground is returned when a background image cannot be loaded.
var ErrBackground = errors.New("cannot load background image")

// LoadBackground resolves a background image reference.  The reference can
// be a data URI, a file:// URL or a file name.  PNG, JPEG, GIF, BMP, TIFF
// and WebP images are recognised.
func LoadBackground(ref string) (image.Image, error) {
	data, err := readRef(ref)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBackground, err)
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrBackground, shortRef(ref), err)
	}
	return img, nil
}

func readRef(ref string) ([]byte, error) {
	switch {
	case ref == "":
		return nil, errors.New("empty reference")
	case strings.HasPrefix(ref, "data:"):
		return decodeDataURI(ref)
	case strings.HasPrefix(ref, "file://"):
		u, err := url.Parse(ref)
		if err != nil {
			return nil, err
		}
		return os.ReadFile(u.Path)
	case strings.Contains(ref, "://"):
		return nil, fmt.Errorf("unsupported URL scheme in %q", shortRef(ref))
	}
	return os.ReadFile(ref)
}

// decodeDataURI returns the payload of a data URI.
func decodeDataURI(ref string) ([]byte, error) {
	header, payload, ok := strings.Cut(strings.TrimPrefix(ref, "data:"), ",")
	if !ok {
		return nil, errors.New("malformed data URI")
	}
	if strings.HasSuffix(header, ";base64") {
		return base64.StdEncoding.DecodeString(payload)
	}
	s, err := url.PathUnescape(payload)
	if err != nil {
		return nil, err
	}
	return []byte(s), nil
}

// shortRef abbreviates data URIs for error messages.
func shortRef(ref string) string {
	if strings.HasPrefix(ref, "data:") && len(ref) > 40 {
		return ref[:40] + "..."
	}
	return ref
}
