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

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"regexp"
	"strings"

	"seehuhn.de/go/sketch/export"
	"seehuhn.de/go/sketch/paint"
	"seehuhn.de/go/sketch/scene"
)

// ValidationError is a problem with one configuration field.
type ValidationError struct {
	Field   string
	Message string
}

func (ve ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", ve.Field, ve.Message)
}

// ValidationResult holds the results of a configuration validation.
type ValidationResult struct {
	Errors []ValidationError

	// Warnings are problems which do not prevent the canvas from working.
	Warnings []ValidationError
}

// IsValid returns true if there are no validation errors.
func (vr *ValidationResult) IsValid() bool {
	return len(vr.Errors) == 0
}

// Error returns all errors combined into one, or nil.
func (vr *ValidationResult) Error() error {
	if len(vr.Errors) == 0 {
		return nil
	}
	messages := make([]string, len(vr.Errors))
	for i, e := range vr.Errors {
		messages[i] = e.Error()
	}
	return fmt.Errorf("validation failed: %s", strings.Join(messages, "; "))
}

func (vr *ValidationResult) AddError(field, message string) {
	vr.Errors = append(vr.Errors, ValidationError{Field: field, Message: message})
}

func (vr *ValidationResult) AddWarning(field, message string) {
	vr.Warnings = append(vr.Warnings, ValidationError{Field: field, Message: message})
}

// Validator checks configurations.
type Validator struct {
	// checkFiles enables checks that referenced files exist.
	checkFiles bool
}

// NewValidator returns a Validator which also checks that a background
// image file, if given by name, exists.
func NewValidator() *Validator {
	return &Validator{checkFiles: true}
}

// WithFileChecks enables or disables file existence checks.
func (v *Validator) WithFileChecks(check bool) *Validator {
	v.checkFiles = check
	return v
}

// maxDimension is the size above which a warning is issued.
const maxDimension = 10000

var idPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_.-]*$`)

// Validate checks all fields of cfg.
func (v *Validator) Validate(cfg *Config) *ValidationResult {
	result := &ValidationResult{}
	v.validateCanvas(&cfg.Canvas, result)
	v.validateStroke(&cfg.Stroke, result)
	v.validateExport(&cfg.Export, result)
	if cfg.Export.WithBackgroundImage && cfg.Canvas.BackgroundImage == "" {
		result.AddWarning("export_with_background_image", "set, but there is no background image")
	}
	return result
}

func (v *Validator) validateCanvas(c *CanvasConfig, result *ValidationResult) {
	if c.ID != "" && !idPattern.MatchString(c.ID) {
		result.AddError("id", fmt.Sprintf("%q is not a valid element identifier", c.ID))
	}

	for _, d := range []struct {
		field string
		value int
	}{{"width", c.Width}, {"height", c.Height}} {
		switch {
		case d.value <= 0:
			result.AddError(d.field, fmt.Sprintf("must be positive, got %d", d.value))
		case d.value > maxDimension:
			result.AddWarning(d.field, fmt.Sprintf("unusually large value %d", d.value))
		}
	}

	validateColor("canvas_color", c.Color, result)

	if _, err := scene.ParseAspectRatio(c.PreserveAspectRatio); err != nil {
		result.AddError("preserve_aspect_ratio", err.Error())
	}

	ref := c.BackgroundImage
	if v.checkFiles && ref != "" && !strings.Contains(ref, ":") {
		if _, err := os.Stat(ref); errors.Is(err, fs.ErrNotExist) {
			result.AddError("background_image", fmt.Sprintf("file %q not found", ref))
		}
	}
}

func (v *Validator) validateStroke(s *StrokeConfig, result *ValidationResult) {
	validateColor("stroke_color", s.Color, result)
	if s.Width <= 0 {
		result.AddError("stroke_width", fmt.Sprintf("must be positive, got %g", s.Width))
	}
	if s.EraserWidth <= 0 {
		result.AddError("eraser_width", fmt.Sprintf("must be positive, got %g", s.EraserWidth))
	}
}

func (v *Validator) validateExport(e *ExportConfig, result *ValidationResult) {
	if _, err := export.ParseFormat(e.ImageType); err != nil {
		result.AddError("export_image_type", fmt.Sprintf("must be png or jpeg, got %q", e.ImageType))
	}
}

func validateColor(field, value string, result *ValidationResult) {
	if _, err := paint.Parse(value); err != nil {
		result.AddError(field, err.Error())
	}
}

// Validate checks cfg with the default Validator.
func Validate(cfg *Config) error {
	return NewValidator().Validate(cfg).Error()
}
