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

package sketch

import (
	"errors"
	"fmt"

	"seehuhn.de/go/sketch/config"
	"seehuhn.de/go/sketch/stroke"
	"seehuhn.de/go/sketch/testcases"
)

// NewScenarioCanvas returns a canvas sized for the scenario, with black
// default strokes on a white background.
func NewScenarioCanvas(sc testcases.Scenario) (*Canvas, error) {
	cfg := config.DefaultConfig()
	cfg.Canvas.ID = sc.Name
	cfg.Canvas.Width = sc.Width
	cfg.Canvas.Height = sc.Height
	cfg.Stroke.Color = "black"
	return New(&cfg)
}

// Replay performs the steps of a scenario on c.
func Replay(c *Canvas, sc testcases.Scenario) error {
	for i, step := range sc.Steps {
		var err error
		switch s := step.(type) {
		case testcases.Draw:
			err = draw(c, s)
		case testcases.Undo:
			_, err = c.Undo()
		case testcases.Redo:
			_, err = c.Redo()
		case testcases.Clear:
			_, err = c.Clear()
		case testcases.Reset:
			err = c.Reset()
		default:
			err = fmt.Errorf("unknown step type %T", step)
		}
		if err != nil {
			return fmt.Errorf("%s: step %d: %w", sc.Name, i, err)
		}
	}
	return nil
}

func draw(c *Canvas, d testcases.Draw) error {
	c.SetTool(d.Tool)
	if d.Color != "" {
		if err := c.SetStrokeColor(d.Color); err != nil {
			return err
		}
	}
	if d.Width > 0 {
		var err error
		if d.Tool == stroke.Eraser {
			err = c.SetEraserWidth(d.Width)
		} else {
			err = c.SetStrokeWidth(d.Width)
		}
		if err != nil {
			return err
		}
	}

	if len(d.Points) == 0 {
		return errors.New("stroke without points")
	}
	c.Begin(d.Points[0])
	for _, p := range d.Points[1:] {
		c.AddPoint(p)
	}
	if !c.End() {
		return fmt.Errorf("stroke with %d points not committed", len(d.Points))
	}
	return nil
}
