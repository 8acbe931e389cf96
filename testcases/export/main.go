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

// Command export replays all scenarios and writes the resulting stroke logs
// in the path-load format, one JSON file per scenario.
// Run from the module root directory.
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"

	"seehuhn.de/go/sketch"
	"seehuhn.de/go/sketch/testcases"
)

const outDir = "testdata/paths"

func main() {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		panic(err)
	}

	for _, category := range slices.Sorted(maps.Keys(testcases.All)) {
		for _, sc := range testcases.All[category] {
			name := category + "_" + sc.Name
			if err := writePaths(sc, filepath.Join(outDir, name+".json")); err != nil {
				panic(fmt.Errorf("%s: %w", name, err))
			}
		}
	}
}

func writePaths(sc testcases.Scenario, fname string) error {
	c, err := sketch.NewScenarioCanvas(sc)
	if err != nil {
		return err
	}
	if err := sketch.Replay(c, sc); err != nil {
		return err
	}
	data, err := c.ExportPaths()
	if err != nil {
		return err
	}

	buf := &bytes.Buffer{}
	if err := json.Indent(buf, data, "", "  "); err != nil {
		return err
	}
	buf.WriteByte('\n')
	return os.WriteFile(fname, buf.Bytes(), 0o644)
}
