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

// Load reads a Lua configuration file, expands environment variables and
// validates the result.  An empty path gives the default configuration.
// Validation warnings are returned alongside a valid configuration.
func Load(path string) (*Config, []ValidationError, error) {
	var cfg *Config
	if path == "" {
		c := DefaultConfig()
		cfg = &c
	} else {
		p := NewLuaParser()
		defer p.Close()

		var err error
		cfg, err = p.ParseFile(path)
		if err != nil {
			return nil, nil, err
		}
	}

	ExpandEnvConfig(cfg)
	res := NewValidator().Validate(cfg)
	if err := res.Error(); err != nil {
		return nil, res.Warnings, err
	}
	return cfg, res.Warnings, nil
}
