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
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/arnodel/golua/lib"
	rt "github.com/arnodel/golua/runtime"
)

// Resource limits for running configuration scripts.
const (
	luaCPULimit    = 10_000_000
	luaMemoryLimit = 50 << 20
)

// LuaParser reads configuration from Lua scripts.  A script sets fields of
// the global table sketch.config; fields which are not set keep their
// default values.
type LuaParser struct {
	runtime *rt.Runtime
	cleanup func()
	mu      sync.Mutex
}

// NewLuaParser creates a LuaParser.  Output of the script's print calls is
// discarded.
func NewLuaParser() *LuaParser {
	return NewLuaParserWithOutput(io.Discard)
}

// NewLuaParserWithOutput creates a LuaParser which writes the script's
// output to stdout.
func NewLuaParserWithOutput(stdout io.Writer) *LuaParser {
	if stdout == nil {
		stdout = os.Stdout
	}
	runtime := rt.New(stdout)
	return &LuaParser{
		runtime: runtime,
		cleanup: lib.LoadAll(runtime),
	}
}

// ParseFile runs the Lua script in the named file.
func (p *LuaParser) ParseFile(path string) (*Config, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	return p.Parse(content)
}

// Parse runs a Lua script and returns the resulting configuration.
// Scripts which exceed the CPU or memory limits are aborted.
func (p *LuaParser) Parse(content []byte) (cfg *Config, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	// golua panics when a hard limit is exceeded
	defer func() {
		if r := recover(); r != nil {
			cfg = nil
			err = fmt.Errorf("Lua configuration aborted: %v", r)
		}
	}()

	sketch := rt.NewTable()
	sketch.Set(rt.StringValue("config"), rt.TableValue(rt.NewTable()))
	p.runtime.GlobalEnv().Set(rt.StringValue("sketch"), rt.TableValue(sketch))

	closure, err := p.runtime.CompileAndLoadLuaChunk(
		"config",
		content,
		rt.TableValue(p.runtime.GlobalEnv()),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to compile Lua configuration: %w", err)
	}

	p.runtime.PushContext(rt.RuntimeContextDef{
		HardLimits: rt.RuntimeResources{
			Cpu:    luaCPULimit,
			Memory: luaMemoryLimit,
		},
	})
	defer p.runtime.PopContext()

	if _, err := rt.Call1(p.runtime.MainThread(), rt.FunctionValue(closure)); err != nil {
		return nil, fmt.Errorf("failed to execute Lua configuration: %w", err)
	}

	return p.extractConfig()
}

func (p *LuaParser) extractConfig() (*Config, error) {
	cfg := DefaultConfig()

	sketchVal := p.runtime.GlobalEnv().Get(rt.StringValue("sketch"))
	if sketchVal == rt.NilValue {
		return &cfg, nil
	}
	sketch, ok := sketchVal.TryTable()
	if !ok {
		return nil, fmt.Errorf("sketch is not a table")
	}
	tableVal := sketch.Get(rt.StringValue("config"))
	if tableVal == rt.NilValue {
		return &cfg, nil
	}
	table, ok := tableVal.TryTable()
	if !ok {
		return nil, fmt.Errorf("sketch.config is not a table")
	}

	ex := &extractor{table: table}
	ex.getString("id", &cfg.Canvas.ID)
	ex.getInt("width", &cfg.Canvas.Width)
	ex.getInt("height", &cfg.Canvas.Height)
	ex.getString("canvas_color", &cfg.Canvas.Color)
	ex.getString("background_image", &cfg.Canvas.BackgroundImage)
	ex.getString("preserve_aspect_ratio", &cfg.Canvas.PreserveAspectRatio)
	ex.getString("stroke_color", &cfg.Stroke.Color)
	ex.getFloat("stroke_width", &cfg.Stroke.Width)
	ex.getFloat("eraser_width", &cfg.Stroke.EraserWidth)
	ex.getString("export_image_type", &cfg.Export.ImageType)
	ex.getBool("export_with_background_image", &cfg.Export.WithBackgroundImage)
	ex.getBool("read_only", &cfg.ReadOnly)
	ex.getBool("with_timestamp", &cfg.WithTimestamp)
	if ex.err != nil {
		return nil, ex.err
	}
	return &cfg, nil
}

// Close releases the Lua runtime.
func (p *LuaParser) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.cleanup != nil {
		p.cleanup()
		p.cleanup = nil
	}
	return nil
}

// extractor copies fields of a Lua table into Go variables.  Missing
// fields leave the variable unchanged.  The first field of the wrong type
// is recorded in err.
type extractor struct {
	table *rt.Table
	err   error
}

func (ex *extractor) get(key string) (rt.Value, bool) {
	if ex.err != nil {
		return rt.NilValue, false
	}
	val := ex.table.Get(rt.StringValue(key))
	return val, val != rt.NilValue
}

func (ex *extractor) fail(key, want string) {
	ex.err = ValidationError{Field: key, Message: "expected " + want}
}

func (ex *extractor) getString(key string, dst *string) {
	val, ok := ex.get(key)
	if !ok {
		return
	}
	if s, ok := val.TryString(); ok {
		*dst = s
		return
	}
	ex.fail(key, "a string")
}

func (ex *extractor) getFloat(key string, dst *float64) {
	val, ok := ex.get(key)
	if !ok {
		return
	}
	if f, ok := val.TryFloat(); ok {
		*dst = f
		return
	}
	if n, ok := val.TryInt(); ok {
		*dst = float64(n)
		return
	}
	ex.fail(key, "a number")
}

func (ex *extractor) getInt(key string, dst *int) {
	val, ok := ex.get(key)
	if !ok {
		return
	}
	if n, ok := val.TryInt(); ok {
		*dst = int(n)
		return
	}
	if f, ok := val.TryFloat(); ok && f == float64(int(f)) {
		*dst = int(f)
		return
	}
	ex.fail(key, "an integer")
}

func (ex *extractor) getBool(key string, dst *bool) {
	val, ok := ex.get(key)
	if !ok {
		return
	}
	if b, ok := val.TryBool(); ok {
		*dst = b
		return
	}
	ex.fail(key, "a boolean")
}
