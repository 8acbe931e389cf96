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

// Command sketch renders a stroke log to an image or document.
//
// Usage:
//
//	sketch [-config file.lua] [-in paths.json] [-bg image] [-with-bg] [-watch] [-v] -o output
//
// The output format is chosen by the extension of the output file: .png,
// .jpg or .jpeg for raster images, .svg and .pdf for vector documents,
// and .json for the stroke log in the path-load format.  With -watch the
// output is regenerated whenever the configuration or input file changes.
package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"seehuhn.de/go/sketch"
	"seehuhn.de/go/sketch/config"
	"seehuhn.de/go/sketch/export"
)

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", "", "Lua configuration file")
	inPath := flag.String("in", "", "stroke log in the path-load format")
	outPath := flag.String("o", "", "output file (.png, .jpg, .svg, .pdf or .json)")
	bgRef := flag.String("bg", "", "background image, overrides the configuration")
	withBg := flag.Bool("with-bg", false, "include the background image in the output")
	watch := flag.Bool("watch", false, "regenerate the output when an input changes")
	verbose := flag.Bool("v", false, "log debug messages")
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	sketch.SetLogger(logger)

	if *outPath == "" || flag.NArg() > 0 {
		fmt.Fprintln(os.Stderr, "usage: sketch [-config file.lua] [-in paths.json] [-bg image] [-with-bg] [-watch] [-v] -o output")
		return 2
	}

	job := &job{
		ConfigPath: *configPath,
		InPath:     *inPath,
		OutPath:    *outPath,
		Background: *bgRef,
		WithBg:     *withBg,
	}
	if _, err := outputKind(job.OutPath); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}

	if err := job.Run(); err != nil {
		logger.Error("render failed", "err", err)
		if !*watch {
			return 1
		}
	} else {
		logger.Info("written", "file", job.OutPath)
	}
	if !*watch {
		return 0
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var files []string
	for _, f := range []string{job.ConfigPath, job.InPath} {
		if f != "" {
			files = append(files, f)
		}
	}
	if len(files) == 0 {
		fmt.Fprintln(os.Stderr, "-watch needs -config or -in")
		return 2
	}
	err := watchFiles(ctx, files, DefaultWatchDebounce, func() {
		if err := job.Run(); err != nil {
			logger.Error("render failed", "err", err)
			return
		}
		logger.Info("written", "file", job.OutPath)
	})
	if err != nil {
		logger.Error("watching failed", "err", err)
		return 1
	}
	return 0
}

// kind is the type of output file.
type kind int

const (
	kindRaster kind = iota
	kindSVG
	kindPDF
	kindPaths
)

func outputKind(name string) (kind, error) {
	ext := strings.ToLower(filepath.Ext(name))
	switch ext {
	case ".svg":
		return kindSVG, nil
	case ".pdf":
		return kindPDF, nil
	case ".json":
		return kindPaths, nil
	}
	if _, err := export.ParseFormat(ext); err == nil {
		return kindRaster, nil
	}
	return 0, fmt.Errorf("unsupported output file type %q", ext)
}

// job describes one rendering of the stroke log to a file.
type job struct {
	ConfigPath string
	InPath     string
	OutPath    string
	Background string
	WithBg     bool
}

// Run loads the configuration and the stroke log, and writes the output
// file.
func (j *job) Run() error {
	// warnings are logged by sketch.New
	cfg, _, err := config.Load(j.ConfigPath)
	if err != nil {
		return err
	}
	if j.Background != "" {
		cfg.Canvas.BackgroundImage = j.Background
	}
	withBg := j.WithBg || cfg.Export.WithBackgroundImage

	c, err := sketch.New(cfg)
	if err != nil {
		return err
	}
	if j.InPath != "" {
		data, err := os.ReadFile(j.InPath)
		if err != nil {
			return err
		}
		if err := c.LoadPathsJSON(data); err != nil {
			return fmt.Errorf("%s: %w", j.InPath, err)
		}
	}

	data, err := j.encode(c, withBg)
	if err != nil {
		return err
	}
	return writeFileAtomic(j.OutPath, data)
}

func (j *job) encode(c *sketch.Canvas, withBg bool) ([]byte, error) {
	k, err := outputKind(j.OutPath)
	if err != nil {
		return nil, err
	}
	switch k {
	case kindSVG:
		s, err := c.ExportSVG(withBg)
		return []byte(s), err
	case kindPDF:
		buf := &bytes.Buffer{}
		if err := c.ExportPDF(buf, withBg); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	case kindPaths:
		return c.ExportPaths()
	default:
		f, err := export.ParseFormat(filepath.Ext(j.OutPath))
		if err != nil {
			return nil, err
		}
		return c.ExportRaster(f, withBg)
	}
}

// writeFileAtomic replaces the named file, so that a watcher never sees
// a partial output file.
func writeFileAtomic(name string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(name), "."+filepath.Base(name)+".*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), name)
}
