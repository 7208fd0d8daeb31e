// Copyright (c) 2023, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package config contains the configuration structs for the
// renderer, loaded from TOML settings files, and the YAML scene
// descriptions from which scene graphs are built.
package config

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"os"

	"cogentcore.org/xr/base/logx"
	"cogentcore.org/xr/xyz"
	"github.com/pelletier/go-toml/v2"
)

// Settings is the main config struct
// that contains all of the configuration
// options for rendering a scene.
type Settings struct {

	// the culling and stereo options
	Render Render `toml:"render"`

	// the logging options
	Log Log `toml:"log"`
}

// Render contains the render options.
type Render struct {

	// distance to the near clipping plane
	Near float32 `toml:"near"`

	// distance to the far clipping plane
	Far float32 `toml:"far"`

	// interpupillary distance, in meters
	IPD float32 `toml:"ipd"`

	// whether to cull with occlusion queries
	Occlusion bool `toml:"occlusion"`

	// whether to cull against the view frustum
	Frustum bool `toml:"frustum"`

	// minimum number of passes between occlusion queries of a node
	QueryInterval int `toml:"query_interval"`

	// debounce threshold for node visibility changes
	VisibilityThreshold int `toml:"visibility_threshold"`
}

// Log contains the logging options.
type Log struct {

	// the minimum level of messages to show: debug, info, warn, or error
	Level string `toml:"level"`
}

// Default returns the default settings.
func Default() *Settings {
	opts := xyz.DefaultOptions()
	return &Settings{
		Render: Render{
			Near:                opts.Near,
			Far:                 opts.Far,
			IPD:                 opts.IPD,
			Occlusion:           opts.Occlusion,
			Frustum:             opts.Frustum,
			QueryInterval:       opts.QueryInterval,
			VisibilityThreshold: xyz.DefaultVisibilityThreshold,
		},
		Log: Log{Level: "info"},
	}
}

// Open reads settings from the given TOML file. Fields that are not
// in the file keep their default values.
func Open(filename string) (*Settings, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	s, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("config: %s: %w", filename, err)
	}
	return s, nil
}

// Read reads settings in TOML format from the given reader, starting
// from [Default]. Unknown fields are an error, and the result is
// validated.
func Read(r io.Reader) (*Settings, error) {
	s := Default()
	if err := toml.NewDecoder(r).DisallowUnknownFields().Decode(s); err != nil {
		return nil, err
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Save writes the settings to the given file in TOML format.
func (s *Settings) Save(filename string) error {
	b, err := s.Bytes()
	if err != nil {
		return err
	}
	return os.WriteFile(filename, b, 0666)
}

// Bytes returns the settings in TOML format.
func (s *Settings) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	enc := toml.NewEncoder(&buf)
	enc.SetIndentTables(true)
	if err := enc.Encode(s); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Validate returns an error if the settings cannot be used to render.
func (s *Settings) Validate() error {
	r := &s.Render
	switch {
	case r.Near <= 0:
		return fmt.Errorf("render.near must be positive, not %g", r.Near)
	case r.Far <= r.Near:
		return fmt.Errorf("render.far (%g) must be beyond render.near (%g)", r.Far, r.Near)
	case r.IPD < 0:
		return fmt.Errorf("render.ipd must not be negative, not %g", r.IPD)
	case r.QueryInterval < 1:
		return fmt.Errorf("render.query_interval must be at least 1, not %d", r.QueryInterval)
	case r.VisibilityThreshold < 0:
		return fmt.Errorf("render.visibility_threshold must not be negative, not %d", r.VisibilityThreshold)
	}
	if _, err := s.LogLevel(); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	return nil
}

// RenderOptions returns the render options of the settings.
func (s *Settings) RenderOptions() xyz.Options {
	r := &s.Render
	return xyz.Options{
		Near:          r.Near,
		Far:           r.Far,
		IPD:           r.IPD,
		Frustum:       r.Frustum,
		Occlusion:     r.Occlusion,
		QueryInterval: r.QueryInterval,
	}
}

// LogLevel returns the [slog.Level] of the log settings.
func (s *Settings) LogLevel() (slog.Level, error) {
	return logx.LevelFromString(s.Log.Level)
}

// Apply applies the settings to the given renderer and scene,
// and sets the user log level.
func (s *Settings) Apply(rn *xyz.Renderer, sc *xyz.Scene) {
	rn.SetOptions(s.RenderOptions())
	if sc != nil {
		sc.VisibilityThreshold = s.Render.VisibilityThreshold
	}
	if lv, err := s.LogLevel(); err == nil {
		logx.SetUserLevel(lv)
	}
}
