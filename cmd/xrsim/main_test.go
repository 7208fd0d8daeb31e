// Copyright (c) 2023, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"cogentcore.org/xr/config"
	"cogentcore.org/xr/gpu/nullgpu"
	"cogentcore.org/xr/vr"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runApp(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	app := newApp()
	app.Writer = &buf
	err := app.Run(append([]string{"xrsim"}, args...))
	return buf.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	fn := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(fn, []byte(content), 0666))
	return fn
}

func TestRunDemo(t *testing.T) {
	out, err := runApp(t, "-q", "run", "-n", "30")
	require.NoError(t, err)
	assert.Contains(t, out, `30 frames of "demo"`)
	assert.Contains(t, out, "left")
	assert.Contains(t, out, "right")
	assert.Contains(t, out, "Total")
}

func TestRunSceneFile(t *testing.T) {
	scene := writeFile(t, "scene.yaml", `
name: pair
nodes:
  - name: a
    geometry: box
    material: red
    position: [0, 0, -3]
  - name: b
    geometry: crate
    material: blue
    position: [0, 0, 3]
`)
	settings := writeFile(t, "settings.toml", "[render]\nocclusion = false\n[log]\nlevel = \"error\"\n")
	out, err := runApp(t, "run", "-s", settings, "-n", "5", "--yaw", "0", scene)
	require.NoError(t, err)
	assert.Contains(t, out, `5 frames of "pair"`)
}

func TestRunErrors(t *testing.T) {
	scene := writeFile(t, "scene.yaml", "nodes:\n  - name: a\n    geometry: teapot\n    material: red\n")
	_, err := runApp(t, "-q", "run", "-n", "1", scene)
	assert.ErrorContains(t, err, "teapot")

	_, err = runApp(t, "-q", "run", "-s", filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}

func TestInspect(t *testing.T) {
	scene := writeFile(t, "scene.yaml", `
templates:
  crate:
    geometry: crate
    material: red
nodes:
  - name: c
    template: crate
`)
	out, err := runApp(t, "inspect", scene)
	require.NoError(t, err)
	assert.Contains(t, out, `Geometry: (string) (len=5) "crate"`)

	_, err = runApp(t, "inspect")
	assert.Error(t, err)
}

func TestDefaults(t *testing.T) {
	out, err := runApp(t, "defaults")
	require.NoError(t, err)
	s, err := config.Read(bytes.NewBufferString(out))
	require.NoError(t, err)
	assert.Equal(t, config.Default(), s)
}

func TestDemoScene(t *testing.T) {
	d := demoScene()
	nodes, err := d.Resolved()
	require.NoError(t, err)
	require.Len(t, nodes, 4)
	assert.Len(t, nodes[1].Children, 8)
	assert.Equal(t, "pillar", nodes[1].Children[0].Geometry)
	assert.Equal(t, [2]float32{0, 40}, *nodes[3].LOD)
}

func TestKeyEventType(t *testing.T) {
	assert.Equal(t, vr.KeyDown, keyEventType(glfw.Press))
	assert.Equal(t, vr.KeyUp, keyEventType(glfw.Release))
	assert.Equal(t, vr.KeyNone, keyEventType(glfw.Repeat))
}

func TestLibraries(t *testing.T) {
	lib := newLibrary(nullgpu.NewDevice(0))
	assert.Len(t, lib.Geometries, len(boxSizes))
	require.Len(t, lib.Materials, len(materialColors))
	assert.Equal(t, uint64(1), lib.Materials["red"].SortKey())

	view := newApp().Command("view")
	require.NotNil(t, view)
	assert.Equal(t, "[scene.yaml]", view.ArgsUsage)
}
