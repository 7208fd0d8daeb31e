// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"io"
	"log/slog"
	"math"

	"cogentcore.org/xr/base/errors"
	"cogentcore.org/xr/config"
	"cogentcore.org/xr/gpu"
	"cogentcore.org/xr/gpu/glgpu"
	"cogentcore.org/xr/vr"
	"cogentcore.org/xr/xyz"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/urfave/cli"
)

// glLibrary is a [config.Library] of GPU meshes and color materials.
type glLibrary struct {
	config.MapLibrary
	meshes []*glgpu.Mesh
	prog   *glgpu.ColorProgram
}

// newGLLibrary uploads the geometries and materials available to
// viewed scenes. The GL context must be current.
func newGLLibrary() (*glLibrary, error) {
	lb := &glLibrary{MapLibrary: config.MapLibrary{
		Geometries: map[string]gpu.Geometry{},
		Materials:  map[string]gpu.Material{},
	}}
	var err error
	lb.prog, err = glgpu.NewColorProgram()
	if err != nil {
		return nil, err
	}
	for name, size := range boxSizes {
		ms, err := glgpu.NewBoxMesh(name, size)
		if err != nil {
			lb.Delete()
			return nil, err
		}
		lb.meshes = append(lb.meshes, ms)
		lb.Geometries[name] = ms
	}
	for _, mc := range materialColors {
		lb.Materials[mc.name] = glgpu.NewColorMaterial(lb.prog, mc.color)
	}
	return lb, nil
}

// Delete deletes the meshes and the program.
func (lb *glLibrary) Delete() {
	for _, ms := range lb.meshes {
		ms.Delete()
	}
	lb.meshes = nil
	if lb.prog != nil {
		lb.prog.Delete()
		lb.prog = nil
	}
}

// keyEventType returns the key event type of a glfw key action.
func keyEventType(action glfw.Action) vr.KeyEventType {
	switch action {
	case glfw.Press:
		return vr.KeyDown
	case glfw.Release:
		return vr.KeyUp
	}
	return vr.KeyNone
}

func viewScene(ctx *cli.Context) error {
	s, err := loadSettings(ctx)
	if err != nil {
		return err
	}
	desc, err := loadScene(ctx)
	if err != nil {
		return err
	}
	win, err := glgpu.NewWindow("xrsim: "+desc.Name, ctx.Int("width"), ctx.Int("height"), true)
	if err != nil {
		return err
	}
	defer win.Close()
	lib, err := newGLLibrary()
	if err != nil {
		return err
	}
	defer lib.Delete()

	dr := vr.NewDriver(&simApp{desc: desc, lib: lib}, win.Device, s)
	frames := int64(ctx.Int("frames"))
	if frames <= 0 {
		frames = math.MaxInt64
	}
	src := vr.NewSimSource(frames, float32(ctx.Float64("yaw")))
	win.Glfw.SetKeyCallback(func(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
		if key == glfw.KeyEscape && action == glfw.Press {
			w.SetShouldClose(true)
			return
		}
		ev := vr.KeyEvent{Code: int(key), Type: keyEventType(action)}
		if action == glfw.Repeat {
			ev.Type = vr.KeyLongPress
			ev.Repeat = 1
		}
		dr.KeyEvent(ev)
	})

	if err := dr.Init(); err != nil {
		return err
	}
	defer dr.Shutdown()
	dr.SetVRMode(true)
	dr.SetMounted(true)
	for !win.ShouldClose() {
		fi, err := src.Next(context.Background())
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return err
		}
		fi.FovX, fi.FovY = win.FieldsOfView(fi.FovY)
		dr.Frame(fi)
		win.Clear()
		for eye := range xyz.Eyes {
			win.SetEyeViewport(eye)
			if _, err := dr.DrawEyeView(eye, fi.FovX, fi.FovY); err != nil {
				return err
			}
		}
		dr.EndFrame()
		win.Present()
	}
	dr.SetMounted(false)
	slog.Info("xrsim: view closed", "scene", desc.Name, "frames", dr.Frames)
	return writeStats(ctx.App.Writer, dr)
}
