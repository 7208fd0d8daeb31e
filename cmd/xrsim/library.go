// Copyright (c) 2023, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"cogentcore.org/xr/config"
	"cogentcore.org/xr/gpu"
	"cogentcore.org/xr/gpu/nullgpu"
	"github.com/go-gl/mathgl/mgl32"
)

// boxSizes are the sizes of the box geometries available to scenes.
var boxSizes = map[string]mgl32.Vec3{
	"box":    {1, 1, 1},
	"crate":  {2, 2, 2},
	"pillar": {0.5, 3, 0.5},
	"floor":  {20, 0.1, 20},
}

// materialColors are the materials available to scenes, in sort order.
var materialColors = []struct {
	name  string
	color mgl32.Vec4
}{
	{"gray", mgl32.Vec4{0.5, 0.5, 0.5, 1}},
	{"red", mgl32.Vec4{0.8, 0.2, 0.2, 1}},
	{"green", mgl32.Vec4{0.2, 0.6, 0.3, 1}},
	{"blue", mgl32.Vec4{0.2, 0.3, 0.8, 1}},
	{"glass", mgl32.Vec4{0.7, 0.8, 0.9, 0.4}},
}

// newLibrary returns the geometries and materials available to
// simulated scenes.
func newLibrary(dev *nullgpu.Device) *config.MapLibrary {
	lib := &config.MapLibrary{
		Geometries: map[string]gpu.Geometry{},
		Materials:  map[string]gpu.Material{},
	}
	for name, size := range boxSizes {
		lib.Geometries[name] = nullgpu.NewBox(name, size)
	}
	for i, mc := range materialColors {
		lib.Materials[mc.name] = nullgpu.NewMaterial(dev, mc.name, uint64(i))
	}
	return lib
}

// demoScene is the scene run when no scene file is given: a ring of
// pillars on a floor, with crates inside and far away.
func demoScene() *config.Desc {
	d := &config.Desc{
		Name: "demo",
		Templates: map[string]config.NodeDesc{
			"pillar": {Geometry: "pillar", Material: "gray"},
			"crate":  {Geometry: "crate", Material: "red", LOD: &[2]float32{0, 40}},
		},
	}
	floor := config.NodeDesc{Name: "floor", Geometry: "floor", Material: "green", Position: &[3]float32{0, -1.5, 0}}
	ring := config.NodeDesc{Name: "ring"}
	for i := range 8 {
		rot := mgl32.QuatRotate(mgl32.DegToRad(float32(i)*45), mgl32.Vec3{0, 1, 0})
		p := rot.Rotate(mgl32.Vec3{0, 0, -6})
		ring.Children = append(ring.Children, config.NodeDesc{
			Name:     "pillar" + string(rune('0'+i)),
			Template: "pillar",
			Position: &[3]float32{p[0], p[1], p[2]},
		})
	}
	near := config.NodeDesc{Name: "crate-near", Template: "crate", Position: &[3]float32{0, 0, -4}}
	far := config.NodeDesc{Name: "crate-far", Template: "crate", Position: &[3]float32{0, 0, -80}}
	d.Nodes = []config.NodeDesc{floor, ring, near, far}
	return d
}
