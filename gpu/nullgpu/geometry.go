// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package nullgpu

import (
	"cogentcore.org/xr/gpu"
	"cogentcore.org/xr/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Geometry is a [gpu.Geometry] that only carries its bounding box.
type Geometry struct {
	Name    string
	Box     math32.Box3
	Indexes int
}

// NewBox returns a box geometry of the given size, centered at the origin.
func NewBox(name string, size mgl32.Vec3) *Geometry {
	hs := size.Mul(0.5)
	return &Geometry{Name: name, Box: math32.Box3{Min: hs.Mul(-1), Max: hs}, Indexes: 36}
}

func (g *Geometry) BBox() math32.Box3   { return g.Box }
func (g *Geometry) VertexArray() uint32 { return 0 }
func (g *Geometry) IndexCount() int     { return g.Indexes }

// Material is a [gpu.Material] that records its binds on a [Device].
type Material struct {
	Name string
	Key  uint64

	// Err, if set, is returned from Bind.
	Err error

	// Binds counts successful binds.
	Binds int

	// Last is the last bound transforms.
	Last gpu.Transforms

	dev *Device
}

// NewMaterial returns a new material with the given sort key
// that records its binds on the given device.
func NewMaterial(dev *Device, name string, key uint64) *Material {
	return &Material{Name: name, Key: key, dev: dev}
}

func (m *Material) SortKey() uint64 { return m.Key }

func (m *Material) Bind(xf *gpu.Transforms) error {
	if m.Err != nil {
		return m.Err
	}
	m.Binds++
	m.Last = *xf
	if m.dev != nil {
		m.dev.bound = m
	}
	return nil
}
