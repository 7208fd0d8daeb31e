// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package glgpu

import (
	"cogentcore.org/xr/math32"
	"github.com/go-gl/gl/v4.3-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
)

// Mesh is an indexed triangle mesh in GPU buffers, with vertex
// positions at attribute location 0. It implements [gpu.Geometry].
type Mesh struct {

	// Name of the mesh.
	Name string

	vao, vbo, ebo uint32
	count         int
	box           math32.Box3
}

// NewMesh uploads the given triangle mesh, which must have at least
// one vertex and a multiple of three indexes.
func NewMesh(name string, positions []mgl32.Vec3, indexes []uint32) (*Mesh, error) {
	if len(positions) == 0 || len(indexes)%3 != 0 {
		return nil, errors.Errorf("mesh %q: %d positions and %d indexes are not a triangle mesh", name, len(positions), len(indexes))
	}
	ms := &Mesh{Name: name, count: len(indexes), box: positionsBBox(positions)}
	gl.GenVertexArrays(1, &ms.vao)
	gl.BindVertexArray(ms.vao)

	gl.GenBuffers(1, &ms.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, ms.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(positions)*3*4, gl.Ptr(positions), gl.STATIC_DRAW)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, 3*4, 0)

	gl.GenBuffers(1, &ms.ebo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, ms.ebo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(indexes)*4, gl.Ptr(indexes), gl.STATIC_DRAW)

	gl.BindVertexArray(0)
	if err := checkError("new mesh " + name); err != nil {
		ms.Delete()
		return nil, err
	}
	return ms, nil
}

func (ms *Mesh) BBox() math32.Box3   { return ms.box }
func (ms *Mesh) VertexArray() uint32 { return ms.vao }
func (ms *Mesh) IndexCount() int     { return ms.count }

// Delete deletes the GPU buffers of the mesh. Meshes that may still be
// drawn in the current frame should be deleted through
// [xyz.Renderer.Defer].
func (ms *Mesh) Delete() {
	gl.DeleteVertexArrays(1, &ms.vao)
	gl.DeleteBuffers(1, &ms.vbo)
	gl.DeleteBuffers(1, &ms.ebo)
	ms.vao, ms.vbo, ms.ebo = 0, 0, 0
}

// positionsBBox returns the bounding box of the given positions.
func positionsBBox(positions []mgl32.Vec3) math32.Box3 {
	box := math32.B3Empty()
	for _, p := range positions {
		box.ExpandByPoint(p)
	}
	return box
}

// unitCube is the unit cube from 0 to 1, used as the proxy for
// bounding boxes.
var unitCube = struct {
	positions []mgl32.Vec3
	indexes   []uint32
}{
	positions: []mgl32.Vec3{
		{0, 0, 0}, {1, 0, 0}, {1, 1, 0}, {0, 1, 0},
		{0, 0, 1}, {1, 0, 1}, {1, 1, 1}, {0, 1, 1},
	},
	indexes: []uint32{
		0, 2, 1, 0, 3, 2, // back
		4, 5, 6, 4, 6, 7, // front
		0, 1, 5, 0, 5, 4, // bottom
		3, 7, 6, 3, 6, 2, // top
		0, 4, 7, 0, 7, 3, // left
		1, 2, 6, 1, 6, 5, // right
	},
}

// boxModel returns the model matrix that maps the unit cube onto box.
func boxModel(box math32.Box3) mgl32.Mat4 {
	sz := box.Size()
	return mgl32.Translate3D(box.Min.Elem()).Mul4(mgl32.Scale3D(sz.Elem()))
}

// NewBoxMesh uploads a box of the given size centered on the origin.
func NewBoxMesh(name string, size mgl32.Vec3) (*Mesh, error) {
	return NewMesh(name, boxPositions(size), unitCube.indexes)
}

// boxPositions returns the corners of the unit cube scaled to size
// and centered on the origin.
func boxPositions(size mgl32.Vec3) []mgl32.Vec3 {
	ps := make([]mgl32.Vec3, len(unitCube.positions))
	for i, p := range unitCube.positions {
		c := p.Sub(mgl32.Vec3{0.5, 0.5, 0.5})
		ps[i] = mgl32.Vec3{c[0] * size[0], c[1] * size[1], c[2] * size[2]}
	}
	return ps
}
