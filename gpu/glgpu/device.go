// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package glgpu implements [gpu.Device] on OpenGL 4.3 core.
// Occlusion queries are ANY_SAMPLES_PASSED queries around a depth-only
// draw of the bounding box of a node. All methods must be called on
// the thread that owns the current GL context.
package glgpu

import (
	_ "embed"

	"cogentcore.org/xr/gpu"
	"cogentcore.org/xr/math32"
	"github.com/go-gl/gl/v4.3-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
)

//go:embed shaders/proxy.vert
var proxyVertexShader string

//go:embed shaders/proxy.frag
var proxyFragmentShader string

// Device is an OpenGL [gpu.Device].
type Device struct {
	proxy *Program
	uMVP  int32
	cube  *Mesh
}

// NewDevice initializes the GL bindings for the current context, and
// returns a new device with its bounding box proxy program.
func NewDevice() (*Device, error) {
	if err := gl.Init(); err != nil {
		return nil, errors.Wrap(err, "glgpu: init")
	}
	dv := &Device{}
	var err error
	dv.proxy, err = LoadProgram(proxyVertexShader, proxyFragmentShader)
	if err != nil {
		return nil, errors.Wrap(err, "glgpu: proxy program")
	}
	dv.uMVP = dv.proxy.Uniform("uMVP")
	dv.cube, err = NewMesh("proxy cube", unitCube.positions, unitCube.indexes)
	if err != nil {
		dv.proxy.Delete()
		return nil, errors.Wrap(err, "glgpu: proxy cube")
	}
	gl.Enable(gl.DEPTH_TEST)
	return dv, nil
}

// Release deletes the GL objects of the device.
func (dv *Device) Release() {
	if dv.proxy != nil {
		dv.proxy.Delete()
		dv.proxy = nil
	}
	if dv.cube != nil {
		dv.cube.Delete()
		dv.cube = nil
	}
}

func (dv *Device) NewQuery() (gpu.Query, error) {
	var id uint32
	gl.GenQueries(1, &id)
	if err := checkError("new query"); err != nil {
		return 0, err
	}
	if id == 0 {
		return 0, errors.New("new query: no query name generated")
	}
	return gpu.Query(id), nil
}

func (dv *Device) DeleteQuery(q gpu.Query) {
	id := uint32(q)
	gl.DeleteQueries(1, &id)
}

func (dv *Device) BeginQuery(q gpu.Query) {
	gl.BeginQuery(gl.ANY_SAMPLES_PASSED, uint32(q))
}

func (dv *Device) EndQuery(q gpu.Query) {
	gl.EndQuery(gl.ANY_SAMPLES_PASSED)
}

// QueryResult polls the query without waiting: the result is read
// only when QUERY_RESULT_AVAILABLE is set.
func (dv *Device) QueryResult(q gpu.Query) (uint32, bool) {
	var avail uint32
	gl.GetQueryObjectuiv(uint32(q), gl.QUERY_RESULT_AVAILABLE, &avail)
	if avail == gl.FALSE {
		return 0, false
	}
	var samples uint32
	gl.GetQueryObjectuiv(uint32(q), gl.QUERY_RESULT, &samples)
	return samples, true
}

// DrawProxyBox draws the given box with depth testing and no color or
// depth writes, so that it only counts the samples that pass. Both
// sides of the box are drawn, so that an eye inside the box sees it.
func (dv *Device) DrawProxyBox(mvp mgl32.Mat4, box math32.Box3) {
	m := mvp.Mul4(boxModel(box))
	gl.ColorMask(false, false, false, false)
	gl.DepthMask(false)
	cull := gl.IsEnabled(gl.CULL_FACE)
	if cull {
		gl.Disable(gl.CULL_FACE)
	}

	gl.UseProgram(dv.proxy.ID)
	gl.UniformMatrix4fv(dv.uMVP, 1, false, &m[0])
	gl.BindVertexArray(dv.cube.vao)
	gl.DrawElements(gl.TRIANGLES, int32(dv.cube.count), gl.UNSIGNED_INT, nil)
	gl.BindVertexArray(0)

	if cull {
		gl.Enable(gl.CULL_FACE)
	}
	gl.DepthMask(true)
	gl.ColorMask(true, true, true, true)
}

// DrawIndexed draws the triangles of the given geometry with the
// currently bound material.
func (dv *Device) DrawIndexed(g gpu.Geometry) {
	gl.BindVertexArray(g.VertexArray())
	gl.DrawElements(gl.TRIANGLES, int32(g.IndexCount()), gl.UNSIGNED_INT, nil)
	gl.BindVertexArray(0)
}
