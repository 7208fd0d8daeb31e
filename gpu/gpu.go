// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package gpu defines the narrow contracts between the scene graph
// renderer and the GPU: occlusion queries, proxy bounding box draws,
// and indexed draws of opaque geometry with opaque materials.
// Concrete devices live in the nullgpu (headless) and glgpu
// (OpenGL 4.3 core) subpackages.
package gpu

import (
	"cogentcore.org/xr/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Query is a handle to a GPU occlusion query object.
// The zero value is not a valid query.
type Query uint32

// Device is the GPU interface used by the renderer.
// All methods must be called on the render thread.
type Device interface {

	// NewQuery allocates a new occlusion query object.
	// An error here means occlusion culling cannot proceed.
	NewQuery() (Query, error)

	// DeleteQuery releases the given query object, without waiting
	// on or reading any pending result.
	DeleteQuery(q Query)

	// BeginQuery starts counting samples that pass the depth test
	// into the given query.
	BeginQuery(q Query)

	// EndQuery ends the current query.
	EndQuery(q Query)

	// QueryResult polls the given query without blocking.
	// If the result is not yet available, ready is false.
	QueryResult(q Query) (samples uint32, ready bool)

	// DrawProxyBox draws the given box (in the space transformed
	// by mvp) with depth testing on and color and depth writes off.
	DrawProxyBox(mvp mgl32.Mat4, box math32.Box3)

	// DrawIndexed issues an indexed draw of the given geometry with
	// the currently bound material state.
	DrawIndexed(g Geometry)
}

// Geometry is an opaque mesh handle with a precomputed
// local-space bounding box.
type Geometry interface {

	// BBox returns the bounding box in local coordinates.
	BBox() math32.Box3

	// VertexArray returns the vertex array object that holds
	// the vertex and index buffers.
	VertexArray() uint32

	// IndexCount returns the number of indexes to draw.
	IndexCount() int
}

// Material is an opaque shader program and texture state.
type Material interface {

	// SortKey returns a key used to group draws that share the
	// same GPU state. Draws are ordered by increasing key.
	SortKey() uint64

	// Bind makes this material the current GPU state and
	// uploads the given transforms.
	Bind(xf *Transforms) error
}

// Transforms holds the matrices uploaded for one draw.
type Transforms struct {

	// Model is the world matrix of the node being drawn.
	Model mgl32.Mat4

	// View is the eye view matrix.
	View mgl32.Mat4

	// Projection is the eye projection matrix.
	Projection mgl32.Mat4

	// MVP is Projection * View * Model.
	MVP mgl32.Mat4

	// Eye is the index of the eye being rendered (0 = left, 1 = right).
	Eye int
}

// SetMVP computes the MVP matrix from the other matrices.
func (xf *Transforms) SetMVP() {
	xf.MVP = xf.Projection.Mul4(xf.View).Mul4(xf.Model)
}
