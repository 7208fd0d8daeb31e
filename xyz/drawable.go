// Copyright (c) 2019, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package xyz

import (
	"cogentcore.org/xr/gpu"
)

// Drawable binds a geometry and a material into something that can
// be drawn. It is owned by at most one [Node] at a time.
type Drawable struct {

	// Name of the drawable, for logging.
	Name string

	// Geometry is the mesh to draw, with its local bounding box.
	Geometry gpu.Geometry

	// Material is the shader state to draw with.
	Material gpu.Material

	scene *Scene
	owner NodeID
}

// NewDrawable returns a new unowned drawable.
func NewDrawable(name string, geom gpu.Geometry, mat gpu.Material) *Drawable {
	return &Drawable{Name: name, Geometry: geom, Material: mat}
}

// Owner returns the node owning this drawable, or nil.
func (d *Drawable) Owner() *Node {
	if d.scene == nil {
		return nil
	}
	return d.scene.Node(d.owner)
}

// Drawable returns the drawable of this node, or nil.
func (n *Node) Drawable() *Drawable {
	return n.drawable
}

// AttachDrawable makes this node the owner of the given drawable.
// The drawable is first detached from its previous owner, and the
// previous drawable of this node is detached. Attaching the drawable
// this node already owns does nothing.
func (n *Node) AttachDrawable(d *Drawable) {
	if d == nil || n.scene == nil || n.drawable == d {
		return
	}
	if prev := d.Owner(); prev != nil {
		prev.DetachDrawable()
	}
	n.DetachDrawable()
	n.drawable = d
	d.scene = n.scene
	d.owner = n.id
	n.markBoundsDirty()
}

// DetachDrawable clears the drawable of this node, and the owner
// of that drawable. It does nothing if there is no drawable.
func (n *Node) DetachDrawable() {
	d := n.drawable
	if d == nil {
		return
	}
	n.drawable = nil
	d.scene = nil
	d.owner = NodeID{}
	n.markBoundsDirty()
}
