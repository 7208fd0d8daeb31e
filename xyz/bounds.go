// Copyright (c) 2019, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package xyz

import (
	"cogentcore.org/xr/math32"
)

// markBoundsDirty marks the subtree bounds of this node and of its
// ancestors out of date. The ancestors of a node with out of date
// bounds are out of date, so the walk stops at the first one.
func (n *Node) markBoundsDirty() {
	n.boundsDirty = true
	for p := n.Parent(); p != nil && !p.boundsDirty; p = p.Parent() {
		p.boundsDirty = true
	}
}

// WorldBBox returns the bounding box of the geometry of the drawable,
// transformed into world space. It is an [ErrMissingDrawable] error
// for the node to have no drawable.
func (n *Node) WorldBBox() (math32.Box3, error) {
	if n.drawable == nil || n.drawable.Geometry == nil {
		return math32.B3Empty(), nodeError("WorldBBox", n, ErrMissingDrawable)
	}
	wm := n.WorldMatrix()
	return n.drawable.Geometry.BBox().MulMatrix4(&wm), nil
}

// SubtreeBBox returns the world space bounding box enclosing the
// drawables of this node and of all of its descendants. It is empty
// when there are none. The result is cached until a transform,
// drawable, or child in the subtree changes.
func (n *Node) SubtreeBBox() math32.Box3 {
	if !n.boundsDirty {
		return n.bounds
	}
	bb := math32.B3Empty()
	if wb, err := n.WorldBBox(); err == nil {
		bb.ExpandByBox(wb)
	}
	for _, c := range n.Children() {
		bb.ExpandByBox(c.SubtreeBBox())
	}
	n.bounds = bb
	n.boundsDirty = false
	return bb
}

// IsColliding returns true if the world bounding boxes of the drawables
// of this node and the other node overlap on all three axes.
// Boxes that only touch do not collide. It is an [ErrMissingDrawable]
// error for either node to have no drawable.
func (n *Node) IsColliding(other *Node) (bool, error) {
	ab, err := n.WorldBBox()
	if err != nil {
		return false, err
	}
	bb, err := other.WorldBBox()
	if err != nil {
		return false, err
	}
	return ab.OverlapsBox(bb), nil
}
