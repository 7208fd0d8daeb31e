// Copyright (c) 2019, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package xyz

import (
	"cogentcore.org/xr/gpu"
	"cogentcore.org/xr/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Node is a spatial node in a [Scene]: a local pose relative to its
// parent, lazily computed local and world matrices, an optional
// drawable, and the visibility state maintained by the culler.
// Nodes are created with [Scene.NewNode] and refer to their parent
// and drawable owner through [NodeID] handles.
type Node struct {

	// Name of the node, used in paths and logging.
	Name string

	scene *Scene
	id    NodeID

	pos   mgl32.Vec3
	scale mgl32.Vec3
	quat  mgl32.Quat

	local            mgl32.Mat4
	world            mgl32.Mat4
	localNeedsUpdate bool
	worldNeedsUpdate bool

	// number of world matrix computations, for tests
	worldUpdates int

	visible  bool
	visCount int

	lod       LODRange
	lodActive bool

	query            gpu.Query
	queryState       QueryState
	framesSinceQuery int

	bounds      math32.Box3
	boundsDirty bool

	parent   NodeID
	children []NodeID
	drawable *Drawable
}

func newNode(sc *Scene, name string) *Node {
	n := &Node{Name: name, scene: sc}
	n.scale = mgl32.Vec3{1, 1, 1}
	n.quat = mgl32.QuatIdent()
	n.local = mgl32.Ident4()
	n.world = mgl32.Ident4()
	n.localNeedsUpdate = true
	n.worldNeedsUpdate = true
	n.visible = true
	n.lod = DefaultLODRange()
	n.boundsDirty = true
	return n
}

// ID returns the handle of this node.
func (n *Node) ID() NodeID {
	return n.id
}

// Scene returns the scene owning this node, or nil if it was destroyed.
func (n *Node) Scene() *Scene {
	return n.scene
}

// IsLive returns true if the node has not been destroyed.
func (n *Node) IsLive() bool {
	return n.scene != nil
}

// Position returns the position relative to the parent.
func (n *Node) Position() mgl32.Vec3 { return n.pos }

// Scale returns the scale relative to the parent.
func (n *Node) Scale() mgl32.Vec3 { return n.scale }

// Rotation returns the rotation relative to the parent.
// It may not be unit length: see [math32.GuardQuat].
func (n *Node) Rotation() mgl32.Quat { return n.quat }

// SetPosition sets the position relative to the parent.
func (n *Node) SetPosition(pos mgl32.Vec3) *Node {
	n.pos = pos
	n.invalidate(false)
	return n
}

// SetScale sets the scale relative to the parent.
func (n *Node) SetScale(scale mgl32.Vec3) *Node {
	n.scale = scale
	n.invalidate(false)
	return n
}

// SetRotation sets the rotation relative to the parent.
func (n *Node) SetRotation(quat mgl32.Quat) *Node {
	n.quat = quat
	n.invalidate(true)
	return n
}

// SetEulerRotation sets the rotation from Euler angles in degrees,
// applied in X, Y, Z order.
func (n *Node) SetEulerRotation(x, y, z float32) *Node {
	return n.SetRotation(mgl32.AnglesToQuat(math32.DegToRad(x), math32.DegToRad(y), math32.DegToRad(z), mgl32.XYZ))
}

// SetLocalMatrix sets the position, scale and rotation from the
// given affine matrix. The scale of an axis is negative when the
// matrix reflects it: see [math32.Decompose].
func (n *Node) SetLocalMatrix(m mgl32.Mat4) *Node {
	n.pos, n.quat, n.scale = math32.Decompose(m)
	n.invalidate(true)
	return n
}

// LocalMatrix returns the local matrix:
// translation(position) · rotation · scaling(scale).
func (n *Node) LocalMatrix() mgl32.Mat4 {
	if n.localNeedsUpdate {
		n.local = math32.Compose(n.pos, n.quat, n.scale)
		n.localNeedsUpdate = false
	}
	return n.local
}

// WorldMatrix returns the world matrix, which maps the local space of
// this node into the space of the scene root. It is cached, and is only
// recomputed, along with any out of date ancestors, after a transform
// of this node or an ancestor changed.
func (n *Node) WorldMatrix() mgl32.Mat4 {
	if n.worldNeedsUpdate {
		n.updateWorldMatrix()
	}
	return n.world
}

func (n *Node) updateWorldMatrix() {
	lm := n.LocalMatrix()
	if p := n.Parent(); p != nil {
		n.world = p.WorldMatrix().Mul4(lm)
	} else {
		n.world = lm
	}
	n.worldNeedsUpdate = false
	n.worldUpdates++
}

// SetWorldMatrix sets the local pose such that the world matrix
// becomes the given matrix under the current parent.
// The node is not reparented.
func (n *Node) SetWorldMatrix(w mgl32.Mat4) *Node {
	if p := n.Parent(); p != nil {
		w = p.WorldMatrix().Inv().Mul4(w)
	}
	return n.SetLocalMatrix(w)
}

// WorldPosition returns the position of this node in world space.
func (n *Node) WorldPosition() mgl32.Vec3 {
	return math32.Translation(n.WorldMatrix())
}

// invalidate marks the matrices of this node and its descendants out
// of date, after a change of the local pose. For a rotation change,
// the rotation is first guarded against overflow.
func (n *Node) invalidate(rotation bool) {
	if rotation {
		n.quat, _ = math32.GuardQuat(n.quat)
	}
	n.localNeedsUpdate = true
	n.invalidateWorld()
	n.markBoundsDirty()
}

// invalidateWorld marks the world matrix of this node and of all of
// its descendants out of date. A node that is already out of date
// has out of date descendants, so the walk stops there.
func (n *Node) invalidateWorld() {
	if n.worldNeedsUpdate {
		return
	}
	for _, cid := range n.children {
		if c := n.scene.Node(cid); c != nil {
			c.invalidateWorld()
		}
	}
	n.worldNeedsUpdate = true
	n.boundsDirty = true
}
