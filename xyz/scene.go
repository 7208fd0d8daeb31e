// Copyright (c) 2019, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package xyz

import (
	"fmt"
	"log/slog"

	"cogentcore.org/xr/gpu"
	"github.com/go-gl/mathgl/mgl32"
)

// DefaultVisibilityThreshold is the default number of consecutive
// agreeing occlusion results needed to flip the visibility of a node.
const DefaultVisibilityThreshold = 12

// NodeID is a stable handle to a node in a [Scene].
// The zero value refers to no node. A handle to a destroyed node
// never resolves again, even if its storage is reused.
type NodeID struct {
	index uint32 // slot index + 1
	gen   uint32
}

// IsNil returns true if the handle refers to no node.
func (id NodeID) IsNil() bool {
	return id.index == 0
}

func (id NodeID) String() string {
	if id.IsNil() {
		return "nil"
	}
	return fmt.Sprintf("%d.%d", id.index-1, id.gen)
}

type slot struct {
	node *Node
	gen  uint32
}

// Scene is the overall scenegraph: an arena owning all of its nodes,
// a root node that the renderer walks, and a camera node whose world
// matrix is the head pose. It also holds the view and projection of
// the eye currently being rendered.
type Scene struct {

	// name of the scene, for logging
	Name string

	// VisibilityThreshold is the debounce threshold for node visibility:
	// a node flips only after the signed count of occlusion results
	// goes beyond plus or minus this value.
	VisibilityThreshold int

	// QueryReleaser, if set, is called with the occlusion query of a
	// node being destroyed. It must not wait on or read the query.
	QueryReleaser func(q gpu.Query)

	// View is the view matrix of the eye being rendered.
	View mgl32.Mat4

	// Projection is the projection matrix of the eye being rendered.
	Projection mgl32.Mat4

	// CenterView is the head pose view matrix for the current frame,
	// from which both eye views are derived.
	CenterView mgl32.Mat4

	// Eye is the index of the eye being rendered.
	Eye int

	slots  []slot
	free   []uint32
	count  int
	root   NodeID
	camera NodeID
}

// NewScene returns a new scene with a root node and a camera node.
// The camera is not part of the rendered tree.
func NewScene(name string) *Scene {
	sc := &Scene{Name: name, VisibilityThreshold: DefaultVisibilityThreshold}
	sc.View = mgl32.Ident4()
	sc.Projection = mgl32.Ident4()
	sc.CenterView = mgl32.Ident4()
	sc.root = sc.NewNode("root").id
	sc.camera = sc.NewNode("camera").id
	return sc
}

// NewNode returns a new node in this scene, detached from any parent.
func (sc *Scene) NewNode(name string) *Node {
	n := newNode(sc, name)
	var idx uint32
	if nf := len(sc.free); nf > 0 {
		idx = sc.free[nf-1]
		sc.free = sc.free[:nf-1]
	} else {
		sc.slots = append(sc.slots, slot{})
		idx = uint32(len(sc.slots) - 1)
	}
	s := &sc.slots[idx]
	s.gen++
	s.node = n
	n.id = NodeID{index: idx + 1, gen: s.gen}
	sc.count++
	return n
}

// Node returns the node for the given handle, or nil if the handle
// is nil or the node has been destroyed.
func (sc *Scene) Node(id NodeID) *Node {
	if id.IsNil() || int(id.index) > len(sc.slots) {
		return nil
	}
	s := sc.slots[id.index-1]
	if s.gen != id.gen {
		return nil
	}
	return s.node
}

// NumNodes returns the number of live nodes, including the root and camera.
func (sc *Scene) NumNodes() int {
	return sc.count
}

// Root returns the root node, which is the top of the rendered tree.
func (sc *Scene) Root() *Node {
	return sc.Node(sc.root)
}

// Camera returns the camera node, whose world matrix is the head pose.
func (sc *Scene) Camera() *Node {
	return sc.Node(sc.camera)
}

// SetCamera sets the camera node.
func (sc *Scene) SetCamera(n *Node) error {
	if !sc.owns(n) {
		return nodeError("SetCamera", n, ErrStaleNode)
	}
	sc.camera = n.id
	return nil
}

// DestroyNode removes the given node from the scene. It is detached
// from its parent, its children become detached roots (they are not
// destroyed), its drawable is detached, and its occlusion query, if
// any, is handed to the [Scene.QueryReleaser] without being read.
// The root and camera nodes cannot be destroyed.
func (sc *Scene) DestroyNode(n *Node) error {
	if !sc.owns(n) {
		return nodeError("DestroyNode", n, ErrStaleNode)
	}
	if n.id == sc.root || n.id == sc.camera {
		return nodeError("DestroyNode", n, ErrStructural)
	}
	if p := n.Parent(); p != nil {
		p.RemoveChild(n)
	}
	for _, cid := range n.children {
		if c := sc.Node(cid); c != nil {
			c.parent = NodeID{}
			c.invalidateWorld()
			c.markBoundsDirty()
		}
	}
	n.children = nil
	n.DetachDrawable()
	if n.query != 0 {
		if n.queryState == QueryInFlight {
			slog.Debug("xyz: releasing in-flight occlusion query", "node", n.Name, "query", n.query)
		}
		if sc.QueryReleaser != nil {
			sc.QueryReleaser(n.query)
		}
		n.query = 0
		n.queryState = NotQueried
	}
	idx := n.id.index - 1
	sc.slots[idx].node = nil
	sc.free = append(sc.free, idx)
	sc.count--
	n.scene = nil
	return nil
}

// owns returns true if n is a live node of this scene.
func (sc *Scene) owns(n *Node) bool {
	return n != nil && n.scene == sc && sc.Node(n.id) == n
}

// SetEyeMatrices sets the view and projection of the eye about
// to be rendered.
func (sc *Scene) SetEyeMatrices(eye int, view, prjn mgl32.Mat4) {
	sc.Eye = eye
	sc.View = view
	sc.Projection = prjn
}

// ViewProjection returns Projection * View for the current eye.
func (sc *Scene) ViewProjection() mgl32.Mat4 {
	return sc.Projection.Mul4(sc.View)
}

// NodeByPath returns the node at the given path from the root,
// as returned by [Node.Path], or nil if there is none.
func (sc *Scene) NodeByPath(path string) *Node {
	var found *Node
	sc.Root().WalkDown(func(n *Node) bool {
		if found != nil {
			return Break
		}
		if n.Path() == path {
			found = n
			return Break
		}
		return Continue
	})
	return found
}
