// Copyright (c) 2019, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package xyz

import (
	"fmt"
	"slices"
	"strings"
)

const (
	// Continue = true can be returned from tree iteration functions to continue
	// processing down the tree, as compared to Break = false which stops this branch.
	Continue = true

	// Break = false can be returned from tree iteration functions to stop processing
	// this branch of the tree.
	Break = false
)

// Parent returns the parent node, or nil for a root.
func (n *Node) Parent() *Node {
	if n.scene == nil {
		return nil
	}
	return n.scene.Node(n.parent)
}

// NumChildren returns the number of children.
func (n *Node) NumChildren() int {
	return len(n.children)
}

// Child returns the child at the given index, or an [ErrIndex] error.
func (n *Node) Child(i int) (*Node, error) {
	if i < 0 || i >= len(n.children) {
		return nil, nodeError("Child", n, fmt.Errorf("%w: %d of %d", ErrIndex, i, len(n.children)))
	}
	return n.scene.Node(n.children[i]), nil
}

// Children returns the children, in order.
func (n *Node) Children() []*Node {
	cs := make([]*Node, 0, len(n.children))
	for _, cid := range n.children {
		if c := n.scene.Node(cid); c != nil {
			cs = append(cs, c)
		}
	}
	return cs
}

// AddChild appends the given node to the children of this node.
// It is an [ErrStructural] error for the child to be this node or one of
// its ancestors, or to be in another scene; the graph is then unchanged.
// A child that already has a parent is first removed from it.
func (n *Node) AddChild(child *Node) error {
	if n.scene == nil || child == nil || child.scene == nil {
		return nodeError("AddChild", n, ErrStaleNode)
	}
	if child.scene != n.scene {
		return nodeError("AddChild", n, fmt.Errorf("%w: %q is in another scene", ErrStructural, child.Name))
	}
	for an := n; an != nil; an = an.Parent() {
		if an == child {
			return nodeError("AddChild", n, fmt.Errorf("%w: adding %q would create a cycle", ErrStructural, child.Name))
		}
	}
	if p := child.Parent(); p != nil {
		p.RemoveChild(child)
	}
	n.children = append(n.children, child.id)
	child.parent = n.id
	child.invalidateWorld()
	child.markBoundsDirty()
	return nil
}

// RemoveChild removes the given node from the children of this node.
// It does nothing if the child's parent is not this node.
func (n *Node) RemoveChild(child *Node) {
	if child == nil || n.scene == nil || child.parent != n.id {
		return
	}
	n.children = slices.DeleteFunc(n.children, func(id NodeID) bool { return id == child.id })
	child.parent = NodeID{}
	n.markBoundsDirty()
	child.invalidateWorld()
}

// IndexInParent returns the index of this node in its parent's
// children, or -1 for a root.
func (n *Node) IndexInParent() int {
	p := n.Parent()
	if p == nil {
		return -1
	}
	return slices.Index(p.children, n.id)
}

// WalkDown calls the given function on this node and all of its
// descendants, in depth-first pre-order. If the function returns
// [Break], the children of that node are not visited.
func (n *Node) WalkDown(fun func(n *Node) bool) {
	if !fun(n) {
		return
	}
	for _, c := range n.Children() {
		c.WalkDown(fun)
	}
}

// WalkUp calls the given function on this node and each of its
// ancestors in turn, until the function returns [Break].
// It returns false if the walk was stopped.
func (n *Node) WalkUp(fun func(n *Node) bool) bool {
	for cn := n; cn != nil; cn = cn.Parent() {
		if !fun(cn) {
			return false
		}
	}
	return true
}

// Path returns the path to this node from its root, as the slash
// separated names of the nodes, starting with a slash.
func (n *Node) Path() string {
	var names []string
	n.WalkUp(func(an *Node) bool {
		names = append(names, an.Name)
		return Continue
	})
	slices.Reverse(names)
	return "/" + strings.Join(names, "/")
}

// String returns the path of the node.
func (n *Node) String() string {
	return n.Path()
}
