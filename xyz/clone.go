// Copyright (c) 2019, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package xyz

// Clone returns a deep copy of the subtree rooted at the given node,
// detached from any parent. The copies have the same names, poses and
// LOD ranges, and new drawables sharing the geometry and material of
// the originals. Visibility and occlusion query state are not copied.
func (sc *Scene) Clone(n *Node) (*Node, error) {
	if !sc.owns(n) {
		return nil, nodeError("Clone", n, ErrStaleNode)
	}
	return sc.cloneNode(n), nil
}

func (sc *Scene) cloneNode(n *Node) *Node {
	cn := sc.NewNode(n.Name)
	cn.pos = n.pos
	cn.scale = n.scale
	cn.quat = n.quat
	cn.lod = n.lod
	cn.lodActive = n.lodActive
	if d := n.drawable; d != nil {
		cn.AttachDrawable(NewDrawable(d.Name, d.Geometry, d.Material))
	}
	for _, c := range n.Children() {
		cc := sc.cloneNode(c)
		cn.children = append(cn.children, cc.id)
		cc.parent = cn.id
	}
	return cn
}
